// Command staticlint runs the analyzers this project is checked with in a
// single multichecker binary: a set of standard passes, ineffassign, nilerr,
// the project's own noexit check and the staticcheck analyzers listed in
// config.json next to the executable.
//
//	go build -o bin/staticlint ./cmd/staticlint && cp cmd/staticlint/config.json bin/
//	bin/staticlint ./...
package main

import (
	"encoding/json"
	"os"
	"path/filepath"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"
	"golang.org/x/tools/go/analysis/passes/copylock"
	"golang.org/x/tools/go/analysis/passes/errorsas"
	"golang.org/x/tools/go/analysis/passes/httpresponse"
	"golang.org/x/tools/go/analysis/passes/loopclosure"
	"golang.org/x/tools/go/analysis/passes/lostcancel"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/structtag"
	"golang.org/x/tools/go/analysis/passes/unmarshal"
	"golang.org/x/tools/go/analysis/passes/unreachable"

	"github.com/gordonklaus/ineffassign/pkg/ineffassign"
	"github.com/gostaticanalysis/nilerr"
	"honnef.co/go/tools/staticcheck"

	"github.com/patric-chuzhbe/userdir/cmd/staticlint/noexit"
)

// Config is the name of the JSON file that lists enabled staticcheck analyzers.
const Config = `config.json`

// ConfigData describes the configuration file. Staticcheck holds analyzer
// names such as "SA1000". When the file is absent every SA analyzer runs.
type ConfigData struct {
	Staticcheck []string
}

func loadConfig() (*ConfigData, error) {
	appfile, err := os.Executable()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(filepath.Dir(appfile), Config))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var cfg ConfigData
	if err = json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func selectStaticcheck(cfg *ConfigData) []*analysis.Analyzer {
	var selected []*analysis.Analyzer

	checks := make(map[string]bool)
	if cfg != nil {
		for _, v := range cfg.Staticcheck {
			checks[v] = true
		}
	}

	for _, v := range staticcheck.Analyzers {
		name := v.Analyzer.Name
		if (cfg == nil && len(name) > 2 && name[:2] == "SA") || checks[name] {
			selected = append(selected, v.Analyzer)
		}
	}

	return selected
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		panic(err)
	}

	myChecks := []*analysis.Analyzer{
		copylock.Analyzer,
		errorsas.Analyzer,
		httpresponse.Analyzer,
		loopclosure.Analyzer,
		lostcancel.Analyzer,
		printf.Analyzer,
		structtag.Analyzer,
		unmarshal.Analyzer,
		unreachable.Analyzer,

		ineffassign.Analyzer,
		nilerr.Analyzer,

		noexit.Analyzer,
	}

	myChecks = append(myChecks, selectStaticcheck(cfg)...)

	multichecker.Main(myChecks...)
}
