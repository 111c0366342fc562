package config

import (
	"flag"
	"os"
	"time"

	env "github.com/caarlos0/env/v6"
)

// ClientConfig holds the terminal client settings. A zero RequestTimeout
// means requests never time out.
type ClientConfig struct {
	ConfigFile     string        `env:"CONFIG"`
	ServerURL      string        `env:"USERDIR_SERVER_URL" validate:"url"`
	LogLevel       string        `env:"LOG_LEVEL" validate:"loglevel"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" validate:"gte=0"`
}

var defaultClientConfig = ClientConfig{
	ServerURL: "http://localhost:3000",
	LogLevel:  "error",
}

// NewClient builds the client configuration.
func NewClient(optionsProto ...InitOption) (*ClientConfig, error) {
	options := collectOptions(optionsProto)

	loadDotEnv()

	var fromFlags ClientConfig
	if !options.disableFlagsParsing {
		flags := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
		flags.StringVar(&fromFlags.ConfigFile, "c", "", "path to a JSON configuration file")
		flags.StringVar(&fromFlags.ServerURL, "s", "", "base URL of the userdir server")
		flags.StringVar(&fromFlags.LogLevel, "l", "", "logger level")
		flags.DurationVar(&fromFlags.RequestTimeout, "t", 0, "request timeout, 0 disables it")
		if err := flags.Parse(os.Args[1:]); err != nil {
			return nil, err
		}
	}

	var fromEnv ClientConfig
	if err := env.Parse(&fromEnv); err != nil {
		return nil, err
	}

	values := ClientConfig{}
	applyDefaults(&values, defaultClientConfig)

	configFile := fromEnv.ConfigFile
	if fromFlags.ConfigFile != "" {
		configFile = fromFlags.ConfigFile
	}
	if configFile != "" {
		fromJSON, err := parseClientJSON(configFile)
		if err != nil {
			return nil, err
		}
		overrideWith(&values, fromJSON)
	}

	overrideWith(&values, fromEnv)
	overrideWith(&values, fromFlags)
	values.ConfigFile = configFile

	if err := validate(values); err != nil {
		return nil, err
	}

	return &values, nil
}
