// Package config loads server and client settings. Sources are applied in
// order of increasing priority: defaults, a JSON file, environment
// variables (optionally from a .env file), command-line flags.
package config

import (
	"errors"
	"flag"
	"io/fs"
	"log"
	"os"
	"reflect"
	"time"

	env "github.com/caarlos0/env/v6"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds the server settings.
type Config struct {
	ConfigFile               string        `env:"CONFIG"`
	RunAddr                  string        `env:"SERVER_ADDRESS" validate:"hostname_port"`
	GRPCAddr                 string        `env:"GRPC_ADDRESS" validate:"omitempty,hostname_port"`
	LogLevel                 string        `env:"LOG_LEVEL" validate:"loglevel"`
	DBFileName               string        `env:"FILE_STORAGE_PATH" validate:"omitempty,storagepath"`
	SQLitePath               string        `env:"SQLITE_PATH"`
	DatabaseDSN              string        `env:"DATABASE_DSN"`
	DBConnectionTimeout      time.Duration `env:"DB_CONNECTION_TIMEOUT" validate:"gt=0"`
	AMQPURL                  string        `env:"AMQP_URL" validate:"omitempty,url"`
	EventsQueue              string        `env:"EVENTS_QUEUE" validate:"required"`
	ChannelCapacity          int           `env:"CHANNEL_CAPACITY" validate:"gt=0"`
	DelayBetweenQueueFetches time.Duration `env:"DELAY_BETWEEN_QUEUE_FETCHES" validate:"gt=0"`
	EventsPublishTimeout     time.Duration `env:"EVENTS_PUBLISH_TIMEOUT" validate:"gt=0"`
	AllowedOrigins           []string      `env:"ALLOWED_ORIGINS" envSeparator:","`
}

var defaultConfig = Config{
	RunAddr:                  ":3000",
	LogLevel:                 "info",
	DBConnectionTimeout:      10 * time.Second,
	EventsQueue:              "user_events",
	ChannelCapacity:          100,
	DelayBetweenQueueFetches: time.Second,
	EventsPublishTimeout:     5 * time.Second,
	AllowedOrigins:           []string{"*"},
}

type InitOption func(*initOptions)

type initOptions struct {
	disableFlagsParsing bool
}

// WithDisableFlagsParsing skips os.Args. Tests use it.
func WithDisableFlagsParsing(disableFlagsParsing bool) InitOption {
	return func(options *initOptions) {
		options.disableFlagsParsing = disableFlagsParsing
	}
}

// New builds the server configuration.
func New(optionsProto ...InitOption) (*Config, error) {
	options := collectOptions(optionsProto)

	loadDotEnv()

	var fromFlags Config
	if !options.disableFlagsParsing {
		flags := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
		flags.StringVar(&fromFlags.ConfigFile, "c", "", "path to a JSON configuration file")
		flags.StringVar(&fromFlags.RunAddr, "a", "", "address and port to run server")
		flags.StringVar(&fromFlags.GRPCAddr, "g", "", "address and port of the gRPC server, empty disables it")
		flags.StringVar(&fromFlags.LogLevel, "l", "", "logger level")
		flags.StringVar(&fromFlags.DBFileName, "f", "", "JSON file name with database")
		flags.StringVar(&fromFlags.SQLitePath, "s", "", "SQLite database file")
		flags.StringVar(&fromFlags.DatabaseDSN, "d", "", "A string with the database connection details")
		flags.StringVar(&fromFlags.AMQPURL, "q", "", "AMQP broker URL for user events")
		if err := flags.Parse(os.Args[1:]); err != nil {
			return nil, err
		}
	}

	var fromEnv Config
	if err := env.Parse(&fromEnv); err != nil {
		return nil, err
	}

	values := Config{}
	applyDefaults(&values, defaultConfig)

	configFile := fromEnv.ConfigFile
	if fromFlags.ConfigFile != "" {
		configFile = fromFlags.ConfigFile
	}
	if configFile != "" {
		fromJSON, err := parseServerJSON(configFile)
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

func collectOptions(optionsProto []InitOption) *initOptions {
	options := &initOptions{
		disableFlagsParsing: false,
	}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	return options
}

func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Unable to load .env file: %v", err)
	}
}

// applyDefaults fills every zero field of values from defaults.
func applyDefaults[T any](values *T, defaults T) {
	dst := reflect.ValueOf(values).Elem()
	src := reflect.ValueOf(defaults)
	for i := 0; i < dst.NumField(); i++ {
		if dst.Field(i).IsZero() {
			dst.Field(i).Set(src.Field(i))
		}
	}
}

// overrideWith copies every non-zero field of src into values.
func overrideWith[T any](values *T, src T) {
	dst := reflect.ValueOf(values).Elem()
	from := reflect.ValueOf(src)
	for i := 0; i < dst.NumField(); i++ {
		if !from.Field(i).IsZero() {
			dst.Field(i).Set(from.Field(i))
		}
	}
}

func validateStoragePath(fieldLevel validator.FieldLevel) bool {
	path := fieldLevel.Field().String()
	info, err := os.Stat(path)
	if err != nil {
		return os.IsNotExist(err)
	}

	return !info.IsDir()
}

func validateLogLevel(fieldLevel validator.FieldLevel) bool {
	value := fieldLevel.Field().String()

	allowedLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"fatal": true,
	}

	return allowedLogLevels[value]
}

func validate(values interface{}) error {
	validate := validator.New()

	err := validate.RegisterValidation("loglevel", validateLogLevel)
	if err != nil {
		return err
	}

	err = validate.RegisterValidation("storagepath", validateStoragePath)
	if err != nil {
		return err
	}

	return validate.Struct(values)
}
