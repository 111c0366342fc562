package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Duration accepts both "1.5s"-style strings and integer nanoseconds in JSON.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

type serverJSON struct {
	RunAddr                  string   `json:"server_address"`
	GRPCAddr                 string   `json:"grpc_address"`
	LogLevel                 string   `json:"log_level"`
	DBFileName               string   `json:"file_storage_path"`
	SQLitePath               string   `json:"sqlite_path"`
	DatabaseDSN              string   `json:"database_dsn"`
	DBConnectionTimeout      Duration `json:"db_connection_timeout"`
	AMQPURL                  string   `json:"amqp_url"`
	EventsQueue              string   `json:"events_queue"`
	ChannelCapacity          int      `json:"channel_capacity"`
	DelayBetweenQueueFetches Duration `json:"delay_between_queue_fetches"`
	EventsPublishTimeout     Duration `json:"events_publish_timeout"`
	AllowedOrigins           []string `json:"allowed_origins"`
}

type clientJSON struct {
	ServerURL      string   `json:"server_url"`
	LogLevel       string   `json:"log_level"`
	RequestTimeout Duration `json:"request_timeout"`
}

func readJSON(fileName string, target interface{}) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return fmt.Errorf("in internal/config/json.go/readJSON(): error while `os.ReadFile()` calling: %w", err)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("in internal/config/json.go/readJSON(): %s: %w", fileName, err)
	}

	return nil
}

func parseServerJSON(fileName string) (Config, error) {
	var c serverJSON
	if err := readJSON(fileName, &c); err != nil {
		return Config{}, err
	}

	return Config{
		RunAddr:                  c.RunAddr,
		GRPCAddr:                 c.GRPCAddr,
		LogLevel:                 c.LogLevel,
		DBFileName:               c.DBFileName,
		SQLitePath:               c.SQLitePath,
		DatabaseDSN:              c.DatabaseDSN,
		DBConnectionTimeout:      c.DBConnectionTimeout.Duration,
		AMQPURL:                  c.AMQPURL,
		EventsQueue:              c.EventsQueue,
		ChannelCapacity:          c.ChannelCapacity,
		DelayBetweenQueueFetches: c.DelayBetweenQueueFetches.Duration,
		EventsPublishTimeout:     c.EventsPublishTimeout.Duration,
		AllowedOrigins:           c.AllowedOrigins,
	}, nil
}

func parseClientJSON(fileName string) (ClientConfig, error) {
	var c clientJSON
	if err := readJSON(fileName, &c); err != nil {
		return ClientConfig{}, err
	}

	return ClientConfig{
		ServerURL:      c.ServerURL,
		LogLevel:       c.LogLevel,
		RequestTimeout: c.RequestTimeout.Duration,
	}, nil
}
