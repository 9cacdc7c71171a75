package config

import (
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// fileOverrides mirrors Config with pointer fields so only keys present in
// the YAML file override environment values.
type fileOverrides struct {
	APIPort  *string `yaml:"api_port"`
	LogLevel *string `yaml:"log_level"`

	PostgresDSN *string `yaml:"postgres_dsn"`

	NATSURL     *string `yaml:"nats_url"`
	NATSSubject *string `yaml:"nats_subject"`

	StoragePath *string `yaml:"storage_path"`

	DoclingURL            *string `yaml:"docling_url"`
	DoclingTimeoutSeconds *int    `yaml:"docling_timeout_seconds"`

	APIRateLimitRPS   *int `yaml:"api_rate_limit_rps"`
	APIRateLimitBurst *int `yaml:"api_rate_limit_burst"`
	APIMaxInFlight    *int `yaml:"api_max_in_flight"`

	ExportLimit *int `yaml:"export_limit"`

	WorkerMetricsPort           *string `yaml:"worker_metrics_port"`
	WorkerProcessTimeoutSeconds *int    `yaml:"worker_process_timeout_seconds"`
}

func applyFileOverrides(cfg *Config, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("config_file_unreadable", "path", path, "error", err)
		return
	}

	var overrides fileOverrides
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		slog.Warn("config_file_invalid", "path", path, "error", err)
		return
	}

	setString(&cfg.APIPort, overrides.APIPort)
	setString(&cfg.LogLevel, overrides.LogLevel)
	setString(&cfg.PostgresDSN, overrides.PostgresDSN)
	setString(&cfg.NATSURL, overrides.NATSURL)
	setString(&cfg.NATSSubject, overrides.NATSSubject)
	setString(&cfg.StoragePath, overrides.StoragePath)
	setString(&cfg.DoclingURL, overrides.DoclingURL)
	setInt(&cfg.DoclingTimeoutSeconds, overrides.DoclingTimeoutSeconds)
	setInt(&cfg.APIRateLimitRPS, overrides.APIRateLimitRPS)
	setInt(&cfg.APIRateLimitBurst, overrides.APIRateLimitBurst)
	setInt(&cfg.APIMaxInFlight, overrides.APIMaxInFlight)
	setInt(&cfg.ExportLimit, overrides.ExportLimit)
	setString(&cfg.WorkerMetricsPort, overrides.WorkerMetricsPort)
	setInt(&cfg.WorkerProcessTimeoutSeconds, overrides.WorkerProcessTimeoutSeconds)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}
