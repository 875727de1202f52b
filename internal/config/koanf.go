// SSReports - Field Sales Checkin Analytics and Reporting
// Copyright 2026 SSReports contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ssreports/ssreports

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/ssreports/config.yaml",
	"/etc/ssreports/config.yml",
}

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Load builds the configuration from defaults, an optional YAML file, and
// environment variables, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: optional config file
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority).
	// SERVER_PORT -> server.port, SYNC_SOURCE_URL -> sync.source_url, etc.
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration struct tags and cross-field rules.
func Validate(cfg *Config) error {
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if !cfg.Security.AuthDisabled && cfg.Security.JWTSecret == "" {
		return fmt.Errorf("invalid configuration: security.jwt_secret is required unless security.auth_disabled is set")
	}

	if cfg.Sync.Enabled && cfg.Sync.SourceDir == "" && cfg.Sync.SourceURL == "" {
		return fmt.Errorf("invalid configuration: sync requires source_dir or source_url")
	}

	return nil
}

// findConfigFile returns the config file path to use, or empty string.
func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		return path
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransformFunc maps environment variable names onto koanf paths.
// The first underscore separates the section from the key:
// SERVER_PORT -> server.port, SECURITY_JWT_SECRET -> security.jwt_secret.
// JWT_SECRET and similar bare names are accepted as shorthand for their
// well-known sections for compatibility with existing deployments.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	// Shorthand names used by existing deployments.
	switch key {
	case "jwt_secret":
		return "security.jwt_secret"
	case "admin_email":
		return "security.admin_email"
	case "admin_password":
		return "security.admin_password"
	case "database_path":
		return "database.path"
	case "log_level":
		return "logging.level"
	case "log_format":
		return "logging.format"
	}

	sections := []string{"server", "database", "security", "sync", "analytics", "logging"}
	for _, section := range sections {
		prefix := section + "_"
		if strings.HasPrefix(key, prefix) {
			return section + "." + strings.TrimPrefix(key, prefix)
		}
	}

	// Unknown variables map to nothing koanf knows about and are ignored.
	return key
}
