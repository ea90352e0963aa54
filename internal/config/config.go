// Package config holds the engine's startup configuration. Options are
// resolved once from a JSON file and never mutated at runtime.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultMaxAssignmentsPerAgent bounds how many OPEN conversations an
// AGENT-role user can hold at once.
const DefaultMaxAssignmentsPerAgent = 3

// Config represents the flat dispatch configuration.
type Config struct {
	Version                string `json:"version"`
	DBPath                 string `json:"db_path,omitempty"`  // empty = default under $HOME/.dispatch
	AMQPURL                string `json:"amqp_url,omitempty"` // empty disables notifications
	Exchange               string `json:"exchange,omitempty"` // topic exchange for notifications
	MaxAssignmentsPerAgent int    `json:"max_assignments_per_agent"`
}

// LoadConfig reads .dispatch/config.json from the specified directory.
// A missing file yields the defaults; a present but malformed file is an
// error.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ".dispatch", "config.json")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.MaxAssignmentsPerAgent <= 0 {
		cfg.MaxAssignmentsPerAgent = DefaultMaxAssignmentsPerAgent
	}
	if cfg.Exchange == "" {
		cfg.Exchange = "dispatch.events"
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Version:                "1",
		Exchange:               "dispatch.events",
		MaxAssignmentsPerAgent: DefaultMaxAssignmentsPerAgent,
	}
}

// SaveConfig writes config.json to directory.
func SaveConfig(dir string, cfg *Config) error {
	configDir := filepath.Join(dir, ".dispatch")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create .dispatch dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(configDir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
