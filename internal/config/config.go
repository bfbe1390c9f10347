package config

import (
	"encoding/json"
	"fmt"
)

// DefaultModel is used when MODEL_DEPLOYMENT_NAME is not set. It only
// matters when a new agent is created; reused agents keep their own model.
const DefaultModel = "gpt-5-mini"

// Config represents the main Eigo configuration
type Config struct {
	// Endpoint is the base URL of the hosted agent service (PROJECT_ENDPOINT)
	Endpoint string `json:"endpoint" mapstructure:"endpoint"`

	// Model is the deployment name used when creating a new agent (MODEL_DEPLOYMENT_NAME)
	Model string `json:"model" mapstructure:"model"`

	// AgentID reuses an existing agent instead of creating one (AGENT_ID)
	AgentID string `json:"agent_id" mapstructure:"agent_id"`

	// APIKey is the bearer credential for the service (OPENAI_API_KEY)
	APIKey string `json:"api_key" mapstructure:"api_key"`

	// Data directory
	DataDir string `json:"data_dir" mapstructure:"data_dir"`

	// Logging configuration
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`

	// History configuration
	History HistoryConfig `json:"history" mapstructure:"history"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `json:"level" mapstructure:"level"`
	File   string `json:"file" mapstructure:"file"`
	Pretty bool   `json:"pretty" mapstructure:"pretty"`
}

// HistoryConfig holds local transcript archive configuration
type HistoryConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Path    string `json:"path" mapstructure:"path"`
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		Model: DefaultModel,
		Logging: LoggingConfig{
			Level:  "info",
			Pretty: true,
		},
		History: HistoryConfig{
			Enabled: true,
		},
	}
}

// String returns a JSON representation of the config
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}

// Validate checks if the configuration is valid. It runs before any remote
// call is attempted, so a missing endpoint aborts the process up front.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("environment variable PROJECT_ENDPOINT is not set")
	}
	if c.Model == "" {
		return fmt.Errorf("model deployment name cannot be empty")
	}
	return nil
}
