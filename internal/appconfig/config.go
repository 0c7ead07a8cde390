package appconfig

import (
	"os"
	"path/filepath"
	"time"

	"pkt.systems/coxswain/schema"
)

// Config is the top-level application configuration.
type Config struct {
	ConfigVersion int                `mapstructure:"config_version" yaml:"config_version"`
	StateDir      string             `mapstructure:"state_dir" yaml:"state_dir"`
	DemoMode      bool               `mapstructure:"demo_mode" yaml:"demo_mode"`
	Orchestrator  OrchestratorConfig `mapstructure:"orchestrator" yaml:"orchestrator"`
	Health        HealthConfig       `mapstructure:"health" yaml:"health"`
	HTTP          HTTPConfig         `mapstructure:"http" yaml:"http"`
}

// CurrentConfigVersion marks the supported config version.
const CurrentConfigVersion = 1

// OrchestratorConfig configures the orchestrator gateway connection.
type OrchestratorConfig struct {
	Endpoint              string `mapstructure:"endpoint" yaml:"endpoint"`
	UserID                string `mapstructure:"user_id" yaml:"user_id"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds" yaml:"request_timeout_seconds"`
}

// HealthConfig configures the recurring connection probe.
type HealthConfig struct {
	IntervalSeconds int `mapstructure:"interval_seconds" yaml:"interval_seconds"`
}

// HTTPConfig configures the local HTTP server.
type HTTPConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, err
	}
	return Config{
		ConfigVersion: CurrentConfigVersion,
		StateDir:      filepath.Join(home, ".coxswain", "state"),
		DemoMode:      false,
		Orchestrator: OrchestratorConfig{
			UserID:                string(schema.DefaultUserID),
			RequestTimeoutSeconds: int(schema.DefaultRequestTimeout / time.Second),
		},
		Health: HealthConfig{
			IntervalSeconds: int(schema.DefaultHealthInterval / time.Second),
		},
		HTTP: HTTPConfig{
			Addr: "127.0.0.1:8791",
		},
	}, nil
}

// DefaultConfigPath returns the standard config path.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".coxswain", "config.yaml"), nil
}

// SyncConfig converts the file representation to the sync layer config.
func (c Config) SyncConfig() schema.SyncConfig {
	return schema.SyncConfig{
		Endpoint:       c.Orchestrator.Endpoint,
		UserID:         schema.UserID(c.Orchestrator.UserID),
		DemoMode:       c.DemoMode,
		HealthInterval: time.Duration(c.Health.IntervalSeconds) * time.Second,
		RequestTimeout: time.Duration(c.Orchestrator.RequestTimeoutSeconds) * time.Second,
		StateDir:       c.StateDir,
	}
}
