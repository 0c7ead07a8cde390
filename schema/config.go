package schema

import (
	"errors"
	"time"
)

// SyncConfig defines defaults and limits for the sync layer.
type SyncConfig struct {
	// Endpoint is the orchestrator base URL. Required unless DemoMode.
	Endpoint string
	// UserID tags created sessions. Placeholder pending real
	// authentication.
	UserID UserID
	// DemoMode selects the fixture-backed data source.
	DemoMode bool
	// HealthInterval is the recurring probe period.
	HealthInterval time.Duration
	// RequestTimeout bounds individual orchestrator calls.
	RequestTimeout time.Duration
	// StateDir holds fixture state in demo mode.
	StateDir string
}

// DefaultHealthInterval is the recurring health probe period.
const DefaultHealthInterval = 30 * time.Second

// DefaultRequestTimeout bounds a single orchestrator request.
const DefaultRequestTimeout = 15 * time.Second

// DefaultUserID is the fixed placeholder user pending real authentication.
const DefaultUserID UserID = "default-user"

// NormalizeSyncConfig applies defaults and validates the config.
func NormalizeSyncConfig(cfg SyncConfig) (SyncConfig, error) {
	if cfg.UserID == "" {
		cfg.UserID = DefaultUserID
	}
	if cfg.HealthInterval <= 0 {
		cfg.HealthInterval = DefaultHealthInterval
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if !cfg.DemoMode && cfg.Endpoint == "" {
		return SyncConfig{}, errors.New("orchestrator endpoint is required outside demo mode")
	}
	return cfg, nil
}
