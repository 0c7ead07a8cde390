package core

import (
	"context"
	"sync"

	"pkt.systems/coxswain/internal/fixture"
	"pkt.systems/coxswain/internal/orchclient"
	"pkt.systems/coxswain/internal/persist"
	"pkt.systems/coxswain/schema"
	"pkt.systems/pslog"
)

// Provider selects and holds the process-wide data source. The choice
// between fixture and live is made exactly once, at first use; toggling
// modes requires a restart.
type Provider struct {
	cfg    schema.SyncConfig
	logger pslog.Logger

	once   sync.Once
	source DataSource
	err    error
}

// NewProvider constructs a provider from normalized configuration.
func NewProvider(cfg schema.SyncConfig, logger pslog.Logger) *Provider {
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &Provider{cfg: cfg, logger: logger}
}

// Source returns the selected data source, constructing it on first call.
// Every subsequent call returns the same instance.
func (p *Provider) Source() (DataSource, error) {
	p.once.Do(func() {
		p.source, p.err = p.build()
	})
	return p.source, p.err
}

// Close releases the selected data source, if one was built.
func (p *Provider) Close() error {
	if p.source == nil {
		return nil
	}
	return p.source.Close()
}

func (p *Provider) build() (DataSource, error) {
	if p.cfg.DemoMode {
		var store *persist.Store
		if p.cfg.StateDir != "" {
			var err error
			store, err = persist.NewStoreWithLogger(p.cfg.StateDir, p.logger)
			if err != nil {
				return nil, err
			}
		}
		p.logger.Info("data source selected", "mode", "fixture", "state_dir", p.cfg.StateDir)
		return fixture.NewSource(store, p.logger), nil
	}
	client, err := orchclient.New(orchclient.Config{
		Endpoint: p.cfg.Endpoint,
		UserID:   string(p.cfg.UserID),
		Timeout:  p.cfg.RequestTimeout,
	})
	if err != nil {
		return nil, err
	}
	p.logger.Info("data source selected", "mode", "live", "endpoint", p.cfg.Endpoint)
	return NewLiveSource(client, p.cfg.UserID, p.logger), nil
}
