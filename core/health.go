package core

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"pkt.systems/coxswain/schema"
	"pkt.systems/pslog"
)

// StatusSink receives connection status transitions.
type StatusSink interface {
	OnStatusChange(event schema.StatusEvent)
}

// HealthMonitor owns the process-wide connection status. It probes the
// data source on a fixed period and on manual request, holds at most one
// probe in flight, and never escalates a probe failure: the monitor is
// advisory only. All writes to the status happen here; consumers read.
type HealthMonitor struct {
	source   DataSource
	interval time.Duration
	sink     StatusSink
	logger   pslog.Logger

	inFlight atomic.Bool

	mu       sync.Mutex
	status   schema.ConnectionStatus
	checking bool

	stop     chan struct{}
	stopOnce sync.Once
}

// NewHealthMonitor constructs a monitor in the disconnected state.
func NewHealthMonitor(source DataSource, interval time.Duration, sink StatusSink, logger pslog.Logger) *HealthMonitor {
	if interval <= 0 {
		interval = schema.DefaultHealthInterval
	}
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &HealthMonitor{
		source:   source,
		interval: interval,
		sink:     sink,
		logger:   logger,
		status:   schema.StatusDisconnected,
		stop:     make(chan struct{}),
	}
}

// Start begins the recurring probe loop. It returns immediately; the loop
// stops when ctx is canceled or Stop is called.
func (m *HealthMonitor) Start(ctx context.Context) {
	go func() {
		// Probe once up front so the status settles before the first tick.
		m.probe(ctx, false)
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.probe(ctx, false)
			case <-ctx.Done():
				return
			case <-m.stop:
				return
			}
		}
	}()
}

// Stop tears down the probe loop. In-flight probes complete and are
// discarded.
func (m *HealthMonitor) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
}

// Status returns the last settled connection status.
func (m *HealthMonitor) Status() schema.ConnectionStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Checking reports whether a manual check is in progress. It is tracked
// separately from the status so the UI can show a transient indicator
// without losing the last-known status.
func (m *HealthMonitor) Checking() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.checking
}

// CheckNow runs a manual probe and returns the settled status. If a probe
// is already outstanding the call is a no-op and returns the current
// status; two probes never run concurrently.
func (m *HealthMonitor) CheckNow(ctx context.Context) schema.ConnectionStatus {
	m.probe(ctx, true)
	return m.Status()
}

func (m *HealthMonitor) probe(ctx context.Context, manual bool) {
	if !m.inFlight.CompareAndSwap(false, true) {
		m.logger.Trace("health probe skipped", "reason", "in flight", "manual", manual)
		return
	}
	defer m.inFlight.Store(false)

	if manual {
		m.mu.Lock()
		m.checking = true
		m.mu.Unlock()
	}

	health, err := m.source.CheckHealth(ctx)
	next := probeOutcome(health, err)
	if err != nil {
		m.logger.Debug("health probe failed", "err", err, "status", next, "manual", manual)
	} else {
		m.logger.Trace("health probe ok", "state", health.State, "version", health.Version)
	}
	m.settle(next, manual)
}

func (m *HealthMonitor) settle(next schema.ConnectionStatus, manual bool) {
	m.mu.Lock()
	previous := m.status
	m.status = next
	if manual {
		m.checking = false
	}
	m.mu.Unlock()

	if previous != next {
		m.logger.Info("connection status changed", "from", previous, "to", next)
		if m.sink != nil {
			m.sink.OnStatusChange(schema.StatusEvent{
				Status:   next,
				Previous: previous,
				Manual:   manual,
				At:       time.Now(),
			})
		}
	}
}

// probeOutcome decides the settled status: success means connected, a
// structured (classified, non-network) failure means error, and anything
// else means disconnected.
func probeOutcome(health schema.Health, err error) schema.ConnectionStatus {
	if err == nil {
		if health.State == schema.HealthServing {
			return schema.StatusConnected
		}
		return schema.StatusError
	}
	var apiErr *schema.APIError
	if errors.As(err, &apiErr) && apiErr.Kind != schema.KindNetworkError {
		return schema.StatusError
	}
	return schema.StatusDisconnected
}
