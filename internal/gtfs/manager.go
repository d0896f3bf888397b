package gtfs

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/holoholo-transit/planner/internal/transit"
)

// Manager owns the current snapshot and refreshes it in the background when
// the feed source is remote. Refreshing builds a whole new snapshot and
// swaps the pointer atomically; a snapshot handed to a caller is never
// mutated afterwards, so in-flight requests keep a consistent view.
type Manager struct {
	source       string
	config       Config
	logger       *slog.Logger
	snapshot     atomic.Pointer[transit.Snapshot]
	lastUpdated  atomic.Pointer[time.Time]
	shutdownChan chan struct{}
	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

// InitManager loads the initial snapshot and, for remote sources, starts
// the periodic refresh goroutine.
func InitManager(config Config, logger *slog.Logger) (*Manager, error) {
	snap, err := LoadSnapshot(config.StaticSource)
	if err != nil {
		return nil, err
	}

	m := NewManagerWithSnapshot(config, logger, snap)
	m.StartRefresh()
	return m, nil
}

// StartRefresh starts the periodic refresh goroutine. It is a no-op for
// local file sources, which never change underneath us.
func (m *Manager) StartRefresh() {
	if IsLocalSource(m.source) {
		return
	}
	m.wg.Add(1)
	go m.refreshPeriodically()
}

// NewManagerWithSnapshot wraps an already built snapshot without starting
// any background work. Used when the snapshot comes from the sqlite store
// or from test fixtures.
func NewManagerWithSnapshot(config Config, logger *slog.Logger, snap *transit.Snapshot) *Manager {
	m := &Manager{
		source:       config.StaticSource,
		config:       config,
		logger:       logger,
		shutdownChan: make(chan struct{}),
	}
	m.setSnapshot(snap)
	return m
}

// Snapshot returns the current snapshot. The returned value stays valid and
// internally consistent even if a refresh swaps in a newer one.
func (m *Manager) Snapshot() *transit.Snapshot {
	return m.snapshot.Load()
}

// LastUpdated reports when the current snapshot was installed.
func (m *Manager) LastUpdated() time.Time {
	if t := m.lastUpdated.Load(); t != nil {
		return *t
	}
	return time.Time{}
}

// Shutdown stops the refresh goroutine and waits for it to exit.
func (m *Manager) Shutdown() {
	m.shutdownOnce.Do(func() {
		close(m.shutdownChan)
		m.wg.Wait()
	})
}

func (m *Manager) setSnapshot(snap *transit.Snapshot) {
	m.snapshot.Store(snap)
	now := time.Now()
	m.lastUpdated.Store(&now)

	if m.config.Verbose && m.logger != nil {
		m.logger.Info("transit snapshot installed",
			"source", m.source,
			"stops", len(snap.Stops()),
			"routes", len(snap.Routes()),
		)
	}
}

func (m *Manager) refreshPeriodically() {
	defer m.wg.Done()

	interval := m.config.RefreshInterval
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			snap, err := LoadSnapshot(m.source)
			if err != nil {
				if m.logger != nil {
					m.logger.Error("error refreshing transit snapshot", "error", err, "source", m.source)
				}
				continue
			}
			m.setSnapshot(snap)
		case <-m.shutdownChan:
			if m.logger != nil {
				m.logger.Info("shutting down snapshot refresh")
			}
			return
		}
	}
}
