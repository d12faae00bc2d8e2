// Package netmon tracks reachability of the go-note-keeper server.
//
// A [Monitor] holds a single boolean connectivity state and notifies
// subscribers only on transitions (offline to online and back), never on
// repeated confirmations of the same state. State can change two ways: a
// periodic probe via the configured [Pinger], or a direct report from request
// outcomes through [Monitor.SetOnline] — a failed sync call is itself
// evidence of being offline, without waiting for the next probe tick.
package netmon

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-note-keeper/internal/logger"
)

//go:generate mockgen -source=netmon.go -destination=../mock/netmon_mock.go -package=mock

// Pinger probes server reachability. Implemented by the server adapter.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Listener receives connectivity transitions. online is the new state.
type Listener func(online bool)

// Monitor is a thread-safe connectivity tracker. The zero value is not
// usable; construct with [NewMonitor]. A new Monitor starts in the online
// state so that the first operation is attempted directly rather than queued.
type Monitor struct {
	pinger   Pinger
	interval time.Duration

	mu        sync.RWMutex
	online    bool
	lastFlip  time.Time
	listeners []Listener

	logger *logger.Logger
}

// NewMonitor constructs a Monitor that probes pinger every interval when run.
func NewMonitor(pinger Pinger, interval time.Duration, logger *logger.Logger) *Monitor {
	return &Monitor{
		pinger:   pinger,
		interval: interval,
		online:   true,
		logger:   logger,
	}
}

// IsOnline returns the current connectivity state.
func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.online
}

// Subscribe registers fn to be called on every connectivity transition. The
// callback runs synchronously under no lock; it must not block for long.
// Subscribe is not safe to call concurrently with notifications in flight
// from the same goroutine graph that registers late; register listeners
// before calling Run.
func (m *Monitor) Subscribe(fn Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// SetOnline reports an observed connectivity state. If the state differs from
// the current one the transition is recorded and all listeners are notified;
// repeated reports of the same state are ignored.
func (m *Monitor) SetOnline(online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}

	m.online = online
	m.lastFlip = time.Now()
	listeners := make([]Listener, len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	m.logger.Info().Bool("online", online).Msg("connectivity changed")

	for _, fn := range listeners {
		fn(online)
	}
}

// Run probes the server every interval until ctx is cancelled. Each probe
// outcome is folded into the state via SetOnline, so transitions detected by
// probing and transitions reported by request outcomes share one path.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Probe(ctx)
		}
	}
}

// Probe performs a single reachability check and updates the state.
func (m *Monitor) Probe(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, m.interval)
	defer cancel()

	err := m.pinger.Ping(probeCtx)
	m.SetOnline(err == nil)
}
