package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/appforge/collabhub/internal/core"
)

type connEntry struct {
	Conn   core.Connection
	Signal core.SignalConnection
	Cancel context.CancelFunc
}

// Registry tracks live connections and their authenticated identities.
// Entries are 1:1 with open network connections.
type Registry struct {
	mu    sync.RWMutex
	conns map[core.ConnID]*connEntry
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[core.ConnID]*connEntry)}
}

func (r *Registry) Bind(conn core.Connection, sig core.SignalConnection, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[conn.ID] = &connEntry{Conn: conn, Signal: sig, Cancel: cancel}
	log.Info().Str("module", "app.registry").Str("conn", string(conn.ID)).Str("user", string(conn.User.ID)).Msg("bound connection")
}

// Unbind atomically removes the entry. The second return is false when the
// connection was already gone, which makes duplicate disconnect signals safe.
func (r *Registry) Unbind(id core.ConnID) (core.Connection, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[id]
	if !ok {
		return core.Connection{}, false
	}
	delete(r.conns, id)
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("unbound connection")
	return e.Conn, true
}

func (r *Registry) Get(id core.ConnID) (core.Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.conns[id]; ok {
		return e.Conn, true
	}
	return core.Connection{}, false
}

func (r *Registry) SignalOf(id core.ConnID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.conns[id]; ok {
		return e.Signal, true
	}
	return nil, false
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

type connSnap struct {
	ID     core.ConnID
	Conn   core.Connection
	Signal core.SignalConnection
}

// Snapshot returns all live connections for global fanout. Sends happen
// outside the registry lock.
func (r *Registry) Snapshot() []connSnap {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]connSnap, 0, len(r.conns))
	for id, e := range r.conns {
		out = append(out, connSnap{ID: id, Conn: e.Conn, Signal: e.Signal})
	}
	return out
}

// Cancel fires the connection's cancel func, which tears down its pumps and
// routes it through the normal disconnect path.
func (r *Registry) Cancel(id core.ConnID) bool {
	r.mu.RLock()
	e, ok := r.conns[id]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("canceled connection")
	return true
}
