package app

import (
	"sync"

	"github.com/appforge/collabhub/internal/domain"
)

// Presence tracks a coarse per-user status, independent of room membership.
// Entries are never deleted; last write wins, and a reconnect simply
// overwrites whatever was there.
type Presence struct {
	mu     sync.RWMutex
	status map[domain.UserID]domain.PresenceStatus
}

func NewPresence() *Presence {
	return &Presence{status: make(map[domain.UserID]domain.PresenceStatus)}
}

func (p *Presence) Set(uid domain.UserID, s domain.PresenceStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status[uid] = s
}

func (p *Presence) Get(uid domain.UserID) domain.PresenceStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if s, ok := p.status[uid]; ok {
		return s
	}
	return domain.PresenceOffline
}

// Snapshot returns a copy of all known userId→status pairs.
func (p *Presence) Snapshot() map[domain.UserID]domain.PresenceStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[domain.UserID]domain.PresenceStatus, len(p.status))
	for uid, s := range p.status {
		out[uid] = s
	}
	return out
}

func (p *Presence) OnlineCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	n := 0
	for _, s := range p.status {
		if s == domain.PresenceOnline {
			n++
		}
	}
	return n
}
