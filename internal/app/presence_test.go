package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/appforge/collabhub/internal/domain"
)

func TestPresence_LastWriteWins(t *testing.T) {
	p := NewPresence()
	p.Set("u1", domain.PresenceOnline)
	p.Set("u1", domain.PresenceAway)

	assert.Equal(t, domain.PresenceAway, p.Get("u1"))
	assert.Len(t, p.Snapshot(), 1)
}

func TestPresence_UnknownUserIsOffline(t *testing.T) {
	p := NewPresence()
	assert.Equal(t, domain.PresenceOffline, p.Get("nobody"))
}

func TestPresence_OpaqueStatusPassesThrough(t *testing.T) {
	p := NewPresence()
	p.Set("u1", "in-a-meeting")
	assert.Equal(t, domain.PresenceStatus("in-a-meeting"), p.Get("u1"))
	assert.Equal(t, 0, p.OnlineCount())
}

func TestPresence_OnlineCount(t *testing.T) {
	p := NewPresence()
	p.Set("u1", domain.PresenceOnline)
	p.Set("u2", domain.PresenceOnline)
	p.Set("u3", domain.PresenceOffline)
	p.Set("u2", domain.PresenceAway)

	assert.Equal(t, 1, p.OnlineCount())
}

func TestPresence_SnapshotIsACopy(t *testing.T) {
	p := NewPresence()
	p.Set("u1", domain.PresenceOnline)

	snap := p.Snapshot()
	snap["u1"] = domain.PresenceOffline

	assert.Equal(t, domain.PresenceOnline, p.Get("u1"))
}
