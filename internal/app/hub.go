// Package app owns the hub's shared mutable state: the connection registry,
// the room membership tracker and the presence tracker, plus the orchestration
// glue between them. Each structure guards itself with its own mutex; no lock
// is ever held across a network send.
package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/appforge/collabhub/internal/core"
	"github.com/appforge/collabhub/internal/domain"
)

const (
	AuditJoin  = "collaboration.join"
	AuditLeave = "collaboration.leave"
)

// Hub coordinates registry, rooms and presence for the collaboration surface.
// It deals in opaque frames; event shaping lives in the signal adapter.
type Hub struct {
	Registry *Registry
	Rooms    *Rooms
	Presence *Presence
	Policy   Policy

	auditor *AsyncAuditor
}

func NewHub(auditor *AsyncAuditor) *Hub {
	return &Hub{
		Registry: NewRegistry(),
		Rooms:    NewRooms(),
		Presence: NewPresence(),
		Policy:   KickSlowPolicy{},
		auditor:  auditor,
	}
}

// Admit creates the connection record for an authenticated user and marks the
// user online. Callers must have verified the token first; this is the only
// way into the registry.
func (h *Hub) Admit(user domain.User, sig core.SignalConnection, cancel context.CancelFunc) core.Connection {
	conn := core.Connection{
		ID:          core.ConnID(uuid.NewString()),
		User:        user,
		ConnectedAt: time.Now(),
	}
	h.Registry.Bind(conn, sig, cancel)
	h.Presence.Set(user.ID, domain.PresenceOnline)
	return conn
}

// Join adds the connection to the room and returns the member snapshot taken
// at join time, joiner included. Re-joining is state-wise a no-op but still
// returns a fresh snapshot so the adapter can re-send room-users.
func (h *Hub) Join(id core.ConnID, roomID domain.RoomID, resourceType, resourceID string) ([]core.MemberDTO, bool) {
	conn, ok := h.Registry.Get(id)
	if !ok {
		return nil, false
	}
	h.Rooms.Join(roomID, id)
	h.audit(core.AuditEntry{
		Action:       AuditJoin,
		UserID:       conn.User.ID,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      map[string]any{"roomId": string(roomID)},
	})
	return h.MembersOf(roomID), true
}

// Leave removes the connection from the room. Returns false if it was not a
// member, in which case nothing happened.
func (h *Hub) Leave(id core.ConnID, roomID domain.RoomID) bool {
	conn, ok := h.Registry.Get(id)
	if !ok {
		return false
	}
	if !h.Rooms.Leave(roomID, id) {
		return false
	}
	h.audit(core.AuditEntry{
		Action:  AuditLeave,
		UserID:  conn.User.ID,
		Details: map[string]any{"roomId": string(roomID)},
	})
	return true
}

// Disconnect tears down all hub state for the connection: registry entry,
// every room membership, and presence (set offline). It returns the identity
// and the affected rooms so the adapter can broadcast user-left to each room
// before the global presence update. Safe to call more than once; only the
// first call wins.
func (h *Hub) Disconnect(id core.ConnID) (core.Connection, []domain.RoomID, bool) {
	conn, ok := h.Registry.Unbind(id)
	if !ok {
		return core.Connection{}, nil, false
	}
	affected := h.Rooms.DropConn(id)
	h.Presence.Set(conn.User.ID, domain.PresenceOffline)
	for _, roomID := range affected {
		h.audit(core.AuditEntry{
			Action:  AuditLeave,
			UserID:  conn.User.ID,
			Details: map[string]any{"roomId": string(roomID), "disconnect": true},
		})
	}
	return conn, affected, true
}

// MembersOf builds the client-facing member list for a room, with each
// member's current presence attached.
func (h *Hub) MembersOf(roomID domain.RoomID) []core.MemberDTO {
	ids := h.Rooms.MembersOf(roomID)
	out := make([]core.MemberDTO, 0, len(ids))
	for _, id := range ids {
		conn, ok := h.Registry.Get(id)
		if !ok {
			continue
		}
		out = append(out, core.MemberDTO{
			UserID:      conn.User.ID,
			DisplayName: conn.User.DisplayName,
			Email:       conn.User.Email,
			Presence:    h.Presence.Get(conn.User.ID),
		})
	}
	return out
}

// BroadcastRoom fans the frame out to every member of the room except the
// sender. Sends are non-blocking per destination; a receiver that cannot keep
// up is handed to the backpressure policy, never allowed to stall the rest.
func (h *Hub) BroadcastRoom(roomID domain.RoomID, except core.ConnID, f core.Frame) {
	for _, id := range h.Rooms.MembersOf(roomID) {
		if id == except {
			continue
		}
		sig, ok := h.Registry.SignalOf(id)
		if !ok {
			continue
		}
		if err := sig.TrySend(f); err != nil {
			h.onSendFailure(roomID, id, err)
		}
	}
}

// BroadcastAll sends the frame to every connected client, regardless of room
// membership. Used for presence updates.
func (h *Hub) BroadcastAll(f core.Frame) {
	for _, snap := range h.Registry.Snapshot() {
		if err := snap.Signal.TrySend(f); err != nil {
			h.onSendFailure("", snap.ID, err)
		}
	}
}

// SendTo delivers a frame to a single connection.
func (h *Hub) SendTo(id core.ConnID, f core.Frame) {
	sig, ok := h.Registry.SignalOf(id)
	if !ok {
		return
	}
	if err := sig.TrySend(f); err != nil {
		h.onSendFailure("", id, err)
	}
}

func (h *Hub) onSendFailure(roomID domain.RoomID, id core.ConnID, err error) {
	log.Warn().Err(err).Str("module", "app.hub").Str("room", string(roomID)).Str("conn", string(id)).Msg("send failed")
	if h.Policy == nil {
		return
	}
	switch h.Policy.OnBackpressure(roomID, id) {
	case KickReceiver:
		h.Registry.Cancel(id)
	case DropFrame, NoAction:
	}
}

func (h *Hub) audit(e core.AuditEntry) {
	if h.auditor == nil {
		return
	}
	e.At = time.Now()
	h.auditor.Record(e)
}
