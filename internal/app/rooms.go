package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/appforge/collabhub/internal/core"
	"github.com/appforge/collabhub/internal/domain"
)

// Rooms maps room ids to the set of connections inside them. Rooms exist only
// while non-empty; the last leave removes the room synchronously. A connection
// may sit in several rooms at once, so a reverse index is kept for cleanup.
type Rooms struct {
	mu      sync.RWMutex
	members map[domain.RoomID]map[core.ConnID]struct{}
	joined  map[core.ConnID]map[domain.RoomID]struct{}
}

func NewRooms() *Rooms {
	return &Rooms{
		members: make(map[domain.RoomID]map[core.ConnID]struct{}),
		joined:  make(map[core.ConnID]map[domain.RoomID]struct{}),
	}
}

// Join adds the connection to the room, creating the room on first join.
// Re-joining is a no-op state-wise (set semantics).
func (r *Rooms) Join(roomID domain.RoomID, id core.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.members[roomID]
	if !ok {
		set = make(map[core.ConnID]struct{})
		r.members[roomID] = set
	}
	set[id] = struct{}{}

	rooms, ok := r.joined[id]
	if !ok {
		rooms = make(map[domain.RoomID]struct{})
		r.joined[id] = rooms
	}
	rooms[roomID] = struct{}{}
	log.Info().Str("module", "app.rooms").Str("room", string(roomID)).Str("conn", string(id)).Int("members", len(set)).Msg("joined room")
}

// Leave removes the connection from the room and reaps the room when its
// member set becomes empty. Returns false if the connection was not a member.
func (r *Rooms) Leave(roomID domain.RoomID, id core.ConnID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.leaveLocked(roomID, id)
}

func (r *Rooms) leaveLocked(roomID domain.RoomID, id core.ConnID) bool {
	set, ok := r.members[roomID]
	if !ok {
		return false
	}
	if _, ok := set[id]; !ok {
		return false
	}
	delete(set, id)
	if len(set) == 0 {
		delete(r.members, roomID)
	}
	if rooms, ok := r.joined[id]; ok {
		delete(rooms, roomID)
		if len(rooms) == 0 {
			delete(r.joined, id)
		}
	}
	log.Info().Str("module", "app.rooms").Str("room", string(roomID)).Str("conn", string(id)).Msg("left room")
	return true
}

// DropConn removes the connection from every room it is in and returns the
// affected room ids. Used by the disconnect cleanup path.
func (r *Rooms) DropConn(id core.ConnID) []domain.RoomID {
	r.mu.Lock()
	defer r.mu.Unlock()
	rooms, ok := r.joined[id]
	if !ok {
		return nil
	}
	out := make([]domain.RoomID, 0, len(rooms))
	for roomID := range rooms {
		out = append(out, roomID)
	}
	for _, roomID := range out {
		r.leaveLocked(roomID, id)
	}
	return out
}

func (r *Rooms) MembersOf(roomID domain.RoomID) []core.ConnID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set, ok := r.members[roomID]
	if !ok {
		return nil
	}
	out := make([]core.ConnID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

func (r *Rooms) Contains(roomID domain.RoomID, id core.ConnID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set, ok := r.members[roomID]
	if !ok {
		return false
	}
	_, ok = set[id]
	return ok
}

func (r *Rooms) RoomsOf(id core.ConnID) []domain.RoomID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rooms, ok := r.joined[id]
	if !ok {
		return nil
	}
	out := make([]domain.RoomID, 0, len(rooms))
	for roomID := range rooms {
		out = append(out, roomID)
	}
	return out
}

// Count reports the number of active (non-empty) rooms.
func (r *Rooms) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}
