package domain

// PresenceStatus is a coarse per-user liveness signal, independent of room
// membership. Recognized values are below; anything else is passed through
// uninterpreted.
type PresenceStatus string

const (
	PresenceOnline  PresenceStatus = "online"
	PresenceAway    PresenceStatus = "away"
	PresenceOffline PresenceStatus = "offline"
)
