package domain

const MaxRoomIDLen = 128

// RoomID identifies an ephemeral collaboration room. Rooms have no identity
// beyond their member set and are created implicitly on first join.
type RoomID string
