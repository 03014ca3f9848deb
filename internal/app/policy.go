package app

import (
	"github.com/appforge/collabhub/internal/core"
	"github.com/appforge/collabhub/internal/domain"
)

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	KickReceiver
	DropFrame
)

// Policy decides what happens to a receiver whose send buffer overflowed
// during a broadcast.
type Policy interface {
	OnBackpressure(roomID domain.RoomID, slow core.ConnID) BackpressureAction
}

// KickSlowPolicy disconnects slow receivers so a stalled client can never
// hold frames for the rest of the room.
type KickSlowPolicy struct{}

func (KickSlowPolicy) OnBackpressure(domain.RoomID, core.ConnID) BackpressureAction {
	return KickReceiver
}
