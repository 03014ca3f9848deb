package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/appforge/collabhub/internal/core"
	"github.com/appforge/collabhub/internal/domain"
)

type joinRoomPayload struct {
	RoomID       string `json:"roomId" validate:"required,max=128"`
	ResourceType string `json:"resourceType"`
	ResourceID   string `json:"resourceId"`
}

type leaveRoomPayload struct {
	RoomID string `json:"roomId"`
}

func (ctl *Controller) handleJoinRoom(id core.ConnID, c *WsConn, data []byte) {
	var p joinRoomPayload
	if !ctl.decode(c, data, &p, "roomId is required") {
		return
	}
	sender, ok := ctl.Hub.Registry.Get(id)
	if !ok {
		return
	}
	if !ctl.limiter.Allow(sender.User.ID) {
		log.Warn().Str("module", "signal").Str("user", string(sender.User.ID)).Msg("join rate limited")
		ctl.sendError(c, "rate limited")
		return
	}

	roomID := domain.RoomID(p.RoomID)
	members, ok := ctl.Hub.Join(id, roomID, p.ResourceType, p.ResourceID)
	if !ok {
		return
	}
	log.Info().Str("module", "signal").Str("conn", string(id)).Str("room", p.RoomID).Msg("join-room")

	// Others learn about the joiner; the joiner gets the member snapshot
	// taken at join time. Re-joins repeat both (at-least-once semantics).
	ctl.broadcastRoom(roomID, id, userJoined{
		Type:        EvUserJoined,
		UserID:      sender.User.ID,
		DisplayName: sender.User.DisplayName,
		Email:       sender.User.Email,
	})
	ctl.send(c, roomUsers{Type: EvRoomUsers, RoomID: p.RoomID, Users: members})
}

func (ctl *Controller) handleLeaveRoom(id core.ConnID, c *WsConn, data []byte) {
	var p leaveRoomPayload
	if err := json.Unmarshal(data, &p); err != nil || p.RoomID == "" {
		// leave-room without a roomId is a no-op, not an error.
		return
	}
	sender, ok := ctl.Hub.Registry.Get(id)
	if !ok {
		return
	}
	roomID := domain.RoomID(p.RoomID)
	if !ctl.Hub.Leave(id, roomID) {
		return
	}
	log.Info().Str("module", "signal").Str("conn", string(id)).Str("room", p.RoomID).Msg("leave-room")
	ctl.broadcastRoom(roomID, id, userLeft{
		Type:        EvUserLeft,
		UserID:      sender.User.ID,
		DisplayName: sender.User.DisplayName,
	})
}
