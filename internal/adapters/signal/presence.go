package signal

import (
	"github.com/appforge/collabhub/internal/core"
	"github.com/appforge/collabhub/internal/domain"
)

type presenceUpdatePayload struct {
	Status string `json:"status" validate:"required"`
}

// handlePresenceUpdate overwrites the sender's status and broadcasts it to
// every connected client. Presence is global, never room-scoped. Unrecognized
// status strings pass through uninterpreted.
func (ctl *Controller) handlePresenceUpdate(id core.ConnID, c *WsConn, data []byte) {
	var p presenceUpdatePayload
	if !ctl.decode(c, data, &p, "status is required") {
		return
	}
	sender, ok := ctl.Hub.Registry.Get(id)
	if !ok {
		return
	}
	status := domain.PresenceStatus(p.Status)
	ctl.Hub.Presence.Set(sender.User.ID, status)
	ctl.broadcastAll(presenceUpdate{Type: EvPresenceUpdate, UserID: sender.User.ID, Status: status})
}
