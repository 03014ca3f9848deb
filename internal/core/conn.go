package core

import (
	"time"

	"github.com/appforge/collabhub/internal/domain"
)

// ConnID identifies one live network connection. A user may hold several.
type ConnID string

// Connection is the registry record created on successful admission and
// destroyed on disconnect.
type Connection struct {
	ID          ConnID      `json:"connectionId"`
	User        domain.User `json:"user"`
	ConnectedAt time.Time   `json:"connectedAt"`
}

// MemberDTO is a read-only room-member view for clients (no transport fields).
type MemberDTO struct {
	UserID      domain.UserID         `json:"userId"`
	DisplayName string                `json:"displayName"`
	Email       string                `json:"email"`
	Presence    domain.PresenceStatus `json:"presence"`
}
