package core

import (
	"context"
	"time"

	"github.com/appforge/collabhub/internal/domain"
)

// TokenVerifier validates a bearer token and yields the authenticated
// identity. External collaborator; the hub never mints tokens itself.
type TokenVerifier interface {
	Verify(token string) (domain.User, error)
}

// AuditEntry is a single fire-and-forget audit record.
type AuditEntry struct {
	Action       string         `json:"action"`
	UserID       domain.UserID  `json:"userId"`
	ResourceType string         `json:"resourceType,omitempty"`
	ResourceID   string         `json:"resourceId,omitempty"`
	Details      map[string]any `json:"details,omitempty"`
	At           time.Time      `json:"at"`
}

// AuditSink records audit entries. Errors are the caller's to swallow;
// a failing sink must never affect hub behavior.
type AuditSink interface {
	Record(ctx context.Context, e AuditEntry) error
}
