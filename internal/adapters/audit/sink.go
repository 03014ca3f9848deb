// Package audit provides AuditSink implementations. The hub wraps either one
// in app.AsyncAuditor, so sinks here may block or fail without consequence for
// the relay path.
package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/appforge/collabhub/internal/core"
)

const requestTimeout = 5 * time.Second

// HTTPSink posts entries as JSON to the audit service.
type HTTPSink struct {
	endpoint string
	client   *http.Client
}

func NewHTTPSink(endpoint string) *HTTPSink {
	return &HTTPSink{
		endpoint: endpoint,
		client:   &http.Client{Timeout: requestTimeout},
	}
}

func (s *HTTPSink) Record(ctx context.Context, e core.AuditEntry) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal audit entry: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build audit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post audit entry: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("audit service returned %d", resp.StatusCode)
	}
	return nil
}

// LogSink writes entries to the process log. Used when no audit endpoint is
// configured.
type LogSink struct{}

func (LogSink) Record(_ context.Context, e core.AuditEntry) error {
	log.Info().
		Str("module", "audit").
		Str("action", e.Action).
		Str("user", string(e.UserID)).
		Str("resource_type", e.ResourceType).
		Str("resource_id", e.ResourceID).
		Interface("details", e.Details).
		Msg("audit entry")
	return nil
}
