package audit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appforge/collabhub/internal/core"
)

func TestHTTPSink_PostsEntry(t *testing.T) {
	var got core.AuditEntry
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	sink := NewHTTPSink(srv.URL)
	err := sink.Record(context.Background(), core.AuditEntry{
		Action:  "collaboration.join",
		UserID:  "u1",
		Details: map[string]any{"roomId": "doc-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "collaboration.join", got.Action)
	assert.Equal(t, "doc-1", got.Details["roomId"])
}

func TestHTTPSink_ServerErrorReported(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewHTTPSink(srv.URL).Record(context.Background(), core.AuditEntry{Action: "x"})
	assert.Error(t, err)
}

func TestHTTPSink_Unreachable(t *testing.T) {
	err := NewHTTPSink("http://127.0.0.1:1/audit").Record(context.Background(), core.AuditEntry{Action: "x"})
	assert.Error(t, err)
}

func TestLogSink_NeverFails(t *testing.T) {
	assert.NoError(t, LogSink{}.Record(context.Background(), core.AuditEntry{Action: "x"}))
}
