package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appforge/collabhub/internal/core"
)

// captureSink records entries; optionally blocks until released to simulate a
// stalled audit service.
type captureSink struct {
	mu      sync.Mutex
	got     []core.AuditEntry
	release chan struct{}
}

func (s *captureSink) Record(ctx context.Context, e core.AuditEntry) error {
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, e)
	return nil
}

func (s *captureSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.got)
}

func (s *captureSink) entries() []core.AuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.AuditEntry(nil), s.got...)
}

func TestAsyncAuditor_RecordNeverBlocks(t *testing.T) {
	// No worker running and a tiny buffer: excess entries must be dropped,
	// not queued or blocked on.
	a := NewAsyncAuditor(&captureSink{}, 2)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 50; i++ {
			a.Record(core.AuditEntry{Action: AuditJoin})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Record blocked on a full buffer")
	}
}

func TestAsyncAuditor_WorkerDrains(t *testing.T) {
	sink := &captureSink{}
	a := NewAsyncAuditor(sink, 8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go a.Run(ctx)

	a.Record(core.AuditEntry{Action: AuditJoin, UserID: "u1"})
	a.Record(core.AuditEntry{Action: AuditLeave, UserID: "u1"})

	require.Eventually(t, func() bool { return sink.count() == 2 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, AuditJoin, sink.entries()[0].Action)
}

func TestAsyncAuditor_StalledSinkDoesNotBackpressure(t *testing.T) {
	sink := &captureSink{release: make(chan struct{})}
	a := NewAsyncAuditor(sink, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go a.Run(ctx)

	// Worker is stuck inside the sink; further Records must return instantly.
	for i := 0; i < 10; i++ {
		a.Record(core.AuditEntry{Action: AuditJoin})
	}
	close(sink.release)

	require.Eventually(t, func() bool { return sink.count() >= 1 }, time.Second, 10*time.Millisecond)
}
