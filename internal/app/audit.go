package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/appforge/collabhub/internal/core"
)

// AsyncAuditor decouples the relay hot path from the audit sink through a
// bounded queue. Record is non-blocking; when the buffer is full the entry is
// dropped rather than ever applying backpressure to the caller.
type AsyncAuditor struct {
	sink core.AuditSink
	buf  chan core.AuditEntry
}

func NewAsyncAuditor(sink core.AuditSink, size int) *AsyncAuditor {
	if size <= 0 {
		size = 256
	}
	return &AsyncAuditor{
		sink: sink,
		buf:  make(chan core.AuditEntry, size),
	}
}

// Record enqueues the entry for the background worker. Never blocks.
func (a *AsyncAuditor) Record(e core.AuditEntry) {
	select {
	case a.buf <- e:
	default:
		log.Warn().Str("module", "app.audit").Str("action", e.Action).Int("buffer_cap", cap(a.buf)).Msg("audit buffer full, entry dropped")
	}
}

// Run drains the queue into the sink. Sink errors are logged and swallowed;
// they must never surface to the operation that produced the entry.
// Blocks until ctx is cancelled.
func (a *AsyncAuditor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-a.buf:
			if err := a.sink.Record(ctx, e); err != nil {
				log.Error().Err(err).Str("module", "app.audit").Str("action", e.Action).Msg("audit sink error")
			}
		}
	}
}
