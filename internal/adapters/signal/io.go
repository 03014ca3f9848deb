package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/appforge/collabhub/internal/core"
	"github.com/appforge/collabhub/internal/domain"
)

const writeTimeout = 5 * time.Second

func (ctl *Controller) writePump(ctx context.Context, c *WsConn) {
	ticker := time.NewTicker(ctl.pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Msg("writePump ctx done")
			c.Close()
			return
		case data, ok := <-c.send:
			if !ok {
				log.Warn().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (ctl *Controller) readPump(ctx context.Context, id core.ConnID, c *WsConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("conn", string(id)).Msg("readPump closing")
		ctl.onDisconnect(id)
		c.Close()
	}()

	pongWait := ctl.pingPeriod * 10 / 9
	c.conn.SetReadLimit(ctl.readLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("conn", string(id)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Info().Err(err).Str("module", "signal").Str("conn", string(id)).Msg("readPump read error")
				return
			}
			ctl.handleFrame(id, c, data)
		}
	}
}

// handleFrame decodes the type envelope and dispatches over the closed set of
// inbound events. Each handler decodes its own typed payload.
func (ctl *Controller) handleFrame(id core.ConnID, c *WsConn, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad json frame")
		ctl.sendError(c, "malformed frame")
		return
	}

	switch env.Type {
	case EvJoinRoom:
		ctl.handleJoinRoom(id, c, data)
	case EvLeaveRoom:
		ctl.handleLeaveRoom(id, c, data)
	case EvCursorMove:
		ctl.handleCursorMove(id, c, data)
	case EvSelectionChange:
		ctl.handleSelectionChange(id, c, data)
	case EvTextChange:
		ctl.handleTextChange(id, c, data)
	case EvFileLock:
		ctl.handleFileLock(id, c, data)
	case EvFileUnlock:
		ctl.handleFileUnlock(id, c, data)
	case EvTyping:
		ctl.handleTyping(id, c, data)
	case EvPresenceUpdate:
		ctl.handlePresenceUpdate(id, c, data)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown event")
		ctl.sendError(c, "unknown event type")
	}
}

func (ctl *Controller) send(c *WsConn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("send marshal")
		return
	}
	_ = c.TrySend(b)
}

func (ctl *Controller) sendError(c *WsConn, msg string) {
	ctl.send(c, errorEvent{Type: EvError, Message: msg})
}

func (ctl *Controller) broadcastRoom(roomID domain.RoomID, except core.ConnID, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("broadcast marshal")
		return
	}
	ctl.Hub.BroadcastRoom(roomID, except, b)
}

func (ctl *Controller) broadcastAll(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("broadcast marshal")
		return
	}
	ctl.Hub.BroadcastAll(b)
}

// decode unmarshals and validates a typed payload. On failure it reports an
// error event to the issuing connection only and returns false.
func (ctl *Controller) decode(c *WsConn, data []byte, v any, errMsg string) bool {
	if err := json.Unmarshal(data, v); err != nil {
		ctl.sendError(c, errMsg)
		return false
	}
	if err := ctl.validate.Struct(v); err != nil {
		ctl.sendError(c, errMsg)
		return false
	}
	return true
}
