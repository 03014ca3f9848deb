// Package signal is the WebSocket adapter for the collaboration hub. It owns
// connection admission, the read/write pumps, and the typed decoding of
// inbound events at the transport boundary.
package signal

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/appforge/collabhub/internal/app"
	"github.com/appforge/collabhub/internal/config"
	"github.com/appforge/collabhub/internal/core"
	"github.com/appforge/collabhub/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

type Controller struct {
	Hub      *app.Hub
	Verifier core.TokenVerifier

	validate   *validator.Validate
	limiter    *JoinRateLimiter
	readLimit  int64
	pingPeriod time.Duration
	sendBuffer int
}

func NewController(hub *app.Hub, verifier core.TokenVerifier, cfg *config.Config) *Controller {
	return &Controller{
		Hub:        hub,
		Verifier:   verifier,
		validate:   validator.New(),
		limiter:    NewJoinRateLimiter(cfg.JoinRateLimit, cfg.JoinRateInterval),
		readLimit:  cfg.ReadLimit,
		pingPeriod: cfg.PingPeriod,
		sendBuffer: cfg.SendBuffer,
	}
}

// WsConn wraps a websocket connection with a bounded outgoing buffer.
// TrySend never blocks; a full buffer is reported as ErrBackpressure and left
// for the hub's policy to deal with.
type WsConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// bearerToken extracts the token from the Authorization header or, for
// browser WebSocket clients that cannot set headers, the token query param.
func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if after, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	return c.Query("token")
}

// HandleCollab is the admission gate. No hub state exists until the token has
// been verified; rejected attempts are answered before the upgrade.
func (ctl *Controller) HandleCollab(ctx context.Context, c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	user, err := ctl.Verifier.Verify(token)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("token rejected")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	conn := &WsConn{
		conn: ws,
		send: make(chan core.Frame, ctl.sendBuffer),
	}

	ctx, cancel := context.WithCancel(ctx)
	rec := ctl.Hub.Admit(user, conn, cancel)
	log.Info().Str("module", "signal").Str("conn", string(rec.ID)).Str("user", string(user.ID)).Msg("connection admitted")

	// The joiner gets the full presence snapshot once, before anything else.
	ctl.send(conn, presenceList{Type: EvPresenceList, Presence: ctl.Hub.Presence.Snapshot()})
	ctl.broadcastAll(presenceUpdate{Type: EvPresenceUpdate, UserID: user.ID, Status: domain.PresenceOnline})

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, rec.ID, conn)
}

func (ctl *Controller) onDisconnect(id core.ConnID) {
	conn, affected, ok := ctl.Hub.Disconnect(id)
	if !ok {
		return
	}
	// Room-scoped user-left events fire before the global presence update.
	for _, roomID := range affected {
		ctl.broadcastRoom(roomID, id, userLeft{Type: EvUserLeft, UserID: conn.User.ID, DisplayName: conn.User.DisplayName})
	}
	ctl.broadcastAll(presenceUpdate{Type: EvPresenceUpdate, UserID: conn.User.ID, Status: domain.PresenceOffline})
	log.Info().Str("module", "signal").Str("conn", string(id)).Str("user", string(conn.User.ID)).Msg("connection cleaned up")
}
