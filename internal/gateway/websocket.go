package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mcoot/rpsgame-go/internal/realtime"
	"github.com/mcoot/rpsgame-go/internal/services/auth"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Name of the cookie that may carry the access token
	tokenCookieName = "session"
)

// Transport serves the gateway over WebSocket
type Transport struct {
	gateway  *Gateway
	hub      *realtime.Hub
	resolver auth.IdentityResolver
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewTransport creates a new WebSocket transport
func NewTransport(gateway *Gateway, hub *realtime.Hub, resolver auth.IdentityResolver, logger *slog.Logger) *Transport {
	return &Transport{
		gateway:  gateway,
		hub:      hub,
		resolver: resolver,
		upgrader: websocket.Upgrader{
			ReadBufferSize:   1024,
			WriteBufferSize:  1024,
			HandshakeTimeout: 5 * time.Second,
			CheckOrigin:      func(r *http.Request) bool { return true },
		},
		logger: logger.With(slog.String("component", "ws-transport")),
	}
}

// ServeHTTP upgrades the request and runs the connection until it closes.
// A missing or invalid token does not reject the upgrade; the session stays
// unauthenticated and its actions fail.
func (t *Transport) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	identity := ResolveRequest(t.resolver, r, t.logger)

	conn, err := t.upgrader.Upgrade(w, r, nil)
	if err != nil {
		t.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	sess := NewSession(identity)
	client := realtime.NewClient(sess.ID, sess.PlayerID())
	t.hub.Register(client)

	t.logger.Info("websocket connected",
		slog.String("session_id", sess.ID),
		slog.String("player_id", string(sess.PlayerID())),
		slog.Bool("authenticated", identity != nil))

	go t.writePump(conn, client)
	t.readPump(conn, sess)

	// Detached from the request, which is already finished
	t.gateway.Disconnect(context.Background(), sess)
	t.hub.Unregister(client)
	_ = conn.Close()

	t.logger.Info("websocket disconnected", slog.String("session_id", sess.ID))
}

func (t *Transport) readPump(conn *websocket.Conn, sess *Session) {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				t.logger.Warn("unexpected websocket close",
					slog.String("session_id", sess.ID),
					slog.Any("error", err))
			}
			return
		}
		t.gateway.Dispatch(context.Background(), sess, frame)
	}
}

// writePump is the only writer on conn
func (t *Transport) writePump(conn *websocket.Conn, client *realtime.Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			frame, err := json.Marshal(message)
			if err != nil {
				t.logger.Error("failed to encode frame",
					slog.String("session_id", client.ID()),
					slog.Any("error", err))
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ResolveRequest resolves the identity carried by a request, or nil
func ResolveRequest(resolver auth.IdentityResolver, r *http.Request, logger *slog.Logger) *auth.Identity {
	token := TokenFromRequest(r)
	if token == "" {
		return nil
	}
	identity, err := resolver.ResolveToken(token)
	if err != nil {
		logger.Debug("ignoring invalid token", slog.Any("error", err))
		return nil
	}
	return identity
}

// TokenFromRequest reads a token from the Authorization header, the
// access_token query parameter or the session cookie, in that order.
// Browsers cannot set headers on WebSocket upgrades, hence the fallbacks.
func TokenFromRequest(r *http.Request) string {
	if token := extractBearer(r.Header.Get("Authorization")); token != "" {
		return token
	}
	if token := r.URL.Query().Get("access_token"); token != "" {
		return token
	}
	if cookie, err := r.Cookie(tokenCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func extractBearer(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
