// Package socket pushes relationship and access changes to connected viewers.
// Each authenticated connection joins a room named after its username.
package socket

import (
	"net/http"
	"sync"

	socketio "github.com/googollee/go-socket.io"
	"go.uber.org/zap"

	"matchview/middleware"
	"matchview/models"
)

const namespace = "/"

// Hub wraps the Socket.IO server and implements services.Notifier
type Hub struct {
	server *socketio.Server
	tokens *middleware.TokenParser
	logger *zap.Logger

	mu        sync.RWMutex
	onRefresh func(username string)
}

// NewHub initializes the Socket.IO server and its event handlers
func NewHub(tokens *middleware.TokenParser, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Hub{
		server: socketio.NewServer(nil),
		tokens: tokens,
		logger: logger,
	}
	h.server.OnConnect(namespace, h.connected)
	h.server.OnEvent(namespace, "join", h.join)
	h.server.OnEvent(namespace, models.EventPiiRefresh, h.refresh)
	h.server.OnError(namespace, func(c socketio.Conn, err error) {
		h.logger.Warn("socket error", zap.Error(err))
	})
	h.server.OnDisconnect(namespace, h.disconnected)
	return h
}

// OnRefresh sets the callback run when a viewer asks for fresh access data
func (h *Hub) OnRefresh(fn func(username string)) {
	h.mu.Lock()
	h.onRefresh = fn
	h.mu.Unlock()
}

func (h *Hub) connected(c socketio.Conn) error {
	h.logger.Debug("socket connected", zap.String("socket_id", c.ID()))
	return nil
}

// join authenticates the connection and subscribes it to the viewer's room
func (h *Hub) join(c socketio.Conn, token string) {
	sess, err := h.tokens.Parse(token)
	if err != nil {
		h.logger.Debug("socket join rejected", zap.String("socket_id", c.ID()), zap.Error(err))
		c.Emit("error", "invalid token")
		return
	}
	c.SetContext(sess)
	c.Join(sess.Username)
	c.Emit("joined", sess.Username)
	h.logger.Debug("socket joined", zap.String("socket_id", c.ID()), zap.String("username", sess.Username))
}

// refresh drops the viewer's cached access map and tells them to refetch
func (h *Hub) refresh(c socketio.Conn) {
	sess, ok := c.Context().(models.Session)
	if !ok {
		c.Emit("error", "join first")
		return
	}
	h.mu.RLock()
	fn := h.onRefresh
	h.mu.RUnlock()
	if fn != nil {
		fn(sess.Username)
	}
	c.Emit(models.EventPiiChanged, map[string]string{"username": sess.Username})
}

func (h *Hub) disconnected(c socketio.Conn, reason string) {
	h.logger.Debug("socket disconnected", zap.String("socket_id", c.ID()), zap.String("reason", reason))
}

// Notify emits event to every connection in username's room
func (h *Hub) Notify(username, event string, payload any) {
	if username == "" {
		return
	}
	if !h.server.BroadcastToRoom(namespace, username, event, payload) {
		h.logger.Warn("socket namespace not registered", zap.String("username", username), zap.String("event", event))
	}
}

// Serve runs the Socket.IO event loop until Close
func (h *Hub) Serve() error {
	return h.server.Serve()
}

func (h *Hub) Close() error {
	return h.server.Close()
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.server.ServeHTTP(w, r)
}
