package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"hue-clues/internal/game"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	writeWait       = 10 * time.Second
	pongWait        = 60 * time.Second
	pingPeriod      = (pongWait * 9) / 10
	maxMessageBytes = 4096
)

type frame struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

type wsClient struct {
	id      string
	conn    *websocket.Conn
	send    chan []byte
	limiter *rate.Limiter
}

// Hub fans events out to connected clients. Each client has a bounded send
// queue drained by its own write pump; a client whose queue is full is
// dropped instead of blocking the caller.
type Hub struct {
	mu        sync.RWMutex
	clients   map[string]*wsClient
	queueSize int
	logger    *zap.Logger
}

func NewHub(queueSize int, logger *zap.Logger) *Hub {
	if queueSize <= 0 {
		queueSize = 64
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:   make(map[string]*wsClient),
		queueSize: queueSize,
		logger:    logger,
	}
}

func (h *Hub) add(client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.id] = client
}

// remove detaches the client and closes its queue, which ends its write pump.
func (h *Hub) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	client, ok := h.clients[id]
	if !ok {
		return
	}
	delete(h.clients, id)
	close(client.send)
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) Broadcast(ev game.Event) {
	h.fanOut(ev, func(string) bool { return true })
}

func (h *Hub) BroadcastExcept(connectionID string, ev game.Event) {
	h.fanOut(ev, func(id string) bool { return id != connectionID })
}

func (h *Hub) Send(connectionID string, ev game.Event) {
	h.fanOut(ev, func(id string) bool { return id == connectionID })
}

func (h *Hub) fanOut(ev game.Event, include func(id string) bool) {
	data, err := json.Marshal(frame{Event: ev.Name, Payload: ev.Payload})
	if err != nil {
		h.logger.Error("encode event failed", zap.String("event", ev.Name), zap.Error(err))
		return
	}
	var slow []string
	h.mu.RLock()
	for id, client := range h.clients {
		if !include(id) {
			continue
		}
		select {
		case client.send <- data:
		default:
			slow = append(slow, id)
		}
	}
	h.mu.RUnlock()
	for _, id := range slow {
		h.logger.Warn("send queue full, dropping client", zap.String("connection_id", id), zap.String("event", ev.Name))
		h.remove(id)
	}
}

func (h *Hub) writePump(client *wsClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = client.conn.Close()
	}()
	for {
		select {
		case data, ok := <-client.send:
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Server) handleWebsocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	client := &wsClient{
		id:      uuid.NewString(),
		conn:    conn,
		send:    make(chan []byte, s.hub.queueSize),
		limiter: rate.NewLimiter(rate.Limit(s.cfg.EventsPerSecond), s.cfg.EventBurst),
	}
	s.logger.Info("ws connected",
		zap.String("connection_id", client.id),
		zap.String("remote", c.Request.RemoteAddr),
	)
	go s.hub.writePump(client)

	ctx := context.Background()
	if err := s.engine.Connect(ctx, client.id, func() { s.hub.add(client) }); err != nil {
		s.logger.Warn("resync incomplete", zap.String("connection_id", client.id), zap.Error(err))
	}
	go s.readWS(client)
}

func (s *Server) readWS(client *wsClient) {
	ctx := context.Background()
	defer func() {
		s.hub.remove(client.id)
		if err := s.engine.Disconnect(ctx, client.id); err != nil {
			s.logger.Error("disconnect failed", zap.String("connection_id", client.id), zap.Error(err))
		}
	}()

	client.conn.SetReadLimit(maxMessageBytes)
	_ = client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, data, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("ws read failed", zap.String("connection_id", client.id), zap.Error(err))
			}
			s.logger.Info("ws disconnected", zap.String("connection_id", client.id))
			return
		}
		s.handleMessage(ctx, client, data)
	}
}

func (s *Server) handleMessage(ctx context.Context, client *wsClient, data []byte) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil || env.Event == "" {
		s.reject(client, env.Event, errMalformedFrame)
		return
	}
	if !client.limiter.Allow() {
		s.reject(client, env.Event, errRateLimited)
		return
	}
	if err := s.dispatch(ctx, client, env); err != nil {
		s.reject(client, env.Event, err)
	}
}

func (s *Server) reject(client *wsClient, event string, err error) {
	level := s.logger.Warn
	if errors.Is(err, game.ErrStoreUnavailable) {
		level = s.logger.Error
	}
	level("inbound event rejected",
		zap.String("connection_id", client.id),
		zap.String("event", event),
		zap.Error(err),
	)
	s.hub.Send(client.id, game.Event{
		Name:    EventActionFailed,
		Payload: actionFailedPayload{Event: event, Error: failureMessage(err)},
	})
}
