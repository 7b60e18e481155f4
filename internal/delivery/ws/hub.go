// Package ws streams derived device status to dashboard clients over a
// websocket, one message per applied registry update.
package ws

import (
	"net/http"
	"sync"

	"fleettrack/internal/registry"
	"fleettrack/internal/status"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// StatusMessage is one push to a connected client.
type StatusMessage struct {
	DeviceID   int64                 `json:"deviceId"`
	Status     *status.DerivedStatus `json:"status,omitempty"`
	Indicators []status.Indicator    `json:"indicators,omitempty"`
}

type Hub struct {
	registry   *registry.Store
	classifier *status.Classifier
	upgrader   websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func NewHub(reg *registry.Store, classifier *status.Classifier) *Hub {
	return &Hub{
		registry:   reg,
		classifier: classifier,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Run consumes registry updates and fans the derived status out to every
// connected client. Blocks until the registry subscription is cancelled.
func (h *Hub) Run() {
	updates, cancel := h.registry.Subscribe(64)
	defer cancel()

	for update := range updates {
		var deviceID int64
		if update.Device != nil {
			deviceID = update.Device.ID
		} else if update.Position != nil {
			deviceID = update.Position.DeviceID
		} else {
			continue
		}

		device := h.registry.Device(deviceID)
		position := h.registry.Position(deviceID)
		derived := h.classifier.Classify(device, position)

		h.broadcast(StatusMessage{
			DeviceID:   deviceID,
			Status:     &derived,
			Indicators: h.classifier.Indicators(position),
		})
	}
}

// Handle upgrades a dashboard connection and keeps it registered until the
// peer goes away. Clients only listen; inbound frames are drained and
// dropped.
func (h *Hub) Handle(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Warn("Websocket upgrade failed", zap.Error(err))
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()

	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) broadcast(msg StatusMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteJSON(msg); err != nil {
			delete(h.clients, conn)
			_ = conn.Close()
		}
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		_ = conn.Close()
	}
	h.mu.Unlock()
}
