package ws

import (
	"context"
	"encoding/json"

	"go-order-api/internal/model"
	logx "go-order-api/pkg/logger"

	"github.com/gofiber/contrib/websocket"
)

// Client is the part of *websocket.Conn the hub needs.
type Client interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Hub pushes stock events to every connected websocket client.
// All client bookkeeping happens on the Run goroutine.
type Hub struct {
	clients    map[Client]bool
	register   chan Client
	unregister chan Client
	broadcast  chan []byte
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[Client]bool),
		register:   make(chan Client),
		unregister: make(chan Client),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
	}
}

// Run serves the hub until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		for conn := range h.clients {
			conn.Close()
			delete(h.clients, conn)
		}
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case conn := <-h.register:
			h.clients[conn] = true
			logx.Debug().Int("clients", len(h.clients)).Msg("New WS Client Connected")

		case conn := <-h.unregister:
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}

		case message := <-h.broadcast:
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.clients, conn)
				}
			}
		}
	}
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

func (h *Hub) Register(c Client) {
	select {
	case h.register <- c:
	case <-h.done:
		c.Close()
	}
}

func (h *Hub) Unregister(c Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Notify queues each event for broadcast without blocking the caller.
// Events that do not fit in the broadcast buffer are dropped.
func (h *Hub) Notify(_ context.Context, events ...model.StockEvent) {
	for _, e := range events {
		msg, err := json.Marshal(e)
		if err != nil {
			logx.Error().Err(err).Msg("encode stock event")
			continue
		}
		select {
		case h.broadcast <- msg:
		case <-h.done:
			return
		default:
			logx.Warn().
				Str("event_id", e.EventID.String()).
				Uint("product_id", e.ProductID).
				Msg("ws broadcast buffer full, dropping stock event")
		}
	}
}

// Serve keeps a websocket connection registered until the peer goes away.
func (h *Hub) Serve(c *websocket.Conn) {
	h.Register(c)
	defer h.Unregister(c)

	for {
		// Keep alive loop
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
}
