package game

import (
	"github.com/rs/zerolog/log"
)

// Hub owns the set of connected clients. A single actor goroutine serializes
// membership changes and fan-out, so broadcasts always see a consistent
// client set.
type Hub struct {
	clients map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	outbound   chan []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client, 32),
		unregister: make(chan *Client, 32),
		outbound:   make(chan []byte, 256),
	}
}

// Broadcast marshals one event and hands it to the hub actor for fan-out.
func (h *Hub) Broadcast(event string, data any) {
	msg, err := MarshalEvent(event, data)
	if err != nil {
		log.Error().Str("event", event).Err(err).Msg("broadcast marshal failed")
		return
	}
	h.outbound <- msg
}

func (h *Hub) Register(c *Client) {
	h.register <- c
}

func (h *Hub) Unregister(c *Client) {
	h.unregister <- c
}

// Run is the hub actor. It closes started once the loop is receiving.
func (h *Hub) Run(started chan struct{}) {
	close(started)

	for {
		select {
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.broadcastUserCount()

		case c := <-h.unregister:
			if _, ok := h.clients[c]; !ok {
				continue
			}
			delete(h.clients, c)
			close(c.send)
			h.broadcastUserCount()

		case msg := <-h.outbound:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// Slow consumer; drop the message rather than stall the hub.
				}
			}
		}
	}
}

func (h *Hub) broadcastUserCount() {
	msg, err := MarshalEvent(EventUserCount, len(h.clients))
	if err != nil {
		return
	}
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
		}
	}
}
