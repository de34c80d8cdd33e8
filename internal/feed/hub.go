// Package feed pushes newly created reviews to connected websocket clients.
package feed

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"reviewhub/pkg/models"
)

const (
	TypeWelcome       = "welcome"
	TypeReviewCreated = "review.created"

	writeWait = 2 * time.Second
)

type Event struct {
	Type    string         `json:"type"`
	Review  *models.Review `json:"review,omitempty"`
	Clients int            `json:"clients,omitempty"`
	At      time.Time      `json:"at"`
}

type Stats struct {
	Clients int `json:"clients"`
}

type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}

	// OnChange, if set, is called with the client count after every
	// add or remove while the hub lock is held.
	OnChange func(clients int)
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]struct{})}
}

func (h *Hub) Add(ws *websocket.Conn) {
	h.mu.Lock()
	h.clients[ws] = struct{}{}
	h.changed()
	h.mu.Unlock()
}

func (h *Hub) Remove(ws *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, ws)
	h.changed()
	h.mu.Unlock()
	_ = ws.Close()
}

func (h *Hub) changed() {
	if h.OnChange != nil {
		h.OnChange(len(h.clients))
	}
}

// BroadcastJSON writes v to every client. A client whose write fails is
// closed and dropped.
func (h *Hub) BroadcastJSON(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("feed: marshal event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	dropped := false
	for ws := range h.clients {
		_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
		if err := ws.WriteMessage(websocket.TextMessage, b); err != nil {
			_ = ws.Close()
			delete(h.clients, ws)
			dropped = true
		}
	}
	if dropped {
		h.changed()
	}
}

// ReviewCreated announces a stored review.
func (h *Hub) ReviewCreated(r models.Review) {
	h.BroadcastJSON(Event{Type: TypeReviewCreated, Review: &r, At: time.Now().UTC()})
}

func (h *Hub) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Stats{Clients: len(h.clients)}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ws := range h.clients {
		_ = ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		_ = ws.Close()
		delete(h.clients, ws)
	}
	h.changed()
}
