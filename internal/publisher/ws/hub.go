// Package ws is the one concrete Publisher transport this module ships:
// a websocket hub adapted from the teacher's tournament-update broadcaster,
// re-keyed from tournament UUIDs to the engine's string SeriesID and
// carrying the tournament-orchestration event vocabulary instead of the
// teacher's CRUD-update vocabulary.
package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/bmstu-itstech/botarena/pkg/logger"
	"go.uber.org/zap"
)

// Hub fans out published events to every client subscribed to a series.
type Hub struct {
	series map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message

	mu  sync.RWMutex
	log *logger.Logger
}

// Message is the wire envelope sent to subscribers.
type Message struct {
	SeriesID string      `json:"series_id"`
	Type     MessageType `json:"type"`
	Payload  interface{} `json:"payload"`
}

// MessageType mirrors the Event Publisher's capability set (§4.7).
type MessageType string

const (
	MessageTypeMatchCompleted      MessageType = "match_completed"
	MessageTypeStandingsUpdated    MessageType = "standings_updated"
	MessageTypeRoundStarted        MessageType = "round_started"
	MessageTypeEventStarted        MessageType = "event_started"
	MessageTypeEventCompleted      MessageType = "event_completed"
	MessageTypeEventStepCompleted  MessageType = "event_step_completed"
	MessageTypeTournamentStarted   MessageType = "tournament_started"
	MessageTypeTournamentProgress  MessageType = "tournament_progress_updated"
	MessageTypeTournamentCompleted MessageType = "tournament_completed"
	MessageTypeStateSnapshot       MessageType = "state_snapshot"
	MessageTypePing                MessageType = "ping"
	MessageTypePong                MessageType = "pong"
)

// NewHub builds a Hub. Run must be started in its own goroutine before
// any client registers.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		series:     make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 256),
		log:        log,
	}
}

// Run drives the hub's event loop until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.log.Info("publisher hub shutting down")
			h.shutdown()
			return
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.series[client.seriesID] == nil {
		h.series[client.seriesID] = make(map[*Client]bool)
	}
	h.series[client.seriesID][client] = true
	h.log.Info("publisher client registered", zap.String("series_id", client.seriesID))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.series[client.seriesID]; ok {
		if _, exists := clients[client]; exists {
			delete(clients, client)
			close(client.send)
			if len(clients) == 0 {
				delete(h.series, client.seriesID)
			}
		}
	}
}

func (h *Hub) broadcastMessage(message *Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.series[message.SeriesID]
	if !ok {
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		h.log.LogError("failed to marshal publisher message", err)
		return
	}

	for client := range clients {
		select {
		case client.send <- data:
		default:
			h.log.Info("publisher client send buffer full, disconnecting",
				zap.String("series_id", client.seriesID))
			close(client.send)
			delete(clients, client)
		}
	}
}

// Send enqueues a message for broadcast, dropping it (and logging) if
// the hub's internal channel is saturated — a Publisher method must
// never block the tournament core.
func (h *Hub) Send(seriesID string, msgType MessageType, payload interface{}) {
	message := &Message{SeriesID: seriesID, Type: msgType, Payload: payload}
	select {
	case h.broadcast <- message:
	default:
		h.log.Error("publisher broadcast channel full, event dropped",
			zap.String("series_id", seriesID), zap.String("type", string(msgType)))
	}
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for seriesID, clients := range h.series {
		for client := range clients {
			close(client.send)
			delete(clients, client)
		}
		delete(h.series, seriesID)
	}
}
