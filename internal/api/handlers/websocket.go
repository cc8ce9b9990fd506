package handlers

import (
	"net/http"
	"os"
	"strings"

	"github.com/bmstu-itstech/botarena/internal/publisher/ws"
	"github.com/bmstu-itstech/botarena/pkg/logger"
	"github.com/go-chi/chi/v5"
	gorillaws "github.com/gorilla/websocket"
)

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		allowed := os.Getenv("WEBSOCKET_ALLOWED_ORIGINS")
		if allowed == "" {
			return true
		}
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range strings.Split(allowed, ",") {
			if strings.TrimSpace(o) == origin {
				return true
			}
		}
		return false
	},
}

// WebSocketHandler upgrades a subscriber connection into the publisher
// hub, one client per seriesID.
type WebSocketHandler struct {
	hub *ws.Hub
	log *logger.Logger
}

// NewWebSocketHandler builds a WebSocketHandler over hub.
func NewWebSocketHandler(hub *ws.Hub, log *logger.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, log: log}
}

// HandleSeries upgrades the connection and subscribes it to every event
// the Publisher emits for the given seriesID.
// GET /ws/{seriesID}
func (h *WebSocketHandler) HandleSeries(w http.ResponseWriter, r *http.Request) {
	seriesID := chi.URLParam(r, "seriesID")
	if seriesID == "" {
		http.Error(w, "series id required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed")
		return
	}

	client := ws.NewClient(h.hub, conn, seriesID, h.log)
	client.Register()

	go client.WritePump()
	go client.ReadPump()
}
