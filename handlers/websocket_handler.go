package handlers

import (
	"log"
	"net/http"

	"github.com/courtbook/booking-system/live"
	"github.com/courtbook/booking-system/services"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// В продакшене здесь должна быть проверка Origin,
		// чтобы разрешать подключения только с доверенных доменов.
		return true
	},
}

type WebSocketHandler struct {
	hub          *live.Hub
	venueService services.VenueService
}

func NewWebSocketHandler(hub *live.Hub, vs services.VenueService) *WebSocketHandler {
	return &WebSocketHandler{
		hub:          hub,
		venueService: vs,
	}
}

// ServeWs обрабатывает WebSocket запросы для конкретной площадки.
// Клиент подключается к /ws/venues/{venueID} и получает события
// занятости слотов этой площадки.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	venueIDStr := chi.URLParam(r, "venueID")
	if venueIDStr == "" {
		http.Error(w, "Missing venueID", http.StatusBadRequest)
		return
	}

	venueID, err := getIDFromURL(r, "venueID")
	if err != nil {
		http.Error(w, "Invalid venueID", http.StatusBadRequest)
		return
	}
	if _, err := h.venueService.GetVenueByID(r.Context(), venueID); err != nil {
		http.NotFound(w, r)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader.Upgrade сам отправляет HTTP ошибку клиенту, так что здесь просто логируем.
		log.Printf("Failed to upgrade connection for venue %s: %v", venueIDStr, err)
		return
	}

	client := &live.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: venueIDStr,
	}
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
