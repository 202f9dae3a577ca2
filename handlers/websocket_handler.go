package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/league-ledger/live"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Клиенты только читают события, источник не ограничиваем
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WebSocketHandler struct {
	hub *live.Hub
}

func NewWebSocketHandler(hub *live.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// ServeWs подписывает клиента на события сезона: /seasons/{season}/ws
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	scope, err := getScopeFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам отвечает клиенту ошибкой
		slog.WarnContext(r.Context(), "websocket upgrade failed", slog.String("scope", scope.String()), slog.Any("error", err))
		return
	}

	client := &live.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: scope.String(),
	}
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
