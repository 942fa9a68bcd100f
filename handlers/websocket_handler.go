package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/tarujar/kantalakyykka/live"
	"github.com/tarujar/kantalakyykka/services"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict to the public frontend origin once it is deployed.
		return true
	},
}

type WebSocketHandler struct {
	hub         *live.Hub
	gameService services.GameService
	logger      *slog.Logger
}

func NewWebSocketHandler(hub *live.Hub, gameService services.GameService, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		gameService: gameService,
		logger:      logger,
	}
}

// ServeGame subscribes a client to live score updates of one game.
func (h *WebSocketHandler) ServeGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if _, err := h.gameService.GetGameByID(r.Context(), gameID); err != nil {
		if errors.Is(err, services.ErrGameNotFound) {
			notFoundResponse(w, r)
			return
		}
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "game_id", gameID, "error", err)
		return
	}

	h.hub.Subscribe(conn, gameID)
}
