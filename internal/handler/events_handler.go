package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"neo4j-explorer-backend/internal/pkg/events"
	"neo4j-explorer-backend/internal/pkg/logger"
)

// EventsHandler streams the client's operation state changes so the
// frontend can disable controls while an operation is pending.
type EventsHandler struct {
	hub      *events.Hub
	upgrader websocket.Upgrader
	logger   *logger.Logger
}

func NewEventsHandler(hub *events.Hub, allowOrigins []string, logger *logger.Logger) *EventsHandler {
	allowed := make(map[string]struct{}, len(allowOrigins))
	for _, origin := range allowOrigins {
		allowed[origin] = struct{}{}
	}

	return &EventsHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
		logger: logger,
	}
}

func (h *EventsHandler) Stream(c *gin.Context) {
	id := clientID(c)

	// subscribe before the handshake completes so no event is missed
	ch, cancel := h.hub.Subscribe(id)
	defer cancel()

	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.String("client", id), zap.Error(err))
		return
	}
	defer ws.Close()

	// the client never sends; reading only detects the close
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if err := ws.WriteJSON(ev); err != nil {
				h.logger.Warn("WebSocket write error", zap.String("client", id), zap.Error(err))
				return
			}
		case <-closed:
			h.logger.Debug("event stream closed", zap.String("client", id))
			return
		}
	}
}
