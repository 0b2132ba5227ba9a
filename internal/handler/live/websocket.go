package live

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	sessionService "github.com/liangzhu/ds-tutor/backend/internal/service/session"
	"github.com/liangzhu/ds-tutor/backend/pkg/utils"
)

// Handler pushes transcript change events over a websocket, for frontends
// that prefer a socket to SSE.
type Handler struct {
	sessionSvc *sessionService.Service
	upgrader   websocket.Upgrader
}

// New creates the websocket handler.
func New(sessionSvc *sessionService.Service) *Handler {
	return &Handler{
		sessionSvc: sessionSvc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes wires the live feed route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/live/{sessionID}", h.handleLive)
}

type outgoingMessage struct {
	Type      string                `json:"type"`
	Event     *sessionService.Event `json:"event,omitempty"`
	Timestamp int64                 `json:"timestamp"`
}

func (h *Handler) handleLive(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if _, err := h.sessionSvc.GetSession(sessionID); err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[live] upgrade failed for session=%s: %v", sessionID, err)
		return
	}
	defer conn.Close()

	events, cancel := h.sessionSvc.Subscribe()
	defer cancel()

	log.Printf("[live] feed opened for session=%s", sessionID)

	// Drain the read side so close frames are processed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := conn.WriteJSON(outgoingMessage{Type: "connected", Timestamp: time.Now().Unix()}); err != nil {
		return
	}

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			log.Printf("[live] feed closed for session=%s", sessionID)
			return
		case <-done:
			return
		case ev, open := <-events:
			if !open {
				return
			}
			msg := outgoingMessage{Type: "transcript", Event: &ev, Timestamp: time.Now().Unix()}
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("[live] write failed for session=%s: %v", sessionID, err)
				return
			}
		}
	}
}
