package stream

import (
	"log"
	"net/http"
	"time"

	sessionService "github.com/liangzhu/ds-tutor/backend/internal/service/session"
	"github.com/liangzhu/ds-tutor/backend/pkg/utils"
)

// Handler pushes transcript change events to the frontend over Server-Sent
// Events so it can re-render without polling.
type Handler struct {
	sessionSvc *sessionService.Service
}

// New creates the stream handler.
func New(sessionSvc *sessionService.Service) *Handler {
	return &Handler{sessionSvc: sessionSvc}
}

// HandleStream serves one SSE connection for a logged-in session. It emits
// a status frame on open, transcript events as they happen, and heartbeats
// while idle.
func (h *Handler) HandleStream(w http.ResponseWriter, r *http.Request, sessionID string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	if _, err := h.sessionSvc.GetSession(sessionID); err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	utils.SetupSSEHeaders(w)

	ctx := r.Context()
	events, cancel := h.sessionSvc.Subscribe()
	defer cancel()

	log.Printf("[sse] opening stream for session=%s", sessionID)

	ticker := time.NewTicker(8 * time.Second)
	defer ticker.Stop()

	utils.SendSSEEvent(w, flusher, "status", map[string]string{
		"message": "stream established",
	})

	for {
		select {
		case <-ctx.Done():
			log.Printf("[sse] closing stream for session=%s", sessionID)
			return
		case ev, open := <-events:
			if !open {
				return
			}
			utils.SendSSEEvent(w, flusher, ev.Kind, ev)
		case t := <-ticker.C:
			utils.SendSSEEvent(w, flusher, "heartbeat", map[string]string{
				"time": t.UTC().Format(time.RFC3339),
			})
		}
	}
}
