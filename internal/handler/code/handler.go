package code

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	runnerService "github.com/liangzhu/ds-tutor/backend/internal/service/runner"
	sessionService "github.com/liangzhu/ds-tutor/backend/internal/service/session"
	"github.com/liangzhu/ds-tutor/backend/pkg/utils"
)

// Handler exposes the editor buffer and code execution over HTTP.
type Handler struct {
	sessionSvc *sessionService.Service
	runnerSvc  *runnerService.Service
}

// New creates the code handler.
func New(sessionSvc *sessionService.Service, runnerSvc *runnerService.Service) *Handler {
	return &Handler{
		sessionSvc: sessionSvc,
		runnerSvc:  runnerSvc,
	}
}

// RegisterRoutes wires the code routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/code/{sessionID}", h.handleGetCode)
	r.Put("/code", h.handleSetCode)
	r.Delete("/code/{sessionID}", h.handleClearCode)
	r.Post("/code/run", h.handleRunCode)
}

func (h *Handler) handleGetCode(w http.ResponseWriter, r *http.Request) {
	source, err := h.sessionSvc.Code(chi.URLParam(r, "sessionID"))
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"source": source})
}

func (h *Handler) handleSetCode(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"sessionId"`
		Source    string `json:"source"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.sessionSvc.SetCode(payload.SessionID, payload.Source); err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusAccepted, map[string]string{"status": "saved"})
}

func (h *Handler) handleClearCode(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionSvc.ClearCode(chi.URLParam(r, "sessionID")); err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// handleRunCode executes the submitted source, or the saved buffer when the
// request carries none. Execution faults come back inside the result body,
// not as an HTTP error.
func (h *Handler) handleRunCode(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"sessionId"`
		Source    string `json:"source"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	source := payload.Source
	if source == "" {
		saved, err := h.sessionSvc.Code(payload.SessionID)
		if err != nil {
			utils.RespondError(w, http.StatusNotFound, err.Error())
			return
		}
		source = saved
	} else if _, err := h.sessionSvc.GetSession(payload.SessionID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, sessionService.ErrSessionNotFound) {
			status = http.StatusNotFound
		}
		utils.RespondError(w, status, err.Error())
		return
	}

	result := h.runnerSvc.Run(r.Context(), source)
	utils.RespondJSON(w, http.StatusOK, result)
}
