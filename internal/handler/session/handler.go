package session

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	sessionService "github.com/liangzhu/ds-tutor/backend/internal/service/session"
	"github.com/liangzhu/ds-tutor/backend/pkg/utils"
)

// Handler exposes login and session lookup over HTTP.
type Handler struct {
	sessionSvc *sessionService.Service
}

// New creates the session handler.
func New(sessionSvc *sessionService.Service) *Handler {
	return &Handler{sessionSvc: sessionSvc}
}

// RegisterRoutes wires the session routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.handleLogin)
	r.Get("/session/{sessionID}", h.handleGetSession)
	r.Put("/session/{sessionID}/preferences", h.handlePreferences)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username"`
		Role     string `json:"role"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.sessionSvc.Login(payload.Username, payload.Role)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, session)
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionSvc.GetSession(chi.URLParam(r, "sessionID"))
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, session)
}

func (h *Handler) handlePreferences(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		DarkMode bool `json:"darkMode"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.sessionSvc.SetDarkMode(chi.URLParam(r, "sessionID"), payload.DarkMode)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, sessionService.ErrSessionNotFound) {
			status = http.StatusNotFound
		}
		utils.RespondError(w, status, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, session)
}
