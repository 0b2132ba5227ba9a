package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/liangzhu/ds-tutor/backend/internal/model/catalog"
	"github.com/liangzhu/ds-tutor/backend/internal/model/chat"
	sessionService "github.com/liangzhu/ds-tutor/backend/internal/service/session"
)

// Handler exposes the conversation over HTTP.
type Handler struct {
	sessionSvc *sessionService.Service
	catalog    catalog.Store
}

// New creates the chat handler.
func New(sessionSvc *sessionService.Service, content catalog.Store) *Handler {
	return &Handler{
		sessionSvc: sessionSvc,
		catalog:    content,
	}
}

// RegisterRoutes wires the chat routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/messages", h.handleSubmitMessage)
	r.Get("/history", h.handleGetHistory)
	r.Delete("/history", h.handleClearHistory)
	r.Get("/history/download", h.handleDownloadHistory)
	r.Get("/quick-questions", h.handleListQuickQuestions)
	r.Post("/quick-questions/ask", h.handleAskQuickQuestion)
}

// exchange is the pair of turns one submission produces.
type exchange struct {
	User      chat.Turn `json:"user"`
	Assistant chat.Turn `json:"assistant"`
}

func (h *Handler) handleSubmitMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"sessionId"`
		Message   string `json:"message"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userTurn, assistantTurn, err := h.sessionSvc.SubmitMessage(r.Context(), payload.SessionID, payload.Message)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, exchange{User: userTurn, Assistant: assistantTurn})
}

func (h *Handler) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.sessionSvc.Transcript())
}

func (h *Handler) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionSvc.ClearHistory(); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (h *Handler) handleDownloadHistory(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="chat_history.txt"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(h.sessionSvc.ExportTranscript()))
}

func (h *Handler) handleListQuickQuestions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.catalog.QuickQuestions())
}

func (h *Handler) handleAskQuickQuestion(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"sessionId"`
		Index     int    `json:"index"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userTurn, assistantTurn, err := h.sessionSvc.AskQuickQuestion(r.Context(), payload.SessionID, payload.Index)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, exchange{User: userTurn, Assistant: assistantTurn})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, sessionService.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, sessionService.ErrMessageRequired),
		errors.Is(err, sessionService.ErrQuestionNotFound):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
