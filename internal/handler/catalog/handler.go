package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/liangzhu/ds-tutor/backend/internal/model/catalog"
	"github.com/liangzhu/ds-tutor/backend/pkg/utils"
)

// Handler serves the static study content.
type Handler struct {
	content catalog.Store
}

// New creates the catalog handler.
func New(content catalog.Store) *Handler {
	return &Handler{content: content}
}

// RegisterRoutes wires the catalog routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/comparisons", h.handleListComparisons)
	r.Get("/comparisons/{id}", h.handleGetComparison)
	r.Get("/diagrams", h.handleListDiagrams)
	r.Get("/diagrams/{id}", h.handleGetDiagram)
}

func (h *Handler) handleListComparisons(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.content.Comparisons())
}

func (h *Handler) handleGetComparison(w http.ResponseWriter, r *http.Request) {
	table, ok := h.content.ComparisonByID(chi.URLParam(r, "id"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "comparison not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, table)
}

func (h *Handler) handleListDiagrams(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.content.Diagrams())
}

func (h *Handler) handleGetDiagram(w http.ResponseWriter, r *http.Request) {
	diagram, ok := h.content.DiagramByID(chi.URLParam(r, "id"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "diagram not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, diagram)
}
