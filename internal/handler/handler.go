package handler

import (
	"log/slog"
	"net/http"

	"github.com/cutekitek/rankode-judge/internal/runner/judge0"
	"github.com/cutekitek/rankode-judge/internal/store"
	"github.com/cutekitek/rankode-judge/pkg/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
)

type Handler struct {
	statuses store.StatusStore
}

func NewHandler(statuses store.StatusStore) *Handler {
	return &Handler{statuses: statuses}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.handleHealth)
	r.Get("/languages", h.handleLanguages)
	r.Get("/validations/{validationID}", h.handleGetValidation)

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleLanguages(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, judge0.SupportedLanguages())
}

func (h *Handler) handleGetValidation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "validationID")

	resp, err := h.statuses.GetStatus(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		utils.WriteError(w, http.StatusNotFound, "validation not found")
		return
	}
	if err != nil {
		slog.Error("failed to load validation status", "id", id, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load validation status")
		return
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}
