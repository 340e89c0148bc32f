package category

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/spendwise/internal/auth"
	"github.com/MrJamesThe3rd/spendwise/internal/category"
	"github.com/MrJamesThe3rd/spendwise/internal/http/respond"
	"github.com/MrJamesThe3rd/spendwise/internal/logger"
)

type Registry interface {
	Set(ctx context.Context, userID uuid.UUID) (*category.Set, error)
}

type Handler struct {
	registry Registry
}

func NewHandler(registry Registry) *Handler {
	return &Handler{registry: registry}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
}

type categoryResponse struct {
	ID       category.ID `json:"id"`
	Name     string      `json:"name"`
	Fallback bool        `json:"fallback,omitempty"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		respond.Error(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	set, err := h.registry.Set(r.Context(), userID)
	if err != nil {
		logger.FromContext(r.Context()).Error().Err(err).Msg("list categories")
		respond.Error(w, r, http.StatusInternalServerError, "internal error")

		return
	}

	all := set.All()
	resp := make([]categoryResponse, len(all))

	for i, c := range all {
		resp[i] = categoryResponse{ID: c.ID, Name: c.Name, Fallback: c.ID == set.Fallback()}
	}

	respond.JSON(w, r, http.StatusOK, resp)
}
