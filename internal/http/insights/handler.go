package insights

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/spendwise/internal/auth"
	"github.com/MrJamesThe3rd/spendwise/internal/http/request"
	"github.com/MrJamesThe3rd/spendwise/internal/http/respond"
	"github.com/MrJamesThe3rd/spendwise/internal/insights"
	"github.com/MrJamesThe3rd/spendwise/internal/logger"
)

type Computer interface {
	ComputeInsights(ctx context.Context, userID uuid.UUID, months []string) (*insights.Snapshot, error)
}

type Handler struct {
	svc Computer
}

func NewHandler(svc Computer) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		respond.Error(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	months, err := request.Months(r)
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := h.svc.ComputeInsights(r.Context(), userID, months)
	if err != nil {
		if errors.Is(err, insights.ErrInvalidMonth) {
			respond.Error(w, r, http.StatusBadRequest, err.Error())
			return
		}

		logger.FromContext(r.Context()).Error().Err(err).Msg("compute insights")
		respond.Error(w, r, http.StatusInternalServerError, "internal error")

		return
	}

	respond.JSON(w, r, http.StatusOK, snap)
}
