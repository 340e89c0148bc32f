package transaction

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/spendwise/internal/auth"
	"github.com/MrJamesThe3rd/spendwise/internal/http/request"
	"github.com/MrJamesThe3rd/spendwise/internal/http/respond"
	"github.com/MrJamesThe3rd/spendwise/internal/logger"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

type Lister interface {
	List(ctx context.Context, filter transaction.Filter) ([]*transaction.Transaction, error)
}

type Recategorizer interface {
	Recategorize(ctx context.Context, userID uuid.UUID) (int, error)
}

type Handler struct {
	txs        Lister
	recategory Recategorizer
}

func NewHandler(txs Lister, recategory Recategorizer) *Handler {
	return &Handler{txs: txs, recategory: recategory}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/recategorize", h.recategorize)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
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

	filter := transaction.Filter{
		UserID:        userID,
		Months:        months,
		Uncategorized: r.URL.Query().Get("uncategorized") == "true",
	}

	txs, err := h.txs.List(r.Context(), filter)
	if err != nil {
		logger.FromContext(r.Context()).Error().Err(err).Msg("list transactions")
		respond.Error(w, r, http.StatusInternalServerError, "internal error")

		return
	}

	respond.JSON(w, r, http.StatusOK, ToResponseList(txs))
}

type recategorizeResponse struct {
	Updated int `json:"updated"`
}

func (h *Handler) recategorize(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		respond.Error(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	n, err := h.recategory.Recategorize(r.Context(), userID)
	if err != nil {
		logger.FromContext(r.Context()).Error().Err(err).Msg("recategorize transactions")
		respond.Error(w, r, http.StatusInternalServerError, "internal error")

		return
	}

	respond.JSON(w, r, http.StatusOK, recategorizeResponse{Updated: n})
}
