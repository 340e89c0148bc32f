package statement

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/spendwise/internal/auth"
	"github.com/MrJamesThe3rd/spendwise/internal/http/respond"
	txhttp "github.com/MrJamesThe3rd/spendwise/internal/http/transaction"
	"github.com/MrJamesThe3rd/spendwise/internal/ingest"
	"github.com/MrJamesThe3rd/spendwise/internal/logger"
	"github.com/MrJamesThe3rd/spendwise/internal/normalize"
	"github.com/MrJamesThe3rd/spendwise/internal/statement"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

// multipartOverhead is allowed on top of the file limit for form framing.
const multipartOverhead = 1 << 20

type Ingester interface {
	ParseAndCategorize(ctx context.Context, file []byte, fileName string, userID uuid.UUID) (*ingest.Result, error)
}

type Handler struct {
	svc      Ingester
	maxBytes int64
}

func NewHandler(svc Ingester, maxBytes int64) *Handler {
	return &Handler{svc: svc, maxBytes: maxBytes}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.upload)
}

type rowErrorResponse struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

type storeRejectionResponse struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

type uploadResponse struct {
	Inserted      int                      `json:"inserted"`
	RejectedRows  []rowErrorResponse       `json:"rejected_rows"`
	StoreRejected []storeRejectionResponse `json:"store_rejected"`
	Transactions  []txhttp.Response        `json:"transactions"`
}

type noValidRowsResponse struct {
	Error        string             `json:"error"`
	RejectedRows []rowErrorResponse `json:"rejected_rows"`
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		respond.Error(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.Error(w, r, http.StatusRequestEntityTooLarge, ingest.ErrFileTooLarge.Error())
			return
		}

		respond.Error(w, r, http.StatusBadRequest, "failed to parse form: "+err.Error())

		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, "failed to read file: "+err.Error())
		return
	}

	result, err := h.svc.ParseAndCategorize(r.Context(), data, header.Filename, userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusCreated, toUploadResponse(result))
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		noRows  *ingest.NoValidRowsError
		persist *transaction.PersistenceError
	)

	switch {
	case errors.Is(err, ingest.ErrFileTooLarge):
		respond.Error(w, r, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, statement.ErrUnsupportedFormat):
		respond.Error(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, statement.ErrEmptyFile), errors.Is(err, normalize.ErrMissingColumns):
		respond.Error(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &noRows):
		respond.JSON(w, r, http.StatusUnprocessableEntity, noValidRowsResponse{
			Error:        noRows.Error(),
			RejectedRows: toRowErrors(noRows.Rejected),
		})
	case errors.As(err, &persist):
		logger.FromContext(r.Context()).Error().Err(err).Msg("persist statement")
		respond.Error(w, r, http.StatusBadGateway, "failed to store transactions")
	default:
		logger.FromContext(r.Context()).Error().Err(err).Msg("ingest statement")
		respond.Error(w, r, http.StatusInternalServerError, "internal error")
	}
}

func toUploadResponse(res *ingest.Result) uploadResponse {
	resp := uploadResponse{
		Inserted:      res.InsertedCount,
		RejectedRows:  toRowErrors(res.RejectedRows),
		StoreRejected: []storeRejectionResponse{},
		Transactions:  txhttp.ToResponseList(res.Transactions),
	}

	for _, rej := range res.StoreRejections() {
		resp.StoreRejected = append(resp.StoreRejected, storeRejectionResponse{Line: rej.Line, Reason: rej.Reason})
	}

	return resp
}

func toRowErrors(rows []normalize.RowError) []rowErrorResponse {
	out := make([]rowErrorResponse, len(rows))
	for i, row := range rows {
		out[i] = rowErrorResponse{Line: row.Line, Reason: row.Reason}
	}

	return out
}
