package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/spendwise/internal/category"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

// Response is the wire form of a stored transaction.
type Response struct {
	ID          uuid.UUID         `json:"id,omitzero"`
	Date        string            `json:"date"`
	Description string            `json:"description"`
	Amount      transaction.Money `json:"amount"`
	Type        transaction.Type  `json:"type"`
	CategoryID  *category.ID      `json:"category_id"`
	Confidence  *float64          `json:"confidence,omitempty"`
	SourceFile  string            `json:"source_file,omitempty"`
	SourceLine  int               `json:"source_line,omitempty"`
	CreatedAt   *time.Time        `json:"created_at,omitempty"`
}

func ToResponse(tx *transaction.Transaction) Response {
	resp := Response{
		ID:          tx.ID,
		Date:        tx.Date.Format(time.DateOnly),
		Description: tx.Description,
		Amount:      transaction.Money(tx.Amount),
		Type:        tx.Type,
		CategoryID:  tx.CategoryID,
		Confidence:  tx.Confidence,
		SourceFile:  tx.SourceFile,
		SourceLine:  tx.SourceLine,
	}

	if !tx.CreatedAt.IsZero() {
		resp.CreatedAt = &tx.CreatedAt
	}

	return resp
}

func ToResponseList(txs []*transaction.Transaction) []Response {
	resp := make([]Response, len(txs))
	for i, tx := range txs {
		resp[i] = ToResponse(tx)
	}

	return resp
}
