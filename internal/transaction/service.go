package transaction

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/spendwise/internal/category"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	InsertBatch(ctx context.Context, userID uuid.UUID, txs []*Transaction) (*InsertResult, error)
	ListTransactions(ctx context.Context, filter Filter) ([]*Transaction, error)
	UpdateCategory(ctx context.Context, userID, id uuid.UUID, categoryID category.ID, confidence *float64) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Filter scopes a query to one user. Months holds YYYY-MM tokens; empty
// means every month.
type Filter struct {
	UserID        uuid.UUID
	Months        []string
	Uncategorized bool
}

// InsertBatch writes txs for userID as one logical batch. The store's result
// is returned as-is; a batch rejected outright comes back as *PersistenceError.
func (s *Service) InsertBatch(ctx context.Context, userID uuid.UUID, txs []*Transaction) (*InsertResult, error) {
	if len(txs) == 0 {
		return &InsertResult{}, nil
	}

	for _, tx := range txs {
		tx.UserID = userID
	}

	result, err := s.repo.InsertBatch(ctx, userID, txs)
	if err != nil {
		return nil, &PersistenceError{Err: err}
	}

	return result, nil
}

func (s *Service) List(ctx context.Context, filter Filter) ([]*Transaction, error) {
	if filter.UserID == uuid.Nil {
		return nil, fmt.Errorf("list transactions: user id is required")
	}

	return s.repo.ListTransactions(ctx, filter)
}

// UpdateCategory records the category of a stored, still uncategorized transaction.
func (s *Service) UpdateCategory(ctx context.Context, tx *Transaction) error {
	if tx.CategoryID == nil {
		return fmt.Errorf("update category of %s: no category set", tx.ID)
	}

	return s.repo.UpdateCategory(ctx, tx.UserID, tx.ID, *tx.CategoryID, tx.Confidence)
}
