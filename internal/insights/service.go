package insights

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/spendwise/internal/category"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

var ErrInvalidMonth = errors.New("invalid month, want YYYY-MM")

//go:generate mockgen -source=service.go -destination=service_mock.go -package=insights
type TransactionLister interface {
	List(ctx context.Context, filter transaction.Filter) ([]*transaction.Transaction, error)
}

type CategorySource interface {
	Set(ctx context.Context, userID uuid.UUID) (*category.Set, error)
}

type Service struct {
	transactions TransactionLister
	categories   CategorySource
}

func NewService(transactions TransactionLister, categories CategorySource) *Service {
	return &Service{transactions: transactions, categories: categories}
}

// ComputeInsights builds the snapshot for one user's transactions in months.
func (s *Service) ComputeInsights(ctx context.Context, userID uuid.UUID, months []string) (*Snapshot, error) {
	for _, m := range months {
		if !ValidMonth(m) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidMonth, m)
		}
	}

	set, err := s.categories.Set(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}

	txs, err := s.transactions.List(ctx, transaction.Filter{UserID: userID, Months: months})
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}

	snap := Compute(txs, set, months)

	return &snap, nil
}

func ValidMonth(s string) bool {
	_, err := time.Parse("2006-01", s)
	return err == nil
}
