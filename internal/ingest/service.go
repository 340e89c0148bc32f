package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/spendwise/internal/categorize"
	"github.com/MrJamesThe3rd/spendwise/internal/category"
	"github.com/MrJamesThe3rd/spendwise/internal/logger"
	"github.com/MrJamesThe3rd/spendwise/internal/normalize"
	"github.com/MrJamesThe3rd/spendwise/internal/statement"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=ingest
type TransactionStore interface {
	InsertBatch(ctx context.Context, userID uuid.UUID, txs []*transaction.Transaction) (*transaction.InsertResult, error)
	List(ctx context.Context, filter transaction.Filter) ([]*transaction.Transaction, error)
	UpdateCategory(ctx context.Context, tx *transaction.Transaction) error
}

type CategorySource interface {
	Set(ctx context.Context, userID uuid.UUID) (*category.Set, error)
}

type Service struct {
	transactions TransactionStore
	categories   CategorySource
	categorizer  *categorize.Categorizer
	opts         Options
}

func NewService(transactions TransactionStore, categories CategorySource, categorizer *categorize.Categorizer, opts Options) *Service {
	return &Service{
		transactions: transactions,
		categories:   categories,
		categorizer:  categorizer,
		opts:         opts,
	}
}

// ParseAndCategorize ingests one statement file for userID. File-level
// problems fail the whole upload; bad rows are skipped and reported.
func (s *Service) ParseAndCategorize(ctx context.Context, file []byte, fileName string, userID uuid.UUID) (*Result, error) {
	log := logger.FromContext(ctx).With().
		Str("user_id", userID.String()).
		Str("file", fileName).
		Logger()

	if s.opts.MaxUploadBytes > 0 && int64(len(file)) > s.opts.MaxUploadBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, len(file), s.opts.MaxUploadBytes)
	}

	rows, err := statement.Open(bytes.NewReader(file), fileName, statement.WithHeaderProbe(normalize.LooksLikeHeader))
	if err != nil {
		return nil, fmt.Errorf("open statement: %w", err)
	}
	defer rows.Close()

	layout, err := normalize.Resolve(rows.Header())
	if err != nil {
		return nil, err
	}

	normalized, err := normalize.Normalize(ctx, layout, rows, s.opts.Workers)
	if err != nil {
		return nil, fmt.Errorf("normalize rows: %w", err)
	}

	log.Debug().
		Str("format", string(rows.Format())).
		Int("candidates", len(normalized.Candidates)).
		Int("rejected", len(normalized.Rejected)).
		Msg("statement normalized")

	if len(normalized.Candidates) == 0 {
		return nil, &NoValidRowsError{Rejected: normalized.Rejected}
	}

	set, err := s.categories.Set(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}

	s.categorizer.Categorize(normalized.Candidates, set)

	for _, tx := range normalized.Candidates {
		tx.SourceFile = fileName
	}

	inserted, err := s.transactions.InsertBatch(ctx, userID, normalized.Candidates)
	if err != nil {
		return nil, fmt.Errorf("insert transactions: %w", err)
	}

	log.Info().
		Int("inserted", inserted.Inserted).
		Int("rejected_rows", len(normalized.Rejected)).
		Int("rejected_by_store", len(inserted.Rejected)).
		Msg("statement ingested")

	return &Result{
		InsertedCount: inserted.Inserted,
		RejectedRows:  normalized.Rejected,
		Insert:        inserted,
		Transactions:  normalized.Candidates,
	}, nil
}

// Recategorize assigns categories to the user's stored transactions that have
// none and returns how many were updated.
func (s *Service) Recategorize(ctx context.Context, userID uuid.UUID) (int, error) {
	log := logger.FromContext(ctx)

	txs, err := s.transactions.List(ctx, transaction.Filter{UserID: userID, Uncategorized: true})
	if err != nil {
		return 0, fmt.Errorf("list uncategorized: %w", err)
	}

	if len(txs) == 0 {
		return 0, nil
	}

	set, err := s.categories.Set(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("load categories: %w", err)
	}

	s.categorizer.Categorize(txs, set)

	updated := 0

	for _, tx := range txs {
		err := s.transactions.UpdateCategory(ctx, tx)
		if errors.Is(err, transaction.ErrNotFound) {
			// Categorized concurrently; the first assignment stands.
			continue
		}

		if err != nil {
			return updated, fmt.Errorf("update transaction %s: %w", tx.ID, err)
		}

		updated++
	}

	log.Info().Str("user_id", userID.String()).Int("updated", updated).Msg("transactions recategorized")

	return updated, nil
}
