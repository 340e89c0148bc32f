package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/spendwise/internal/category"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectTransactionColumns = `
	id, user_id, date, description, amount, transaction_type,
	category_id, confidence, source_file, source_line, created_at
`

// scanTransaction reads a row in selectTransactionColumns order.
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var tx transaction.Transaction

	var typeStr string

	var categoryID sql.NullInt64

	var confidence sql.NullFloat64

	if err := s.Scan(
		&tx.ID, &tx.UserID, &tx.Date, &tx.Description, &tx.Amount, &typeStr,
		&categoryID, &confidence, &tx.SourceFile, &tx.SourceLine, &tx.CreatedAt,
	); err != nil {
		return nil, err
	}

	tx.Type = transaction.Type(typeStr)
	tx.Date = tx.Date.UTC()

	if categoryID.Valid {
		id := category.ID(categoryID.Int64)
		tx.CategoryID = &id
	}

	if confidence.Valid {
		tx.Confidence = &confidence.Float64
	}

	return &tx, nil
}

// InsertBatch inserts txs inside one database transaction. Each row runs under
// its own savepoint so a row the database refuses is reported and skipped
// without aborting the rest of the batch.
func (s *Store) InsertBatch(ctx context.Context, userID uuid.UUID, txs []*transaction.Transaction) (*transaction.InsertResult, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning batch: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		INSERT INTO transactions (user_id, date, description, amount, transaction_type, category_id, confidence, source_file, source_line, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING id, created_at
	`

	result := &transaction.InsertResult{IDs: make([]uuid.UUID, len(txs))}

	for i, tx := range txs {
		if _, err := dbTx.ExecContext(ctx, "SAVEPOINT batch_row"); err != nil {
			return nil, fmt.Errorf("creating savepoint for row %d: %w", i, err)
		}

		err := dbTx.QueryRowContext(ctx, query,
			userID,
			tx.Date,
			tx.Description,
			tx.Amount,
			string(tx.Type),
			nullCategory(tx.CategoryID),
			nullFloat(tx.Confidence),
			tx.SourceFile,
			tx.SourceLine,
		).Scan(&tx.ID, &tx.CreatedAt)
		if err != nil {
			reason, ok := rowRejection(err)
			if !ok {
				return nil, fmt.Errorf("inserting row %d: %w", i, err)
			}

			if _, err := dbTx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT batch_row"); err != nil {
				return nil, fmt.Errorf("rolling back row %d: %w", i, err)
			}

			result.Rejected = append(result.Rejected, transaction.Rejection{Index: i, Reason: reason})

			continue
		}

		if _, err := dbTx.ExecContext(ctx, "RELEASE SAVEPOINT batch_row"); err != nil {
			return nil, fmt.Errorf("releasing savepoint for row %d: %w", i, err)
		}

		result.IDs[i] = tx.ID
		result.Inserted++
	}

	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("committing batch: %w", err)
	}

	return result, nil
}

// rowRejection extracts the server's message for errors scoped to a single
// row (integrity and data exceptions). Anything else fails the batch.
func rowRejection(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", false
	}

	// SQLSTATE class 22 is data exception, class 23 integrity constraint violation.
	if len(pgErr.Code) < 2 || (pgErr.Code[:2] != "22" && pgErr.Code[:2] != "23") {
		return "", false
	}

	return fmt.Sprintf("%s (SQLSTATE %s)", pgErr.Message, pgErr.Code), true
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.Filter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions
		WHERE user_id = $1`

	args := []any{filter.UserID}
	argIdx := 2

	if len(filter.Months) > 0 {
		query += fmt.Sprintf(" AND to_char(date, 'YYYY-MM') = ANY($%d)", argIdx)

		args = append(args, filter.Months)
		argIdx++
	}

	if filter.Uncategorized {
		query += " AND category_id IS NULL"
	}

	query += " ORDER BY date ASC, created_at ASC, source_line ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	return txs, nil
}

// UpdateCategory sets the category of a transaction that has none yet.
func (s *Store) UpdateCategory(ctx context.Context, userID, id uuid.UUID, categoryID category.ID, confidence *float64) error {
	query := `
		UPDATE transactions
		SET category_id = $1, confidence = $2
		WHERE id = $3 AND user_id = $4 AND category_id IS NULL
	`

	res, err := s.db.ExecContext(ctx, query, int64(categoryID), nullFloat(confidence), id, userID)
	if err != nil {
		return fmt.Errorf("updating category: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating category: %w", err)
	}

	if n == 0 {
		return transaction.ErrNotFound
	}

	return nil
}

func nullCategory(id *category.ID) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}

	return sql.NullInt64{Int64: int64(*id), Valid: true}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}

	return sql.NullFloat64{Float64: *f, Valid: true}
}
