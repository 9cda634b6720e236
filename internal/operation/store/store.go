package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dayledger/internal/operation"
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

// Expected column order: id, distributor_id, date, opening_cash, status, opened_by, closed_by, closed_at,
// notes, closing_summary, removed, created_at, updated_at
func scanOperation(s scanner) (*operation.DailyOperation, error) {
	var op operation.DailyOperation

	var statusStr string

	var closedBy sql.NullString

	var summary []byte

	if err := s.Scan(
		&op.ID, &op.DistributorID, &op.Date, &op.OpeningCash, &statusStr, &op.OpenedBy, &closedBy, &op.ClosedAt,
		&op.Notes, &summary, &op.Removed, &op.CreatedAt, &op.UpdatedAt,
	); err != nil {
		return nil, err
	}

	op.Status = operation.Status(statusStr)
	op.ClosedBy = closedBy.String

	if len(summary) > 0 {
		var cs operation.ClosingSummary
		if err := json.Unmarshal(summary, &cs); err != nil {
			return nil, fmt.Errorf("decoding closing summary: %w", err)
		}

		op.ClosingSummary = &cs
	}

	return &op, nil
}

const selectOperationColumns = `
	id, distributor_id, date, opening_cash, status, opened_by, closed_by, closed_at,
	notes, closing_summary, removed, created_at, updated_at
`

func (s *Store) CreateOperation(ctx context.Context, op *operation.DailyOperation) error {
	query := `
		INSERT INTO daily_operations (distributor_id, date, opening_cash, status, opened_by, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		op.DistributorID,
		op.Date,
		op.OpeningCash,
		op.Status,
		op.OpenedBy,
		op.Notes,
	).Scan(&op.ID, &op.CreatedAt, &op.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating operation: %w", err)
	}

	return nil
}

func (s *Store) GetOperation(ctx context.Context, id uuid.UUID) (*operation.DailyOperation, error) {
	query := `SELECT ` + selectOperationColumns + `
		FROM daily_operations
		WHERE id = $1 AND removed = FALSE`

	op, err := scanOperation(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, operation.ErrNotFound
		}

		return nil, fmt.Errorf("getting operation: %w", err)
	}

	return op, nil
}

func (s *Store) ListOperations(ctx context.Context, filter operation.ListFilter) ([]*operation.DailyOperation, error) {
	query := `SELECT ` + selectOperationColumns + `
		FROM daily_operations
		WHERE removed = FALSE`

	var args []any

	argIdx := 1

	if filter.DistributorID != nil {
		query += fmt.Sprintf(" AND distributor_id = $%d", argIdx)

		args = append(args, *filter.DistributorID)
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.From != nil {
		query += fmt.Sprintf(" AND date >= $%d", argIdx)

		args = append(args, *filter.From)
		argIdx++
	}

	if filter.To != nil {
		query += fmt.Sprintf(" AND date <= $%d", argIdx)

		args = append(args, *filter.To)
		argIdx++
	}

	query += " ORDER BY date DESC, created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	defer rows.Close()

	var ops []*operation.DailyOperation

	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning operation: %w", err)
		}

		ops = append(ops, op)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating operation rows: %w", err)
	}

	return ops, nil
}

// CloseOperation closes the day in one transaction. The operation row is held
// FOR UPDATE while the entries are read and the summary is stored, so a child
// write either commits before the entries are read or finds the day closed.
func (s *Store) CloseOperation(ctx context.Context, id uuid.UUID, summarize operation.Summarizer) (*operation.DailyOperation, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning close: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `SELECT ` + selectOperationColumns + `
		FROM daily_operations
		WHERE id = $1 AND removed = FALSE
		FOR UPDATE`

	op, err := scanOperation(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, operation.ErrNotFound
		}

		return nil, fmt.Errorf("locking operation: %w", err)
	}

	if op.Status != operation.StatusOpen {
		return nil, operation.ErrNotOpen
	}

	entries, err := loadEntries(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	summary := summarize(op, entries)

	payload, err := json.Marshal(summary)
	if err != nil {
		return nil, fmt.Errorf("encoding closing summary: %w", err)
	}

	update := `
		UPDATE daily_operations
		SET status = $1, closed_by = $2, closed_at = $3, closing_summary = $4, updated_at = NOW()
		WHERE id = $5
	`

	if _, err := tx.ExecContext(ctx, update,
		operation.StatusClosed,
		summary.ClosedBy,
		summary.ClosedAt,
		payload,
		id,
	); err != nil {
		return nil, fmt.Errorf("closing operation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing close: %w", err)
	}

	closedAt := summary.ClosedAt
	op.Status = operation.StatusClosed
	op.ClosedBy = summary.ClosedBy
	op.ClosedAt = &closedAt
	op.ClosingSummary = &summary

	return op, nil
}

func (s *Store) UpdateInvoiceStatus(ctx context.Context, operationID, invoiceID uuid.UUID, status operation.InvoiceStatus) error {
	query := `
		UPDATE pending_invoices
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND operation_id = $3 AND removed = FALSE
	`

	err := s.withOpenOperation(ctx, operationID, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, query, status, invoiceID, operationID)
		if err != nil {
			return err
		}

		return requireRow(res)
	})
	if err != nil {
		return wrapWrite("updating invoice status", err)
	}

	return nil
}

var entryTables = map[operation.EntryKind]string{
	operation.KindLoaded:     "loaded_products",
	operation.KindReturned:   "returned_products",
	operation.KindUnreturned: "unreturned_products",
	operation.KindExpense:    "operating_expenses",
	operation.KindInvoice:    "pending_invoices",
}

// RemoveEntry soft-deletes a child entry by setting its removed flag.
func (s *Store) RemoveEntry(ctx context.Context, kind operation.EntryKind, operationID, entryID uuid.UUID) error {
	table, ok := entryTables[kind]
	if !ok {
		return fmt.Errorf("unknown entry kind %q", kind)
	}

	query := `UPDATE ` + table + `
		SET removed = TRUE
		WHERE id = $1 AND operation_id = $2 AND removed = FALSE`

	err := s.withOpenOperation(ctx, operationID, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, query, entryID, operationID)
		if err != nil {
			return err
		}

		return requireRow(res)
	})
	if err != nil {
		return wrapWrite("removing "+string(kind)+" entry", err)
	}

	return nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if n == 0 {
		return operation.ErrNotFound
	}

	return nil
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// withOpenOperation runs fn in a transaction that holds a share lock on the
// operation row. Closing takes the row FOR UPDATE, so fn never interleaves with
// a close: it either commits first or sees the day closed and gets ErrNotOpen.
func (s *Store) withOpenOperation(ctx context.Context, operationID uuid.UUID, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var status string

	err = tx.QueryRowContext(ctx,
		`SELECT status FROM daily_operations WHERE id = $1 AND removed = FALSE FOR SHARE`,
		operationID,
	).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return operation.ErrNotFound
		}

		return fmt.Errorf("locking operation: %w", err)
	}

	if operation.Status(status) != operation.StatusOpen {
		return operation.ErrNotOpen
	}

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}

	return nil
}

// wrapWrite adds context to driver errors and passes the ledger sentinels
// through untouched.
func wrapWrite(what string, err error) error {
	if errors.Is(err, operation.ErrNotOpen) || errors.Is(err, operation.ErrNotFound) {
		return err
	}

	return fmt.Errorf("%s: %w", what, err)
}
