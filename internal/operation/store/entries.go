package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dayledger/internal/operation"
)

func (s *Store) CreateLoadedProduct(ctx context.Context, p *operation.LoadedProduct) error {
	query := `
		INSERT INTO loaded_products (operation_id, product_id, product_name, quantity, unit_price, total, recorded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id, created_at
	`

	err := s.withOpenOperation(ctx, p.OperationID, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, query,
			p.OperationID, p.ProductID, p.ProductName, p.Quantity, p.UnitPrice, p.Total, p.RecordedBy,
		).Scan(&p.ID, &p.CreatedAt)
	})
	if err != nil {
		return wrapWrite("creating loaded product", err)
	}

	return nil
}

func (s *Store) CreateReturnedProduct(ctx context.Context, p *operation.ReturnedProduct) error {
	query := `
		INSERT INTO returned_products (operation_id, product_id, product_name, quantity, unit_price, total, condition, recorded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING id, created_at
	`

	err := s.withOpenOperation(ctx, p.OperationID, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, query,
			p.OperationID, p.ProductID, p.ProductName, p.Quantity, p.UnitPrice, p.Total, p.Condition, p.RecordedBy,
		).Scan(&p.ID, &p.CreatedAt)
	})
	if err != nil {
		return wrapWrite("creating returned product", err)
	}

	return nil
}

func (s *Store) CreateUnreturnedProduct(ctx context.Context, p *operation.UnreturnedProduct) error {
	query := `
		INSERT INTO unreturned_products (operation_id, product_id, product_name, quantity, unit_cost, total_loss, reason, notes, recorded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING id, created_at
	`

	err := s.withOpenOperation(ctx, p.OperationID, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, query,
			p.OperationID, p.ProductID, p.ProductName, p.Quantity, p.UnitCost, p.TotalLoss, p.Reason, p.Notes, p.RecordedBy,
		).Scan(&p.ID, &p.CreatedAt)
	})
	if err != nil {
		return wrapWrite("creating unreturned product", err)
	}

	return nil
}

func (s *Store) CreateExpense(ctx context.Context, e *operation.OperatingExpense) error {
	query := `
		INSERT INTO operating_expenses (operation_id, type, description, amount, spent_at, recorded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`

	err := s.withOpenOperation(ctx, e.OperationID, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, query,
			e.OperationID, e.Type, e.Description, e.Amount, e.SpentAt, e.RecordedBy,
		).Scan(&e.ID, &e.CreatedAt)
	})
	if err != nil {
		return wrapWrite("creating expense", err)
	}

	return nil
}

func (s *Store) CreateInvoice(ctx context.Context, inv *operation.PendingInvoice) error {
	query := `
		INSERT INTO pending_invoices (operation_id, client_name, invoice_number, amount, due_date, status, observations, recorded_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.withOpenOperation(ctx, inv.OperationID, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, query,
			inv.OperationID, inv.ClientName, inv.InvoiceNumber, inv.Amount, inv.DueDate, inv.Status, inv.Observations, inv.RecordedBy,
		).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	})
	if err != nil {
		return wrapWrite("creating invoice", err)
	}

	return nil
}

func (s *Store) ListLoadedProducts(ctx context.Context, operationID uuid.UUID) ([]*operation.LoadedProduct, error) {
	return listLoaded(ctx, s.db, operationID)
}

func (s *Store) ListReturnedProducts(ctx context.Context, operationID uuid.UUID) ([]*operation.ReturnedProduct, error) {
	return listReturned(ctx, s.db, operationID)
}

func (s *Store) ListUnreturnedProducts(ctx context.Context, operationID uuid.UUID) ([]*operation.UnreturnedProduct, error) {
	return listUnreturned(ctx, s.db, operationID)
}

func (s *Store) ListExpenses(ctx context.Context, operationID uuid.UUID) ([]*operation.OperatingExpense, error) {
	return listExpenses(ctx, s.db, operationID)
}

func (s *Store) ListInvoices(ctx context.Context, operationID uuid.UUID) ([]*operation.PendingInvoice, error) {
	return listInvoices(ctx, s.db, operationID)
}

// loadEntries reads the five child lists with q, which may be a transaction.
func loadEntries(ctx context.Context, q querier, operationID uuid.UUID) (operation.Entries, error) {
	var (
		e   operation.Entries
		err error
	)

	if e.Loaded, err = listLoaded(ctx, q, operationID); err != nil {
		return e, err
	}

	if e.Returned, err = listReturned(ctx, q, operationID); err != nil {
		return e, err
	}

	if e.Unreturned, err = listUnreturned(ctx, q, operationID); err != nil {
		return e, err
	}

	if e.Expenses, err = listExpenses(ctx, q, operationID); err != nil {
		return e, err
	}

	if e.Invoices, err = listInvoices(ctx, q, operationID); err != nil {
		return e, err
	}

	return e, nil
}

// listRows runs an entry query for one operation and scans each row with scan.
// Rows come back in insertion order, not in the order callers issued creates.
func listRows[T any](ctx context.Context, db querier, what, query string, operationID uuid.UUID, scan func(*sql.Rows) (*T, error)) ([]*T, error) {
	rows, err := db.QueryContext(ctx, query, operationID)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", what, err)
	}
	defer rows.Close()

	var out []*T

	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", what, err)
		}

		out = append(out, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s rows: %w", what, err)
	}

	return out, nil
}

func listLoaded(ctx context.Context, q querier, operationID uuid.UUID) ([]*operation.LoadedProduct, error) {
	query := `
		SELECT id, operation_id, product_id, product_name, quantity, unit_price, total, recorded_by, removed, created_at
		FROM loaded_products
		WHERE operation_id = $1 AND removed = FALSE
		ORDER BY created_at ASC, id ASC`

	return listRows(ctx, q, "loaded products", query, operationID, func(r *sql.Rows) (*operation.LoadedProduct, error) {
		var p operation.LoadedProduct
		err := r.Scan(&p.ID, &p.OperationID, &p.ProductID, &p.ProductName, &p.Quantity, &p.UnitPrice, &p.Total,
			&p.RecordedBy, &p.Removed, &p.CreatedAt)

		return &p, err
	})
}

func listReturned(ctx context.Context, q querier, operationID uuid.UUID) ([]*operation.ReturnedProduct, error) {
	query := `
		SELECT id, operation_id, product_id, product_name, quantity, unit_price, total, condition, recorded_by, removed, created_at
		FROM returned_products
		WHERE operation_id = $1 AND removed = FALSE
		ORDER BY created_at ASC, id ASC`

	return listRows(ctx, q, "returned products", query, operationID, func(r *sql.Rows) (*operation.ReturnedProduct, error) {
		var p operation.ReturnedProduct

		var condition string

		err := r.Scan(&p.ID, &p.OperationID, &p.ProductID, &p.ProductName, &p.Quantity, &p.UnitPrice, &p.Total,
			&condition, &p.RecordedBy, &p.Removed, &p.CreatedAt)
		p.Condition = operation.Condition(condition)

		return &p, err
	})
}

func listUnreturned(ctx context.Context, q querier, operationID uuid.UUID) ([]*operation.UnreturnedProduct, error) {
	query := `
		SELECT id, operation_id, product_id, product_name, quantity, unit_cost, total_loss, reason, notes, recorded_by, removed, created_at
		FROM unreturned_products
		WHERE operation_id = $1 AND removed = FALSE
		ORDER BY created_at ASC, id ASC`

	return listRows(ctx, q, "unreturned products", query, operationID, func(r *sql.Rows) (*operation.UnreturnedProduct, error) {
		var p operation.UnreturnedProduct

		var reason string

		err := r.Scan(&p.ID, &p.OperationID, &p.ProductID, &p.ProductName, &p.Quantity, &p.UnitCost, &p.TotalLoss,
			&reason, &p.Notes, &p.RecordedBy, &p.Removed, &p.CreatedAt)
		p.Reason = operation.LossReason(reason)

		return &p, err
	})
}

func listExpenses(ctx context.Context, q querier, operationID uuid.UUID) ([]*operation.OperatingExpense, error) {
	query := `
		SELECT id, operation_id, type, description, amount, spent_at, recorded_by, removed, created_at
		FROM operating_expenses
		WHERE operation_id = $1 AND removed = FALSE
		ORDER BY created_at ASC, id ASC`

	return listRows(ctx, q, "expenses", query, operationID, func(r *sql.Rows) (*operation.OperatingExpense, error) {
		var e operation.OperatingExpense

		var typ string

		err := r.Scan(&e.ID, &e.OperationID, &typ, &e.Description, &e.Amount, &e.SpentAt, &e.RecordedBy,
			&e.Removed, &e.CreatedAt)
		e.Type = operation.ExpenseType(typ)

		return &e, err
	})
}

func listInvoices(ctx context.Context, q querier, operationID uuid.UUID) ([]*operation.PendingInvoice, error) {
	query := `
		SELECT id, operation_id, client_name, invoice_number, amount, due_date, status, observations, recorded_by,
			removed, created_at, updated_at
		FROM pending_invoices
		WHERE operation_id = $1 AND removed = FALSE
		ORDER BY created_at ASC, id ASC`

	return listRows(ctx, q, "invoices", query, operationID, func(r *sql.Rows) (*operation.PendingInvoice, error) {
		var inv operation.PendingInvoice

		var status string

		err := r.Scan(&inv.ID, &inv.OperationID, &inv.ClientName, &inv.InvoiceNumber, &inv.Amount, &inv.DueDate,
			&status, &inv.Observations, &inv.RecordedBy, &inv.Removed, &inv.CreatedAt, &inv.UpdatedAt)
		inv.Status = operation.InvoiceStatus(status)

		return &inv, err
	})
}
