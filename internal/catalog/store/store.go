package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dayledger/internal/catalog"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectProductColumns = `id, name, quantity, unit_value, removed, created_at, updated_at`

func scanProduct(s scanner) (*catalog.Product, error) {
	var p catalog.Product

	if err := s.Scan(&p.ID, &p.Name, &p.Quantity, &p.UnitValue, &p.Removed, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}

	return &p, nil
}

func (s *Store) ListProducts(ctx context.Context) ([]*catalog.Product, error) {
	query := `SELECT ` + selectProductColumns + `
		FROM products
		WHERE removed = FALSE
		ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var products []*catalog.Product

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}

		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}

	return products, nil
}

func (s *Store) GetProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	query := `SELECT ` + selectProductColumns + `
		FROM products
		WHERE id = $1 AND removed = FALSE`

	p, err := scanProduct(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}

		return nil, fmt.Errorf("getting product: %w", err)
	}

	return p, nil
}
