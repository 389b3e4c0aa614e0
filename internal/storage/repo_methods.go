package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMethod is returned when a transaction names a payment method
// that has not been added.
var ErrUnknownMethod = errors.New("unknown payment method")

type MethodsRepo struct {
	db *sql.DB
}

func NewMethodsRepo(db *sql.DB) *MethodsRepo {
	return &MethodsRepo{db: db}
}

func (r *MethodsRepo) HasAny(ctx context.Context) (bool, error) {
	var exists int
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM payment_methods LIMIT 1)`).Scan(&exists); err != nil {
		return false, fmt.Errorf("check payment methods: %w", err)
	}
	return exists == 1, nil
}

// List returns the method roster in display order. The order is stable and
// every ledger snapshot aligns its balances with it.
func (r *MethodsRepo) List(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM payment_methods ORDER BY display_order, id`)
	if err != nil {
		return nil, fmt.Errorf("query payment methods: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan payment method: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payment methods: %w", err)
	}
	return names, nil
}

// Add appends a method to the end of the roster.
func (r *MethodsRepo) Add(ctx context.Context, name string) error {
	name = normalizeMethodName(name)
	if name == "" {
		return errors.New("payment method name cannot be empty")
	}
	if strings.EqualFold(name, "total") {
		return fmt.Errorf("payment method name %q is reserved", name)
	}

	const insert = `
INSERT INTO payment_methods (name, display_order)
SELECT ?, COALESCE(MAX(display_order), -1) + 1
FROM payment_methods
WHERE display_order < 2147483647
`
	if _, err := r.db.ExecContext(ctx, insert, name); err != nil {
		return fmt.Errorf("insert payment method %q: %w", name, err)
	}
	return nil
}

func lookupMethodIDs(ctx context.Context, q queryer) (map[string]int64, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, name FROM payment_methods`)
	if err != nil {
		return nil, fmt.Errorf("query payment method ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]int64, 8)
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan payment method id: %w", err)
		}
		ids[name] = id
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payment method ids: %w", err)
	}
	return ids, nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}
