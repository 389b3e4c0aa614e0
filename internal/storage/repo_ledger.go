package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lachiem1/tally/internal/chart"
)

// LedgerRepo derives running balances from the transactions table.
type LedgerRepo struct {
	db      *sql.DB
	methods *MethodsRepo
}

func NewLedgerRepo(db *sql.DB) *LedgerRepo {
	return &LedgerRepo{db: db, methods: NewMethodsRepo(db)}
}

type ledgerEntry struct {
	id     int64
	date   time.Time
	from   string
	to     string
	amount decimal.Decimal
	kind   TxType
}

// Snapshot returns one row per transaction inside scope, each carrying
// every method's running balance after that transaction. Balances are
// accumulated over the whole history, so a scope that starts mid ledger
// opens at the true balance rather than zero. The roster is returned
// alongside; row balances are aligned with it.
func (r *LedgerRepo) Snapshot(ctx context.Context, scope chart.Scope) (chart.Snapshot, []string, error) {
	roster, err := r.methods.List(ctx)
	if err != nil {
		return chart.Snapshot{}, nil, err
	}
	slot := make(map[string]int, len(roster))
	for i, name := range roster {
		slot[name] = i
	}

	var snap chart.Snapshot
	running := make([]decimal.Decimal, len(roster))
	err = r.walk(ctx, func(e ledgerEntry) error {
		if err := apply(running, slot, e); err != nil {
			return err
		}
		if !scope.Contains(e.date) {
			return nil
		}
		balances := make([]string, len(running))
		for i, v := range running {
			balances[i] = v.StringFixed(2)
		}
		snap.Rows = append(snap.Rows, chart.Row{
			Date:     e.date.Format(chart.RowDateLayout),
			Balances: balances,
		})
		return nil
	})
	if err != nil {
		return chart.Snapshot{}, nil, err
	}
	return snap, roster, nil
}

// MethodBalance is a method's balance after the latest transaction.
type MethodBalance struct {
	Method  string
	Balance decimal.Decimal
}

// Balances returns the current balance of every method in roster order.
func (r *LedgerRepo) Balances(ctx context.Context) ([]MethodBalance, error) {
	roster, err := r.methods.List(ctx)
	if err != nil {
		return nil, err
	}
	slot := make(map[string]int, len(roster))
	for i, name := range roster {
		slot[name] = i
	}

	running := make([]decimal.Decimal, len(roster))
	if err := r.walk(ctx, func(e ledgerEntry) error {
		return apply(running, slot, e)
	}); err != nil {
		return nil, err
	}

	out := make([]MethodBalance, len(roster))
	for i, name := range roster {
		out[i] = MethodBalance{Method: name, Balance: running[i]}
	}
	return out, nil
}

func apply(running []decimal.Decimal, slot map[string]int, e ledgerEntry) error {
	from, ok := slot[e.from]
	if !ok {
		return fmt.Errorf("transaction %d: %w %q", e.id, ErrUnknownMethod, e.from)
	}
	switch e.kind {
	case TxIncome:
		running[from] = running[from].Add(e.amount)
	case TxExpense:
		running[from] = running[from].Sub(e.amount)
	case TxTransfer:
		to, ok := slot[e.to]
		if !ok {
			return fmt.Errorf("transaction %d: %w %q", e.id, ErrUnknownMethod, e.to)
		}
		running[from] = running[from].Sub(e.amount)
		running[to] = running[to].Add(e.amount)
	default:
		return fmt.Errorf("transaction %d: unknown type %q", e.id, e.kind)
	}
	return nil
}

func (r *LedgerRepo) walk(ctx context.Context, fn func(ledgerEntry) error) error {
	const query = `
SELECT t.id, t.date, m.name, COALESCE(tm.name, ''), t.amount, t.tx_type
FROM transactions t
JOIN payment_methods m ON m.id = t.method_id
LEFT JOIN payment_methods tm ON tm.id = t.to_method_id
ORDER BY t.date, t.id
`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("query ledger: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			e       ledgerEntry
			rawDate string
			amount  string
			kind    string
		)
		if err := rows.Scan(&e.id, &rawDate, &e.from, &e.to, &amount, &kind); err != nil {
			return fmt.Errorf("scan ledger row: %w", err)
		}
		if e.date, err = time.ParseInLocation(DateLayout, rawDate, time.UTC); err != nil {
			return fmt.Errorf("parse transaction %d date %q: %w", e.id, rawDate, err)
		}
		if e.amount, err = decimal.NewFromString(amount); err != nil {
			return fmt.Errorf("parse transaction %d amount %q: %w", e.id, amount, err)
		}
		e.kind = TxType(kind)
		if err := fn(e); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate ledger: %w", err)
	}
	return nil
}
