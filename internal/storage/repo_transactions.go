package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lachiem1/tally/internal/chart"
)

// TxType is the direction of a transaction.
type TxType string

const (
	TxIncome   TxType = "Income"
	TxExpense  TxType = "Expense"
	TxTransfer TxType = "Transfer"
)

// ParseTxType accepts the type names case-insensitively, plus the short
// forms i, e and t.
func ParseTxType(raw string) (TxType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "income", "i":
		return TxIncome, nil
	case "expense", "e":
		return TxExpense, nil
	case "transfer", "t":
		return TxTransfer, nil
	}
	return "", fmt.Errorf("unknown transaction type %q", raw)
}

// DateLayout is the storage layout of transaction dates. It sorts
// lexically in date order.
const DateLayout = "2006-01-02"

type Transaction struct {
	ID       int64
	Date     time.Time
	Details  string
	Method   string
	ToMethod string
	Amount   decimal.Decimal
	Type     TxType
	Tags     string
}

func (t Transaction) validate() error {
	if t.Date.IsZero() {
		return errors.New("transaction date is required")
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("transaction amount must be positive, got %s", t.Amount)
	}
	if !t.Amount.Equal(t.Amount.Round(2)) {
		return fmt.Errorf("transaction amount %s has more than 2 decimal places", t.Amount)
	}
	switch t.Type {
	case TxIncome, TxExpense:
		if t.ToMethod != "" {
			return fmt.Errorf("%s transaction cannot have a destination method", t.Type)
		}
	case TxTransfer:
		if t.ToMethod == "" {
			return errors.New("transfer requires a destination method")
		}
		if t.ToMethod == t.Method {
			return fmt.Errorf("transfer source and destination are both %q", t.Method)
		}
	default:
		return fmt.Errorf("unknown transaction type %q", t.Type)
	}
	return nil
}

type TransactionsRepo struct {
	db *sql.DB
}

func NewTransactionsRepo(db *sql.DB) *TransactionsRepo {
	return &TransactionsRepo{db: db}
}

func (r *TransactionsRepo) HasAny(ctx context.Context) (bool, error) {
	var exists int
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM transactions LIMIT 1)`).Scan(&exists); err != nil {
		return false, fmt.Errorf("check transactions: %w", err)
	}
	return exists == 1, nil
}

// Add stores a transaction and returns its id.
func (r *TransactionsRepo) Add(ctx context.Context, t Transaction) (int64, error) {
	ids, err := r.AddBatch(ctx, []Transaction{t})
	if err != nil {
		return 0, err
	}
	return ids[0], nil
}

// AddBatch stores all transactions in one database transaction; nothing is
// written if any of them is invalid.
func (r *TransactionsRepo) AddBatch(ctx context.Context, txs []Transaction) (_ []int64, err error) {
	if len(txs) == 0 {
		return nil, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transactions insert transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	methodIDs, err := lookupMethodIDs(ctx, tx)
	if err != nil {
		return nil, err
	}

	const insert = `
INSERT INTO transactions (date, details, method_id, to_method_id, amount, tx_type, tags, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`
	createdAt := time.Now().UTC().Format(time.RFC3339Nano)
	ids := make([]int64, 0, len(txs))
	for i, t := range txs {
		t.Method = normalizeMethodName(t.Method)
		t.ToMethod = normalizeMethodName(t.ToMethod)
		if err = t.validate(); err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		methodID, ok := methodIDs[t.Method]
		if !ok {
			err = fmt.Errorf("transaction %d: %w %q", i, ErrUnknownMethod, t.Method)
			return nil, err
		}
		var toMethodID any
		if t.Type == TxTransfer {
			id, ok := methodIDs[t.ToMethod]
			if !ok {
				err = fmt.Errorf("transaction %d: %w %q", i, ErrUnknownMethod, t.ToMethod)
				return nil, err
			}
			toMethodID = id
		}

		var res sql.Result
		res, err = tx.ExecContext(
			ctx,
			insert,
			t.Date.Format(DateLayout),
			normalizeTransactionText(t.Details),
			methodID,
			toMethodID,
			t.Amount.StringFixed(2),
			string(t.Type),
			normalizeTags(t.Tags),
			createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("insert transaction %d: %w", i, err)
		}
		var id int64
		if id, err = res.LastInsertId(); err != nil {
			return nil, fmt.Errorf("read transaction %d id: %w", i, err)
		}
		ids = append(ids, id)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transactions insert transaction: %w", err)
	}
	return ids, nil
}

func (r *TransactionsRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete transaction %d: %w", id, sql.ErrNoRows)
	}
	return nil
}

// Years returns every calendar year with at least one transaction, oldest
// first.
func (r *TransactionsRepo) Years(ctx context.Context) ([]int, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT DISTINCT CAST(substr(date, 1, 4) AS INTEGER) AS year FROM transactions ORDER BY year`,
	)
	if err != nil {
		return nil, fmt.Errorf("query transaction years: %w", err)
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var year int
		if err := rows.Scan(&year); err != nil {
			return nil, fmt.Errorf("scan transaction year: %w", err)
		}
		years = append(years, year)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction years: %w", err)
	}
	return years, nil
}

// List returns the transactions inside scope in ledger order.
func (r *TransactionsRepo) List(ctx context.Context, scope chart.Scope) ([]Transaction, error) {
	const query = `
SELECT t.id, t.date, t.details, m.name, COALESCE(tm.name, ''), t.amount, t.tx_type, t.tags
FROM transactions t
JOIN payment_methods m ON m.id = t.method_id
LEFT JOIN payment_methods tm ON tm.id = t.to_method_id
ORDER BY t.date, t.id
`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var (
			t       Transaction
			rawDate string
			amount  string
			kind    string
		)
		if err := rows.Scan(&t.ID, &rawDate, &t.Details, &t.Method, &t.ToMethod, &amount, &kind, &t.Tags); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if t.Date, err = time.ParseInLocation(DateLayout, rawDate, time.UTC); err != nil {
			return nil, fmt.Errorf("parse transaction %d date %q: %w", t.ID, rawDate, err)
		}
		if !scope.Contains(t.Date) {
			continue
		}
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parse transaction %d amount %q: %w", t.ID, amount, err)
		}
		t.Type = TxType(kind)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}
