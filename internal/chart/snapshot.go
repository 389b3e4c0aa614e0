package chart

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// RowDateLayout is the date layout ledger rows are supplied in.
const RowDateLayout = "02-01-2006"

// LabelDateLayout is the layout used for the x axis date labels.
const LabelDateLayout = "2006-01-02"

var (
	// ErrMalformedRow reports a ledger row whose date or balance cannot be parsed.
	ErrMalformedRow = errors.New("malformed ledger row")
	// ErrMisaligned reports a row, roster or activation map that disagree on method count.
	ErrMisaligned = errors.New("ledger row misaligned with method roster")
	// ErrUnsorted reports ledger rows that go backwards in time.
	ErrUnsorted = errors.New("ledger rows not ordered by date")
)

// Row is one ledger entry: the date it happened and every method's running
// balance after it, aligned with the method roster.
type Row struct {
	Date     string
	Balances []string
}

// Snapshot is the date ordered ledger for one scope.
type Snapshot struct {
	Rows []Row
}

type day struct {
	date     time.Time
	balances []float64
}

// parseRows validates and converts the snapshot. Any bad row fails the whole
// draw; a corrupt ledger is not papered over.
func parseRows(rows []Row, methods int) ([]day, error) {
	out := make([]day, 0, len(rows))
	for i, row := range rows {
		d, err := time.ParseInLocation(RowDateLayout, row.Date, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d date %q: %v", ErrMalformedRow, i, row.Date, err)
		}
		if len(row.Balances) != methods {
			return nil, fmt.Errorf("%w: row %d has %d balances, roster has %d methods", ErrMisaligned, i, len(row.Balances), methods)
		}
		if i > 0 && d.Before(out[i-1].date) {
			return nil, fmt.Errorf("%w: row %d (%s) precedes row %d", ErrUnsorted, i, row.Date, i-1)
		}
		balances := make([]float64, methods)
		for j, raw := range row.Balances {
			v, err := decimal.NewFromString(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d balance %d %q: %v", ErrMalformedRow, i, j, raw, err)
			}
			f := v.InexactFloat64()
			if math.IsInf(f, 0) {
				return nil, fmt.Errorf("%w: row %d balance %d %q is out of range", ErrMalformedRow, i, j, raw)
			}
			balances[j] = f
		}
		out = append(out, day{date: d, balances: balances})
	}
	return out, nil
}

// daysBetween counts calendar days between two UTC midnights, without the
// 292 year ceiling of time.Duration.
func daysBetween(from, to time.Time) int {
	return int((to.Unix() - from.Unix()) / 86400)
}
