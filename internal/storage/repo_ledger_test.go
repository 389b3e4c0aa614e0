package storage

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/lachiem1/tally/internal/chart"
)

func seedLedger(t *testing.T) *LedgerRepo {
	t.Helper()

	db := openTestDB(t)
	addMethods(t, db, "Bank", "Cash")
	repo := NewTransactionsRepo(db)

	txs := []Transaction{
		{Date: date(t, "2023-12-30"), Method: "Bank", Amount: amount("1000"), Type: TxIncome, Details: "salary"},
		{Date: date(t, "2024-01-02"), Method: "Bank", Amount: amount("12.34"), Type: TxExpense, Details: "lunch"},
		{Date: date(t, "2024-01-02"), Method: "Bank", ToMethod: "Cash", Amount: amount("50"), Type: TxTransfer},
		{Date: date(t, "2024-02-10"), Method: "Cash", Amount: amount("7.5"), Type: TxExpense},
	}
	if _, err := repo.AddBatch(context.Background(), txs); err != nil {
		t.Fatalf("AddBatch() unexpected error: %v", err)
	}
	return NewLedgerRepo(db)
}

func TestLedgerSnapshotAllTime(t *testing.T) {
	ledger := seedLedger(t)

	snap, roster, err := ledger.Snapshot(context.Background(), chart.Scope{Mode: chart.ModeAllTime})
	if err != nil {
		t.Fatalf("Snapshot() unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"Bank", "Cash"}, roster); diff != "" {
		t.Fatalf("unexpected roster (-want +got):\n%s", diff)
	}

	want := chart.Snapshot{Rows: []chart.Row{
		{Date: "30-12-2023", Balances: []string{"1000.00", "0.00"}},
		{Date: "02-01-2024", Balances: []string{"987.66", "0.00"}},
		{Date: "02-01-2024", Balances: []string{"937.66", "50.00"}},
		{Date: "10-02-2024", Balances: []string{"937.66", "42.50"}},
	}}
	if diff := cmp.Diff(want, snap); diff != "" {
		t.Fatalf("unexpected snapshot (-want +got):\n%s", diff)
	}
}

func TestLedgerSnapshotScopeKeepsOpeningBalance(t *testing.T) {
	ledger := seedLedger(t)

	snap, _, err := ledger.Snapshot(context.Background(), chart.Scope{Mode: chart.ModeMonthly, Year: 2024, Month: time.January})
	if err != nil {
		t.Fatalf("Snapshot() unexpected error: %v", err)
	}

	want := chart.Snapshot{Rows: []chart.Row{
		{Date: "02-01-2024", Balances: []string{"987.66", "0.00"}},
		{Date: "02-01-2024", Balances: []string{"937.66", "50.00"}},
	}}
	if diff := cmp.Diff(want, snap); diff != "" {
		t.Fatalf("unexpected snapshot (-want +got):\n%s", diff)
	}
}

func TestLedgerSnapshotFeedsChart(t *testing.T) {
	ledger := seedLedger(t)

	snap, roster, err := ledger.Snapshot(context.Background(), chart.Scope{Mode: chart.ModeYearly, Year: 2024})
	if err != nil {
		t.Fatalf("Snapshot() unexpected error: %v", err)
	}
	frame, err := chart.Build(chart.Input{
		Snapshot:  snap,
		Methods:   roster,
		Activated: map[string]bool{"Bank": true, "Cash": true},
	}, nil)
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}
	// 02-01 through 10-02 is 40 days.
	if got := len(frame.Series[0].Points); got != 40 {
		t.Fatalf("len(points) = %d, want 40", got)
	}
	if diff := cmp.Diff([]string{"2024-01-02", "2024-02-10"}, frame.Axis.DateLabels); diff != "" {
		t.Fatalf("unexpected date labels (-want +got):\n%s", diff)
	}
}

func TestLedgerBalances(t *testing.T) {
	ledger := seedLedger(t)

	got, err := ledger.Balances(context.Background())
	if err != nil {
		t.Fatalf("Balances() unexpected error: %v", err)
	}
	want := []string{"Bank=937.66", "Cash=42.50"}
	for i, b := range got {
		if s := b.Method + "=" + b.Balance.StringFixed(2); s != want[i] {
			t.Fatalf("Balances()[%d] = %s, want %s", i, s, want[i])
		}
	}
}
