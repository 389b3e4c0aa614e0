package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lachiem1/tally/internal/chart"
)

func TestTransactionsRepoAddValidates(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	addMethods(t, db, "Cash", "Bank")
	repo := NewTransactionsRepo(db)

	tests := []struct {
		name string
		tx   Transaction
	}{
		{"zero amount", Transaction{Date: date(t, "2024-01-01"), Method: "Cash", Amount: amount("0"), Type: TxIncome}},
		{"negative amount", Transaction{Date: date(t, "2024-01-01"), Method: "Cash", Amount: amount("-3"), Type: TxExpense}},
		{"sub cent amount", Transaction{Date: date(t, "2024-01-01"), Method: "Cash", Amount: amount("1.005"), Type: TxExpense}},
		{"missing date", Transaction{Method: "Cash", Amount: amount("1"), Type: TxIncome}},
		{"transfer to self", Transaction{Date: date(t, "2024-01-01"), Method: "Cash", ToMethod: "Cash", Amount: amount("1"), Type: TxTransfer}},
		{"transfer without target", Transaction{Date: date(t, "2024-01-01"), Method: "Cash", Amount: amount("1"), Type: TxTransfer}},
		{"income with target", Transaction{Date: date(t, "2024-01-01"), Method: "Cash", ToMethod: "Bank", Amount: amount("1"), Type: TxIncome}},
		{"bad type", Transaction{Date: date(t, "2024-01-01"), Method: "Cash", Amount: amount("1"), Type: "Refund"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := repo.Add(ctx, tc.tx); err == nil {
				t.Fatal("Add() expected error, got nil")
			}
		})
	}

	has, err := repo.HasAny(ctx)
	if err != nil {
		t.Fatalf("HasAny() unexpected error: %v", err)
	}
	if has {
		t.Fatal("HasAny() = true after only invalid inserts, want false")
	}
}

func TestTransactionsRepoAddAcceptsTrailingZeros(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	addMethods(t, db, "Cash")
	repo := NewTransactionsRepo(db)

	for _, raw := range []string{"1.500", "2.000", "0.0100"} {
		if _, err := repo.Add(ctx, Transaction{Date: date(t, "2024-01-01"), Method: "Cash", Amount: amount(raw), Type: TxIncome}); err != nil {
			t.Fatalf("Add(%s) unexpected error: %v", raw, err)
		}
	}
	got, err := repo.List(ctx, chart.Scope{Mode: chart.ModeAllTime})
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	var amounts []string
	for _, tx := range got {
		amounts = append(amounts, tx.Amount.StringFixed(2))
	}
	if diff := cmp.Diff([]string{"1.50", "2.00", "0.01"}, amounts); diff != "" {
		t.Fatalf("stored amounts mismatch (-want +got):\n%s", diff)
	}
}

func TestTransactionsRepoAddUnknownMethod(t *testing.T) {
	db := openTestDB(t)
	addMethods(t, db, "Cash")
	repo := NewTransactionsRepo(db)

	_, err := repo.Add(context.Background(), Transaction{
		Date:     date(t, "2024-01-01"),
		Method:   "Cash",
		ToMethod: "Brokerage",
		Amount:   amount("10"),
		Type:     TxTransfer,
	})
	if !errors.Is(err, ErrUnknownMethod) {
		t.Fatalf("Add() error = %v, want ErrUnknownMethod", err)
	}
}

func TestTransactionsRepoAddBatchIsAllOrNothing(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	addMethods(t, db, "Cash")
	repo := NewTransactionsRepo(db)

	_, err := repo.AddBatch(ctx, []Transaction{
		{Date: date(t, "2024-01-01"), Method: "Cash", Amount: amount("10"), Type: TxIncome},
		{Date: date(t, "2024-01-02"), Method: "Nope", Amount: amount("10"), Type: TxIncome},
	})
	if err == nil {
		t.Fatal("AddBatch() expected error, got nil")
	}

	has, err := repo.HasAny(ctx)
	if err != nil {
		t.Fatalf("HasAny() unexpected error: %v", err)
	}
	if has {
		t.Fatal("AddBatch() left a partial insert behind")
	}
}

func TestTransactionsRepoYearsAndDelete(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	addMethods(t, db, "Cash")
	repo := NewTransactionsRepo(db)

	var ids []int64
	for _, d := range []string{"2023-06-01", "2021-02-03", "2023-01-01"} {
		id, err := repo.Add(ctx, Transaction{Date: date(t, d), Method: "Cash", Amount: amount("1"), Type: TxIncome})
		if err != nil {
			t.Fatalf("Add() unexpected error: %v", err)
		}
		ids = append(ids, id)
	}

	years, err := repo.Years(ctx)
	if err != nil {
		t.Fatalf("Years() unexpected error: %v", err)
	}
	if diff := cmp.Diff([]int{2021, 2023}, years); diff != "" {
		t.Fatalf("unexpected years (-want +got):\n%s", diff)
	}

	if err := repo.Delete(ctx, ids[1]); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}
	if err := repo.Delete(ctx, ids[1]); err == nil {
		t.Fatal("Delete() of missing id expected error, got nil")
	}

	years, err = repo.Years(ctx)
	if err != nil {
		t.Fatalf("Years() unexpected error: %v", err)
	}
	if diff := cmp.Diff([]int{2023}, years); diff != "" {
		t.Fatalf("unexpected years after delete (-want +got):\n%s", diff)
	}
}

func TestParseTxType(t *testing.T) {
	tests := map[string]TxType{
		"Income":    TxIncome,
		" expense ": TxExpense,
		"T":         TxTransfer,
		"i":         TxIncome,
		"TRANSFER":  TxTransfer,
	}
	for raw, want := range tests {
		got, err := ParseTxType(raw)
		if err != nil {
			t.Fatalf("ParseTxType(%q) unexpected error: %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseTxType(%q) = %q, want %q", raw, got, want)
		}
	}
	if _, err := ParseTxType("refund"); err == nil {
		t.Fatal("ParseTxType(\"refund\") expected error, got nil")
	}
}

func TestTransactionsRepoListFiltersScope(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	addMethods(t, db, "Cash", "Bank")
	repo := NewTransactionsRepo(db)

	if _, err := repo.AddBatch(ctx, []Transaction{
		{Date: date(t, "2024-03-02"), Method: "Bank", ToMethod: "Cash", Amount: amount("20"), Type: TxTransfer, Tags: "ATM, Cash ,atm"},
		{Date: date(t, "2024-02-28"), Method: "Cash", Amount: amount("4.5"), Type: TxExpense, Details: "  coffee   beans "},
		{Date: date(t, "2023-03-01"), Method: "Bank", Amount: amount("100"), Type: TxIncome},
	}); err != nil {
		t.Fatalf("AddBatch() unexpected error: %v", err)
	}

	got, err := repo.List(ctx, chart.Scope{Mode: chart.ModeYearly, Year: 2024})
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(List()) = %d, want 2", len(got))
	}
	if got[0].Details != "coffee beans" || !got[0].Amount.Equal(amount("4.50")) {
		t.Fatalf("List()[0] = %+v, want normalized coffee expense", got[0])
	}
	if got[1].ToMethod != "Cash" || got[1].Tags != "atm, cash" || got[1].Type != TxTransfer {
		t.Fatalf("List()[1] = %+v, want transfer to Cash tagged atm, cash", got[1])
	}
}
