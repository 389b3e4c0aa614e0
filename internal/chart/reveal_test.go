package chart

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestRevealStep(t *testing.T) {
	tests := []struct {
		total float64
		want  float64
	}{
		{total: 10000, want: 70},
		{total: 4001, want: 28.007},
		{total: 4000, want: 20},
		{total: 2001, want: 10.005},
		{total: 2000, want: 8},
		{total: 1000, want: 3},
		{total: 501, want: 1.503},
		{total: 500, want: 2},
		{total: 361, want: 1.444},
		{total: 360, want: 0.72},
		{total: 201, want: 0.402},
		{total: 200, want: 1},
		{total: 50, want: 1},
		{total: 49, want: 0.98},
		{total: 10, want: 0.2},
		{total: 0, want: 0},
	}
	for _, test := range tests {
		if got := RevealStep(test.total); math.Abs(got-test.want) > 1e-9 {
			t.Fatalf("RevealStep(%v) = %v, want %v", test.total, got, test.want)
		}
	}
}

func twoDayLedger(t *testing.T, totalDays int) Input {
	t.Helper()
	start := time.Date(1995, 3, 14, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, totalDays)
	return Input{
		Snapshot: Snapshot{Rows: []Row{
			{Date: start.Format(RowDateLayout), Balances: []string{"10", "-3"}},
			{Date: end.Format(RowDateLayout), Balances: []string{"25.25", "4"}},
		}},
		Methods:   []string{"Cash", "Bank"},
		Activated: allOn("Cash", "Bank"),
	}
}

func TestRevealLongScopeCountsDownToFullDraw(t *testing.T) {
	in := twoDayLedger(t, 10000)
	full := buildFull(t, in)

	cursor := NewRevealCursor()
	prevRemaining := math.Inf(1)
	prevDrawn := 0
	cycles := 0
	var last Frame
	for cursor.Pending() {
		cycles++
		if cycles > 1000 {
			t.Fatal("reveal did not finish within 1000 cycles")
		}
		frame, err := Build(in, &cursor)
		if err != nil {
			t.Fatalf("Build() unexpected error: %v", err)
		}
		last = frame

		if remaining, ok := cursor.Remaining(); ok {
			if remaining >= prevRemaining {
				t.Fatalf("cycle %d: remaining %v not below previous %v", cycles, remaining, prevRemaining)
			}
			if cycles == 1 && math.Abs(remaining-9930) > 1e-6 {
				t.Fatalf("first remaining = %v, want 9930", remaining)
			}
			prevRemaining = remaining
			if !frame.Partial {
				t.Fatalf("cycle %d: pending cursor produced a full frame", cycles)
			}
		}
		if frame.DrawnDays <= prevDrawn {
			t.Fatalf("cycle %d: drawn %d days, previous cycle drew %d", cycles, frame.DrawnDays, prevDrawn)
		}
		prevDrawn = frame.DrawnDays

		for i, s := range frame.Series {
			want := full.Series[i].Points[:len(s.Points)]
			if diff := cmp.Diff(want, s.Points); diff != "" {
				t.Fatalf("cycle %d: series %q is not a prefix of the full curve (-want +got):\n%s", cycles, s.Method, diff)
			}
		}
	}

	if cycles < 140 || cycles > 145 {
		t.Fatalf("reveal took %d cycles, want about 143", cycles)
	}
	if diff := cmp.Diff(full, last); diff != "" {
		t.Fatalf("final cycle differs from full draw (-full +last):\n%s", diff)
	}
	if last.DrawnDays != 10001 {
		t.Fatalf("final DrawnDays = %d, want 10001", last.DrawnDays)
	}
}

func TestRevealFirstCycleDrawsOneStep(t *testing.T) {
	in := twoDayLedger(t, 10000)
	cursor := NewRevealCursor()

	frame, err := Build(in, &cursor)
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}
	if frame.DrawnDays < 70 || frame.DrawnDays > 71 {
		t.Fatalf("DrawnDays = %d, want 70", frame.DrawnDays)
	}
	wantLast := time.Date(1995, 3, 14, 0, 0, 0, 0, time.UTC).AddDate(0, 0, frame.DrawnDays).Format(LabelDateLayout)
	if frame.Axis.DateLabels[1] != wantLast {
		t.Fatalf("partial end label = %q, want %q", frame.Axis.DateLabels[1], wantLast)
	}
	if frame.Axis.DateLabels[0] != "1995-03-14" {
		t.Fatalf("start label = %q, want %q", frame.Axis.DateLabels[0], "1995-03-14")
	}
}

func TestRevealShortScopeAdvancesEveryCycle(t *testing.T) {
	in := twoDayLedger(t, 10)
	cursor := NewRevealCursor()
	prevDrawn := 0
	cycles := 0
	for cursor.Pending() {
		cycles++
		if cycles > 100 {
			t.Fatal("reveal did not finish within 100 cycles")
		}
		frame, err := Build(in, &cursor)
		if err != nil {
			t.Fatalf("Build() unexpected error: %v", err)
		}
		if frame.DrawnDays < prevDrawn {
			t.Fatalf("cycle %d drew %d days, previous drew %d", cycles, frame.DrawnDays, prevDrawn)
		}
		if frame.DrawnDays < 1 {
			t.Fatalf("cycle %d drew no days", cycles)
		}
		prevDrawn = frame.DrawnDays
	}
	if prevDrawn != 11 {
		t.Fatalf("final DrawnDays = %d, want 11", prevDrawn)
	}
}

func TestRevealSingleDayFinishesImmediately(t *testing.T) {
	in := twoDayLedger(t, 0)
	cursor := NewRevealCursor()

	frame, err := Build(in, &cursor)
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}
	if cursor.Pending() {
		t.Fatal("cursor pending after single-day scope")
	}
	if frame.Partial || frame.DrawnDays != 1 {
		t.Fatalf("Partial/DrawnDays = %v/%d, want false/1", frame.Partial, frame.DrawnDays)
	}
	for _, s := range frame.Series {
		if len(s.Points) != 1 {
			t.Fatalf("series %q has %d points, want 1", s.Method, len(s.Points))
		}
	}
}

func TestRevealCursorRestartAndFinish(t *testing.T) {
	var cursor RevealCursor
	if cursor.Pending() {
		t.Fatal("zero cursor is pending")
	}
	cursor.Restart()
	if remaining, ok := cursor.Remaining(); !ok || remaining != 0 {
		t.Fatalf("Remaining() after Restart = %v, %v; want 0, true", remaining, ok)
	}
	if budget, limited := cursor.advance(100, 1); !limited || budget != 1 {
		t.Fatalf("advance() = %v, %v; want 1, true", budget, limited)
	}
	cursor.Finish()
	if _, ok := cursor.Remaining(); ok {
		t.Fatal("Remaining() after Finish reports pending")
	}
	if _, limited := cursor.advance(100, 1); limited {
		t.Fatal("advance() on finished cursor is limited")
	}
}

func TestRevealCursorLastCycleDoesNotOvershoot(t *testing.T) {
	cursor := NewRevealCursor()
	var budgets []float64
	for cursor.Pending() {
		budget, limited := cursor.advance(10, 4)
		if !limited {
			break
		}
		budgets = append(budgets, budget)
	}
	if diff := cmp.Diff([]float64{4, 8}, budgets); diff != "" {
		t.Fatalf("unexpected budgets (-want +got):\n%s", diff)
	}
	if cursor.Pending() {
		t.Fatal("cursor still pending")
	}
}
