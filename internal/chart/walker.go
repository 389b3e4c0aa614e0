package chart

import (
	"fmt"
	"time"
)

// dateWalker steps one calendar day at a time from the first to the last
// ledger date, keeping a pointer to the next unconsumed source row.
type dateWalker struct {
	days  []day
	next  int
	date  time.Time
	final time.Time
}

func newDateWalker(days []day) *dateWalker {
	return &dateWalker{
		days:  days,
		date:  days[0].date,
		final: days[len(days)-1].date,
	}
}

// today returns the next source row when it falls on the current day.
func (w *dateWalker) today() (day, bool) {
	if w.next >= len(w.days) || !w.days[w.next].date.Equal(w.date) {
		return day{}, false
	}
	return w.days[w.next], true
}

func (w *dateWalker) consume() {
	w.next++
}

func (w *dateWalker) advanceDay() {
	w.date = w.date.AddDate(0, 0, 1)
}

func (w *dateWalker) done() bool {
	return w.date.After(w.final)
}

// Point is one plotted coordinate: x is the day offset, y the balance.
type Point struct {
	X float64
	Y float64
}

// curveBuilder grows one curve per method in lockstep. While merging, the
// next emitted row replaces the values of the last point instead of adding
// a new one, so same-day rows collapse into a single axis step.
type curveBuilder struct {
	curves [][]Point
	carry  []float64
	axis   float64
	merge  bool
}

func newCurveBuilder(methods int) *curveBuilder {
	return &curveBuilder{
		curves: make([][]Point, methods),
		carry:  make([]float64, methods),
	}
}

func (b *curveBuilder) emit(balances []float64) {
	if b.merge {
		b.assertAligned()
		for i, v := range balances {
			b.curves[i][len(b.curves[i])-1].Y = v
		}
	} else {
		for i, v := range balances {
			b.curves[i] = append(b.curves[i], Point{X: b.axis, Y: v})
		}
	}
	copy(b.carry, balances)
}

func (b *curveBuilder) carryForward() {
	for i, v := range b.carry {
		b.curves[i] = append(b.curves[i], Point{X: b.axis, Y: v})
	}
}

// nextDay moves the x axis one step and ends any merge in progress.
func (b *curveBuilder) nextDay() {
	b.merge = false
	b.axis++
}

// assertAligned panics when the curves disagree on length or last x. The
// merge decision is shared by every method, so a mismatch is a bug here,
// not bad input.
func (b *curveBuilder) assertAligned() {
	if len(b.curves) == 0 {
		return
	}
	n := len(b.curves[0])
	for i, c := range b.curves {
		if len(c) != n || n == 0 {
			panic(fmt.Sprintf("chart: curve %d has %d points, curve 0 has %d", i, len(c), n))
		}
		if c[n-1].X != b.curves[0][n-1].X {
			panic(fmt.Sprintf("chart: curve %d ends at x=%v, curve 0 at x=%v", i, c[n-1].X, b.curves[0][n-1].X))
		}
	}
}
