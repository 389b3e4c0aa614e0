// Package chart turns a date ordered ledger into per-day balance curves and
// reveals them a few days at a time across redraw cycles.
package chart

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Input is everything one draw needs from the host. Methods is the fixed
// roster for the draw; every Row in Snapshot carries one balance per method.
type Input struct {
	Snapshot  Snapshot
	Methods   []string
	Activated map[string]bool
}

// Series is one method's curve. Hidden methods keep their slot so indexes
// stay aligned with the roster, but have no color and are not drawn.
type Series struct {
	Method    string
	Points    []Point
	Activated bool
	Color     lipgloss.Color
}

// Frame is the output of one draw.
type Frame struct {
	Series    []Series
	Axis      AxisModel
	TotalDays int
	DrawnDays int
	Partial   bool
}

// Visible returns the activated series in roster order.
func (f Frame) Visible() []Series {
	out := make([]Series, 0, len(f.Series))
	for _, s := range f.Series {
		if s.Activated {
			out = append(out, s)
		}
	}
	return out
}

// Build regenerates the curves for one redraw cycle and advances cursor.
// A pending cursor limits how many days are drawn; an exhausted one draws
// everything, as does a nil cursor. An empty snapshot draws a flat point at
// the origin per method and finishes the cursor.
func Build(in Input, cursor *RevealCursor) (Frame, error) {
	if cursor == nil {
		cursor = &RevealCursor{}
	}
	activated := make([]bool, len(in.Methods))
	for i, name := range in.Methods {
		on, ok := in.Activated[name]
		if !ok {
			return Frame{}, fmt.Errorf("%w: no activation state for method %q", ErrMisaligned, name)
		}
		activated[i] = on
	}

	days, err := parseRows(in.Snapshot.Rows, len(in.Methods))
	if err != nil {
		return Frame{}, err
	}

	var ext extrema
	if len(days) == 0 {
		cursor.Finish()
		curves := make([][]Point, len(in.Methods))
		for i := range curves {
			curves[i] = []Point{{X: 0, Y: 0}}
		}
		return newFrame(in.Methods, activated, curves, scaleAxis(ext)), nil
	}

	w := newDateWalker(days)
	totalDays := daysBetween(w.date, w.final)
	total := float64(totalDays)
	budget, limited := cursor.advance(total, RevealStep(total))

	b := newCurveBuilder(len(in.Methods))
	dateLabels := []string{w.date.Format(LabelDateLayout), w.final.Format(LabelDateLayout)}
	partial := false
	for {
		if row, ok := w.today(); ok {
			for i, v := range row.balances {
				if activated[i] {
					ext.observe(v)
				}
			}
			b.emit(row.balances)
			w.consume()
			if _, sameDay := w.today(); sameDay {
				b.merge = true
			} else {
				b.nextDay()
				w.advanceDay()
			}
		} else {
			b.carryForward()
			b.nextDay()
			w.advanceDay()
		}

		if !b.merge && limited {
			if budget-1 <= 0 {
				dateLabels[1] = w.date.Format(LabelDateLayout)
				partial = true
				break
			}
			budget--
		}
		if w.done() {
			break
		}
	}
	b.assertAligned()

	axis := scaleAxis(ext)
	axis.XMax = b.axis - 1
	axis.DateLabels = dateLabels
	frame := newFrame(in.Methods, activated, b.curves, axis)
	frame.TotalDays = totalDays
	frame.DrawnDays = int(b.axis)
	frame.Partial = partial
	return frame, nil
}

func newFrame(methods []string, activated []bool, curves [][]Point, axis AxisModel) Frame {
	colors := SeriesColors(activated)
	series := make([]Series, len(methods))
	for i, name := range methods {
		series[i] = Series{
			Method:    name,
			Points:    curves[i],
			Activated: activated[i],
			Color:     colors[i],
		}
	}
	return Frame{Series: series, Axis: axis}
}
