package chart

import (
	"fmt"
	"strconv"
)

const gridlineSteps = 10

// extrema tracks the balance range of activated methods. Both bounds start
// at zero so an empty or all-hidden chart gets a flat axis around the origin.
type extrema struct {
	low  float64
	high float64
}

func (e *extrema) observe(v float64) {
	if v > e.high {
		e.high = v
	} else if v < e.low {
		e.low = v
	}
}

// AxisModel holds everything the renderer needs to label and bound the plot.
type AxisModel struct {
	Low        float64
	High       float64
	XMax       float64
	Labels     []string
	DateLabels []string
}

// scaleAxis pads the bounds by 10% of their own value and spreads gridline
// labels evenly between them. A negative low therefore grows more negative.
func scaleAxis(e extrema) AxisModel {
	high := e.high + e.high*10/100
	low := e.low - e.low*10/100

	diff := (high - low) / gridlineSteps
	labels := make([]string, 0, gridlineSteps+1)
	labels = append(labels, strconv.FormatFloat(low, 'f', -1, 64))
	next := low
	for i := 0; i < gridlineSteps; i++ {
		next += diff
		labels = append(labels, fmt.Sprintf("%.2f", next))
	}
	return AxisModel{
		Low:    low,
		High:   high,
		Labels: labels,
	}
}
