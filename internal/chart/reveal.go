package chart

// revealTier maps a scope length to the share of it drawn per cycle. Tiers are
// checked in order; the first whose threshold total exceeds wins.
type revealTier struct {
	above   float64
	percent float64
}

var revealTiers = []revealTier{
	{above: 4000, percent: 0.7},
	{above: 2000, percent: 0.5},
	{above: 1000, percent: 0.4},
	{above: 500, percent: 0.3},
	{above: 360, percent: 0.4},
	{above: 200, percent: 0.2},
}

const (
	shortScopeDays    = 50
	shortScopePercent = 2.0
)

// RevealStep returns how many simulated days each redraw cycle adds for a
// scope spanning totalDays.
func RevealStep(totalDays float64) float64 {
	for _, tier := range revealTiers {
		if totalDays > tier.above {
			return (totalDays * tier.percent) / 100
		}
	}
	if totalDays < shortScopeDays {
		return (totalDays * shortScopePercent) / 100
	}
	return 1
}

// RevealCursor tracks how many simulated days are still withheld from the
// chart. The zero value is exhausted: the chart is drawn in full.
type RevealCursor struct {
	remaining float64
	pending   bool
}

// NewRevealCursor returns a cursor at the start of a fresh reveal.
func NewRevealCursor() RevealCursor {
	return RevealCursor{pending: true}
}

// Restart rewinds the cursor to a fresh reveal. Hosts call it whenever the
// scope changes.
func (c *RevealCursor) Restart() {
	*c = NewRevealCursor()
}

// Finish marks the reveal complete.
func (c *RevealCursor) Finish() {
	*c = RevealCursor{}
}

// Pending reports whether more cycles are needed to reach the full curve.
func (c RevealCursor) Pending() bool {
	return c.pending
}

// Remaining returns the withheld day count, or false once exhausted.
func (c RevealCursor) Remaining() (float64, bool) {
	return c.remaining, c.pending
}

// advance moves the cursor one cycle forward and returns the number of days
// this cycle may draw. limited is false when the draw is unbounded.
func (c *RevealCursor) advance(totalDays, step float64) (budget float64, limited bool) {
	if !c.pending {
		return 0, false
	}
	switch {
	case c.remaining == 0:
		if totalDays > step {
			c.remaining = totalDays - step
		} else {
			c.Finish()
		}
	case c.remaining-step > 0:
		c.remaining -= step
	default:
		c.Finish()
	}
	if !c.pending {
		return 0, false
	}
	return totalDays - c.remaining, true
}
