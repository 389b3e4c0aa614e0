package chart

import (
	"fmt"
	"time"
)

// Mode is the aggregation level used to filter ledger rows for a chart draw.
type Mode int

const (
	ModeMonthly Mode = iota
	ModeYearly
	ModeAllTime
)

func (m Mode) String() string {
	switch m {
	case ModeMonthly:
		return "Monthly"
	case ModeYearly:
		return "Yearly"
	case ModeAllTime:
		return "All Time"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Modes lists the selectable modes in tab order.
func Modes() []Mode {
	return []Mode{ModeMonthly, ModeYearly, ModeAllTime}
}

// Scope is the concrete selection a chart is drawn for. Year and Month are
// ignored by modes that do not use them.
type Scope struct {
	Mode  Mode
	Year  int
	Month time.Month
}

// Normalize zeroes the fields the mode ignores so two scopes that select the
// same rows compare equal.
func (s Scope) Normalize() Scope {
	switch s.Mode {
	case ModeYearly:
		s.Month = 0
	case ModeAllTime:
		s.Year = 0
		s.Month = 0
	}
	return s
}

// Contains reports whether the calendar date d falls inside the scope.
func (s Scope) Contains(d time.Time) bool {
	switch s.Mode {
	case ModeMonthly:
		return d.Year() == s.Year && d.Month() == s.Month
	case ModeYearly:
		return d.Year() == s.Year
	default:
		return true
	}
}

func (s Scope) String() string {
	switch s.Mode {
	case ModeMonthly:
		return fmt.Sprintf("%s %d", s.Month, s.Year)
	case ModeYearly:
		return fmt.Sprintf("%d", s.Year)
	default:
		return s.Mode.String()
	}
}
