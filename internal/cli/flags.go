package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"

	"github.com/lachiem1/tally/internal/chart"
	"github.com/lachiem1/tally/internal/storage"
)

// DateFlag manages a flag to determine a date.
type DateFlag time.Time

var _ pflag.Value = (*DateFlag)(nil)

func (tf DateFlag) String() string {
	if tf.Value().IsZero() {
		return ""
	}
	return tf.Value().Format(storage.DateLayout)
}

// Set implements pflag.Value.
func (tf *DateFlag) Set(v string) error {
	t, err := time.Parse(storage.DateLayout, v)
	if err != nil {
		return err
	}
	*tf = DateFlag(t)
	return nil
}

// Type implements pflag.Value.
func (tf DateFlag) Type() string {
	return "YYYY-MM-DD"
}

// Value returns the flag value.
func (tf DateFlag) Value() time.Time {
	return time.Time(tf)
}

// ValueOr returns the flag value, or t if the flag was not set.
func (tf DateFlag) ValueOr(t time.Time) time.Time {
	v := tf.Value()
	if v.IsZero() {
		return t
	}
	return v
}

// AmountFlag manages a flag holding a money amount.
type AmountFlag struct {
	value decimal.Decimal
	set   bool
}

var _ pflag.Value = (*AmountFlag)(nil)

func (af AmountFlag) String() string {
	if !af.set {
		return ""
	}
	return af.value.String()
}

// Set implements pflag.Value.
func (af *AmountFlag) Set(v string) error {
	d, err := decimal.NewFromString(strings.TrimPrefix(strings.TrimSpace(v), "$"))
	if err != nil {
		return err
	}
	af.value, af.set = d, true
	return nil
}

// Type implements pflag.Value.
func (af AmountFlag) Type() string {
	return "amount"
}

// Value returns the flag value.
func (af AmountFlag) Value() decimal.Decimal {
	return af.value
}

// ModeFlag selects a chart aggregation mode.
type ModeFlag chart.Mode

var _ pflag.Value = (*ModeFlag)(nil)

func (mf ModeFlag) String() string {
	switch chart.Mode(mf) {
	case chart.ModeYearly:
		return "yearly"
	case chart.ModeAllTime:
		return "all"
	default:
		return "monthly"
	}
}

// Set implements pflag.Value.
func (mf *ModeFlag) Set(v string) error {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "monthly", "month", "m":
		*mf = ModeFlag(chart.ModeMonthly)
	case "yearly", "year", "y":
		*mf = ModeFlag(chart.ModeYearly)
	case "all", "all-time", "a":
		*mf = ModeFlag(chart.ModeAllTime)
	default:
		return fmt.Errorf("unknown mode %q, want monthly, yearly or all", v)
	}
	return nil
}

// Type implements pflag.Value.
func (mf ModeFlag) Type() string {
	return "monthly|yearly|all"
}

// Value returns the flag value.
func (mf ModeFlag) Value() chart.Mode {
	return chart.Mode(mf)
}
