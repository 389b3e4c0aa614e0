package chart

import (
	"math"
	"strconv"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/go-cmp/cmp"
)

func TestScaleAxisLabels(t *testing.T) {
	got := scaleAxis(extrema{low: 0, high: 150})

	want := AxisModel{
		Low:  0,
		High: 165,
		Labels: []string{
			"0", "16.50", "33.00", "49.50", "66.00", "82.50",
			"99.00", "115.50", "132.00", "148.50", "165.00",
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected axis (-want +got):\n%s", diff)
	}
}

func TestScaleAxisPadsBySignedMagnitude(t *testing.T) {
	got := scaleAxis(extrema{low: -100, high: 0})

	if got.Low != -90 {
		t.Fatalf("Low = %v, want -90", got.Low)
	}
	if got.High != 0 {
		t.Fatalf("High = %v, want 0", got.High)
	}
	if got.Labels[0] != "-90" {
		t.Fatalf("first label = %q, want %q", got.Labels[0], "-90")
	}
	if got.Labels[10] != "0.00" {
		t.Fatalf("last label = %q, want %q", got.Labels[10], "0.00")
	}
}

func TestScaleAxisTopGridlineMatchesPaddedHigh(t *testing.T) {
	tests := []extrema{
		{low: -37.5, high: 1234.56},
		{low: 0, high: 0.01},
		{low: -98765.4321, high: 3},
	}
	for _, e := range tests {
		got := scaleAxis(e)
		wantLow := e.low - e.low*0.1
		wantHigh := e.high + e.high*0.1
		if math.Abs(got.Low-wantLow) > 1e-9 || math.Abs(got.High-wantHigh) > 1e-9 {
			t.Fatalf("scaleAxis(%+v) bounds = [%v, %v], want [%v, %v]", e, got.Low, got.High, wantLow, wantHigh)
		}
		if len(got.Labels) != 11 {
			t.Fatalf("scaleAxis(%+v) produced %d labels, want 11", e, len(got.Labels))
		}
		top, err := strconv.ParseFloat(got.Labels[10], 64)
		if err != nil {
			t.Fatalf("top label %q: %v", got.Labels[10], err)
		}
		if math.Abs(top-wantHigh) > 0.006 {
			t.Fatalf("scaleAxis(%+v) top label = %v, want %v", e, top, wantHigh)
		}
	}
}

func TestExtremaIgnoresValuesInsideRange(t *testing.T) {
	var e extrema
	for _, v := range []float64{5, -2, 3, 12, -8, 0} {
		e.observe(v)
	}
	if e.low != -8 || e.high != 12 {
		t.Fatalf("extrema = [%v, %v], want [-8, 12]", e.low, e.high)
	}
}

func TestSeriesColorsSkipsHiddenWithoutConsuming(t *testing.T) {
	got := SeriesColors([]bool{false, true, false, true})
	want := []lipgloss.Color{"", "#FF5555", "", "#BD93F9"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected colors (-want +got):\n%s", diff)
	}
}

func TestScopeNormalizeAndContains(t *testing.T) {
	a := Scope{Mode: ModeYearly, Year: 2023, Month: 4}.Normalize()
	b := Scope{Mode: ModeYearly, Year: 2023, Month: 9}.Normalize()
	if a != b {
		t.Fatalf("yearly scopes differ after Normalize: %+v vs %+v", a, b)
	}
	all := Scope{Mode: ModeAllTime, Year: 2020, Month: 1}.Normalize()
	if all != (Scope{Mode: ModeAllTime}) {
		t.Fatalf("Normalize() = %+v, want bare all-time scope", all)
	}

	day, err := parseRows([]Row{{Date: "15-04-2023"}}, 0)
	if err != nil {
		t.Fatalf("parseRows() unexpected error: %v", err)
	}
	d := day[0].date
	if !(Scope{Mode: ModeMonthly, Year: 2023, Month: 4}).Contains(d) {
		t.Fatal("April 2023 does not contain 15-04-2023")
	}
	if (Scope{Mode: ModeMonthly, Year: 2023, Month: 5}).Contains(d) {
		t.Fatal("May 2023 contains 15-04-2023")
	}
	if !(Scope{Mode: ModeYearly, Year: 2023}).Contains(d) {
		t.Fatal("2023 does not contain 15-04-2023")
	}
	if !(Scope{Mode: ModeAllTime}).Contains(d) {
		t.Fatal("all time does not contain 15-04-2023")
	}
}
