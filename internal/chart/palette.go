package chart

import "github.com/charmbracelet/lipgloss"

// seriesColors is consumed from the end, so the first visible series is red.
var seriesColors = []lipgloss.Color{
	lipgloss.Color("#8BE9FD"), // cyan
	lipgloss.Color("#50FA7B"), // green
	lipgloss.Color("#FFB86C"), // orange
	lipgloss.Color("#FF79C6"), // pink
	lipgloss.Color("#BD93F9"), // purple
	lipgloss.Color("#FF5555"), // red
}

// FallbackColor is used by every series once the palette runs out.
const FallbackColor = lipgloss.Color("#F1FA8C")

// palette hands out series colors in roster order, skipping hidden methods.
type palette struct {
	colors []lipgloss.Color
}

func newPalette() *palette {
	colors := make([]lipgloss.Color, len(seriesColors))
	copy(colors, seriesColors)
	return &palette{colors: colors}
}

func (p *palette) next() lipgloss.Color {
	if len(p.colors) == 0 {
		return FallbackColor
	}
	c := p.colors[len(p.colors)-1]
	p.colors = p.colors[:len(p.colors)-1]
	return c
}

// SeriesColors returns the color of every method in roster order. Hidden
// methods get an empty color and do not use up a palette slot.
func SeriesColors(activated []bool) []lipgloss.Color {
	p := newPalette()
	out := make([]lipgloss.Color, len(activated))
	for i, on := range activated {
		if !on {
			continue
		}
		out[i] = p.next()
	}
	return out
}
