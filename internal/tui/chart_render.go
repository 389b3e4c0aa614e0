package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lachiem1/tally/internal/chart"
)

const (
	chartCellEmpty = iota
	chartCellGrid
	chartCellAxis
	// chartCellSeries is the code of the first drawn series; later series
	// get higher codes and win shared cells.
	chartCellSeries
)

func (m model) renderChartScreen(layoutWidth, layoutHeight int) string {
	c := m.chart
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F15B5B"))

	var top []string
	if !c.hidden {
		top = append(top, renderGlyphTitle("BALANCES", lipgloss.Color("#87CEEB")), "")
		top = append(top, m.renderChartSelectors(layoutWidth)...)
		top = append(top, "")
	}

	var bottom []string
	switch {
	case c.err != "":
		bottom = append(bottom, errStyle.Render(truncateDisplayWidth(c.err, layoutWidth)))
	case c.frame.Partial:
		bottom = append(bottom, labelStyle.Render(fmt.Sprintf("drawing… %d/%d days", c.frame.DrawnDays, c.frame.TotalDays+1)))
	default:
		bottom = append(bottom, labelStyle.Render(c.scope().String()))
	}
	if !c.hidden {
		bottom = append(bottom, m.help.View(chartKeys(m.keys)))
	}

	plotHeight := max(6, layoutHeight-len(top)-len(bottom)-3)
	var body []string
	if !c.loaded {
		body = []string{labelStyle.Render("loading ledger…")}
	} else {
		body = renderChartPlot(c.frame, layoutWidth, plotHeight)
	}

	lines := append(top, body...)
	lines = append(lines, bottom...)
	return strings.Join(lines, "\n")
}

func (m model) renderChartSelectors(layoutWidth int) []string {
	c := m.chart
	modes := chart.Modes()
	modeNames := make([]string, len(modes))
	for i, mode := range modes {
		modeNames[i] = mode.String()
	}
	lines := []string{renderSelectorRow("mode", modeNames, int(c.mode), c.focus == chartFocusMode, layoutWidth)}

	if c.mode != chart.ModeAllTime {
		years := make([]string, len(c.years))
		for i, y := range c.years {
			years[i] = fmt.Sprintf("%d", y)
		}
		lines = append(lines, renderSelectorRow("year", years, c.yearIdx, c.focus == chartFocusYear, layoutWidth))
	}
	if c.mode == chart.ModeMonthly {
		months := make([]string, 12)
		for i := range months {
			months[i] = time.Month(i + 1).String()[:3]
		}
		lines = append(lines, renderSelectorRow("month", months, int(c.month)-1, c.focus == chartFocusMonth, layoutWidth))
	}
	lines = append(lines, m.renderMethodTabs(layoutWidth))
	return lines
}

func renderSelectorRow(label string, items []string, selected int, focused bool, maxWidth int) string {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")).Width(8)
	if focused {
		labelStyle = labelStyle.Foreground(lipgloss.Color("#F47A60")).Bold(true)
	}
	itemStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#1F2937")).Background(lipgloss.Color("#FFD54A")).Bold(true)

	parts := make([]string, 0, len(items))
	for i, item := range items {
		if i == selected {
			parts = append(parts, selectedStyle.Render(" "+item+" "))
			continue
		}
		parts = append(parts, itemStyle.Render(" "+item+" "))
	}
	return truncateDisplayWidth(labelStyle.Render(label)+strings.Join(parts, " "), maxWidth)
}

func (m model) renderMethodTabs(maxWidth int) string {
	c := m.chart
	focused := c.focus == chartFocusMethods
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")).Width(8)
	if focused {
		labelStyle = labelStyle.Foreground(lipgloss.Color("#F47A60")).Bold(true)
	}
	offStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Strikethrough(true)

	if len(c.roster) == 0 {
		return labelStyle.Render("methods") + offStyle.UnsetStrikethrough().Render("none")
	}

	colors := make(map[string]lipgloss.Color, len(c.roster))
	for _, s := range c.frame.Series {
		colors[s.Method] = s.Color
	}
	parts := make([]string, 0, len(c.roster))
	for i, name := range c.roster {
		style := offStyle
		if c.activation[name] {
			style = lipgloss.NewStyle().Foreground(colors[name]).Bold(true)
		}
		if focused && i == c.methodIdx {
			style = style.Underline(true)
		}
		parts = append(parts, style.Render(name))
	}
	return truncateDisplayWidth(labelStyle.Render("methods")+strings.Join(parts, "  "), maxWidth)
}

// renderChartPlot draws every visible series of frame on a rune grid with
// the y labels on the left and the two date labels underneath.
func renderChartPlot(frame chart.Frame, width, plotHeight int) []string {
	axisStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	gridStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#374151"))

	axis := frame.Axis
	yLabelWidth := 1
	for _, label := range axis.Labels {
		yLabelWidth = max(yLabelWidth, lipgloss.Width(label))
	}
	graphWidth := max(12, width-yLabelWidth-1)
	dataCols := graphWidth - 1
	xAxisRow := plotHeight - 1
	dataRows := xAxisRow

	grid := make([][]rune, plotHeight)
	codes := make([][]int, plotHeight)
	for y := range grid {
		grid[y] = make([]rune, graphWidth)
		codes[y] = make([]int, graphWidth)
		for x := range grid[y] {
			grid[y][x] = ' '
		}
		setChartCell(grid, codes, 0, y, '│', chartCellAxis)
	}
	for x := 0; x < graphWidth; x++ {
		setChartCell(grid, codes, x, xAxisRow, '─', chartCellAxis)
	}
	setChartCell(grid, codes, 0, xAxisRow, '└', chartCellAxis)

	labelByRow := make(map[int]string, len(axis.Labels))
	for i, label := range axis.Labels {
		row := valueRow(float64(i), 0, float64(len(axis.Labels)-1), dataRows)
		if _, taken := labelByRow[row]; taken {
			continue
		}
		labelByRow[row] = label
		for x := 1; x < graphWidth; x++ {
			setChartCell(grid, codes, x, row, '┈', chartCellGrid)
		}
	}

	styles := map[int]lipgloss.Style{
		chartCellAxis: axisStyle,
		chartCellGrid: gridStyle,
	}
	for i, s := range frame.Visible() {
		code := chartCellSeries + i
		styles[code] = lipgloss.NewStyle().Foreground(s.Color)
		prevX, prevY := -1, -1
		for _, p := range s.Points {
			x := pointColumn(p.X, axis.XMax, dataCols) + 1
			y := valueRow(p.Y, axis.Low, axis.High, dataRows)
			if prevX >= 0 {
				drawChartSegment(grid, codes, prevX, prevY, x, y, '•', code)
			} else {
				setChartCell(grid, codes, x, y, '•', code)
			}
			prevX, prevY = x, y
		}
	}

	out := make([]string, 0, plotHeight+1)
	for row := 0; row < plotHeight; row++ {
		prefix := fmt.Sprintf("%*s ", yLabelWidth, labelByRow[row])
		out = append(out, axisStyle.Render(prefix)+renderChartGraphRow(grid[row], codes[row], styles))
	}

	if len(axis.DateLabels) == 2 {
		left, right := axis.DateLabels[0], axis.DateLabels[1]
		gap := max(1, graphWidth-lipgloss.Width(left)-lipgloss.Width(right))
		out = append(out, axisStyle.Render(strings.Repeat(" ", yLabelWidth+1)+left+strings.Repeat(" ", gap)+right))
	} else {
		out = append(out, axisStyle.Render(strings.Repeat(" ", yLabelWidth+1)+"no transactions in scope"))
	}
	return out
}

// valueRow maps v onto the data rows, top row highest. Values outside
// [low, high] are clamped onto the plot.
func valueRow(v, low, high float64, dataRows int) int {
	if dataRows <= 1 || high <= low {
		return max(0, dataRows-1)
	}
	ratio := (v - low) / (high - low)
	ratio = math.Max(0, math.Min(1, ratio))
	return (dataRows - 1) - int(math.Round(ratio*float64(dataRows-1)))
}

func pointColumn(x, xMax float64, dataCols int) int {
	if xMax <= 0 || dataCols <= 1 {
		return 0
	}
	col := int(math.Round(x / xMax * float64(dataCols-1)))
	return max(0, min(dataCols-1, col))
}

func renderChartGraphRow(rowRunes []rune, rowCodes []int, styles map[int]lipgloss.Style) string {
	var b strings.Builder
	for i, ch := range rowRunes {
		style, ok := styles[rowCodes[i]]
		if !ok {
			b.WriteRune(ch)
			continue
		}
		b.WriteString(style.Render(string(ch)))
	}
	return b.String()
}

func setChartCell(grid [][]rune, codes [][]int, x int, y int, ch rune, code int) {
	if y < 0 || y >= len(grid) || x < 0 || x >= len(grid[y]) {
		return
	}
	if code >= codes[y][x] {
		grid[y][x] = ch
		codes[y][x] = code
	}
}

func drawChartSegment(grid [][]rune, codes [][]int, x0, y0, x1, y1 int, ch rune, code int) {
	dx := x1 - x0
	dy := y1 - y0
	steps := max(absInt(dx), absInt(dy))
	if steps <= 0 {
		setChartCell(grid, codes, x0, y0, ch, code)
		return
	}
	for step := 0; step <= steps; step++ {
		x := x0 + int(math.Round(float64(step*dx)/float64(steps)))
		y := y0 + int(math.Round(float64(step*dy)/float64(steps)))
		if x <= 0 {
			continue
		}
		setChartCell(grid, codes, x, y, ch, code)
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func truncateDisplayWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(maxWidth).Render(s)
}
