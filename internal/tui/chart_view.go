package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/lachiem1/tally/internal/chart"
	"github.com/lachiem1/tally/internal/storage"
)

const (
	chartFocusMode = iota
	chartFocusYear
	chartFocusMonth
	chartFocusMethods
)

type chartMetaMsg struct {
	sessionID int
	years     []int
	prefs     storage.ChartPrefs
	err       error
}

type chartSnapshotMsg struct {
	sessionID int
	snapshot  chart.Snapshot
	roster    []string
	err       error
}

type chartFrameMsg struct {
	sessionID int
}

type saveChartPrefsMsg struct {
	err error
}

type chartState struct {
	session int
	focus   int

	mode    chart.Mode
	years   []int
	yearIdx int
	month   time.Month

	roster     []string
	methodIdx  int
	activation map[string]bool
	inactive   []string
	hidden     bool

	snapshot chart.Snapshot
	loaded   bool

	cursor  chart.RevealCursor
	ticking bool
	cycles  int
	frame   chart.Frame
	err     string
}

func (c chartState) scope() chart.Scope {
	year := 0
	if len(c.years) > 0 {
		year = c.years[c.yearIdx]
	}
	return chart.Scope{Mode: c.mode, Year: year, Month: c.month}.Normalize()
}

// focuses lists the selectors shown for the current mode, top to bottom.
func (c chartState) focuses() []int {
	switch c.mode {
	case chart.ModeMonthly:
		return []int{chartFocusMode, chartFocusYear, chartFocusMonth, chartFocusMethods}
	case chart.ModeYearly:
		return []int{chartFocusMode, chartFocusYear, chartFocusMethods}
	default:
		return []int{chartFocusMode, chartFocusMethods}
	}
}

func (c *chartState) moveFocus(delta int) {
	focuses := c.focuses()
	idx := 0
	for i, f := range focuses {
		if f == c.focus {
			idx = i
		}
	}
	c.focus = focuses[(idx+delta+len(focuses))%len(focuses)]
}

func (c chartState) prefs() storage.ChartPrefs {
	var inactive []string
	for _, name := range c.roster {
		if !c.activation[name] {
			inactive = append(inactive, name)
		}
	}
	return storage.ChartPrefs{Inactive: inactive, Hidden: c.hidden}
}

func (m model) enterChartView() (tea.Model, tea.Cmd) {
	session := m.chart.session + 1
	m.screen = screenChart
	m.chart = chartState{
		session: session,
		focus:   chartFocusMode,
		mode:    chart.ModeMonthly,
		month:   m.now().Month(),
		cursor:  chart.NewRevealCursor(),
	}
	return m, m.loadChartMetaCmd()
}

func (m model) leaveChartView() (tea.Model, tea.Cmd) {
	m.screen = screenHome
	// Bumping the session drops any frame still in flight.
	m.chart.session++
	m.chart.ticking = false
	return m, m.loadBalancesCmd()
}

func (m model) updateChartKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := &m.chart
	switch {
	case key.Matches(msg, m.keys.Back):
		return m.leaveChartView()
	case key.Matches(msg, m.keys.Up):
		c.moveFocus(-1)
	case key.Matches(msg, m.keys.Down):
		c.moveFocus(1)
	case key.Matches(msg, m.keys.Left):
		return m.stepChartSelector(-1)
	case key.Matches(msg, m.keys.Right):
		return m.stepChartSelector(1)
	case key.Matches(msg, m.keys.Toggle):
		if c.focus == chartFocusMethods {
			return m.toggleChartMethod()
		}
	case key.Matches(msg, m.keys.Hidden):
		c.hidden = !c.hidden
		return m, m.saveChartPrefsCmd(c.prefs())
	}
	return m, nil
}

func (m model) stepChartSelector(delta int) (tea.Model, tea.Cmd) {
	c := &m.chart
	switch c.focus {
	case chartFocusMode:
		modes := chart.Modes()
		c.mode = modes[(int(c.mode)+delta+len(modes))%len(modes)]
	case chartFocusYear:
		if len(c.years) == 0 {
			return m, nil
		}
		c.yearIdx = (c.yearIdx + delta + len(c.years)) % len(c.years)
	case chartFocusMonth:
		c.month = time.Month((int(c.month)-1+delta+12)%12 + 1)
	case chartFocusMethods:
		if len(c.roster) > 0 {
			c.methodIdx = (c.methodIdx + delta + len(c.roster)) % len(c.roster)
		}
		return m, nil
	}
	return m.restartChart()
}

// restartChart starts a fresh reveal for the current scope.
func (m model) restartChart() (tea.Model, tea.Cmd) {
	c := &m.chart
	c.session++
	c.cursor.Restart()
	c.ticking = false
	c.cycles = 0
	// The held snapshot belongs to the old scope until the reload lands.
	c.loaded = false
	m.logger.Info("chart scope changed", zap.Stringer("scope", c.scope()))
	return m, m.loadChartSnapshotCmd()
}

func (m model) toggleChartMethod() (tea.Model, tea.Cmd) {
	c := &m.chart
	if len(c.roster) == 0 {
		return m, nil
	}
	name := c.roster[c.methodIdx]
	c.activation[name] = !c.activation[name]
	save := m.saveChartPrefsCmd(c.prefs())
	if !c.loaded {
		return m, save
	}
	next, draw := m.drawChartFrame()
	return next, tea.Batch(save, draw)
}

func (m model) handleChartMeta(msg chartMetaMsg) (tea.Model, tea.Cmd) {
	if msg.sessionID != m.chart.session || m.screen != screenChart {
		return m, nil
	}
	c := &m.chart
	if msg.err != nil {
		c.err = msg.err.Error()
		m.logger.Error("load chart settings", zap.Error(msg.err))
		return m, nil
	}

	thisYear := m.now().Year()
	c.years = msg.years
	if len(c.years) == 0 {
		c.years = []int{thisYear}
	}
	c.yearIdx = len(c.years) - 1
	for i, y := range c.years {
		if y == thisYear {
			c.yearIdx = i
		}
	}
	c.inactive = msg.prefs.Inactive
	c.hidden = msg.prefs.Hidden
	return m, m.loadChartSnapshotCmd()
}

func (m model) handleChartSnapshot(msg chartSnapshotMsg) (tea.Model, tea.Cmd) {
	if msg.sessionID != m.chart.session || m.screen != screenChart {
		return m, nil
	}
	c := &m.chart
	if msg.err != nil {
		c.err = msg.err.Error()
		m.logger.Error("load ledger snapshot", zap.Stringer("scope", c.scope()), zap.Error(msg.err))
		return m, nil
	}

	activation := storage.ChartPrefs{Inactive: c.inactive}.Activation(msg.roster)
	for name := range activation {
		if on, ok := c.activation[name]; ok {
			activation[name] = on
		}
	}
	c.activation = activation
	c.roster = msg.roster
	c.snapshot = msg.snapshot
	c.loaded = true
	if c.methodIdx >= len(c.roster) {
		c.methodIdx = max(0, len(c.roster)-1)
	}
	return m.drawChartFrame()
}

func (m model) handleChartFrame(msg chartFrameMsg) (tea.Model, tea.Cmd) {
	if msg.sessionID != m.chart.session || m.screen != screenChart {
		return m, nil
	}
	m.chart.ticking = false
	if !m.chart.cursor.Pending() {
		return m, nil
	}
	return m.drawChartFrame()
}

// drawChartFrame runs one reveal cycle and schedules the next while the
// cursor is still pending.
func (m model) drawChartFrame() (model, tea.Cmd) {
	c := &m.chart
	wasPending := c.cursor.Pending()
	frame, err := chart.Build(chart.Input{
		Snapshot:  c.snapshot,
		Methods:   c.roster,
		Activated: c.activation,
	}, &c.cursor)
	if err != nil {
		c.err = err.Error()
		c.cursor.Finish()
		m.logger.Error("build chart", zap.Stringer("scope", c.scope()), zap.Error(err))
		return m, nil
	}
	c.err = ""
	c.frame = frame
	c.cycles++

	if c.cursor.Pending() {
		if c.ticking {
			return m, nil
		}
		c.ticking = true
		return m, m.chartFrameTickCmd()
	}
	if wasPending {
		m.logger.Debug(
			"chart reveal finished",
			zap.Stringer("scope", c.scope()),
			zap.Int("cycles", c.cycles),
			zap.Int("days", frame.DrawnDays),
		)
	}
	return m, nil
}

func (m model) chartFrameTickCmd() tea.Cmd {
	session := m.chart.session
	return tea.Tick(m.frameInterval, func(time.Time) tea.Msg {
		return chartFrameMsg{sessionID: session}
	})
}

func (m model) loadChartMetaCmd() tea.Cmd {
	session := m.chart.session
	transactions := m.transactions
	appConfig := m.appConfig
	return func() tea.Msg {
		ctx := context.Background()
		years, err := transactions.Years(ctx)
		if err != nil {
			return chartMetaMsg{sessionID: session, err: err}
		}
		prefs, err := appConfig.ChartPrefs(ctx)
		if err != nil {
			return chartMetaMsg{sessionID: session, err: err}
		}
		return chartMetaMsg{sessionID: session, years: years, prefs: prefs}
	}
}

func (m model) loadChartSnapshotCmd() tea.Cmd {
	session := m.chart.session
	scope := m.chart.scope()
	ledger := m.ledger
	return func() tea.Msg {
		snapshot, roster, err := ledger.Snapshot(context.Background(), scope)
		return chartSnapshotMsg{sessionID: session, snapshot: snapshot, roster: roster, err: err}
	}
}

func (m model) saveChartPrefsCmd(prefs storage.ChartPrefs) tea.Cmd {
	appConfig := m.appConfig
	return func() tea.Msg {
		return saveChartPrefsMsg{err: appConfig.SaveChartPrefs(context.Background(), prefs)}
	}
}
