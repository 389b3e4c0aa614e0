package tui

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/lachiem1/tally/internal/storage"
)

type screenMode int

const (
	screenHome screenMode = iota
	screenChart
	screenTransactions
)

const (
	homeItemChart = iota
	homeItemTransactions
	homeItemQuit
)

type loadBalancesMsg struct {
	rows []storage.MethodBalance
	err  error
}

// Options configures the TUI.
type Options struct {
	DB     *sql.DB
	Logger *zap.Logger
	// FrameInterval is the delay between chart reveal frames.
	FrameInterval time.Duration
}

type model struct {
	ledger        *storage.LedgerRepo
	transactions  *storage.TransactionsRepo
	appConfig     *storage.AppConfigRepo
	logger        *zap.Logger
	frameInterval time.Duration
	now           func() time.Time

	width  int
	height int
	keys   keyMap
	help   help.Model
	screen screenMode

	homeItems    []string
	homeSelected int
	balances     []storage.MethodBalance
	homeErr      string

	chart    chartState
	txs      transactionsState
	quitting bool
}

func New(opts Options) tea.Model {
	return newModel(opts)
}

func newModel(opts Options) model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	interval := opts.FrameInterval
	if interval <= 0 {
		interval = 2 * time.Millisecond
	}
	return model{
		ledger:        storage.NewLedgerRepo(opts.DB),
		transactions:  storage.NewTransactionsRepo(opts.DB),
		appConfig:     storage.NewAppConfigRepo(opts.DB),
		logger:        logger,
		frameInterval: interval,
		now:           time.Now,
		keys:          defaultKeyMap(),
		help:          help.New(),
		screen:        screenHome,
		homeItems:     []string{"balance chart", "transactions", "quit"},
	}
}

func (m model) Init() tea.Cmd {
	return m.loadBalancesCmd()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case loadBalancesMsg:
		if msg.err != nil {
			m.homeErr = msg.err.Error()
			m.logger.Error("load balances", zap.Error(msg.err))
			return m, nil
		}
		m.homeErr = ""
		m.balances = msg.rows
		return m, nil

	case chartMetaMsg:
		return m.handleChartMeta(msg)

	case chartSnapshotMsg:
		return m.handleChartSnapshot(msg)

	case chartFrameMsg:
		return m.handleChartFrame(msg)

	case loadTransactionsMsg:
		return m.handleTransactions(msg)

	case saveChartPrefsMsg:
		if msg.err != nil {
			m.chart.err = "save chart settings: " + msg.err.Error()
			m.logger.Warn("save chart prefs", zap.Error(msg.err))
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.screen {
		case screenChart:
			return m.updateChartKeys(msg)
		case screenTransactions:
			return m.updateTransactionsKeys(msg)
		}
		return m.updateHomeKeys(msg)
	}
	return m, nil
}

func (m model) updateHomeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.homeSelected = (m.homeSelected - 1 + len(m.homeItems)) % len(m.homeItems)
	case key.Matches(msg, m.keys.Down):
		m.homeSelected = (m.homeSelected + 1) % len(m.homeItems)
	case key.Matches(msg, m.keys.Open):
		switch m.homeSelected {
		case homeItemChart:
			return m.enterChartView()
		case homeItemQuit:
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m model) loadBalancesCmd() tea.Cmd {
	ledger := m.ledger
	return func() tea.Msg {
		rows, err := ledger.Balances(context.Background())
		return loadBalancesMsg{rows: rows, err: err}
	}
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#F47A60")).
		Padding(0, 1)
	if m.width > 0 {
		frame = frame.Width(max(1, m.width-frame.GetHorizontalBorderSize()))
	}
	if m.height > 0 {
		frame = frame.Height(max(1, m.height-frame.GetVerticalBorderSize()))
	}
	layoutWidth := max(40, m.width-frame.GetHorizontalFrameSize())
	layoutHeight := max(20, m.height-frame.GetVerticalFrameSize())

	switch m.screen {
	case screenChart:
		return frame.Render(m.renderChartScreen(layoutWidth, layoutHeight))
	case screenTransactions:
		return frame.Render(m.renderTransactionsScreen(layoutWidth, layoutHeight))
	}
	return frame.Render(m.renderHomeScreen(layoutWidth))
}

func (m model) renderHomeScreen(layoutWidth int) string {
	header := lipgloss.PlaceHorizontal(layoutWidth, lipgloss.Center, renderGlyphTitle("TALLY", lipgloss.Color("#F47A60")))
	header = lipgloss.NewStyle().PaddingTop(1).PaddingBottom(1).Render(header)

	listBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#F47A60")).
		Padding(0, 1).
		Width(24).
		Render(renderViews(m.homeItems, m.homeSelected))

	balancesBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#FFD54A")).
		Padding(0, 1).
		Width(max(30, layoutWidth-32)).
		Render(m.renderBalances())

	body := lipgloss.JoinHorizontal(lipgloss.Top, listBox, " ", balancesBox)
	footer := m.help.View(homeKeys(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, header, body, "", footer)
}

func (m model) renderBalances() string {
	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F15B5B"))

	lines := []string{titleStyle.Render("balances"), ""}
	if m.homeErr != "" {
		return strings.Join(append(lines, errStyle.Render(m.homeErr)), "\n")
	}
	if len(m.balances) == 0 {
		return strings.Join(append(lines, labelStyle.Render("no payment methods yet - add one with `tally method add`")), "\n")
	}

	nameWidth := len("Total")
	for _, b := range m.balances {
		nameWidth = max(nameWidth, lipgloss.Width(b.Method))
	}
	total := decimal.Zero
	for _, b := range m.balances {
		total = total.Add(b.Balance)
		lines = append(lines, renderBalanceLine(b.Method, b.Balance, nameWidth, labelStyle))
	}
	lines = append(lines, labelStyle.Render(strings.Repeat("─", nameWidth+14)))
	lines = append(lines, renderBalanceLine("Total", total, nameWidth, titleStyle))
	return strings.Join(lines, "\n")
}

func renderBalanceLine(name string, balance decimal.Decimal, nameWidth int, nameStyle lipgloss.Style) string {
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#5CCB76"))
	if balance.IsNegative() {
		valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F15B5B"))
	}
	pad := strings.Repeat(" ", max(0, nameWidth-lipgloss.Width(name)))
	return nameStyle.Render(name+pad) + "  " + valueStyle.Render(renderDollars(balance))
}

func renderDollars(v decimal.Decimal) string {
	if v.IsNegative() {
		return "-$" + v.Abs().StringFixed(2)
	}
	return "$" + v.StringFixed(2)
}

func renderViews(items []string, selected int) string {
	lines := make([]string, 0, len(items))
	itemStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true).Underline(true)
	prefixStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F47A60")).Bold(true)
	for i, item := range items {
		if i == selected {
			lines = append(lines, prefixStyle.Render("> ")+selectedStyle.Render(item))
			continue
		}
		lines = append(lines, itemStyle.Render("  "+item))
	}
	return strings.Join(lines, "\n")
}

var titleGlyphs = map[rune][3]string{
	'A': {"▄▀█", "█▀█", "▀ ▀"},
	'B': {"█▀█", "█▀█", "▀▀▀"},
	'C': {"█▀▀", "█▄▄", "▀▀▀"},
	'D': {"█▀▄", "█ █", "▀▀ "},
	'E': {"█▀▀", "█▀▀", "▀▀▀"},
	'G': {"█▀▀", "█▄█", "▀▀▀"},
	'L': {"█  ", "█▄▄", "▀▀▀"},
	'N': {"█▄ █", "█ ▀█", "▀  ▀"},
	'R': {"█▀█", "█▀▄", "▀ ▀"},
	'S': {"█▀▀", "▀▀█", "▀▀▀"},
	'T': {"▀█▀", " █ ", " ▀ "},
	'Y': {"█ █", " █ ", " ▀ "},
	' ': {" ", " ", " "},
}

func renderGlyphTitle(title string, color lipgloss.Color) string {
	lines := [3][]string{{}, {}, {}}
	for _, ch := range title {
		g, ok := titleGlyphs[ch]
		if !ok {
			continue
		}
		lines[0] = append(lines[0], g[0])
		lines[1] = append(lines[1], g[1])
		lines[2] = append(lines[2], g[2])
	}
	style := lipgloss.NewStyle().Foreground(color).Bold(true)
	out := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		out = append(out, style.Render(strings.Join(lines[i], " ")))
	}
	return strings.Join(out, "\n")
}
