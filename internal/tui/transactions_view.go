package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/lachiem1/tally/internal/chart"
	"github.com/lachiem1/tally/internal/storage"
)

type loadTransactionsMsg struct {
	sessionID int
	rows      []storage.Transaction
	err       error
}

type transactionsState struct {
	session int
	rows    []storage.Transaction
	offset  int
	loaded  bool
	err     string
}

func (m model) enterTransactionsView() (tea.Model, tea.Cmd) {
	m.screen = screenTransactions
	m.txs = transactionsState{session: m.txs.session + 1}
	return m, m.loadTransactionsCmd()
}

func (m model) updateTransactionsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.screen = screenHome
		m.txs.session++
		return m, m.loadBalancesCmd()
	case key.Matches(msg, m.keys.Up):
		m.txs.offset = max(0, m.txs.offset-1)
	case key.Matches(msg, m.keys.Down):
		m.txs.offset = min(max(0, len(m.txs.rows)-1), m.txs.offset+1)
	}
	return m, nil
}

func (m model) handleTransactions(msg loadTransactionsMsg) (tea.Model, tea.Cmd) {
	if msg.sessionID != m.txs.session || m.screen != screenTransactions {
		return m, nil
	}
	if msg.err != nil {
		m.txs.err = msg.err.Error()
		m.logger.Error("load transactions", zap.Error(msg.err))
		return m, nil
	}
	// Newest first.
	rows := make([]storage.Transaction, len(msg.rows))
	for i, tx := range msg.rows {
		rows[len(rows)-1-i] = tx
	}
	m.txs.rows = rows
	m.txs.loaded = true
	m.txs.err = ""
	return m, nil
}

func (m model) loadTransactionsCmd() tea.Cmd {
	session := m.txs.session
	transactions := m.transactions
	return func() tea.Msg {
		rows, err := transactions.List(context.Background(), chart.Scope{Mode: chart.ModeAllTime})
		return loadTransactionsMsg{sessionID: session, rows: rows, err: err}
	}
}

func (m model) renderTransactionsScreen(layoutWidth, layoutHeight int) string {
	title := lipgloss.PlaceHorizontal(layoutWidth, lipgloss.Center, renderGlyphTitle("LEDGER", lipgloss.Color("#87CEEB")))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))

	lines := []string{title, ""}
	switch {
	case m.txs.err != "":
		lines = append(lines, lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F15B5B")).
			Render("error: "+m.txs.err))
	case !m.txs.loaded:
		lines = append(lines, labelStyle.Render("loading..."))
	case len(m.txs.rows) == 0:
		lines = append(lines, labelStyle.Render("no transactions yet - add one with `tally add` or `tally import`"))
	default:
		visible := max(1, layoutHeight-len(lines)-4)
		end := min(len(m.txs.rows), m.txs.offset+visible)
		for _, tx := range m.txs.rows[m.txs.offset:end] {
			lines = append(lines, truncateDisplayWidth(renderTransactionLine(tx), layoutWidth))
		}
		lines = append(lines, "", labelStyle.Render(fmt.Sprintf("%d-%d of %d", m.txs.offset+1, end, len(m.txs.rows))))
	}
	lines = append(lines, m.help.View(transactionsKeys(m.keys)))
	return strings.Join(lines, "\n")
}

func renderTransactionLine(tx storage.Transaction) string {
	dateStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	methodStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD54A"))
	amountStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#5CCB76")).Width(12).Align(lipgloss.Right)

	amount := renderDollars(tx.Amount)
	method := tx.Method
	switch tx.Type {
	case storage.TxExpense:
		amountStyle = amountStyle.Foreground(lipgloss.Color("#F15B5B"))
		amount = "-" + amount
	case storage.TxTransfer:
		amountStyle = amountStyle.Foreground(lipgloss.Color("#87CEEB"))
		method += " → " + tx.ToMethod
	}
	line := dateStyle.Render(tx.Date.Format(storage.DateLayout)) + "  " +
		amountStyle.Render(amount) + "  " +
		methodStyle.Render(method)
	if tx.Details != "" {
		line += "  " + tx.Details
	}
	if tx.Tags != "" {
		line += dateStyle.Render("  #" + strings.ReplaceAll(tx.Tags, ", ", " #"))
	}
	return line
}
