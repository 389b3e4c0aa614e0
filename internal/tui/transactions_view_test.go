package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestTransactionsViewListsNewestFirst(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(m, keyDown)
	if m.homeSelected != homeItemTransactions {
		t.Fatalf("homeSelected = %d, want transactions", m.homeSelected)
	}
	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.screen != screenTransactions {
		t.Fatalf("screen = %d, want transactions", m.screen)
	}
	m, _ = drive(t, m, cmd)

	if m.txs.err != "" {
		t.Fatalf("transactions error = %q, want none", m.txs.err)
	}
	if len(m.txs.rows) == 0 {
		t.Fatal("no transactions loaded")
	}
	first, last := m.txs.rows[0], m.txs.rows[len(m.txs.rows)-1]
	if !first.Date.After(last.Date) {
		t.Fatalf("rows run %s..%s, want newest first", first.Date, last.Date)
	}

	view := m.View()
	if !strings.Contains(view, first.Date.Format("2006-01-02")) {
		t.Fatalf("View() missing newest date %s", first.Date.Format("2006-01-02"))
	}

	m, _ = press(m, keyDown)
	if m.txs.offset != 1 {
		t.Fatalf("offset = %d, want 1", m.txs.offset)
	}

	session := m.txs.session
	m, cmd = press(m, keyEsc)
	if m.screen != screenHome || cmd == nil {
		t.Fatal("esc did not return home and reload balances")
	}
	next, _ := m.Update(loadTransactionsMsg{sessionID: session})
	if next.(model).txs.loaded != m.txs.loaded {
		t.Fatal("stale transactions load was applied after leaving")
	}
}
