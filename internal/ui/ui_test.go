package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"ksnum/internal/calc"
)

func enter(m *replModel, line string) tea.Cmd {
	m.input.SetValue(line)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return cmd
}

func TestREPLEvaluates(t *testing.T) {
	m := newREPL(context.Background(), calc.DefaultOptions(), false)
	enter(m, "1 + 2 * 3")
	enter(m, "1 / 0")
	require.Len(t, m.entries, 2)
	require.Equal(t, "7", m.entries[0].output)
	require.False(t, m.entries[0].err)
	require.True(t, m.entries[1].err)
	require.Contains(t, m.entries[1].output, "division by zero")
	require.Empty(t, m.input.Value())

	view := m.View()
	require.Contains(t, view, "1 + 2 * 3")
	require.Contains(t, view, "decimal mode, 10 digits, round off")
}

func TestREPLCommands(t *testing.T) {
	m := newREPL(context.Background(), calc.DefaultOptions(), false)
	enter(m, ":prec 2")
	enter(m, ":round on")
	enter(m, "2 / 3")
	require.Equal(t, "0.67", m.entries[len(m.entries)-1].output)

	enter(m, ":mode int")
	enter(m, "7 / 2")
	require.Equal(t, "3", m.entries[len(m.entries)-1].output)

	enter(m, ":prec -1")
	require.True(t, m.entries[len(m.entries)-1].err)
	enter(m, ":prec 999999")
	require.True(t, m.entries[len(m.entries)-1].err)
	require.Equal(t, 2, m.opts.Precision)
	enter(m, ":bogus")
	require.True(t, m.entries[len(m.entries)-1].err)

	enter(m, ":help")
	require.Contains(t, m.entries[len(m.entries)-1].output, "weq(a, b, n)")

	enter(m, ":clear")
	require.Empty(t, m.entries)

	cmd := enter(m, ":q")
	require.NotNil(t, cmd)
	require.True(t, m.quit)
}

func TestREPLRecall(t *testing.T) {
	m := newREPL(context.Background(), calc.DefaultOptions(), false)
	enter(m, "1")
	enter(m, "2")
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	require.Equal(t, "2", m.input.Value())
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	require.Equal(t, "1", m.input.Value())
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	require.Empty(t, m.input.Value())
}

func TestProgressModelTracksEvents(t *testing.T) {
	events := make(chan calc.Event)
	model := NewProgressModel("batch", []string{"1 + 1", "1 / 0", "2 ^ 8"}, events).(*progressModel)

	model.Update(eventMsg{Line: 1, Status: calc.StatusWorking})
	model.Update(eventMsg{Line: 1, Status: calc.StatusDone})
	model.Update(eventMsg{Line: 2, Status: calc.StatusError, Err: errors.New("division by zero")})
	model.Update(eventMsg{Line: 3, Status: calc.StatusCached})
	// Late events for a finished line are ignored.
	model.Update(eventMsg{Line: 1, Status: calc.StatusWorking})
	model.Update(eventMsg{Line: 9, Status: calc.StatusDone})

	require.Equal(t, 3, model.finished)
	require.Equal(t, 1, model.failed)
	require.Equal(t, calc.StatusDone, model.items[0].status)

	_, cmd := model.Update(doneMsg{})
	require.NotNil(t, cmd)
	view := model.View()
	require.True(t, strings.HasPrefix(stripANSI(view), "done: batch (3/3, 1 failed)"), view)
	require.Contains(t, view, "division by zero")
}

func TestProgressVisibleWindow(t *testing.T) {
	exprs := make([]string, 30)
	for i := range exprs {
		exprs[i] = "1"
	}
	model := NewProgressModel("batch", exprs, nil).(*progressModel)
	model.Update(eventMsg{Line: 25, Status: calc.StatusWorking})
	vis := model.visible()
	require.Len(t, vis, maxVisible)
	require.Equal(t, 24, vis[0])
	require.Contains(t, model.View(), "... 18 more")
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "abc", truncate("abc", 5))
	require.Equal(t, "ab...", truncate("abcdefgh", 5))
	require.Equal(t, "１...", truncate("１２３４", 5))
	require.Equal(t, "ab", truncate("abcdef", 2))
}

func stripANSI(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEsc = true
		case inEsc && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'):
			inEsc = false
		case !inEsc:
			b.WriteRune(r)
		}
	}
	return b.String()
}
