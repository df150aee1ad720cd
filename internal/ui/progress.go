package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"ksnum/internal/calc"
)

// maxVisible bounds the line list; older finished lines scroll away.
const maxVisible = 12

type progressModel struct {
	title    string
	events   <-chan calc.Event
	spinner  spinner.Model
	prog     progress.Model
	items    []lineItem
	finished int
	failed   int
	width    int
	done     bool
}

type lineItem struct {
	expr   string
	status calc.Status
	detail string
}

type eventMsg calc.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders batch progress.
// It quits when events is closed.
func NewProgressModel(title string, exprs []string, events <-chan calc.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]lineItem, len(exprs))
	for i, expr := range exprs {
		items[i] = lineItem{expr: expr, status: calc.StatusQueued}
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(calc.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	case progress.FrameMsg:
		pm, cmd := m.prog.Update(msg)
		m.prog = pm.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := fmt.Sprintf("%s (%d/%d", m.title, m.finished, len(m.items))
	if m.failed > 0 {
		header += fmt.Sprintf(", %d failed", m.failed)
	}
	header += ")"
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	statusWidth := 8
	exprWidth := max(m.width-statusWidth-8, 20)

	for _, i := range m.visible() {
		item := m.items[i]
		status := styleStatus(item.status).Render(fmt.Sprintf("%*s", statusWidth, item.status))
		line := fmt.Sprintf("  %s %4d %s", status, i+1, truncate(item.expr, exprWidth))
		if item.detail != "" {
			line += "  " + lipgloss.NewStyle().Faint(true).Render(truncate(item.detail, exprWidth/2))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if hidden := len(m.items) - len(m.visible()); hidden > 0 {
		fmt.Fprintf(&b, "  ... %d more\n", hidden)
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

// visible picks the lines worth showing: everything in flight or failed
// first, then the earliest of the rest, capped at maxVisible.
func (m *progressModel) visible() []int {
	if len(m.items) <= maxVisible {
		out := make([]int, len(m.items))
		for i := range out {
			out[i] = i
		}
		return out
	}
	out := make([]int, 0, maxVisible)
	for i, item := range m.items {
		if len(out) == maxVisible {
			return out
		}
		if item.status == calc.StatusWorking || item.status == calc.StatusError {
			out = append(out, i)
		}
	}
	for i, item := range m.items {
		if len(out) == maxVisible {
			break
		}
		if item.status == calc.StatusQueued {
			out = append(out, i)
		}
	}
	return out
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev calc.Event) tea.Cmd {
	idx := ev.Line - 1
	if idx < 0 || idx >= len(m.items) {
		return nil
	}
	item := &m.items[idx]
	if isFinal(item.status) {
		return nil
	}
	item.status = ev.Status
	if ev.Err != nil {
		item.detail = ev.Err.Error()
	}
	if !isFinal(ev.Status) {
		return nil
	}
	m.finished++
	if ev.Status == calc.StatusError {
		m.failed++
	}
	return m.prog.SetPercent(float64(m.finished) / float64(len(m.items)))
}

func isFinal(s calc.Status) bool {
	return s == calc.StatusDone || s == calc.StatusCached || s == calc.StatusError
}

func styleStatus(status calc.Status) lipgloss.Style {
	switch status {
	case calc.StatusDone:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case calc.StatusCached:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	case calc.StatusError:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case calc.StatusWorking:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
