package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ksnum/internal/calc"
)

// maxShown is the number of past entries rendered above the prompt.
const maxShown = 20

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	noteStyle   = lipgloss.NewStyle().Faint(true)
)

type replEntry struct {
	input  string
	output string
	err    bool
}

type replModel struct {
	ctx     context.Context
	opts    calc.Options
	input   textinput.Model
	entries []replEntry
	inputs  []string // submitted lines, for up/down recall
	cursor  int      // index into inputs while recalling; len(inputs) when not
	timings bool
	width   int
	quit    bool
}

// NewREPLModel returns an interactive prompt that evaluates each entered
// line with calc.Eval. Lines starting with ':' are commands; ":help"
// lists them.
func NewREPLModel(ctx context.Context, opts calc.Options, timings bool) tea.Model {
	return newREPL(ctx, opts, timings)
}

func newREPL(ctx context.Context, opts calc.Options, timings bool) *replModel {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render("ksnum> ")
	ti.Placeholder = "expression, or :help"
	ti.CharLimit = 4096
	ti.Focus()
	return &replModel{ctx: ctx, opts: opts, input: ti, timings: timings, width: 80}
}

func (m *replModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.input.Width = msg.Width - 10
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc:
			m.quit = true
			return m, tea.Quit
		case tea.KeyEnter:
			return m, m.submit()
		case tea.KeyUp:
			m.recall(-1)
			return m, nil
		case tea.KeyDown:
			m.recall(1)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *replModel) View() string {
	var b strings.Builder
	start := max(len(m.entries)-maxShown, 0)
	for _, e := range m.entries[start:] {
		if e.input != "" {
			b.WriteString(noteStyle.Render("> " + e.input))
			b.WriteString("\n")
		}
		style := valueStyle
		if e.err {
			style = errStyle
		}
		for _, line := range strings.Split(e.output, "\n") {
			b.WriteString("  ")
			b.WriteString(style.Render(truncate(line, m.width-2)))
			b.WriteString("\n")
		}
	}
	if m.quit {
		return b.String()
	}
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(noteStyle.Render(fmt.Sprintf("%s mode, %d digits, round %s", m.opts.Mode, m.opts.Precision, onOff(m.opts.Round))))
	b.WriteString("\n")
	return b.String()
}

func (m *replModel) submit() tea.Cmd {
	line := strings.TrimSpace(m.input.Value())
	m.input.Reset()
	if line == "" {
		return nil
	}
	m.inputs = append(m.inputs, line)
	m.cursor = len(m.inputs)

	if strings.HasPrefix(line, ":") {
		return m.command(line)
	}
	start := time.Now()
	v, err := calc.Eval(m.ctx, line, m.opts)
	if err != nil {
		m.entries = append(m.entries, replEntry{input: line, output: err.Error(), err: true})
		return nil
	}
	out := v.String()
	if m.timings {
		out += noteStyle.Render(fmt.Sprintf("  (%s)", time.Since(start).Round(time.Microsecond)))
	}
	m.entries = append(m.entries, replEntry{input: line, output: out})
	return nil
}

func (m *replModel) command(line string) tea.Cmd {
	fields := strings.Fields(line)
	note := func(format string, args ...any) tea.Cmd {
		m.entries = append(m.entries, replEntry{input: line, output: fmt.Sprintf(format, args...)})
		return nil
	}
	fail := func(format string, args ...any) tea.Cmd {
		m.entries = append(m.entries, replEntry{input: line, output: fmt.Sprintf(format, args...), err: true})
		return nil
	}

	switch fields[0] {
	case ":q", ":quit", ":exit":
		m.quit = true
		return tea.Quit
	case ":help":
		help := []string{
			":mode int|decimal   switch number type",
			":prec N             fractional digits of '/'",
			":round on|off       round half away from zero",
			":clear              forget the screen",
			":quit               leave",
		}
		return note("%s", strings.Join(append(help, calc.Functions()...), "\n"))
	case ":clear":
		m.entries = nil
		return nil
	case ":mode":
		if len(fields) != 2 {
			return fail("usage: :mode int|decimal")
		}
		mode, err := calc.ParseMode(fields[1])
		if err != nil {
			return fail("%v", err)
		}
		m.opts.Mode = mode
		return note("mode %s", mode)
	case ":prec":
		if len(fields) != 2 {
			return fail("usage: :prec N")
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 0 {
			return fail("precision must be a non-negative integer")
		}
		if err := calc.CheckPrecision(n); err != nil {
			return fail("%v", err)
		}
		m.opts.Precision = n
		return note("precision %d", n)
	case ":round":
		if len(fields) != 2 || (fields[1] != "on" && fields[1] != "off") {
			return fail("usage: :round on|off")
		}
		m.opts.Round = fields[1] == "on"
		return note("round %s", fields[1])
	default:
		return fail("unknown command %s (try :help)", fields[0])
	}
}

// recall moves through submitted lines; stepping past the newest clears
// the prompt.
func (m *replModel) recall(step int) {
	if len(m.inputs) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+step, 0), len(m.inputs))
	if m.cursor == len(m.inputs) {
		m.input.SetValue("")
		return
	}
	m.input.SetValue(m.inputs[m.cursor])
	m.input.CursorEnd()
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
