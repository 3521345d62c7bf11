package viz

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/ecasim/internal/automaton"
	"github.com/san-kum/ecasim/internal/experiment"
	"github.com/san-kum/ecasim/internal/render"
	"github.com/san-kum/ecasim/internal/sim"
)

const (
	defaultVisible  = 20
	scrollbackLimit = 400
)

type rowMsg automaton.Row

type doneMsg struct{}

// channelRenderer hands copies of each generation to the view. It gives up
// when ctx ends so a cancelled run can reach its next suspension.
type channelRenderer struct {
	ctx  context.Context
	rows chan<- automaton.Row
	pool *sim.RowPool
}

func (r *channelRenderer) Render(row automaton.Row) error {
	cp := r.pool.GetAndCopy(row)
	select {
	case r.rows <- cp:
	case <-r.ctx.Done():
		r.pool.Put(cp)
	}
	return nil
}

// Model contains the scrollback of a running simulation and UI context.
type Model struct {
	title      string
	subtitle   string
	iterations int

	cancel context.CancelFunc
	handle *sim.Handle
	rows   <-chan automaton.Row
	pool   *sim.RowPool

	history  []automaton.Row
	rendered int
	visible  int
	cols     int

	symbols  render.Symbols
	braille  bool
	themeIdx int

	done   bool
	result *sim.Result
	err    error
}

// NewModel starts exp as a live run in the background and returns the view
// that consumes it. The run stops when the view quits or ctx ends.
func NewModel(ctx context.Context, exp *experiment.Experiment, theme string) Model {
	cfg := exp.Config()
	ctx, cancel := context.WithCancel(ctx)

	rows := make(chan automaton.Row)
	pool := sim.NewRowPool(cfg.Width)
	r := &channelRenderer{ctx: ctx, rows: rows, pool: pool}

	sym, err := cfg.GetSymbols()
	if err != nil {
		sym = render.DefaultSymbols
	}

	themeIdx := 0
	for i, name := range ThemeNames() {
		if name == theme {
			themeIdx = i
		}
	}

	return Model{
		title:      exp.Table().String(),
		subtitle:   fmt.Sprintf("width %d  %s  seed %s", cfg.Width, exp.Simulator().Buffer().Boundary(), exp.Simulator().Buffer().SeedStrategy().Name()),
		iterations: cfg.Iterations,
		cancel:     cancel,
		handle:     exp.Simulator().Go(ctx, cfg.Iterations, r, exp.Pacing()),
		rows:       rows,
		pool:       pool,
		history:    make([]automaton.Row, 0, scrollbackLimit),
		visible:    defaultVisible,
		symbols:    sym,
		themeIdx:   themeIdx,
	}
}

func (m Model) Init() tea.Cmd {
	return m.waitForRow()
}

func (m Model) waitForRow() tea.Cmd {
	rows, done := m.rows, m.handle.Done()
	return func() tea.Msg {
		select {
		case r := <-rows:
			return rowMsg(r)
		case <-done:
			return doneMsg{}
		}
	}
}

// Update handles input events and incoming generations.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancel()
			return m, tea.Quit
		case "b":
			m.braille = !m.braille
		case "t":
			m.themeIdx = (m.themeIdx + 1) % len(Themes)
		}
	case tea.WindowSizeMsg:
		m.cols = msg.Width - 4
		m.visible = msg.Height - 8
		if m.visible < 1 {
			m.visible = 1
		}
	case rowMsg:
		m.push(automaton.Row(msg))
		return m, m.waitForRow()
	case doneMsg:
		m.done = true
		m.result, m.err = m.handle.Wait()
	}
	return m, nil
}

func (m *Model) push(row automaton.Row) {
	if len(m.history) == scrollbackLimit {
		m.pool.Put(m.history[0])
		copy(m.history, m.history[1:])
		m.history = m.history[:len(m.history)-1]
	}
	m.history = append(m.history, row)
	m.rendered++
}

// Wait blocks until the background run has stopped and returns its result.
func (m Model) Wait() (*sim.Result, error) {
	m.cancel()
	return m.handle.Wait()
}

func (m Model) theme() Theme { return Themes[m.themeIdx] }

func (m Model) View() string {
	st := m.theme().styles()

	var b strings.Builder
	b.WriteString(st.header.Render(m.title))
	b.WriteString("  ")
	b.WriteString(st.label.Render(m.subtitle))
	b.WriteString("\n")

	var body []string
	if m.braille {
		body = m.brailleLines(st)
	} else {
		body = m.symbolLines(st)
	}
	b.WriteString(st.frame.Render(strings.Join(body, "\n")))
	b.WriteString("\n")
	b.WriteString(m.status(st))
	b.WriteString("\n")
	b.WriteString(st.help.Render("q quit • b braille • t theme"))
	return b.String()
}

func (m Model) tail(n int) []automaton.Row {
	if n > len(m.history) {
		n = len(m.history)
	}
	return m.history[len(m.history)-n:]
}

func (m Model) clip(row automaton.Row) automaton.Row {
	if m.cols > 0 && len(row) > m.cols {
		return row[:m.cols]
	}
	return row
}

func (m Model) symbolLines(st styles) []string {
	rows := m.tail(m.visible)
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, m.styledRow(st, m.clip(row)))
	}
	if len(lines) == 0 {
		lines = append(lines, st.label.Render("waiting for generation 0"))
	}
	return lines
}

// styledRow renders runs of equal cells with one style call each.
func (m Model) styledRow(st styles, row automaton.Row) string {
	var b strings.Builder
	for i := 0; i < len(row); {
		j := i
		for j < len(row) && row[j] == row[i] {
			j++
		}
		run := strings.Repeat(string(m.symbols.For(row[i])), j-i)
		if row[i] != automaton.Dead {
			b.WriteString(st.alive.Render(run))
		} else {
			b.WriteString(st.dead.Render(run))
		}
		i = j
	}
	return b.String()
}

func (m Model) brailleLines(st styles) []string {
	rows := m.tail(m.visible * 4)
	cells := 0
	if len(rows) > 0 {
		cells = len(m.clip(rows[0]))
	}
	c := CanvasFor(cells, len(rows))
	for y, row := range rows {
		for x, cell := range m.clip(row) {
			if cell != automaton.Dead {
				c.Set(x, y)
			}
		}
	}
	lines := c.Lines()
	for i := range lines {
		lines[i] = st.alive.Render(lines[i])
	}
	if len(lines) == 0 {
		lines = append(lines, st.label.Render("waiting for generation 0"))
	}
	return lines
}

func (m Model) status(st styles) string {
	density := 0.0
	if n := len(m.history); n > 0 {
		density = m.history[n-1].Density()
	}

	state := "running"
	switch {
	case m.err != nil:
		state = "error: " + m.err.Error()
	case m.done && m.result != nil:
		state = m.result.Outcome.String()
	}

	parts := []string{
		st.label.Render("generation ") + st.value.Render(fmt.Sprintf("%d/%d", m.rendered, m.iterations)),
		st.label.Render("density ") + st.value.Render(fmt.Sprintf("%.3f", density)),
		st.label.Render("theme ") + st.value.Render(m.theme().Name),
		st.header.Render(state),
	}
	return strings.Join(parts, "   ")
}
