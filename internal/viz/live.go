package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/oscillator/internal/dynamo"
	"github.com/san-kum/oscillator/internal/physics"
)

const (
	liveWidth       = 60
	liveHeight      = 20
	historyCapacity = 600
	frameRate       = 30
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// restorer is a model that can return to a snapshot, velocity history
// included.
type restorer interface {
	Properties() physics.Properties
	Restore(physics.Properties) error
}

// Live advances a model one output interval per frame and draws the
// displacement against velocity of its first axis.
type Live struct {
	name     string
	model    dynamo.Model
	solver   dynamo.Solver
	initial  dynamo.State
	snapshot *physics.Properties
	x        float64
	dx, dx0  float64
	interval float64
	running  bool
	theme    int
	styles   Styles
	xs, us   []float64
	energy   []float64
	err      error
}

func NewLive(name string, model dynamo.Model, solver dynamo.Solver, interval, dxEst float64, theme Theme) Live {
	themeIdx := 0
	for i, t := range Themes {
		if t.Name == theme.Name {
			themeIdx = i
		}
	}
	var snapshot *physics.Properties
	if r, ok := model.(restorer); ok {
		p := r.Properties()
		snapshot = &p
	}
	return Live{
		name:     name,
		snapshot: snapshot,
		model:    model,
		solver:   solver,
		initial:  model.StateVector().Clone(),
		dx:       dxEst,
		dx0:      dxEst,
		interval: interval,
		running:  true,
		theme:    themeIdx,
		styles:   NewStyles(Themes[themeIdx]),
		xs:       make([]float64, 0, historyCapacity),
		us:       make([]float64, 0, historyCapacity),
		energy:   make([]float64, 0, historyCapacity),
	}
}

func (m Live) Init() tea.Cmd {
	return tick()
}

func (m Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
			m.styles = NewStyles(Themes[m.theme])
		}
	case TickMsg:
		if m.running && m.err == nil {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

// step advances one interval and synchronises the model.
func (m *Live) step() {
	y := m.model.StateVector()
	dx, err := m.solver.Solve(m.x, m.x+m.interval, y, m.dx)
	if err != nil {
		m.err = err
		m.running = false
		return
	}
	m.dx = dx
	m.x += m.interval
	m.model.Update(m.interval)

	m.xs = appendCapped(m.xs, y[0])
	m.us = appendCapped(m.us, y[len(y)/2])
	if h, ok := m.model.(dynamo.Hamiltonian); ok {
		m.energy = appendCapped(m.energy, h.Energy(y))
	}
}

// reset returns to the starting state. Models without a snapshot start
// over with no velocity history.
func (m *Live) reset() {
	if r, ok := m.model.(restorer); ok && m.snapshot != nil {
		if err := r.Restore(*m.snapshot); err != nil {
			m.err = err
			m.running = false
			return
		}
	} else {
		copy(m.model.StateVector(), m.initial)
		m.model.Update(0)
	}
	m.x = 0
	m.dx = m.dx0
	m.err = nil
	m.xs = m.xs[:0]
	m.us = m.us[:0]
	m.energy = m.energy[:0]
}

func appendCapped(s []float64, v float64) []float64 {
	s = append(s, v)
	if len(s) > historyCapacity {
		s = s[1:]
	}
	return s
}

func (m Live) View() string {
	st := m.styles
	canvasView := lipgloss.NewStyle().Padding(1, 2).Render(PhasePortrait(m.xs, m.us, liveWidth, liveHeight))

	status := "RUNNING"
	switch {
	case m.err != nil:
		status = "FAILED: " + m.err.Error()
	case !m.running:
		status = "PAUSED"
	}

	y := m.model.StateVector()
	var s strings.Builder
	s.WriteString(st.Title.Render(strings.ToUpper(m.name)) + "\n")
	s.WriteString(st.Subtle.Render(status) + "\n\n")
	row := func(label, value string) {
		s.WriteString(st.Label.Render(fmt.Sprintf("%-10s", label)) + st.Value.Render(value) + "\n")
	}
	row("solver", m.solver.Name())
	row("x", fmt.Sprintf("%.3f", m.x))
	row("dx next", fmt.Sprintf("%.3g", m.dx))
	row("y0", fmt.Sprintf("%+.5f", y[0]))
	row("u0", fmt.Sprintf("%+.5f", y[len(y)/2]))
	if len(m.energy) > 0 {
		row("energy", fmt.Sprintf("%.5g", m.energy[len(m.energy)-1]))
		s.WriteString("\n" + st.Good.Render(SparklineChart(m.energy, 30)) + "\n")
	}
	s.WriteString(st.Subtle.Render("\n" + Separator(21) + "\nSP:Pause R:Reset\nT:Theme  Q:Quit"))

	statsView := lipgloss.NewStyle().Padding(1, 2).Width(40).Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}
