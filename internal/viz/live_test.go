package viz

import (
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/oscillator/internal/config"
	d "github.com/san-kum/oscillator/internal/dimensioned"
	"github.com/san-kum/oscillator/internal/integrators"
	"github.com/san-kum/oscillator/internal/physics"
)

func newTestLive(t *testing.T) Live {
	t.Helper()
	p, ok := config.GetPreset("damped")
	if !ok {
		t.Fatal("missing damped preset")
	}
	osc, err := physics.NewOscillator(p)
	if err != nil {
		t.Fatal(err)
	}
	solver, err := integrators.New("RKDP45", osc)
	if err != nil {
		t.Fatal(err)
	}
	return NewLive("oscillator", osc, solver, 0.05, 0.01, ThemeOcean)
}

func update(t *testing.T, m Live, msg tea.Msg) (Live, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	live, ok := next.(Live)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return live, cmd
}

func TestLiveTickAdvances(t *testing.T) {
	m := newTestLive(t)
	x0 := m.model.StateVector()[0]

	m, cmd := update(t, m, TickMsg(time.Now()))
	m, _ = update(t, m, TickMsg(time.Now()))

	if cmd == nil {
		t.Error("tick should schedule the next frame")
	}
	if math.Abs(m.x-0.1) > 1e-12 {
		t.Errorf("expected x = 0.1, got %g", m.x)
	}
	if len(m.xs) != 2 || len(m.energy) != 2 {
		t.Errorf("expected 2 samples, got %d positions and %d energies", len(m.xs), len(m.energy))
	}
	if m.model.StateVector()[0] == x0 {
		t.Error("state did not move")
	}
}

func TestLivePauseAndReset(t *testing.T) {
	m := newTestLive(t)
	initial := m.model.StateVector().Clone()

	m, _ = update(t, m, TickMsg(time.Now()))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if m.running {
		t.Fatal("space should pause")
	}
	x := m.x
	m, _ = update(t, m, TickMsg(time.Now()))
	if m.x != x {
		t.Error("paused model advanced")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if m.x != 0 || len(m.xs) != 0 {
		t.Errorf("reset left x=%g with %d samples", m.x, len(m.xs))
	}
	for i, v := range m.model.StateVector() {
		if v != initial[i] {
			t.Errorf("state[%d]: expected %g after reset, got %g", i, initial[i], v)
		}
	}
}

func TestLiveQuitAndTheme(t *testing.T) {
	m := newTestLive(t)
	if Themes[m.theme].Name != "ocean" {
		t.Errorf("expected ocean theme, got %s", Themes[m.theme].Name)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})
	if Themes[m.theme].Name != "retro" {
		t.Errorf("expected retro theme after cycling, got %s", Themes[m.theme].Name)
	}

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestLiveView(t *testing.T) {
	m := newTestLive(t)
	m, _ = update(t, m, TickMsg(time.Now()))

	out := m.View()
	for _, want := range []string{"OSCILLATOR", "RUNNING", "RKDP45", "energy"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestLiveResetRestoresVelocityHistory(t *testing.T) {
	p, _ := config.GetPreset("anisotropic")
	p.Uold.Value = d.Vec3{0.3, -0.1, 0}
	osc, err := physics.NewOscillator(p)
	if err != nil {
		t.Fatal(err)
	}
	solver, err := integrators.New("RKCK45", osc)
	if err != nil {
		t.Fatal(err)
	}
	m := NewLive("oscillator", osc, solver, 0.05, 0.01, ThemeMinimal)

	m, _ = update(t, m, TickMsg(time.Now()))
	if osc.Uold().Value == p.Uold.Value {
		t.Fatal("tick should move Uold")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if m.err != nil {
		t.Fatal(m.err)
	}
	if osc.Uold().Value != p.Uold.Value {
		t.Errorf("Uold after reset = %v, want %v", osc.Uold().Value, p.Uold.Value)
	}
	if osc.U().Value != p.U.Value || osc.Xrel().Value != p.Xrel.Value {
		t.Errorf("state after reset = %v %v", osc.Xrel().Value, osc.U().Value)
	}
}
