package viz

import (
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	. "github.com/onsi/gomega"
	"github.com/san-kum/revsim/internal/powertrain"
	"github.com/san-kum/revsim/internal/sim"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newModel(t *testing.T) *Model {
	t.Helper()
	m, err := NewModel(Options{Engine: powertrain.DefaultConfig()})
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	return m
}

func press(m *Model, keys ...string) {
	for _, k := range keys {
		m.Update(key(k))
	}
}

func TestFraction(t *testing.T) {
	tests := []struct {
		v, max, want float64
	}{
		{0, 100, 0},
		{50, 100, 0.5},
		{150, 100, 1},
		{-5, 100, 0},
		{1, 0, 1},
		{0, 0, 0},
		{math.NaN(), 100, 0},
	}
	for _, tt := range tests {
		if got := Fraction(tt.v, tt.max); math.Abs(got-tt.want) > 1e-6 {
			t.Errorf("Fraction(%v, %v) = %v, want %v", tt.v, tt.max, got, tt.want)
		}
	}
}

func TestRollingGraph_Autoscale(t *testing.T) {
	g := NewRollingGraph("rpm")
	if g.Max() != 1 {
		t.Fatalf("initial max = %v", g.Max())
	}

	g.Push(5000)
	if g.Max() != 5000 {
		t.Errorf("max after peak = %v, want 5000", g.Max())
	}

	// within 90% of max: no decay
	g.Push(4600)
	if g.Max() != 5000 {
		t.Errorf("max decayed while above 90%%: %v", g.Max())
	}

	g.Push(1000)
	if math.Abs(g.Max()-4950) > 1e-9 {
		t.Errorf("max = %v, want 4950 after one decay", g.Max())
	}

	for i := 0; i < 1000; i++ {
		g.Push(1000)
	}
	if g.Max() < 1000/0.9*0.99 || g.Max() > 1000/0.9 {
		t.Errorf("max = %v, want settled just under 1111", g.Max())
	}
	if g.Len() != GraphCapacity {
		t.Errorf("len = %d, want %d", g.Len(), GraphCapacity)
	}
	for _, f := range g.Normalized() {
		if f < 0 || f > 1 {
			t.Fatalf("normalized sample %v out of [0, 1]", f)
		}
	}
}

func TestRollingGraph_SmallValuesNeverDecayBelowOne(t *testing.T) {
	g := NewRollingGraph("boost")
	for i := 0; i < 50; i++ {
		g.Push(0.1)
	}
	if g.Max() != 1 {
		t.Errorf("max = %v, want 1", g.Max())
	}
	if g.Plot(40, 4) == "" {
		t.Error("empty plot")
	}
}

func TestModel_ThrottleAndLoadKeys(t *testing.T) {
	g := NewWithT(t)
	m := newModel(t)

	press(m, "up", "up", "up")
	g.Expect(m.Inputs().Throttle).To(BeNumerically("~", 0.3, 1e-9))

	for i := 0; i < 20; i++ {
		press(m, "up")
	}
	g.Expect(m.Inputs().Throttle).To(Equal(1.0))

	for i := 0; i < 20; i++ {
		press(m, "down")
	}
	g.Expect(m.Inputs().Throttle).To(Equal(0.0))

	press(m, "l", "l", "L")
	g.Expect(m.Inputs().Load).To(BeNumerically("~", 0.1, 1e-9))
}

func TestModel_GearKeys(t *testing.T) {
	m := newModel(t)
	m.Update(TickMsg{})

	press(m, "e", "e")
	m.Update(TickMsg{})
	if got := m.Telemetry().Gear; got != 3 {
		t.Errorf("gear = %d, want 3", got)
	}

	press(m, "q", "q", "q", "q")
	m.Update(TickMsg{})
	if got := m.Telemetry().GearLabel(); got != "N" {
		t.Errorf("gear = %s, want N", got)
	}
}

func TestModel_BrakeToggle(t *testing.T) {
	m := newModel(t)

	press(m, " ")
	m.Update(TickMsg{})
	if !m.BrakeHeld() || !m.Telemetry().Brake {
		t.Error("brake not applied after space")
	}
	if !strings.Contains(m.View(), "BRAKE") {
		t.Error("BRAKE lamp missing")
	}

	press(m, " ")
	m.Update(TickMsg{})
	if m.Telemetry().Brake {
		t.Error("brake still applied after second space")
	}
}

func TestModel_RedlineBounds(t *testing.T) {
	m := newModel(t)

	press(m, "]")
	if m.Redline() != powertrain.DefaultRedline+100 {
		t.Errorf("redline = %v", m.Redline())
	}
	for i := 0; i < 100; i++ {
		press(m, "]")
	}
	if m.Redline() != MaxRedline {
		t.Errorf("redline = %v, want %v", m.Redline(), MaxRedline)
	}
	for i := 0; i < 100; i++ {
		press(m, "[")
	}
	if m.Redline() != MinRedline {
		t.Errorf("redline = %v, want %v", m.Redline(), MinRedline)
	}
}

func TestModel_ResetKeepsRedline(t *testing.T) {
	m := newModel(t)
	press(m, "[", "up", "up", "up", "up", "up")
	for i := 0; i < 120; i++ {
		m.Update(TickMsg{})
	}
	if m.Telemetry().Time == 0 || m.Graph().Len() == 0 {
		t.Fatal("ticks did not advance the engine")
	}

	press(m, "r")
	tel := m.Telemetry()
	if tel.Time != 0 || tel.RPM != powertrain.DefaultIdleRPM || tel.Gear != 1 {
		t.Errorf("after reset: %+v", tel)
	}
	if m.Graph().Len() != 0 {
		t.Error("graph not cleared")
	}
	if m.Redline() != powertrain.DefaultRedline-100 {
		t.Errorf("redline = %v, want kept", m.Redline())
	}
}

func TestModel_QuitKeys(t *testing.T) {
	m := newModel(t)
	for _, k := range []tea.KeyMsg{key("esc"), {Type: tea.KeyCtrlC}} {
		_, cmd := m.Update(k)
		if cmd == nil {
			t.Fatalf("%s: no command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s did not quit", k)
		}
	}
	// q shifts down rather than quitting
	if _, cmd := m.Update(key("q")); cmd != nil {
		t.Error("q returned a command")
	}
}

type recorder struct {
	steps  int
	rpm    float64
	limit  float64
	inputs sim.Inputs
}

func (r *recorder) OnStep(tel powertrain.Telemetry, u sim.Inputs) {
	r.steps++
	r.inputs = u
}

func (r *recorder) Update(rpm, redline float64) {
	r.rpm, r.limit = rpm, redline
}

func TestModel_FeedsObserversAndSound(t *testing.T) {
	rec := &recorder{}
	m, err := NewModel(Options{
		Engine:    powertrain.DefaultConfig(),
		Observers: []sim.Observer{rec},
		Sound:     rec,
	})
	if err != nil {
		t.Fatal(err)
	}

	press(m, "up")
	for i := 0; i < 10; i++ {
		m.Update(TickMsg{})
	}
	if rec.steps != 10 {
		t.Errorf("observer saw %d steps, want 10", rec.steps)
	}
	if rec.inputs.Throttle != 0.1 {
		t.Errorf("observer inputs = %+v", rec.inputs)
	}
	if rec.rpm != m.Telemetry().RPM || rec.limit != powertrain.DefaultRedline {
		t.Errorf("sound got rpm=%v redline=%v", rec.rpm, rec.limit)
	}
}

func TestModel_ViewShowsHeaderAndLamps(t *testing.T) {
	cfg := powertrain.DefaultConfig()
	cfg.MaxCoolantTemp = 26
	m, err := NewModel(Options{Engine: cfg})
	if err != nil {
		t.Fatal(err)
	}

	view := m.View()
	for _, want := range []string{"GEAR 1", "AFR", "TEMP 25.0C", "LIVE RPM"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(view, "CHECK ENGINE") {
		t.Error("check engine lit on a cold engine")
	}

	for i := 0; i < 10; i++ {
		press(m, "up")
	}
	for i := 0; i < 120; i++ {
		m.Update(TickMsg{})
	}
	if !m.Telemetry().LimpMode {
		t.Fatal("engine never overheated")
	}
	if !strings.Contains(m.View(), "CHECK ENGINE") {
		t.Error("CHECK ENGINE lamp missing in limp mode")
	}
}

func TestModel_RejectsInvalidEngine(t *testing.T) {
	cfg := powertrain.DefaultConfig()
	cfg.Inertia = 0
	if _, err := NewModel(Options{Engine: cfg}); err == nil {
		t.Error("expected error")
	}
}

func TestCanvas_DialDrawsNeedle(t *testing.T) {
	empty := NewCanvas(8, 4).String()
	g := Gauge{Max: 100}
	dial := g.Dial(50, 8, 4)
	if dial == empty {
		t.Error("dial left the canvas blank")
	}
	if len(strings.Split(dial, "\n")) != 4 {
		t.Errorf("dial has wrong height:\n%s", dial)
	}
}

func TestNextThemeCycles(t *testing.T) {
	th := Themes[0]
	for range Themes {
		th = nextTheme(th)
	}
	if th.Name != Themes[0].Name {
		t.Errorf("cycled to %s", th.Name)
	}
	if GetTheme("nope").Name != ThemeNight.Name {
		t.Error("unknown theme did not fall back")
	}
}
