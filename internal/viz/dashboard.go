package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/revsim/internal/powertrain"
	"github.com/san-kum/revsim/internal/sim"
)

const (
	FrameRate    = 60
	inputStep    = 0.1
	redlineStep  = 100.0
	MinRedline   = 4000.0
	MaxRedline   = 9000.0
	speedGaugeKM = 240.0
	boostGauge   = 2.0
	redZone      = 0.95
)

type TickMsg time.Time

// Sound receives the engine state every frame.
type Sound interface {
	Update(rpm, redline float64)
}

// Options configures a dashboard session.
type Options struct {
	Engine    powertrain.Config
	Seed      int64
	Observers []sim.Observer
	Sound     Sound
	Theme     string
}

// Model is the live session: one engine stepped once per frame plus the
// driver controls held between frames.
type Model struct {
	opts   Options
	cfg    powertrain.Config
	eng    *powertrain.Engine
	tel    powertrain.Telemetry
	inputs sim.Inputs
	brake  bool
	graph  *RollingGraph
	theme  Theme
	err    error
}

// NewModel validates the engine config and builds a model idling in first
// gear.
func NewModel(opts Options) (*Model, error) {
	m := &Model{
		opts:  opts,
		cfg:   opts.Engine.Clone(),
		graph: NewRollingGraph("LIVE RPM"),
		theme: GetTheme(opts.Theme),
	}
	if err := m.reset(); err != nil {
		return nil, err
	}
	return m, nil
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/FrameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m *Model) Init() tea.Cmd { return tick() }

// Update handles input events and steps the engine.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c":
			return m, tea.Quit
		case "e":
			m.eng.GearUp()
		case "q":
			m.eng.GearDown()
		case "up":
			m.inputs.Throttle = math.Min(1, m.inputs.Throttle+inputStep)
		case "down":
			m.inputs.Throttle = math.Max(0, m.inputs.Throttle-inputStep)
		case "l":
			m.inputs.Load = math.Min(1, m.inputs.Load+inputStep)
		case "L":
			m.inputs.Load = math.Max(0, m.inputs.Load-inputStep)
		case " ":
			m.brake = !m.brake
		case "[":
			m.setRedline(m.cfg.Redline - redlineStep)
		case "]":
			m.setRedline(m.cfg.Redline + redlineStep)
		case "t":
			m.theme = nextTheme(m.theme)
		case "r":
			if err := m.reset(); err != nil {
				m.err = err
			}
		}
	case TickMsg:
		m.step(1.0 / FrameRate)
		return m, tick()
	}
	return m, nil
}

func (m *Model) step(dt float64) {
	m.inputs.Brake = 0
	if m.brake {
		m.inputs.Brake = 1
	}
	sim.Apply(m.eng, m.inputs)

	tel, err := m.eng.Step(dt)
	if err != nil {
		m.err = err
		return
	}
	m.tel = tel
	m.graph.Push(tel.RPM)
	for _, o := range m.opts.Observers {
		o.OnStep(tel, m.inputs)
	}
	if m.opts.Sound != nil {
		m.opts.Sound.Update(tel.RPM, m.cfg.Redline)
	}
}

func (m *Model) setRedline(v float64) {
	cfg := m.cfg.Clone()
	cfg.Redline = math.Max(MinRedline, math.Min(MaxRedline, v))
	if err := m.eng.Reconfigure(cfg); err != nil {
		m.err = err
		return
	}
	m.cfg = cfg
}

// reset swaps in a fresh engine with the current tuning. Driver controls
// are kept, matching a restart with the pedal still down.
func (m *Model) reset() error {
	eng, err := powertrain.New(m.cfg, powertrain.WithSeed(m.seed()))
	if err != nil {
		return err
	}
	m.eng = eng
	m.tel = eng.Snapshot()
	m.graph.Reset()
	m.err = nil
	return nil
}

func (m *Model) seed() int64 {
	if m.opts.Seed == 0 {
		return 1
	}
	return m.opts.Seed
}

func (m *Model) Telemetry() powertrain.Telemetry { return m.tel }
func (m *Model) Inputs() sim.Inputs             { return m.inputs }
func (m *Model) BrakeHeld() bool                { return m.brake }
func (m *Model) Redline() float64               { return m.cfg.Redline }
func (m *Model) Graph() *RollingGraph           { return m.graph }
func (m *Model) Theme() Theme                   { return m.theme }
func (m *Model) Err() error                     { return m.err }

// RPMHot reports whether the tachometer is drawn in the red zone.
func (m *Model) RPMHot() bool {
	return m.tel.RPM > m.cfg.Redline*redZone
}

func (m *Model) View() string {
	th := m.theme
	tel := m.tel

	var s strings.Builder
	s.WriteString(m.header())
	s.WriteString("\n\n")

	rpm := Gauge{Label: "RPM", Units: "rpm", Max: m.cfg.Redline}
	speed := Gauge{Label: "SPEED", Units: "km/h", Max: speedGaugeKM}
	boost := Gauge{Label: "BOOST", Units: "bar", Max: boostGauge}

	dialColor := th.Primary
	if m.RPMHot() || rpm.Hot(tel.RPM) {
		dialColor = th.Alert
	}
	dial := fg(dialColor).Render(rpm.Dial(tel.RPM, 16, 8))

	var gauges strings.Builder
	gauges.WriteString(rpm.Render(tel.RPM, th, th.Primary, m.RPMHot()) + "\n")
	gauges.WriteString(speed.Render(tel.SpeedKMH, th, th.Primary, false) + "\n")
	gauges.WriteString(boost.Render(tel.Boost, th, th.Accent, false) + "\n\n")
	gauges.WriteString(m.controls())
	gauges.WriteString("\n\n" + m.indicators())

	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		Panel("TACH", th.Primary, dial),
		" ",
		Panel("GAUGES", th.Primary, gauges.String()),
	))
	s.WriteString("\n")
	s.WriteString(Panel("TELEMETRY", th.Primary, fg(th.Primary).Render(m.graph.Plot(60, 6))))

	if m.err != nil {
		s.WriteString("\n" + bold(th.Alert).Render("error: "+m.err.Error()))
	}
	s.WriteString(helpStyle.Render("\n↑↓:Throttle E/Q:Gear Space:Brake l/L:Load [ ]:Redline T:Theme R:Reset Esc:Quit"))
	return s.String()
}

func (m *Model) header() string {
	th, tel := m.theme, m.tel
	tempColor := th.OK
	if tel.Damaged {
		tempColor = th.Alert
	}
	parts := []string{
		bold(th.Primary).Render("REVSIM"),
		bold(th.Accent).Render("GEAR " + tel.GearLabel()),
		fg(th.Text).Render(fmt.Sprintf("AFR %.1f", tel.AFR)),
		bold(tempColor).Render(fmt.Sprintf("TEMP %.1fC", tel.CoolantTemp)),
		fg(th.Muted).Render(fmt.Sprintf("t=%.1fs", tel.Time)),
	}
	return strings.Join(parts, "   ")
}

func (m *Model) controls() string {
	th := m.theme
	return labelStyle.Render("THROTTLE") + Bar(m.inputs.Throttle, 24, th.Primary) + fmt.Sprintf(" %.2f\n", m.inputs.Throttle) +
		labelStyle.Render("LOAD") + Bar(m.inputs.Load, 24, th.Primary) + fmt.Sprintf(" %.2f\n", m.inputs.Load) +
		labelStyle.Render("REDLINE") + Bar(Fraction(m.cfg.Redline-MinRedline, MaxRedline-MinRedline), 24, th.Accent) +
		fmt.Sprintf(" %.0f", m.cfg.Redline)
}

// indicators lists the warning lamps that are lit.
func (m *Model) indicators() string {
	th, tel := m.theme, m.tel
	var lamps []string
	if tel.LimpMode {
		lamps = append(lamps, bold(th.Alert).Render("CHECK ENGINE"))
	}
	if tel.Brake {
		lamps = append(lamps, bold(th.Alert).Render("BRAKE"))
	}
	if tel.Backfire {
		lamps = append(lamps, bold(th.Accent).Render("BACKFIRE"))
	}
	if tel.FuelCut {
		lamps = append(lamps, fg(th.Muted).Render("FUEL CUT"))
	}
	if len(lamps) == 0 {
		return fg(th.Muted).Render("-")
	}
	return strings.Join(lamps, "  ")
}

// Run starts the dashboard on the alternate screen and blocks until quit.
func Run(opts Options) error {
	m, err := NewModel(opts)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
