package powertrain

import (
	"fmt"
	"math"
	"math/rand"
)

const (
	neutralFriction = 0.1
	idleRecovery    = 0.2
	kmhPerMS        = 3.6
)

// State is the mutable simulation state. It is owned by one Engine and only
// changes inside Step and the control setters.
type State struct {
	RPM          float64 `json:"rpm"`
	Throttle     float64 `json:"throttle"`
	Load         float64 `json:"load"`
	Brake        float64 `json:"brake"`
	Gear         int     `json:"gear"`
	Boost        float64 `json:"boost"`
	TargetBoost  float64 `json:"target_boost"`
	CoolantTemp  float64 `json:"coolant_temp"`
	LimpMode     bool    `json:"limp_mode"`
	Damaged      bool    `json:"damaged"`
	Speed        float64 `json:"speed"`
	FuelCut      bool    `json:"fuel_cut"`
	Backfire     bool    `json:"backfire"`
	PrevThrottle float64 `json:"prev_throttle"`
	Elapsed      float64 `json:"elapsed"`
}

// InitialState is the state a fresh engine starts in: idling in first gear
// with coolant at ambient temperature.
func InitialState(cfg Config) State {
	return State{
		RPM:         cfg.IdleRPM,
		Gear:        1,
		CoolantTemp: cfg.AmbientTemp,
	}
}

// Engine advances the powertrain model one fixed step at a time.
type Engine struct {
	cfg   Config
	curve TorqueCurve
	rng   RandomSource
	state State
}

type Option func(*Engine)

// WithSeed seeds a private math/rand source for the backfire detector.
func WithSeed(seed int64) Option {
	return func(e *Engine) { e.rng = rand.New(rand.NewSource(seed)) }
}

// WithRandom injects the random source used by the backfire detector.
func WithRandom(src RandomSource) Option {
	return func(e *Engine) { e.rng = src }
}

// WithState replaces the initial state.
func WithState(s State) Option {
	return func(e *Engine) { e.state = s }
}

// New validates cfg and builds an engine in its initial state. Without
// WithSeed or WithRandom the backfire source is seeded with 1.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	curve, err := NewTorqueCurve(cfg.TorqueCurve)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:   cfg.Clone(),
		curve: curve,
		state: InitialState(cfg),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(1))
	}
	if e.state.Gear < 0 || e.state.Gear >= len(e.cfg.GearRatios) {
		return nil, fmt.Errorf("powertrain: initial gear %d outside [0, %d]", e.state.Gear, len(e.cfg.GearRatios)-1)
	}
	return e, nil
}

// Config returns a copy of the active configuration.
func (e *Engine) Config() Config {
	return e.cfg.Clone()
}

// Reconfigure swaps the configuration between ticks. The state is kept; the
// gear is pulled back into range if the new gearbox is shorter.
func (e *Engine) Reconfigure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	curve, err := NewTorqueCurve(cfg.TorqueCurve)
	if err != nil {
		return err
	}
	e.cfg = cfg.Clone()
	e.curve = curve
	if e.state.Gear > len(e.cfg.GearRatios)-1 {
		e.state.Gear = len(e.cfg.GearRatios) - 1
	}
	return nil
}

func (e *Engine) TorqueCurve() TorqueCurve { return e.curve }

func (e *Engine) SetThrottle(v float64) { e.state.Throttle = unit(v) }
func (e *Engine) SetBrake(v float64)    { e.state.Brake = unit(v) }
func (e *Engine) SetLoad(v float64)     { e.state.Load = unit(v) }

func (e *Engine) GearUp() {
	if e.state.Gear < len(e.cfg.GearRatios)-1 {
		e.state.Gear++
	}
}

func (e *Engine) GearDown() {
	if e.state.Gear > 0 {
		e.state.Gear--
	}
}

// Shift applies n single-step gear changes, up for positive n.
func (e *Engine) Shift(n int) {
	for ; n > 0; n-- {
		e.GearUp()
	}
	for ; n < 0; n++ {
		e.GearDown()
	}
}

// Step advances the simulation by dt seconds and returns the resulting
// snapshot. The order of the sub-models is fixed: a coolant crossing seen at
// the end of this tick only limits throttle from the next tick on.
func (e *Engine) Step(dt float64) (Telemetry, error) {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return Telemetry{}, fmt.Errorf("%w: %g", ErrInvalidTimestep, dt)
	}
	s := &e.state
	cfg := &e.cfg

	s.FuelCut = RevLimiter{Redline: cfg.Redline}.Next(s.RPM, s.FuelCut)

	s.Backfire = BackfireDetector{Rand: e.rng}.Detect(s.RPM, s.PrevThrottle, s.Throttle)
	s.PrevThrottle = s.Throttle

	if s.Damaged {
		s.Throttle = math.Min(s.Throttle, DamagedThrottleLimit)
	}

	torque := FuelCutTorque
	if !s.FuelCut {
		torque = e.curve.TorqueAt(s.RPM) * s.Throttle * BoostMultiplier(s.Boost)
	}

	// uses the rpm from before this tick's drivetrain update
	s.Boost, s.TargetBoost = e.turbo().Advance(s.Boost, s.Throttle, s.RPM, dt)

	if s.Gear == 0 {
		s.RPM += (torque - s.RPM*neutralFriction) * dt / cfg.Inertia
	} else {
		s.Speed, s.RPM = e.drivetrain().Advance(s.Speed, s.RPM, torque, cfg.GearRatios[s.Gear], s.Load, s.Brake, dt)
	}

	if s.RPM < cfg.IdleRPM {
		s.RPM += (cfg.IdleRPM - s.RPM) * idleRecovery
	}

	thermal := e.thermal()
	s.CoolantTemp = thermal.Advance(s.CoolantTemp, torque, s.Throttle, dt)
	if thermal.Overheated(s.CoolantTemp) {
		s.Damaged = true
		s.LimpMode = true
	}

	s.Elapsed += dt
	return e.Snapshot(), nil
}

// Snapshot returns the telemetry for the last completed tick (or the initial
// state before the first one).
func (e *Engine) Snapshot() Telemetry {
	s := e.state
	return Telemetry{
		Time:        s.Elapsed,
		RPM:         s.RPM,
		Throttle:    s.Throttle,
		Gear:        s.Gear,
		Boost:       s.Boost,
		Torque:      e.curve.TorqueAt(s.RPM) * s.Throttle * BoostMultiplier(s.Boost),
		AFR:         EstimateAFR(s.Throttle, s.Boost, s.FuelCut),
		SpeedKMH:    s.Speed * kmhPerMS,
		CoolantTemp: s.CoolantTemp,
		LimpMode:    s.LimpMode,
		Damaged:     s.Damaged,
		Backfire:    s.Backfire,
		FuelCut:     s.FuelCut,
		Brake:       s.Brake > 0,
	}
}

func (e *Engine) turbo() TurboModel {
	return TurboModel{MaxBoost: e.cfg.MaxBoost, Redline: e.cfg.Redline}
}

func (e *Engine) thermal() ThermalModel {
	return ThermalModel{
		OverheatRate:      e.cfg.OverheatRate,
		CoolingEfficiency: e.cfg.CoolingEfficiency,
		AmbientTemp:       e.cfg.AmbientTemp,
		MaxCoolantTemp:    e.cfg.MaxCoolantTemp,
	}
}

func (e *Engine) drivetrain() Drivetrain {
	return Drivetrain{
		FinalDrive:      e.cfg.FinalDrive,
		WheelRadius:     e.cfg.WheelRadius,
		VehicleMass:     e.cfg.VehicleMass,
		DragCoefficient: e.cfg.DragCoefficient,
		FrontalArea:     e.cfg.FrontalArea,
		AirDensity:      e.cfg.AirDensity,
	}
}

// unit clamps v to [0, 1]; NaN maps to 0.
func unit(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
