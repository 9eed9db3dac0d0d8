package powertrain

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Engine scenarios", func() {
	var cfg Config

	BeforeEach(func() {
		cfg = DefaultConfig()
	})

	newEngine := func(s State, opts ...Option) *Engine {
		e, err := New(cfg, append([]Option{WithState(s)}, opts...)...)
		Expect(err).NotTo(HaveOccurred())
		return e
	}

	step := func(e *Engine) Telemetry {
		tel, err := e.Step(tick)
		Expect(err).NotTo(HaveOccurred())
		return tel
	}

	Context("idling in neutral", func() {
		It("settles between the friction fixed point and idle", func() {
			s := InitialState(cfg)
			s.Gear = 0
			e := newEngine(s)

			// friction pulls rpm down each tick, the idle floor pulls 20% back
			decay := 1 - 0.1*tick/cfg.Inertia
			fixed := 0.2 * cfg.IdleRPM / (1 - 0.8*decay)

			var tel Telemetry
			for i := 0; i < 300; i++ {
				tel = step(e)
				Expect(tel.RPM).To(BeNumerically("<=", cfg.IdleRPM))
				Expect(tel.RPM).To(BeNumerically(">=", fixed-1e-9))
				Expect(tel.SpeedKMH).To(BeZero())
				Expect(tel.Boost).To(BeZero())
			}
			Expect(tel.RPM).To(BeNumerically("~", fixed, 0.5))
			Expect(fixed).To(BeNumerically("~", 675, 1e-6))
		})
	})

	Context("launching in first gear", func() {
		It("applies curve torque on the first tick and keeps accelerating", func() {
			e := newEngine(InitialState(cfg))
			e.SetThrottle(1.0)

			tel := step(e)

			torque := e.TorqueCurve().TorqueAt(900) * 1.0 * (1 + 0.8*0)
			wheel := torque * cfg.GearRatios[1] * cfg.FinalDrive / cfg.WheelRadius
			Expect(wheel).To(BeNumerically(">", 0))
			speed := (wheel - 9.81*0.015*cfg.VehicleMass) / cfg.VehicleMass * tick
			Expect(tel.SpeedKMH).To(BeNumerically("~", speed*3.6, 1e-9))
			Expect(tel.SpeedKMH).To(BeNumerically(">", 0))

			// turbo saw the pre-drivetrain 900 rpm
			target := 1.6 * (900.0 / 7500 * 1.5)
			Expect(tel.Boost).To(BeNumerically("~", target*tick*2*(1+900.0/7500), 1e-12))

			prev := tel
			for i := 0; i < 180; i++ {
				e.SetThrottle(1.0)
				tel = step(e)
				if !tel.FuelCut {
					Expect(tel.SpeedKMH).To(BeNumerically(">=", prev.SpeedKMH), "tick %d", i)
				}
				prev = tel
			}
		})
	})

	Context("overheating", func() {
		It("latches damage and limits throttle from the next tick", func() {
			s := InitialState(cfg)
			s.Gear = 0
			s.RPM = 5000
			s.Boost = cfg.MaxBoost
			s.CoolantTemp = cfg.MaxCoolantTemp - 0.5
			e := newEngine(s)

			e.SetThrottle(1.0)
			tel := step(e)
			Expect(tel.CoolantTemp).To(BeNumerically(">", cfg.MaxCoolantTemp))
			Expect(tel.Damaged).To(BeTrue())
			Expect(tel.LimpMode).To(BeTrue())
			Expect(tel.Throttle).To(Equal(1.0))

			for i := 0; i < 600; i++ {
				e.SetThrottle(1.0)
				tel = step(e)
				Expect(tel.Throttle).To(BeNumerically("<=", DamagedThrottleLimit))
				Expect(tel.Damaged).To(BeTrue())
				Expect(tel.LimpMode).To(BeTrue())
			}
		})
	})

	Context("lifting off at high rpm", func() {
		trial := func(seed int64, rpm, prev, cur float64) bool {
			s := InitialState(cfg)
			s.Gear = 0
			s.RPM = rpm
			s.PrevThrottle = prev
			s.Throttle = cur
			return step(newEngine(s, WithSeed(seed))).Backfire
		}

		It("backfires about 40% of the time when eligible", func() {
			const trials = 10000
			fired := 0
			for seed := int64(1); seed <= trials; seed++ {
				if trial(seed, 5000, 0.8, 0.2) {
					fired++
				}
			}
			Expect(float64(fired) / trials).To(BeNumerically("~", BackfireProbability, 0.02))
		})

		It("never backfires below the rpm threshold", func() {
			for seed := int64(1); seed <= 2000; seed++ {
				Expect(trial(seed, 4000, 1.0, 0.0)).To(BeFalse())
			}
		})

		It("clears the pulse on the following tick", func() {
			s := InitialState(cfg)
			s.Gear = 0
			s.RPM = 6000
			s.PrevThrottle = 1.0
			e := newEngine(s, WithRandom(&fixedRand{v: 0}))

			Expect(step(e).Backfire).To(BeTrue())
			Expect(step(e).Backfire).To(BeFalse())
		})
	})
})
