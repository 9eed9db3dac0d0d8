package powertrain

const (
	BackfireMinRPM      = 4500.0
	BackfireLiftDelta   = 0.3
	BackfireProbability = 0.4
)

// RandomSource is the subset of *rand.Rand the backfire detector needs.
type RandomSource interface {
	Float64() float64
}

// BackfireDetector fires on a fast throttle lift at high rpm. It holds no
// state across ticks; only eligible ticks consume a random sample.
type BackfireDetector struct {
	Rand RandomSource
}

func (d BackfireDetector) Eligible(rpm, prevThrottle, throttle float64) bool {
	return rpm > BackfireMinRPM && prevThrottle-throttle > BackfireLiftDelta
}

func (d BackfireDetector) Detect(rpm, prevThrottle, throttle float64) bool {
	if !d.Eligible(rpm, prevThrottle, throttle) {
		return false
	}
	return d.Rand.Float64() < BackfireProbability
}
