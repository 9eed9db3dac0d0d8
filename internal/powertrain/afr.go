package powertrain

import "math"

const (
	StoichAFR  = 14.7
	MinAFR     = 10.0
	MaxAFR     = 22.0
	FuelCutAFR = 22.0
)

// EstimateAFR approximates the air-fuel ratio. Throttle and boost enrich the
// mixture; a fuel cut reads as fully lean regardless of either.
func EstimateAFR(throttle, boost float64, fuelCut bool) float64 {
	if fuelCut {
		return FuelCutAFR
	}
	afr := StoichAFR - 3.5*throttle
	if boost > 0.1 {
		afr -= 1.2 * boost
	}
	return math.Max(MinAFR, math.Min(MaxAFR, afr))
}
