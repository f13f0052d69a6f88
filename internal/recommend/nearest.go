package recommend

import (
	"math"

	"jacket-survey/internal/domain"
)

// Nearest is the older lookup: the first rule containing both measurements,
// otherwise the rule whose range midpoints are closest by summed distance.
func (c Chart) Nearest(heightCm, weightKg float64) (domain.SizeCode, bool) {
	for _, r := range c.Rules {
		if r.HeightCm.Contains(heightCm) && r.WeightKg.Contains(weightKg) {
			return r.Size, true
		}
	}

	bestDist := math.Inf(1)
	var best domain.SizeCode
	found := false
	for _, r := range c.Rules {
		d := math.Abs(heightCm-r.HeightCm.Center()) + math.Abs(weightKg-r.WeightKg.Center())
		if d < bestDist {
			bestDist = d
			best = r.Size
			found = true
		}
	}
	return best, found
}
