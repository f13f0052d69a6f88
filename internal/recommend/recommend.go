package recommend

import (
	"math"

	"jacket-survey/internal/domain"
)

// Scoring budget. The out-of-range decay differs between height (2 per cm) and
// weight (0.5 per kg); both are part of the established recommendation contract.
const (
	componentMax     = 50.0
	partialCredit    = 25.0
	heightDecay      = 2.0
	weightDecay      = 0.5
	bothInRangeBonus = 30.0
	minTableScore    = 20.0
)

// Result describes how a size was picked.
type Result struct {
	Size   domain.SizeCode             `json:"sizeCode"`
	Method domain.RecommendationMethod `json:"method"`
	Score  float64                     `json:"score"`
	BMI    float64                     `json:"bmi"`
}

// Size recommends a size from the default chart.
func Size(heightCm, weightKg float64) domain.SizeCode {
	return DefaultChart.Recommend(heightCm, weightKg).Size
}

// Recommend scores every rule and returns the best one, falling back to the
// BMI ladder when no rule reaches minTableScore. Inputs must be positive.
func (c Chart) Recommend(heightCm, weightKg float64) Result {
	bmi := BMI(heightCm, weightKg)

	best := -1.0
	var bestRule *Rule
	for i := range c.Rules {
		s := Score(c.Rules[i], heightCm, weightKg)
		if s > best {
			best = s
			bestRule = &c.Rules[i]
		}
	}

	if bestRule == nil || best < minTableScore {
		return Result{Size: SizeForBMI(bmi), Method: domain.MethodBMI, Score: math.Max(best, 0), BMI: bmi}
	}
	return Result{Size: bestRule.Size, Method: domain.MethodTable, Score: best, BMI: bmi}
}

// Score rates how well a body fits rule, from 0 to 130.
func Score(rule Rule, heightCm, weightKg float64) float64 {
	heightIn := rule.HeightCm.Contains(heightCm)
	weightIn := rule.WeightKg.Contains(weightKg)

	score := component(rule.HeightCm, heightCm, heightDecay) + component(rule.WeightKg, weightKg, weightDecay)
	if heightIn && weightIn {
		score += bothInRangeBonus
	}
	return score
}

func component(r Range, v, decay float64) float64 {
	dist := math.Abs(v - r.Center())
	if r.Contains(v) {
		w := r.Width()
		if w == 0 {
			return componentMax
		}
		return componentMax * (1 - dist/w)
	}
	return math.Max(0, partialCredit-decay*dist)
}
