package recommend

import "jacket-survey/internal/domain"

type bmiStep struct {
	below float64
	size  domain.SizeCode
}

var bmiLadder = []bmiStep{
	{18.5, domain.SizeXS},
	{21, domain.SizeS},
	{24, domain.SizeM},
	{27, domain.SizeL},
	{30, domain.SizeXL},
	{33, domain.Size2XL},
	{36, domain.Size3XL},
	{39, domain.Size4XL},
	{42, domain.Size5XL},
}

// BMI is weight over height squared, height converted to metres.
func BMI(heightCm, weightKg float64) float64 {
	m := heightCm / 100
	return weightKg / (m * m)
}

// SizeForBMI maps a BMI onto the ascending threshold ladder.
func SizeForBMI(bmi float64) domain.SizeCode {
	for _, step := range bmiLadder {
		if bmi < step.below {
			return step.size
		}
	}
	return domain.Size6XL
}
