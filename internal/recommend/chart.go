package recommend

import "jacket-survey/internal/domain"

// Range is a closed interval [Min, Max].
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies inside the range, bounds included.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Center is the midpoint of the range.
func (r Range) Center() float64 {
	return (r.Min + r.Max) / 2
}

// Width is Max - Min.
func (r Range) Width() float64 {
	return r.Max - r.Min
}

// Rule is the body range a size is meant for. Neighbouring rules overlap.
type Rule struct {
	Size     domain.SizeCode `json:"sizeCode"`
	HeightCm Range           `json:"heightCm"`
	WeightKg Range           `json:"weightKg"`
}

// Chart is an ordered rule table. Earlier rules win ties.
type Chart struct {
	Rules []Rule
}

// DefaultChart is the shipped size table, one rule per size in size order.
var DefaultChart = Chart{Rules: []Rule{
	{Size: domain.SizeXS, HeightCm: Range{145, 155}, WeightKg: Range{35, 48}},
	{Size: domain.SizeS, HeightCm: Range{150, 162}, WeightKg: Range{45, 57}},
	{Size: domain.SizeM, HeightCm: Range{160, 170}, WeightKg: Range{55, 70}},
	{Size: domain.SizeL, HeightCm: Range{165, 175}, WeightKg: Range{65, 80}},
	{Size: domain.SizeXL, HeightCm: Range{170, 180}, WeightKg: Range{75, 90}},
	{Size: domain.Size2XL, HeightCm: Range{172, 185}, WeightKg: Range{85, 100}},
	{Size: domain.Size3XL, HeightCm: Range{175, 190}, WeightKg: Range{95, 110}},
	{Size: domain.Size4XL, HeightCm: Range{178, 195}, WeightKg: Range{105, 120}},
	{Size: domain.Size5XL, HeightCm: Range{180, 200}, WeightKg: Range{115, 135}},
	{Size: domain.Size6XL, HeightCm: Range{182, 205}, WeightKg: Range{130, 160}},
}}
