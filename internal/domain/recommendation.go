package domain

import "time"

// RecommendationMethod records how a size was chosen.
type RecommendationMethod string

const (
	MethodTable   RecommendationMethod = "TABLE"
	MethodBMI     RecommendationMethod = "BMI"
	MethodNearest RecommendationMethod = "NEAREST"
)

// Recommendation is a served size suggestion, as kept in the recommendation log.
type Recommendation struct {
	ID         string               `json:"id"`
	MemberCode string               `json:"memberCode,omitempty"`
	HeightCm   float64              `json:"heightCm"`
	WeightKg   float64              `json:"weightKg"`
	Size       SizeCode             `json:"sizeCode"`
	Method     RecommendationMethod `json:"method"`
	Score      float64              `json:"score"`
	BMI        float64              `json:"bmi"`
	CreatedAt  time.Time            `json:"createdAt"`
}
