package recommendation

import (
	"context"

	"jacket-survey/internal/domain"
)

// Repository stores served size recommendations.
type Repository interface {
	Insert(ctx context.Context, rec domain.Recommendation) (*domain.Recommendation, error)
	ListByMember(ctx context.Context, memberCode string, limit int) ([]domain.Recommendation, error)
}
