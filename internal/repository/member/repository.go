package member

import (
	"context"

	"jacket-survey/internal/domain"
)

// Filter narrows mirror listings. Zero values mean "any".
type Filter struct {
	Status domain.MemberStatus
	Size   domain.SizeCode
	Search string
	Limit  int
	Offset int
}

// Repository keeps the local reporting mirror of member records. The member
// service stays authoritative; rows here are whatever was last read from it.
type Repository interface {
	Upsert(ctx context.Context, rec domain.MemberRecord) error
	GetByCode(ctx context.Context, code string) (*domain.MemberRecord, error)
	List(ctx context.Context, f Filter) ([]domain.MemberRecord, int64, error)
	Summary(ctx context.Context) (*domain.Report, error)
}
