package recommendation

import (
	"context"
	"io"
	"log"

	"jacket-survey/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Insert(ctx context.Context, rec domain.Recommendation) (*domain.Recommendation, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	var memberCode *string
	if rec.MemberCode != "" {
		memberCode = &rec.MemberCode
	}

	const q = `
INSERT INTO recommendation_logs (id, member_code, height_cm, weight_kg, size_code, method, score, bmi)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING created_at
`
	err := r.pool.QueryRow(ctx, q,
		rec.ID, memberCode, rec.HeightCm, rec.WeightKg, string(rec.Size), string(rec.Method), rec.Score, rec.BMI,
	).Scan(&rec.CreatedAt)
	if err != nil {
		r.logger.Printf("recommendation repo: insert id=%s err=%v", rec.ID, err)
		return nil, err
	}
	return &rec, nil
}

func (r *postgresRepo) ListByMember(ctx context.Context, memberCode string, limit int) ([]domain.Recommendation, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	const q = `
SELECT id::text, COALESCE(member_code, ''), height_cm, weight_kg, size_code, method, score, bmi, created_at
FROM recommendation_logs
WHERE member_code = $1
ORDER BY created_at DESC
LIMIT $2
`
	rows, err := r.pool.Query(ctx, q, memberCode, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Recommendation, error) {
		var (
			rec          domain.Recommendation
			size, method string
		)
		err := row.Scan(&rec.ID, &rec.MemberCode, &rec.HeightCm, &rec.WeightKg, &size, &method, &rec.Score, &rec.BMI, &rec.CreatedAt)
		rec.Size = domain.SizeCode(size)
		rec.Method = domain.RecommendationMethod(method)
		return rec, err
	})
}
