package member

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"jacket-survey/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// statusExpr mirrors domain.DeriveStatus so filters agree with scanned records.
const statusExpr = `CASE WHEN receive_status = 'RECEIVED' THEN 'RECEIVED'
     WHEN size_code IS NOT NULL THEN 'CONFIRMED'
     ELSE 'NOT_CONFIRMED' END`

const selectColumns = `member_code, full_name, display_name, phone, social_id, size_code, survey_date, survey_method,
       receive_status, receive_date, receiver_type, receiver_name, processed_by, remarks, updated_date, user_role`

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

func (r *postgresRepo) Upsert(ctx context.Context, rec domain.MemberRecord) error {
	if rec.MemberCode == nil || strings.TrimSpace(*rec.MemberCode) == "" {
		return fmt.Errorf("member code required: %w", domain.ErrInvalidArgument)
	}
	var size *string
	if rec.SizeCode != nil {
		s := string(*rec.SizeCode)
		size = &s
	}

	const q = `
INSERT INTO members (
    member_code, full_name, display_name, phone, social_id, size_code, survey_date, survey_method,
    receive_status, receive_date, receiver_type, receiver_name, processed_by, remarks, updated_date, user_role, synced_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, now())
ON CONFLICT (member_code) DO UPDATE
SET full_name = EXCLUDED.full_name,
    display_name = EXCLUDED.display_name,
    phone = EXCLUDED.phone,
    social_id = EXCLUDED.social_id,
    size_code = EXCLUDED.size_code,
    survey_date = EXCLUDED.survey_date,
    survey_method = EXCLUDED.survey_method,
    receive_status = EXCLUDED.receive_status,
    receive_date = EXCLUDED.receive_date,
    receiver_type = EXCLUDED.receiver_type,
    receiver_name = EXCLUDED.receiver_name,
    processed_by = EXCLUDED.processed_by,
    remarks = EXCLUDED.remarks,
    updated_date = EXCLUDED.updated_date,
    user_role = EXCLUDED.user_role,
    synced_at = now()
`
	_, err := r.pool.Exec(ctx, q,
		*rec.MemberCode,
		rec.FullName,
		rec.DisplayName,
		rec.Phone,
		rec.SocialID,
		size,
		rec.SurveyDate,
		rec.SurveyMethod,
		rec.ReceiveStatus,
		rec.ReceiveDate,
		rec.ReceiverType,
		rec.ReceiverName,
		rec.ProcessedBy,
		rec.Remarks,
		rec.UpdatedDate,
		rec.UserRole,
	)
	if err != nil {
		r.logger.Printf("member repo: upsert code=%s err=%v", *rec.MemberCode, err)
		return err
	}
	return nil
}

func (r *postgresRepo) GetByCode(ctx context.Context, code string) (*domain.MemberRecord, error) {
	q := `SELECT ` + selectColumns + ` FROM members WHERE member_code = $1 LIMIT 1`
	rec, err := scanMember(r.pool.QueryRow(ctx, q, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("member repo: get code=%s err=%v", code, err)
		return nil, err
	}
	return rec, nil
}

func (r *postgresRepo) List(ctx context.Context, f Filter) ([]domain.MemberRecord, int64, error) {
	where, args := buildWhere(f)

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM members`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)
	q := fmt.Sprintf(`SELECT %s FROM members%s ORDER BY member_code ASC LIMIT $%d OFFSET $%d`,
		selectColumns, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	result := []domain.MemberRecord{}
	for rows.Next() {
		rec, err := scanMember(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *postgresRepo) Summary(ctx context.Context) (*domain.Report, error) {
	const q = `
SELECT size_code,
       COUNT(*),
       COUNT(*) FILTER (WHERE receive_status = 'RECEIVED')
FROM members
WHERE size_code IS NOT NULL
GROUP BY size_code
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.SizeCode]domain.SizeSummary)
	for rows.Next() {
		var (
			raw  string
			summ domain.SizeSummary
		)
		if err := rows.Scan(&raw, &summ.Confirmed, &summ.Received); err != nil {
			return nil, err
		}
		code, ok := domain.ParseSizeCode(raw)
		if !ok {
			r.logger.Printf("member repo: summary skipping unknown size %q", raw)
			continue
		}
		prev := counts[code]
		prev.Size = code
		prev.Confirmed += summ.Confirmed
		prev.Received += summ.Received
		counts[code] = prev
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	report := &domain.Report{Sizes: make([]domain.SizeSummary, 0, len(domain.SizeCodes))}
	for _, code := range domain.SizeCodes {
		s := counts[code]
		s.Size = code
		report.Sizes = append(report.Sizes, s)
	}

	const totals = `
SELECT COUNT(*),
       COUNT(*) FILTER (WHERE ` + statusExpr + ` = 'NOT_CONFIRMED')
FROM members
`
	if err := r.pool.QueryRow(ctx, totals).Scan(&report.Total, &report.NotConfirmed); err != nil {
		return nil, err
	}
	return report, nil
}

func buildWhere(f Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.Status != "" {
		args = append(args, string(f.Status))
		conds = append(conds, fmt.Sprintf("(%s) = $%d", statusExpr, len(args)))
	}
	if f.Size != "" {
		args = append(args, string(f.Size))
		conds = append(conds, fmt.Sprintf("size_code = $%d", len(args)))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+s+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(member_code ILIKE $%d OR full_name ILIKE $%d OR display_name ILIKE $%d OR phone ILIKE $%d)", n, n, n, n))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanMember(row pgx.Row) (*domain.MemberRecord, error) {
	var (
		rec  domain.MemberRecord
		size *string
	)
	err := row.Scan(
		&rec.MemberCode,
		&rec.FullName,
		&rec.DisplayName,
		&rec.Phone,
		&rec.SocialID,
		&size,
		&rec.SurveyDate,
		&rec.SurveyMethod,
		&rec.ReceiveStatus,
		&rec.ReceiveDate,
		&rec.ReceiverType,
		&rec.ReceiverName,
		&rec.ProcessedBy,
		&rec.Remarks,
		&rec.UpdatedDate,
		&rec.UserRole,
	)
	if err != nil {
		return nil, err
	}
	if size != nil {
		if code, ok := domain.ParseSizeCode(*size); ok {
			rec.SizeCode = &code
		}
	}
	rec = rec.WithDerived()
	return &rec, nil
}
