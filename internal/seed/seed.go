package seed

import (
	"context"
	"fmt"

	"jacket-survey/internal/domain"
	"jacket-survey/internal/normalize"
	memberrepo "jacket-survey/internal/repository/member"

	"github.com/jackc/pgx/v5/pgxpool"
)

type memberWriter interface {
	Upsert(ctx context.Context, rec domain.MemberRecord) error
}

// demoMembers are shaped like member service rows so they pass through the
// same normalization as live data. They cover every status.
var demoMembers = []normalize.RawMember{
	{
		"MEMB_CODE":     "000101",
		"FULLNAME":      "Somchai Jaidee",
		"DISPLAYNAME":   "Somchai",
		"MEMB_MOBILE":   "0810000101",
		"SIZE_CODE":     "L",
		"SURVEY_DATE":   "/Date(1717200000000+0700)/",
		"SURVEY_METHOD": "ONLINE",
	},
	{
		"MEMB_CODE":      "000102",
		"FULLNAME":       "Malee Srisuk",
		"DISPLAYNAME":    "Malee",
		"MEMB_MOBILE":    "0810000102",
		"SIZE_CODE":      "S",
		"SURVEY_DATE":    "/Date(1717286400000+0700)/",
		"SURVEY_METHOD":  "MANUAL",
		"PROCESSED_BY":   "demo-staff",
		"RECEIVE_STATUS": "RECEIVED",
		"RECEIVE_DATE":   "/Date(1718064000000+0700)/",
		"RECEIVER_TYPE":  "SELF",
		"RECEIVER_NAME":  "Malee Srisuk",
	},
	{
		"MEMB_CODE":      "000103",
		"FULLNAME":       "Prasert Wongdee",
		"MEMB_MOBILE":    "0810000103",
		"SIZE_CODE":      "XXL",
		"SURVEY_METHOD":  "MANUAL",
		"PROCESSED_BY":   "demo-staff",
		"RECEIVE_STATUS": "RECEIVED",
		"RECEIVE_DATE":   "2024-06-12T09:30:00Z",
		"RECEIVER_TYPE":  "OTHER",
		"RECEIVER_NAME":  "Suda Wongdee",
		"REMARKS":        "collected by spouse",
	},
	{
		"MEMB_CODE":   "000104",
		"FULLNAME":    "Anong Kaewkla",
		"MEMB_MOBILE": "0810000104",
	},
	{
		"MEMB_CODE":   "000105",
		"FULLNAME":    "Wichai Thongdee",
		"SIZE_CODE":   "M",
		"SURVEY_DATE": "/Date(1717372800000+0700)/",
	},
}

// Apply upserts demo rows into the member mirror for manual testing. Running it
// again overwrites the same members.
func Apply(ctx context.Context, pool *pgxpool.Pool) (int, error) {
	return apply(ctx, memberrepo.NewPostgres(pool, nil))
}

func apply(ctx context.Context, w memberWriter) (int, error) {
	n := 0
	for _, raw := range demoMembers {
		rec := normalize.NormalizeMember(raw)
		if err := w.Upsert(ctx, *rec); err != nil {
			return n, fmt.Errorf("upsert member %s: %w", rec.Code(), err)
		}
		n++
	}
	return n, nil
}
