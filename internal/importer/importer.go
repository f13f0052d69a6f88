package importer

import (
	"context"
	"fmt"
	"io"
	"log"

	"jacket-survey/internal/domain"
	"jacket-survey/internal/normalize"
)

type MemberWriter interface {
	Upsert(ctx context.Context, rec domain.MemberRecord) error
}

// Result counts what a run did with the export.
type Result struct {
	Read     int
	Imported int
	Skipped  int
}

// JSONImporter loads a member service JSON export into the local mirror. The
// export may be a bare array or any of the service envelopes.
type JSONImporter struct {
	reader io.Reader
	repo   MemberWriter
	logger *log.Logger
}

func NewJSONImporter(r io.Reader, repo MemberWriter, logger *log.Logger) *JSONImporter {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &JSONImporter{reader: r, repo: repo, logger: logger}
}

// Run normalizes every record and upserts those carrying a member code.
func (i *JSONImporter) Run(ctx context.Context) (Result, error) {
	var res Result

	data, err := io.ReadAll(i.reader)
	if err != nil {
		return res, fmt.Errorf("read export: %w", err)
	}
	payload, err := normalize.Decode(data)
	if err != nil {
		return res, fmt.Errorf("decode export: %w", err)
	}
	if _, ok := payload.([]any); !ok {
		return res, fmt.Errorf("export is not a list of members: %w", domain.ErrInvalidArgument)
	}

	records := normalize.NormalizeMemberList(payload)
	res.Read = len(records)
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if rec.Code() == "" {
			res.Skipped++
			continue
		}
		if err := i.repo.Upsert(ctx, rec); err != nil {
			return res, fmt.Errorf("upsert member %s: %w", rec.Code(), err)
		}
		res.Imported++
	}
	if res.Skipped > 0 {
		i.logger.Printf("skipped %d record(s) without a member code", res.Skipped)
	}
	return res, nil
}
