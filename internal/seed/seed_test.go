package seed

import (
	"context"
	"errors"
	"testing"

	"jacket-survey/internal/domain"
)

type stubWriter struct {
	items []domain.MemberRecord
	err   error
}

func (s *stubWriter) Upsert(_ context.Context, rec domain.MemberRecord) error {
	if s.err != nil {
		return s.err
	}
	s.items = append(s.items, rec)
	return nil
}

func TestApply_CoversEveryStatus(t *testing.T) {
	w := &stubWriter{}
	n, err := apply(context.Background(), w)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if n != len(demoMembers) || len(w.items) != n {
		t.Fatalf("expected %d members, got %d", len(demoMembers), len(w.items))
	}

	seen := map[domain.MemberStatus]int{}
	for _, rec := range w.items {
		if rec.Code() == "" {
			t.Fatalf("demo member without code: %+v", rec)
		}
		seen[rec.Status]++
	}
	for _, st := range []domain.MemberStatus{domain.StatusReceived, domain.StatusConfirmed, domain.StatusNotConfirmed} {
		if seen[st] == 0 {
			t.Fatalf("no demo member with status %s", st)
		}
	}
	if *w.items[2].SizeCode != domain.Size2XL {
		t.Fatalf("expected XXL alias to normalize to 2XL, got %s", *w.items[2].SizeCode)
	}
}

func TestApply_StopsOnError(t *testing.T) {
	n, err := apply(context.Background(), &stubWriter{err: errors.New("db down")})
	if err == nil || n != 0 {
		t.Fatalf("expected failure on first row, got n=%d err=%v", n, err)
	}
}
