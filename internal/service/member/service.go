package member

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"sort"
	"strings"

	"jacket-survey/internal/domain"
	"jacket-survey/internal/metrics"
	memberrepo "jacket-survey/internal/repository/member"
	"jacket-survey/internal/validation"
)

// ErrMirrorDisabled is returned by reports when no local mirror is configured.
var ErrMirrorDisabled = errors.New("member mirror disabled")

const (
	defaultPageSize = 20
	maxPageSize     = 200
)

type memberSource interface {
	GetMember(ctx context.Context, code string) (*domain.MemberRecord, error)
	SearchMembers(ctx context.Context, keyword string) ([]domain.MemberRecord, error)
	SaveSize(ctx context.Context, code string, size domain.SizeCode, method, staff string) error
	ConfirmReceive(ctx context.Context, code string, p domain.Pickup, staff string) error
}

// Service runs member lookups and survey/pickup updates against the member
// service, copying what it reads into the optional local mirror.
type Service struct {
	source  memberSource
	mirror  memberrepo.Repository
	logger  *log.Logger
	metrics *metrics.Metrics
}

// New creates a Service. mirror may be nil.
func New(source memberSource, mirror memberrepo.Repository, logger *log.Logger, m *metrics.Metrics) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{source: source, mirror: mirror, logger: logger, metrics: m}
}

// SearchInput drives the member listing.
type SearchInput struct {
	Query    string
	Status   string
	Page     int
	PageSize int
}

// StatusCounts backs the dashboard stat cards.
type StatusCounts struct {
	Received     int `json:"received"`
	Confirmed    int `json:"confirmed"`
	NotConfirmed int `json:"notConfirmed"`
}

// Page is one page of members plus counts over the whole search result.
type Page struct {
	Items      []domain.MemberRecord `json:"items"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"pageSize"`
	Total      int                   `json:"total"`
	TotalPages int                   `json:"totalPages"`
	Counts     StatusCounts          `json:"counts"`
}

// SizeInput is a size confirmation.
type SizeInput struct {
	SizeCode     string `json:"sizeCode"`
	SurveyMethod string `json:"surveyMethod"`
}

// Lookup returns one member or domain.ErrNotFound.
func (s *Service) Lookup(ctx context.Context, code string) (*domain.MemberRecord, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("member code required: %w", domain.ErrInvalidArgument)
	}
	rec, err := s.source.GetMember(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("lookup member %s: %w", code, err)
	}
	if rec == nil {
		return nil, fmt.Errorf("member %s: %w", code, domain.ErrNotFound)
	}
	s.remember(ctx, *rec)
	return rec, nil
}

// Search lists members matching the query, ordered by member code.
func (s *Service) Search(ctx context.Context, in SearchInput) (*Page, error) {
	var status domain.MemberStatus
	if strings.TrimSpace(in.Status) != "" {
		st, ok := domain.ParseMemberStatus(in.Status)
		if !ok {
			return nil, fmt.Errorf("unknown status %q: %w", in.Status, domain.ErrInvalidArgument)
		}
		status = st
	}

	records, err := s.source.SearchMembers(ctx, strings.TrimSpace(in.Query))
	if err != nil {
		return nil, fmt.Errorf("search members: %w", err)
	}
	for _, rec := range records {
		s.remember(ctx, rec)
	}

	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].MemberCode, records[j].MemberCode
		if a == nil || b == nil {
			return a != nil
		}
		return *a < *b
	})

	var counts StatusCounts
	filtered := make([]domain.MemberRecord, 0, len(records))
	for _, rec := range records {
		switch rec.Status {
		case domain.StatusReceived:
			counts.Received++
		case domain.StatusConfirmed:
			counts.Confirmed++
		default:
			counts.NotConfirmed++
		}
		if status == "" || rec.Status == status {
			filtered = append(filtered, rec)
		}
	}

	return paginate(filtered, in.Page, in.PageSize, counts), nil
}

// RecordSize confirms a member's size. A member who already collected a jacket
// cannot change size.
func (s *Service) RecordSize(ctx context.Context, code string, in SizeInput, staff string) (*domain.MemberRecord, error) {
	size, ok := domain.ParseSizeCode(in.SizeCode)
	if !ok {
		return nil, fmt.Errorf("unknown size %q: %w", in.SizeCode, domain.ErrInvalidArgument)
	}
	method, err := surveyMethod(in.SurveyMethod, staff)
	if err != nil {
		return nil, err
	}

	current, err := s.Lookup(ctx, code)
	if err != nil {
		return nil, err
	}
	if current.HasReceived {
		return nil, fmt.Errorf("member %s already received a jacket: %w", current.Code(), domain.ErrConflict)
	}

	if err := s.source.SaveSize(ctx, current.Code(), size, method, staff); err != nil {
		return nil, fmt.Errorf("save size for %s: %w", current.Code(), err)
	}
	s.logger.Printf("member %s size set to %s via %s by %q", current.Code(), size, method, staff)
	return s.Lookup(ctx, current.Code())
}

// ConfirmPickup records that a jacket was handed out.
func (s *Service) ConfirmPickup(ctx context.Context, code string, p domain.Pickup, staff string) (*domain.MemberRecord, error) {
	p.ReceiverType = strings.ToUpper(strings.TrimSpace(p.ReceiverType))
	p.ReceiverName = strings.TrimSpace(p.ReceiverName)
	p.Remarks = strings.TrimSpace(p.Remarks)
	if err := validation.Struct(p); err != nil {
		return nil, err
	}

	current, err := s.Lookup(ctx, code)
	if err != nil {
		return nil, err
	}
	if current.HasReceived {
		return nil, fmt.Errorf("member %s already received a jacket: %w", current.Code(), domain.ErrConflict)
	}
	if current.SizeCode == nil {
		return nil, fmt.Errorf("member %s has no confirmed size: %w", current.Code(), domain.ErrInvalidArgument)
	}
	if p.ReceiverType == domain.ReceiverSelf && p.ReceiverName == "" && current.FullName != nil {
		p.ReceiverName = *current.FullName
	}

	if err := s.source.ConfirmReceive(ctx, current.Code(), p, staff); err != nil {
		return nil, fmt.Errorf("confirm pickup for %s: %w", current.Code(), err)
	}
	s.logger.Printf("member %s collected %s (%s) by %q", current.Code(), *current.SizeCode, p.ReceiverType, staff)
	return s.Lookup(ctx, current.Code())
}

// Report summarises the local mirror per size.
func (s *Service) Report(ctx context.Context) (*domain.Report, error) {
	if s.mirror == nil {
		return nil, ErrMirrorDisabled
	}
	return s.mirror.Summary(ctx)
}

// MirrorInput filters the local mirror listing.
type MirrorInput struct {
	Query    string
	Status   string
	Size     string
	Page     int
	PageSize int
}

// MirrorPage is one page of mirrored members.
type MirrorPage struct {
	Items      []domain.MemberRecord `json:"items"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"pageSize"`
	Total      int64                 `json:"total"`
	TotalPages int64                 `json:"totalPages"`
}

// Mirrored lists members from the local mirror without calling the member service.
func (s *Service) Mirrored(ctx context.Context, in MirrorInput) (*MirrorPage, error) {
	if s.mirror == nil {
		return nil, ErrMirrorDisabled
	}
	f := memberrepo.Filter{Search: strings.TrimSpace(in.Query)}
	if strings.TrimSpace(in.Status) != "" {
		st, ok := domain.ParseMemberStatus(in.Status)
		if !ok {
			return nil, fmt.Errorf("unknown status %q: %w", in.Status, domain.ErrInvalidArgument)
		}
		f.Status = st
	}
	if strings.TrimSpace(in.Size) != "" {
		size, ok := domain.ParseSizeCode(in.Size)
		if !ok {
			return nil, fmt.Errorf("unknown size %q: %w", in.Size, domain.ErrInvalidArgument)
		}
		f.Size = size
	}

	size := in.PageSize
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	page := in.Page
	if page <= 0 {
		page = 1
	}
	if page-1 > math.MaxInt32/size {
		return nil, fmt.Errorf("page %d out of range: %w", in.Page, domain.ErrInvalidArgument)
	}
	f.Limit = size
	f.Offset = (page - 1) * size

	items, total, err := s.mirror.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list mirrored members: %w", err)
	}
	return &MirrorPage{
		Items:      items,
		Page:       page,
		PageSize:   size,
		Total:      total,
		TotalPages: (total + int64(size) - 1) / int64(size),
	}, nil
}

// MirroredMember returns the last copy of a member seen by this service.
func (s *Service) MirroredMember(ctx context.Context, code string) (*domain.MemberRecord, error) {
	if s.mirror == nil {
		return nil, ErrMirrorDisabled
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("member code required: %w", domain.ErrInvalidArgument)
	}
	rec, err := s.mirror.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("mirrored member %s: %w", code, err)
	}
	return rec, nil
}

func (s *Service) remember(ctx context.Context, rec domain.MemberRecord) {
	if s.mirror == nil || rec.MemberCode == nil {
		return
	}
	if err := s.mirror.Upsert(ctx, rec); err != nil {
		s.metrics.MirrorFailure()
		s.logger.Printf("mirror member %s: %v", rec.Code(), err)
	}
}

func surveyMethod(method, staff string) (string, error) {
	m := strings.ToUpper(strings.TrimSpace(method))
	switch m {
	case "":
		if strings.TrimSpace(staff) != "" {
			return domain.SurveyMethodManual, nil
		}
		return domain.SurveyMethodOnline, nil
	case domain.SurveyMethodOnline, domain.SurveyMethodManual:
		return m, nil
	}
	return "", fmt.Errorf("unknown survey method %q: %w", method, domain.ErrInvalidArgument)
}

func paginate(items []domain.MemberRecord, page, size int, counts StatusCounts) *Page {
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	if page <= 0 {
		page = 1
	}
	total := len(items)
	totalPages := (total + size - 1) / size

	// compare before multiplying so huge page numbers cannot overflow
	start := total
	if page <= totalPages {
		start = (page - 1) * size
	}
	end := start + size
	if end > total {
		end = total
	}
	return &Page{
		Items:      items[start:end],
		Page:       page,
		PageSize:   size,
		Total:      total,
		TotalPages: totalPages,
		Counts:     counts,
	}
}
