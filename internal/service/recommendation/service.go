package recommendation

import (
	"context"
	"fmt"
	"io"
	"log"
	"math"
	"strings"
	"time"

	"jacket-survey/internal/domain"
	"jacket-survey/internal/metrics"
	"jacket-survey/internal/recommend"
	recorepo "jacket-survey/internal/repository/recommendation"
	"jacket-survey/internal/validation"
)

const (
	ModeScored  = "scored"
	ModeNearest = "nearest"

	historyLimit = 50
)

// Input is a recommendation request.
type Input struct {
	HeightCm   float64 `json:"heightCm" validate:"gt=0"`
	WeightKg   float64 `json:"weightKg" validate:"gt=0"`
	MemberCode string  `json:"memberCode" validate:"max=50"`
	Mode       string  `json:"mode" validate:"omitempty,oneof=scored nearest"`
}

// Output is a served recommendation.
type Output struct {
	ID          string                      `json:"id,omitempty"`
	Size        domain.SizeCode             `json:"sizeCode"`
	Method      domain.RecommendationMethod `json:"method"`
	Score       float64                     `json:"score"`
	BMI         float64                     `json:"bmi"`
	Measurement domain.Measurement          `json:"measurement"`
}

type Service struct {
	chart   recommend.Chart
	history recorepo.Repository
	logger  *log.Logger
	metrics *metrics.Metrics
}

// New creates a Service over the default chart. repo may be nil, in which case
// nothing is logged.
func New(repo recorepo.Repository, logger *log.Logger, m *metrics.Metrics) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{chart: recommend.DefaultChart, history: repo, logger: logger, metrics: m}
}

// Chart returns the rules recommendations are made from.
func (s *Service) Chart() recommend.Chart {
	return s.chart
}

func (s *Service) Recommend(ctx context.Context, in Input) (*Output, error) {
	in.Mode = strings.ToLower(strings.TrimSpace(in.Mode))
	in.MemberCode = strings.TrimSpace(in.MemberCode)
	if !finite(in.HeightCm) || !finite(in.WeightKg) {
		return nil, fmt.Errorf("height and weight must be finite: %w", domain.ErrInvalidArgument)
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	var out Output
	if in.Mode == ModeNearest {
		size, ok := s.chart.Nearest(in.HeightCm, in.WeightKg)
		if !ok {
			return nil, fmt.Errorf("empty size chart: %w", domain.ErrNotFound)
		}
		out = Output{Size: size, Method: domain.MethodNearest, BMI: recommend.BMI(in.HeightCm, in.WeightKg)}
		for _, r := range s.chart.Rules {
			if r.Size == size {
				out.Score = recommend.Score(r, in.HeightCm, in.WeightKg)
				break
			}
		}
	} else {
		res := s.chart.Recommend(in.HeightCm, in.WeightKg)
		out = Output{Size: res.Size, Method: res.Method, Score: res.Score, BMI: res.BMI}
	}
	out.Score = round(out.Score)
	out.BMI = round(out.BMI)
	out.Measurement, _ = out.Size.Measurement()

	s.metrics.ObserveRecommendation(string(out.Size), string(out.Method))

	if s.history != nil {
		saved, err := s.history.Insert(ctx, domain.Recommendation{
			MemberCode: in.MemberCode,
			HeightCm:   in.HeightCm,
			WeightKg:   in.WeightKg,
			Size:       out.Size,
			Method:     out.Method,
			Score:      out.Score,
			BMI:        out.BMI,
			CreatedAt:  time.Now().UTC(),
		})
		if err != nil {
			s.logger.Printf("log recommendation: %v", err)
		} else {
			out.ID = saved.ID
		}
	}
	return &out, nil
}

// History lists the recommendations served for a member, newest first.
func (s *Service) History(ctx context.Context, memberCode string) ([]domain.Recommendation, error) {
	memberCode = strings.TrimSpace(memberCode)
	if memberCode == "" {
		return nil, fmt.Errorf("member code required: %w", domain.ErrInvalidArgument)
	}
	if s.history == nil {
		return []domain.Recommendation{}, nil
	}
	items, err := s.history.ListByMember(ctx, memberCode, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("list recommendations for %s: %w", memberCode, err)
	}
	return items, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func round(v float64) float64 {
	return math.Round(v*100) / 100
}
