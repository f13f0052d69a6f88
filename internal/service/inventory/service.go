package inventory

import (
	"context"
	"fmt"

	"jacket-survey/internal/domain"
)

type stockSource interface {
	GetInventory(ctx context.Context) ([]domain.InventoryItem, error)
}

// Stock is the inventory per size plus overall totals.
type Stock struct {
	Items       []domain.InventoryItem `json:"items"`
	Total       int64                  `json:"total"`
	Distributed int64                  `json:"distributed"`
	Remaining   int64                  `json:"remaining"`
}

type Service struct {
	source stockSource
}

func New(source stockSource) *Service {
	return &Service{source: source}
}

// Stock reads the current counts from the member service.
func (s *Service) Stock(ctx context.Context) (*Stock, error) {
	items, err := s.source.GetInventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("get inventory: %w", err)
	}
	out := &Stock{Items: items}
	if out.Items == nil {
		out.Items = []domain.InventoryItem{}
	}
	for _, it := range out.Items {
		out.Total += it.Total
		out.Distributed += it.Distributed
		out.Remaining += it.Remaining
	}
	return out, nil
}
