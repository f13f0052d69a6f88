package normalize

import (
	"sort"

	"jacket-survey/internal/domain"
)

// NormalizeInventory converts raw stock rows into one item per known size, in
// size order. Rows for unknown sizes are ignored and duplicate sizes are summed.
func NormalizeInventory(raw any) []domain.InventoryItem {
	rows, ok := raw.([]any)
	if !ok {
		return []domain.InventoryItem{}
	}

	bySize := make(map[domain.SizeCode]*domain.InventoryItem)
	for _, row := range rows {
		m, ok := row.(map[string]any)
		if !ok {
			continue
		}
		size := sizeCode(pick(m, KeySizeCode, "sizeCode"))
		if size == nil {
			continue
		}
		total, _ := integer(pick(m, "TOTAL_QTY", "QTY", "totalQty", "total"))
		distributed, _ := integer(pick(m, "RECEIVED_QTY", "DISTRIBUTED_QTY", "receivedQty", "distributed"))

		item, ok := bySize[*size]
		if !ok {
			item = &domain.InventoryItem{Size: *size}
			bySize[*size] = item
		}
		item.Total += total
		item.Distributed += distributed
	}

	out := make([]domain.InventoryItem, 0, len(bySize))
	for _, item := range bySize {
		item.Remaining = item.Total - item.Distributed
		if item.Remaining < 0 {
			item.Remaining = 0
		}
		out = append(out, *item)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Size.Index() < out[j].Size.Index()
	})
	return out
}
