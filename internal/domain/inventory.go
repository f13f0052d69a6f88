package domain

// InventoryItem is the stock position for a single size.
type InventoryItem struct {
	Size        SizeCode `json:"sizeCode"`
	Total       int64    `json:"total"`
	Distributed int64    `json:"distributed"`
	Remaining   int64    `json:"remaining"`
}

// SizeSummary counts mirrored members per confirmed size.
type SizeSummary struct {
	Size      SizeCode `json:"sizeCode"`
	Confirmed int64    `json:"confirmed"`
	Received  int64    `json:"received"`
}

// Report aggregates the local mirror for the distribution dashboard.
type Report struct {
	Sizes        []SizeSummary `json:"sizes"`
	NotConfirmed int64         `json:"notConfirmed"`
	Total        int64         `json:"total"`
}
