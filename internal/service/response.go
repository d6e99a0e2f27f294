package service

import (
	"github.com/shopspring/decimal"

	"metal-rates/internal/rates"
)

// Snapshot status tags.
const (
	StatusLive  = "live"
	StatusStale = "stale"
)

// staleMessage annotates a response served from the cache.
const staleMessage = "Live source down, showing last update"

// Rate is one commodity block of the prices payload.
type Rate struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Price     decimal.Decimal  `json:"price"`
	Previous  *decimal.Decimal `json:"previous"`
	Change    decimal.Decimal  `json:"change"`
	Percent   decimal.Decimal  `json:"percent"`
	Direction rates.Direction  `json:"direction"`
}

// Response is the consumer-facing prices payload; the cached snapshot is the
// same document.
type Response struct {
	Source  string `json:"source"`
	Status  string `json:"status"`
	Date    string `json:"date"`
	Unit    string `json:"unit"`
	Rates   []Rate `json:"rates"`
	Message string `json:"message,omitempty"`
}

// HistoryResponse is the payload of the history endpoints.
type HistoryResponse struct {
	Unit string               `json:"unit"`
	Days int                  `json:"days"`
	Data []rates.HistoryEntry `json:"data"`
}

var metalTitles = map[rates.Metal]string{
	rates.Gold:   "छापावाल सुन",
	rates.Silver: "चाँदी",
}
