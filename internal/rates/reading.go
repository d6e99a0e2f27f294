package rates

import "github.com/shopspring/decimal"

func init() {
	// Price documents and API payloads carry plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Metal identifies a tracked commodity.
type Metal string

const (
	Gold   Metal = "gold"
	Silver Metal = "silver"
)

// Direction labels a price trend relative to its last differing value.
type Direction string

const (
	Same Direction = "same"
	Up   Direction = "up"
	Down Direction = "down"
)

// Reading is a canonical price observation for one BS date.
type Reading struct {
	Date   string          `json:"date"`
	Gold   decimal.Decimal `json:"gold"`
	Silver decimal.Decimal `json:"silver"`
}

// Price returns the reading's value for the given metal.
func (r Reading) Price(m Metal) decimal.Decimal {
	if m == Silver {
		return r.Silver
	}
	return r.Gold
}

// HistoryEntry is a Reading plus the directions computed at ingestion time.
type HistoryEntry struct {
	Date            string          `json:"date"`
	Gold            decimal.Decimal `json:"gold"`
	Silver          decimal.Decimal `json:"silver"`
	GoldDirection   Direction       `json:"goldDirection"`
	SilverDirection Direction       `json:"silverDirection"`
}

// Price returns the entry's value for the given metal.
func (e HistoryEntry) Price(m Metal) decimal.Decimal {
	if m == Silver {
		return e.Silver
	}
	return e.Gold
}

// TrendOf returns the stored direction for the given metal.
func (e HistoryEntry) TrendOf(m Metal) Direction {
	if m == Silver {
		return e.SilverDirection
	}
	return e.GoldDirection
}
