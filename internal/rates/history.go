package rates

// History is the bounded, date-deduplicated rolling ledger of accepted readings.
// Entries are chronological; insertion order is chronological order.
type History struct {
	Unit string         `json:"unit"`
	Data []HistoryEntry `json:"data"`
}

// NewHistory returns an empty ledger quoting the given unit.
func NewHistory(unit string) *History {
	return &History{Unit: unit, Data: []HistoryEntry{}}
}

// Last returns the most recent entry, or nil when the ledger is empty.
func (h *History) Last() *HistoryEntry {
	if len(h.Data) == 0 {
		return nil
	}
	return &h.Data[len(h.Data)-1]
}

// LastN returns the most recent n entries in chronological order.
func (h *History) LastN(n int) []HistoryEntry {
	if n <= 0 || len(h.Data) == 0 {
		return []HistoryEntry{}
	}
	if n > len(h.Data) {
		n = len(h.Data)
	}
	out := make([]HistoryEntry, n)
	copy(out, h.Data[len(h.Data)-n:])
	return out
}

// LastDirection returns the most recent stored direction for the metal,
// or Same when the ledger is empty.
func (h *History) LastDirection(m Metal) Direction {
	last := h.Last()
	if last == nil {
		return Same
	}
	return last.TrendOf(m)
}

// HasDate reports whether an entry for the given date exists.
func (h *History) HasDate(date string) bool {
	for _, e := range h.Data {
		if e.Date == date {
			return true
		}
	}
	return false
}

// Append applies the conditional-write rule and returns whether the ledger
// changed. The reading is recorded only when its date is new or either price
// differs from the most recent entry; a same-date predecessor is replaced
// rather than duplicated, and the ledger is truncated to maxEntries keeping
// the most recent.
func (h *History) Append(r Reading, goldDir, silverDir Direction, maxEntries int) bool {
	last := h.Last()
	if h.HasDate(r.Date) && last != nil && last.Gold.Equal(r.Gold) && last.Silver.Equal(r.Silver) {
		return false
	}

	kept := h.Data[:0]
	for _, e := range h.Data {
		if e.Date != r.Date {
			kept = append(kept, e)
		}
	}
	h.Data = kept

	h.Data = append(h.Data, HistoryEntry{
		Date:            r.Date,
		Gold:            r.Gold,
		Silver:          r.Silver,
		GoldDirection:   goldDir,
		SilverDirection: silverDir,
	})

	if maxEntries > 0 && len(h.Data) > maxEntries {
		h.Data = append([]HistoryEntry(nil), h.Data[len(h.Data)-maxEntries:]...)
	}

	return true
}
