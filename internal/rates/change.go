package rates

import "github.com/shopspring/decimal"

var dec100 = decimal.NewFromInt(100)

// Change is the computed movement of one metal against its reference value.
type Change struct {
	Change    decimal.Decimal `json:"change"`
	Percent   decimal.Decimal `json:"percent"`
	Direction Direction       `json:"direction"`
}

// LastDifferent scans the ledger from most recent to oldest and returns the
// first value strictly unequal to current, skipping absent values. Nil means
// no baseline exists: consecutive identical readings never become a new
// reference point.
func LastDifferent(h *History, m Metal, current decimal.Decimal) *decimal.Decimal {
	for i := len(h.Data) - 1; i >= 0; i-- {
		v := h.Data[i].Price(m)
		if v.IsZero() {
			continue
		}
		if !v.Equal(current) {
			return &v
		}
	}
	return nil
}

// Detector computes per-metal changes against the last differing value.
type Detector struct {
	// CarryDirection keeps the previously stored direction when the diff is
	// zero instead of resetting it to Same.
	CarryDirection bool
}

// Change derives the signed movement of current against previous.
// lastDirection must be the most recent stored direction for the metal.
func (d Detector) Change(current decimal.Decimal, previous *decimal.Decimal, lastDirection Direction) Change {
	if previous == nil {
		return Change{Change: decimal.Zero, Percent: decimal.Zero, Direction: Same}
	}

	diff := current.Sub(*previous)

	if diff.IsZero() {
		dir := Same
		if d.CarryDirection {
			dir = lastDirection
		}
		return Change{Change: decimal.Zero, Percent: decimal.Zero, Direction: dir}
	}

	dir := Down
	if diff.Sign() > 0 {
		dir = Up
	}

	percent := decimal.Zero
	if !previous.IsZero() {
		percent = diff.Abs().Div(*previous).Mul(dec100).Round(2)
	}

	return Change{Change: diff.Abs(), Percent: percent, Direction: dir}
}
