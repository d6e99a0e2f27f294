package rates

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
)

func reading(date string, gold, silver int64) Reading {
	return Reading{Date: date, Gold: decimal.NewFromInt(gold), Silver: decimal.NewFromInt(silver)}
}

func TestAppendFirstEntry(t *testing.T) {
	h := NewHistory("tola")

	if !h.Append(reading("2081-01-01", 100000, 1200), Same, Same, 60) {
		t.Fatal("first append should change the ledger")
	}
	if len(h.Data) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(h.Data))
	}
	if h.Data[0].GoldDirection != Same || h.Data[0].SilverDirection != Same {
		t.Fatalf("first entry directions should be same, got %+v", h.Data[0])
	}
}

func TestAppendSameDateReplaces(t *testing.T) {
	h := NewHistory("tola")
	h.Append(reading("2081-01-01", 100000, 1200), Same, Same, 60)

	if !h.Append(reading("2081-01-01", 101000, 1200), Up, Same, 60) {
		t.Fatal("changed price on the same date should be recorded")
	}
	if len(h.Data) != 1 {
		t.Fatalf("same-date re-ingest must replace, got %d entries", len(h.Data))
	}
	if !h.Data[0].Gold.Equal(decimal.NewFromInt(101000)) {
		t.Fatalf("entry should hold the corrected price, got %s", h.Data[0].Gold)
	}
}

func TestAppendUnchangedReadingSkipped(t *testing.T) {
	h := NewHistory("tola")
	h.Append(reading("2081-01-01", 100000, 1200), Same, Same, 60)

	if h.Append(reading("2081-01-01", 100000, 1200), Same, Same, 60) {
		t.Fatal("identical reading for a stored date must not rewrite the ledger")
	}
	if len(h.Data) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(h.Data))
	}
}

func TestAppendEvictsOldest(t *testing.T) {
	h := NewHistory("tola")
	for i := 0; i < 60; i++ {
		h.Append(reading(fmt.Sprintf("2081-01-%02d", i+1), int64(100000+i), 1200), Same, Same, 60)
	}
	if len(h.Data) != 60 {
		t.Fatalf("expected ledger at bound, got %d", len(h.Data))
	}

	h.Append(reading("2081-03-01", 200000, 1300), Up, Up, 60)

	if len(h.Data) != 60 {
		t.Fatalf("bound must hold after append, got %d", len(h.Data))
	}
	if h.Data[0].Date != "2081-01-02" {
		t.Fatalf("oldest entry should have been dropped, front is %s", h.Data[0].Date)
	}
	if h.Last().Date != "2081-03-01" {
		t.Fatalf("newest entry missing, got %s", h.Last().Date)
	}
}

func TestAppendNeverDuplicatesDates(t *testing.T) {
	h := NewHistory("tola")
	dates := []string{"2081-01-01", "2081-01-02", "2081-01-01", "2081-01-03", "2081-01-02"}
	for i, d := range dates {
		h.Append(reading(d, int64(100000+i*500), 1200), Same, Same, 60)
	}

	seen := map[string]bool{}
	for _, e := range h.Data {
		if seen[e.Date] {
			t.Fatalf("duplicate date %s in ledger", e.Date)
		}
		seen[e.Date] = true
	}
}

func TestAppendBoundHoldsForAnySequence(t *testing.T) {
	h := NewHistory("tola")
	for i := 0; i < 200; i++ {
		h.Append(reading(fmt.Sprintf("2081-%02d-%02d", i/30+1, i%30+1), int64(90000+i*7), int64(1000+i)), Same, Same, 60)
		if len(h.Data) > 60 {
			t.Fatalf("bound violated at iteration %d: %d entries", i, len(h.Data))
		}
	}
}

func TestLastN(t *testing.T) {
	h := NewHistory("tola")
	for i := 0; i < 10; i++ {
		h.Append(reading(fmt.Sprintf("2081-01-%02d", i+1), int64(100000+i), 1200), Same, Same, 60)
	}

	week := h.LastN(7)
	if len(week) != 7 {
		t.Fatalf("expected 7 entries, got %d", len(week))
	}
	if week[0].Date != "2081-01-04" || week[6].Date != "2081-01-10" {
		t.Fatalf("slice should be chronological most-recent-7, got %s..%s", week[0].Date, week[6].Date)
	}

	if got := h.LastN(30); len(got) != 10 {
		t.Fatalf("short history should return everything, got %d", len(got))
	}
}

func TestLastDirectionEmpty(t *testing.T) {
	h := NewHistory("tola")
	if h.LastDirection(Gold) != Same {
		t.Fatal("empty ledger should report same")
	}
}
