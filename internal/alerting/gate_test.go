package alerting

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"metal-rates/internal/rates"
)

func reading(date string, gold, silver int64) rates.Reading {
	return rates.Reading{Date: date, Gold: decimal.NewFromInt(gold), Silver: decimal.NewFromInt(silver)}
}

func TestDecideNoPriorState(t *testing.T) {
	d := Decide(nil, reading("2081-01-01", 100000, 1200))

	if !d.ShouldNotify {
		t.Fatal("first reading should notify")
	}
	if len(d.Messages) != 3 {
		t.Fatalf("expected date+gold+silver messages, got %d: %v", len(d.Messages), d.Messages)
	}
	for _, msg := range d.Messages[1:] {
		if strings.Contains(msg, "बढ्यो") || strings.Contains(msg, "घट्यो") {
			t.Fatalf("no baseline, message must not carry a direction: %q", msg)
		}
	}
}

func TestDecideIdenticalReading(t *testing.T) {
	last := reading("2081-01-01", 100000, 1200)
	d := Decide(&last, reading("2081-01-01", 100000, 1200))

	if d.ShouldNotify {
		t.Fatalf("identical reading must be suppressed, got %v", d.Messages)
	}
}

func TestDecideGoldMoved(t *testing.T) {
	last := reading("2081-01-01", 100000, 1200)
	d := Decide(&last, reading("2081-01-01", 101000, 1200))

	if !d.ShouldNotify || len(d.Messages) != 1 {
		t.Fatalf("expected one gold message, got %v", d.Messages)
	}
	if !strings.Contains(d.Messages[0], "बढ्यो") {
		t.Fatalf("gold went up, message should say so: %q", d.Messages[0])
	}
}

func TestDecideSilverDropped(t *testing.T) {
	last := reading("2081-01-01", 100000, 1300)
	d := Decide(&last, reading("2081-01-01", 100000, 1200))

	if len(d.Messages) != 1 {
		t.Fatalf("expected one silver message, got %v", d.Messages)
	}
	if !strings.Contains(d.Messages[0], "घट्यो") {
		t.Fatalf("silver dropped, message should say so: %q", d.Messages[0])
	}
}

func TestDecideNewDate(t *testing.T) {
	last := reading("2081-01-01", 100000, 1200)
	d := Decide(&last, reading("2081-01-02", 100000, 1200))

	if len(d.Messages) != 1 {
		t.Fatalf("only the date changed, got %v", d.Messages)
	}
	if !strings.Contains(d.Messages[0], "2081-01-02") {
		t.Fatalf("date message should carry the new date: %q", d.Messages[0])
	}
}

func TestDecisionNotificationJoinsMessages(t *testing.T) {
	d := Decide(nil, reading("2081-01-01", 100000, 1200))
	note := d.Notification()

	if note.Title != NotificationTitle {
		t.Fatalf("unexpected title %q", note.Title)
	}
	if strings.Count(note.Body, "\n") != 2 {
		t.Fatalf("body should be newline-joined messages: %q", note.Body)
	}
}
