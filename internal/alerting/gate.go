package alerting

import (
	"fmt"
	"strings"

	"metal-rates/internal/rates"
)

// NotificationTitle is the fixed heading for price-update pushes.
const NotificationTitle = "आजको सुन–चाँदी अपडेट"

// Decision is the gate's verdict for one reading.
type Decision struct {
	ShouldNotify bool
	Messages     []string
}

// Notification renders the decision for delivery.
func (d Decision) Notification() Notification {
	return Notification{
		Title: NotificationTitle,
		Body:  strings.Join(d.Messages, "\n"),
	}
}

// Decide compares the reading against the last notified reading and emits one
// message per changed field. With no prior state every field counts as
// changed and the metal messages carry no direction label. A move that
// reverts within one tick window notifies twice (up then down); the gate
// deliberately does not suppress oscillation.
func Decide(lastNotified *rates.Reading, r rates.Reading) Decision {
	var messages []string

	if lastNotified == nil || lastNotified.Date != r.Date {
		messages = append(messages, fmt.Sprintf("📅 मिति: %s", r.Date))
	}

	if msg, ok := metalMessage(lastNotified, r, rates.Gold, "🥇 सुन"); ok {
		messages = append(messages, msg)
	}
	if msg, ok := metalMessage(lastNotified, r, rates.Silver, "🥈 चाँदी"); ok {
		messages = append(messages, msg)
	}

	return Decision{ShouldNotify: len(messages) > 0, Messages: messages}
}

func metalMessage(last *rates.Reading, r rates.Reading, m rates.Metal, label string) (string, bool) {
	current := r.Price(m)

	if last == nil {
		return fmt.Sprintf("%s: रु %s", label, current.String()), true
	}
	if last.Price(m).Equal(current) {
		return "", false
	}

	dir := "📉 घट्यो"
	if current.GreaterThan(last.Price(m)) {
		dir = "💹 बढ्यो"
	}
	return fmt.Sprintf("%s %s: रु %s", label, dir, current.String()), true
}
