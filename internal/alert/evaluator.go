package alert

import (
	"fmt"
	"strconv"

	"pricewatch/pricewatcher/internal/history"
	"pricewatch/pricewatcher/internal/model"
)

// Notification is the payload handed to the notification sink when an
// alert fires. URL is the deep link resolved on click.
type Notification struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	ImageURL string `json:"imageUrl,omitempty"`
	URL      string `json:"url"`
}

const notificationTitle = "Price Watcher Alert!"

// ProductLookup resolves a product record by hostname and canonical URL
type ProductLookup func(hostname, canonicalURL string) (model.ProductRecord, bool)

// Evaluate checks active alerts against the two most recent history
// entries of their products. Returns the full alert list with
// triggered alerts flipped to their terminal state, plus the
// notifications to emit. Alerts whose product is missing or has no
// history pass through unchanged; evaluation never errors on absent
// data. A triggered alert is never reactivated here; only explicit
// user action does that.
func Evaluate(alerts []model.Alert, lookup ProductLookup, settings model.Settings, scopeURL string, now int64) ([]model.Alert, []Notification) {
	if !settings.GlobalNotifications {
		return alerts, nil
	}

	var notifications []Notification
	updated := make([]model.Alert, len(alerts))
	copy(updated, alerts)

	for i, a := range updated {
		if a.Status != model.AlertActive {
			continue
		}
		if scopeURL != "" && a.URL != scopeURL {
			continue
		}

		product, ok := lookup(a.Hostname, a.URL)
		if !ok || len(product.History) == 0 {
			continue
		}

		entries := make([]model.HistoryEntry, len(product.History))
		copy(entries, product.History)
		history.SortDesc(entries)

		latest := entries[0]
		previous := latest
		if len(entries) > 1 {
			previous = entries[1]
		}

		message, triggered := evaluateCondition(a, latest, previous)
		if !triggered {
			continue
		}

		updated[i].Status = model.AlertTriggered
		updated[i].LastTriggered = now
		notifications = append(notifications, Notification{
			ID:       a.ID,
			Title:    notificationTitle,
			Message:  message,
			ImageURL: product.ImageURL,
			URL:      a.URL,
		})
	}

	return updated, notifications
}

// evaluateCondition applies one alert's condition to the latest and
// previous price entries, returning the notification message on
// trigger
func evaluateCondition(a model.Alert, latest, previous model.HistoryEntry) (string, bool) {
	switch a.ConditionType {
	case model.ConditionPriceBelow:
		if latest.Price < a.TargetValue {
			message := fmt.Sprintf("%s is now %s%.2f, which is below your target of %s%.2f!",
				a.ProductName, latest.Currency, latest.Price, latest.Currency, a.TargetValue)
			return message, true
		}
	case model.ConditionPercentageDrop:
		// A zero previous price can never trigger; this also guards
		// the division
		if previous.Price > 0 {
			drop := (previous.Price - latest.Price) / previous.Price * 100
			if drop >= a.TargetValue {
				message := fmt.Sprintf("%s has dropped by %.2f%% to %s%.2f, meeting your %s%% drop alert!",
					a.ProductName, drop, latest.Currency, latest.Price,
					strconv.FormatFloat(a.TargetValue, 'f', -1, 64))
				return message, true
			}
		}
	}
	return "", false
}
