package alert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricewatch/pricewatcher/internal/model"
)

func lookupFor(products map[string]model.ProductRecord) ProductLookup {
	return func(hostname, canonicalURL string) (model.ProductRecord, bool) {
		record, ok := products[hostname+"|"+canonicalURL]
		return record, ok
	}
}

func activeAlert(condition model.ConditionType, target float64) model.Alert {
	return model.Alert{
		ID:            "a1",
		URL:           "https://a.com/p",
		Hostname:      "a.com",
		ProductName:   "Widget",
		ConditionType: condition,
		TargetValue:   target,
		Status:        model.AlertActive,
	}
}

func productWithPrices(prices ...float64) model.ProductRecord {
	record := model.ProductRecord{Name: "Widget"}
	for i, price := range prices {
		record.History = append(record.History, model.HistoryEntry{
			Price:     price,
			Currency:  "$",
			Timestamp: int64((i + 1) * 1000),
		})
	}
	return record
}

func TestEvaluatePriceBelow(t *testing.T) {
	lookup := lookupFor(map[string]model.ProductRecord{
		"a.com|https://a.com/p": productWithPrices(90),
	})
	settings := model.DefaultSettings()

	// Latest 90 < target 100: triggers
	updated, notifications := Evaluate([]model.Alert{activeAlert(model.ConditionPriceBelow, 100)}, lookup, settings, "", 7777)
	require.Len(t, notifications, 1)
	assert.Equal(t, model.AlertTriggered, updated[0].Status)
	assert.Equal(t, int64(7777), updated[0].LastTriggered)
	assert.Equal(t, "Widget is now $90.00, which is below your target of $100.00!", notifications[0].Message)
	assert.Equal(t, "https://a.com/p", notifications[0].URL)

	// Strict inequality: latest equal to target does not trigger
	lookup = lookupFor(map[string]model.ProductRecord{
		"a.com|https://a.com/p": productWithPrices(100),
	})
	updated, notifications = Evaluate([]model.Alert{activeAlert(model.ConditionPriceBelow, 100)}, lookup, settings, "", 7777)
	assert.Empty(t, notifications)
	assert.Equal(t, model.AlertActive, updated[0].Status)
}

func TestEvaluatePercentageDrop(t *testing.T) {
	settings := model.DefaultSettings()

	// 200 -> 179 is a 10.5% drop, meeting a 10% target
	lookup := lookupFor(map[string]model.ProductRecord{
		"a.com|https://a.com/p": productWithPrices(200, 179),
	})
	updated, notifications := Evaluate([]model.Alert{activeAlert(model.ConditionPercentageDrop, 10)}, lookup, settings, "", 1)
	require.Len(t, notifications, 1)
	assert.Equal(t, model.AlertTriggered, updated[0].Status)
	assert.Equal(t, "Widget has dropped by 10.50% to $179.00, meeting your 10% drop alert!", notifications[0].Message)

	// 200 -> 181 is only 9.5%: no trigger
	lookup = lookupFor(map[string]model.ProductRecord{
		"a.com|https://a.com/p": productWithPrices(200, 181),
	})
	_, notifications = Evaluate([]model.Alert{activeAlert(model.ConditionPercentageDrop, 10)}, lookup, settings, "", 1)
	assert.Empty(t, notifications)
}

func TestEvaluatePercentageDropZeroPrevious(t *testing.T) {
	lookup := lookupFor(map[string]model.ProductRecord{
		"a.com|https://a.com/p": productWithPrices(0, 10),
	})

	// Zero previous price never triggers, whatever the target
	for _, target := range []float64{0, 1, 50, 100} {
		_, notifications := Evaluate([]model.Alert{activeAlert(model.ConditionPercentageDrop, target)}, lookup, model.DefaultSettings(), "", 1)
		assert.Empty(t, notifications, "target %v", target)
	}
}

func TestEvaluateSingleEntryUsesLatestAsPrevious(t *testing.T) {
	// One entry: previous falls back to latest, drop is 0%
	lookup := lookupFor(map[string]model.ProductRecord{
		"a.com|https://a.com/p": productWithPrices(100),
	})
	_, notifications := Evaluate([]model.Alert{activeAlert(model.ConditionPercentageDrop, 10)}, lookup, model.DefaultSettings(), "", 1)
	assert.Empty(t, notifications)

	// A zero-percent target does fire on a flat price
	_, notifications = Evaluate([]model.Alert{activeAlert(model.ConditionPercentageDrop, 0)}, lookup, model.DefaultSettings(), "", 1)
	assert.Len(t, notifications, 1)
}

func TestEvaluateSortsHistoryByTimestamp(t *testing.T) {
	// Stored out of order: latest by timestamp is 80, previous is 100
	record := model.ProductRecord{Name: "Widget", History: []model.HistoryEntry{
		{Price: 80, Currency: "$", Timestamp: 3000},
		{Price: 100, Currency: "$", Timestamp: 2000},
		{Price: 90, Currency: "$", Timestamp: 1000},
	}}
	lookup := lookupFor(map[string]model.ProductRecord{"a.com|https://a.com/p": record})

	_, notifications := Evaluate([]model.Alert{activeAlert(model.ConditionPercentageDrop, 20)}, lookup, model.DefaultSettings(), "", 1)
	require.Len(t, notifications, 1, "100 -> 80 is a 20%% drop")
}

func TestEvaluateGlobalNotificationsDisabled(t *testing.T) {
	lookup := lookupFor(map[string]model.ProductRecord{
		"a.com|https://a.com/p": productWithPrices(1),
	})
	settings := model.DefaultSettings()
	settings.GlobalNotifications = false

	updated, notifications := Evaluate([]model.Alert{activeAlert(model.ConditionPriceBelow, 100)}, lookup, settings, "", 1)
	assert.Empty(t, notifications)
	assert.Equal(t, model.AlertActive, updated[0].Status)
}

func TestEvaluateMissingProductOrHistory(t *testing.T) {
	// No product at all
	updated, notifications := Evaluate([]model.Alert{activeAlert(model.ConditionPriceBelow, 100)},
		lookupFor(nil), model.DefaultSettings(), "", 1)
	assert.Empty(t, notifications)
	assert.Equal(t, model.AlertActive, updated[0].Status)

	// Product with empty history
	lookup := lookupFor(map[string]model.ProductRecord{
		"a.com|https://a.com/p": {Name: "Widget"},
	})
	updated, notifications = Evaluate([]model.Alert{activeAlert(model.ConditionPriceBelow, 100)}, lookup, model.DefaultSettings(), "", 1)
	assert.Empty(t, notifications)
	assert.Equal(t, model.AlertActive, updated[0].Status)
}

func TestEvaluateSkipsInactiveAlerts(t *testing.T) {
	lookup := lookupFor(map[string]model.ProductRecord{
		"a.com|https://a.com/p": productWithPrices(1),
	})

	paused := activeAlert(model.ConditionPriceBelow, 100)
	paused.Status = model.AlertPaused
	triggered := activeAlert(model.ConditionPriceBelow, 100)
	triggered.ID = "a2"
	triggered.Status = model.AlertTriggered

	updated, notifications := Evaluate([]model.Alert{paused, triggered}, lookup, model.DefaultSettings(), "", 1)
	assert.Empty(t, notifications)
	// Inactive alerts survive the pass untouched; triggered never
	// auto-reactivates
	assert.Equal(t, model.AlertPaused, updated[0].Status)
	assert.Equal(t, model.AlertTriggered, updated[1].Status)
}

func TestEvaluateScopeFilter(t *testing.T) {
	lookup := lookupFor(map[string]model.ProductRecord{
		"a.com|https://a.com/p":     productWithPrices(1),
		"a.com|https://a.com/other": productWithPrices(1),
	})

	inScope := activeAlert(model.ConditionPriceBelow, 100)
	outOfScope := activeAlert(model.ConditionPriceBelow, 100)
	outOfScope.ID = "a2"
	outOfScope.URL = "https://a.com/other"

	updated, notifications := Evaluate([]model.Alert{inScope, outOfScope}, lookup, model.DefaultSettings(), "https://a.com/p", 1)
	require.Len(t, notifications, 1)
	assert.Equal(t, "a1", notifications[0].ID)
	assert.Equal(t, model.AlertTriggered, updated[0].Status)
	assert.Equal(t, model.AlertActive, updated[1].Status)
}
