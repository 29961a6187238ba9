package tracker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricewatch/pricewatcher/internal/alert"
	"pricewatch/pricewatcher/internal/extract"
	"pricewatch/pricewatcher/internal/history"
	"pricewatch/pricewatcher/internal/model"
	"pricewatch/pricewatcher/internal/storage"
)

type recordingNotifier struct {
	mu    sync.Mutex
	seen  []alert.Notification
}

func (n *recordingNotifier) Notify(_ context.Context, notification alert.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.seen = append(n.seen, notification)
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.seen)
}

func productPage(price string) string {
	return `<html><head><script type="application/ld+json">
		{"@type": "Product", "name": "Tracked Widget", "offers": {"price": "` + price + `", "priceCurrency": "USD"}}
	</script></head><body></body></html>`
}

func newTestTracker(t *testing.T, accessor *storage.Accessor, notifier alert.Notifier) *Tracker {
	t.Helper()
	histStore := history.NewStore(accessor)
	alertService := alert.NewService(accessor, notifier)
	return NewTracker(accessor, histStore, alertService, extract.NewExtractor(), nil,
		5*time.Second, time.Millisecond, time.Minute)
}

func seedProduct(t *testing.T, accessor *storage.Accessor, rawURL string, price float64) {
	t.Helper()
	ctx := context.Background()
	parsed, err := url.Parse(rawURL)
	require.NoError(t, err)

	hostname := parsed.Host
	canonical := history.CanonicalURL(rawURL)
	err = accessor.SaveHostProducts(ctx, hostname, model.HostProducts{
		canonical: model.ProductRecord{
			Name: "Tracked Widget",
			History: []model.HistoryEntry{
				{Price: price, Currency: "$", Timestamp: time.Now().Add(-time.Hour).UnixMilli()},
			},
		},
	})
	require.NoError(t, err)
}

func TestRunCycleRecordsPriceChange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(productPage("79.99")))
	}))
	defer server.Close()

	accessor := storage.NewAccessor(storage.NewMemoryStore())
	seedProduct(t, accessor, server.URL+"/product/1", 99.99)

	tracker := newTestTracker(t, accessor, &recordingNotifier{})
	require.NoError(t, tracker.RunCycle(context.Background()))

	parsed, _ := url.Parse(server.URL)
	products, err := accessor.HostProducts(context.Background(), parsed.Host)
	require.NoError(t, err)

	record, ok := products[history.CanonicalURL(server.URL+"/product/1")]
	require.True(t, ok)
	require.Len(t, record.History, 2)
	assert.Equal(t, 79.99, record.History[len(record.History)-1].Price)
}

func TestRunCycleTriggersAlertOnDrop(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(productPage("49.99")))
	}))
	defer server.Close()

	ctx := context.Background()
	accessor := storage.NewAccessor(storage.NewMemoryStore())
	productURL := server.URL + "/product/1"
	seedProduct(t, accessor, productURL, 99.99)

	parsed, err := url.Parse(server.URL)
	require.NoError(t, err)
	err = accessor.SaveAlerts(ctx, []model.Alert{{
		ID:            "a1",
		URL:           history.CanonicalURL(productURL),
		Hostname:      parsed.Host,
		ProductName:   "Tracked Widget",
		ConditionType: model.ConditionPriceBelow,
		TargetValue:   60,
		Status:        model.AlertActive,
	}})
	require.NoError(t, err)

	notifier := &recordingNotifier{}
	tracker := newTestTracker(t, accessor, notifier)
	require.NoError(t, tracker.RunCycle(ctx))

	assert.Equal(t, 1, notifier.count())

	alerts, err := accessor.Alerts(ctx)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, model.AlertTriggered, alerts[0].Status)
}

func TestRunCycleUnchangedPriceSkipsAlertCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(productPage("99.99")))
	}))
	defer server.Close()

	ctx := context.Background()
	accessor := storage.NewAccessor(storage.NewMemoryStore())
	productURL := server.URL + "/product/1"
	seedProduct(t, accessor, productURL, 99.99)

	// Below target already, but the unchanged price must not re-check
	parsedHost, err := url.Parse(server.URL)
	require.NoError(t, err)
	err = accessor.SaveAlerts(ctx, []model.Alert{{
		ID:            "a1",
		URL:           history.CanonicalURL(productURL),
		Hostname:      parsedHost.Host,
		ConditionType: model.ConditionPriceBelow,
		TargetValue:   200,
		Status:        model.AlertActive,
	}})
	require.NoError(t, err)

	notifier := &recordingNotifier{}
	tracker := newTestTracker(t, accessor, notifier)
	require.NoError(t, tracker.RunCycle(ctx))

	assert.Equal(t, 0, notifier.count())

	parsed, _ := url.Parse(server.URL)
	products, err := accessor.HostProducts(ctx, parsed.Host)
	require.NoError(t, err)
	record := products[history.CanonicalURL(productURL)]
	assert.Len(t, record.History, 1)
}

func TestRunCycleContinuesPastFailingProduct(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(productPage("10.00")))
	}))
	defer good.Close()

	ctx := context.Background()
	accessor := storage.NewAccessor(storage.NewMemoryStore())
	seedProduct(t, accessor, bad.URL+"/x", 20)
	seedProduct(t, accessor, good.URL+"/y", 20)

	tracker := newTestTracker(t, accessor, &recordingNotifier{})
	require.NoError(t, tracker.RunCycle(ctx))

	parsed, _ := url.Parse(good.URL)
	products, err := accessor.HostProducts(ctx, parsed.Host)
	require.NoError(t, err)
	record := products[history.CanonicalURL(good.URL+"/y")]
	assert.Len(t, record.History, 2, "healthy product still tracked after a failing one")
}

func TestRunCycleEmptyStore(t *testing.T) {
	accessor := storage.NewAccessor(storage.NewMemoryStore())
	tracker := newTestTracker(t, accessor, &recordingNotifier{})
	assert.NoError(t, tracker.RunCycle(context.Background()))
}
