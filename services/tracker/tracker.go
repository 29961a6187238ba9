package tracker

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"pricewatch/pricewatcher/helpers"
	"pricewatch/pricewatcher/internal/alert"
	"pricewatch/pricewatcher/internal/extract"
	"pricewatch/pricewatcher/internal/history"
	"pricewatch/pricewatcher/internal/storage"
	"pricewatch/pricewatcher/logger"
	"pricewatch/pricewatcher/pkg/errors"
	"pricewatch/pricewatcher/services/cache"
)

// FetchFunc retrieves a page body. Injectable for tests.
type FetchFunc func(ctx context.Context, url string) (io.Reader, error)

// Tracker re-scrapes every stored product out of band. Cycles are
// strictly serialized: one fetch-parse-extract-record at a time, with
// a polite delay between products and a per-fetch timeout. A failing
// product is logged and skipped; it never aborts the rest of the
// batch.
type Tracker struct {
	accessor  *storage.Accessor
	histStore *history.Store
	alerts    *alert.Service
	extractor *extract.Extractor
	cacheSvc  cache.CacheService

	fetch        FetchFunc
	fetchTimeout time.Duration
	blockTime    time.Duration
	limiter      *rate.Limiter
}

// NewTracker creates a background tracker
func NewTracker(
	accessor *storage.Accessor,
	histStore *history.Store,
	alerts *alert.Service,
	extractor *extract.Extractor,
	cacheSvc cache.CacheService,
	fetchTimeout time.Duration,
	politeDelay time.Duration,
	blockTime time.Duration,
) *Tracker {
	return &Tracker{
		accessor:     accessor,
		histStore:    histStore,
		alerts:       alerts,
		extractor:    extractor,
		cacheSvc:     cacheSvc,
		fetch:        helpers.FetchPage,
		fetchTimeout: fetchTimeout,
		blockTime:    blockTime,
		limiter:      rate.NewLimiter(rate.Every(politeDelay), 1),
	}
}

// trackedProduct is one (hostname, canonical URL) pair due for a
// re-scrape
type trackedProduct struct {
	hostname string
	url      string
}

// RunCycle re-scrapes all stored products once
func (t *Tracker) RunCycle(ctx context.Context) error {
	log := logger.ForTracker()

	products, err := t.listProducts(ctx)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		log.Debug().Msg("No products to track")
		return nil
	}

	log.Info().Int("count", len(products)).Msg("Starting tracking cycle")

	for _, product := range products {
		if err := t.limiter.Wait(ctx); err != nil {
			return err
		}
		if err := t.trackOne(ctx, product); err != nil {
			log.Error().Err(err).Str("url", product.url).Msg("Tracking failed for product")
		}
	}

	log.Info().Msg("Tracking cycle finished")
	return nil
}

// listProducts flattens the stored per-hostname maps into a work list
func (t *Tracker) listProducts(ctx context.Context) ([]trackedProduct, error) {
	hostnames, err := t.accessor.Hostnames(ctx)
	if err != nil {
		return nil, err
	}

	var products []trackedProduct
	for _, hostname := range hostnames {
		hostProducts, err := t.accessor.HostProducts(ctx, hostname)
		if err != nil {
			return nil, err
		}
		for url := range hostProducts {
			products = append(products, trackedProduct{hostname: hostname, url: url})
		}
	}
	return products, nil
}

// trackOne runs a single fetch-parse-extract-record cycle
func (t *Tracker) trackOne(ctx context.Context, product trackedProduct) error {
	log := logger.ForTracker()

	if t.isBlocked(product.hostname) {
		log.Debug().Str("hostname", product.hostname).Msg("Host is blocked, skipping")
		return nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, t.fetchTimeout)
	defer cancel()

	body, err := t.fetch(fetchCtx, product.url)
	if err != nil {
		if strings.Contains(err.Error(), "rate limited") {
			t.blockHost(product.hostname)
			return errors.NewRateLimit(product.hostname, t.blockTime)
		}
		return errors.NewNetwork(product.url, "fetch failed", err)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return errors.NewParsing(product.url, "HTML parse failed", err)
	}

	hostname := product.hostname
	if parsed, err := url.Parse(product.url); err == nil && parsed.Hostname() != "" {
		hostname = parsed.Host
	}

	snapshot, ok := t.extractor.Extract(doc, hostname)
	if !ok {
		log.Debug().Str("url", product.url).Msg("No data extracted")
		return nil
	}

	settings, err := t.accessor.Settings(ctx)
	if err != nil {
		return err
	}

	stored, err := t.histStore.RecordObservation(ctx, product.hostname, product.url, snapshot, time.Now().UnixMilli(), settings.HistoryRetention)
	if err != nil {
		return err
	}

	// A price change is what alerts react to; unchanged prices skip
	// the scoped check
	if stored {
		return t.alerts.Check(ctx, history.CanonicalURL(product.url))
	}
	return nil
}

// isBlocked checks the per-host block cache
func (t *Tracker) isBlocked(hostname string) bool {
	if t.cacheSvc == nil {
		return false
	}
	_, err := t.cacheSvc.Get(blockKey(hostname))
	return err == nil
}

// blockHost marks a host as rate limited for the block window
func (t *Tracker) blockHost(hostname string) {
	if t.cacheSvc == nil {
		return
	}
	value := []byte(fmt.Sprintf("%d", t.blockTime/time.Second))
	if err := t.cacheSvc.Set(blockKey(hostname), value, t.blockTime); err != nil {
		logger.ForTracker().Warn().Err(err).Str("hostname", hostname).Msg("Failed to set block key")
	}
}

func blockKey(hostname string) string {
	return "track_block:" + hostname
}
