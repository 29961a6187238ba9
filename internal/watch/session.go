// Package watch drives extraction against a live, still-rendering
// page. A session fires one attempt after a settle delay, then retries
// on document mutations with a debounce window until extraction
// succeeds or the session is torn down.
package watch

import (
	"context"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"pricewatch/pricewatcher/internal/extract"
	"pricewatch/pricewatcher/logger"
)

// DocumentSource returns the current state of the observed document.
// A nil document is treated as "not ready yet", i.e. a miss.
type DocumentSource func() *goquery.Document

// Result is the single successful extraction of a session
type Result struct {
	Snapshot  extract.Snapshot
	Hostname  string
	URL       string
	Timestamp int64
}

// Session watches one page load. Attempts never overlap: mutation
// events reset the debounce timer instead of stacking attempts, and
// after the first success the session is permanently done.
type Session struct {
	extractor *extract.Extractor
	source    DocumentSource
	hostname  string
	url       string

	settleDelay time.Duration
	debounce    time.Duration
	onResult    func(Result)

	mu            sync.Mutex
	done          bool
	started       bool
	settleTimer   *time.Timer
	debounceTimer *time.Timer
	finished      chan struct{}
}

// NewSession creates a watch session for one page load. onResult is
// invoked at most once.
func NewSession(extractor *extract.Extractor, source DocumentSource, hostname, url string, settleDelay, debounce time.Duration, onResult func(Result)) *Session {
	return &Session{
		extractor:   extractor,
		source:      source,
		hostname:    hostname,
		url:         url,
		settleDelay: settleDelay,
		debounce:    debounce,
		onResult:    onResult,
		finished:    make(chan struct{}),
	}
}

// Start schedules the initial extraction attempt after the settle
// delay. The session tears down when ctx is cancelled.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started || s.done {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.settleTimer = time.AfterFunc(s.settleDelay, s.attempt)
	s.mu.Unlock()

	// The watcher goroutine must not outlive a finished session
	go func() {
		select {
		case <-ctx.Done():
			s.Stop()
		case <-s.finished:
		}
	}()
}

// DocumentChanged signals a structural mutation of the observed page.
// The debounce timer is reset, not stacked; a burst of mutations
// yields one attempt after the window closes.
func (s *Session) DocumentChanged() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done || !s.started {
		return
	}
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	s.debounceTimer = time.AfterFunc(s.debounce, s.attempt)
}

// Stop tears the session down without a result
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finishLocked()
}

// Done reports whether the session has finished, successfully or not
func (s *Session) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// attempt runs one extraction pass. A miss leaves the session open for
// further mutations; it is not an error.
func (s *Session) attempt() {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}

	doc := s.source()
	if doc == nil {
		s.mu.Unlock()
		return
	}

	snapshot, ok := s.extractor.Extract(doc, s.hostname)
	if !ok {
		s.mu.Unlock()
		logger.ForWatcher(s.url).Debug().Msg("No extraction yet, waiting for dynamic content")
		return
	}

	s.finishLocked()
	onResult := s.onResult
	s.mu.Unlock()

	logger.ForWatcher(s.url).Info().
		Str("product", snapshot.ProductName).
		Float64("price", snapshot.Price).
		Msg("Live extraction succeeded")

	if onResult != nil {
		onResult(Result{
			Snapshot:  snapshot,
			Hostname:  s.hostname,
			URL:       s.url,
			Timestamp: time.Now().UnixMilli(),
		})
	}
}

// finishLocked marks the session done and stops all timers. Caller
// holds the mutex.
func (s *Session) finishLocked() {
	if s.done {
		return
	}
	s.done = true
	close(s.finished)
	if s.settleTimer != nil {
		s.settleTimer.Stop()
	}
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
}
