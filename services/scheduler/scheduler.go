package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"pricewatch/pricewatcher/internal/alert"
	"pricewatch/pricewatcher/logger"
	"pricewatch/pricewatcher/services/tracker"
)

// StreamTrimmer bounds the notification streams. Nil disables
// trimming.
type StreamTrimmer interface {
	TrimStreams(ctx context.Context) error
}

// Scheduler drives the recurring background jobs: the full tracking
// cycle and the unscoped alert check. Tracking waits an initial delay
// after startup before its first run so the process settles before
// any outbound fetches.
type Scheduler struct {
	cron    *cron.Cron
	tracker *tracker.Tracker
	alerts  *alert.Service
	trimmer StreamTrimmer

	alertInterval time.Duration
	trackInterval time.Duration
	initialDelay  time.Duration

	mu         sync.Mutex
	ctx        context.Context
	cancel     context.CancelFunc
	startTimer *time.Timer
}

// NewScheduler creates a scheduler for the given jobs
func NewScheduler(tr *tracker.Tracker, alerts *alert.Service, trimmer StreamTrimmer, alertInterval, trackInterval, initialDelay time.Duration) *Scheduler {
	return &Scheduler{
		cron:          cron.New(),
		tracker:       tr,
		alerts:        alerts,
		trimmer:       trimmer,
		alertInterval: alertInterval,
		trackInterval: trackInterval,
		initialDelay:  initialDelay,
	}
}

// Start registers the cron entries and begins running them. The
// tracking job fires once after the initial delay and then on its
// regular interval.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := logger.ForScheduler()
	s.ctx, s.cancel = context.WithCancel(ctx)

	if _, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.alertInterval), s.runAlertCheck); err != nil {
		return fmt.Errorf("failed to schedule alert check: %w", err)
	}
	if _, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.trackInterval), s.runTracking); err != nil {
		return fmt.Errorf("failed to schedule tracking: %w", err)
	}

	s.startTimer = time.AfterFunc(s.initialDelay, s.runTracking)
	s.cron.Start()

	log.Info().
		Dur("alert_interval", s.alertInterval).
		Dur("track_interval", s.trackInterval).
		Dur("initial_delay", s.initialDelay).
		Msg("Scheduler started")
	return nil
}

// Stop cancels running jobs and waits for the cron runner to drain
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.startTimer != nil {
		s.startTimer.Stop()
	}
	if s.cancel != nil {
		s.cancel()
	}
	<-s.cron.Stop().Done()
	logger.ForScheduler().Info().Msg("Scheduler stopped")
}

func (s *Scheduler) runAlertCheck() {
	log := logger.ForScheduler()
	log.Debug().Msg("Running scheduled alert check")
	if err := s.alerts.Check(s.ctx, ""); err != nil {
		log.Error().Err(err).Msg("Scheduled alert check failed")
	}
	if s.trimmer != nil {
		if err := s.trimmer.TrimStreams(s.ctx); err != nil {
			log.Error().Err(err).Msg("Stream trim failed")
		}
	}
}

func (s *Scheduler) runTracking() {
	log := logger.ForScheduler()
	log.Debug().Msg("Running scheduled tracking cycle")
	if err := s.tracker.RunCycle(s.ctx); err != nil {
		log.Error().Err(err).Msg("Scheduled tracking cycle failed")
	}
}
