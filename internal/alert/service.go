package alert

import (
	"context"
	"time"

	"github.com/google/uuid"

	"pricewatch/pricewatcher/internal/model"
	"pricewatch/pricewatcher/internal/storage"
	"pricewatch/pricewatcher/logger"
	"pricewatch/pricewatcher/pkg/errors"
)

// Notifier delivers notifications for triggered alerts. Fire and
// forget; click resolution happens out of band via the notification id.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Service owns alert CRUD and evaluation against stored history
type Service struct {
	accessor *storage.Accessor
	notifier Notifier
}

// NewService creates an alert service
func NewService(accessor *storage.Accessor, notifier Notifier) *Service {
	return &Service{
		accessor: accessor,
		notifier: notifier,
	}
}

// Save upserts an alert. A new alert gets a fresh id, creation time
// and active status. Returns the alert id.
func (s *Service) Save(ctx context.Context, a model.Alert) (string, error) {
	if a.ConditionType != model.ConditionPriceBelow && a.ConditionType != model.ConditionPercentageDrop {
		return "", errors.NewValidation("alert", "unknown condition type: "+string(a.ConditionType))
	}

	if a.ID == "" {
		a.ID = uuid.NewString()
		a.Created = time.Now().UnixMilli()
		a.Status = model.AlertActive
	}

	alerts, err := s.accessor.Alerts(ctx)
	if err != nil {
		return "", err
	}

	replaced := false
	for i := range alerts {
		if alerts[i].ID == a.ID {
			alerts[i] = a
			replaced = true
			break
		}
	}
	if !replaced {
		alerts = append(alerts, a)
	}

	if err := s.accessor.SaveAlerts(ctx, alerts); err != nil {
		return "", err
	}
	return a.ID, nil
}

// Delete removes an alert by id. Returns false when no alert matched.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	alerts, err := s.accessor.Alerts(ctx)
	if err != nil {
		return false, err
	}

	kept := alerts[:0:0]
	for _, a := range alerts {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	if len(kept) == len(alerts) {
		return false, nil
	}
	return true, s.accessor.SaveAlerts(ctx, kept)
}

// ToggleStatus sets an alert's status from user action: pause, resume,
// or reactivate a triggered alert. Returns false when no alert matched.
func (s *Service) ToggleStatus(ctx context.Context, id string, status model.AlertStatus) (bool, error) {
	if status != model.AlertActive && status != model.AlertPaused {
		return false, errors.NewValidation("alert", "status must be active or paused, got "+string(status))
	}

	alerts, err := s.accessor.Alerts(ctx)
	if err != nil {
		return false, err
	}

	for i := range alerts {
		if alerts[i].ID == id {
			alerts[i].Status = status
			return true, s.accessor.SaveAlerts(ctx, alerts)
		}
	}
	return false, nil
}

// List returns all stored alerts
func (s *Service) List(ctx context.Context) ([]model.Alert, error) {
	return s.accessor.Alerts(ctx)
}

// Check evaluates active alerts against stored history and emits a
// notification per trigger. An empty scopeURL checks every alert; a
// canonical URL restricts the pass to that product. Evaluation is
// idempotent: triggered alerts stay triggered, so a crashed pass is
// simply repeated on the next schedule.
func (s *Service) Check(ctx context.Context, scopeURL string) error {
	log := logger.ForAlerts()

	settings, err := s.accessor.Settings(ctx)
	if err != nil {
		return err
	}
	if !settings.GlobalNotifications {
		log.Debug().Msg("Global notifications disabled, skipping alert check")
		return nil
	}

	alerts, err := s.accessor.Alerts(ctx)
	if err != nil {
		return err
	}
	if len(alerts) == 0 {
		return nil
	}

	lookup := func(hostname, canonicalURL string) (model.ProductRecord, bool) {
		products, err := s.accessor.HostProducts(ctx, hostname)
		if err != nil {
			log.Warn().Err(err).Str("hostname", hostname).Msg("Product lookup failed")
			return model.ProductRecord{}, false
		}
		record, ok := products[canonicalURL]
		return record, ok
	}

	updated, notifications := Evaluate(alerts, lookup, settings, scopeURL, time.Now().UnixMilli())

	for _, n := range notifications {
		log.Info().Str("alert_id", n.ID).Str("message", n.Message).Msg("Alert triggered")
		if err := s.notifier.Notify(ctx, n); err != nil {
			log.Error().Err(err).Str("alert_id", n.ID).Msg("Failed to deliver notification")
		}
	}

	if len(notifications) > 0 {
		return s.accessor.SaveAlerts(ctx, updated)
	}
	return nil
}
