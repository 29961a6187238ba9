package storage

import (
	"context"
	"encoding/json"
	"strings"

	"pricewatch/pricewatcher/internal/model"
	"pricewatch/pricewatcher/pkg/errors"
)

// Reserved keys live alongside the per-hostname product maps in the
// same flat store. The accessor is the only place that knows which is
// which.
const (
	keyAlerts      = "alerts"
	keySettings    = "settings"
	keyCredentials = "credentials"
	keySession     = "session"

	hostKeyPrefix = "host:"
)

// Accessor is the typed layer over the flat key-value store. All
// product data is stored as one JSON document per hostname; alerts,
// settings, credentials and the session flag each occupy a single
// reserved key.
type Accessor struct {
	store Store
}

// NewAccessor creates an accessor over a store
func NewAccessor(store Store) *Accessor {
	return &Accessor{store: store}
}

// HostProducts loads the product map for a hostname. A missing key is
// an empty map, not an error.
func (a *Accessor) HostProducts(ctx context.Context, hostname string) (model.HostProducts, error) {
	data, err := a.store.Get(ctx, hostKeyPrefix+hostname)
	if err == ErrNotFound {
		return model.HostProducts{}, nil
	}
	if err != nil {
		return nil, errors.NewStorage(hostname, "failed to load products", err)
	}

	var products model.HostProducts
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, errors.NewStorage(hostname, "corrupt product data", err)
	}
	return products, nil
}

// SaveHostProducts persists the whole product map for a hostname in a
// single write
func (a *Accessor) SaveHostProducts(ctx context.Context, hostname string, products model.HostProducts) error {
	data, err := json.Marshal(products)
	if err != nil {
		return errors.NewStorage(hostname, "failed to encode products", err)
	}
	if err := a.store.Set(ctx, hostKeyPrefix+hostname, data); err != nil {
		return errors.NewStorage(hostname, "failed to save products", err)
	}
	return nil
}

// Hostnames lists every hostname with stored products
func (a *Accessor) Hostnames(ctx context.Context) ([]string, error) {
	keys, err := a.store.Keys(ctx)
	if err != nil {
		return nil, errors.NewStorage("", "failed to list keys", err)
	}
	hostnames := make([]string, 0, len(keys))
	for _, key := range keys {
		if strings.HasPrefix(key, hostKeyPrefix) {
			hostnames = append(hostnames, strings.TrimPrefix(key, hostKeyPrefix))
		}
	}
	return hostnames, nil
}

// DeleteProduct removes one product and cascades to its alerts.
// Returns false when the product does not exist.
func (a *Accessor) DeleteProduct(ctx context.Context, hostname, canonicalURL string) (bool, error) {
	products, err := a.HostProducts(ctx, hostname)
	if err != nil {
		return false, err
	}
	if _, ok := products[canonicalURL]; !ok {
		return false, nil
	}
	delete(products, canonicalURL)
	if err := a.SaveHostProducts(ctx, hostname, products); err != nil {
		return false, err
	}

	alerts, err := a.Alerts(ctx)
	if err != nil {
		return false, err
	}
	kept := alerts[:0:0]
	for _, alert := range alerts {
		if alert.URL != canonicalURL {
			kept = append(kept, alert)
		}
	}
	if err := a.SaveAlerts(ctx, kept); err != nil {
		return false, err
	}
	return true, nil
}

// Alerts loads the alert list. A missing key is an empty list.
func (a *Accessor) Alerts(ctx context.Context) ([]model.Alert, error) {
	data, err := a.store.Get(ctx, keyAlerts)
	if err == ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewStorage("", "failed to load alerts", err)
	}

	var alerts []model.Alert
	if err := json.Unmarshal(data, &alerts); err != nil {
		return nil, errors.NewStorage("", "corrupt alert data", err)
	}
	return alerts, nil
}

// SaveAlerts persists the whole alert list in a single write
func (a *Accessor) SaveAlerts(ctx context.Context, alerts []model.Alert) error {
	if alerts == nil {
		alerts = []model.Alert{}
	}
	data, err := json.Marshal(alerts)
	if err != nil {
		return errors.NewStorage("", "failed to encode alerts", err)
	}
	if err := a.store.Set(ctx, keyAlerts, data); err != nil {
		return errors.NewStorage("", "failed to save alerts", err)
	}
	return nil
}

// Settings loads settings, filling absent fields with defaults
func (a *Accessor) Settings(ctx context.Context) (model.Settings, error) {
	settings := model.DefaultSettings()
	data, err := a.store.Get(ctx, keySettings)
	if err == ErrNotFound {
		return settings, nil
	}
	if err != nil {
		return settings, errors.NewStorage("", "failed to load settings", err)
	}
	if err := json.Unmarshal(data, &settings); err != nil {
		return model.DefaultSettings(), errors.NewStorage("", "corrupt settings data", err)
	}
	return settings, nil
}

// SaveSettings persists the settings
func (a *Accessor) SaveSettings(ctx context.Context, settings model.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return errors.NewStorage("", "failed to encode settings", err)
	}
	if err := a.store.Set(ctx, keySettings, data); err != nil {
		return errors.NewStorage("", "failed to save settings", err)
	}
	return nil
}

// Credentials loads the stored account credentials, if any
func (a *Accessor) Credentials(ctx context.Context) (model.Credentials, bool, error) {
	data, err := a.store.Get(ctx, keyCredentials)
	if err == ErrNotFound {
		return model.Credentials{}, false, nil
	}
	if err != nil {
		return model.Credentials{}, false, errors.NewStorage("", "failed to load credentials", err)
	}

	var creds model.Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return model.Credentials{}, false, errors.NewStorage("", "corrupt credential data", err)
	}
	return creds, true, nil
}

// SaveCredentials persists the account credentials
func (a *Accessor) SaveCredentials(ctx context.Context, creds model.Credentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return errors.NewStorage("", "failed to encode credentials", err)
	}
	if err := a.store.Set(ctx, keyCredentials, data); err != nil {
		return errors.NewStorage("", "failed to save credentials", err)
	}
	return nil
}

// LoggedIn reports whether the session flag is set
func (a *Accessor) LoggedIn(ctx context.Context) (bool, error) {
	data, err := a.store.Get(ctx, keySession)
	if err == ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, errors.NewStorage("", "failed to load session", err)
	}
	return string(data) == "true", nil
}

// SetLoggedIn sets or clears the session flag
func (a *Accessor) SetLoggedIn(ctx context.Context, loggedIn bool) error {
	if !loggedIn {
		return a.store.Delete(ctx, keySession)
	}
	return a.store.Set(ctx, keySession, []byte("true"))
}

// DeleteAllHistory wipes all tracking data, alerts and settings but
// keeps the session alive
func (a *Accessor) DeleteAllHistory(ctx context.Context) error {
	creds, hasCreds, err := a.Credentials(ctx)
	if err != nil {
		return err
	}
	loggedIn, err := a.LoggedIn(ctx)
	if err != nil {
		return err
	}
	if err := a.store.Clear(ctx); err != nil {
		return errors.NewStorage("", "failed to clear store", err)
	}
	if hasCreds {
		if err := a.SaveCredentials(ctx, creds); err != nil {
			return err
		}
	}
	return a.SetLoggedIn(ctx, loggedIn)
}

// DeleteAccount wipes everything, credentials and session included
func (a *Accessor) DeleteAccount(ctx context.Context) error {
	if err := a.store.Clear(ctx); err != nil {
		return errors.NewStorage("", "failed to clear store", err)
	}
	return nil
}

// ExportData is the portable snapshot of a user's tracking data.
// Credentials and the session flag are deliberately excluded.
type ExportData struct {
	Products map[string]model.HostProducts `json:"products"`
	Alerts   []model.Alert                 `json:"alerts"`
	Settings model.Settings                `json:"settings"`
}

// Export serializes all product maps, alerts and settings
func (a *Accessor) Export(ctx context.Context) ([]byte, error) {
	hostnames, err := a.Hostnames(ctx)
	if err != nil {
		return nil, err
	}

	export := ExportData{Products: make(map[string]model.HostProducts, len(hostnames))}
	for _, hostname := range hostnames {
		products, err := a.HostProducts(ctx, hostname)
		if err != nil {
			return nil, err
		}
		export.Products[hostname] = products
	}

	if export.Alerts, err = a.Alerts(ctx); err != nil {
		return nil, err
	}
	if export.Alerts == nil {
		export.Alerts = []model.Alert{}
	}
	if export.Settings, err = a.Settings(ctx); err != nil {
		return nil, err
	}

	return json.MarshalIndent(export, "", "  ")
}

// Import overwrites tracking data, alerts and settings from an
// exported snapshot. Credentials and the session flag are preserved.
func (a *Accessor) Import(ctx context.Context, data []byte) error {
	var imported ExportData
	if err := json.Unmarshal(data, &imported); err != nil {
		return errors.NewValidation("import", "invalid import payload: "+err.Error())
	}

	// Drop current product maps so hosts absent from the snapshot do
	// not linger
	hostnames, err := a.Hostnames(ctx)
	if err != nil {
		return err
	}
	for _, hostname := range hostnames {
		if err := a.store.Delete(ctx, hostKeyPrefix+hostname); err != nil {
			return errors.NewStorage(hostname, "failed to drop products", err)
		}
	}

	for hostname, products := range imported.Products {
		if err := a.SaveHostProducts(ctx, hostname, products); err != nil {
			return err
		}
	}
	if err := a.SaveAlerts(ctx, imported.Alerts); err != nil {
		return err
	}
	return a.SaveSettings(ctx, imported.Settings)
}
