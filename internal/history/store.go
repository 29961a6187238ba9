package history

import (
	"context"
	"sort"

	"pricewatch/pricewatcher/internal/extract"
	"pricewatch/pricewatcher/internal/model"
	"pricewatch/pricewatcher/internal/storage"
	"pricewatch/pricewatcher/logger"
)

// Store appends extraction snapshots to per-product price history
type Store struct {
	accessor *storage.Accessor
}

// NewStore creates a history store over the storage accessor
func NewStore(accessor *storage.Accessor) *Store {
	return &Store{accessor: accessor}
}

// SortDesc orders history entries newest-first, in place. Stored
// history carries no ordering guarantee, so every consumer sorts
// before taking latest/previous.
func SortDesc(entries []model.HistoryEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp > entries[j].Timestamp
	})
}

// RecordObservation appends a snapshot to the product's history.
// Name and image are refreshed unconditionally; the history entry is
// appended only when price or currency differ from the latest entry,
// so repeated polling of an unchanged price stays quiet. Returns
// whether a new entry was stored.
func (s *Store) RecordObservation(ctx context.Context, hostname, rawURL string, snapshot extract.Snapshot, timestamp int64, retention int) (bool, error) {
	canonicalURL := CanonicalURL(rawURL)

	products, err := s.accessor.HostProducts(ctx, hostname)
	if err != nil {
		return false, err
	}

	record, ok := products[canonicalURL]
	if !ok {
		record = model.ProductRecord{}
	}
	record.Name = snapshot.ProductName
	record.ImageURL = snapshot.ProductImageURL

	stored := false
	latest, hasLatest := latestEntry(record.History)
	if !hasLatest || latest.Price != snapshot.Price || latest.Currency != snapshot.Currency {
		record.History = append(record.History, model.HistoryEntry{
			Price:     snapshot.Price,
			Currency:  snapshot.Currency,
			Timestamp: timestamp,
		})
		stored = true
		logger.ForStore().Debug().
			Str("product", snapshot.ProductName).
			Float64("price", snapshot.Price).
			Msg("Stored new price")
	} else {
		logger.ForStore().Debug().
			Str("product", snapshot.ProductName).
			Msg("Price unchanged, not storing")
	}

	// Entries are appended in observation order, so the oldest sit at
	// the front
	if retention > 0 && len(record.History) > retention {
		record.History = record.History[len(record.History)-retention:]
	}

	products[canonicalURL] = record
	if err := s.accessor.SaveHostProducts(ctx, hostname, products); err != nil {
		return false, err
	}
	return stored, nil
}

// Product looks up a stored product by hostname and canonical URL
func (s *Store) Product(ctx context.Context, hostname, canonicalURL string) (model.ProductRecord, bool, error) {
	products, err := s.accessor.HostProducts(ctx, hostname)
	if err != nil {
		return model.ProductRecord{}, false, err
	}
	record, ok := products[canonicalURL]
	return record, ok, nil
}

// latestEntry returns the newest entry by timestamp without mutating
// the stored order
func latestEntry(entries []model.HistoryEntry) (model.HistoryEntry, bool) {
	if len(entries) == 0 {
		return model.HistoryEntry{}, false
	}
	latest := entries[0]
	for _, entry := range entries[1:] {
		if entry.Timestamp > latest.Timestamp {
			latest = entry
		}
	}
	return latest, true
}
