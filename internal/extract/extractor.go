package extract

import (
	"github.com/PuerkitoBio/goquery"

	"pricewatch/pricewatcher/logger"
)

// Extractor runs extraction strategies in fixed priority order,
// short-circuiting on the first hit. New strategies are added by
// appending to the list.
type Extractor struct {
	strategies []Strategy
}

// NewExtractor creates an extractor with the default strategy order:
// structured data, then site profile, then heuristics. The profile
// strategy misses for unprofiled hostnames and the heuristic strategy
// misses for profiled ones, so at most one of the two applies to any
// given document.
func NewExtractor() *Extractor {
	return &Extractor{
		strategies: []Strategy{
			&StructuredDataStrategy{},
			&ProfileStrategy{},
			&HeuristicStrategy{},
		},
	}
}

// Extract produces a best-effort snapshot for the document. A miss
// across all strategies returns ok=false and is not an error; the
// caller keeps waiting for the page to settle.
func (e *Extractor) Extract(doc *goquery.Document, hostname string) (Snapshot, bool) {
	for _, strategy := range e.strategies {
		snapshot, ok := strategy.TryExtract(doc, hostname)
		if ok {
			logger.ForExtractor(strategy.Name()).Debug().
				Str("hostname", hostname).
				Str("product", snapshot.ProductName).
				Float64("price", snapshot.Price).
				Msg("Extraction hit")
			return snapshot, true
		}
	}
	return Snapshot{}, false
}
