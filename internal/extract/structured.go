package extract

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// StructuredDataStrategy extracts product data from embedded JSON-LD
// blocks. Structured metadata, when present, is authoritative, so this
// strategy runs first.
type StructuredDataStrategy struct{}

// Name returns the strategy name for logging
func (s *StructuredDataStrategy) Name() string {
	return "structured"
}

// TryExtract scans JSON-LD script blocks in document order and returns
// the first fully valid Product or Book candidate. Malformed blocks
// are skipped, not fatal.
func (s *StructuredDataStrategy) TryExtract(doc *goquery.Document, hostname string) (Snapshot, bool) {
	var snapshot Snapshot
	found := false

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(i int, sel *goquery.Selection) bool {
		var raw interface{}
		if err := json.Unmarshal([]byte(sel.Text()), &raw); err != nil {
			return true // skip malformed block, continue scanning
		}

		for _, item := range flattenGraph(raw) {
			if candidate, ok := snapshotFromItem(item); ok {
				snapshot = candidate
				found = true
				return false
			}
		}
		return true
	})

	return snapshot, found
}

// flattenGraph normalizes a parsed JSON-LD document to a flat list of
// candidate items, supporting a top-level @graph wrapper, a bare list,
// or a single object.
func flattenGraph(raw interface{}) []map[string]interface{} {
	var nodes []interface{}

	switch v := raw.(type) {
	case map[string]interface{}:
		if graph, ok := v["@graph"].([]interface{}); ok {
			nodes = graph
		} else {
			nodes = []interface{}{v}
		}
	case []interface{}:
		nodes = v
	default:
		return nil
	}

	items := make([]map[string]interface{}, 0, len(nodes))
	for _, node := range nodes {
		if item, ok := node.(map[string]interface{}); ok {
			items = append(items, item)
		}
	}
	return items
}

// snapshotFromItem builds a snapshot from a single JSON-LD item. The
// item must be a Product or Book with a name and a priced offer.
func snapshotFromItem(item map[string]interface{}) (Snapshot, bool) {
	itemType, _ := item["@type"].(string)
	if itemType != "Product" && itemType != "Book" {
		return Snapshot{}, false
	}

	offer := firstOffer(item["offers"])
	if offer == nil {
		return Snapshot{}, false
	}

	// A missing, empty or zero price falls through to lowPrice
	price, ok := asFloat(offer["price"])
	if !ok {
		price, ok = asFloat(offer["lowPrice"])
	}
	if !ok {
		return Snapshot{}, false
	}

	name, _ := item["name"].(string)
	if name == "" {
		return Snapshot{}, false
	}

	currency, _ := offer["priceCurrency"].(string)

	return Snapshot{
		Price:           price,
		Currency:        SymbolForCurrency(currency),
		ProductName:     name,
		ProductImageURL: firstString(item["image"]),
	}, true
}

// firstOffer returns the offer object, taking the first element when
// offers is a list
func firstOffer(raw interface{}) map[string]interface{} {
	switch v := raw.(type) {
	case map[string]interface{}:
		return v
	case []interface{}:
		if len(v) > 0 {
			if offer, ok := v[0].(map[string]interface{}); ok {
				return offer
			}
		}
	}
	return nil
}

// firstString returns the value as a string, taking the first element
// when the value is a list
func firstString(raw interface{}) string {
	switch v := raw.(type) {
	case string:
		return v
	case []interface{}:
		if len(v) > 0 {
			if s, ok := v[0].(string); ok {
				return s
			}
		}
	}
	return ""
}

// asFloat coerces a JSON-LD price value, which may be a number or a
// numeric string
func asFloat(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, v != 0
	case string:
		price, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return price, true
	}
	return 0, false
}
