package extract

import "github.com/PuerkitoBio/goquery"

// Snapshot is a single extraction result. It is transient: callers
// persist it through the history store, never directly.
type Snapshot struct {
	Price           float64 `json:"price"`
	Currency        string  `json:"currency"`
	ProductName     string  `json:"productName"`
	ProductImageURL string  `json:"productImageUrl,omitempty"`
}

// Strategy is a single extraction approach. A miss is a normal
// outcome, reported as ok=false, never as an error.
type Strategy interface {
	// TryExtract attempts to produce a snapshot from the document.
	TryExtract(doc *goquery.Document, hostname string) (Snapshot, bool)

	// Name returns the strategy name for logging
	Name() string
}

// currencySymbols maps ISO currency codes to display symbols.
// Unknown codes fall back to "$".
var currencySymbols = map[string]string{
	"USD": "$",
	"INR": "₹",
	"EUR": "€",
	"GBP": "£",
	"CAD": "$",
}

// SymbolForCurrency returns the display symbol for an ISO currency code
func SymbolForCurrency(code string) string {
	if symbol, ok := currencySymbols[code]; ok {
		return symbol
	}
	return "$"
}
