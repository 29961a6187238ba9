package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	profilePriceRegex    = regexp.MustCompile(`(\d+(\.\d{1,2})?)`)
	profileCurrencyRegex = regexp.MustCompile(`[$€£₹]`)
)

// ProfileStrategy extracts product data using the locator lists of a
// known site profile. Misses when no profile exists for the hostname.
type ProfileStrategy struct{}

// Name returns the strategy name for logging
func (s *ProfileStrategy) Name() string {
	return "profile"
}

// TryExtract applies the hostname's site profile. The page marker must
// resolve, proving this is a product-detail page; without it a listing
// or search page would yield junk matches.
func (s *ProfileStrategy) TryExtract(doc *goquery.Document, hostname string) (Snapshot, bool) {
	profile, ok := ProfileFor(hostname)
	if !ok {
		return Snapshot{}, false
	}

	if marker := ResolveFirst(doc, profile.PageMarker); marker == nil {
		return Snapshot{}, false
	}

	nameSel := ResolveFirst(doc, profile.Name)
	priceSel := ResolveFirst(doc, profile.Price)
	if nameSel == nil || priceSel == nil {
		return Snapshot{}, false
	}

	name := strings.TrimSpace(nameSel.Text())
	priceText := strings.TrimSpace(priceSel.Text())

	priceMatch := profilePriceRegex.FindString(strings.ReplaceAll(priceText, ",", ""))
	if priceMatch == "" {
		return Snapshot{}, false
	}
	price, err := strconv.ParseFloat(priceMatch, 64)
	if err != nil {
		return Snapshot{}, false
	}

	// Default to ₹ when the price text carries no symbol: the profiled
	// sites are predominantly Indian storefronts. Documented behavior,
	// kept as-is even though it is wrong for symbol-less non-INR sites.
	currency := profileCurrencyRegex.FindString(priceText)
	if currency == "" {
		currency = "₹"
	}

	var image string
	if imageSel := ResolveFirst(doc, profile.Image); imageSel != nil {
		image, _ = imageSel.Attr("src")
	}

	return Snapshot{
		Price:           price,
		Currency:        currency,
		ProductName:     name,
		ProductImageURL: image,
	}, true
}
