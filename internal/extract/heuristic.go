package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxCandidateTextLength = 100

// Candidate prices outside this range are discarded as noise
// (quantities, phone numbers, SKU fragments).
const (
	minPlausiblePrice = 1
	maxPlausiblePrice = 10_000_000
)

var (
	heuristicPriceRegex = regexp.MustCompile(`([$€£₹])\s?(\d{1,3}(?:,\d{3})*(?:\.\d{2})?)`)
	fontSizeRegex       = regexp.MustCompile(`font-size:\s*([0-9.]+)px`)

	priceContextKeywords = []string{"price", "total", "buy", "checkout"}

	addToCartSelectors = []string{
		`[data-test*="add-to-cart"]`,
		`[data-testid*="add-to-cart"]`,
		`button[class*="add-to-cart"]`,
		`button[id*="add-to-cart"]`,
		`button[class*="addtocart"]`,
		`button[id*="addtocart"]`,
	}
)

// priceCandidate is a currency-prefixed number found in the document,
// scored by its surrounding context
type priceCandidate struct {
	text       string
	price      float64
	currency   string
	hasContext bool
	fontSize   float64
}

// HeuristicStrategy is the last-resort extractor: no site-specific
// knowledge, just currency-prefixed numbers ranked by context keywords
// and font size. It never runs for hostnames with a site profile; a
// known site whose markup temporarily doesn't match should miss rather
// than misfire on unrelated numbers.
type HeuristicStrategy struct{}

// Name returns the strategy name for logging
func (s *HeuristicStrategy) Name() string {
	return "heuristic"
}

// TryExtract scans text-bearing elements for price candidates and
// picks the best one. Gated on the presence of an add-to-cart-like
// element; without one the page is not treated as a product page.
func (s *HeuristicStrategy) TryExtract(doc *goquery.Document, hostname string) (Snapshot, bool) {
	if _, hasProfile := ProfileFor(hostname); hasProfile {
		return Snapshot{}, false
	}

	if !isProductPage(doc) {
		return Snapshot{}, false
	}

	best, ok := chooseBestPrice(findPriceCandidates(doc))
	if !ok {
		return Snapshot{}, false
	}

	return Snapshot{
		Price:           best.price,
		Currency:        best.currency,
		ProductName:     detectProductName(doc),
		ProductImageURL: detectProductImage(doc),
	}, true
}

// isProductPage reports whether the document has an add-to-cart-like
// element
func isProductPage(doc *goquery.Document) bool {
	for _, selector := range addToCartSelectors {
		if doc.Find(selector).Length() > 0 {
			return true
		}
	}
	return false
}

// findPriceCandidates collects currency-prefixed numbers from short
// text-bearing elements
func findPriceCandidates(doc *goquery.Document) []priceCandidate {
	var candidates []priceCandidate

	doc.Find("h1, h2, h3, h4, span, div, p, strong").Each(func(i int, sel *goquery.Selection) {
		text := collapseWhitespace(sel.Text())
		if text == "" || len([]rune(text)) > maxCandidateTextLength {
			return
		}

		match := heuristicPriceRegex.FindStringSubmatch(text)
		if match == nil {
			return
		}

		price, err := strconv.ParseFloat(strings.ReplaceAll(match[2], ",", ""), 64)
		if err != nil {
			return
		}

		lowerText := strings.ToLower(text)
		hasContext := false
		for _, keyword := range priceContextKeywords {
			if strings.Contains(lowerText, keyword) {
				hasContext = true
				break
			}
		}

		candidates = append(candidates, priceCandidate{
			text:       text,
			price:      price,
			currency:   match[1],
			hasContext: hasContext,
			fontSize:   inlineFontSize(sel),
		})
	})

	return candidates
}

// chooseBestPrice filters candidates to the plausible range and ranks
// them: context-flagged first, then larger font size
func chooseBestPrice(candidates []priceCandidate) (priceCandidate, bool) {
	filtered := candidates[:0:0]
	for _, c := range candidates {
		if c.price > minPlausiblePrice && c.price < maxPlausiblePrice {
			filtered = append(filtered, c)
		}
	}
	if len(filtered) == 0 {
		return priceCandidate{}, false
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].hasContext != filtered[j].hasContext {
			return filtered[i].hasContext
		}
		return filtered[i].fontSize > filtered[j].fontSize
	})

	return filtered[0], true
}

// detectProductName derives a name independently of the price: first
// h1, else og:title, else the document title with a trailing
// "|"- or "-"-delimited suffix stripped
func detectProductName(doc *goquery.Document) string {
	if h1 := doc.Find("h1").First(); h1.Length() > 0 {
		if name := collapseWhitespace(h1.Text()); name != "" {
			return name
		}
	}

	if ogTitle, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && strings.TrimSpace(ogTitle) != "" {
		return strings.TrimSpace(ogTitle)
	}

	title := doc.Find("title").First().Text()
	title = strings.Split(title, "|")[0]
	title = strings.Split(title, "-")[0]
	return strings.TrimSpace(title)
}

// detectProductImage returns the og:image URL, if any
func detectProductImage(doc *goquery.Document) string {
	if ogImage, ok := doc.Find(`meta[property="og:image"]`).Attr("content"); ok {
		return strings.TrimSpace(ogImage)
	}
	return ""
}

// inlineFontSize parses a pixel font size from the element's inline
// style. Returns 0 when indeterminate; computed styles are not
// available on a detached document.
func inlineFontSize(sel *goquery.Selection) float64 {
	style, ok := sel.Attr("style")
	if !ok {
		return 0
	}
	match := fontSizeRegex.FindStringSubmatch(style)
	if match == nil {
		return 0
	}
	size, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0
	}
	return size
}

// collapseWhitespace trims and collapses runs of whitespace to single
// spaces, approximating rendered text
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
