package extract

import "github.com/PuerkitoBio/goquery"

// ResolveFirst tries each selector in order against the document and
// returns the first matching selection. Returns nil when none match;
// an unmatched selector is not an error.
func ResolveFirst(doc *goquery.Document, selectors []string) *goquery.Selection {
	for _, selector := range selectors {
		sel := doc.Find(selector)
		if sel.Length() > 0 {
			return sel.First()
		}
	}
	return nil
}
