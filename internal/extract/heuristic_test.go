package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeuristicExtraction(t *testing.T) {
	doc := docFromHTML(t, `
		<html><head>
			<title>Gizmo Deluxe | MegaShop</title>
			<meta property="og:image" content="https://img.example.com/gizmo.jpg"/>
		</head><body>
			<h1>Gizmo Deluxe</h1>
			<button class="btn add-to-cart">Add to cart</button>
			<span>$12.99 shipping</span>
			<div>Price: $89.99</div>
		</body></html>
	`)

	snapshot, ok := (&HeuristicStrategy{}).TryExtract(doc, "shop.example.com")
	assert.True(t, ok)
	// The context-flagged candidate beats the bare one
	assert.Equal(t, 89.99, snapshot.Price)
	assert.Equal(t, "$", snapshot.Currency)
	assert.Equal(t, "Gizmo Deluxe", snapshot.ProductName)
	assert.Equal(t, "https://img.example.com/gizmo.jpg", snapshot.ProductImageURL)
}

func TestHeuristicAddToCartGate(t *testing.T) {
	// Prices galore, but nothing resembling an add-to-cart control:
	// not a product page, no scan at all.
	doc := docFromHTML(t, `
		<h1>Ten Gadgets Under $50</h1>
		<div>Price: $19.99</div>
		<div>Price: $29.99</div>
	`)

	_, ok := (&HeuristicStrategy{}).TryExtract(doc, "blog.example.com")
	assert.False(t, ok)
}

func TestHeuristicSkippedForProfiledSites(t *testing.T) {
	doc := docFromHTML(t, `
		<button class="add-to-cart">Add</button>
		<div>Price: $10.50</div>
	`)

	_, ok := (&HeuristicStrategy{}).TryExtract(doc, "www.amazon.com")
	assert.False(t, ok)
}

func TestHeuristicFontSizeRanking(t *testing.T) {
	// Neither candidate has a context keyword; the larger font wins
	doc := docFromHTML(t, `
		<button id="addtocart-main">Add</button>
		<span style="font-size: 12px">$5.00</span>
		<span style="font-size: 32px">$499.00</span>
	`)

	snapshot, ok := (&HeuristicStrategy{}).TryExtract(doc, "shop.example.com")
	assert.True(t, ok)
	assert.Equal(t, 499.0, snapshot.Price)
}

func TestHeuristicContextBeatsFontSize(t *testing.T) {
	doc := docFromHTML(t, `
		<button id="addtocart-main">Add</button>
		<span style="font-size: 48px">$5.00</span>
		<span style="font-size: 10px">Total $499.00</span>
	`)

	snapshot, ok := (&HeuristicStrategy{}).TryExtract(doc, "shop.example.com")
	assert.True(t, ok)
	assert.Equal(t, 499.0, snapshot.Price)
}

func TestHeuristicPriceRangeFilter(t *testing.T) {
	testCases := []struct {
		name string
		html string
	}{
		{
			name: "too small",
			html: `<button class="add-to-cart">Add</button><span>price $1.00</span>`,
		},
		{
			name: "too large",
			html: `<button class="add-to-cart">Add</button><span>price $10,000,000</span>`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			doc := docFromHTML(t, tc.html)
			_, ok := (&HeuristicStrategy{}).TryExtract(doc, "shop.example.com")
			assert.False(t, ok)
		})
	}
}

func TestHeuristicLongTextIgnored(t *testing.T) {
	longText := "This paragraph mentions a price of $42.00 somewhere inside a wall of words that runs well past the hundred character limit for candidate elements."
	doc := docFromHTML(t, `
		<button class="add-to-cart">Add</button>
		<p>`+longText+`</p>
	`)

	_, ok := (&HeuristicStrategy{}).TryExtract(doc, "shop.example.com")
	assert.False(t, ok)
}

func TestHeuristicCurrencySymbols(t *testing.T) {
	testCases := []struct {
		symbol string
		text   string
	}{
		{"€", "price €45.00"},
		{"£", "price £45.00"},
		{"₹", "price ₹4,500"},
		{"$", "price $ 45.00"},
	}

	for _, tc := range testCases {
		t.Run(tc.symbol, func(t *testing.T) {
			doc := docFromHTML(t, `<button class="add-to-cart">Add</button><span>`+tc.text+`</span>`)
			snapshot, ok := (&HeuristicStrategy{}).TryExtract(doc, "shop.example.com")
			assert.True(t, ok)
			assert.Equal(t, tc.symbol, snapshot.Currency)
		})
	}
}

func TestDetectProductNameFallbacks(t *testing.T) {
	// og:title when the page has no h1
	doc := docFromHTML(t, `<head><meta property="og:title" content="Meta Gizmo"/><title>ignored</title></head>`)
	assert.Equal(t, "Meta Gizmo", detectProductName(doc))

	// Title with suffixes stripped
	doc = docFromHTML(t, `<head><title>Plain Gizmo | MegaShop - Best Prices</title></head>`)
	assert.Equal(t, "Plain Gizmo", detectProductName(doc))
}

func TestInlineFontSize(t *testing.T) {
	doc := docFromHTML(t, `
		<span id="sized" style="color: red; font-size: 24.5px">x</span>
		<span id="unsized">x</span>
	`)

	assert.Equal(t, 24.5, inlineFontSize(doc.Find("#sized")))
	assert.Equal(t, 0.0, inlineFontSize(doc.Find("#unsized")))
}
