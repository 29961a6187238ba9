package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractStructuredDataWins(t *testing.T) {
	// Structured data, a matching profile page, and heuristic-friendly
	// markup all present: structured data must win.
	doc := docFromHTML(t, `
		<script type="application/ld+json">
		{"@type":"Product","name":"Authoritative","offers":{"price":"10.00","priceCurrency":"USD"}}
		</script>
		<button id="add-to-cart-button">Add to Cart</button>
		<span id="productTitle">Selector Name</span>
		<div id="corePrice_feature_div"><span class="a-offscreen">$99.00</span></div>
	`)

	snapshot, ok := NewExtractor().Extract(doc, "www.amazon.com")
	assert.True(t, ok)
	assert.Equal(t, "Authoritative", snapshot.ProductName)
	assert.Equal(t, 10.0, snapshot.Price)
}

func TestExtractFallsBackToProfile(t *testing.T) {
	doc := docFromHTML(t, `
		<button id="add-to-cart-button">Add to Cart</button>
		<span id="productTitle">Selector Name</span>
		<div id="corePrice_feature_div"><span class="a-offscreen">$99.00</span></div>
	`)

	snapshot, ok := NewExtractor().Extract(doc, "www.amazon.com")
	assert.True(t, ok)
	assert.Equal(t, "Selector Name", snapshot.ProductName)
	assert.Equal(t, 99.0, snapshot.Price)
}

func TestExtractHeuristicsOnlyForUnprofiledHosts(t *testing.T) {
	html := `
		<h1>Gizmo</h1>
		<button class="add-to-cart">Add</button>
		<div>Price: $42.00</div>
	`

	// A profiled host whose markup no longer matches must miss rather
	// than escalate to heuristics.
	_, ok := NewExtractor().Extract(docFromHTML(t, html), "www.flipkart.com")
	assert.False(t, ok)

	// The same document extracts fine for an unprofiled host
	snapshot, ok := NewExtractor().Extract(docFromHTML(t, html), "shop.example.com")
	assert.True(t, ok)
	assert.Equal(t, 42.0, snapshot.Price)
}

func TestExtractAllMiss(t *testing.T) {
	doc := docFromHTML(t, `<h1>Just an article</h1><p>No commerce here.</p>`)

	snapshot, ok := NewExtractor().Extract(doc, "blog.example.com")
	assert.False(t, ok)
	assert.Zero(t, snapshot)
}

func TestExtractEndToEndJSONLD(t *testing.T) {
	doc := docFromHTML(t, `
		<script type="application/ld+json">
		{"@type":"Product","name":"Widget","offers":{"price":"49.99","priceCurrency":"USD"}}
		</script>
	`)

	snapshot, ok := NewExtractor().Extract(doc, "anything.example.com")
	assert.True(t, ok)
	assert.Equal(t, Snapshot{Price: 49.99, Currency: "$", ProductName: "Widget"}, snapshot)
}
