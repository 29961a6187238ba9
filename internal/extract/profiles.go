package extract

// Profile holds the locator lists for a known retail site. The page
// marker proves the document is a product-detail page rather than a
// listing or search page.
type Profile struct {
	PageMarker []string
	Name       []string
	Price      []string
	Image      []string
}

// siteProfiles maps hostnames to their locator configuration. These
// selectors track the live markup of each site and are expected to
// rot; a stale profile degrades to a miss, not a failure.
var siteProfiles = map[string]Profile{
	"www.amazon.com": {
		PageMarker: []string{"#add-to-cart-button", "#buy-now-button"},
		Name:       []string{"#productTitle"},
		Price: []string{
			"#corePrice_feature_div .a-offscreen",
			"#price_inside_buybox",
			"#priceblock_ourprice",
			"#priceblock_dealprice",
			".priceToPay span.a-offscreen",
		},
		Image: []string{"#landingImage", "#imgTagWrapperId img"},
	},
	"www.amazon.in": {
		PageMarker: []string{"#add-to-cart-button", "#buy-now-button"},
		Name:       []string{"#productTitle"},
		Price: []string{
			"#corePrice_feature_div .a-offscreen",
			"#price_inside_buybox",
			"#priceblock_ourprice",
			"#priceblock_dealprice",
			".priceToPay span.a-offscreen",
		},
		Image: []string{"#landingImage", "#imgTagWrapperId img"},
	},
	"www.flipkart.com": {
		// Buy Now, Add to Cart
		PageMarker: []string{"button._2KpZ6l._2U9uOA._3v1-ww", "button._2KpZ6l._2U9uOA.i_O-_d"},
		Name:       []string{"span.B_NuCI"},
		Price:      []string{"div._30jeq3._16Jk6d"},
		Image:      []string{"img._396cs4._2amPTt._3qGmMb", "img._2r_T1I"},
	},
}

// ProfileFor returns the site profile for a hostname, if one exists
func ProfileFor(hostname string) (Profile, bool) {
	profile, ok := siteProfiles[hostname]
	return profile, ok
}
