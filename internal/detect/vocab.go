package detect

import "strings"

// Versioned vocabulary tables. Traversal and extraction logic never
// hard-code page phrasing; updating the ad library's wording means
// editing this file only.

// Marker phrases identifying ad-card content in the rendered page.
const (
	// StartMarker is the canonical "ad has been running since" phrasing.
	// Its presence in an element's text is the phase-1 detection signal.
	StartMarker = "Started running on"

	// SponsoredMarker appears inside the ad preview itself and is used by
	// the capture pass to find the tight card bounds.
	SponsoredMarker = "Sponsored"

	// LibraryIDMarker labels the ad library's internal identifier row.
	LibraryIDMarker = "Library ID"
)

// ctaPhrases is the fixed call-to-action vocabulary. A link or button
// label qualifies as a CTA only when it matches one of these under the
// length gate in extractCTA.
var ctaPhrases = []string{
	"learn more", "shop now", "sign up", "get offer",
	"book now", "contact us", "download", "subscribe",
	"get started", "apply now", "order now", "buy now",
	"see more", "watch more", "listen now", "get quote",
	"send message", "call now", "get directions", "watch video",
}

// advertiserDenylist holds substrings that disqualify a link's text from
// being the advertiser name: ad-library chrome, platform names, and
// generic CTA words. Comparison is case-sensitive for the chrome strings
// (the page renders them in a fixed case) and lowercase for CTA words.
var advertiserDenylist = []string{
	LibraryIDMarker,
	StartMarker,
	"INSTAGRAM",
	"FACEBOOK",
}

var advertiserDenylistLower = []string{
	"learn more", "shop now", "sign up", "visit",
}

// copyLineDenylist disqualifies a text line from the ad copy: metadata
// rows the card renders alongside the creative.
var copyLineDenylist = []string{
	StartMarker,
	LibraryIDMarker,
	"About this ad",
	"INSTAGRAM.COM",
	"FACEBOOK.COM",
}

// platformHosts are hostname fragments treated as the ad platform's own
// domains when resolving a landing URL.
var platformHosts = []string{"facebook.com", "instagram.com"}

// redirectHost is the platform's click-tracking redirector; its "u"
// query parameter carries the real destination.
const redirectHost = "l.facebook.com"

// countryCodes maps user-supplied location strings to the ad library's
// two-letter country parameter.
var countryCodes = map[string]string{
	"united states":  "US",
	"usa":            "US",
	"us":             "US",
	"united kingdom": "GB",
	"uk":             "GB",
	"canada":         "CA",
	"australia":      "AU",
	"germany":        "DE",
	"france":         "FR",
	"spain":          "ES",
	"italy":          "IT",
	"brazil":         "BR",
	"mexico":         "MX",
	"india":          "IN",
}

// CountryCode resolves a free-form location to a country parameter,
// defaulting to US.
func CountryCode(location string) string {
	if code, ok := countryCodes[strings.ToLower(strings.TrimSpace(location))]; ok {
		return code
	}
	return "US"
}
