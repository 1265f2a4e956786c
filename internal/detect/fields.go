package detect

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/user/ad-intel-service/internal/entity"
)

// Hard caps on persisted field lengths. These bound storage and UI
// rendering cost; truncation is silent.
const (
	maxAdvertiserLen = 100
	maxAdCopyLen     = 800
	maxCTALen        = 50
	maxLandingURLLen = 500

	// adCopyTarget stops line accumulation once reached; maxAdCopyLen
	// still applies as the hard cap afterwards.
	adCopyTarget = 500

	// CTA labels are short by nature; anything longer is body text that
	// happens to contain a CTA word, regardless of vocabulary match.
	maxCTACandidateLen = 25

	// minCopyLineLen filters out metadata rows and stray labels when
	// assembling ad copy.
	minCopyLineLen = 30
)

var startDateRe = regexp.MustCompile(StartMarker + ` ([A-Za-z]+ \d{1,2},? \d{4})`)

// extractAdvertiser picks the first link whose text looks like a page
// name: 2-80 characters (exclusive) and not on the denylist of chrome
// strings, platform names and CTA words.
func extractAdvertiser(links []Link) string {
	for _, link := range links {
		text := strings.TrimSpace(link.Text)
		if len(text) <= 2 || len(text) >= 80 {
			continue
		}
		if matchesDenylist(text) {
			continue
		}
		return text
	}
	return "Unknown"
}

func matchesDenylist(text string) bool {
	for _, bad := range advertiserDenylist {
		if strings.Contains(text, bad) {
			return true
		}
	}
	lower := strings.ToLower(text)
	for _, bad := range advertiserDenylistLower {
		if strings.Contains(lower, bad) {
			return true
		}
	}
	return false
}

// extractAdCopy concatenates the container's substantial text lines,
// skipping metadata rows and the advertiser name, until the target
// length is reached.
func extractAdCopy(text, advertiser string) string {
	var parts []string
	total := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) <= minCopyLineLen || line == advertiser {
			continue
		}
		if copyLineExcluded(line) {
			continue
		}
		parts = append(parts, line)
		total += len(line) + 1
		if total > adCopyTarget {
			break
		}
	}
	return truncate(strings.Join(parts, " "), maxAdCopyLen)
}

func copyLineExcluded(line string) bool {
	for _, bad := range copyLineDenylist {
		if strings.Contains(line, bad) {
			return true
		}
	}
	return false
}

// extractStartDate pulls the raw date substring following the start
// marker, or empty when absent.
func extractStartDate(text string) string {
	m := startDateRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

// classifyMediaType decides video, carousel or image (the default).
// Video affordances win over carousel ones.
func classifyMediaType(el Element) entity.MediaType {
	textLower := strings.ToLower(el.Text)
	if el.HasVideo || strings.Contains(textLower, "watch video") || hasAria(el, "video") {
		return entity.MediaVideo
	}
	if el.ImageCount > 2 || hasAria(el, "carousel") || hasAria(el, "scroll") || hasAria(el, "next") {
		return entity.MediaCarousel
	}
	return entity.MediaImage
}

func hasAria(el Element, fragment string) bool {
	for _, label := range el.AriaLabels {
		if strings.Contains(strings.ToLower(label), fragment) {
			return true
		}
	}
	return false
}

// extractCTAAndLanding scans the container's links once for both the CTA
// label and the landing URL.
//
// A link text qualifies as CTA only when it is short (<= 25 chars) AND
// equals or closely prefixes a vocabulary phrase; the asymmetric gate
// rejects mis-captured body text containing a CTA word. If no anchor
// qualifies, role="button" elements are scanned under the same rule
// (with a looser substring match, as the original layout renders button
// labels with surrounding affordance text).
//
// The landing URL is the first absolute, non-platform href; a platform
// redirect URL carrying a destination parameter is decoded to its inner
// destination instead.
func extractCTAAndLanding(container Element) (cta, landing string) {
	for _, link := range container.Links {
		text := strings.TrimSpace(link.Text)

		if cta == "" && len(text) <= maxCTACandidateLen {
			cta = matchCTAPhrase(text, false)
		}

		if landing == "" {
			landing = resolveLandingURL(link.Href)
		}
	}

	if cta == "" {
		for _, label := range container.Buttons {
			label = strings.TrimSpace(label)
			if len(label) > maxCTACandidateLen {
				continue
			}
			if cta = matchCTAPhrase(label, true); cta != "" {
				break
			}
		}
	}
	return cta, landing
}

// matchCTAPhrase returns text when it matches the CTA vocabulary, else
// empty. Anchors require an exact or close-prefix match; buttons accept
// a substring match.
func matchCTAPhrase(text string, substring bool) string {
	lower := strings.ToLower(text)
	for _, phrase := range ctaPhrases {
		switch {
		case lower == phrase:
			return text
		case substring && strings.Contains(lower, phrase):
			return text
		case !substring && strings.HasPrefix(lower, phrase) && len(text) <= len(phrase)+5:
			return text
		}
	}
	return ""
}

func resolveLandingURL(href string) string {
	if href == "" || !strings.HasPrefix(href, "http") {
		return ""
	}
	if strings.Contains(href, redirectHost) {
		u, err := url.Parse(href)
		if err != nil {
			return ""
		}
		return u.Query().Get("u")
	}
	for _, host := range platformHosts {
		if strings.Contains(href, host) {
			return ""
		}
	}
	return href
}

// truncate hard-caps s at max bytes, backing up to a rune boundary so
// the cut never produces invalid UTF-8.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
