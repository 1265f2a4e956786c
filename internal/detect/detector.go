package detect

import (
	"sort"

	"github.com/user/ad-intel-service/internal/entity"
)

// Card geometry windows, chosen empirically against the ad library's
// rendered layout. The outer window accepts the first-pass container;
// the tight window re-validates the inner preview during capture.
const (
	minCardWidth  = 300.0
	maxCardWidth  = 1000.0
	minCardHeight = 250.0
	maxCardHeight = 1200.0

	// MaxAncestorWalk bounds the phase-2 climb from a marker element to
	// its card container. Renderers snapshot exactly this many ancestors.
	MaxAncestorWalk = 10

	// MaxMarkerTextLen excludes whole-page containers from the phase-1
	// marker scan.
	MaxMarkerTextLen = 2000
)

// DedupeRadius is the 2-D proximity threshold: two detections closer
// than this in BOTH axes are the same physical ad re-detected at a
// different scroll offset.
const DedupeRadius = 50.0

// IsCardShaped reports whether an element plausibly is an ad card rather
// than page scaffolding: it must contain at least one image and have
// card-sized bounding dimensions. The dual constraint is what separates
// a real card from the feed's outer containers, which also carry the
// marker text.
func IsCardShaped(el Element) bool {
	if el.ImageCount == 0 {
		return false
	}
	w, h := el.Rect.Width, el.Rect.Height
	return w > minCardWidth && w < maxCardWidth && h > minCardHeight && h < maxCardHeight
}

// Cards runs the two-phase detection over a snapshot: for each
// marker-bearing candidate, walk up the ancestor chain to the first
// card-shaped container, extract the structured fields, and collect at
// most one card per distinct container. The result is sorted into
// reading order (top to bottom, then left to right) and NOT yet
// deduplicated by position; see Dedupe.
func Cards(candidates []Candidate) []entity.DetectedCard {
	seen := make(map[int]struct{})
	var cards []entity.DetectedCard

	for _, cand := range candidates {
		container, ok := findContainer(cand)
		if !ok {
			// No ancestor satisfied the shape constraints; the marker
			// contributes nothing.
			continue
		}
		if _, dup := seen[container.NodeID]; dup {
			continue
		}
		seen[container.NodeID] = struct{}{}
		cards = append(cards, extractCard(container))
	}

	sort.SliceStable(cards, func(i, j int) bool {
		if cards[i].Position.Top != cards[j].Position.Top {
			return cards[i].Position.Top < cards[j].Position.Top
		}
		return cards[i].Position.Left < cards[j].Position.Left
	})
	return cards
}

func findContainer(cand Candidate) (Element, bool) {
	n := len(cand.Ancestors)
	if n > MaxAncestorWalk {
		n = MaxAncestorWalk
	}
	for i := 0; i < n; i++ {
		if IsCardShaped(cand.Ancestors[i]) {
			return cand.Ancestors[i], true
		}
	}
	return Element{}, false
}

func extractCard(container Element) entity.DetectedCard {
	advertiser := extractAdvertiser(container.Links)
	cta, landing := extractCTAAndLanding(container)
	return entity.DetectedCard{
		Position:       container.Rect.Position(),
		AdvertiserName: truncate(advertiser, maxAdvertiserLen),
		AdCopy:         extractAdCopy(container.Text, advertiser),
		StartDate:      extractStartDate(container.Text),
		CTAText:        truncate(cta, maxCTALen),
		LandingURL:     truncate(landing, maxLandingURLLen),
		MediaType:      classifyMediaType(container),
	}
}

// Dedupe collapses near-duplicate detections. A card is dropped iff an
// already-accepted card sits within DedupeRadius in both the vertical
// and horizontal axis; a single-axis check would merge distinct ads
// sharing a grid row or column. Input is assumed sorted (Cards output).
func Dedupe(cards []entity.DetectedCard) []entity.DetectedCard {
	var unique []entity.DetectedCard
	for _, card := range cards {
		dup := false
		for _, u := range unique {
			if abs(u.Position.Top-card.Position.Top) < DedupeRadius &&
				abs(u.Position.Left-card.Position.Left) < DedupeRadius {
				dup = true
				break
			}
		}
		if !dup {
			unique = append(unique, card)
		}
	}
	return unique
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
