package detect

import (
	"strings"
	"testing"

	"github.com/user/ad-intel-service/internal/entity"
)

func cardElement(nodeID int, top, left float64) Element {
	return Element{
		NodeID:     nodeID,
		Rect:       Rect{Top: top, Left: left, Width: 500, Height: 600},
		ImageCount: 1,
		Text:       "Started running on Mar 5, 2024\nSome advertiser body text that is long enough to count as copy.",
		Links:      []Link{{Text: "Acme Fitness Co", Href: "https://facebook.com/acme"}},
	}
}

func TestIsCardShaped(t *testing.T) {
	tests := []struct {
		name string
		el   Element
		want bool
	}{
		{"card sized with image", Element{ImageCount: 1, Rect: Rect{Width: 500, Height: 600}}, true},
		{"no image", Element{ImageCount: 0, Rect: Rect{Width: 500, Height: 600}}, false},
		{"too narrow", Element{ImageCount: 1, Rect: Rect{Width: 300, Height: 600}}, false},
		{"too wide", Element{ImageCount: 1, Rect: Rect{Width: 1000, Height: 600}}, false},
		{"too short", Element{ImageCount: 1, Rect: Rect{Width: 500, Height: 250}}, false},
		{"too tall", Element{ImageCount: 1, Rect: Rect{Width: 500, Height: 1200}}, false},
		{"lower bounds exclusive", Element{ImageCount: 1, Rect: Rect{Width: 301, Height: 251}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCardShaped(tt.el); got != tt.want {
				t.Errorf("IsCardShaped() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCardsWalksToFirstCardShapedAncestor(t *testing.T) {
	// Marker element itself is tiny; the card container is two levels up.
	cand := Candidate{Ancestors: []Element{
		{NodeID: 1, Rect: Rect{Width: 200, Height: 40}, Text: "Started running on Mar 5, 2024"},
		{NodeID: 2, Rect: Rect{Width: 280, Height: 90}, ImageCount: 0},
		cardElement(3, 400, 20),
		{NodeID: 4, Rect: Rect{Width: 1400, Height: 4000}, ImageCount: 5},
	}}

	cards := Cards([]Candidate{cand})
	if len(cards) != 1 {
		t.Fatalf("got %d cards, want 1", len(cards))
	}
	if cards[0].Position.Top != 400 || cards[0].Position.Left != 20 {
		t.Errorf("card position = %+v, want the node-3 container", cards[0].Position)
	}
	if cards[0].StartDate != "Mar 5, 2024" {
		t.Errorf("StartDate = %q", cards[0].StartDate)
	}
}

func TestCardsSkipsCandidateWithNoQualifyingAncestor(t *testing.T) {
	cand := Candidate{Ancestors: []Element{
		{NodeID: 1, Rect: Rect{Width: 200, Height: 40}},
		{NodeID: 2, Rect: Rect{Width: 1400, Height: 5000}, ImageCount: 3},
	}}
	if cards := Cards([]Candidate{cand}); len(cards) != 0 {
		t.Fatalf("got %d cards, want 0", len(cards))
	}
}

func TestCardsIgnoresAncestorsBeyondWalkLimit(t *testing.T) {
	ancestors := make([]Element, 0, MaxAncestorWalk+1)
	for i := 0; i < MaxAncestorWalk; i++ {
		ancestors = append(ancestors, Element{NodeID: i + 1, Rect: Rect{Width: 100, Height: 30}})
	}
	// A valid container at depth 11 must not be reached.
	ancestors = append(ancestors, cardElement(99, 100, 0))

	if cards := Cards([]Candidate{{Ancestors: ancestors}}); len(cards) != 0 {
		t.Fatalf("got %d cards, want 0: ancestor beyond the walk limit was accepted", len(cards))
	}
}

func TestCardsDeduplicatesByContainerIdentity(t *testing.T) {
	// Two markers inside the same card resolve to the same container.
	shared := cardElement(7, 300, 10)
	cands := []Candidate{
		{Ancestors: []Element{{NodeID: 1, Rect: Rect{Width: 100, Height: 20}}, shared}},
		{Ancestors: []Element{{NodeID: 2, Rect: Rect{Width: 100, Height: 20}}, shared}},
	}
	if cards := Cards(cands); len(cards) != 1 {
		t.Fatalf("got %d cards, want 1", len(cards))
	}
}

func TestCardsSortsIntoReadingOrder(t *testing.T) {
	cands := []Candidate{
		{Ancestors: []Element{cardElement(1, 900, 400)}},
		{Ancestors: []Element{cardElement(2, 100, 400)}},
		{Ancestors: []Element{cardElement(3, 100, 10)}},
	}
	cards := Cards(cands)
	if len(cards) != 3 {
		t.Fatalf("got %d cards, want 3", len(cards))
	}
	got := []entity.CardPosition{cards[0].Position, cards[1].Position, cards[2].Position}
	if got[0].Top != 100 || got[0].Left != 10 || got[1].Top != 100 || got[1].Left != 400 || got[2].Top != 900 {
		t.Errorf("unexpected order: %+v", got)
	}
}

func TestDedupeRequiresProximityInBothAxes(t *testing.T) {
	mk := func(top, left float64) entity.DetectedCard {
		return entity.DetectedCard{Position: entity.CardPosition{Top: top, Left: left}}
	}
	// Same row (grid layout): close tops, distant lefts. Both must survive.
	sameRow := Dedupe([]entity.DetectedCard{mk(100, 0), mk(110, 400)})
	if len(sameRow) != 2 {
		t.Errorf("same-row cards merged: got %d, want 2", len(sameRow))
	}
	// Same column: distant tops, close lefts. Both must survive.
	sameCol := Dedupe([]entity.DetectedCard{mk(100, 0), mk(700, 10)})
	if len(sameCol) != 2 {
		t.Errorf("same-column cards merged: got %d, want 2", len(sameCol))
	}
	// Close in both axes: a re-detection of the same physical ad.
	near := Dedupe([]entity.DetectedCard{mk(100, 0), mk(140, 30)})
	if len(near) != 1 {
		t.Errorf("near-duplicate kept: got %d, want 1", len(near))
	}
}

func TestDedupeTenRawFourOverlapping(t *testing.T) {
	mk := func(top, left float64) entity.DetectedCard {
		return entity.DetectedCard{Position: entity.CardPosition{Top: top, Left: left}}
	}
	cards := []entity.DetectedCard{
		mk(100, 0), mk(120, 20), // dup of the first
		mk(100, 400),
		mk(500, 0), mk(530, 40), // dup
		mk(500, 400), mk(540, 420), // dup
		mk(900, 0),
		mk(900, 400), mk(910, 390), // dup
	}
	deduped := Dedupe(cards)
	if len(deduped) != 6 {
		t.Fatalf("got %d cards after dedupe, want 6", len(deduped))
	}
	// Pairwise distance property: every surviving pair is separated by at
	// least the radius in one axis.
	for i := range deduped {
		for j := i + 1; j < len(deduped); j++ {
			dTop := abs(deduped[i].Position.Top - deduped[j].Position.Top)
			dLeft := abs(deduped[i].Position.Left - deduped[j].Position.Left)
			if dTop < DedupeRadius && dLeft < DedupeRadius {
				t.Errorf("cards %d and %d within radius in both axes", i, j)
			}
		}
	}
}

func TestExtractCardFieldCaps(t *testing.T) {
	longLine := strings.Repeat("x", 900)
	el := Element{
		NodeID:     1,
		Rect:       Rect{Top: 10, Left: 10, Width: 500, Height: 600},
		ImageCount: 1,
		Text:       "Started running on Jan 1, 2024\n" + longLine,
		Links: []Link{
			{Text: strings.Repeat("A", 79), Href: "https://example.com/product"},
		},
	}
	card := extractCard(el)
	if len(card.AdvertiserName) > 100 {
		t.Errorf("advertiser length %d exceeds cap", len(card.AdvertiserName))
	}
	if len(card.AdCopy) > 800 {
		t.Errorf("ad copy length %d exceeds cap", len(card.AdCopy))
	}
	if len(card.CTAText) > 50 {
		t.Errorf("cta length %d exceeds cap", len(card.CTAText))
	}
	if len(card.LandingURL) > 500 {
		t.Errorf("landing url length %d exceeds cap", len(card.LandingURL))
	}
	if card.MediaType != entity.MediaImage {
		t.Errorf("media type = %q, want image default", card.MediaType)
	}
}
