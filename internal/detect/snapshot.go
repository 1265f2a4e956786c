// Package detect implements the ad-card detection engine: given a DOM
// snapshot collected by the renderer (marker-bearing elements plus their
// ancestor chains), it locates card-shaped containers, extracts the
// structured ad fields, and deduplicates overlapping detections. The
// package is pure Go and needs no browser; renderers feed it data, tests
// feed it synthetic fixtures.
package detect

import "github.com/user/ad-intel-service/internal/entity"

// Rect is an element bounding box. Top/Left are absolute page
// coordinates (viewport offset already added by the renderer).
type Rect struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Link is an anchor inside a candidate container.
type Link struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

// Element is one DOM element in a candidate's ancestor chain, carrying
// everything the detector and field extractors need to decide without
// going back to the live page.
type Element struct {
	// NodeID is a renderer-assigned identity, stable within one
	// snapshot. The detector's seen-set is keyed on it.
	NodeID     int      `json:"nodeId"`
	Rect       Rect     `json:"rect"`
	ImageCount int      `json:"imageCount"`
	HasVideo   bool     `json:"hasVideo"`
	AriaLabels []string `json:"ariaLabels"`
	Text       string   `json:"text"`
	Links      []Link   `json:"links"`
	Buttons    []string `json:"buttons"`
}

// Candidate is one marker-bearing element's ancestor chain, innermost
// first. The marker element itself is Ancestors[0].
type Candidate struct {
	Ancestors []Element `json:"ancestors"`
}

// Position converts a Rect to the entity form carried on detected cards.
func (r Rect) Position() entity.CardPosition {
	return entity.CardPosition{Top: r.Top, Left: r.Left, Width: r.Width, Height: r.Height}
}
