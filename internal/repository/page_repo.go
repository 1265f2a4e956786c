package repository

import (
	"context"
	"time"

	"github.com/user/ad-intel-service/internal/detect"
)

// PageSession is one live browser page, exclusively owned by a single
// scrape session for its whole lifetime. No other component may scroll
// or navigate it concurrently.
type PageSession interface {
	// Navigate loads the target URL. A timeout here is fatal to the
	// session and surfaces as ErrNavigationTimeout.
	Navigate(ctx context.Context, url string) error

	// WaitNetworkIdle blocks until in-flight network activity settles or
	// the timeout expires (ErrNetworkIdleTimeout, non-fatal).
	WaitNetworkIdle(ctx context.Context, timeout time.Duration) error

	// ScrollBy scrolls the viewport forward by deltaY logical pixels.
	ScrollBy(ctx context.Context, deltaY int) error

	// ScrollTo scrolls so the given absolute page offset is at the top
	// of the viewport.
	ScrollTo(ctx context.Context, top float64) error

	// MarkerCount returns the raw number of marker-bearing elements
	// currently in the DOM. It is a cheap proxy, not a card count:
	// several elements per ad carry the marker text.
	MarkerCount(ctx context.Context) (int, error)

	// CollectCandidates snapshots every marker-bearing element with its
	// ancestor chain for the Go-side detector.
	CollectCandidates(ctx context.Context) ([]detect.Candidate, error)

	// TightCardBounds re-queries the live DOM for the inner ad preview
	// near the expected absolute top position. The returned rect is in
	// absolute page coordinates; ok is false when no plausible element
	// is found.
	TightCardBounds(ctx context.Context, expectedTop float64) (rect detect.Rect, ok bool, err error)

	// CaptureClip screenshots the given page-coordinate region.
	CaptureClip(ctx context.Context, clip detect.Rect) ([]byte, error)

	// CaptureFullPage screenshots the entire page, used for debug shots.
	CaptureFullPage(ctx context.Context) ([]byte, error)

	// Close tears down the page and its browser context.
	Close() error
}

// PageFactory opens fresh browser sessions. Implementations may pool
// the underlying browser allocators.
type PageFactory interface {
	NewSession(ctx context.Context) (PageSession, error)
}
