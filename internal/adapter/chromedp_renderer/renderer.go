// Package chromedp_renderer drives a headless Chrome instance over the
// DevTools protocol and implements the page session contract used by
// the scrape pipeline.
package chromedp_renderer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/user/ad-intel-service/internal/detect"
	"github.com/user/ad-intel-service/internal/repository"
)

const (
	viewportWidth  = 1400
	viewportHeight = 900

	userAgent = `Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36`

	// A page counts as network-idle once no request has been in flight
	// for this long.
	quietWindow = 500 * time.Millisecond
	idlePoll    = 200 * time.Millisecond
)

// Factory creates browser sessions backed by a pool of Chrome
// allocator contexts.
type Factory struct {
	allocatorPool *sync.Pool
	navTimeout    time.Duration
	headless      bool
}

// NewFactory builds a session factory. maxConcurrency pre-warms the
// allocator pool so the first searches do not pay browser startup cost.
func NewFactory(maxConcurrency int, headless bool, navTimeout time.Duration) *Factory {
	pool := &sync.Pool{
		New: func() interface{} {
			opts := append(chromedp.DefaultExecAllocatorOptions[:],
				chromedp.Flag("headless", headless),
				chromedp.Flag("disable-gpu", true),
				chromedp.Flag("no-sandbox", true),
				chromedp.Flag("disable-dev-shm-usage", true),
				chromedp.Flag("disable-blink-features", "AutomationControlled"),
				chromedp.UserAgent(userAgent),
			)
			allocCtx, _ := chromedp.NewExecAllocator(context.Background(), opts...)
			return allocCtx
		},
	}

	for i := 0; i < maxConcurrency; i++ {
		allocCtx := pool.Get().(context.Context)
		pool.Put(allocCtx)
	}

	return &Factory{
		allocatorPool: pool,
		navTimeout:    navTimeout,
		headless:      headless,
	}
}

// NewSession opens a fresh browser tab with the standard viewport and
// network tracking enabled.
func (f *Factory) NewSession(ctx context.Context) (repository.PageSession, error) {
	allocCtx := f.allocatorPool.Get().(context.Context)

	taskCtx, cancel := chromedp.NewContext(allocCtx)

	tracker := newNetworkTracker()
	chromedp.ListenTarget(taskCtx, tracker.handle)

	err := chromedp.Run(taskCtx,
		network.Enable(),
		chromedp.EmulateViewport(viewportWidth, viewportHeight),
	)
	if err != nil {
		cancel()
		f.allocatorPool.Put(allocCtx)
		return nil, fmt.Errorf("start browser session: %w", err)
	}

	return &session{
		ctx:        taskCtx,
		cancel:     cancel,
		release:    func() { f.allocatorPool.Put(allocCtx) },
		tracker:    tracker,
		navTimeout: f.navTimeout,
	}, nil
}

type session struct {
	ctx        context.Context
	cancel     context.CancelFunc
	release    func()
	tracker    *networkTracker
	navTimeout time.Duration
	closeOnce  sync.Once
}

func (s *session) Navigate(ctx context.Context, url string) error {
	navCtx, cancel := context.WithTimeout(s.ctx, s.navTimeout)
	defer cancel()

	if err := chromedp.Run(navCtx, chromedp.Navigate(url)); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s", repository.ErrNavigationTimeout, url)
		}
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

func (s *session) WaitNetworkIdle(ctx context.Context, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	var quietSince time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.ctx.Done():
			return s.ctx.Err()
		default:
		}

		if s.tracker.idle() {
			if quietSince.IsZero() {
				quietSince = time.Now()
			}
			if time.Since(quietSince) >= quietWindow {
				return nil
			}
		} else {
			quietSince = time.Time{}
		}

		if time.Now().After(deadline) {
			return repository.ErrNetworkIdleTimeout
		}
		time.Sleep(idlePoll)
	}
}

func (s *session) ScrollBy(ctx context.Context, deltaY int) error {
	script := fmt.Sprintf(`window.scrollBy(0, %d)`, deltaY)
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(script, nil)); err != nil {
		return fmt.Errorf("scroll by %d: %w", deltaY, err)
	}
	return nil
}

func (s *session) ScrollTo(ctx context.Context, top float64) error {
	script := fmt.Sprintf(`window.scrollTo(0, %.0f)`, top)
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(script, nil)); err != nil {
		return fmt.Errorf("scroll to %.0f: %w", top, err)
	}
	return nil
}

func (s *session) MarkerCount(ctx context.Context) (int, error) {
	var count int
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(markerCountScript(), &count)); err != nil {
		return 0, fmt.Errorf("count markers: %w", err)
	}
	return count, nil
}

func (s *session) CollectCandidates(ctx context.Context) ([]detect.Candidate, error) {
	var candidates []detect.Candidate
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(collectCandidatesScript(), &candidates)); err != nil {
		return nil, fmt.Errorf("collect candidates: %w", err)
	}
	return candidates, nil
}

func (s *session) TightCardBounds(ctx context.Context, expectedTop float64) (detect.Rect, bool, error) {
	var res struct {
		Found bool    `json:"found"`
		Top   float64 `json:"top"`
		Left  float64 `json:"left"`
		W     float64 `json:"width"`
		H     float64 `json:"height"`
	}
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(tightBoundsScript(expectedTop), &res)); err != nil {
		return detect.Rect{}, false, fmt.Errorf("tight bounds: %w", err)
	}
	if !res.Found {
		return detect.Rect{}, false, nil
	}
	return detect.Rect{Top: res.Top, Left: res.Left, Width: res.W, Height: res.H}, true, nil
}

func (s *session) CaptureClip(ctx context.Context, clip detect.Rect) ([]byte, error) {
	var buf []byte
	action := chromedp.ActionFunc(func(ctx context.Context) error {
		png, err := page.CaptureScreenshot().
			WithFormat(page.CaptureScreenshotFormatPng).
			WithClip(&page.Viewport{
				X:      clip.Left,
				Y:      clip.Top,
				Width:  clip.Width,
				Height: clip.Height,
				Scale:  1,
			}).
			WithCaptureBeyondViewport(true).
			Do(ctx)
		if err != nil {
			return err
		}
		buf = png
		return nil
	})
	if err := chromedp.Run(s.ctx, action); err != nil {
		return nil, fmt.Errorf("capture clip: %w", err)
	}
	return buf, nil
}

func (s *session) CaptureFullPage(ctx context.Context) ([]byte, error) {
	var buf []byte
	if err := chromedp.Run(s.ctx, chromedp.FullScreenshot(&buf, 90)); err != nil {
		return nil, fmt.Errorf("capture full page: %w", err)
	}
	return buf, nil
}

func (s *session) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		s.release()
	})
	return nil
}

// networkTracker counts in-flight requests from DevTools network
// events so the session can tell when the page has gone quiet.
type networkTracker struct {
	mu       sync.Mutex
	inflight map[network.RequestID]struct{}
}

func newNetworkTracker() *networkTracker {
	return &networkTracker{inflight: make(map[network.RequestID]struct{})}
}

func (t *networkTracker) handle(ev interface{}) {
	switch e := ev.(type) {
	case *network.EventRequestWillBeSent:
		t.mu.Lock()
		t.inflight[e.RequestID] = struct{}{}
		t.mu.Unlock()
	case *network.EventLoadingFinished:
		t.mu.Lock()
		delete(t.inflight, e.RequestID)
		t.mu.Unlock()
	case *network.EventLoadingFailed:
		t.mu.Lock()
		delete(t.inflight, e.RequestID)
		t.mu.Unlock()
	}
}

func (t *networkTracker) idle() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.inflight) == 0
}
