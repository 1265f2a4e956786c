package chromedp_renderer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/user/ad-intel-service/internal/detect"
	"github.com/user/ad-intel-service/internal/entity"
	"github.com/user/ad-intel-service/internal/repository"
)

const (
	landingViewportWidth  = 1280
	landingViewportHeight = 800

	landingNavTimeout  = 30 * time.Second
	landingIdleTimeout = 10 * time.Second
	landingSettle      = 2 * time.Second
)

// LandingScraper visits an ad's landing page and pulls out the
// marketing surface: title, headline, primary call to action and the
// key messaging paragraphs.
type LandingScraper struct {
	factory *Factory
}

func NewLandingScraper(factory *Factory) *LandingScraper {
	return &LandingScraper{factory: factory}
}

type landingData struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Headline     string   `json:"headline"`
	PrimaryCTA   string   `json:"primaryCta"`
	KeyMessaging []string `json:"keyMessaging"`
}

func (s *LandingScraper) Scrape(ctx context.Context, url string) (*entity.LandingPage, []byte, error) {
	raw, err := s.factory.NewSession(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer raw.Close()

	sess, ok := raw.(*session)
	if !ok {
		return nil, nil, fmt.Errorf("unexpected session type %T", raw)
	}

	if err := chromedp.Run(sess.ctx, chromedp.EmulateViewport(landingViewportWidth, landingViewportHeight)); err != nil {
		return nil, nil, fmt.Errorf("set landing viewport: %w", err)
	}

	navCtx, cancel := context.WithTimeout(sess.ctx, landingNavTimeout)
	defer cancel()
	if err := chromedp.Run(navCtx, chromedp.Navigate(url)); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, nil, fmt.Errorf("%w: %s", repository.ErrNavigationTimeout, url)
		}
		return nil, nil, fmt.Errorf("navigate landing page: %w", err)
	}

	// Slow landing pages stream content after load; a missed idle
	// window is not fatal for content extraction.
	if err := sess.WaitNetworkIdle(ctx, landingIdleTimeout); err != nil &&
		!errors.Is(err, repository.ErrNetworkIdleTimeout) {
		return nil, nil, err
	}
	time.Sleep(landingSettle)

	var data landingData
	if err := chromedp.Run(sess.ctx, chromedp.Evaluate(landingExtractScript, &data)); err != nil {
		return nil, nil, fmt.Errorf("extract landing content: %w", err)
	}

	png, err := sess.CaptureClip(ctx, detect.Rect{
		Top:    0,
		Left:   0,
		Width:  landingViewportWidth,
		Height: landingViewportHeight,
	})
	if err != nil {
		return nil, nil, err
	}

	page := &entity.LandingPage{
		URL:          url,
		Title:        data.Title,
		Description:  data.Description,
		Headline:     data.Headline,
		PrimaryCTA:   data.PrimaryCTA,
		KeyMessaging: data.KeyMessaging,
		ScrapedAt:    time.Now(),
	}
	return page, png, nil
}

const landingExtractScript = `(() => {
	const meta = document.querySelector('meta[name="description"], meta[property="og:description"]');
	const h1 = document.querySelector('h1');

	let cta = '';
	for (const el of document.querySelectorAll('button, a[class*="btn"], a[class*="cta"], a[class*="button"]')) {
		const t = (el.textContent || '').trim();
		if (t.length > 2 && t.length < 50) { cta = t; break; }
	}

	const messaging = [];
	for (const p of document.querySelectorAll('p')) {
		if (messaging.length >= 3) break;
		const t = (p.textContent || '').trim();
		if (t.length > 20 && t.length < 300) messaging.push(t);
	}

	return {
		title: (document.title || '').slice(0, 200),
		description: meta ? (meta.getAttribute('content') || '').slice(0, 500) : '',
		headline: h1 ? (h1.textContent || '').trim().slice(0, 300) : '',
		primaryCta: cta,
		keyMessaging: messaging,
	};
})()`
