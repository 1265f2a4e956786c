package entity

import "time"

// LandingPage mirrors the `landing_pages` table: the above-the-fold
// summary of an ad's external destination.
type LandingPage struct {
	ID             int64     `json:"id"`
	URL            string    `json:"url"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Headline       string    `json:"headline"`
	PrimaryCTA     string    `json:"primary_cta"`
	KeyMessaging   []string  `json:"key_messaging"`
	ScreenshotPath string    `json:"screenshot_path"`
	ScrapedAt      time.Time `json:"scraped_at"`
}
