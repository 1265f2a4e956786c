package entity

import "time"

// MediaType classifies the creative format of an ad.
type MediaType string

const (
	MediaImage    MediaType = "image"
	MediaVideo    MediaType = "video"
	MediaCarousel MediaType = "carousel"
)

// CardPosition is the absolute page-coordinate bounding box of a detected
// ad card at detection time. It is used for deduplication and for
// re-locating the card before capture; it is never persisted.
type CardPosition struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DetectedCard is the transient, structured extraction from one ad card,
// produced by the detector and consumed by the capture pipeline.
type DetectedCard struct {
	Position       CardPosition
	AdvertiserName string
	AdCopy         string
	StartDate      string
	CTAText        string
	LandingURL     string
	MediaType      MediaType
}

// CapturedAd mirrors the `ads` table. Records are immutable after insert
// except for the favorite flag and AI insight attachments.
type CapturedAd struct {
	ID             int64     `json:"id"`
	SearchID       int64     `json:"search_id"`
	Platform       string    `json:"platform"`
	AdvertiserName string    `json:"advertiser_name"`
	AdCopy         string    `json:"ad_copy"`
	ScreenshotPath string    `json:"screenshot_path"`
	StartDate      string    `json:"start_date"`
	MediaType      MediaType `json:"media_type"`
	CTAText        string    `json:"cta_text"`
	LandingURL     string    `json:"landing_url"`
	IsFavorite     bool      `json:"is_favorite"`
	CreatedAt      time.Time `json:"created_at"`
}
