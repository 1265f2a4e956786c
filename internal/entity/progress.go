package entity

// ProgressType enumerates the progress event kinds emitted by a scrape
// session. The event stream is the sole failure-reporting surface for a
// running session.
type ProgressType string

const (
	ProgressStatus     ProgressType = "status"
	ProgressScroll     ProgressType = "scroll"
	ProgressCapturing  ProgressType = "capturing"
	ProgressChecking   ProgressType = "checking"
	ProgressSkipped    ProgressType = "skipped"
	ProgressAdCaptured ProgressType = "ad_captured"
	ProgressWarning    ProgressType = "warning"
	ProgressComplete   ProgressType = "complete"
	ProgressError      ProgressType = "error"
)

// ProgressEvent is one entry in a search session's event stream.
// Delivery is at-most-once, in emission order; a late subscriber misses
// earlier events.
type ProgressEvent struct {
	Type          ProgressType `json:"type"`
	Message       string       `json:"message"`
	Progress      float64      `json:"progress,omitempty"`
	Step          int          `json:"step,omitempty"`
	TotalSteps    int          `json:"totalSteps,omitempty"`
	TotalAds      int          `json:"totalAds,omitempty"`
	CapturedCount int          `json:"capturedCount,omitempty"`
	SkippedCount  int          `json:"skippedCount,omitempty"`
	Ad            *CapturedAd  `json:"ad,omitempty"`
}
