package entity

import (
	"encoding/json"
	"time"
)

// Insight types stored in the `ad_insights` table.
const (
	InsightFullAnalysis = "full_analysis"
)

// AdInsight is one stored AI analysis result for an ad. The payload is
// kept as raw JSON; its shape is owned by the analyzer prompt.
type AdInsight struct {
	ID          int64           `json:"id"`
	AdID        int64           `json:"ad_id"`
	InsightType string          `json:"insight_type"`
	InsightData json.RawMessage `json:"insight_data"`
	CreatedAt   time.Time       `json:"created_at"`
}
