package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/user/ad-intel-service/internal/entity"
)

const analyzeSystemPrompt = `You are an expert advertising strategist analyzing competitor ads. Respond ONLY with a JSON object with these keys:
"hook": the attention-grabbing angle of the ad,
"target_audience": who the ad speaks to,
"emotional_triggers": array of emotional levers used,
"value_proposition": the core promise,
"cta_strategy": how the call to action works,
"strengths": array of what the ad does well,
"improvements": array of what could be stronger.
No other text.`

const aggregateSystemPrompt = `You are an expert advertising strategist. Given a set of per-ad analyses from one market, respond ONLY with a JSON object with these keys:
"common_themes": array of themes recurring across the ads,
"dominant_triggers": array of the most used emotional triggers,
"cta_patterns": array of call-to-action patterns observed,
"market_gaps": array of angles none of the ads cover,
"recommendations": array of concrete suggestions for competing in this market.
No other text.`

// Analyzer produces structured ad analyses via the chat completions API.
type Analyzer struct {
	client *Client
}

// NewAnalyzer creates a new instance of Analyzer.
func NewAnalyzer(client *Client) *Analyzer {
	return &Analyzer{client: client}
}

func (a *Analyzer) Analyze(ctx context.Context, ad *entity.CapturedAd) (json.RawMessage, error) {
	if !a.client.Configured() {
		return nil, fmt.Errorf("no API key configured")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Advertiser: %s\n", ad.AdvertiserName)
	fmt.Fprintf(&b, "Platform: %s\n", ad.Platform)
	fmt.Fprintf(&b, "Media type: %s\n", ad.MediaType)
	if ad.CTAText != "" {
		fmt.Fprintf(&b, "Call to action: %s\n", ad.CTAText)
	}
	if ad.StartDate != "" {
		fmt.Fprintf(&b, "Running since: %s\n", ad.StartDate)
	}
	fmt.Fprintf(&b, "\nAd copy:\n%s\n", ad.AdCopy)

	content, err := a.client.chatCompletion(ctx, analyzeSystemPrompt, b.String(), 0.3)
	if err != nil {
		return nil, err
	}
	return validJSON(content)
}

func (a *Analyzer) Aggregate(ctx context.Context, analyses []json.RawMessage) (json.RawMessage, error) {
	if !a.client.Configured() {
		return nil, fmt.Errorf("no API key configured")
	}
	if len(analyses) == 0 {
		return nil, fmt.Errorf("no analyses to aggregate")
	}

	var b strings.Builder
	b.WriteString("Per-ad analyses:\n")
	for i, analysis := range analyses {
		fmt.Fprintf(&b, "\nAd %d:\n%s\n", i+1, analysis)
	}

	content, err := a.client.chatCompletion(ctx, aggregateSystemPrompt, b.String(), 0.3)
	if err != nil {
		return nil, err
	}
	return validJSON(content)
}

// validJSON strips fencing and confirms the model returned a JSON
// object before it gets persisted.
func validJSON(content string) (json.RawMessage, error) {
	cleaned := stripCodeFences(content)
	if !json.Valid([]byte(cleaned)) {
		return nil, fmt.Errorf("model returned invalid JSON")
	}
	return json.RawMessage(cleaned), nil
}
