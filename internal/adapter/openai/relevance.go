package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/user/ad-intel-service/internal/entity"
	"github.com/user/ad-intel-service/pkg/metrics"
)

// minCopyForCheck is the shortest ad copy worth sending to the model.
// Anything shorter carries no signal and is accepted outright.
const minCopyForCheck = 10

const relevanceSystemPrompt = `You evaluate whether a competitor's ad is relevant to a market research query. Respond ONLY with a JSON object of the form {"relevant": true or false, "reason": "one short sentence"}. No other text.`

// Checker classifies ad relevance via the chat completions API.
type Checker struct {
	client *Client
}

// NewChecker creates a new instance of Checker.
func NewChecker(client *Client) *Checker {
	return &Checker{client: client}
}

func (c *Checker) Check(ctx context.Context, adCopy, advertiser, keywords string) entity.RelevanceVerdict {
	verdict := c.check(ctx, adCopy, advertiser, keywords)
	metrics.RelevanceChecks.WithLabelValues(string(verdict.State)).Inc()
	return verdict
}

func (c *Checker) check(ctx context.Context, adCopy, advertiser, keywords string) entity.RelevanceVerdict {
	if !c.client.Configured() {
		return entity.RelevanceVerdict{
			State:  entity.VerdictCheckFailed,
			Reason: "no API key configured",
		}
	}
	if len(adCopy) < minCopyForCheck {
		return entity.RelevanceVerdict{
			State:  entity.VerdictRelevant,
			Reason: "Too short to evaluate",
		}
	}

	user := fmt.Sprintf(
		"Search keywords: %q\n\nAd from advertiser %q:\n%s\n\nIs this ad relevant to the search keywords?",
		keywords, advertiser, adCopy,
	)

	content, err := c.client.chatCompletion(ctx, relevanceSystemPrompt, user, 0)
	if err != nil {
		slog.Warn("Relevance check failed", "advertiser", advertiser, "error", err)
		return entity.RelevanceVerdict{State: entity.VerdictCheckFailed, Reason: err.Error()}
	}

	var parsed struct {
		Relevant bool   `json:"relevant"`
		Reason   string `json:"reason"`
	}
	if err := json.Unmarshal([]byte(stripCodeFences(content)), &parsed); err != nil {
		slog.Warn("Relevance check returned unparseable output", "advertiser", advertiser, "error", err)
		return entity.RelevanceVerdict{State: entity.VerdictCheckFailed, Reason: "unparseable model output"}
	}

	if parsed.Relevant {
		return entity.RelevanceVerdict{State: entity.VerdictRelevant, Reason: parsed.Reason}
	}
	return entity.RelevanceVerdict{State: entity.VerdictNotRelevant, Reason: parsed.Reason}
}
