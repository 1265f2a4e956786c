package usecase

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/user/ad-intel-service/internal/entity"
	"github.com/user/ad-intel-service/internal/repository"
)

type memInsightRepo struct {
	insights []*entity.AdInsight
	nextID   int64
}

func (f *memInsightRepo) Save(_ context.Context, adID int64, insightType string, data json.RawMessage) (int64, error) {
	f.nextID++
	f.insights = append(f.insights, &entity.AdInsight{ID: f.nextID, AdID: adID, InsightType: insightType, InsightData: data})
	return f.nextID, nil
}

func (f *memInsightRepo) Latest(_ context.Context, adID int64, insightType string) (*entity.AdInsight, error) {
	for i := len(f.insights) - 1; i >= 0; i-- {
		if f.insights[i].AdID == adID && f.insights[i].InsightType == insightType {
			return f.insights[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *memInsightRepo) ListForAd(_ context.Context, adID int64) ([]*entity.AdInsight, error) {
	var out []*entity.AdInsight
	for _, in := range f.insights {
		if in.AdID == adID {
			out = append(out, in)
		}
	}
	return out, nil
}

type countingAnalyzer struct {
	analyzeCalls   int
	aggregateCalls int
}

func (f *countingAnalyzer) Analyze(_ context.Context, ad *entity.CapturedAd) (json.RawMessage, error) {
	f.analyzeCalls++
	return json.RawMessage(`{"hook": "test"}`), nil
}

func (f *countingAnalyzer) Aggregate(_ context.Context, analyses []json.RawMessage) (json.RawMessage, error) {
	f.aggregateCalls++
	return json.RawMessage(`{"common_themes": []}`), nil
}

type analysisAdRepo struct {
	fakeAdRepo
	ads map[int64]*entity.CapturedAd
}

func (f *analysisAdRepo) FindByID(_ context.Context, id int64) (*entity.CapturedAd, error) {
	if ad, ok := f.ads[id]; ok {
		return ad, nil
	}
	return nil, repository.ErrNotFound
}

func (f *analysisAdRepo) ListBySearch(context.Context, int64) ([]*entity.CapturedAd, error) {
	out := []*entity.CapturedAd{}
	for _, ad := range f.ads {
		out = append(out, ad)
	}
	return out, nil
}

func newAnalysisHarness() (Analysis, *countingAnalyzer, *memInsightRepo) {
	adRepo := &analysisAdRepo{ads: map[int64]*entity.CapturedAd{
		1: {ID: 1, SearchID: 10, AdvertiserName: "Acme", AdCopy: "copy one"},
		2: {ID: 2, SearchID: 10, AdvertiserName: "Other", AdCopy: "copy two"},
	}}
	analyzer := &countingAnalyzer{}
	insights := &memInsightRepo{}
	return NewAnalysisUseCase(adRepo, insights, analyzer), analyzer, insights
}

func TestAnalyzeAdStoresAndReusesResult(t *testing.T) {
	uc, analyzer, _ := newAnalysisHarness()

	first, err := uc.AnalyzeAd(context.Background(), 1, false)
	if err != nil {
		t.Fatalf("AnalyzeAd: %v", err)
	}
	if first.Cached {
		t.Fatal("first analysis reported as cached")
	}

	second, err := uc.AnalyzeAd(context.Background(), 1, false)
	if err != nil {
		t.Fatalf("AnalyzeAd: %v", err)
	}
	if !second.Cached {
		t.Fatal("second analysis was not served from store")
	}
	if analyzer.analyzeCalls != 1 {
		t.Fatalf("analyzer called %d times, want 1", analyzer.analyzeCalls)
	}
}

func TestAnalyzeAdForceBypassesStore(t *testing.T) {
	uc, analyzer, _ := newAnalysisHarness()

	if _, err := uc.AnalyzeAd(context.Background(), 1, false); err != nil {
		t.Fatalf("AnalyzeAd: %v", err)
	}
	result, err := uc.AnalyzeAd(context.Background(), 1, true)
	if err != nil {
		t.Fatalf("AnalyzeAd: %v", err)
	}
	if result.Cached {
		t.Fatal("forced analysis reported as cached")
	}
	if analyzer.analyzeCalls != 2 {
		t.Fatalf("analyzer called %d times, want 2", analyzer.analyzeCalls)
	}
}

func TestAnalyzeAdUnknownAd(t *testing.T) {
	uc, _, _ := newAnalysisHarness()

	if _, err := uc.AnalyzeAd(context.Background(), 99, false); err == nil {
		t.Fatal("expected error for unknown ad")
	}
}

func TestAnalyzeAllCoversEveryAd(t *testing.T) {
	uc, analyzer, _ := newAnalysisHarness()

	results, err := uc.AnalyzeAll(context.Background(), 10)
	if err != nil {
		t.Fatalf("AnalyzeAll: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if analyzer.analyzeCalls != 2 {
		t.Fatalf("analyzer called %d times, want 2", analyzer.analyzeCalls)
	}
}

func TestAggregateRequiresStoredAnalyses(t *testing.T) {
	uc, analyzer, _ := newAnalysisHarness()

	if _, err := uc.AggregateInsights(context.Background(), 10); err == nil {
		t.Fatal("expected error with no stored analyses")
	}

	if _, err := uc.AnalyzeAll(context.Background(), 10); err != nil {
		t.Fatalf("AnalyzeAll: %v", err)
	}
	if _, err := uc.AggregateInsights(context.Background(), 10); err != nil {
		t.Fatalf("AggregateInsights: %v", err)
	}
	if analyzer.aggregateCalls != 1 {
		t.Fatalf("aggregate called %d times, want 1", analyzer.aggregateCalls)
	}
}
