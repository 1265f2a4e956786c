package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/user/ad-intel-service/internal/entity"
	"github.com/user/ad-intel-service/internal/repository"
)

// AnalysisResult is one ad's analysis plus whether it was served from
// a previously stored insight.
type AnalysisResult struct {
	AdID     int64           `json:"ad_id"`
	Analysis json.RawMessage `json:"analysis"`
	Cached   bool            `json:"cached"`
}

// Analysis runs AI analyses over captured ads and stores the results.
type Analysis interface {
	// AnalyzeAd returns the stored analysis for an ad, producing and
	// persisting one on first request. force bypasses the stored copy.
	AnalyzeAd(ctx context.Context, adID int64, force bool) (*AnalysisResult, error)
	// ListInsights returns every stored insight for an ad.
	ListInsights(ctx context.Context, adID int64) ([]*entity.AdInsight, error)
	// AnalyzeAll analyzes every ad of a search, reusing stored results.
	AnalyzeAll(ctx context.Context, searchID int64) ([]*AnalysisResult, error)
	// AggregateInsights summarizes the stored analyses of a search.
	AggregateInsights(ctx context.Context, searchID int64) (json.RawMessage, error)
}

type analysisUseCase struct {
	adRepo      repository.AdRepository
	insightRepo repository.InsightRepository
	analyzer    repository.AdAnalyzer
}

// NewAnalysisUseCase creates a new instance of the analysis use case.
func NewAnalysisUseCase(adRepo repository.AdRepository, insightRepo repository.InsightRepository, analyzer repository.AdAnalyzer) Analysis {
	return &analysisUseCase{
		adRepo:      adRepo,
		insightRepo: insightRepo,
		analyzer:    analyzer,
	}
}

func (uc *analysisUseCase) AnalyzeAd(ctx context.Context, adID int64, force bool) (*AnalysisResult, error) {
	if !force {
		if existing, err := uc.insightRepo.Latest(ctx, adID, entity.InsightFullAnalysis); err == nil {
			return &AnalysisResult{AdID: adID, Analysis: existing.InsightData, Cached: true}, nil
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	ad, err := uc.adRepo.FindByID(ctx, adID)
	if err != nil {
		return nil, err
	}

	analysis, err := uc.analyzer.Analyze(ctx, ad)
	if err != nil {
		return nil, fmt.Errorf("analyze ad %d: %w", adID, err)
	}
	if _, err := uc.insightRepo.Save(ctx, adID, entity.InsightFullAnalysis, analysis); err != nil {
		return nil, fmt.Errorf("store insight for ad %d: %w", adID, err)
	}
	return &AnalysisResult{AdID: adID, Analysis: analysis}, nil
}

func (uc *analysisUseCase) ListInsights(ctx context.Context, adID int64) ([]*entity.AdInsight, error) {
	return uc.insightRepo.ListForAd(ctx, adID)
}

// AnalyzeAll works through a search's ads one at a time. A single
// failing ad does not abort the batch.
func (uc *analysisUseCase) AnalyzeAll(ctx context.Context, searchID int64) ([]*AnalysisResult, error) {
	ads, err := uc.adRepo.ListBySearch(ctx, searchID)
	if err != nil {
		return nil, err
	}

	results := []*AnalysisResult{}
	for _, ad := range ads {
		result, err := uc.AnalyzeAd(ctx, ad.ID, false)
		if err != nil {
			slog.Warn("Ad analysis failed", "ad_id", ad.ID, "error", err)
			continue
		}
		results = append(results, result)
	}
	return results, nil
}

func (uc *analysisUseCase) AggregateInsights(ctx context.Context, searchID int64) (json.RawMessage, error) {
	ads, err := uc.adRepo.ListBySearch(ctx, searchID)
	if err != nil {
		return nil, err
	}

	analyses := []json.RawMessage{}
	for _, ad := range ads {
		insight, err := uc.insightRepo.Latest(ctx, ad.ID, entity.InsightFullAnalysis)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, insight.InsightData)
	}
	if len(analyses) == 0 {
		return nil, fmt.Errorf("no stored analyses for search %d; analyze its ads first", searchID)
	}
	return uc.analyzer.Aggregate(ctx, analyses)
}
