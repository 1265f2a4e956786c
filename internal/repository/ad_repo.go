package repository

import (
	"context"

	"github.com/user/ad-intel-service/internal/entity"
)

// AdRepository defines the interface for storing and querying captured ads.
type AdRepository interface {
	// Insert persists a captured ad and returns its assigned id.
	Insert(ctx context.Context, ad *entity.CapturedAd) (int64, error)
	// FindByID retrieves one ad, or ErrNotFound.
	FindByID(ctx context.Context, id int64) (*entity.CapturedAd, error)
	// ListBySearch returns the ads captured by one search, newest first.
	ListBySearch(ctx context.Context, searchID int64) ([]*entity.CapturedAd, error)
	// List returns ads across searches, optionally filtered by platform
	// and/or advertiser-name substring.
	List(ctx context.Context, platform, advertiser string) ([]*entity.CapturedAd, error)
	// ListByAdvertiser returns every ad from one advertiser (exact,
	// case-insensitive match), newest start date first.
	ListByAdvertiser(ctx context.Context, name string) ([]*entity.CapturedAd, error)
	// ToggleFavorite flips the favorite flag and returns the new value.
	ToggleFavorite(ctx context.Context, id int64) (bool, error)
	// ListFavorites returns all favorited ads, newest first.
	ListFavorites(ctx context.Context) ([]*entity.CapturedAd, error)
}
