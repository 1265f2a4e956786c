package repository

import (
	"context"

	"github.com/user/ad-intel-service/internal/entity"
)

// SearchRepository defines the interface for search session records.
type SearchRepository interface {
	// Create inserts a search in running state and returns its id.
	Create(ctx context.Context, search *entity.Search) (int64, error)
	// UpdateStatus sets the terminal status. totalAds < 0 leaves the
	// stored count untouched.
	UpdateStatus(ctx context.Context, id int64, status string, totalAds int) error
	// List returns all searches, newest first.
	List(ctx context.Context) ([]*entity.Search, error)
}
