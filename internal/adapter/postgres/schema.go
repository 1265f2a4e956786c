// Package postgres implements the persistence interfaces on PostgreSQL
// via pgx connection pools.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the tables and indexes if they do not exist.
// Runs at startup; safe to call repeatedly.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS searches (
			id BIGSERIAL PRIMARY KEY,
			industry TEXT NOT NULL,
			location TEXT NOT NULL,
			keywords TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'running',
			total_ads INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ads (
			id BIGSERIAL PRIMARY KEY,
			search_id BIGINT NOT NULL REFERENCES searches(id) ON DELETE CASCADE,
			platform TEXT NOT NULL,
			advertiser_name TEXT NOT NULL DEFAULT 'Unknown',
			ad_copy TEXT NOT NULL DEFAULT '',
			screenshot_path TEXT NOT NULL DEFAULT '',
			start_date TEXT NOT NULL DEFAULT '',
			media_type TEXT NOT NULL DEFAULT 'image',
			cta_text TEXT NOT NULL DEFAULT '',
			landing_url TEXT NOT NULL DEFAULT '',
			is_favorite BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ad_insights (
			id BIGSERIAL PRIMARY KEY,
			ad_id BIGINT NOT NULL REFERENCES ads(id) ON DELETE CASCADE,
			insight_type TEXT NOT NULL,
			insight_data JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS landing_pages (
			id BIGSERIAL PRIMARY KEY,
			url TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			headline TEXT NOT NULL DEFAULT '',
			primary_cta TEXT NOT NULL DEFAULT '',
			key_messaging JSONB NOT NULL DEFAULT '[]',
			screenshot_path TEXT NOT NULL DEFAULT '',
			scraped_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ads_search_id ON ads(search_id)`,
		`CREATE INDEX IF NOT EXISTS idx_ads_advertiser ON ads(LOWER(advertiser_name))`,
		`CREATE INDEX IF NOT EXISTS idx_ads_favorite ON ads(is_favorite) WHERE is_favorite`,
		`CREATE INDEX IF NOT EXISTS idx_insights_ad_id ON ad_insights(ad_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
