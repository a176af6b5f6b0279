package types

import (
	"context"

	"apprenticetrack-engine/internal/domain"
)

// Fetcher is one scrape source. Fetch returns listings deduplicated by id;
// per-category and per-page failures are handled inside the fetcher, so a
// non-nil error means the source could not run at all.
type Fetcher interface {
	Name() string
	Source() domain.Source
	Fetch(ctx context.Context) ([]*domain.Listing, error)
}
