package httpapi

import (
	"context"
	"net/http"
	"sync/atomic"

	"apprenticetrack-engine/internal/config"
	"apprenticetrack-engine/internal/events"
	"apprenticetrack-engine/internal/store"
)

type Deps struct {
	Store *store.ListingStore

	Hub *events.Hub

	// Atomic stores
	CfgVal       *atomic.Value // stores config.Config
	ScrapeStatus *atomic.Value // stores scrape.Status

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	// Pipeline entrypoint (inject for testability)
	RunScrape func(ctx context.Context) (added int, err error)

	// Prometheus exposition handler
	Metrics http.Handler
}
