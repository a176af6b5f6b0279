// Package scrape runs the listing pipeline: fetch each source, drop ids the
// store already knows, persist the rest, announce them.
package scrape

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"apprenticetrack-engine/internal/domain"
	"apprenticetrack-engine/internal/metrics"
	"apprenticetrack-engine/internal/notify"
	"apprenticetrack-engine/internal/scrape/types"
	"apprenticetrack-engine/internal/store"
)

// Status is the viewer-facing snapshot of the last pipeline run.
type Status struct {
	LastRunAt string `json:"last_run_at"`
	LastOkAt  string `json:"last_ok_at"`
	LastError string `json:"last_error"`
	LastAdded int    `json:"last_added"`
	Running   bool   `json:"running"`
}

type Deps struct {
	Fetchers []types.Fetcher
	Store    *store.ListingStore
	Batcher  *notify.Batcher
	Channels []notify.Channel
	Metrics  *metrics.Collector

	// OnNew fires once per persisted listing (SSE notify).
	OnNew func(l *domain.Listing)
}

// RunOnce executes every source stage in order. Stages are isolated: a
// failure in one is logged and does not stop the next. Source fetch failures
// never escape; the returned error is the last store failure, if any.
func RunOnce(ctx context.Context, d Deps) (added int, err error) {
	runID := uuid.NewString()[:8]

	for _, f := range d.Fetchers {
		n, serr := runStage(ctx, d, runID, f)
		added += n
		if serr != nil {
			log.Printf("[pipeline:%s] source=%s err=%v", runID, f.Name(), serr)
			err = serr
		}
	}

	log.Printf("[pipeline:%s] done added=%d", runID, added)
	return added, err
}

func runStage(ctx context.Context, d Deps, runID string, f types.Fetcher) (int, error) {
	log.Printf("[pipeline:%s] source=%s running", runID, f.Name())

	listings, err := f.Fetch(ctx)
	if err != nil {
		// fetchers swallow their own per-unit failures, so this means
		// the source could not run at all. Log and move on.
		d.Metrics.RecordScrapeError(f.Source())
		log.Printf("[pipeline:%s] source=%s fetch err=%v", runID, f.Name(), err)
		return 0, nil
	}
	d.Metrics.RecordFetched(f.Source(), len(listings))

	fresh, err := d.Store.FilterNew(ctx, listings)
	if err != nil {
		d.Metrics.RecordScrapeError(f.Source())
		return 0, fmt.Errorf("filter known ids: %w", err)
	}
	if len(fresh) == 0 {
		log.Printf("[pipeline:%s] source=%s fetched=%d new=0", runID, f.Name(), len(listings))
		return 0, nil
	}

	if err := d.Store.Append(ctx, fresh, f.Source()); err != nil {
		d.Metrics.RecordScrapeError(f.Source())
		return 0, fmt.Errorf("persist %d listings: %w", len(fresh), err)
	}
	d.Metrics.RecordNew(f.Source(), len(fresh))

	if d.OnNew != nil {
		for _, l := range fresh {
			d.OnNew(l)
		}
	}

	if d.Batcher != nil && len(d.Channels) > 0 {
		d.Batcher.Send(ctx, fresh, d.Channels)
		d.Metrics.RecordNotifyBatches(batchCount(len(fresh)) * len(d.Channels))
	}

	log.Printf("[pipeline:%s] source=%s fetched=%d new=%d", runID, f.Name(), len(listings), len(fresh))
	return len(fresh), nil
}

func batchCount(n int) int {
	const per = 10
	return (n + per - 1) / per
}
