package poll

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"apprenticetrack-engine/internal/config"
	"apprenticetrack-engine/internal/scrape"
)

// Start runs the pipeline immediately, then once per configured interval,
// until ctx is cancelled. Status transitions are published through
// scrapeStatus so the HTTP layer can report them.
func Start(ctx context.Context, cfgVal *atomic.Value, scrapeStatus *atomic.Value, run func(context.Context) (int, error)) {
	interval := time.Hour
	if cfgAny := cfgVal.Load(); cfgAny != nil {
		cfg := cfgAny.(config.Config)
		if cfg.Polling.IntervalHours > 0 {
			interval = time.Duration(cfg.Polling.IntervalHours) * time.Hour
		}
	}

	runOnce(ctx, cfgVal, scrapeStatus, run)

	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			runOnce(ctx, cfgVal, scrapeStatus, run)
		}
	}
}

func runOnce(ctx context.Context, cfgVal *atomic.Value, scrapeStatus *atomic.Value, run func(context.Context) (int, error)) {
	cfgAny := cfgVal.Load()
	if cfgAny == nil {
		return
	}
	cfg := cfgAny.(config.Config)

	if !cfg.Sources.RMP.Enabled && !cfg.Sources.GMFJ.Enabled {
		return
	}

	st := loadStatus(scrapeStatus)
	st.Running = true
	st.LastRunAt = time.Now().Format(time.RFC3339)
	scrapeStatus.Store(st)

	added, err := run(ctx)

	st = loadStatus(scrapeStatus)
	st.Running = false
	st.LastAdded = added

	if err != nil {
		st.LastError = err.Error()
		log.Printf("[poll] error: %v", err)
	} else {
		st.LastError = ""
		st.LastOkAt = time.Now().Format(time.RFC3339)
		log.Printf("[poll] ok added=%d", added)
	}
	scrapeStatus.Store(st)
}

func loadStatus(v *atomic.Value) scrape.Status {
	if stAny := v.Load(); stAny != nil {
		return stAny.(scrape.Status)
	}
	return scrape.Status{}
}
