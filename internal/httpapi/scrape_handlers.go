package httpapi

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"apprenticetrack-engine/internal/scrape"
)

type ScrapeHandler struct {
	ScrapeStatus *atomic.Value // scrape.Status
	RunScrape    func(ctx context.Context) (added int, err error)
}

func (h ScrapeHandler) Status(w http.ResponseWriter, r *http.Request) {
	st := h.ScrapeStatus.Load().(scrape.Status)
	writeJSON(w, st)
}

func (h ScrapeHandler) Run(w http.ResponseWriter, r *http.Request) {
	st := h.ScrapeStatus.Load().(scrape.Status)
	if st.Running {
		writeJSON(w, map[string]any{"ok": false, "msg": "already running"})
		return
	}

	h.ScrapeStatus.Store(scrape.Status{
		LastRunAt: time.Now().Format(time.RFC3339),
		Running:   true,
		LastError: "",
		LastAdded: 0,
		LastOkAt:  st.LastOkAt,
	})

	go func() {
		// Detached from the request context so closing the browser tab
		// does not abort a run in flight.
		added, err := h.RunScrape(context.Background())

		now := time.Now().Format(time.RFC3339)
		next := h.ScrapeStatus.Load().(scrape.Status)
		next.Running = false
		next.LastRunAt = now
		next.LastAdded = added
		if err != nil {
			next.LastError = err.Error()
		} else {
			next.LastError = ""
			next.LastOkAt = now
		}
		h.ScrapeStatus.Store(next)
	}()

	writeJSON(w, map[string]any{"ok": true})
}
