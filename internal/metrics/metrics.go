// Package metrics exposes pipeline counters over the standard Prometheus
// client. A nil *Collector is a no-op so tests can skip wiring it.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"apprenticetrack-engine/internal/domain"
)

type Collector struct {
	reg *prometheus.Registry

	listingsFetched *prometheus.CounterVec
	listingsNew     *prometheus.CounterVec
	scrapeErrors    *prometheus.CounterVec
	notifyBatches   prometheus.Counter
}

func NewCollector() *Collector {
	c := &Collector{reg: prometheus.NewRegistry()}

	c.listingsFetched = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "apprenticetrack_listings_fetched_total",
		Help: "Listings returned by a source fetch, before dedup against the store.",
	}, []string{"source"})
	c.listingsNew = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "apprenticetrack_listings_new_total",
		Help: "Listings persisted as new.",
	}, []string{"source"})
	c.scrapeErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "apprenticetrack_scrape_errors_total",
		Help: "Pipeline stage failures per source.",
	}, []string{"source"})
	c.notifyBatches = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "apprenticetrack_notify_batches_total",
		Help: "Notification batches handed to the sender.",
	})
	c.reg.MustRegister(
		c.listingsFetched,
		c.listingsNew,
		c.scrapeErrors,
		c.notifyBatches,
	)
	return c
}

// Handler serves the registry for the viewer API's /metrics route.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

func (c *Collector) RecordFetched(src domain.Source, n int) {
	if c == nil {
		return
	}
	c.listingsFetched.WithLabelValues(string(src)).Add(float64(n))
}

func (c *Collector) RecordNew(src domain.Source, n int) {
	if c == nil {
		return
	}
	c.listingsNew.WithLabelValues(string(src)).Add(float64(n))
}

func (c *Collector) RecordScrapeError(src domain.Source) {
	if c == nil {
		return
	}
	c.scrapeErrors.WithLabelValues(string(src)).Inc()
}

func (c *Collector) RecordNotifyBatches(n int) {
	if c == nil {
		return
	}
	c.notifyBatches.Add(float64(n))
}
