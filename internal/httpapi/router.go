package httpapi

import "net/http"

// NewMux returns the raw mux so main() can wrap it in middleware.
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Listings
	lh := ListingsHandler{Store: d.Store}
	mux.HandleFunc("/listings", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: lh.List,
	}))

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))
	mux.HandleFunc("/config/validate", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Validate,
	}))

	// Secrets (use cfgVal, NOT a snapshot cfg)
	sh := SecretsHandler{CfgVal: d.CfgVal}
	mux.HandleFunc("/api/secrets/webhook", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.SetWebhook,
	}))

	// Scrape
	sch := ScrapeHandler{
		ScrapeStatus: d.ScrapeStatus,
		RunScrape:    d.RunScrape,
	}
	mux.HandleFunc("/scrape/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sch.Status,
	}))
	mux.HandleFunc("/scrape/run", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sch.Run,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	// Health
	hh := HealthHandler{}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	if d.Metrics != nil {
		mux.Handle("/metrics", d.Metrics)
	}

	return mux
}
