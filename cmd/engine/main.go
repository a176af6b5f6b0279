package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"apprenticetrack-engine/internal/config"
	"apprenticetrack-engine/internal/domain"
	"apprenticetrack-engine/internal/events"
	"apprenticetrack-engine/internal/httpapi"
	"apprenticetrack-engine/internal/metrics"
	"apprenticetrack-engine/internal/notify"
	"apprenticetrack-engine/internal/poll"
	"apprenticetrack-engine/internal/scrape"
	"apprenticetrack-engine/internal/scrape/gmfj"
	"apprenticetrack-engine/internal/scrape/rmp"
	"apprenticetrack-engine/internal/scrape/types"
	"apprenticetrack-engine/internal/scrape/util"
	"apprenticetrack-engine/internal/secrets"
	"apprenticetrack-engine/internal/sheetdb"
	"apprenticetrack-engine/internal/store"
	"apprenticetrack-engine/internal/taxonomy"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("[engine] %v", err)
	}
}

func run() error {
	// Engine data dir: use env if provided, else local folder.
	dataDir := os.Getenv("APPRENTICETRACK_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	// One engine per data dir. A second instance would race the sheet
	// writes and double-post notifications.
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock: %w", err)
	}
	if !locked {
		return errors.New("another engine instance holds the data dir lock")
	}
	defer lock.Unlock()

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		return fmt.Errorf("config bootstrap: %w", err)
	}

	// Load config and keep it reloadable.
	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		return config.Load(userCfgPath)
	}
	cfg, err := loadCfg()
	if err != nil {
		return fmt.Errorf("config load (%s): %w", userCfgPath, err)
	}
	cfg, vr := config.NormalizeAndValidate(cfg)
	for _, msg := range vr.Warnings {
		log.Printf("[config] warning: %s", msg)
	}
	if !vr.OK() {
		return fmt.Errorf("config invalid: %v", vr.Errors)
	}
	cfgVal.Store(cfg)

	db, err := sheetdb.Open(filepath.Join(dataDir, "apprenticetrack.db"))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()
	listings := store.New(db)

	tax := taxonomy.New()
	limiter := util.NewHostLimiter(2, 4)

	var fetchers []types.Fetcher
	if cfg.Sources.RMP.Enabled {
		fetchers = append(fetchers, rmp.New(rmp.Config{
			BaseURL: cfg.Sources.RMP.BaseURL,
			Slugs:   tax.Slugs(),
		}, limiter))
	}
	if cfg.Sources.GMFJ.Enabled {
		fetchers = append(fetchers, gmfj.New(gmfj.Config{
			BaseURL:   cfg.Sources.GMFJ.BaseURL,
			UserAgent: cfg.Sources.GMFJ.UserAgent,
		}, limiter))
	}

	channels := resolveChannels(cfg)
	var batcher *notify.Batcher
	if cfg.Notify.Enabled && len(channels) > 0 {
		batcher = notify.NewBatcher(notify.NewWebhookSender(), tax)
	}

	collector := metrics.NewCollector()
	hub := events.NewHub()

	var scrapeStatus atomic.Value
	scrapeStatus.Store(scrape.Status{})

	runScrape := func(ctx context.Context) (int, error) {
		added, err := scrape.RunOnce(ctx, scrape.Deps{
			Fetchers: fetchers,
			Store:    listings,
			Batcher:  batcher,
			Channels: channels,
			Metrics:  collector,
			OnNew: func(l *domain.Listing) {
				hub.Publish(events.MakeEvent("", "listing_created", 1, map[string]string{"id": l.ID}))
			},
		})
		hub.Publish(events.MakeEvent("", "scrape_finished", 1, map[string]int{"added": added}))
		return added, err
	}

	mux := httpapi.NewMux(httpapi.Deps{
		Store:        listings,
		Hub:          hub,
		CfgVal:       &cfgVal,
		ScrapeStatus: &scrapeStatus,
		UserCfgPath:  userCfgPath,
		LoadCfg:      loadCfg,
		RunScrape:    runScrape,
		Metrics:      collector.Handler(),
	})
	handler := httpapi.Chain(mux,
		httpapi.Cors,
		httpapi.RequestID,
		httpapi.Recover,
		httpapi.AccessLog,
	)

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.App.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	log.Printf("[engine] listening on http://%s (data=%s, sources=%d, channels=%d)",
		addr, dataDir, len(fetchers), len(channels))

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		poll.Start(ctx, &cfgVal, &scrapeStatus, runScrape)
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})

	return g.Wait()
}

// resolveChannels turns configured channel names into sendable targets. The
// keychain wins over any URL left in the yaml; channels with no URL at all
// are skipped with a log line.
func resolveChannels(cfg config.Config) []notify.Channel {
	var out []notify.Channel
	for _, ch := range cfg.Notify.Channels {
		url, err := secrets.GetChannelWebhook(ch.Name)
		if err != nil {
			url = ch.WebhookURL
		}
		if url == "" {
			log.Printf("[notify] channel %q has no webhook URL, skipping", ch.Name)
			continue
		}
		out = append(out, notify.Channel{
			Name:       ch.Name,
			WebhookURL: url,
			Ping:       ch.PingRole,
		})
	}
	return out
}
