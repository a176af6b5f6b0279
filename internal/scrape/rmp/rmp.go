// Package rmp scrapes the embedded-JSON listings site. Each category search
// page ships its results as a JS state assignment inside the HTML; the
// fetcher sweeps a fixed slug list, lifts the JSON out and projects it into
// normalized listings.
package rmp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"apprenticetrack-engine/internal/dateparse"
	"apprenticetrack-engine/internal/domain"
	"apprenticetrack-engine/internal/scrape/util"
)

const (
	stateMarker = "window.__RMP_SEARCH_RESULTS_INITIAL_STATE__"

	batchSize  = 10
	batchDelay = 500 * time.Millisecond

	defaultCompany = "Unknown company"
	defaultSalary  = "Competitive"
)

// The assignment ends at whichever of these shows up first after the marker.
var terminators = []string{";</script>", "};", "</script>"}

type Config struct {
	BaseURL   string // search endpoint root
	UserAgent string
	Slugs     []string // category slugs to sweep, in order
}

type Scraper struct {
	cfg     Config
	hc      *http.Client
	limiter *util.HostLimiter
}

func New(cfg Config, limiter *util.HostLimiter) *Scraper {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.ratemyapprenticeship.co.uk"
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "ApprenticeTrack/1.0 (+local)"
	}
	return &Scraper{
		cfg:     cfg,
		hc:      &http.Client{Timeout: 20 * time.Second},
		limiter: limiter,
	}
}

func (s *Scraper) Name() string { return "rmp" }

func (s *Scraper) Source() domain.Source { return domain.SourceRMP }

// Fetch sweeps the slug list in fixed-size batches, pausing between batches
// to stay under the site's implicit rate limits. Per-category failures are
// logged and skipped; ids are deduplicated across the whole sweep.
func (s *Scraper) Fetch(ctx context.Context) ([]*domain.Listing, error) {
	seen := map[string]bool{}
	var out []*domain.Listing

	slugs := s.cfg.Slugs
	for start := 0; start < len(slugs); start += batchSize {
		end := start + batchSize
		if end > len(slugs) {
			end = len(slugs)
		}

		for _, slug := range slugs[start:end] {
			listings, err := s.fetchCategory(ctx, slug)
			if err != nil {
				log.Printf("[rmp] category=%q err=%v", slug, err)
				continue
			}
			for _, l := range listings {
				if seen[l.ID] {
					continue
				}
				seen[l.ID] = true
				out = append(out, l)
			}
		}

		// no pause after the final batch
		if end < len(slugs) {
			select {
			case <-ctx.Done():
				log.Printf("[rmp] sweep cancelled after %d listings", len(out))
				return out, nil
			case <-time.After(batchDelay):
			}
		}
	}

	log.Printf("[rmp] Processed: %d", len(out))
	return out, nil
}

func (s *Scraper) fetchCategory(ctx context.Context, slug string) ([]*domain.Listing, error) {
	searchURL := fmt.Sprintf("%s/search-jobs?show=%s", s.cfg.BaseURL, url.QueryEscape(slug))

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	req.Header.Set("User-Agent", s.cfg.UserAgent)

	if s.limiter != nil {
		if err := s.limiter.WaitURL(ctx, searchURL); err != nil {
			return nil, err
		}
	}
	res, err := s.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rmp get: %w", err)
	}
	defer res.Body.Close()

	// the site 404s categories with no live listings
	if res.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if res.StatusCode >= 300 {
		return nil, fmt.Errorf("rmp status %d", res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("rmp read body: %w", err)
	}

	raw, err := extractState(string(body))
	if err != nil {
		return nil, err
	}

	var payload struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("rmp decode state: %w", err)
	}

	var out []*domain.Listing
	for _, item := range payload.Data {
		id := idField(item)
		if id == "" {
			continue
		}
		l, err := domain.NewListing(id, domain.SourceRMP)
		if err != nil {
			continue
		}
		l.Title = stringField(item, "jobTitle", "")
		l.CompanyName = stringField(item, "companyName", defaultCompany)
		l.CompanyLogoURL = stringField(item, "companyLogo", "")
		l.Salary = stringField(item, "salary", defaultSalary)
		l.Location = util.NormalizeLocation(stringField(item, "jobLocations", ""))
		l.URL = s.absoluteURL(stringField(item, "url", ""))

		// The payload's own relevantFor field lists academic-year tags, not
		// topics; the search slug that produced the hit is the category of
		// record.
		l.SetSourceCategories([]string{slug})

		if t, ok := dateparse.Parse(stringField(item, "deadline", "")); ok {
			l.ClosingDate = &t
		}
		out = append(out, l)
	}
	return out, nil
}

// extractState lifts the embedded JSON object out of the page HTML. Missing
// marker, missing terminator, or a span that is not object-shaped all fail
// the whole category; there is no partial parse.
func extractState(html string) (string, error) {
	i := strings.Index(html, stateMarker)
	if i < 0 {
		return "", errors.New("state marker not found")
	}
	rest := html[i+len(stateMarker):]

	eq := strings.Index(rest, "=")
	if eq < 0 {
		return "", errors.New("state assignment not found")
	}
	rest = rest[eq+1:]

	end := -1
	for _, term := range terminators {
		if j := strings.Index(rest, term); j >= 0 && (end < 0 || j < end) {
			// "};"-style terminators close the object they end
			if strings.HasPrefix(term, "}") {
				j++
			}
			end = j
		}
	}
	if end < 0 {
		return "", errors.New("state terminator not found")
	}

	span := strings.TrimSpace(rest[:end])
	if !strings.HasPrefix(span, "{") {
		return "", fmt.Errorf("state is not an object (starts %q)", firstRune(span))
	}
	return span, nil
}

func firstRune(s string) string {
	if s == "" {
		return ""
	}
	return s[:1]
}

func stringField(m map[string]any, key, fallback string) string {
	switch v := m[key].(type) {
	case string:
		if t := strings.TrimSpace(v); t != "" {
			return t
		}
	case []any:
		var parts []string
		for _, e := range v {
			if str, ok := e.(string); ok && strings.TrimSpace(str) != "" {
				parts = append(parts, strings.TrimSpace(str))
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, ", ")
		}
	}
	return fallback
}

func idField(m map[string]any) string {
	switch v := m["id"].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatInt(int64(v), 10)
	}
	return ""
}

func (s *Scraper) absoluteURL(u string) string {
	if u == "" || !strings.HasPrefix(u, "/") {
		return u
	}
	return s.cfg.BaseURL + u
}
