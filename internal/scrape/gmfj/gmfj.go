// Package gmfj scrapes the server-rendered listings site. Each route is a
// paginated HTML search; listing fragments are pulled apart with CSS
// selectors and substring matches on the detail paragraphs.
package gmfj

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"apprenticetrack-engine/internal/dateparse"
	"apprenticetrack-engine/internal/domain"
	"apprenticetrack-engine/internal/scrape/util"
)

const (
	listingSel = "div.opportunity-item"
	anchorSel  = "a[href]"
	detailSel  = "p"

	maxPageFailures = 3

	pageDelay  = time.Second
	routeDelay = 2 * time.Second
)

type Config struct {
	BaseURL   string
	UserAgent string // the site rejects default Go client UAs
	Routes    []Route
}

type Scraper struct {
	cfg     Config
	hc      *http.Client
	limiter *util.HostLimiter
}

func New(cfg Config, limiter *util.HostLimiter) *Scraper {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.getmyfirstjob.co.uk"
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "Mozilla/5.0 (compatible; ApprenticeTrack/1.0)"
	}
	if len(cfg.Routes) == 0 {
		cfg.Routes = DefaultRoutes
	}
	return &Scraper{
		cfg:     cfg,
		hc:      &http.Client{Timeout: 20 * time.Second},
		limiter: limiter,
	}
}

func (s *Scraper) Name() string { return "gmfj" }

func (s *Scraper) Source() domain.Source { return domain.SourceGMFJ }

// Fetch walks every route page by page until a page comes back empty or the
// route hits three consecutive failures. Ids are deduplicated across routes
// and pages; delays between pages and routes are fixed and unconditional.
func (s *Scraper) Fetch(ctx context.Context) ([]*domain.Listing, error) {
	seen := map[string]bool{}
	var out []*domain.Listing

	for _, route := range s.cfg.Routes {
		failures := 0
		for page := 1; ; page++ {
			if ctx.Err() != nil {
				log.Printf("[gmfj] sweep cancelled after %d listings", len(out))
				return out, nil
			}

			listings, err := s.fetchPage(ctx, route, page)
			if err != nil {
				failures++
				log.Printf("[gmfj] route=%q page=%d err=%v", route.Name, page, err)
				if failures >= maxPageFailures {
					log.Printf("[gmfj] route=%q abandoned after %d consecutive failures", route.Name, failures)
					break
				}
				s.wait(ctx, pageDelay)
				continue
			}
			failures = 0

			if len(listings) == 0 {
				break // end of results for this route
			}
			for _, l := range listings {
				if seen[l.ID] {
					continue
				}
				seen[l.ID] = true
				out = append(out, l)
			}
			s.wait(ctx, pageDelay)
		}
		s.wait(ctx, routeDelay)
	}

	log.Printf("[gmfj] Processed: %d", len(out))
	return out, nil
}

func (s *Scraper) wait(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

func (s *Scraper) fetchPage(ctx context.Context, route Route, page int) ([]*domain.Listing, error) {
	pageURL := fmt.Sprintf("%s/discover?routeid=%d&page=%d", s.cfg.BaseURL, route.ID, page)

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	req.Header.Set("User-Agent", s.cfg.UserAgent)

	if s.limiter != nil {
		if err := s.limiter.WaitURL(ctx, pageURL); err != nil {
			return nil, err
		}
	}
	res, err := s.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gmfj get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return nil, fmt.Errorf("gmfj status %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("gmfj parse html: %w", err)
	}

	var out []*domain.Listing
	doc.Find(listingSel).Each(func(_ int, item *goquery.Selection) {
		if l := s.parseItem(item, route); l != nil {
			out = append(out, l)
		}
	})
	return out, nil
}

// parseItem projects one listing fragment into a record. A fragment without
// an extractable id is dropped without counting as an error.
func (s *Scraper) parseItem(item *goquery.Selection, route Route) *domain.Listing {
	a := item.Find(anchorSel).First()
	href, ok := a.Attr("href")
	if !ok {
		return nil
	}

	id := idFromHref(href)
	if id == "" {
		return nil
	}
	l, err := domain.NewListing(id, domain.SourceGMFJ)
	if err != nil {
		return nil
	}
	l.Title = util.CleanText(a.Text())
	l.URL = s.absoluteURL(href)
	l.SetSourceCategories([]string{route.Name})

	var details []string
	item.Find(detailSel).Each(func(_ int, p *goquery.Selection) {
		details = append(details, util.CleanText(p.Text()))
	})

	// first two plain paragraphs are company and location
	plain := 0
	for _, d := range details {
		switch {
		case strings.Contains(d, "Wage"):
			if l.Salary == "" {
				l.Salary = util.CleanText(strings.ReplaceAll(d, "Wage", ""))
			}
		case strings.Contains(d, "Closes"):
			if l.ClosingDate == nil {
				if t, ok := dateparse.Parse(d); ok {
					l.ClosingDate = &t
				}
			}
		case strings.Contains(d, "Posted"):
			if l.OpeningDate == nil {
				if t, ok := dateparse.Parse(d); ok {
					l.OpeningDate = &t
				}
			}
		default:
			switch plain {
			case 0:
				l.CompanyName = d
			case 1:
				l.Location = util.NormalizeLocation(d)
			}
			plain++
		}
	}
	return l
}

// idFromHref takes the path suffix after the final slash, query dropped.
func idFromHref(href string) string {
	href = strings.TrimSpace(href)
	if i := strings.IndexAny(href, "?#"); i >= 0 {
		href = href[:i]
	}
	href = strings.TrimSuffix(href, "/")
	if i := strings.LastIndex(href, "/"); i >= 0 {
		href = href[i+1:]
	}
	return href
}

func (s *Scraper) absoluteURL(u string) string {
	if u == "" || !strings.HasPrefix(u, "/") {
		return u
	}
	return s.cfg.BaseURL + u
}
