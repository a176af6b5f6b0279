// Package store is the spreadsheet-shaped persistence layer for listings.
// One sheet per academic-year period scopes the known-id set so a single
// table never grows unbounded.
package store

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"apprenticetrack-engine/internal/domain"
	"apprenticetrack-engine/internal/sheetdb"
)

// Header is the fixed 10-column row layout. Dates are ISO or empty; the
// Categories column is comma-joined and only populated for RMP rows.
var Header = []string{
	"ID", "Title", "Company", "Location", "Categories",
	"Salary", "Opening Date", "Closing Date", "URL", "Source",
}

const (
	writeAttempts = 3
	writePause    = time.Second
)

type ListingStore struct {
	db  *sheetdb.DB
	now func() time.Time

	pause func(time.Duration)
}

func New(db *sheetdb.DB) *ListingStore {
	return &ListingStore{db: db, now: time.Now, pause: time.Sleep}
}

// PeriodLabel derives the academic-year sheet label: from September onward
// the label is the next calendar year, otherwise the current one.
func PeriodLabel(now time.Time) string {
	year := now.Year()
	if now.Month() >= time.September {
		year++
	}
	return strconv.Itoa(year)
}

func (s *ListingStore) currentSheet() string {
	return PeriodLabel(s.now())
}

// KnownIDs returns every id present in the current period's sheet. An absent
// sheet reads as an empty set.
func (s *ListingStore) KnownIDs(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.db.ReadAll(ctx, s.currentSheet())
	if err != nil {
		return nil, fmt.Errorf("read known ids: %w", err)
	}
	ids := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		if len(row) == 0 || row[0] == "" || row[0] == Header[0] {
			continue
		}
		ids[row[0]] = struct{}{}
	}
	return ids, nil
}

// FilterNew returns the subset of records whose id is not yet stored.
func (s *ListingStore) FilterNew(ctx context.Context, records []*domain.Listing) ([]*domain.Listing, error) {
	known, err := s.KnownIDs(ctx)
	if err != nil {
		return nil, err
	}
	var fresh []*domain.Listing
	for _, r := range records {
		if _, ok := known[r.ID]; !ok {
			fresh = append(fresh, r)
		}
	}
	return fresh, nil
}

// Append persists records to the current period sheet, creating the sheet
// and its header row on first use. The header check makes repeated calls
// safe. Each underlying write is retried; exhausting the retries surfaces
// the last failure instead of dropping data silently.
func (s *ListingStore) Append(ctx context.Context, records []*domain.Listing, src domain.Source) error {
	if len(records) == 0 {
		return nil
	}
	sheet := s.currentSheet()

	if err := s.withRetry(ctx, func() error { return s.db.EnsureSheet(ctx, sheet) }); err != nil {
		return err
	}

	n, err := s.db.RowCount(ctx, sheet)
	if err != nil {
		return fmt.Errorf("check header: %w", err)
	}
	if n == 0 {
		if err := s.withRetry(ctx, func() error { return s.db.AppendRow(ctx, sheet, Header) }); err != nil {
			return err
		}
	}

	for _, r := range records {
		row := rowFor(r, src)
		if err := s.withRetry(ctx, func() error { return s.db.AppendRow(ctx, sheet, row) }); err != nil {
			return err
		}
	}
	return nil
}

func (s *ListingStore) withRetry(ctx context.Context, write func() error) error {
	var last error
	for attempt := 1; attempt <= writeAttempts; attempt++ {
		if last = write(); last == nil {
			return nil
		}
		log.Printf("[store] write attempt %d/%d failed: %v", attempt, writeAttempts, last)
		if attempt < writeAttempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			s.pause(writePause)
		}
	}
	return last
}

func rowFor(r *domain.Listing, src domain.Source) []string {
	categories := ""
	// GMFJ records carry a single route label rather than a category list;
	// their column stays empty.
	if src == domain.SourceRMP {
		categories = strings.Join(r.SourceCategories(), ",")
	}
	return []string{
		r.ID,
		r.Title,
		r.CompanyName,
		r.Location,
		categories,
		r.Salary,
		isoOrEmpty(r.OpeningDate),
		isoOrEmpty(r.ClosingDate),
		r.URL,
		string(src),
	}
}

func isoOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
