package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"apprenticetrack-engine/internal/domain"
	"apprenticetrack-engine/internal/sheetdb"
)

func newTestStore(t *testing.T, now time.Time) *ListingStore {
	t.Helper()
	db, err := sheetdb.Open(filepath.Join(t.TempDir(), "listings.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	s := New(db)
	s.now = func() time.Time { return now }
	s.pause = func(time.Duration) {}
	return s
}

func mustListing(t *testing.T, id string, src domain.Source) *domain.Listing {
	t.Helper()
	l, err := domain.NewListing(id, src)
	if err != nil {
		t.Fatalf("new listing: %v", err)
	}
	return l
}

func TestPeriodLabel(t *testing.T) {
	cases := []struct {
		now  time.Time
		want string
	}{
		{time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC), "2026"},
		{time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC), "2027"},
		{time.Date(2026, time.December, 25, 0, 0, 0, 0, time.UTC), "2027"},
		{time.Date(2027, time.January, 2, 0, 0, 0, 0, time.UTC), "2027"},
	}
	for _, c := range cases {
		if got := PeriodLabel(c.now); got != c.want {
			t.Errorf("PeriodLabel(%v) = %q, want %q", c.now, got, c.want)
		}
	}
}

func TestKnownIDsEmptyWhenSheetAbsent(t *testing.T) {
	s := newTestStore(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))
	ids, err := s.KnownIDs(context.Background())
	if err != nil {
		t.Fatalf("known ids: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected empty set, got %v", ids)
	}
}

func TestAppendRoundTripAndDuplicateIDs(t *testing.T) {
	s := newTestStore(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	a := mustListing(t, "123", domain.SourceRMP)
	a.Title = "Degree Apprentice"
	a.SetSourceCategories([]string{"software-engineering"})

	if err := s.Append(ctx, []*domain.Listing{a}, domain.SourceRMP); err != nil {
		t.Fatalf("append: %v", err)
	}

	// Second call with an overlapping record goes through FilterNew, as the
	// pipeline does it; the duplicate must not be appended again.
	b := mustListing(t, "123", domain.SourceRMP)
	c := mustListing(t, "456", domain.SourceRMP)
	fresh, err := s.FilterNew(ctx, []*domain.Listing{b, c})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(fresh) != 1 || fresh[0].ID != "456" {
		t.Fatalf("fresh = %v", fresh)
	}
	if err := s.Append(ctx, fresh, domain.SourceRMP); err != nil {
		t.Fatalf("append: %v", err)
	}

	ids, err := s.KnownIDs(ctx)
	if err != nil {
		t.Fatalf("known ids: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected exactly 2 ids, got %v", ids)
	}
	if _, ok := ids["123"]; !ok {
		t.Fatal("id 123 missing")
	}
}

func TestAppendWritesHeaderOnce(t *testing.T) {
	s := newTestStore(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	_ = s.Append(ctx, []*domain.Listing{mustListing(t, "1", domain.SourceRMP)}, domain.SourceRMP)
	_ = s.Append(ctx, []*domain.Listing{mustListing(t, "2", domain.SourceRMP)}, domain.SourceRMP)

	rows, err := s.db.ReadAll(ctx, "2026")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	headers := 0
	for _, row := range rows {
		if row[0] == "ID" {
			headers++
		}
	}
	if headers != 1 {
		t.Fatalf("expected one header row, got %d (rows=%v)", headers, rows)
	}
}

func TestAppendColumnLayoutPerSource(t *testing.T) {
	s := newTestStore(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	a := mustListing(t, "rmp-1", domain.SourceRMP)
	a.SetSourceCategories([]string{"cyber-security", "data-science"})
	closing := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	a.ClosingDate = &closing

	b := mustListing(t, "gmfj-1", domain.SourceGMFJ)
	b.SetSourceCategories([]string{"Digital"})

	_ = s.Append(ctx, []*domain.Listing{a}, domain.SourceRMP)
	_ = s.Append(ctx, []*domain.Listing{b}, domain.SourceGMFJ)

	rows, _ := s.db.ReadAll(ctx, "2026")
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[1][4] != "cyber-security,data-science" {
		t.Fatalf("rmp categories column = %q", rows[1][4])
	}
	if rows[1][7] != "2026-06-01" {
		t.Fatalf("closing date column = %q", rows[1][7])
	}
	if rows[2][4] != "" {
		t.Fatalf("gmfj categories column must be empty, got %q", rows[2][4])
	}
	if rows[2][9] != "GMFJ" {
		t.Fatalf("source column = %q", rows[2][9])
	}
}

func TestAllActiveForDisplayFiltersPastClosingDates(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	s := newTestStore(t, now)
	ctx := context.Background()

	yesterday := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)
	today := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

	past := mustListing(t, "past", domain.SourceRMP)
	past.ClosingDate = &yesterday
	open := mustListing(t, "open", domain.SourceRMP)
	open.ClosingDate = &today
	undated := mustListing(t, "undated", domain.SourceRMP)

	_ = s.Append(ctx, []*domain.Listing{past, open, undated}, domain.SourceRMP)

	// A row with a mangled closing date is conservatively kept.
	_ = s.db.AppendRow(ctx, "2026", []string{
		"mangled", "", "", "", "", "", "", "soonish", "", "RMP",
	})

	rows, err := s.AllActiveForDisplay(ctx)
	if err != nil {
		t.Fatalf("display: %v", err)
	}

	got := map[string]bool{}
	for _, r := range rows {
		got[r.ID] = true
	}
	if got["past"] {
		t.Fatal("row closing yesterday must be excluded")
	}
	for _, id := range []string{"open", "undated", "mangled"} {
		if !got[id] {
			t.Fatalf("row %q must be included (got %v)", id, got)
		}
	}
}

func TestAllActiveForDisplaySplitsCategories(t *testing.T) {
	s := newTestStore(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	l := mustListing(t, "1", domain.SourceRMP)
	l.SetSourceCategories([]string{"law", "tax"})
	_ = s.Append(ctx, []*domain.Listing{l}, domain.SourceRMP)

	rows, err := s.AllActiveForDisplay(ctx)
	if err != nil || len(rows) != 1 {
		t.Fatalf("rows=%v err=%v", rows, err)
	}
	if len(rows[0].Categories) != 2 || rows[0].Categories[0] != "law" || rows[0].Categories[1] != "tax" {
		t.Fatalf("categories = %v", rows[0].Categories)
	}
}
