package scrape

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"apprenticetrack-engine/internal/domain"
	"apprenticetrack-engine/internal/metrics"
	"apprenticetrack-engine/internal/notify"
	"apprenticetrack-engine/internal/scrape/types"
	"apprenticetrack-engine/internal/sheetdb"
	"apprenticetrack-engine/internal/store"
	"apprenticetrack-engine/internal/taxonomy"
)

type stubFetcher struct {
	name string
	src  domain.Source
	out  []*domain.Listing
	err  error
}

func (f *stubFetcher) Name() string          { return f.name }
func (f *stubFetcher) Source() domain.Source { return f.src }
func (f *stubFetcher) Fetch(context.Context) ([]*domain.Listing, error) {
	return f.out, f.err
}

type recordingSender struct {
	mu   sync.Mutex
	msgs []notify.Message
}

func (s *recordingSender) Send(_ context.Context, _ notify.Channel, msg notify.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
	return nil
}

func mustListing(t *testing.T, id string, src domain.Source, title string) *domain.Listing {
	t.Helper()
	l, err := domain.NewListing(id, src)
	if err != nil {
		t.Fatal(err)
	}
	l.Title = title
	return l
}

func newTestStore(t *testing.T) *store.ListingStore {
	t.Helper()
	db, err := sheetdb.Open(filepath.Join(t.TempDir(), "sheets.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return store.New(db)
}

func testDeps(t *testing.T, sender notify.Sender, fetchers ...types.Fetcher) Deps {
	t.Helper()
	return Deps{
		Fetchers: fetchers,
		Store:    newTestStore(t),
		Batcher:  notify.NewBatcher(sender, taxonomy.New()),
		Channels: []notify.Channel{{Name: "jobs"}},
		Metrics:  metrics.NewCollector(),
	}
}

func TestRunOnceStoresAndNotifies(t *testing.T) {
	sender := &recordingSender{}
	d := testDeps(t, sender, &stubFetcher{
		name: "rmp", src: domain.SourceRMP,
		out: []*domain.Listing{
			mustListing(t, "r1", domain.SourceRMP, "Software Apprentice"),
			mustListing(t, "r2", domain.SourceRMP, "Data Apprentice"),
		},
	})

	added, err := RunOnce(context.Background(), d)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if added != 2 {
		t.Fatalf("added = %d, want 2", added)
	}
	if len(sender.msgs) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sender.msgs))
	}
	if got := len(sender.msgs[0].Embeds); got != 2 {
		t.Fatalf("embeds = %d, want 2", got)
	}
}

func TestRunOnceSkipsKnownIDs(t *testing.T) {
	sender := &recordingSender{}
	d := testDeps(t, sender, &stubFetcher{
		name: "rmp", src: domain.SourceRMP,
		out: []*domain.Listing{mustListing(t, "r1", domain.SourceRMP, "Apprentice")},
	})

	if _, err := RunOnce(context.Background(), d); err != nil {
		t.Fatal(err)
	}
	added, err := RunOnce(context.Background(), d)
	if err != nil {
		t.Fatal(err)
	}
	if added != 0 {
		t.Fatalf("second run added = %d, want 0", added)
	}
	if len(sender.msgs) != 1 {
		t.Fatalf("sent %d messages across both runs, want 1", len(sender.msgs))
	}
}

func TestRunOnceIsolatesFetchFailures(t *testing.T) {
	sender := &recordingSender{}
	d := testDeps(t, sender,
		&stubFetcher{name: "rmp", src: domain.SourceRMP, err: errors.New("boom")},
		&stubFetcher{name: "gmfj", src: domain.SourceGMFJ, out: []*domain.Listing{
			mustListing(t, "g1", domain.SourceGMFJ, "Engineering Apprentice"),
		}},
	)

	added, err := RunOnce(context.Background(), d)
	if err != nil {
		t.Fatalf("fetch failure should not escape, got %v", err)
	}
	if added != 1 {
		t.Fatalf("added = %d, want 1", added)
	}
}

func TestRunOnceFiresOnNew(t *testing.T) {
	var seen []string
	d := testDeps(t, &recordingSender{}, &stubFetcher{
		name: "rmp", src: domain.SourceRMP,
		out: []*domain.Listing{
			mustListing(t, "a", domain.SourceRMP, "One"),
			mustListing(t, "b", domain.SourceRMP, "Two"),
		},
	})
	d.OnNew = func(l *domain.Listing) { seen = append(seen, l.ID) }

	if _, err := RunOnce(context.Background(), d); err != nil {
		t.Fatal(err)
	}
	if len(seen) != 2 || seen[0] != "a" || seen[1] != "b" {
		t.Fatalf("OnNew saw %v, want [a b]", seen)
	}
}
