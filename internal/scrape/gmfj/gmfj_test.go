package gmfj

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

const pageOne = `<html><body>
<div class="opportunity-item">
  <a href="/Opportunity/Details/90210">Data Technician Apprentice</a>
  <p>TechCorp Ltd</p>
  <p>Leeds</p>
  <p>Wage £18,000 per year</p>
  <p>Closes 1st January 2027</p>
  <p>Posted 14 August 2026</p>
</div>
<div class="opportunity-item">
  <a href="/Opportunity/Details/90211?utm=x">Network Engineer Apprentice</a>
  <p>NetWorks</p>
  <p>York</p>
</div>
<div class="opportunity-item">
  <a>No href here</a>
</div>
</body></html>`

func newRouteServer(t *testing.T, pages map[int]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua == "" {
			t.Errorf("missing User-Agent header")
		}
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		body, ok := pages[page]
		if !ok {
			body = `<html><body></body></html>`
		}
		fmt.Fprint(w, body)
	}))
}

func TestFetchParsesListingFragments(t *testing.T) {
	srv := newRouteServer(t, map[int]string{1: pageOne})
	defer srv.Close()

	s := New(Config{BaseURL: srv.URL, Routes: []Route{{Name: "Digital", ID: 7}}}, nil)
	got, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 listings (anchor without href dropped), got %d", len(got))
	}

	l := got[0]
	if l.ID != "90210" {
		t.Errorf("id = %q", l.ID)
	}
	if l.Title != "Data Technician Apprentice" {
		t.Errorf("title = %q", l.Title)
	}
	if l.CompanyName != "TechCorp Ltd" {
		t.Errorf("company = %q", l.CompanyName)
	}
	if l.Location != "Leeds" {
		t.Errorf("location = %q", l.Location)
	}
	if l.Salary != "£18,000 per year" {
		t.Errorf("salary = %q", l.Salary)
	}
	if want := time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC); l.ClosingDate == nil || !l.ClosingDate.Equal(want) {
		t.Errorf("closing = %v", l.ClosingDate)
	}
	if want := time.Date(2026, time.August, 14, 0, 0, 0, 0, time.UTC); l.OpeningDate == nil || !l.OpeningDate.Equal(want) {
		t.Errorf("posted = %v", l.OpeningDate)
	}
	if cats := l.SourceCategories(); len(cats) != 1 || cats[0] != "Digital" {
		t.Errorf("categories = %v", cats)
	}
	if got[1].ID != "90211" {
		t.Errorf("query-string href id = %q", got[1].ID)
	}
	if got[1].URL != srv.URL+"/Opportunity/Details/90211?utm=x" {
		t.Errorf("url = %q", got[1].URL)
	}
}

func TestFetchStopsOnEmptyPage(t *testing.T) {
	var pagesSeen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pagesSeen = append(pagesSeen, r.URL.Query().Get("page"))
		if r.URL.Query().Get("page") == "1" {
			fmt.Fprint(w, pageOne)
			return
		}
		fmt.Fprint(w, `<html><body></body></html>`)
	}))
	defer srv.Close()

	s := New(Config{BaseURL: srv.URL, Routes: []Route{{Name: "Digital", ID: 7}}}, nil)
	got, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(got))
	}
	if len(pagesSeen) != 2 || pagesSeen[1] != "2" {
		t.Fatalf("expected pagination to stop after the first empty page, saw %v", pagesSeen)
	}
}

func TestFetchAbandonsRouteAfterFailureStreak(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := New(Config{BaseURL: srv.URL, Routes: []Route{{Name: "Digital", ID: 7}}}, nil)
	got, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch must not propagate page failures: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no listings, got %d", len(got))
	}
	if calls != maxPageFailures {
		t.Fatalf("expected %d attempts before abandoning, got %d", maxPageFailures, calls)
	}
}

func TestFetchDeduplicatesAcrossRoutes(t *testing.T) {
	srv := newRouteServer(t, map[int]string{1: pageOne})
	defer srv.Close()

	// both routes serve the same page, so every id repeats
	s := New(Config{BaseURL: srv.URL, Routes: []Route{
		{Name: "Digital", ID: 7},
		{Name: "Engineering and Manufacturing", ID: 9},
	}}, nil)
	// route 2 serves page 1 again on its first page
	got, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected ids deduplicated across routes, got %d", len(got))
	}
}

func TestIDFromHref(t *testing.T) {
	cases := map[string]string{
		"/Opportunity/Details/90210":        "90210",
		"/Opportunity/Details/90210/":       "90210",
		"/Opportunity/Details/90210?utm=x":  "90210",
		"https://x.test/a/b/c#frag":         "c",
		"":                                  "",
	}
	for in, want := range cases {
		if got := idFromHref(in); got != want {
			t.Errorf("idFromHref(%q) = %q, want %q", in, got, want)
		}
	}
}
