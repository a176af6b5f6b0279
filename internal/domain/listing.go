package domain

import (
	"errors"
	"time"
)

// Source identifies which scraper produced a listing. The store uses it to
// pick the row layout (only RMP rows carry a categories column).
type Source string

const (
	SourceRMP  Source = "RMP"
	SourceGMFJ Source = "GMFJ"
)

// Listing is one apprenticeship opportunity, normalized across sources.
// Identity is the source-unique ID and nothing else: the same listing can
// drift in title/salary/dates between scrapes and still dedupe correctly.
type Listing struct {
	ID             string
	Title          string
	CompanyName    string
	CompanyLogoURL string
	Location       string
	Salary         string
	URL            string

	OpeningDate *time.Time
	ClosingDate *time.Time

	Source Source

	sourceCategories []string
}

var ErrEmptyID = errors.New("listing id is empty")

func NewListing(id string, src Source) (*Listing, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	return &Listing{ID: id, Source: src}, nil
}

// SetSourceCategories stores a copy so a caller mutating its slice afterwards
// cannot alter the record.
func (l *Listing) SetSourceCategories(cats []string) {
	if len(cats) == 0 {
		l.sourceCategories = nil
		return
	}
	cp := make([]string, len(cats))
	copy(cp, cats)
	l.sourceCategories = cp
}

// SourceCategories returns a copy of the raw category labels as seen at the
// source, in the order they were set.
func (l *Listing) SourceCategories() []string {
	if len(l.sourceCategories) == 0 {
		return nil
	}
	cp := make([]string, len(l.sourceCategories))
	copy(cp, l.sourceCategories)
	return cp
}

// Equal is identity-only: two listings are the same iff their IDs match.
func (l *Listing) Equal(other *Listing) bool {
	return other != nil && l.ID == other.ID
}
