package store

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// DisplayRow is the loosely-typed shape handed to the viewer UI.
type DisplayRow struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	CompanyName string   `json:"companyName"`
	Location    string   `json:"location"`
	Categories  []string `json:"categories"`
	Salary      string   `json:"salary"`
	OpeningDate string   `json:"openingDate"`
	ClosingDate string   `json:"closingDate"`
	URL         string   `json:"url"`
	Source      string   `json:"source"`
}

// AllActiveForDisplay reads the full current-period sheet and drops rows
// whose closing date has already passed. Rows with no closing date, a date
// today or later, or a date that fails to parse are kept.
func (s *ListingStore) AllActiveForDisplay(ctx context.Context) ([]DisplayRow, error) {
	rows, err := s.db.ReadAll(ctx, s.currentSheet())
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var out []DisplayRow
	for _, row := range rows {
		if len(row) < len(Header) || row[0] == Header[0] {
			continue
		}
		closing := row[7]
		if closing != "" {
			if t, err := time.Parse("2006-01-02", closing); err == nil && t.Before(today) {
				continue
			}
			// unparsable dates are kept rather than dropped
		}

		var cats []string
		if row[4] != "" {
			cats = strings.Split(row[4], ",")
		}
		out = append(out, DisplayRow{
			ID:          row[0],
			Title:       row[1],
			CompanyName: row[2],
			Location:    row[3],
			Categories:  cats,
			Salary:      row[5],
			OpeningDate: row[6],
			ClosingDate: closing,
			URL:         row[8],
			Source:      row[9],
		})
	}
	return out, nil
}
