package notify

import (
	"strings"

	"apprenticetrack-engine/internal/domain"
	"apprenticetrack-engine/internal/taxonomy"
)

const cardColor = 0x2ecc71

// Card renders one listing as an embed. Unified categories are recomputed
// from the raw source labels at render time.
func Card(l *domain.Listing, tax *taxonomy.Taxonomy) Embed {
	e := Embed{
		Title: l.Title,
		URL:   l.URL,
		Color: cardColor,
	}
	if e.Title == "" {
		e.Title = "Apprenticeship opportunity"
	}
	if l.CompanyLogoURL != "" {
		e.Thumbnail = &EmbedMedia{URL: l.CompanyLogoURL}
	}

	add := func(name, value string, inline bool) {
		if value == "" {
			return
		}
		e.Fields = append(e.Fields, EmbedField{Name: name, Value: value, Inline: inline})
	}

	add("Company", l.CompanyName, true)
	add("Location", l.Location, true)
	add("Salary", l.Salary, true)
	if l.OpeningDate != nil {
		add("Posted", l.OpeningDate.Format("2006-01-02"), true)
	}
	if l.ClosingDate != nil {
		add("Closes", l.ClosingDate.Format("2006-01-02"), true)
	} else {
		add("Closes", "Not published", true)
	}

	if groups := tax.MapAll(l.SourceCategories()); len(groups) > 0 {
		names := make([]string, len(groups))
		for i, g := range groups {
			names[i] = g.DisplayName()
		}
		add("Categories", strings.Join(names, ", "), false)
	}
	return e
}
