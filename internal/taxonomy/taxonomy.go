package taxonomy

import (
	"apprenticetrack-engine/internal/domain"
)

// Taxonomy maps raw source category labels into the 14 unified groups. Two
// tables are consulted in order: the fine slug table (one slug, one group,
// lowercase-hyphenated keys) and the coarse route table (exact-case route
// display names, possibly multiple groups). A label found in neither table
// maps to nothing; that is not an error.
//
// The case rules differ between the tables on purpose: slugs arrive already
// lowercased from search URLs, route names arrive as rendered on the site.
// Mismatched casing silently fails to map.
type Taxonomy struct {
	slugs  map[string]domain.CategoryGroup
	routes map[string][]domain.CategoryGroup
}

// New builds the taxonomy from the static tables. Build it once at startup
// and hand it to whichever components need it.
func New() *Taxonomy {
	slugs := make(map[string]domain.CategoryGroup, len(slugTable))
	for _, e := range slugTable {
		slugs[e.slug] = e.group
	}
	return &Taxonomy{slugs: slugs, routes: routeTable}
}

// Slugs returns the fine-table keys in table order. The RMP fetcher sweeps
// exactly this list.
func (t *Taxonomy) Slugs() []string {
	out := make([]string, len(slugTable))
	for i, e := range slugTable {
		out[i] = e.slug
	}
	return out
}

// Map resolves one raw label to its unified groups. Empty result for an
// unrecognized label.
func (t *Taxonomy) Map(label string) []domain.CategoryGroup {
	if g, ok := t.slugs[label]; ok {
		return []domain.CategoryGroup{g}
	}
	if gs, ok := t.routes[label]; ok {
		cp := make([]domain.CategoryGroup, len(gs))
		copy(cp, gs)
		return cp
	}
	return nil
}

// MapAll unions the mapping of every label, preserving first-seen order and
// collapsing duplicates. Nil or empty input yields an empty result.
func (t *Taxonomy) MapAll(labels []string) []domain.CategoryGroup {
	var out []domain.CategoryGroup
	seen := map[domain.CategoryGroup]bool{}
	for _, label := range labels {
		for _, g := range t.Map(label) {
			if seen[g] {
				continue
			}
			seen[g] = true
			out = append(out, g)
		}
	}
	return out
}
