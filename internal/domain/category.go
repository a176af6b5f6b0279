package domain

import "strings"

// CategoryGroup is one of the 14 unified sector tags every source label maps
// into. Closed set; never extended at runtime.
type CategoryGroup string

const (
	GroupTechnology     CategoryGroup = "TECHNOLOGY"
	GroupFinance        CategoryGroup = "FINANCE"
	GroupBusiness       CategoryGroup = "BUSINESS"
	GroupEngineering    CategoryGroup = "ENGINEERING"
	GroupMarketing      CategoryGroup = "MARKETING"
	GroupDesign         CategoryGroup = "DESIGN"
	GroupLegal          CategoryGroup = "LEGAL"
	GroupConstruction   CategoryGroup = "CONSTRUCTION"
	GroupRetail         CategoryGroup = "RETAIL"
	GroupHospitality    CategoryGroup = "HOSPITALITY"
	GroupHumanResources CategoryGroup = "HUMAN_RESOURCES"
	GroupProperty       CategoryGroup = "PROPERTY"
	GroupPublicSector   CategoryGroup = "PUBLIC_SECTOR"
	GroupScience        CategoryGroup = "SCIENCE"
)

// Groups lists every unified category in display order.
func Groups() []CategoryGroup {
	return []CategoryGroup{
		GroupTechnology, GroupFinance, GroupBusiness, GroupEngineering,
		GroupMarketing, GroupDesign, GroupLegal, GroupConstruction,
		GroupRetail, GroupHospitality, GroupHumanResources, GroupProperty,
		GroupPublicSector, GroupScience,
	}
}

// DisplayName renders the canonical human-readable form: underscores become
// spaces and each word is capitalized (PUBLIC_SECTOR -> "Public Sector").
func (g CategoryGroup) DisplayName() string {
	words := strings.Split(string(g), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
