package taxonomy

import "apprenticetrack-engine/internal/domain"

type slugEntry struct {
	slug  string
	group domain.CategoryGroup
}

// slugTable is the fine-grained mapping from RMP search slugs to unified
// groups. Many slugs share a group; a slug maps to exactly one group.
// Order matters: Slugs() drives the scrape sweep in table order.
var slugTable = []slugEntry{
	{"accountancy", domain.GroupFinance},
	{"actuary", domain.GroupFinance},
	{"aerospace", domain.GroupEngineering},
	{"architecture", domain.GroupConstruction},
	{"audit", domain.GroupFinance},
	{"automotive", domain.GroupEngineering},
	{"banking-finance", domain.GroupFinance},
	{"brand-management", domain.GroupMarketing},
	{"business-management", domain.GroupBusiness},
	{"business-operations", domain.GroupBusiness},
	{"buying", domain.GroupRetail},
	{"chemical-engineering", domain.GroupEngineering},
	{"chemistry", domain.GroupScience},
	{"civil-engineering", domain.GroupConstruction},
	{"commercial-law", domain.GroupLegal},
	{"construction", domain.GroupConstruction},
	{"construction-management", domain.GroupConstruction},
	{"consulting", domain.GroupBusiness},
	{"consumer-products-fmcg", domain.GroupRetail},
	{"customer-service", domain.GroupRetail},
	{"cyber-security", domain.GroupTechnology},
	{"data-analysis", domain.GroupTechnology},
	{"data-science", domain.GroupTechnology},
	{"design", domain.GroupDesign},
	{"digital-marketing", domain.GroupMarketing},
	{"economics", domain.GroupFinance},
	{"electrical-engineering", domain.GroupEngineering},
	{"electronic-engineering", domain.GroupEngineering},
	{"engineering", domain.GroupEngineering},
	{"environmental-science", domain.GroupScience},
	{"estate-agency", domain.GroupProperty},
	{"events-management", domain.GroupHospitality},
	{"facilities-management", domain.GroupProperty},
	{"fashion-design", domain.GroupDesign},
	{"film-tv-media", domain.GroupMarketing},
	{"financial-services", domain.GroupFinance},
	{"food-science", domain.GroupScience},
	{"government", domain.GroupPublicSector},
	{"graphic-design", domain.GroupDesign},
	{"healthcare", domain.GroupScience},
	{"hospitality-management", domain.GroupHospitality},
	{"hotel-management", domain.GroupHospitality},
	{"human-resources", domain.GroupHumanResources},
	{"information-technology", domain.GroupTechnology},
	{"insurance", domain.GroupFinance},
	{"interior-design", domain.GroupDesign},
	{"investment-banking", domain.GroupFinance},
	{"journalism", domain.GroupMarketing},
	{"law", domain.GroupLegal},
	{"legal-services", domain.GroupLegal},
	{"logistics-supply-chain", domain.GroupBusiness},
	{"management", domain.GroupBusiness},
	{"manufacturing", domain.GroupEngineering},
	{"marketing", domain.GroupMarketing},
	{"mechanical-engineering", domain.GroupEngineering},
	{"media-communications", domain.GroupMarketing},
	{"merchandising", domain.GroupRetail},
	{"military-defence", domain.GroupPublicSector},
	{"nuclear-engineering", domain.GroupEngineering},
	{"pensions", domain.GroupFinance},
	{"pharmaceuticals", domain.GroupScience},
	{"physics", domain.GroupScience},
	{"policing", domain.GroupPublicSector},
	{"product-design", domain.GroupDesign},
	{"project-management", domain.GroupBusiness},
	{"property-management", domain.GroupProperty},
	{"public-relations", domain.GroupMarketing},
	{"public-sector", domain.GroupPublicSector},
	{"purchasing", domain.GroupBusiness},
	{"quantity-surveying", domain.GroupConstruction},
	{"real-estate", domain.GroupProperty},
	{"recruitment", domain.GroupHumanResources},
	{"retail-management", domain.GroupRetail},
	{"sales", domain.GroupBusiness},
	{"science", domain.GroupScience},
	{"social-care", domain.GroupPublicSector},
	{"software-engineering", domain.GroupTechnology},
	{"surveying", domain.GroupProperty},
	{"sustainability", domain.GroupScience},
	{"tax", domain.GroupFinance},
	{"teaching-education", domain.GroupPublicSector},
	{"tourism-travel", domain.GroupHospitality},
	{"transport-planning", domain.GroupEngineering},
	{"ux-design", domain.GroupDesign},
	{"web-development", domain.GroupTechnology},
}

// routeTable is the coarse mapping from GMFJ route display names to unified
// groups. Keys are matched exactly, including case; values can span several
// groups.
var routeTable = map[string][]domain.CategoryGroup{
	"Agriculture, Environment and Animal Care": {domain.GroupScience},
	"Business and Administration":              {domain.GroupBusiness},
	"Care Services":                            {domain.GroupPublicSector},
	"Catering and Hospitality":                 {domain.GroupHospitality},
	"Construction and the Built Environment":   {domain.GroupConstruction, domain.GroupProperty},
	"Creative and Design":                      {domain.GroupDesign, domain.GroupMarketing},
	"Digital":                                  {domain.GroupTechnology},
	"Education and Early Years":                {domain.GroupPublicSector},
	"Engineering and Manufacturing":            {domain.GroupEngineering},
	"Hair and Beauty":                          {domain.GroupRetail},
	"Health and Science":                       {domain.GroupScience},
	"Legal, Finance and Accounting":            {domain.GroupLegal, domain.GroupFinance},
	"Protective Services":                      {domain.GroupPublicSector},
	"Sales, Marketing and Procurement":         {domain.GroupMarketing, domain.GroupBusiness},
	"Transport and Logistics":                  {domain.GroupEngineering, domain.GroupBusiness},
}
