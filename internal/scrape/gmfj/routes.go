package gmfj

// Route is one coarse sector the site exposes as a numeric search id. The
// display name doubles as the record's source category and must match the
// taxonomy route table exactly.
type Route struct {
	Name string
	ID   int
}

// DefaultRoutes mirrors the site's route picker.
var DefaultRoutes = []Route{
	{"Agriculture, Environment and Animal Care", 1},
	{"Business and Administration", 2},
	{"Care Services", 3},
	{"Catering and Hospitality", 4},
	{"Construction and the Built Environment", 5},
	{"Creative and Design", 6},
	{"Digital", 7},
	{"Education and Early Years", 8},
	{"Engineering and Manufacturing", 9},
	{"Hair and Beauty", 10},
	{"Health and Science", 11},
	{"Legal, Finance and Accounting", 12},
	{"Protective Services", 13},
	{"Sales, Marketing and Procurement", 14},
	{"Transport and Logistics", 15},
}
