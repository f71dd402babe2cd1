package model

// Farm selects which of the two monitored farms a submission is about. The
// numeric values are the context identifiers the endpoint expects.
type Farm int

const (
	FarmIllinois    Farm = 1
	FarmNorthDakota Farm = 2
)

func (f Farm) Label() string {
	switch f {
	case FarmNorthDakota:
		return "North Dakota Farm"
	default:
		return "Illinois Farm"
	}
}

func (f Farm) Valid() bool {
	return f == FarmIllinois || f == FarmNorthDakota
}

// Boundary corner coordinates of each farm, as registered with the advisory
// service.
var farmCoordinates = map[Farm][]string{
	FarmIllinois: {
		"40 51 59 N, 88 40 14 W",
		"40 51 59 N, 88 40 05 W",
		"40 51 50 N, 88 40 14 W",
		"40 51 50 N, 88 40 05 W",
	},
	FarmNorthDakota: {
		"46 52 08 N, 91 17 04 W",
		"46 52 07 N, 97 16 27 W",
		"46 52 30 N, 97 16 27 W",
		"46 52 30 N, 97 17 04 W",
	},
}

func (f Farm) Coordinates() []string {
	return farmCoordinates[f]
}
