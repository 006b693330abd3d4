package schema

import "sort"

// Regions maps each supported state to its local government areas
var Regions = map[string][]string{
	"Lagos":       {"Ikeja", "Alimosho", "Kosofe", "Mushin", "Oshodi-Isolo", "Surulere", "Lagos Island"},
	"Kano":        {"Kano Municipal", "Fagge", "Dala", "Gwale", "Tarauni"},
	"Enugu":       {"Enugu North", "Enugu South", "Enugu East", "Udi", "Nsukka"},
	"Rivers":      {"Port Harcourt", "Obio-Akpor"},
	"Abuja (FCT)": {"Abuja Municipal Area Council (AMAC)"},
}

type Region struct {
	State string   `json:"state"`
	LGAs  []string `json:"lgas"`
}

// RegionList returns the regions sorted by state name
func RegionList() []Region {
	states := make([]string, 0, len(Regions))
	for s := range Regions {
		states = append(states, s)
	}
	sort.Strings(states)

	regions := make([]Region, 0, len(states))
	for _, s := range states {
		regions = append(regions, Region{State: s, LGAs: Regions[s]})
	}
	return regions
}

// ValidLGA tells whether lga belongs to state
func ValidLGA(state, lga string) bool {
	for _, l := range Regions[state] {
		if l == lga {
			return true
		}
	}
	return false
}
