package listing

import "strings"

// CountryAll is the country selector value that disables country filtering.
const CountryAll = "all"

// FilterState is held by whoever renders the board. SavedOnly and MineOnly
// are mutually exclusive; use WithSavedOnly and WithMineOnly to change them.
type FilterState struct {
	Query     string
	Country   string
	SavedOnly bool
	MineOnly  bool
}

func (f FilterState) WithQuery(q string) FilterState {
	f.Query = q
	return f
}

func (f FilterState) WithCountry(country string) FilterState {
	f.Country = country
	return f
}

func (f FilterState) WithSavedOnly(on bool) FilterState {
	f.SavedOnly = on
	if on {
		f.MineOnly = false
	}
	return f
}

func (f FilterState) WithMineOnly(on bool) FilterState {
	f.MineOnly = on
	if on {
		f.SavedOnly = false
	}
	return f
}

func (f FilterState) countryFilter() string {
	c := strings.TrimSpace(f.Country)
	if c == CountryAll {
		return ""
	}
	return c
}

// ApplyFilters returns the listings that pass every active filter, in input
// order. It never modifies all.
func ApplyFilters(all []Listing, f FilterState) []Listing {
	country := f.countryFilter()
	query := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]Listing, 0, len(all))
	for _, l := range all {
		if f.SavedOnly && !l.IsSaved {
			continue
		}
		if f.MineOnly && !l.IsOwner {
			continue
		}
		if country != "" && l.Country != country {
			continue
		}
		if query != "" && !matchesQuery(l, query) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func matchesQuery(l Listing, q string) bool {
	fields := [...]string{
		l.Title,
		l.Description,
		l.City,
		l.FirstName + " " + l.LastName,
	}
	for _, s := range fields {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}
