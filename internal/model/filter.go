package model

import "errors"

var ErrChooseOneFilter = errors.New("choose exactly one filter")

// FilterMode identifies which of the three mutually exclusive retrieval
// strategies a filter request selects.
type FilterMode int

const (
	FilterNone FilterMode = iota
	FilterTemporal
	FilterPriceOrder
	FilterFlavourRank
)

// FilterRequest is a tagged union over the three filter strategies. Exactly
// one of Window, Direction or Flavour is meaningful, indicated by Mode.
// Construct it with ParseFilter (or one of the typed constructors) at the
// boundary; downstream code switches on Mode and never inspects blank fields.
type FilterRequest struct {
	Mode      FilterMode
	Window    string // FilterTemporal: day, week, month or year
	Direction string // FilterPriceOrder: ascending or descending
	Flavour   string // FilterFlavourRank: exact flavour to rank
}

// ParseFilter reduces the three optional form fields to a single-mode filter.
// If zero or more than one field is populated it returns ErrChooseOneFilter
// and the request must not be dispatched.
func ParseFilter(window, direction, flavour string) (FilterRequest, error) {
	var req FilterRequest
	populated := 0

	if window != "" {
		req = TemporalFilter(window)
		populated++
	}
	if direction != "" {
		req = PriceOrderFilter(direction)
		populated++
	}
	if flavour != "" {
		req = FlavourRankFilter(flavour)
		populated++
	}

	if populated != 1 {
		return FilterRequest{}, ErrChooseOneFilter
	}
	return req, nil
}

// TemporalFilter selects purchases whose date falls within the current
// day, ISO week, month or year.
func TemporalFilter(window string) FilterRequest {
	return FilterRequest{Mode: FilterTemporal, Window: window}
}

// PriceOrderFilter orders purchases by price in the given direction.
func PriceOrderFilter(direction string) FilterRequest {
	return FilterRequest{Mode: FilterPriceOrder, Direction: direction}
}

// FlavourRankFilter ranks purchases of one flavour by where they can be
// bought cheapest, located entries first.
func FlavourRankFilter(flavour string) FilterRequest {
	return FilterRequest{Mode: FilterFlavourRank, Flavour: flavour}
}
