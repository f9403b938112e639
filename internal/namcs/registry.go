package namcs

import "sort"

// Registry maps survey years to their immutable record layouts. It is
// populated once by NewRegistry and read-only afterward, so concurrent
// readers need no locking.
type Registry struct {
	layouts map[int]*YearLayout
}

// NewRegistry builds the registry of every statically known survey year.
// A layout invariant violation is a configuration bug; it surfaces as a
// LayoutConflictError and the registry must not be used.
func NewRegistry() (*Registry, error) {
	r := &Registry{layouts: make(map[int]*YearLayout)}

	for _, l := range yearLayouts() {
		if err := r.register(l); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// MustRegistry is NewRegistry for initialization paths where a layout
// conflict is unrecoverable.
func MustRegistry() *Registry {
	r, err := NewRegistry()
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) register(l *YearLayout) error {
	if err := l.validate(); err != nil {
		return err
	}
	r.layouts[l.Year] = l
	return nil
}

// Get returns the layout for a year, or UnsupportedYearError.
func (r *Registry) Get(year int) (*YearLayout, error) {
	l, ok := r.layouts[year]
	if !ok {
		return nil, &UnsupportedYearError{Year: year}
	}
	return l, nil
}

// Years returns every registered survey year in ascending order.
func (r *Registry) Years() []int {
	years := make([]int, 0, len(r.layouts))
	for y := range r.layouts {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}
