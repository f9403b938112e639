package namcs

import "sort"

// Kind selects the translator applied to a field's raw substring. Field
// metadata is pure data; translators are stateless functions dispatched by a
// single switch on Kind.
type Kind int

const (
	KindRaw       Kind = iota // pass-through, trimmed
	KindMonth                 // numeric month code -> month name
	KindYear                  // 2- or 4-digit year -> 4-digit year
	KindSex                   // sex code -> "Male"/"Female"
	KindAge                   // coded age magnitude -> days
	KindDiagnosis             // ICD-9-CM slot -> formatted code string
	KindWeight                // right-justified digits -> scaled float
)

// Span is a half-open 0-based column range [Start, Start+Len) in a raw line.
type Span struct {
	Start int
	Len   int
}

// End returns the exclusive end column.
func (s Span) End() int { return s.Start + s.Len }

// FieldSpec describes one survey field in a year's record layout. Scalar
// fields carry a single span; physician_diagnoses carries one span per
// diagnosis slot, in survey column order.
type FieldSpec struct {
	Name  Field
	Kind  Kind
	Spans []Span
}

// YearLayout is the immutable per-year record layout. Constructed once at
// process start and never mutated, so it is safe for concurrent readers.
type YearLayout struct {
	Year         int
	RecordLength int

	// WeightDivisor is the implied-decimal scale factor for the raw visit
	// weight field (a power of ten, >= 1). Years whose raw files carry an
	// explicit decimal point use 1.
	WeightDivisor float64

	Fields []FieldSpec
}

// Field returns the spec for the named field, if present.
func (l *YearLayout) Field(name Field) (FieldSpec, bool) {
	for _, f := range l.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// HasField reports whether the layout defines the named field directly.
func (l *YearLayout) HasField(name Field) bool {
	_, ok := l.Field(name)
	return ok
}

// validate checks the layout invariants: unique field names, every span
// inside [0, RecordLength), and no two spans overlapping.
func (l *YearLayout) validate() error {
	if l.WeightDivisor <= 0 {
		return &LayoutConflictError{
			Year:   l.Year,
			FieldA: FieldVisitWeight,
			Reason: "has non-positive weight divisor",
		}
	}

	type owned struct {
		name Field
		span Span
	}
	var spans []owned

	seen := make(map[Field]bool, len(l.Fields))
	for _, f := range l.Fields {
		if seen[f.Name] {
			return &LayoutConflictError{
				Year:   l.Year,
				FieldA: f.Name,
				Reason: "is defined twice",
			}
		}
		seen[f.Name] = true

		for _, sp := range f.Spans {
			if sp.Len <= 0 || sp.Start < 0 || sp.End() > l.RecordLength {
				return &LayoutConflictError{
					Year:   l.Year,
					FieldA: f.Name,
					Reason: "exceeds the record length",
				}
			}
			spans = append(spans, owned{f.Name, sp})
		}
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].span.Start < spans[j].span.Start })
	for i := 1; i < len(spans); i++ {
		prev, cur := spans[i-1], spans[i]
		if cur.span.Start < prev.span.End() {
			return &LayoutConflictError{
				Year:   l.Year,
				FieldA: prev.name,
				FieldB: cur.name,
				Reason: "occupy overlapping columns",
			}
		}
	}

	return nil
}
