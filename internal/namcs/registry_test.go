package namcs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistryYears(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)

	years := reg.Years()
	assert.Len(t, years, 35)
	assert.Equal(t, 1973, years[0])
	assert.Equal(t, 2015, years[len(years)-1])

	// Survey years with no public-use file are absent.
	for _, missing := range []int{1974, 1982, 1983, 1984, 1986, 1987, 1988, 1991} {
		_, err := reg.Get(missing)
		var uerr *UnsupportedYearError
		require.ErrorAs(t, err, &uerr)
		assert.Equal(t, missing, uerr.Year)
	}
}

func TestRegistryGet(t *testing.T) {
	reg := MustRegistry()

	l, err := reg.Get(1973)
	require.NoError(t, err)
	assert.Equal(t, 92, l.RecordLength)
	assert.True(t, l.HasField(FieldMonthOfBirth))
	assert.False(t, l.HasField(FieldPatientAge))

	l, err = reg.Get(2015)
	require.NoError(t, err)
	assert.Equal(t, 2713, l.RecordLength)
	assert.True(t, l.HasField(FieldPatientAge))
	assert.False(t, l.HasField(FieldYearOfVisit))

	spec, ok := l.Field(FieldPhysicianDiagnoses)
	require.True(t, ok)
	assert.Len(t, spec.Spans, 5)
}

// Every registered layout must satisfy the structural invariants: spans
// inside the record, no overlap, unique names.
func TestRegistryLayoutInvariants(t *testing.T) {
	reg := MustRegistry()

	for _, year := range reg.Years() {
		l, err := reg.Get(year)
		require.NoError(t, err)
		require.NoError(t, l.validate(), "layout %d", year)
		assert.True(t, l.HasField(FieldGender), "layout %d", year)
		assert.True(t, l.HasField(FieldPhysicianDiagnoses), "layout %d", year)
		assert.True(t, l.HasField(FieldVisitWeight), "layout %d", year)
	}
}

func TestLayoutValidateConflicts(t *testing.T) {
	tests := []struct {
		name   string
		layout *YearLayout
	}{
		{
			name: "overlapping spans",
			layout: &YearLayout{
				Year: 1999, RecordLength: 20, WeightDivisor: 1,
				Fields: []FieldSpec{
					scalar(FieldMonthOfVisit, KindMonth, 1, 4),
					scalar(FieldYearOfVisit, KindYear, 3, 4),
				},
			},
		},
		{
			name: "span past record end",
			layout: &YearLayout{
				Year: 1999, RecordLength: 10, WeightDivisor: 1,
				Fields: []FieldSpec{
					scalar(FieldVisitWeight, KindWeight, 8, 6),
				},
			},
		},
		{
			name: "duplicate field",
			layout: &YearLayout{
				Year: 1999, RecordLength: 20, WeightDivisor: 1,
				Fields: []FieldSpec{
					scalar(FieldGender, KindSex, 1, 1),
					scalar(FieldGender, KindSex, 5, 1),
				},
			},
		},
		{
			name: "zero weight divisor",
			layout: &YearLayout{
				Year: 1999, RecordLength: 20,
				Fields: []FieldSpec{
					scalar(FieldGender, KindSex, 1, 1),
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.layout.validate()
			var cerr *LayoutConflictError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, 1999, cerr.Year)
		})
	}
}
