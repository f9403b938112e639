package namcs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	reg := MustRegistry()

	tests := []struct {
		name      string
		year      int
		fields    []Field
		wantYear  bool
		wantField Field
	}{
		{
			name:   "defaults for a dated era year",
			year:   1973,
			fields: DefaultFields,
		},
		{
			name:   "defaults for a modern year",
			year:   2015,
			fields: DefaultFields,
		},
		{
			name:   "derived age from a dated era year",
			year:   1973,
			fields: []Field{FieldPatientAge, FieldDateOfBirth},
		},
		{
			name:   "derived visit year for a short era year",
			year:   2011,
			fields: []Field{FieldYearOfVisit, FieldDateOfVisit},
		},
		{
			name:     "missing survey year",
			year:     1974,
			fields:   DefaultFields,
			wantYear: true,
		},
		{
			name:      "unknown field",
			year:      1973,
			fields:    []Field{Field("diagnosis_code")},
			wantField: Field("diagnosis_code"),
		},
		{
			name:      "birth date absent from aged era layouts",
			year:      1985,
			fields:    []Field{FieldDateOfBirth},
			wantField: FieldDateOfBirth,
		},
		{
			name:      "birth month absent from modern layouts",
			year:      2015,
			fields:    []Field{FieldMonthOfBirth},
			wantField: FieldMonthOfBirth,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(reg, tt.year, tt.fields)

			switch {
			case tt.wantYear:
				var yerr *UnsupportedYearError
				require.ErrorAs(t, err, &yerr)
				assert.Equal(t, tt.year, yerr.Year)
			case tt.wantField != "":
				var ferr *UnsupportedFieldError
				require.ErrorAs(t, err, &ferr)
				assert.Equal(t, tt.wantField, ferr.Field)
			default:
				assert.NoError(t, err)
			}
		})
	}
}
