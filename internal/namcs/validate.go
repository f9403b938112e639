package namcs

// Validate performs the pre-flight checks run before a pipeline is
// constructed, so malformed requests fail immediately rather than
// mid-stream: the year must be registered and every requested field must be
// obtainable from that year's layout, directly or by derivation.
func Validate(reg *Registry, year int, fields []Field) error {
	layout, err := reg.Get(year)
	if err != nil {
		return err
	}

	for _, f := range fields {
		if !IsSupported(f) {
			return &UnsupportedFieldError{Field: f}
		}
		if !fieldAvailable(layout, f) {
			return &UnsupportedFieldError{Field: f, Year: year}
		}
	}

	return nil
}

// fieldAvailable reports whether a supported field can be populated for the
// given layout. Provenance fields always can; the visit year derives from
// the source file name when absent from the record; the age and the
// composed date fields derive from the month/year parts the layout records.
func fieldAvailable(layout *YearLayout, f Field) bool {
	switch f {
	case FieldSourceFileID, FieldSourceFileRow, FieldYearOfVisit, FieldDateOfVisit:
		return true
	case FieldPatientAge:
		return layout.HasField(FieldPatientAge) ||
			(layout.HasField(FieldMonthOfBirth) && layout.HasField(FieldYearOfBirth))
	case FieldDateOfBirth:
		return layout.HasField(FieldMonthOfBirth) && layout.HasField(FieldYearOfBirth)
	default:
		return layout.HasField(f)
	}
}
