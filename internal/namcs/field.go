// Package namcs implements the year-parameterized NAMCS record translation
// engine: per-year fixed-width layouts, the parser that slices raw visit
// records, the field translators that decode raw survey codes, and the lazy
// conversion pipeline that assembles cleaned records.
package namcs

// Field identifies one supported output field of a cleaned record.
type Field string

const (
	FieldSourceFileID       Field = "source_file_ID"
	FieldSourceFileRow      Field = "source_file_row"
	FieldDateOfVisit        Field = "date_of_visit"
	FieldDateOfBirth        Field = "date_of_birth"
	FieldYearOfVisit        Field = "year_of_visit"
	FieldYearOfBirth        Field = "year_of_birth"
	FieldMonthOfVisit       Field = "month_of_visit"
	FieldMonthOfBirth       Field = "month_of_birth"
	FieldPatientAge         Field = "patient_age"
	FieldGender             Field = "gender"
	FieldPhysicianDiagnoses Field = "physician_diagnoses"
	FieldVisitWeight        Field = "visit_weight"
)

// SupportedFields is the fixed output vocabulary, in export column order.
// Requests for fields outside this set fail validation.
var SupportedFields = []Field{
	FieldSourceFileID,
	FieldSourceFileRow,
	FieldDateOfVisit,
	FieldDateOfBirth,
	FieldYearOfVisit,
	FieldYearOfBirth,
	FieldMonthOfVisit,
	FieldMonthOfBirth,
	FieldPatientAge,
	FieldGender,
	FieldPhysicianDiagnoses,
	FieldVisitWeight,
}

// DefaultFields matches the original converted-CSV column set.
var DefaultFields = []Field{
	FieldSourceFileID,
	FieldSourceFileRow,
	FieldMonthOfVisit,
	FieldYearOfVisit,
	FieldGender,
	FieldPatientAge,
	FieldPhysicianDiagnoses,
	FieldVisitWeight,
}

// IsSupported reports whether f belongs to the fixed output vocabulary.
func IsSupported(f Field) bool {
	for _, s := range SupportedFields {
		if s == f {
			return true
		}
	}
	return false
}
