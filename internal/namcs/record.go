package namcs

import (
	"strconv"
	"strings"
)

// RawRecord is one unparsed line of a source file.
type RawRecord struct {
	SourceFileID string // e.g. "1973_NAMCS"
	Row          int    // 1-based line number
	Line         string // original text, untouched
}

// CleanedRecord is the translated form of one patient visit. Only the
// fields requested from the pipeline are populated; PatientAge and
// VisitWeight are nil when unrequested or unknown.
type CleanedRecord struct {
	SourceFileID  string
	SourceFileRow int

	DateOfVisit  string // "June 1973"
	DateOfBirth  string
	YearOfVisit  string
	YearOfBirth  string
	MonthOfVisit string
	MonthOfBirth string

	PatientAge *int // whole days, non-negative
	Gender     string

	// PhysicianDiagnoses preserves survey column order. Trailing blank
	// slots are dropped; interior blanks remain as empty strings.
	PhysicianDiagnoses []string

	VisitWeight *float64 // non-negative
}

// Value serializes one field of the record for tabular output. Diagnoses
// are joined with ";"; unpopulated numeric fields serialize empty.
func (c *CleanedRecord) Value(f Field) string {
	switch f {
	case FieldSourceFileID:
		return c.SourceFileID
	case FieldSourceFileRow:
		return strconv.Itoa(c.SourceFileRow)
	case FieldDateOfVisit:
		return c.DateOfVisit
	case FieldDateOfBirth:
		return c.DateOfBirth
	case FieldYearOfVisit:
		return c.YearOfVisit
	case FieldYearOfBirth:
		return c.YearOfBirth
	case FieldMonthOfVisit:
		return c.MonthOfVisit
	case FieldMonthOfBirth:
		return c.MonthOfBirth
	case FieldPatientAge:
		if c.PatientAge == nil {
			return ""
		}
		return strconv.Itoa(*c.PatientAge)
	case FieldGender:
		return c.Gender
	case FieldPhysicianDiagnoses:
		return strings.Join(c.PhysicianDiagnoses, ";")
	case FieldVisitWeight:
		if c.VisitWeight == nil {
			return ""
		}
		return strconv.FormatFloat(*c.VisitWeight, 'f', -1, 64)
	default:
		return ""
	}
}
