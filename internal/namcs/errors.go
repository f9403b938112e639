package namcs

import "fmt"

// UnsupportedYearError reports a year absent from the layout registry.
type UnsupportedYearError struct {
	Year int
}

func (e *UnsupportedYearError) Error() string {
	return fmt.Sprintf("namcs: year %d is not a supported survey year", e.Year)
}

// UnsupportedFieldError reports a requested field outside the supported
// vocabulary or absent from the year's layout.
type UnsupportedFieldError struct {
	Field Field
	Year  int
}

func (e *UnsupportedFieldError) Error() string {
	if e.Year != 0 {
		return fmt.Sprintf("namcs: field %q is not available in the %d layout", e.Field, e.Year)
	}
	return fmt.Sprintf("namcs: field %q is not a supported field", e.Field)
}

// LayoutConflictError reports a registry-construction invariant violation:
// overlapping column ranges or an out-of-bounds span. It indicates a
// configuration bug and is never expected at runtime.
type LayoutConflictError struct {
	Year   int
	FieldA Field
	FieldB Field // empty for out-of-bounds violations
	Reason string
}

func (e *LayoutConflictError) Error() string {
	if e.FieldB != "" {
		return fmt.Sprintf("namcs: layout %d: fields %q and %q %s", e.Year, e.FieldA, e.FieldB, e.Reason)
	}
	return fmt.Sprintf("namcs: layout %d: field %q %s", e.Year, e.FieldA, e.Reason)
}

// RecordLengthMismatchError reports a raw line shorter than the year's
// record length. Short lines indicate a truncated or corrupt source file and
// are never silently padded.
type RecordLengthMismatchError struct {
	Year int
	Row  int
	Got  int
	Want int
}

func (e *RecordLengthMismatchError) Error() string {
	return fmt.Sprintf("namcs: year %d row %d: record length %d, want at least %d", e.Year, e.Row, e.Got, e.Want)
}

// TranslationError reports a raw code absent from the translation table of a
// coded field.
type TranslationError struct {
	Field Field
	Code  string
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("namcs: field %q: cannot translate code %q", e.Field, e.Code)
}
