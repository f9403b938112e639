package namcs

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// monthNames maps month codes 1-12 to their English names.
var monthNames = map[int]string{
	1: "January", 2: "February", 3: "March", 4: "April",
	5: "May", 6: "June", 7: "July", 8: "August",
	9: "September", 10: "October", 11: "November", 12: "December",
}

// sexNames maps the survey sex codes to their long form.
var sexNames = map[string]string{
	"1": "Male",
	"2": "Female",
}

// specialDiagnosisCodes are codebook sentinel values that carry no
// diagnosis. Every one of them translates to the empty string.
var specialDiagnosisCodes = map[string]bool{
	"Y997":   true, // diagnosis of "none"
	"Y998":   true, // noncodable diagnosis
	"Y999":   true, // illegible diagnosis
	"0000":   true, // blank
	"00000":  true, // blank
	"100000": true, // blank
	"209900": true, // noncodable
	"209910": true, // left before being seen
	"209920": true, // transferred to another facility
	"209930": true, // HMO will not authorize treatment
	"209970": true, // diagnosis of "none"
	"900000": true, // blank
}

// TranslateMonth converts a numeric month code ("1".."12", zero-padded or
// not) into the month name.
func TranslateMonth(field Field, code string) (string, error) {
	n, err := strconv.Atoi(code)
	if err != nil {
		return "", &TranslationError{Field: field, Code: code}
	}
	name, ok := monthNames[n]
	if !ok {
		return "", &TranslationError{Field: field, Code: code}
	}
	return name, nil
}

// TranslateYear converts a 2- or 4-digit year code into a 4-digit year
// string. Two-digit codes resolve into the 1900s: the surveys carrying them
// ran 1973-1996, and birth years reach back a full century, so the 2000s
// never occur. 4-digit codes (1997 onward) pass through.
func TranslateYear(field Field, code string) (string, error) {
	switch len(code) {
	case 2:
		n, err := strconv.Atoi(code)
		if err != nil {
			return "", &TranslationError{Field: field, Code: code}
		}
		return strconv.Itoa(1900 + n), nil
	case 4:
		if _, err := strconv.Atoi(code); err != nil {
			return "", &TranslationError{Field: field, Code: code}
		}
		return code, nil
	default:
		return "", &TranslationError{Field: field, Code: code}
	}
}

// TranslateSex converts a sex code to "Male" or "Female".
func TranslateSex(code string) (string, error) {
	name, ok := sexNames[code]
	if !ok {
		return "", &TranslationError{Field: FieldGender, Code: code}
	}
	return name, nil
}

// TranslateDiagnosis converts one raw diagnosis slot into ICD-9-CM form.
// An entirely blank slot is a valid "no diagnosis in this slot" outcome and
// yields the empty string, as do the codebook's sentinel codes.
//
// Numeric-format recodes use prefix conventions that changed across survey
// years: "&" (1975-76) and "-" (1977-78) stand in for the supplementary
// classification prefix "Y"; a leading "1" marks diagnoses 001-999; a
// leading "2" (or "20") marks V-codes. A decimal point is implied between
// the third and fourth characters of the resolved code.
func TranslateDiagnosis(code string) (string, error) {
	if code == "" {
		return "", nil
	}
	if specialDiagnosisCodes[code] {
		return "", nil
	}

	switch {
	case strings.HasPrefix(code, "&"), strings.HasPrefix(code, "-"):
		code = "Y" + code[1:]
	case strings.HasPrefix(code, "1"):
		code = strings.TrimLeft(code, "1")
	case strings.HasPrefix(code, "20"):
		code = "V" + code[2:]
	case strings.HasPrefix(code, "2"):
		code = "V" + code[1:]
	}

	if len(code) <= 3 {
		return code, nil
	}
	return code[:3] + "." + code[3:], nil
}

// TranslateWeight converts the raw right-justified visit weight into its
// scaled value. divisor is the layout's implied-decimal scale factor; raw
// values that already carry an explicit decimal point use divisor 1.
func TranslateWeight(code string, divisor float64) (float64, error) {
	v, err := strconv.ParseFloat(code, 64)
	if err != nil || v < 0 {
		return 0, &TranslationError{Field: FieldVisitWeight, Code: code}
	}
	return v / divisor, nil
}

// TranslateAge converts a coded age magnitude into whole days. daysPerUnit
// is the year's codebook unit (365 for year-coded ages, overridable per
// year via the codebook configuration).
func TranslateAge(code string, daysPerUnit int) (int, error) {
	n, err := strconv.Atoi(code)
	if err != nil || n < 0 {
		return 0, &TranslationError{Field: FieldPatientAge, Code: code}
	}
	return n * daysPerUnit, nil
}

// AgeFromDates derives the patient age in days from the visit and birth
// month/year, for survey years whose records carry dates instead of a coded
// age. Both dates resolve to the first of the month. A birth date after the
// visit date means the 2-digit birth year wrapped; it is rolled back one
// century.
func AgeFromDates(monthOfVisit, yearOfVisit, monthOfBirth, yearOfBirth string) (int, error) {
	visit, err := monthYearDate(monthOfVisit, yearOfVisit)
	if err != nil {
		return 0, err
	}
	birth, err := monthYearDate(monthOfBirth, yearOfBirth)
	if err != nil {
		return 0, err
	}

	if birth.After(visit) {
		birth = birth.AddDate(-100, 0, 0)
	}

	return int(visit.Sub(birth).Hours() / 24), nil
}

// monthYearDate resolves a translated month name and 4-digit year to the
// first of that month.
func monthYearDate(monthName, year string) (time.Time, error) {
	var monthNum int
	for n, name := range monthNames {
		if name == monthName {
			monthNum = n
			break
		}
	}
	y, err := strconv.Atoi(year)
	if monthNum == 0 || err != nil {
		return time.Time{}, &TranslationError{
			Field: FieldPatientAge,
			Code:  fmt.Sprintf("%s %s", monthName, year),
		}
	}
	return time.Date(y, time.Month(monthNum), 1, 0, 0, 0, 0, time.UTC), nil
}
