package namcs

import (
	"bufio"
	"io"
	"strings"

	"go.uber.org/zap"
)

// ErrorPolicy controls how the pipeline reacts to a row that fails to parse
// or translate.
type ErrorPolicy int

const (
	// FailFast surfaces the first row error to the consumer at the point
	// that row would have been produced.
	FailFast ErrorPolicy = iota
	// SkipInvalid omits the offending row, counts it, and continues.
	SkipInvalid
)

// ReaderOptions configures a conversion pipeline.
type ReaderOptions struct {
	// Fields restricts which supported fields are populated. Defaults to
	// DefaultFields. Unrequested fields are not translated at all.
	Fields []Field
	// OnError selects the row failure policy. Defaults to FailFast.
	OnError ErrorPolicy
	// AgeDaysPerUnit is the codebook unit of the coded age field, in days.
	// Defaults to 365 (year-coded ages).
	AgeDaysPerUnit int
}

// Reader is a lazy, pull-based conversion pipeline over one source file.
// No row is parsed or translated until Next is called, and no state beyond
// the current line is buffered, so files far larger than memory stream
// safely. A Reader yields rows strictly in source order and is not
// restartable; it is not safe for concurrent use, but independent Readers
// share nothing mutable.
type Reader struct {
	scanner      *bufio.Scanner
	closer       io.Closer
	layout       *YearLayout
	sourceFileID string

	fields  []Field
	needed  map[Field]bool
	policy  ErrorPolicy
	ageUnit int

	row     int
	skipped int
	err     error
}

// NewReader builds a conversion pipeline for one year's source file.
// sourceFileID is the provenance tag recorded on every record, e.g.
// "1973_NAMCS". If r is an io.Closer, Close releases it.
func NewReader(r io.Reader, layout *YearLayout, sourceFileID string, opts ReaderOptions) *Reader {
	fields := opts.Fields
	if len(fields) == 0 {
		fields = DefaultFields
	}
	ageUnit := opts.AgeDaysPerUnit
	if ageUnit == 0 {
		ageUnit = 365
	}

	closer, _ := r.(io.Closer)
	return &Reader{
		scanner:      bufio.NewScanner(r),
		closer:       closer,
		layout:       layout,
		sourceFileID: sourceFileID,
		fields:       fields,
		needed:       neededFields(fields, layout),
		policy:       opts.OnError,
		ageUnit:      ageUnit,
	}
}

// Fields returns the requested field set, in export column order.
func (r *Reader) Fields() []Field { return r.fields }

// Skipped returns the number of rows omitted so far under SkipInvalid.
func (r *Reader) Skipped() int { return r.skipped }

// Close releases the underlying source, if it is closable. Safe to call
// after exhaustion, on abandoning iteration, or after an error.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// Next produces the next cleaned record, or io.EOF when the source is
// exhausted. Under FailFast the first row error ends the sequence; under
// SkipInvalid the offending row is counted and the sequence continues.
func (r *Reader) Next() (*CleanedRecord, error) {
	if r.err != nil {
		return nil, r.err
	}

	for r.scanner.Scan() {
		r.row++
		rec, err := r.convert(RawRecord{
			SourceFileID: r.sourceFileID,
			Row:          r.row,
			Line:         r.scanner.Text(),
		})
		if err != nil {
			if r.policy == SkipInvalid {
				r.skipped++
				zap.L().Debug("skipping invalid record",
					zap.String("source", r.sourceFileID),
					zap.Int("row", r.row),
					zap.Error(err),
				)
				continue
			}
			r.err = err
			return nil, err
		}
		return rec, nil
	}

	if err := r.scanner.Err(); err != nil {
		r.err = err
		return nil, err
	}
	r.err = io.EOF
	return nil, io.EOF
}

// convert translates one raw record into a cleaned record: parse, translate
// each needed field, derive the fields the layout does not carry directly.
func (r *Reader) convert(raw RawRecord) (*CleanedRecord, error) {
	slices, err := Parse(raw.Line, r.layout)
	if err != nil {
		if m, ok := err.(*RecordLengthMismatchError); ok {
			m.Row = raw.Row
		}
		return nil, err
	}

	rec := &CleanedRecord{
		SourceFileID:  raw.SourceFileID,
		SourceFileRow: raw.Row,
	}

	for _, f := range r.layout.Fields {
		if !r.needed[f.Name] {
			continue
		}
		if err := r.translateField(rec, f, slices[f.Name]); err != nil {
			return nil, err
		}
	}

	if err := r.derive(rec); err != nil {
		return nil, err
	}

	return rec, nil
}

func (r *Reader) translateField(rec *CleanedRecord, f FieldSpec, values []string) error {
	switch f.Kind {
	case KindMonth:
		name, err := TranslateMonth(f.Name, values[0])
		if err != nil {
			return err
		}
		if f.Name == FieldMonthOfBirth {
			rec.MonthOfBirth = name
		} else {
			rec.MonthOfVisit = name
		}

	case KindYear:
		year, err := TranslateYear(f.Name, values[0])
		if err != nil {
			return err
		}
		if f.Name == FieldYearOfBirth {
			rec.YearOfBirth = year
		} else {
			rec.YearOfVisit = year
		}

	case KindSex:
		sex, err := TranslateSex(values[0])
		if err != nil {
			return err
		}
		rec.Gender = sex

	case KindAge:
		days, err := TranslateAge(values[0], r.ageUnit)
		if err != nil {
			return err
		}
		rec.PatientAge = &days

	case KindWeight:
		w, err := TranslateWeight(values[0], r.layout.WeightDivisor)
		if err != nil {
			return err
		}
		rec.VisitWeight = &w

	case KindDiagnosis:
		codes := make([]string, len(values))
		for i, v := range values {
			code, err := TranslateDiagnosis(v)
			if err != nil {
				return err
			}
			codes[i] = code
		}
		rec.PhysicianDiagnoses = trimTrailingBlanks(codes)
	}

	return nil
}

// derive fills requested fields that the year's layout does not record
// directly: patient age from the birth/visit dates, the visit year from the
// source file name, and the composed date fields.
func (r *Reader) derive(rec *CleanedRecord) error {
	if r.needed[FieldYearOfVisit] && !r.layout.HasField(FieldYearOfVisit) {
		rec.YearOfVisit = strings.SplitN(r.sourceFileID, "_", 2)[0]
	}

	if r.needed[FieldPatientAge] && rec.PatientAge == nil {
		days, err := AgeFromDates(rec.MonthOfVisit, rec.YearOfVisit, rec.MonthOfBirth, rec.YearOfBirth)
		if err != nil {
			return err
		}
		rec.PatientAge = &days
	}

	if r.requested(FieldDateOfVisit) && rec.MonthOfVisit != "" && rec.YearOfVisit != "" {
		rec.DateOfVisit = rec.MonthOfVisit + " " + rec.YearOfVisit
	}
	if r.requested(FieldDateOfBirth) && rec.MonthOfBirth != "" && rec.YearOfBirth != "" {
		rec.DateOfBirth = rec.MonthOfBirth + " " + rec.YearOfBirth
	}

	// Drop translation byproducts the caller never asked for.
	if !r.requested(FieldMonthOfVisit) {
		rec.MonthOfVisit = ""
	}
	if !r.requested(FieldYearOfVisit) {
		rec.YearOfVisit = ""
	}
	if !r.requested(FieldMonthOfBirth) {
		rec.MonthOfBirth = ""
	}
	if !r.requested(FieldYearOfBirth) {
		rec.YearOfBirth = ""
	}

	return nil
}

func (r *Reader) requested(f Field) bool {
	for _, rf := range r.fields {
		if rf == f {
			return true
		}
	}
	return false
}

// neededFields expands the requested set with translation dependencies:
// deriving an age needs both dates, composing a date field needs its parts,
// all relative to what the layout actually records.
func neededFields(requested []Field, layout *YearLayout) map[Field]bool {
	needed := make(map[Field]bool, len(requested))
	for _, f := range requested {
		needed[f] = true
	}

	if needed[FieldPatientAge] && !layout.HasField(FieldPatientAge) {
		needed[FieldMonthOfVisit] = true
		needed[FieldYearOfVisit] = true
		needed[FieldMonthOfBirth] = true
		needed[FieldYearOfBirth] = true
	}
	if needed[FieldDateOfVisit] {
		needed[FieldMonthOfVisit] = true
		needed[FieldYearOfVisit] = true
	}
	if needed[FieldDateOfBirth] {
		needed[FieldMonthOfBirth] = true
		needed[FieldYearOfBirth] = true
	}

	return needed
}

// trimTrailingBlanks drops empty diagnosis slots from the end of the list
// while preserving interior blanks, keeping the surviving codes in survey
// column order.
func trimTrailingBlanks(codes []string) []string {
	end := len(codes)
	for end > 0 && codes[end-1] == "" {
		end--
	}
	return codes[:end]
}
