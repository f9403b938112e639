package namcs

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// line1973 is a minimal 1973 visit: June 1973, born October 1910, female,
// diagnoses 4700 and V032, visit weight 13479.
func line1973() string {
	return placeAt(92, map[int]string{
		1:  "0673",
		5:  "1010",
		9:  "2",
		39: "4700V032",
		71: "0000013479",
	})
}

// line2015 is a minimal 2015 visit: December, 45 years old, male, five
// diagnosis slots populated, explicit-decimal visit weight.
func line2015() string {
	return placeAt(2713, map[int]string{
		1:    "12",
		4:    "045",
		11:   "1",
		148:  "72310 71941 72950 V5080 V00009",
		2682: "414200.0481",
	})
}

func newTestReader(t *testing.T, year int, input string, opts ReaderOptions) *Reader {
	t.Helper()
	layout, err := MustRegistry().Get(year)
	require.NoError(t, err)
	return NewReader(strings.NewReader(input), layout, fmt.Sprintf("%d_NAMCS", year), opts)
}

func TestReaderDatedEraRecord(t *testing.T) {
	r := newTestReader(t, 1973, line1973()+"\n", ReaderOptions{})

	rec, err := r.Next()
	require.NoError(t, err)

	assert.Equal(t, "1973_NAMCS", rec.SourceFileID)
	assert.Equal(t, 1, rec.SourceFileRow)
	assert.Equal(t, "June", rec.MonthOfVisit)
	assert.Equal(t, "1973", rec.YearOfVisit)
	assert.Equal(t, "Female", rec.Gender)
	require.NotNil(t, rec.PatientAge)
	assert.Equal(t, 22889, *rec.PatientAge)
	assert.Equal(t, []string{"470.0", "V03.2"}, rec.PhysicianDiagnoses)
	require.NotNil(t, rec.VisitWeight)
	assert.Equal(t, 13479.0, *rec.VisitWeight)

	// Birth date parts were translation inputs only, not requested output.
	assert.Empty(t, rec.MonthOfBirth)
	assert.Empty(t, rec.YearOfBirth)

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestReaderModernRecord(t *testing.T) {
	r := newTestReader(t, 2015, line2015()+"\n", ReaderOptions{})

	rec, err := r.Next()
	require.NoError(t, err)

	assert.Equal(t, "2015_NAMCS", rec.SourceFileID)
	assert.Equal(t, "December", rec.MonthOfVisit)
	// 2015 records carry no visit year; it derives from the source file.
	assert.Equal(t, "2015", rec.YearOfVisit)
	assert.Equal(t, "Male", rec.Gender)
	require.NotNil(t, rec.PatientAge)
	assert.Equal(t, 45*365, *rec.PatientAge)
	assert.Equal(t,
		[]string{"723.10", "719.41", "729.50", "V50.80", "V00.009"},
		rec.PhysicianDiagnoses)
	require.NotNil(t, rec.VisitWeight)
	assert.InDelta(t, 414200.0481, *rec.VisitWeight, 1e-9)
}

func TestReaderInteriorBlankDiagnosis(t *testing.T) {
	line := placeAt(92, map[int]string{
		1:  "0673",
		5:  "1010",
		9:  "1",
		39: "4700",
		47: "V032",
		71: "0000000100",
	})
	r := newTestReader(t, 1973, line+"\n", ReaderOptions{})

	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, []string{"470.0", "", "V03.2"}, rec.PhysicianDiagnoses)
}

func TestReaderFailFast(t *testing.T) {
	input := line1973() + "\n" + "too short" + "\n" + line1973() + "\n"
	r := newTestReader(t, 1973, input, ReaderOptions{OnError: FailFast})

	_, err := r.Next()
	require.NoError(t, err)

	_, err = r.Next()
	var merr *RecordLengthMismatchError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, 2, merr.Row)

	// The sequence has ended; the error is sticky.
	_, err2 := r.Next()
	assert.Equal(t, err, err2)
}

func TestReaderSkipInvalid(t *testing.T) {
	input := line1973() + "\n" + "too short" + "\n" + line1973() + "\n"
	r := newTestReader(t, 1973, input, ReaderOptions{OnError: SkipInvalid})

	var rows []int
	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		rows = append(rows, rec.SourceFileRow)
	}

	assert.Equal(t, []int{1, 3}, rows)
	assert.Equal(t, 1, r.Skipped())
}

func TestReaderFieldSelection(t *testing.T) {
	r := newTestReader(t, 1973, line1973()+"\n", ReaderOptions{
		Fields: []Field{FieldDateOfVisit, FieldGender},
	})

	rec, err := r.Next()
	require.NoError(t, err)

	assert.Equal(t, "June 1973", rec.DateOfVisit)
	assert.Equal(t, "Female", rec.Gender)

	// Nothing else was translated or kept.
	assert.Empty(t, rec.MonthOfVisit)
	assert.Empty(t, rec.YearOfVisit)
	assert.Nil(t, rec.PatientAge)
	assert.Nil(t, rec.VisitWeight)
	assert.Nil(t, rec.PhysicianDiagnoses)
}

func TestReaderDateOfBirth(t *testing.T) {
	r := newTestReader(t, 1973, line1973()+"\n", ReaderOptions{
		Fields: []Field{FieldDateOfBirth},
	})

	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "October 1910", rec.DateOfBirth)
	assert.Empty(t, rec.MonthOfBirth)
	assert.Empty(t, rec.YearOfBirth)
}

func TestReaderEmptyInput(t *testing.T) {
	r := newTestReader(t, 1973, "", ReaderOptions{})
	_, err := r.Next()
	assert.Equal(t, io.EOF, err)
}

type closeRecorder struct {
	io.Reader
	closed bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

func TestReaderClose(t *testing.T) {
	src := &closeRecorder{Reader: strings.NewReader("")}
	layout, err := MustRegistry().Get(1973)
	require.NoError(t, err)

	r := NewReader(src, layout, "1973_NAMCS", ReaderOptions{})
	require.NoError(t, r.Close())
	assert.True(t, src.closed)
}

func TestCleanedRecordValue(t *testing.T) {
	age := 16425
	weight := 414200.0481
	rec := &CleanedRecord{
		SourceFileID:       "2015_NAMCS",
		SourceFileRow:      7,
		PatientAge:         &age,
		VisitWeight:        &weight,
		PhysicianDiagnoses: []string{"723.10", "", "V50.80"},
	}

	assert.Equal(t, "2015_NAMCS", rec.Value(FieldSourceFileID))
	assert.Equal(t, "7", rec.Value(FieldSourceFileRow))
	assert.Equal(t, "16425", rec.Value(FieldPatientAge))
	assert.Equal(t, "414200.0481", rec.Value(FieldVisitWeight))
	assert.Equal(t, "723.10;;V50.80", rec.Value(FieldPhysicianDiagnoses))

	empty := &CleanedRecord{}
	assert.Empty(t, empty.Value(FieldPatientAge))
	assert.Empty(t, empty.Value(FieldVisitWeight))
}
