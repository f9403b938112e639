package namcs

import "strings"

// Parse slices a raw record line into the trimmed raw substrings of every
// field in the layout, one string per span. It interprets nothing: content
// decoding is the translators' job.
//
// A line shorter than the layout's record length fails with
// RecordLengthMismatchError; padding a truncated record would fabricate
// field values. Extra trailing characters (line terminators, filler in some
// year dumps) are ignored.
func Parse(line string, layout *YearLayout) (map[Field][]string, error) {
	line = strings.TrimRight(line, "\r\n")
	if len(line) < layout.RecordLength {
		return nil, &RecordLengthMismatchError{
			Year: layout.Year,
			Got:  len(line),
			Want: layout.RecordLength,
		}
	}

	raw := make(map[Field][]string, len(layout.Fields))
	for _, f := range layout.Fields {
		values := make([]string, len(f.Spans))
		for i, sp := range f.Spans {
			values[i] = strings.TrimSpace(line[sp.Start:sp.End()])
		}
		raw[f.Name] = values
	}

	return raw, nil
}
