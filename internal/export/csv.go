// Package export writes cleaned visit records to tabular output.
package export

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/hdx-data/ahcd-cli/internal/namcs"
)

// RecordSource is the record stream consumed by the writers. Satisfied by
// *namcs.Reader.
type RecordSource interface {
	Fields() []namcs.Field
	Next() (*namcs.CleanedRecord, error)
}

// WriteCSV streams records from src to w as CSV: one header row naming the
// requested fields, then one row per record in source order. It returns the
// number of data rows written. Under a fail-fast source the error of the
// offending row surfaces here, after the preceding rows have been written.
func WriteCSV(w io.Writer, src RecordSource) (int, error) {
	cw := csv.NewWriter(w)

	fields := src.Fields()
	header := make([]string, len(fields))
	for i, f := range fields {
		header[i] = string(f)
	}
	if err := cw.Write(header); err != nil {
		return 0, eris.Wrap(err, "export: write header")
	}

	rows := 0
	for {
		rec, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			cw.Flush()
			return rows, err
		}

		row := make([]string, len(fields))
		for i, f := range fields {
			row[i] = rec.Value(f)
		}
		if err := cw.Write(row); err != nil {
			return rows, eris.Wrap(err, "export: write row")
		}
		rows++
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return rows, eris.Wrap(err, "export: flush")
	}
	return rows, nil
}

// WriteCSVFile writes the record stream to path, creating parent directories
// as needed. The file is removed again if the stream fails partway, so a
// present output file always holds a complete conversion.
func WriteCSVFile(path string, src RecordSource) (int, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, eris.Wrap(err, "export: create output dir")
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, eris.Wrap(err, "export: create output file")
	}

	rows, werr := WriteCSV(f, src)
	cerr := f.Close()
	if werr != nil {
		os.Remove(path)
		return rows, werr
	}
	if cerr != nil {
		os.Remove(path)
		return rows, eris.Wrap(cerr, "export: close output file")
	}
	return rows, nil
}
