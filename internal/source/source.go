// Package source maps survey years to their public-use file locations on
// the CDC server and to the normalized local file naming scheme.
package source

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

const (
	// CDC moved the public-use files between directories over the years.
	ftpBase1973 = "ftp://ftp.cdc.gov/pub/Health_Statistics/NCHS/namcs_public_use_files/"
	ftpBase1993 = "ftp://ftp.cdc.gov/pub/Health_Statistics/NCHS/Datasets/NAMCS/"
)

// Info describes where one year's raw dataset comes from.
type Info struct {
	Year        int    `json:"year"`
	URL         string `json:"url"`
	ArchiveName string `json:"zip_file_name"`
}

// NormalizedFileName is the local name of an extracted dataset file,
// "{YEAR}_NAMCS".
func NormalizedFileName(year int) string {
	return fmt.Sprintf("%d_NAMCS", year)
}

// YearFromFileName extracts the survey year from a normalized dataset file
// name or path.
func YearFromFileName(name string) (int, error) {
	base := filepath.Base(name)
	prefix, rest, found := strings.Cut(base, "_")
	year, err := strconv.Atoi(prefix)
	if !found || rest != "NAMCS" || err != nil {
		return 0, eris.Errorf("source: file name %q is not in <YEAR>_NAMCS form", name)
	}
	return year, nil
}

// FileInfo returns the download URL and archive name of a year's public-use
// file. Archives through 2010 (and 2012) are self-extracting .exe files,
// which are ZIP-compatible.
func FileInfo(year int) Info {
	name := archiveBase(year) + archiveExt(year)
	base := ftpBase1973
	if year >= 1993 {
		base = ftpBase1993
	}
	return Info{
		Year:        year,
		URL:         base + name,
		ArchiveName: name,
	}
}

// ExtractedNames lists the file names an extracted archive may contain for a
// year, in the order to try when renaming to the normalized form.
func ExtractedNames(year int) []string {
	yy := fmt.Sprintf("%02d", year%100)
	switch {
	case year <= 2009:
		return []string{"NAMCS" + yy, "NAM" + yy}
	case year == 2010:
		return []string{"NAMCS20" + yy}
	default:
		return []string{"namcs20" + yy}
	}
}

func archiveBase(year int) string {
	yy := fmt.Sprintf("%02d", year%100)
	switch {
	case year <= 1999:
		return "namcs" + yy
	case year <= 2009:
		return "NAMCS" + yy
	default:
		return "namcs20" + yy
	}
}

func archiveExt(year int) string {
	switch {
	case year <= 2010:
		return ".exe"
	case year == 2011:
		return ".zip"
	case year == 2012:
		return ".exe"
	default:
		return ".zip"
	}
}
