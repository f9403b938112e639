package fetcher

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ExtractZIP extracts all files from a ZIP archive to the destination
// directory and returns the extracted paths. The pre-2011 survey archives
// are self-extracting .exe files; their ZIP central directory is intact, so
// they open like any other archive.
func ExtractZIP(zipPath, destDir string) ([]string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, eris.Wrap(err, "zip: open archive")
	}
	defer r.Close() //nolint:errcheck

	var extracted []string
	for _, f := range r.File {
		path, err := extractZIPEntry(f, destDir)
		if err != nil {
			return extracted, err
		}
		if path != "" {
			extracted = append(extracted, path)
		}
	}

	return extracted, nil
}

// ExtractDatasetFile extracts the dataset file from a survey archive and
// renames it to the given normalized name inside destDir. candidates lists
// the entry names the archive may use, compared case-insensitively; the
// first match wins.
func ExtractDatasetFile(zipPath, destDir string, candidates []string, normalized string) (string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", eris.Wrap(err, "zip: open archive")
	}
	defer r.Close() //nolint:errcheck

	entry := matchDatasetEntry(r.File, candidates)
	if entry == nil {
		return "", eris.Errorf("zip: no dataset file in %s (tried %s)",
			filepath.Base(zipPath), strings.Join(candidates, ", "))
	}

	extracted, err := extractZIPEntry(entry, destDir)
	if err != nil {
		return "", err
	}

	dest := filepath.Join(destDir, normalized)
	if err := os.Rename(extracted, dest); err != nil {
		return "", eris.Wrap(err, "zip: rename dataset file")
	}

	zap.L().Debug("extracted dataset file",
		zap.String("archive", filepath.Base(zipPath)),
		zap.String("entry", entry.Name),
		zap.String("dest", dest),
	)
	return dest, nil
}

// matchDatasetEntry finds the archive entry whose base name matches one of
// the candidate names, ignoring case and extension noise like ".txt".
func matchDatasetEntry(files []*zip.File, candidates []string) *zip.File {
	for _, want := range candidates {
		for _, f := range files {
			if f.FileInfo().IsDir() {
				continue
			}
			name := filepath.Base(f.Name)
			name = strings.TrimSuffix(name, filepath.Ext(name))
			if strings.EqualFold(name, want) {
				return f
			}
		}
	}
	return nil
}

// extractZIPEntry extracts a single zip.File to the destination directory.
// Returns the extracted file path, or empty string for directories.
func extractZIPEntry(f *zip.File, destDir string) (string, error) {
	// Sanitize against zip slip
	destPath := filepath.Join(destDir, f.Name)
	if !strings.HasPrefix(filepath.Clean(destPath), filepath.Clean(destDir)+string(os.PathSeparator)) {
		return "", eris.Errorf("zip: illegal path %q (zip slip attempt)", f.Name)
	}

	if f.FileInfo().IsDir() {
		if err := os.MkdirAll(destPath, 0o755); err != nil {
			return "", eris.Wrap(err, "zip: create directory")
		}
		return "", nil
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return "", eris.Wrap(err, "zip: create parent directory")
	}

	rc, err := f.Open()
	if err != nil {
		return "", eris.Wrap(err, "zip: open entry")
	}
	defer rc.Close() //nolint:errcheck

	out, err := os.Create(destPath)
	if err != nil {
		return "", eris.Wrap(err, "zip: create file")
	}
	defer out.Close() //nolint:errcheck

	if _, err := io.Copy(out, rc); err != nil {
		return "", eris.Wrap(err, "zip: write file")
	}

	return destPath, nil
}
