package fetcher

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestZIP(t *testing.T, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "archive.zip")
	f, err := os.Create(path)
	require.NoError(t, err)

	zw := zip.NewWriter(f)
	for name, content := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func TestExtractZIP(t *testing.T) {
	archive := writeTestZIP(t, map[string]string{
		"NAMCS73":    "record data",
		"readme.txt": "docs",
	})
	dest := t.TempDir()

	extracted, err := ExtractZIP(archive, dest)
	require.NoError(t, err)
	assert.Len(t, extracted, 2)

	data, err := os.ReadFile(filepath.Join(dest, "NAMCS73"))
	require.NoError(t, err)
	assert.Equal(t, "record data", string(data))
}

func TestExtractDatasetFile(t *testing.T) {
	tests := []struct {
		name       string
		entries    map[string]string
		candidates []string
	}{
		{
			name:       "exact entry name",
			entries:    map[string]string{"NAMCS73": "x"},
			candidates: []string{"NAMCS73", "NAM73"},
		},
		{
			name:       "fallback candidate",
			entries:    map[string]string{"NAM73": "x"},
			candidates: []string{"NAMCS73", "NAM73"},
		},
		{
			name:       "case insensitive",
			entries:    map[string]string{"namcs2015": "x"},
			candidates: []string{"NAMCS2015"},
		},
		{
			name:       "txt extension ignored",
			entries:    map[string]string{"namcs2015.txt": "x"},
			candidates: []string{"namcs2015"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			archive := writeTestZIP(t, tt.entries)
			dest := t.TempDir()

			path, err := ExtractDatasetFile(archive, dest, tt.candidates, "1973_NAMCS")
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dest, "1973_NAMCS"), path)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, "x", string(data))
		})
	}
}

func TestExtractDatasetFileMissing(t *testing.T) {
	archive := writeTestZIP(t, map[string]string{"readme.txt": "docs"})

	_, err := ExtractDatasetFile(archive, t.TempDir(), []string{"NAMCS73"}, "1973_NAMCS")
	assert.Error(t, err)
}

func TestExtractZIPSlip(t *testing.T) {
	archive := writeTestZIP(t, map[string]string{"../escape": "x"})

	_, err := ExtractZIP(archive, t.TempDir())
	assert.Error(t, err)
}
