package fetcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFTPURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantHost string
		wantPath string
		wantErr  bool
	}{
		{
			name:     "cdc archive url",
			url:      "ftp://ftp.cdc.gov/pub/Health_Statistics/NCHS/Datasets/NAMCS/namcs2015.zip",
			wantHost: "ftp.cdc.gov:21",
			wantPath: "/pub/Health_Statistics/NCHS/Datasets/NAMCS/namcs2015.zip",
		},
		{
			name:     "explicit port",
			url:      "ftp://example.com:2121/file.zip",
			wantHost: "example.com:2121",
			wantPath: "/file.zip",
		},
		{
			name:    "wrong scheme",
			url:     "https://ftp.cdc.gov/file.zip",
			wantErr: true,
		},
		{
			name:    "missing path",
			url:     "ftp://ftp.cdc.gov",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, path, err := parseFTPURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHost, host)
			assert.Equal(t, tt.wantPath, path)
		})
	}
}

func TestForURL(t *testing.T) {
	f, err := ForURL("ftp://ftp.cdc.gov/pub/file.zip", Options{})
	require.NoError(t, err)
	assert.IsType(t, &FTPFetcher{}, f)

	f, err = ForURL("https://www.cdc.gov/file.zip", Options{})
	require.NoError(t, err)
	assert.IsType(t, &HTTPFetcher{}, f)

	_, err = ForURL("gopher://example.com/file", Options{})
	assert.Error(t, err)
}
