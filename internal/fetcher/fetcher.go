// Package fetcher downloads public-use dataset archives from the CDC
// servers, over FTP or HTTPS, and extracts the fixed-width dataset files
// they contain.
package fetcher

import (
	"context"
	"io"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

// Fetcher downloads remote dataset archives.
type Fetcher interface {
	// Download fetches the URL and returns the response body. The caller
	// must close the returned ReadCloser.
	Download(ctx context.Context, url string) (io.ReadCloser, error)

	// DownloadToFile fetches the URL into the given local path, creating
	// parent directories as needed. Returns bytes written.
	DownloadToFile(ctx context.Context, url string, path string) (int64, error)
}

// Options configures the concrete fetchers.
type Options struct {
	Timeout    time.Duration
	MaxRetries int
}

// ForURL selects a fetcher by URL scheme. The CDC publishes the survey
// archives on an FTP server that also fronts them over HTTPS.
func ForURL(rawURL string, opts Options) (Fetcher, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: parse url %q", rawURL)
	}

	switch u.Scheme {
	case "ftp":
		return NewFTPFetcher(FTPOptions{Timeout: opts.Timeout}), nil
	case "http", "https":
		return NewHTTPFetcher(HTTPOptions{Timeout: opts.Timeout, MaxRetries: opts.MaxRetries}), nil
	default:
		return nil, eris.Errorf("fetcher: unsupported url scheme %q", u.Scheme)
	}
}
