package binary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const (
	// DefaultTimeout bounds a whole archive download
	DefaultTimeout = 5 * time.Minute
	// DefaultUserAgent is the User-Agent header sent with requests
	DefaultUserAgent = "setup-doctl/1.0"
	// DefaultMaxArchiveSize caps a downloaded archive. doctl archives are
	// around 30 MB.
	DefaultMaxArchiveSize = 512 << 20
	maxRedirects          = 10
)

// ErrArchiveTooLarge is returned when a response body exceeds the size cap
var ErrArchiveTooLarge = errors.New("archive exceeds maximum size")

// Downloader performs single-attempt HTTP downloads
type Downloader struct {
	client    *http.Client
	userAgent string
	maxSize   int64
}

// DownloadOption configures a Downloader
type DownloadOption func(*Downloader)

// WithDownloadUserAgent overrides the User-Agent header
func WithDownloadUserAgent(ua string) DownloadOption {
	return func(d *Downloader) {
		if ua != "" {
			d.userAgent = ua
		}
	}
}

// WithMaxArchiveSize overrides DefaultMaxArchiveSize
func WithMaxArchiveSize(n int64) DownloadOption {
	return func(d *Downloader) { d.maxSize = n }
}

// NewDownloader creates a new downloader
func NewDownloader(opts ...DownloadOption) *Downloader {
	d := &Downloader{
		client: &http.Client{
			Timeout: DefaultTimeout,
			// Release assets redirect to object storage
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
		userAgent: DefaultUserAgent,
		maxSize:   DefaultMaxArchiveSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DownloadToFile fetches url into destPath with one GET. Anything but 200 is
// an *HTTPStatusError. A body shorter than its Content-Length or larger than
// the size cap is an error. destPath only appears once the body is complete.
func (d *Downloader) DownloadToFile(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &HTTPStatusError{URL: url, StatusCode: resp.StatusCode}
	}
	if resp.ContentLength > d.maxSize {
		return fmt.Errorf("%w: %d bytes", ErrArchiveTooLarge, resp.ContentLength)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("create dest dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(destPath), filepath.Base(destPath)+".part-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	keep := false
	defer func() {
		tmp.Close()
		if !keep {
			os.Remove(tmpPath)
		}
	}()

	// One extra byte distinguishes "exactly maxSize" from "too large"
	n, err := io.Copy(tmp, io.LimitReader(resp.Body, d.maxSize+1))
	if err != nil {
		return fmt.Errorf("read body of %s: %w", url, err)
	}
	if n > d.maxSize {
		return fmt.Errorf("%w: more than %d bytes", ErrArchiveTooLarge, d.maxSize)
	}
	if resp.ContentLength >= 0 && n != resp.ContentLength {
		return fmt.Errorf("truncated download of %s: got %d of %d bytes", url, n, resp.ContentLength)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	keep = true
	return nil
}
