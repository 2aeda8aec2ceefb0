package binary

import (
	"context"
)

// Logger receives warnings about platform substitutions
type Logger interface {
	Warningf(format string, args ...any)
}

// Unpacker fetches an archive by URL and returns the extracted directory
type Unpacker interface {
	FetchAndUnpack(ctx context.Context, url string) (string, error)
}

// Locator turns a version and platform into an unpacked doctl release
type Locator struct {
	baseURL  string
	unpacker Unpacker
	logger   Logger
	warned   map[string]bool
}

// NewLocator creates a locator that downloads from baseURL (empty means
// DefaultDownloadBaseURL) using unpacker.
func NewLocator(baseURL string, unpacker Unpacker, logger Logger) *Locator {
	if baseURL == "" {
		baseURL = DefaultDownloadBaseURL
	}
	return &Locator{
		baseURL:  baseURL,
		unpacker: unpacker,
		logger:   logger,
		warned:   make(map[string]bool),
	}
}

// DownloadAndExtract downloads and unpacks doctl version for pt. Failures are
// returned as *DownloadError so the caller can decide whether to move on to
// another version.
func (l *Locator) DownloadAndExtract(ctx context.Context, version string, pt PlatformTarget) (string, error) {
	info, warnings := constructDownloadInfo(l.baseURL, version, pt)

	// Each substitution is reported once per run, not once per attempt
	for _, w := range warnings {
		if l.warned[w] || l.logger == nil {
			continue
		}
		l.warned[w] = true
		l.logger.Warningf("%s", w)
	}

	dir, err := l.unpacker.FetchAndUnpack(ctx, info.URL)
	if err != nil {
		return "", &DownloadError{Version: version, URL: info.URL, Err: err}
	}
	return dir, nil
}
