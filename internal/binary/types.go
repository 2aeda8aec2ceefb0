package binary

import (
	"errors"
	"fmt"
)

// Binary represents a tool binary installed by setup-doctl
type Binary string

const (
	// BinaryDoctl represents the DigitalOcean CLI
	BinaryDoctl Binary = "doctl"
)

// String returns the string representation of the binary
func (b Binary) String() string {
	return string(b)
}

const (
	// DefaultDownloadBaseURL is where doctl release assets are published
	DefaultDownloadBaseURL = "https://github.com/digitalocean/doctl/releases/download"

	// FallbackVersion is installed when the release directory cannot be
	// queried. It is a known-good release.
	FallbackVersion = "1.98.1"
)

// ArchiveFormat is the container format of a release asset
type ArchiveFormat string

const (
	ArchiveFormatTarGz ArchiveFormat = "tar.gz"
	ArchiveFormatZip   ArchiveFormat = "zip"
)

// PlatformTarget is the runner platform as reported by the host, before it
// is mapped to doctl's asset naming.
type PlatformTarget struct {
	Platform string // e.g. "linux", "darwin", "win32", "windows", "macOS"
	Arch     string // e.g. "x64", "amd64", "arm64", "ia32", "386"
}

// Target is a PlatformTarget mapped to doctl's asset naming
type Target struct {
	OS     string // "linux", "darwin", "windows"
	Arch   string // "amd64", "arm64", "386"
	Format ArchiveFormat
}

// DownloadInfo contains metadata needed to download a release archive
type DownloadInfo struct {
	Binary  Binary
	Version string
	Target  Target
	URL     string
}

// ErrUnsupportedArchive is returned when an archive's format cannot be
// determined from its name.
var ErrUnsupportedArchive = errors.New("unsupported archive format")

// HTTPStatusError reports a download that completed with a non-200 status.
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}

// DownloadError is returned by Locator.DownloadAndExtract when a version could
// not be downloaded or unpacked. The resolver treats it as a failed attempt.
type DownloadError struct {
	Version string
	URL     string
	Err     error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download doctl %s: %v", e.Version, e.Err)
}

// Unwrap returns the underlying failure.
func (e *DownloadError) Unwrap() error {
	return e.Err
}
