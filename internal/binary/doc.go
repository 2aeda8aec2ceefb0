// Package binary locates, downloads, and unpacks doctl release archives.
//
// # Artifact Locator
//
// Release assets follow a fixed naming scheme:
//
//	https://github.com/digitalocean/doctl/releases/download/v{version}/doctl-{version}-{os}-{arch}.{ext}
//
// where {ext} is "zip" for Windows and "tar.gz" everywhere else. The mapping
// from runner identifiers (Node-style "win32"/"x64", Go-style "windows"/"amd64",
// or runner-style "Windows"/"X64") to asset names is a set of pure, total
// functions: unrecognized values map to linux/amd64 and report a warning to the
// caller instead of failing.
//
// # Download and Extract
//
// Fetcher downloads an archive with a single HTTP request and unpacks it into
// a fresh directory. It never retries; the retry policy belongs to the
// resolver, which walks an ordered list of candidate versions.
//
// # Architecture
//
//   - Locator: version + platform -> URL -> extracted directory, typed errors
//   - Fetcher: download-then-extract into a private work directory
//   - Downloader: single-attempt HTTP GET to a temp file with atomic rename
//   - Extractor: tar.gz and zip extraction with path traversal checks
package binary
