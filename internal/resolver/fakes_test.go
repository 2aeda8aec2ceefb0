package resolver

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ZebulonRouseFrantzich/setup-doctl/internal/binary"
)

type fakeCache struct {
	entries map[string]string
	findErr error
	saveErr error
	saved   []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]string{}}
}

func (c *fakeCache) Find(name, version string) (string, bool, error) {
	if c.findErr != nil {
		return "", false, c.findErr
	}
	path, ok := c.entries[name+"@"+version]
	return path, ok, nil
}

func (c *fakeCache) Save(ctx context.Context, sourceDir, name, version string) (string, error) {
	if c.saveErr != nil {
		return "", c.saveErr
	}
	path := filepath.Join("/cache", name, version)
	c.entries[name+"@"+version] = path
	c.saved = append(c.saved, version)
	return path, nil
}

type fakeLocator struct {
	succeed map[string]bool
	calls   []string
	block   bool
}

func (l *fakeLocator) DownloadAndExtract(ctx context.Context, version string, pt binary.PlatformTarget) (string, error) {
	l.calls = append(l.calls, version)
	if l.block {
		<-ctx.Done()
		return "", &binary.DownloadError{Version: version, Err: ctx.Err()}
	}
	if l.succeed[version] {
		return "/tmp/extract/" + version, nil
	}
	return "", &binary.DownloadError{Version: version, Err: &binary.HTTPStatusError{StatusCode: 404}}
}

type fakeReleases struct {
	latest      string
	recent      []string
	recentCalls int
	gotCount    int
}

func (r *fakeReleases) LatestRelease(ctx context.Context) string {
	return r.latest
}

func (r *fakeReleases) RecentReleases(ctx context.Context, count int) []string {
	r.recentCalls++
	r.gotCount = count
	return r.recent
}

type fakeLogger struct {
	infos    []string
	warnings []string
}

func (l *fakeLogger) Debugf(format string, args ...any) {}

func (l *fakeLogger) Infof(format string, args ...any) {
	l.infos = append(l.infos, fmt.Sprintf(format, args...))
}

func (l *fakeLogger) Warningf(format string, args ...any) {
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
}

var errBoom = errors.New("boom")
