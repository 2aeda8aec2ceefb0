// Package toolcache stores unpacked tool releases on disk, keyed by tool
// name, version and target platform.
//
// Layout under the cache root:
//
//	<root>/<name>/<version>/<os>-<arch>/          unpacked release
//	<root>/<name>/<version>/<os>-<arch>.complete  YAML marker
//
// An entry exists only once its marker has been written. Save never
// exposes a partially copied directory, and concurrent writers of the same
// entry simply overwrite each other with identical content.
package toolcache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

const markerSuffix = ".complete"

// Marker is the metadata written next to a completed cache entry
type Marker struct {
	Name     string    `yaml:"name"`
	Version  string    `yaml:"version"`
	Platform string    `yaml:"platform"`
	Source   string    `yaml:"source,omitempty"`
	SavedAt  time.Time `yaml:"saved_at"`
}

// Cache is an on-disk tool cache rooted at a directory
type Cache struct {
	root     string
	platform string
	now      func() time.Time
}

// PlatformKey joins an OS and architecture into the key used for entries,
// e.g. "linux-amd64".
func PlatformKey(goos, arch string) string {
	return goos + "-" + arch
}

// New creates a cache rooted at root for entries built for platform, a
// PlatformKey. An empty root uses DefaultRoot; an empty platform uses the
// running host.
func New(root, platform string) (*Cache, error) {
	if root == "" {
		var err error
		root, err = DefaultRoot()
		if err != nil {
			return nil, err
		}
	}
	if platform == "" {
		platform = PlatformKey(runtime.GOOS, runtime.GOARCH)
	}
	if err := validateKey(platform); err != nil {
		return nil, err
	}
	return &Cache{root: root, platform: platform, now: time.Now}, nil
}

// DefaultRoot returns $RUNNER_TOOL_CACHE when running on a hosted runner and
// a setup-doctl directory under the user cache dir otherwise.
func DefaultRoot() (string, error) {
	if dir := os.Getenv("RUNNER_TOOL_CACHE"); dir != "" {
		return dir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("determine cache directory: %w", err)
	}
	return filepath.Join(base, "setup-doctl"), nil
}

// Root returns the cache root directory
func (c *Cache) Root() string {
	return c.root
}

func (c *Cache) entryDir(name, version string) string {
	return filepath.Join(c.root, name, version, c.platform)
}

func (c *Cache) markerPath(name, version string) string {
	return filepath.Join(c.root, name, version, c.platform+markerSuffix)
}

// Find returns the installation directory for (name, version) on the
// cache's platform. ok is false
// when no completed entry exists. A marker that cannot be read or does not
// match the key is reported as an error.
func (c *Cache) Find(name, version string) (string, bool, error) {
	if err := validateKey(name, version); err != nil {
		return "", false, err
	}

	data, err := os.ReadFile(c.markerPath(name, version))
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read cache marker: %w", err)
	}

	var m Marker
	if err := yaml.Unmarshal(data, &m); err != nil {
		return "", false, fmt.Errorf("parse cache marker for %s %s: %w", name, version, err)
	}
	if m.Name != name || m.Version != version || m.Platform != c.platform {
		return "", false, fmt.Errorf("cache marker for %s %s (%s) describes %s %s (%s)",
			name, version, c.platform, m.Name, m.Version, m.Platform)
	}

	dir := c.entryDir(name, version)
	info, err := os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("stat cache entry: %w", err)
	}
	if !info.IsDir() {
		return "", false, fmt.Errorf("cache entry %s is not a directory", dir)
	}

	return dir, true, nil
}

// Save copies sourceDir into the cache as (name, version) and returns the
// cached directory. An existing entry for the same key is replaced. Once the
// entry is complete sourceDir is removed; on error it is left untouched.
func (c *Cache) Save(ctx context.Context, sourceDir, name, version string) (string, error) {
	if err := validateKey(name, version); err != nil {
		return "", err
	}

	versionDir := filepath.Join(c.root, name, version)
	if err := os.MkdirAll(versionDir, 0755); err != nil {
		return "", fmt.Errorf("create cache directory: %w", err)
	}

	staging := filepath.Join(versionDir, ".staging-"+uuid.New().String())
	if err := copyTree(ctx, sourceDir, staging); err != nil {
		os.RemoveAll(staging)
		return "", fmt.Errorf("copy into cache: %w", err)
	}

	// Hide any previous entry before replacing its directory
	marker := c.markerPath(name, version)
	if err := os.Remove(marker); err != nil && !errors.Is(err, os.ErrNotExist) {
		os.RemoveAll(staging)
		return "", fmt.Errorf("remove stale marker: %w", err)
	}

	dest := c.entryDir(name, version)
	if err := os.RemoveAll(dest); err != nil {
		os.RemoveAll(staging)
		return "", fmt.Errorf("remove stale entry: %w", err)
	}
	if err := os.Rename(staging, dest); err != nil {
		os.RemoveAll(staging)
		return "", fmt.Errorf("move entry into place: %w", err)
	}

	if err := c.writeMarker(marker, Marker{
		Name:     name,
		Version:  version,
		Platform: c.platform,
		Source:   sourceDir,
		SavedAt:  c.now().UTC(),
	}); err != nil {
		return "", err
	}

	// The copy is complete, so a failed removal only leaves litter behind
	_ = os.RemoveAll(sourceDir)

	return dest, nil
}

// writeMarker writes the marker with a write-then-rename so readers never
// see a truncated file.
func (c *Cache) writeMarker(path string, m Marker) error {
	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("marshal cache marker: %w", err)
	}

	tmp := path + "." + uuid.New().String() + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write cache marker: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("commit cache marker: %w", err)
	}
	return nil
}

func validateKey(parts ...string) error {
	for _, part := range parts {
		if part == "" || part == "." || part == ".." || strings.ContainsAny(part, `/\`) {
			return fmt.Errorf("invalid cache key %q", strings.Join(parts, "/"))
		}
	}
	return nil
}

// copyTree recursively copies src into dst, preserving file modes
func copyTree(ctx context.Context, src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}

		switch {
		case d.IsDir():
			return os.MkdirAll(target, info.Mode().Perm()|0700)
		case d.Type()&os.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		case d.Type().IsRegular():
			return copyFile(path, target, info.Mode().Perm())
		default:
			return nil
		}
	})
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
