package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/ZebulonRouseFrantzich/setup-doctl/internal/binary"
	"github.com/ZebulonRouseFrantzich/setup-doctl/internal/release"
)

// ErrMissingToken is returned when no DigitalOcean token was supplied and
// authentication was not skipped.
var ErrMissingToken = errors.New("input required and not supplied: token (set no_auth to skip authentication)")

// Config is the effective configuration for a run
type Config struct {
	// Version is the requested doctl version, or "latest"
	Version string

	// Token is the DigitalOcean API token used for doctl auth init
	Token string

	// NoAuth skips authentication after install
	NoAuth bool

	// RecentReleases is how many fallback candidates are requested
	RecentReleases int

	// AttemptTimeout bounds each download attempt; zero means no limit
	AttemptTimeout time.Duration

	// CacheDir overrides the tool cache root
	CacheDir string

	GitHubAPIURL    string
	DownloadBaseURL string

	// Platform and Arch override the detected host when set
	Platform string
	Arch     string

	// ConfigFile is the Lua file the settings were read from, if any
	ConfigFile string
}

// Defaults returns the built-in configuration
func Defaults() *Config {
	return &Config{
		Version:         "latest",
		RecentReleases:  release.DefaultRecentCount,
		GitHubAPIURL:    release.DefaultAPIURL,
		DownloadBaseURL: binary.DefaultDownloadBaseURL,
	}
}

// FileConfig holds the settings found in a Lua config file. Nil fields were
// not set by the file.
type FileConfig struct {
	Version         *string
	NoAuth          *bool
	RecentReleases  *int
	AttemptTimeout  *time.Duration
	CacheDir        *string
	GitHubAPIURL    *string
	DownloadBaseURL *string
}

// apply copies the fields set in f onto c
func (f *FileConfig) apply(c *Config) {
	if f == nil {
		return
	}
	setString(&c.Version, f.Version)
	setString(&c.CacheDir, f.CacheDir)
	setString(&c.GitHubAPIURL, f.GitHubAPIURL)
	setString(&c.DownloadBaseURL, f.DownloadBaseURL)
	if f.NoAuth != nil {
		c.NoAuth = *f.NoAuth
	}
	if f.RecentReleases != nil {
		c.RecentReleases = *f.RecentReleases
	}
	if f.AttemptTimeout != nil {
		c.AttemptTimeout = *f.AttemptTimeout
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// Validate checks the configuration. A missing token is reported as
// ErrMissingToken; other problems as *ValidationError.
func (c *Config) Validate() error {
	if c.RecentReleases < 1 {
		return &ValidationError{
			Field:   luaFieldRecentReleases,
			Message: fmt.Sprintf("must be at least 1, got %d", c.RecentReleases),
		}
	}

	if c.AttemptTimeout < 0 {
		return &ValidationError{
			Field:   luaFieldAttemptTimeout,
			Message: fmt.Sprintf("must not be negative, got %s", c.AttemptTimeout),
		}
	}

	for field, raw := range map[string]string{
		luaFieldGitHubAPIURL: c.GitHubAPIURL,
		luaFieldDownloadBase: c.DownloadBaseURL,
	} {
		if err := validateHTTPURL(raw); err != nil {
			return &ValidationError{Field: field, Message: err.Error()}
		}
	}

	if !c.NoAuth && c.Token == "" {
		return ErrMissingToken
	}

	return nil
}

// ValidationError represents a config validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func validateHTTPURL(raw string) error {
	if raw == "" {
		return errors.New("must not be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("not a valid URL: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("URL must use http or https, got %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("URL has no host: %q", raw)
	}
	return nil
}
