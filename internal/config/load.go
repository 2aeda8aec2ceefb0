package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// InputSource reads action inputs by name. *githubactions.Action
// satisfies it.
type InputSource interface {
	GetInput(name string) string
}

// Warner receives non-fatal config problems
type Warner interface {
	Warningf(format string, args ...any)
}

// Overrides are values given on the command line. Nil fields were not set
// and leave lower layers untouched.
type Overrides struct {
	ConfigFile      *string
	Version         *string
	Token           *string
	NoAuth          *bool
	RecentReleases  *int
	AttemptTimeout  *time.Duration
	CacheDir        *string
	GitHubAPIURL    *string
	DownloadBaseURL *string
	Platform        *string
	Arch            *string
}

// Loader builds the effective Config from every layer
type Loader struct {
	parser *Parser
	inputs InputSource
	warner Warner
}

// NewLoader creates a loader. inputs and warner may be nil.
func NewLoader(parser *Parser, inputs InputSource, warner Warner) *Loader {
	return &Loader{parser: parser, inputs: inputs, warner: warner}
}

// Load merges every layer and validates the result.
func (l *Loader) Load(ctx context.Context, overrides Overrides) (*Config, error) {
	cfg, err := l.Merge(ctx, overrides)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Merge layers defaults, the config file, inputs, and overrides without
// validating the result.
func (l *Loader) Merge(ctx context.Context, overrides Overrides) (*Config, error) {
	cfg := Defaults()

	cfg.ConfigFile = l.input(InputConfig)
	setString(&cfg.ConfigFile, overrides.ConfigFile)

	if cfg.ConfigFile != "" {
		if err := l.applyFile(ctx, cfg); err != nil {
			return nil, err
		}
	}

	if err := l.applyInputs(cfg); err != nil {
		return nil, err
	}
	overrides.apply(cfg)
	return cfg, nil
}

func (l *Loader) applyFile(ctx context.Context, cfg *Config) error {
	if data, err := os.ReadFile(cfg.ConfigFile); err == nil {
		if findings := DetectSensitiveData(string(data)); len(findings) > 0 && l.warner != nil {
			l.warner.Warningf("%s", FormatSensitiveDataWarning(cfg.ConfigFile, findings))
		}
	}

	fileCfg, err := l.parser.ParseFile(ctx, cfg.ConfigFile)
	if err != nil {
		return fmt.Errorf("load %s: %w", cfg.ConfigFile, err)
	}
	fileCfg.apply(cfg)
	return nil
}

// applyInputs copies non-empty action inputs onto cfg
func (l *Loader) applyInputs(cfg *Config) error {
	if v := l.input(InputVersion); v != "" {
		cfg.Version = v
	}
	if v := l.input(InputToken); v != "" {
		cfg.Token = v
	}
	if v := l.input(InputCacheDir); v != "" {
		cfg.CacheDir = v
	}
	if v := l.input(InputGitHubAPIURL); v != "" {
		cfg.GitHubAPIURL = v
	}
	if v := l.input(InputDownloadBaseURL); v != "" {
		cfg.DownloadBaseURL = v
	}
	if v := l.input(InputPlatform); v != "" {
		cfg.Platform = v
	}
	if v := l.input(InputArch); v != "" {
		cfg.Arch = v
	}

	if v := l.input(InputNoAuth); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return &ValidationError{Field: InputNoAuth, Message: fmt.Sprintf("expected true or false, got %q", v)}
		}
		cfg.NoAuth = b
	}
	if v := l.input(InputRecentReleases); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return &ValidationError{Field: InputRecentReleases, Message: fmt.Sprintf("expected an integer, got %q", v)}
		}
		cfg.RecentReleases = n
	}
	if v := l.input(InputAttemptTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return &ValidationError{Field: InputAttemptTimeout, Message: err.Error()}
		}
		cfg.AttemptTimeout = d
	}
	return nil
}

func (l *Loader) input(name string) string {
	if l.inputs == nil {
		return ""
	}
	return strings.TrimSpace(l.inputs.GetInput(name))
}

// apply copies the fields set in o onto c
func (o Overrides) apply(c *Config) {
	setString(&c.Version, o.Version)
	setString(&c.Token, o.Token)
	setString(&c.CacheDir, o.CacheDir)
	setString(&c.GitHubAPIURL, o.GitHubAPIURL)
	setString(&c.DownloadBaseURL, o.DownloadBaseURL)
	setString(&c.Platform, o.Platform)
	setString(&c.Arch, o.Arch)
	if o.NoAuth != nil {
		c.NoAuth = *o.NoAuth
	}
	if o.RecentReleases != nil {
		c.RecentReleases = *o.RecentReleases
	}
	if o.AttemptTimeout != nil {
		c.AttemptTimeout = *o.AttemptTimeout
	}
}
