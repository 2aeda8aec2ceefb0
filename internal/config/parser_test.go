package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ZebulonRouseFrantzich/setup-doctl/internal/platform"
)

func TestParser_ParseString(t *testing.T) {
	parser := NewParser(platform.StaticDetector{Info: platform.Info{OS: "windows", Arch: "amd64"}})

	tests := []struct {
		name    string
		code    string
		check   func(t *testing.T, cfg *FileConfig)
		wantErr string
	}{
		{
			name: "all_fields",
			code: `setup = {
				version = "v1.104.0",
				no_auth = true,
				recent_releases = 3,
				attempt_timeout = "90s",
				cache_dir = "/opt/cache",
				github_api_url = "https://ghe.example.com/api/v3",
				download_base_url = "https://mirror.example.com/doctl",
			}`,
			check: func(t *testing.T, cfg *FileConfig) {
				if *cfg.Version != "v1.104.0" || !*cfg.NoAuth || *cfg.RecentReleases != 3 {
					t.Errorf("unexpected config: %+v", cfg)
				}
				if *cfg.AttemptTimeout != 90*time.Second {
					t.Errorf("AttemptTimeout = %v", *cfg.AttemptTimeout)
				}
				if *cfg.CacheDir != "/opt/cache" || *cfg.GitHubAPIURL != "https://ghe.example.com/api/v3" || *cfg.DownloadBaseURL != "https://mirror.example.com/doctl" {
					t.Errorf("unexpected strings: %+v", cfg)
				}
			},
		},
		{
			name: "unset_fields_stay_nil",
			code: `setup = { version = "1.0.0" }`,
			check: func(t *testing.T, cfg *FileConfig) {
				if cfg.NoAuth != nil || cfg.RecentReleases != nil || cfg.AttemptTimeout != nil || cfg.CacheDir != nil {
					t.Errorf("unexpected fields set: %+v", cfg)
				}
			},
		},
		{
			name: "no_setup_table",
			code: `x = 1`,
			check: func(t *testing.T, cfg *FileConfig) {
				if cfg.Version != nil {
					t.Errorf("Version = %v, want nil", *cfg.Version)
				}
			},
		},
		{
			name: "timeout_in_seconds",
			code: `setup = { attempt_timeout = 1.5 }`,
			check: func(t *testing.T, cfg *FileConfig) {
				if *cfg.AttemptTimeout != 1500*time.Millisecond {
					t.Errorf("AttemptTimeout = %v", *cfg.AttemptTimeout)
				}
			},
		},
		{
			name: "platform_conditional",
			code: `setup = { cache_dir = platform.is_windows and "D:/cache" or "/cache" }`,
			check: func(t *testing.T, cfg *FileConfig) {
				if *cfg.CacheDir != "D:/cache" {
					t.Errorf("CacheDir = %s", *cfg.CacheDir)
				}
			},
		},
		{
			name: "when_helper",
			code: `setup = { version = platform.when(platform.is_arm64, "1.0.0") }`,
			check: func(t *testing.T, cfg *FileConfig) {
				if cfg.Version != nil {
					t.Errorf("Version = %s, want nil on amd64", *cfg.Version)
				}
			},
		},
		{name: "syntax_error", code: `setup = {`, wantErr: "Lua syntax error"},
		{name: "setup_not_table", code: `setup = "1.0.0"`, wantErr: "invalid 'setup' table"},
		{name: "version_wrong_type", code: `setup = { version = 1 }`, wantErr: "invalid version"},
		{name: "no_auth_wrong_type", code: `setup = { no_auth = "yes" }`, wantErr: "invalid no_auth"},
		{name: "recent_not_integer", code: `setup = { recent_releases = 2.5 }`, wantErr: "invalid recent_releases"},
		{name: "bad_duration", code: `setup = { attempt_timeout = "soon" }`, wantErr: "invalid attempt_timeout"},
		{name: "sandboxed", code: `setup = { version = os.getenv("V") }`, wantErr: "Lua syntax error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := parser.ParseString(context.Background(), tt.code)

			if tt.wantErr != "" {
				var parseErr *ParseError
				if !errors.As(err, &parseErr) {
					t.Fatalf("expected *ParseError, got %v", err)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error = %v, want substring %q", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestParser_Timeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewParser(nil).ParseString(ctx, `while true do end`)
	if err == nil || !strings.Contains(err.Error(), "timed out") {
		t.Errorf("expected timeout error, got %v", err)
	}
}

func TestParser_ParseFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "setup.lua")
	if err := os.WriteFile(good, []byte(`setup = { version = "1.2.3" }`), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := NewParser(nil).ParseFile(context.Background(), good)
	if err != nil || *cfg.Version != "1.2.3" {
		t.Errorf("ParseFile() = %+v, %v", cfg, err)
	}

	if _, err := NewParser(nil).ParseFile(context.Background(), filepath.Join(dir, "missing.lua")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}

	big := filepath.Join(dir, "big.lua")
	if err := os.WriteFile(big, make([]byte, MaxConfigSize+1), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewParser(nil).ParseFile(context.Background(), big); err == nil || !strings.Contains(err.Error(), "too large") {
		t.Errorf("expected size error, got %v", err)
	}
}
