// Package testutil provides utilities for testing setup-doctl in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Env holds the runner directories created by SetupTestEnv
type Env struct {
	ToolCache string
	Temp      string
	PathFile  string
	Output    string
}

// SetupTestEnv points the GitHub runner environment variables at fresh
// temporary locations so tests never touch a real tool cache or the
// workflow files of the job running them. Cleanup is handled by t.TempDir.
func SetupTestEnv(t *testing.T) Env {
	t.Helper()

	tmpDir := t.TempDir()
	env := Env{
		ToolCache: filepath.Join(tmpDir, "toolcache"),
		Temp:      filepath.Join(tmpDir, "temp"),
		PathFile:  filepath.Join(tmpDir, "github_path"),
		Output:    filepath.Join(tmpDir, "github_output"),
	}

	for _, dir := range []string{env.ToolCache, env.Temp} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("failed to create test directory %s: %v", dir, err)
		}
	}
	for _, file := range []string{env.PathFile, env.Output} {
		if err := os.WriteFile(file, nil, 0o600); err != nil {
			t.Fatalf("failed to create test file %s: %v", file, err)
		}
	}

	t.Setenv("RUNNER_TOOL_CACHE", env.ToolCache)
	t.Setenv("RUNNER_TEMP", env.Temp)
	t.Setenv("GITHUB_PATH", env.PathFile)
	t.Setenv("GITHUB_OUTPUT", env.Output)
	t.Setenv("GITHUB_ACTIONS", "")
	t.Setenv("GITHUB_TOKEN", "")

	return env
}
