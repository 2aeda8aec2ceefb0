package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/ZebulonRouseFrantzich/setup-doctl/internal/auth"
	"github.com/ZebulonRouseFrantzich/setup-doctl/internal/binary"
	"github.com/ZebulonRouseFrantzich/setup-doctl/internal/ci"
	"github.com/ZebulonRouseFrantzich/setup-doctl/internal/config"
	"github.com/ZebulonRouseFrantzich/setup-doctl/internal/platform"
	"github.com/ZebulonRouseFrantzich/setup-doctl/internal/release"
	"github.com/ZebulonRouseFrantzich/setup-doctl/internal/resolver"
	"github.com/ZebulonRouseFrantzich/setup-doctl/internal/toolcache"
)

// Step output names
const (
	outputVersion  = "version"
	outputPath     = "path"
	outputCacheHit = "cache-hit"
)

// app carries the process environment so tests can replace it
type app struct {
	getenv   func(string) string
	stdout   io.Writer
	stderr   io.Writer
	detector platform.Detector
}

func newApp(getenv func(string) string, stdout, stderr io.Writer, detector platform.Detector) *app {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	return &app{getenv: getenv, stdout: stdout, stderr: stderr, detector: detector}
}

func (a *app) reporter(debug bool) ci.Reporter {
	return ci.Detect(a.getenv, a.stdout, a.stderr, debug)
}

// install resolves, installs, and optionally authenticates doctl. Failures
// are reported through rep and returned as *reportedError.
func (a *app) install(ctx context.Context, rep ci.Reporter, overrides config.Overrides) error {
	result, err := a.doInstall(ctx, rep, overrides)
	if err != nil {
		rep.Errorf("%v", err)
		return &reportedError{err: err}
	}
	rep.Infof("doctl %s is ready at %s", result.Version, result.Path)
	return nil
}

func (a *app) doInstall(ctx context.Context, rep ci.Reporter, overrides config.Overrides) (resolver.InstallResult, error) {
	// Secrets are masked before anything else is printed
	if token := rep.GetInput(config.InputToken); token != "" {
		rep.AddMask(token)
	}
	if overrides.Token != nil && *overrides.Token != "" {
		rep.AddMask(*overrides.Token)
	}

	cfg, err := config.NewLoader(config.NewParser(a.detector), rep, rep).Load(ctx, overrides)
	if err != nil {
		return resolver.InstallResult{}, err
	}

	target, err := a.target(ctx, rep, cfg)
	if err != nil {
		return resolver.InstallResult{}, err
	}

	res, err := a.newResolver(cfg, target, rep)
	if err != nil {
		return resolver.InstallResult{}, err
	}

	rep.Group("Installing doctl")
	result, err := res.Resolve(ctx, cfg.Version)
	rep.EndGroup()
	if err != nil {
		return resolver.InstallResult{}, err
	}

	rep.AddPath(result.Path)
	rep.SetOutput(outputVersion, result.Version)
	rep.SetOutput(outputPath, result.Path)
	rep.SetOutput(outputCacheHit, strconv.FormatBool(result.CacheHit()))

	client := auth.NewClient(result.Path)
	if v, err := client.Version(ctx); err == nil {
		rep.Debugf("Installed %s", v)
	}

	if cfg.NoAuth {
		rep.Infof("Skipping doctl authentication")
		return result, nil
	}

	rep.Group("Authenticating doctl")
	err = client.Init(ctx, cfg.Token)
	rep.EndGroup()
	if err != nil {
		return resolver.InstallResult{}, err
	}
	return result, nil
}

// target is the detected host with any configured overrides applied
func (a *app) target(ctx context.Context, rep ci.Reporter, cfg *config.Config) (binary.PlatformTarget, error) {
	info, err := a.detector.Detect(ctx)
	if err != nil {
		return binary.PlatformTarget{}, fmt.Errorf("detect platform: %w", err)
	}
	rep.Debugf("Runner platform: %s", info)

	pt := info.Target()
	if cfg.Platform != "" {
		pt.Platform = cfg.Platform
	}
	if cfg.Arch != "" {
		pt.Arch = cfg.Arch
	}
	return pt, nil
}

func (a *app) newResolver(cfg *config.Config, pt binary.PlatformTarget, rep ci.Reporter) (*resolver.Resolver, error) {
	target, _ := binary.ResolveTarget(pt)

	cacheRoot := cfg.CacheDir
	if cacheRoot == "" {
		cacheRoot = a.getenv("RUNNER_TOOL_CACHE")
	}
	cache, err := toolcache.New(cacheRoot, toolcache.PlatformKey(target.OS, target.Arch))
	if err != nil {
		return nil, err
	}
	rep.Debugf("Tool cache: %s", cache.Root())

	userAgent := "setup-doctl/" + Version
	releases := release.NewClient(rep,
		release.WithAPIURL(cfg.GitHubAPIURL),
		release.WithToken(a.getenv("GITHUB_TOKEN")),
		release.WithUserAgent(userAgent),
	)

	locator := binary.NewLocator(cfg.DownloadBaseURL, binary.NewFetcher(a.getenv("RUNNER_TEMP"), binary.WithDownloadUserAgent(userAgent)), rep)

	return resolver.New(cache, locator, releases, rep, resolver.Options{
		Platform:       pt,
		RecentReleases: cfg.RecentReleases,
		AttemptTimeout: cfg.AttemptTimeout,
	}), nil
}
