// Package resolver turns a requested doctl version into an installed
// directory, degrading through fallback versions when downloads fail.
//
// Resolution runs strictly sequentially:
//
//  1. normalize the request ("latest" is asked of the release directory)
//  2. look in the cache, then download the resolved version
//  3. on failure retry an explicitly requested version once
//  4. walk the recent releases in order until one installs
//
// Every failure short of running out of versions is logged as a warning.
// Running out returns *ExhaustedError.
package resolver

import (
	"context"
	"errors"
	"time"

	"github.com/ZebulonRouseFrantzich/setup-doctl/internal/binary"
)

// Cache finds and stores unpacked releases by (tool name, version). A
// successful Save takes ownership of sourceDir; a failed one leaves it in place.
type Cache interface {
	Find(name, version string) (string, bool, error)
	Save(ctx context.Context, sourceDir, name, version string) (string, error)
}

// Locator downloads and unpacks one version for a platform
type Locator interface {
	DownloadAndExtract(ctx context.Context, version string, pt binary.PlatformTarget) (string, error)
}

// ReleaseDirectory answers which versions exist. Implementations never fail;
// they fall back to a known version instead.
type ReleaseDirectory interface {
	LatestRelease(ctx context.Context) string
	RecentReleases(ctx context.Context, count int) []string
}

// Logger receives progress and warnings
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warningf(format string, args ...any)
}

// Source says where an installation came from
type Source string

const (
	SourceCache    Source = "cache"
	SourceDownload Source = "download"
)

// InstallResult describes a successful resolution
type InstallResult struct {
	Path      string
	Version   string
	Source    Source
	Attempted []string
}

// CacheHit reports whether the installation was served from the cache
func (r InstallResult) CacheHit() bool {
	return r.Source == SourceCache
}

// Options tune a Resolver
type Options struct {
	// Platform is the target the archives are fetched for
	Platform binary.PlatformTarget
	// RecentReleases is how many fallback candidates to request
	RecentReleases int
	// AttemptTimeout bounds each download; zero means no limit
	AttemptTimeout time.Duration
}

// Resolver runs the resolution state machine
type Resolver struct {
	cache    Cache
	locator  Locator
	releases ReleaseDirectory
	logger   Logger
	opts     Options
}

// New creates a resolver from its collaborators
func New(cache Cache, locator Locator, releases ReleaseDirectory, logger Logger, opts Options) *Resolver {
	if opts.RecentReleases < 1 {
		opts.RecentReleases = 5
	}
	return &Resolver{
		cache:    cache,
		locator:  locator,
		releases: releases,
		logger:   logger,
		opts:     opts,
	}
}

// Resolve installs the requested doctl version, or the best fallback.
// It returns the parent context's error if ctx is canceled, and
// *ExhaustedError when no version could be installed.
func (r *Resolver) Resolve(ctx context.Context, requested string) (InstallResult, error) {
	version, latest := NormalizeVersion(requested)
	explicit := ""
	if latest {
		version = r.releases.LatestRelease(ctx)
		if v, _ := NormalizeVersion(version); v != "" {
			version = v
		}
		r.logger.Infof("Resolved latest doctl release to %s", version)
	} else {
		explicit = version
		if !IsSemver(version) {
			r.logger.Warningf("Version %q is not a semantic version, using it as given", version)
		}
	}

	var attempted []string

	outcome := r.run(ctx, Attempt{Version: version, Kind: KindPrimary}, &attempted)
	if outcome.OK() {
		return r.finish(outcome, attempted), nil
	}
	if err := ctx.Err(); err != nil {
		return InstallResult{}, err
	}

	// The explicit retry runs before the release directory is consulted
	for _, a := range FallbackPlan(explicit, nil) {
		if outcome = r.run(ctx, a, &attempted); outcome.OK() {
			return r.finish(outcome, attempted), nil
		}
		if err := ctx.Err(); err != nil {
			return InstallResult{}, err
		}
	}

	candidates := r.releases.RecentReleases(ctx, r.opts.RecentReleases)
	r.logger.Debugf("Fallback candidates: %v", candidates)

	for _, a := range FallbackPlan("", candidates) {
		if outcome = r.run(ctx, a, &attempted); outcome.OK() {
			return r.finish(outcome, attempted), nil
		}
		if err := ctx.Err(); err != nil {
			return InstallResult{}, err
		}
	}

	return InstallResult{}, &ExhaustedError{Attempted: attempted, Last: outcome.Err}
}

// run executes one attempt: cache lookup, then download and cache save
func (r *Resolver) run(ctx context.Context, a Attempt, attempted *[]string) Outcome {
	*attempted = append(*attempted, a.Version)
	name := binary.BinaryDoctl.String()

	path, ok, err := r.cache.Find(name, a.Version)
	if err != nil {
		r.logger.Warningf("Ignoring unreadable cache entry for doctl %s: %v", a.Version, err)
	}
	if ok {
		r.logger.Infof("Found doctl %s in cache at %s", a.Version, path)
		return Outcome{Attempt: a, Path: path, FromCache: true}
	}

	r.logger.Debugf("Attempting doctl %s (%s)", a.Version, a.Kind)

	attemptCtx := ctx
	if r.opts.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, r.opts.AttemptTimeout)
		defer cancel()
	}

	dir, err := r.locator.DownloadAndExtract(attemptCtx, a.Version, r.opts.Platform)
	if err == nil && dir == "" {
		err = errors.New("download produced no directory")
	}
	if err != nil {
		if ctx.Err() == nil {
			r.logger.Warningf("Failed to install doctl %s: %v", a.Version, err)
		}
		return Outcome{Attempt: a, Err: err}
	}

	cached, err := r.cache.Save(ctx, dir, name, a.Version)
	if err != nil {
		r.logger.Warningf("Could not cache doctl %s, using %s: %v", a.Version, dir, err)
		return Outcome{Attempt: a, Path: dir}
	}
	return Outcome{Attempt: a, Path: cached}
}

func (r *Resolver) finish(o Outcome, attempted []string) InstallResult {
	source := SourceDownload
	if o.FromCache {
		source = SourceCache
	}
	if o.Attempt.Version != attempted[0] {
		r.logger.Warningf("Installed doctl %s instead of %s", o.Attempt.Version, attempted[0])
	}
	return InstallResult{
		Path:      o.Path,
		Version:   o.Attempt.Version,
		Source:    source,
		Attempted: attempted,
	}
}
