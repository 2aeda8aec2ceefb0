package platform

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"
)

// RealDetector inspects the running host.
type RealDetector struct {
	getenv func(string) string
	goos   string
	goarch string
}

// NewDetector creates a detector that reads runner variables through getenv.
func NewDetector(getenv func(string) string) *RealDetector {
	return &RealDetector{getenv: getenv, goos: runtime.GOOS, goarch: runtime.GOARCH}
}

// Detect reports the platform doctl should be installed for.
//
// RUNNER_OS and RUNNER_ARCH take precedence when they name a known value;
// otherwise the Go runtime is used. An unrecognized architecture is not an
// error: it is reported as-is and the artifact locator substitutes its
// default. Only a cancelled context fails detection.
func (d *RealDetector) Detect(ctx context.Context) (*Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("platform detection cancelled: %w", err)
	}

	arch, _ := normalizeArch(d.goarch)
	info := &Info{OS: d.goos, Arch: arch, GoArch: d.goarch}

	if r := d.runner(); r != nil {
		info.Runner = r
		if goos, ok := normalizeOS(r.OS); ok {
			info.OS = goos
		}
		if a, ok := normalizeArch(r.Arch); ok {
			info.Arch = a
		}
	}

	if kernelArch, err := host.KernelArch(); err == nil {
		info.KernelArch = clean(kernelArch)
	}

	if info.OS == "linux" && d.goos == "linux" {
		id, family, version, err := host.PlatformInformationWithContext(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("platform detection cancelled: %w", ctx.Err())
			}
			return info, nil
		}
		if id = clean(id); id != "" {
			info.Distro = &Distro{ID: id, Family: mapFamily(family), Version: clean(version)}
		}
	}

	return info, nil
}

func (d *RealDetector) runner() *Runner {
	if d.getenv == nil {
		return nil
	}
	r := &Runner{
		Name: d.getenv("RUNNER_NAME"),
		OS:   d.getenv("RUNNER_OS"),
		Arch: d.getenv("RUNNER_ARCH"),
	}
	if r.OS == "" && r.Arch == "" {
		return nil
	}
	return r
}

// StaticDetector reports a fixed platform.
type StaticDetector struct {
	Info Info
}

// Detect returns a copy of the configured info.
func (d StaticDetector) Detect(ctx context.Context) (*Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info := d.Info
	return &info, nil
}
