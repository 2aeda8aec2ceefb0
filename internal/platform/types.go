// Package platform detects the operating system and CPU architecture that a
// doctl binary must be built for.
//
// On a GitHub Actions runner the RUNNER_OS and RUNNER_ARCH variables win over
// the Go runtime, since setup-doctl itself may run under emulation. On Linux,
// gopsutil supplies distribution and kernel details that are only used for
// diagnostics and for the read-only platform table exposed to Lua
// configuration files. A runner whose distribution cannot be identified still
// yields a usable Info.
package platform

import (
	"context"
	"fmt"

	"github.com/ZebulonRouseFrantzich/setup-doctl/internal/binary"
)

// Linux distribution family constants.
const (
	FamilyDebian  = "debian"  // Debian, Ubuntu, Linux Mint
	FamilyRHEL    = "rhel"    // RHEL, CentOS, Rocky Linux, AlmaLinux
	FamilyFedora  = "fedora"  // Fedora
	FamilySUSE    = "suse"    // openSUSE, SLES
	FamilyArch    = "arch"    // Arch Linux, Manjaro
	FamilyAlpine  = "alpine"  // Alpine Linux
	FamilyUnknown = "unknown" // Unrecognized distributions
)

// Info describes the host a doctl binary is installed for.
type Info struct {
	OS         string  // Go OS name: "linux", "darwin", "windows"
	Arch       string  // Go arch name, raw value when unrecognized
	GoArch     string  // runtime.GOARCH of this process
	KernelArch string  // kernel-reported machine, e.g. "x86_64"; empty when unavailable
	Runner     *Runner // nil outside GitHub Actions
	Distro     *Distro // nil off Linux or when detection failed
}

// Runner is the platform as reported by the Actions runner itself.
type Runner struct {
	Name string // RUNNER_NAME
	OS   string // RUNNER_OS, e.g. "Linux", "macOS"
	Arch string // RUNNER_ARCH, e.g. "X64", "ARM64"
}

// Distro contains Linux distribution information.
type Distro struct {
	ID      string
	Family  string
	Version string
}

// Target is the platform handed to the artifact locator.
func (i *Info) Target() binary.PlatformTarget {
	return binary.PlatformTarget{Platform: i.OS, Arch: i.Arch}
}

// String renders the platform for log lines, e.g. "linux/amd64 (ubuntu 22.04)".
func (i *Info) String() string {
	s := fmt.Sprintf("%s/%s", i.OS, i.Arch)
	if i.Distro != nil {
		s = fmt.Sprintf("%s (%s %s)", s, i.Distro.ID, i.Distro.Version)
	}
	if i.Runner != nil && i.Runner.Name != "" {
		s = fmt.Sprintf("%s on runner %q", s, i.Runner.Name)
	}
	return s
}

// Detector is the interface for platform detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}
