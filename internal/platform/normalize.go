package platform

import (
	"strings"
)

var familyMap = map[string]string{
	"debian":   FamilyDebian,
	"ubuntu":   FamilyDebian, // gopsutil may report ubuntu as the family
	"rhel":     FamilyRHEL,
	"centos":   FamilyRHEL,
	"rocky":    FamilyRHEL,
	"fedora":   FamilyFedora,
	"suse":     FamilySUSE,
	"opensuse": FamilySUSE,
	"arch":     FamilyArch,
	"manjaro":  FamilyArch,
	"alpine":   FamilyAlpine,
}

// runnerOS maps RUNNER_OS values to Go OS names.
var runnerOS = map[string]string{
	"linux":   "linux",
	"macos":   "darwin",
	"windows": "windows",
}

// normalizeArch converts GOARCH, RUNNER_ARCH and kernel machine names to Go
// architecture names. ok is false when the input is not recognized, in which
// case the lowercased input is returned unchanged.
func normalizeArch(arch string) (name string, ok bool) {
	a := clean(arch)
	switch a {
	case "amd64", "x86_64", "x64":
		return "amd64", true
	case "arm64", "aarch64":
		return "arm64", true
	case "386", "i386", "i686", "x86":
		return "386", true
	case "arm", "armv7l":
		return "arm", true
	default:
		return a, false
	}
}

// normalizeOS converts RUNNER_OS or GOOS values to Go OS names.
func normalizeOS(name string) (string, bool) {
	n := clean(name)
	if goos, ok := runnerOS[n]; ok {
		return goos, true
	}
	return n, n == "darwin"
}

func clean(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func mapFamily(family string) string {
	if canonical, ok := familyMap[clean(family)]; ok {
		return canonical
	}
	return FamilyUnknown
}
