package binary

import (
	"fmt"
	"strings"
)

// mapOS maps a runner platform identifier to doctl's OS naming.
// Unrecognized values map to "linux" with warned set.
func mapOS(platform string) (name string, warned bool) {
	switch strings.ToLower(strings.TrimSpace(platform)) {
	case "darwin", "macos":
		return "darwin", false
	case "win32", "windows":
		return "windows", false
	case "linux":
		return "linux", false
	default:
		return "linux", true
	}
}

// mapArch maps a runner architecture identifier to doctl's architecture
// naming. Unrecognized values map to "amd64" with warned set.
func mapArch(arch string) (name string, warned bool) {
	switch strings.ToLower(strings.TrimSpace(arch)) {
	case "arm64", "aarch64":
		return "arm64", false
	case "x64", "amd64", "x86_64":
		return "amd64", false
	case "ia32", "x86", "386", "i386", "i686":
		return "386", false
	default:
		return "amd64", true
	}
}

// formatFor returns the archive format doctl publishes for an OS.
func formatFor(os string) ArchiveFormat {
	if os == "windows" {
		return ArchiveFormatZip
	}
	return ArchiveFormatTarGz
}

// ResolveTarget maps a runner platform to doctl's asset naming. It never
// fails: unknown values fall back to linux/amd64 and each substitution is
// described in the returned warnings.
func ResolveTarget(pt PlatformTarget) (Target, []string) {
	var warnings []string

	osName, warned := mapOS(pt.Platform)
	if warned {
		warnings = append(warnings, fmt.Sprintf("unknown platform %q, defaulting to %s", pt.Platform, osName))
	}

	archName, warned := mapArch(pt.Arch)
	if warned {
		warnings = append(warnings, fmt.Sprintf("unknown architecture %q, defaulting to %s", pt.Arch, archName))
	}

	return Target{OS: osName, Arch: archName, Format: formatFor(osName)}, warnings
}

// BuildDownloadURL returns the release asset URL for version on pt.
// Pattern: {base}/v{version}/doctl-{version}-{os}-{arch}.{ext}
func BuildDownloadURL(baseURL, version string, pt PlatformTarget) (string, []string) {
	info, warnings := constructDownloadInfo(baseURL, version, pt)
	return info.URL, warnings
}

// constructDownloadInfo builds download metadata for version on pt
func constructDownloadInfo(baseURL, version string, pt PlatformTarget) (*DownloadInfo, []string) {
	target, warnings := ResolveTarget(pt)
	if baseURL == "" {
		baseURL = DefaultDownloadBaseURL
	}

	assetName := fmt.Sprintf("%s-%s-%s-%s.%s", BinaryDoctl, version, target.OS, target.Arch, target.Format)

	return &DownloadInfo{
		Binary:  BinaryDoctl,
		Version: version,
		Target:  target,
		URL:     fmt.Sprintf("%s/v%s/%s", strings.TrimRight(baseURL, "/"), version, assetName),
	}, warnings
}
