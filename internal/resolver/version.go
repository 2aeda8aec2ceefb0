package resolver

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Latest is the version specifier that asks for the newest release
const Latest = "latest"

// NormalizeVersion trims raw and strips a single leading "v". It reports
// latest=true for a specifier that is empty after stripping or any casing of
// "latest", in which case the returned version is empty.
func NormalizeVersion(raw string) (version string, latest bool) {
	v := strings.TrimSpace(raw)
	if strings.EqualFold(v, Latest) {
		return "", true
	}
	v = strings.TrimSpace(strings.TrimPrefix(v, "v"))
	if v == "" {
		return "", true
	}
	return v, false
}

// IsSemver reports whether a normalized version is a strict X.Y.Z
// semantic version. Versions that are not are still used as given.
func IsSemver(version string) bool {
	_, err := semver.StrictNewVersion(version)
	return err == nil
}
