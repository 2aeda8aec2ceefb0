package config

import "time"

// Lua schema field names and globals
const (
	luaGlobalSetup         = "setup"
	luaFieldVersion        = "version"
	luaFieldNoAuth         = "no_auth"
	luaFieldRecentReleases = "recent_releases"
	luaFieldAttemptTimeout = "attempt_timeout"
	luaFieldCacheDir       = "cache_dir"
	luaFieldGitHubAPIURL   = "github_api_url"
	luaFieldDownloadBase   = "download_base_url"
)

// Input names, as read from INPUT_<NAME>
const (
	InputVersion         = "version"
	InputToken           = "token"
	InputNoAuth          = "no_auth"
	InputConfig          = "config"
	InputCacheDir        = "cache_dir"
	InputRecentReleases  = "recent_releases"
	InputAttemptTimeout  = "attempt_timeout"
	InputGitHubAPIURL    = "github_api_url"
	InputDownloadBaseURL = "download_base_url"
	InputPlatform        = "platform"
	InputArch            = "architecture"
)

const (
	// MaxConfigSize is the largest config file that will be parsed
	MaxConfigSize = 1 << 20

	// DefaultParseTimeout applies when the caller's context has no deadline
	DefaultParseTimeout = 5 * time.Second
)
