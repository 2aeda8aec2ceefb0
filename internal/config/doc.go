// Package config assembles the settings for a setup-doctl run.
//
// Settings are layered, lowest precedence first:
//
//  1. built-in defaults
//  2. an optional Lua config file
//  3. action inputs (INPUT_<NAME> environment variables)
//  4. command-line flags that were explicitly set
//
// # Lua config files
//
// Config files run in a sandboxed gopher-lua VM with no os, io, or module
// loading. The detected host is available as a read-only platform table,
// so settings can depend on the runner:
//
//	setup = {
//	  version = "1.104.0",
//	  recent_releases = 3,
//	  attempt_timeout = "2m",
//	  cache_dir = platform.is_windows and "D:/toolcache" or nil,
//	}
//
// Recognized keys are version, no_auth, recent_releases, attempt_timeout,
// cache_dir, github_api_url, and download_base_url. The DigitalOcean token
// is never read from a config file; pass it as an input or flag.
package config
