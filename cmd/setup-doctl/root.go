package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/setup-doctl/internal/config"
)

// rootFlags holds flag values; only flags the user set become overrides
type rootFlags struct {
	configFile      string
	version         string
	token           string
	noAuth          bool
	recentReleases  int
	attemptTimeout  time.Duration
	cacheDir        string
	githubAPIURL    string
	downloadBaseURL string
	platform        string
	arch            string
	debug           bool
}

func newRootCmd(a *app) *cobra.Command {
	f := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "setup-doctl",
		Short: "Install doctl, the DigitalOcean CLI, for CI jobs",
		Long: `setup-doctl resolves a doctl release, downloads it (or reuses a cached copy),
adds it to PATH, and authenticates it with a DigitalOcean API token.

When a download fails it falls back to recent releases. Inside GitHub Actions
settings come from the step's inputs; locally use flags.`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.install(cmd.Context(), a.reporter(f.debug), f.overrides(cmd))
		},
	}

	bindFlags(cmd, f)
	cmd.AddCommand(newConfigCmd(a, f))
	return cmd
}

func bindFlags(cmd *cobra.Command, f *rootFlags) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&f.configFile, "config", "", "path to a Lua config file")
	flags.StringVar(&f.version, "doctl-version", "", `doctl version to install, or "latest"`)
	flags.StringVar(&f.token, "token", "", "DigitalOcean API token")
	flags.BoolVar(&f.noAuth, "no-auth", false, "skip doctl auth init")
	flags.IntVar(&f.recentReleases, "recent-releases", 0, "number of recent releases to fall back to")
	flags.DurationVar(&f.attemptTimeout, "attempt-timeout", 0, "timeout for each download attempt (0 for none)")
	flags.StringVar(&f.cacheDir, "cache-dir", "", "tool cache directory")
	flags.StringVar(&f.githubAPIURL, "github-api-url", "", "GitHub API base URL")
	flags.StringVar(&f.downloadBaseURL, "download-base-url", "", "base URL for doctl release archives")
	flags.StringVar(&f.platform, "platform", "", "target platform (linux, darwin, win32)")
	flags.StringVar(&f.arch, "arch", "", "target architecture (x64, arm64, ia32)")
	flags.BoolVar(&f.debug, "debug", false, "show debug output")
}

// overrides converts the flags the user set into config overrides
func (f *rootFlags) overrides(cmd *cobra.Command) config.Overrides {
	var o config.Overrides
	changed := cmd.Flags().Changed

	if changed("config") {
		o.ConfigFile = &f.configFile
	}
	if changed("doctl-version") {
		o.Version = &f.version
	}
	if changed("token") {
		o.Token = &f.token
	}
	if changed("no-auth") {
		o.NoAuth = &f.noAuth
	}
	if changed("recent-releases") {
		o.RecentReleases = &f.recentReleases
	}
	if changed("attempt-timeout") {
		o.AttemptTimeout = &f.attemptTimeout
	}
	if changed("cache-dir") {
		o.CacheDir = &f.cacheDir
	}
	if changed("github-api-url") {
		o.GitHubAPIURL = &f.githubAPIURL
	}
	if changed("download-base-url") {
		o.DownloadBaseURL = &f.downloadBaseURL
	}
	if changed("platform") {
		o.Platform = &f.platform
	}
	if changed("arch") {
		o.Arch = &f.arch
	}
	return o
}
