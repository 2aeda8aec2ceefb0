// Package ci adapts setup-doctl to where it runs: a GitHub Actions job,
// where output uses workflow commands, or a terminal, where output is
// coloured text on stderr.
package ci

import (
	"io"
	"os"
	"strings"

	"github.com/sethvargo/go-githubactions"
)

// Reporter is everything the command needs from its host
type Reporter interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warningf(format string, args ...any)
	Errorf(format string, args ...any)

	Group(title string)
	EndGroup()

	// AddMask hides secret in all later output
	AddMask(secret string)
	// AddPath prepends dir to PATH for later steps
	AddPath(dir string)
	// SetOutput publishes a step output
	SetOutput(name, value string)
	// GetInput returns the named input, or "" when unset
	GetInput(name string) string
}

// Detect returns an Actions reporter when GITHUB_ACTIONS is "true" and a
// Console otherwise. getenv defaults to os.Getenv.
func Detect(getenv func(string) string, stdout, stderr io.Writer, debug bool) Reporter {
	if getenv == nil {
		getenv = os.Getenv
	}
	if strings.EqualFold(getenv("GITHUB_ACTIONS"), "true") {
		return NewActions(getenv, stdout)
	}
	return NewConsole(stdout, stderr, debug)
}

// Actions reports through GitHub Actions workflow commands
type Actions struct {
	*githubactions.Action
}

var _ Reporter = (*Actions)(nil)

// NewActions creates a reporter writing workflow commands to w
func NewActions(getenv func(string) string, w io.Writer) *Actions {
	return &Actions{
		Action: githubactions.New(
			githubactions.WithWriter(w),
			githubactions.WithGetenv(getenv),
		),
	}
}
