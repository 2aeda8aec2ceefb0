// Package auth authenticates an installed doctl against DigitalOcean.
//
// Tokens only ever reach doctl's argument list; every error returned from
// this package has the token scrubbed from its message.
package auth

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// waitDelay bounds how long output pipes are drained after doctl is killed
const waitDelay = 2 * time.Second

// ErrAuthFailed is wrapped by every failure reported by doctl itself
var ErrAuthFailed = errors.New("doctl authentication failed")

// RedactedError wraps an error with a scrubbed message while preserving
// the error chain for errors.Is/errors.As checks.
type RedactedError struct {
	message string
	wrapped error
}

// Error returns the redacted error message.
func (e *RedactedError) Error() string {
	return e.message
}

// Unwrap returns the wrapped error, preserving the error chain.
func (e *RedactedError) Unwrap() error {
	return e.wrapped
}

// Client runs doctl from an installation directory
type Client struct {
	bin string
}

// NewClient creates a client for the doctl binary inside installDir.
func NewClient(installDir string) *Client {
	return &Client{bin: filepath.Join(installDir, BinaryName())}
}

// BinaryName returns doctl's executable name on this OS
func BinaryName() string {
	if runtime.GOOS == "windows" {
		return "doctl.exe"
	}
	return "doctl"
}

// Init runs "doctl auth init" with token.
func (c *Client) Init(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("%w: empty token", ErrAuthFailed)
	}

	cmd := exec.CommandContext(ctx, c.bin, "auth", "init", "-t", token)
	cmd.WaitDelay = waitDelay
	out, err := cmd.CombinedOutput()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return translateError(err, string(out), token)
	}
	return nil
}

// Version returns the first line of "doctl version".
func (c *Client) Version(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, c.bin, "version")
	cmd.WaitDelay = waitDelay
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("run doctl version: %w", err)
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return strings.TrimSpace(line), nil
}

// translateError maps a failed doctl invocation to ErrAuthFailed with the
// token removed from the output.
func translateError(err error, output, token string) error {
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("authentication cancelled: %w", context.Canceled)
	}
	if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "deadline exceeded") {
		return fmt.Errorf("authentication timed out: %w", context.DeadlineExceeded)
	}

	detail := redact(strings.TrimSpace(output), token)
	if detail == "" {
		detail = redact(err.Error(), token)
	}

	lower := strings.ToLower(detail)
	switch {
	case strings.Contains(lower, "unable to use supplied token"), strings.Contains(lower, "401"):
		detail = "token was rejected: " + detail
	case strings.Contains(lower, "no such host"), strings.Contains(lower, "connection refused"):
		detail = "DigitalOcean API unreachable: " + detail
	}

	return &RedactedError{
		message: fmt.Sprintf("%v: %s", ErrAuthFailed, detail),
		wrapped: fmt.Errorf("%w: %w", ErrAuthFailed, err),
	}
}

// redact scrubs token from msg and bounds its length
func redact(msg, token string) string {
	if token != "" {
		msg = strings.ReplaceAll(msg, token, "***")
	}
	const maxLen = 300
	if len(msg) > maxLen {
		msg = msg[:maxLen] + "..."
	}
	return msg
}
