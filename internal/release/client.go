// Package release queries the GitHub release directory for doctl versions.
//
// Every query is best effort: when GitHub cannot be reached, rate limits the
// caller, or returns something unusable, the client logs a warning and
// answers with binary.FallbackVersion instead of failing.
package release

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ZebulonRouseFrantzich/setup-doctl/internal/binary"
)

const (
	// DefaultAPIURL is the public GitHub REST endpoint
	DefaultAPIURL = "https://api.github.com"

	// Repo is the repository doctl releases are published from
	Repo = "digitalocean/doctl"

	// DefaultTimeout bounds each request to the API
	DefaultTimeout = 10 * time.Second

	// DefaultRecentCount is how many recent releases are fetched as fallback
	// candidates when none is configured.
	DefaultRecentCount = 5
)

// Logger receives warnings about recovered failures
type Logger interface {
	Warningf(format string, args ...any)
}

// Option configures a Client
type Option func(*Client)

// WithAPIURL points the client at a different API root (GitHub Enterprise, tests)
func WithAPIURL(apiURL string) Option {
	return func(c *Client) {
		if apiURL != "" {
			c.apiURL = strings.TrimRight(apiURL, "/")
		}
	}
}

// WithToken sends the token as a bearer credential on every request
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithHTTPClient replaces the HTTP client used for requests
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// Client talks to the GitHub releases API for the doctl repository
type Client struct {
	apiURL    string
	token     string
	userAgent string
	http      *http.Client
	logger    Logger
}

// NewClient creates a release client. logger may be nil.
func NewClient(logger Logger, opts ...Option) *Client {
	c := &Client{
		apiURL:    DefaultAPIURL,
		userAgent: binary.DefaultUserAgent,
		http:      &http.Client{Timeout: DefaultTimeout},
		logger:    logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type releaseResponse struct {
	Name    string `json:"name"`
	TagName string `json:"tag_name"`
}

// version returns the release name, or the tag when the name is blank
func (r releaseResponse) version() string {
	if name := strings.TrimSpace(r.Name); name != "" {
		return name
	}
	return strings.TrimSpace(r.TagName)
}

// LatestRelease returns the name of the most recent doctl release with any
// leading "v" removed. On failure it warns and returns binary.FallbackVersion.
func (c *Client) LatestRelease(ctx context.Context) string {
	var payload releaseResponse
	if err := c.getJSON(ctx, "/repos/"+Repo+"/releases/latest", nil, &payload); err != nil {
		c.warnf("could not determine latest doctl release (%s), using %s: %v", errorKind(err), binary.FallbackVersion, err)
		return binary.FallbackVersion
	}

	v := normalize(payload.version())
	if v == "" {
		c.warnf("latest doctl release has no name, using %s", binary.FallbackVersion)
		return binary.FallbackVersion
	}
	return v
}

// RecentReleases returns up to count release names in the order GitHub
// lists them, most recent first. Names are trimmed and stripped of a
// leading "v"; releases without a name or tag are skipped. When the request
// fails or no named release remains it warns
// and returns a single-element list holding binary.FallbackVersion.
func (c *Client) RecentReleases(ctx context.Context, count int) []string {
	if count < 1 {
		count = DefaultRecentCount
	}

	query := url.Values{}
	query.Set("per_page", strconv.Itoa(count))

	var payload []releaseResponse
	if err := c.getJSON(ctx, "/repos/"+Repo+"/releases", query, &payload); err != nil {
		c.warnf("could not list recent doctl releases (%s), using %s: %v", errorKind(err), binary.FallbackVersion, err)
		return []string{binary.FallbackVersion}
	}

	versions := make([]string, 0, len(payload))
	for _, r := range payload {
		if v := normalize(r.version()); v != "" {
			versions = append(versions, v)
		}
	}
	if len(versions) == 0 {
		c.warnf("no named doctl releases listed, using %s", binary.FallbackVersion)
		return []string{binary.FallbackVersion}
	}
	return versions
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.apiURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if err := classifyResponse(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) warnf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Warningf(format, args...)
	}
}

func normalize(v string) string {
	return strings.TrimPrefix(strings.TrimSpace(v), "v")
}

// errorKind names the class of a failure for diagnostics
func errorKind(err error) string {
	var statusErr *StatusError
	switch {
	case IsRateLimitError(err):
		return "rate_limited"
	case errors.As(err, &statusErr):
		return "http_status"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "other"
	}
}
