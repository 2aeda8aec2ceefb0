package release

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/ZebulonRouseFrantzich/setup-doctl/internal/binary"
)

type recordingLogger struct {
	warnings []string
}

func (l *recordingLogger) Warningf(format string, args ...any) {
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
}

func TestLatestRelease(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		want     string
		wantWarn string
	}{
		{
			name: "name_field",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"name":"v1.104.0","tag_name":"v1.104.0"}`)
			},
			want: "1.104.0",
		},
		{
			name: "tag_when_name_blank",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"name":"  ","tag_name":"v1.103.0"}`)
			},
			want: "1.103.0",
		},
		{
			name: "server_error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			want:     binary.FallbackVersion,
			wantWarn: "http_status",
		},
		{
			name: "rate_limited_429",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			},
			want:     binary.FallbackVersion,
			wantWarn: "rate_limited",
		},
		{
			name: "rate_limited_403",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.WriteHeader(http.StatusForbidden)
			},
			want:     binary.FallbackVersion,
			wantWarn: "rate_limited",
		},
		{
			name: "malformed_json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{not json`)
			},
			want:     binary.FallbackVersion,
			wantWarn: "decode response",
		},
		{
			name: "empty_name",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{}`)
			},
			want:     binary.FallbackVersion,
			wantWarn: "no name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			logger := &recordingLogger{}
			client := NewClient(logger, WithAPIURL(server.URL))

			got := client.LatestRelease(context.Background())
			if got != tt.want {
				t.Errorf("LatestRelease() = %q, want %q", got, tt.want)
			}

			if tt.wantWarn == "" {
				if len(logger.warnings) != 0 {
					t.Errorf("unexpected warnings: %v", logger.warnings)
				}
				return
			}
			if len(logger.warnings) != 1 || !strings.Contains(logger.warnings[0], tt.wantWarn) {
				t.Errorf("warnings = %v, want one containing %q", logger.warnings, tt.wantWarn)
			}
		})
	}
}

func TestLatestReleaseUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	apiURL := server.URL
	server.Close()

	logger := &recordingLogger{}
	got := NewClient(logger, WithAPIURL(apiURL)).LatestRelease(context.Background())

	if got != binary.FallbackVersion {
		t.Errorf("LatestRelease() = %q, want %q", got, binary.FallbackVersion)
	}
	if len(logger.warnings) != 1 {
		t.Errorf("expected one warning, got %v", logger.warnings)
	}
}

func TestRecentReleases(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    []string
		wantWrn bool
	}{
		{
			name:   "service_order_preserved",
			status: http.StatusOK,
			body:   `[{"name":"v1.104.0"},{"name":"1.102.0"},{"name":"v1.103.0"}]`,
			want:   []string{"1.104.0", "1.102.0", "1.103.0"},
		},
		{
			name:   "duplicates_kept",
			status: http.StatusOK,
			body:   `[{"name":"v1.104.0"},{"name":"1.104.0"}]`,
			want:   []string{"1.104.0", "1.104.0"},
		},
		{
			name:   "tag_fallback",
			status: http.StatusOK,
			body:   `[{"name":"","tag_name":"v1.101.0"}]`,
			want:   []string{"1.101.0"},
		},
		{
			name:    "empty_list",
			status:  http.StatusOK,
			body:    `[]`,
			want:    []string{binary.FallbackVersion},
			wantWrn: true,
		},
		{
			name:   "blank_entries_skipped",
			status: http.StatusOK,
			body:   `[{"name":" "},{"name":"v1.103.0"},{"name":"","tag_name":""}]`,
			want:   []string{"1.103.0"},
		},
		{
			name:    "only_blank_entries",
			status:  http.StatusOK,
			body:    `[{"name":""},{"name":"  "},{"name":"v"}]`,
			want:    []string{binary.FallbackVersion},
			wantWrn: true,
		},
		{
			name:    "not_found",
			status:  http.StatusNotFound,
			body:    `{"message":"Not Found"}`,
			want:    []string{binary.FallbackVersion},
			wantWrn: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			logger := &recordingLogger{}
			got := NewClient(logger, WithAPIURL(server.URL)).RecentReleases(context.Background(), 5)

			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("RecentReleases() = %v, want %v", got, tt.want)
			}
			if (len(logger.warnings) > 0) != tt.wantWrn {
				t.Errorf("warnings = %v, wantWarn %v", logger.warnings, tt.wantWrn)
			}
		})
	}
}

func TestRequestShape(t *testing.T) {
	var gotPath, gotQuery, gotAuth, gotAccept, gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprint(w, `[]`)
	}))
	defer server.Close()

	client := NewClient(nil, WithAPIURL(server.URL+"/"), WithToken("secret"), WithUserAgent("setup-doctl/test"))
	client.RecentReleases(context.Background(), 3)

	if gotPath != "/repos/digitalocean/doctl/releases" {
		t.Errorf("path = %s", gotPath)
	}
	if gotQuery != "per_page=3" {
		t.Errorf("query = %s", gotQuery)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotAccept != "application/vnd.github+json" {
		t.Errorf("Accept = %q", gotAccept)
	}
	if gotUA != "setup-doctl/test" {
		t.Errorf("User-Agent = %q", gotUA)
	}
}

func TestNoAuthorizationWithoutToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `{"name":"1.0.0"}`)
	}))
	defer server.Close()

	NewClient(nil, WithAPIURL(server.URL)).LatestRelease(context.Background())

	if gotAuth != "" {
		t.Errorf("Authorization = %q, want empty", gotAuth)
	}
}

func TestRateLimitErrorMessage(t *testing.T) {
	remaining := 0
	err := &RateLimitError{StatusCode: 403, Status: "403 Forbidden", Remaining: &remaining}
	if !strings.Contains(err.Error(), "remaining=0") {
		t.Errorf("Error() = %s", err.Error())
	}
	if !IsRateLimitError(fmt.Errorf("wrapped: %w", err)) {
		t.Error("IsRateLimitError should see through wrapping")
	}
}
