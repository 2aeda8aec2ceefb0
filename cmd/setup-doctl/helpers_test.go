package main

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/ZebulonRouseFrantzich/setup-doctl/internal/platform"
)

// stubDoctl records its arguments next to itself and reports a version
const stubDoctl = `#!/bin/sh
if [ "$1" = "version" ]; then
  echo "doctl version 0.0.0-test"
  exit 0
fi
echo "$@" > "$(dirname "$0")/invocation"
`

func doctlArchive(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	if err := tw.WriteHeader(&tar.Header{Name: "doctl", Mode: 0755, Size: int64(len(stubDoctl)), Typeflag: tar.TypeReg}); err != nil {
		t.Fatal(err)
	}
	if _, err := tw.Write([]byte(stubDoctl)); err != nil {
		t.Fatal(err)
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func doctlZip(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("doctl.exe")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("MZ stub")); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// fakeGitHub serves the releases API and release archives for any platform.
// Only versions in available have downloadable archives.
type fakeGitHub struct {
	*httptest.Server

	mu        sync.Mutex
	downloads []string
}

func newFakeGitHub(t *testing.T, latest string, recent []string, available ...string) *fakeGitHub {
	t.Helper()
	tarball := doctlArchive(t)
	zipball := doctlZip(t)
	ok := map[string]bool{}
	for _, v := range available {
		ok[v] = true
	}

	g := &fakeGitHub{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/repos/digitalocean/doctl/releases/latest", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"name":"v%s"}`, latest)
	})
	mux.HandleFunc("/api/repos/digitalocean/doctl/releases", func(w http.ResponseWriter, r *http.Request) {
		names := make([]string, 0, len(recent))
		for _, v := range recent {
			names = append(names, fmt.Sprintf(`{"name":"v%s"}`, v))
		}
		fmt.Fprintf(w, "[%s]", strings.Join(names, ","))
	})
	mux.HandleFunc("/download/", func(w http.ResponseWriter, r *http.Request) {
		g.mu.Lock()
		g.downloads = append(g.downloads, r.URL.Path)
		g.mu.Unlock()

		for v := range ok {
			prefix := fmt.Sprintf("/download/v%s/doctl-%s-", v, v)
			if !strings.HasPrefix(r.URL.Path, prefix) {
				continue
			}
			switch {
			case strings.HasSuffix(r.URL.Path, ".tar.gz"):
				_, _ = w.Write(tarball)
				return
			case strings.HasSuffix(r.URL.Path, ".zip"):
				_, _ = w.Write(zipball)
				return
			}
		}
		http.NotFound(w, r)
	})
	g.Server = httptest.NewServer(mux)
	t.Cleanup(g.Close)
	return g
}

func (g *fakeGitHub) downloadCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.downloads)
}

// testApp returns an app on a fixed linux/amd64 host with the given env
func testApp(env map[string]string, stdout, stderr *bytes.Buffer) *app {
	getenv := func(k string) string { return env[k] }
	detector := platform.StaticDetector{Info: platform.Info{OS: "linux", Arch: "amd64", GoArch: "amd64"}}
	return newApp(getenv, stdout, stderr, detector)
}

func run(t *testing.T, a *app, args ...string) error {
	t.Helper()
	return execute(context.Background(), append([]string{"setup-doctl"}, args...), a)
}
