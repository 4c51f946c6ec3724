package scan

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// hostPort splits an httptest server URL into its host and port.
func hostPort(t *testing.T, server *httptest.Server) (string, int) {
	t.Helper()
	u, err := url.Parse(server.URL)
	if err != nil {
		t.Fatalf("parsing server URL: %v", err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatalf("parsing server port: %v", err)
	}
	return u.Hostname(), port
}

func TestFetchSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", "nginx/1.24.0")
		w.Write([]byte("<html><title>It works</title></html>"))
	}))
	defer server.Close()

	host, port := hostPort(t, server)
	fetcher, err := NewFetcher(false, testLogger())
	if err != nil {
		t.Fatalf("NewFetcher: %v", err)
	}
	defer fetcher.Close()

	result, err := fetcher.Fetch(context.Background(), host, port)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if result.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", result.StatusCode, http.StatusOK)
	}
	if result.Title != "It works" {
		t.Errorf("title = %q, want %q", result.Title, "It works")
	}
	if result.Fingerprint != "nginx/1.24.0" {
		t.Errorf("fingerprint = %q, want %q", result.Fingerprint, "nginx/1.24.0")
	}
	if result.Host != host || result.Port != port {
		t.Errorf("result identity = %s:%d, want %s:%d", result.Host, result.Port, host, port)
	}
	if result.BodyMMH3 == "" || result.HeaderMMH3 == "" {
		t.Error("expected non-empty body and header hashes")
	}
}

func TestFetchNon2xxStillSucceeds(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", "Apache")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("<title>Forbidden</title>"))
	}))
	defer server.Close()

	host, port := hostPort(t, server)
	fetcher, err := NewFetcher(false, testLogger())
	if err != nil {
		t.Fatalf("NewFetcher: %v", err)
	}
	defer fetcher.Close()

	result, err := fetcher.Fetch(context.Background(), host, port)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if result.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want %d", result.StatusCode, http.StatusForbidden)
	}
	if result.Title != "Forbidden" {
		t.Errorf("title = %q, want %q", result.Title, "Forbidden")
	}
}

func TestFetchConnectionErrorIsStageError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	host, port := hostPort(t, server)
	server.Close()

	fetcher, err := NewFetcher(false, testLogger())
	if err != nil {
		t.Fatalf("NewFetcher: %v", err)
	}
	defer fetcher.Close()

	_, err = fetcher.Fetch(context.Background(), host, port)
	if err == nil {
		t.Fatal("Fetch against closed server succeeded")
	}

	var stageErr *StageError
	if !errors.As(err, &stageErr) {
		t.Fatalf("error type = %T, want *StageError", err)
	}
	if stageErr.Kind != FailureFetch {
		t.Errorf("failure kind = %v, want %v", stageErr.Kind, FailureFetch)
	}
}

func TestFingerprint(t *testing.T) {
	tests := []struct {
		name    string
		headers http.Header
		want    string
	}{
		{
			"server only",
			http.Header{"Server": {"nginx"}},
			"nginx",
		},
		{
			"server and powered by",
			http.Header{"Server": {"Apache"}, "X-Powered-By": {"PHP/8.2"}},
			"Apache (PHP/8.2)",
		},
		{
			"powered by only",
			http.Header{"X-Powered-By": {"Express"}},
			"Unknown (Express)",
		},
		{
			"neither",
			http.Header{},
			"Unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fingerprint(tt.headers); got != tt.want {
				t.Errorf("Fingerprint() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHeaderMMH3Stable(t *testing.T) {
	h := http.Header{
		"Server":       {"nginx"},
		"Content-Type": {"text/html"},
	}
	if headerMMH3(h) != headerMMH3(h) {
		t.Error("headerMMH3 not stable across calls on identical headers")
	}

	other := http.Header{"Server": {"Apache"}}
	if headerMMH3(h) == headerMMH3(other) {
		t.Error("headerMMH3 collides for different headers")
	}
}
