package output

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dawgyg/bugbounty-tools/internal/scan"
)

func TestLineFormats(t *testing.T) {
	live := scan.LiveHost{Host: "a.example.com", Ports: []int{80, 443, 8080}}
	if got, want := LiveLine(live), "a.example.com web servers: 80, 443, 8080"; got != want {
		t.Errorf("LiveLine = %q, want %q", got, want)
	}

	internal := scan.InternalHost{Host: "intranet.example.com", IP: "10.0.0.5"}
	if got, want := InternalLine(internal), "intranet.example.com → 10.0.0.5"; got != want {
		t.Errorf("InternalLine = %q, want %q", got, want)
	}

	result := scan.FetchResult{
		Host:         "a.example.com",
		Port:         443,
		Title:        "Login",
		Fingerprint:  "nginx (PHP/8.2)",
		Technologies: []string{"Nginx", "PHP"},
	}
	if got, want := TitleLine(result), "a.example.com Port: 443 Root Page Title: Login"; got != want {
		t.Errorf("TitleLine = %q, want %q", got, want)
	}
	if got, want := FingerprintLine(result), "a.example.com Port: 443 Server: nginx (PHP/8.2)"; got != want {
		t.Errorf("FingerprintLine = %q, want %q", got, want)
	}
	if got, want := TechLine(result), "a.example.com Port: 443 Tech: Nginx, PHP"; got != want {
		t.Errorf("TechLine = %q, want %q", got, want)
	}
}

func TestWriteLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	lines := []string{"first", "second", "third"}

	if err := WriteLines(path, lines); err != nil {
		t.Fatalf("WriteLines: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	if got, want := string(data), "first\nsecond\nthird\n"; got != want {
		t.Errorf("file content = %q, want %q", got, want)
	}
}

func TestWriteLinesReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	if err := os.WriteFile(path, []byte("stale content\n"), 0644); err != nil {
		t.Fatalf("seeding file: %v", err)
	}

	if err := WriteLines(path, []string{"fresh"}); err != nil {
		t.Fatalf("WriteLines: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	if string(data) != "fresh\n" {
		t.Errorf("file content = %q, want %q", string(data), "fresh\n")
	}
}

func TestWriteRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	records := []Record{
		NewRecord(scan.FetchResult{
			Host:        "a.example.com",
			Port:        443,
			Scheme:      "https",
			URL:         "https://a.example.com:443/",
			StatusCode:  200,
			Title:       "Home",
			Fingerprint: "nginx",
			Timestamp:   now,
			Duration:    120 * time.Millisecond,
		}),
	}

	if err := WriteRecords(path, records); err != nil {
		t.Fatalf("WriteRecords: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening output: %v", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	if !scanner.Scan() {
		t.Fatal("output file has no lines")
	}

	var decoded Record
	if err := json.Unmarshal(scanner.Bytes(), &decoded); err != nil {
		t.Fatalf("decoding record line: %v", err)
	}
	if decoded.Host != "a.example.com" || decoded.Port != 443 {
		t.Errorf("decoded identity = %s:%d, want a.example.com:443", decoded.Host, decoded.Port)
	}
	if decoded.WebServer != "nginx" {
		t.Errorf("webserver = %q, want nginx", decoded.WebServer)
	}
	if decoded.Timestamp != "2026-08-24T12:00:00Z" {
		t.Errorf("timestamp = %q, want RFC3339 form", decoded.Timestamp)
	}

	if scanner.Scan() {
		t.Error("unexpected extra line in records file")
	}
}

func TestNewLayout(t *testing.T) {
	tests := []struct {
		name       string
		output     string
		titles     string
		fingerprnt string
		json       string
		wantBase   string
	}{
		{"name with extension", "targets.txt", "titles.txt", "servers.txt", "out.json", "targets"},
		{"name with several dots", "acme.live.txt", "", "", "", "acme"},
		{"name without dot", "targets", "", "", "", "results"},
		{"leading dot", ".hidden", "", "", "", "results"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLayout(tt.output, tt.titles, tt.fingerprnt, tt.json)

			if l.Base != tt.wantBase {
				t.Errorf("base = %q, want %q", l.Base, tt.wantBase)
			}
			if l.Dir != tt.wantBase {
				t.Errorf("dir = %q, want %q", l.Dir, tt.wantBase)
			}
			if want := filepath.Join(tt.wantBase, tt.output); l.Live != want {
				t.Errorf("live = %q, want %q", l.Live, want)
			}
			if want := filepath.Join(tt.wantBase, tt.wantBase+"_internal.txt"); l.Internal != want {
				t.Errorf("internal = %q, want %q", l.Internal, want)
			}
			if want := filepath.Join(tt.wantBase, "screenshots"); l.ScreenshotsDir != want {
				t.Errorf("screenshots dir = %q, want %q", l.ScreenshotsDir, want)
			}

			if tt.titles == "" && l.Titles != "" {
				t.Errorf("titles = %q, want empty when not requested", l.Titles)
			}
			if tt.titles != "" && !strings.HasSuffix(l.Titles, tt.titles) {
				t.Errorf("titles = %q, want suffix %q", l.Titles, tt.titles)
			}
			if tt.json != "" && !strings.HasSuffix(l.JSON, tt.json) {
				t.Errorf("json = %q, want suffix %q", l.JSON, tt.json)
			}
		})
	}
}
