// Package output owns the on-disk result formats: the newline-delimited
// text files consumed by follow-up tooling and the optional JSON records.
package output

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dawgyg/bugbounty-tools/internal/scan"
)

// Record is the machine-readable form of one fetch result, one JSON
// object per line.
type Record struct {
	Timestamp     string   `json:"timestamp"`
	Host          string   `json:"host"`
	Port          int      `json:"port"`
	Scheme        string   `json:"scheme"`
	URL           string   `json:"url"`
	StatusCode    int      `json:"status_code"`
	ContentLength int      `json:"content_length"`
	Title         string   `json:"title"`
	WebServer     string   `json:"webserver"`
	BodyMMH3      string   `json:"body_mmh3"`
	HeaderMMH3    string   `json:"header_mmh3"`
	Technologies  []string `json:"tech,omitempty"`
	Time          string   `json:"time"`
}

// NewRecord converts a fetch result into its JSON representation.
func NewRecord(r scan.FetchResult) Record {
	return Record{
		Timestamp:     r.Timestamp.Format(time.RFC3339),
		Host:          r.Host,
		Port:          r.Port,
		Scheme:        r.Scheme,
		URL:           r.URL,
		StatusCode:    r.StatusCode,
		ContentLength: r.ContentLength,
		Title:         r.Title,
		WebServer:     r.Fingerprint,
		BodyMMH3:      r.BodyMMH3,
		HeaderMMH3:    r.HeaderMMH3,
		Technologies:  r.Technologies,
		Time:          r.Duration.String(),
	}
}

// LiveLine formats one live-host entry, ports ascending.
func LiveLine(h scan.LiveHost) string {
	ports := make([]string, len(h.Ports))
	for i, p := range h.Ports {
		ports[i] = fmt.Sprintf("%d", p)
	}
	return fmt.Sprintf("%s web servers: %s", h.Host, strings.Join(ports, ", "))
}

// InternalLine formats one private-IP host entry.
func InternalLine(h scan.InternalHost) string {
	return fmt.Sprintf("%s → %s", h.Host, h.IP)
}

// TitleLine formats one page-title entry.
func TitleLine(r scan.FetchResult) string {
	return fmt.Sprintf("%s Port: %d Root Page Title: %s", r.Host, r.Port, r.Title)
}

// FingerprintLine formats one server-fingerprint entry.
func FingerprintLine(r scan.FetchResult) string {
	return fmt.Sprintf("%s Port: %d Server: %s", r.Host, r.Port, r.Fingerprint)
}

// TechLine formats one technology-detection entry.
func TechLine(r scan.FetchResult) string {
	return fmt.Sprintf("%s Port: %d Tech: %s", r.Host, r.Port, strings.Join(r.Technologies, ", "))
}

// WriteLines writes newline-terminated lines to path, replacing any
// previous file.
func WriteLines(path string, lines []string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
	return w.Flush()
}

// WriteRecords writes one JSON object per line to path.
func WriteRecords(path string, records []Record) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	enc := json.NewEncoder(w)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encoding record: %w", err)
		}
	}
	return w.Flush()
}

// Layout describes where a run's files live: everything sits under a
// directory named after the output base (the output filename up to its
// first dot), with screenshots in their own subdirectory.
type Layout struct {
	Dir            string
	Base           string
	Live           string
	Internal       string
	Titles         string
	Fingerprints   string
	Tech           string
	JSON           string
	ScreenshotsDir string
}

// NewLayout derives the directory layout from the configured file names.
// Optional names left empty stay empty in the layout.
func NewLayout(outputName, titlesName, fingerprintName, jsonName string) Layout {
	base := "results"
	if idx := strings.Index(outputName, "."); idx > 0 {
		base = outputName[:idx]
	}

	l := Layout{
		Dir:            base,
		Base:           base,
		Live:           filepath.Join(base, outputName),
		Internal:       filepath.Join(base, base+"_internal.txt"),
		Tech:           filepath.Join(base, base+"_tech.txt"),
		ScreenshotsDir: filepath.Join(base, "screenshots"),
	}
	if titlesName != "" {
		l.Titles = filepath.Join(base, titlesName)
	}
	if fingerprintName != "" {
		l.Fingerprints = filepath.Join(base, fingerprintName)
	}
	if jsonName != "" {
		l.JSON = filepath.Join(base, jsonName)
	}
	return l
}
