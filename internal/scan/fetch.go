package scan

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	wappalyzer "github.com/projectdiscovery/wappalyzergo"
	"github.com/twmb/murmur3"
)

const (
	// DefaultFetchTimeout bounds the whole HTTP exchange per port.
	DefaultFetchTimeout = 5 * time.Second

	// maxBodySize caps how much of a response body is read for title
	// extraction and hashing.
	maxBodySize = 10 * 1024 * 1024

	fetchUserAgent = "Mozilla/5.0"
)

// FetchResult is the outcome of one successful HTTP probe against an open
// port. A non-2xx status still counts as success for fingerprinting.
type FetchResult struct {
	Host          string
	Port          int
	Scheme        string
	URL           string
	StatusCode    int
	ContentLength int
	Fingerprint   string
	Title         string
	BodyMMH3      string
	HeaderMMH3    string
	Technologies  []string
	Duration      time.Duration
	Timestamp     time.Time
}

// Fetcher issues single best-effort HTTP requests against open ports and
// derives fingerprint, title, hashes and (optionally) technologies from
// the response.
type Fetcher struct {
	client   *http.Client
	detector *wappalyzer.Wappalyze
	log      *slog.Logger
}

// NewFetcher builds a Fetcher. TLS certificate validation is disabled and
// redirects are followed; targets are expected to present broken or
// mismatched certificates. Technology detection is optional because the
// fingerprint database costs memory to load.
func NewFetcher(techDetect bool, logger *slog.Logger) (*Fetcher, error) {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: true,
			MinVersion:         tls.VersionTLS10,
		},
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
	}

	f := &Fetcher{
		client: &http.Client{
			Timeout:   DefaultFetchTimeout,
			Transport: transport,
		},
		log: logger,
	}

	if techDetect {
		detector, err := wappalyzer.New()
		if err != nil {
			return nil, fmt.Errorf("initializing technology detector: %w", err)
		}
		f.detector = detector
	}

	return f, nil
}

// Close releases idle transport connections.
func (f *Fetcher) Close() {
	f.client.CloseIdleConnections()
}

// Fetch issues a GET against the root page of host:port. On any transport
// or protocol error it returns a StageError of kind FailureFetch and the
// port yields no record.
func (f *Fetcher) Fetch(ctx context.Context, host string, port int) (FetchResult, error) {
	scheme := SchemeForPort(port)
	url := fmt.Sprintf("%s://%s/", scheme, host+":"+strconv.Itoa(port))

	result := FetchResult{
		Host:      host,
		Port:      port,
		Scheme:    scheme,
		URL:       url,
		Timestamp: time.Now(),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return result, &StageError{Kind: FailureFetch, Err: err}
	}
	req.Header.Set("User-Agent", fetchUserAgent)

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return result, &StageError{Kind: FailureFetch, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return result, &StageError{Kind: FailureFetch, Err: err}
	}
	result.Duration = time.Since(start)

	result.StatusCode = resp.StatusCode
	result.ContentLength = len(body)
	result.Fingerprint = Fingerprint(resp.Header)
	result.Title = ExtractTitle(string(body))
	result.BodyMMH3 = mmh3Sum(body)
	result.HeaderMMH3 = headerMMH3(resp.Header)

	if f.detector != nil {
		result.Technologies = f.detectTech(resp.Header, body)
	}

	return result, nil
}

// Fingerprint derives the server identification string from response
// headers: the Server value ("Unknown" when absent), suffixed with the
// X-Powered-By value in parentheses when present.
func Fingerprint(headers http.Header) string {
	server := headers.Get("Server")
	if server == "" {
		server = "Unknown"
	}
	if poweredBy := headers.Get("X-Powered-By"); poweredBy != "" {
		server += " (" + poweredBy + ")"
	}
	return server
}

func (f *Fetcher) detectTech(headers http.Header, body []byte) []string {
	fingerprints := f.detector.Fingerprint(headers, body)
	if len(fingerprints) == 0 {
		return nil
	}
	techs := make([]string, 0, len(fingerprints))
	for tech := range fingerprints {
		techs = append(techs, tech)
	}
	sort.Strings(techs)
	return techs
}

// mmh3Sum renders the 32-bit murmur3 hash of data as a decimal string,
// matching the format used by common probing tools.
func mmh3Sum(data []byte) string {
	return fmt.Sprintf("%d", murmur3.Sum32(data))
}

// headerMMH3 hashes the response headers in sorted key order so the value
// is stable across requests.
func headerMMH3(headers http.Header) string {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		for _, v := range headers[k] {
			b.WriteString(k)
			b.WriteString(": ")
			b.WriteString(v)
			b.WriteString("\n")
		}
	}
	return mmh3Sum([]byte(b.String()))
}
