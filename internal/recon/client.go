package recon

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultAPIBase = "https://ip.thc.org/"

	// pageSize matches the l=100 query parameter; a page with fewer
	// entries is the last one.
	pageSize = 100

	requestTimeout = 30 * time.Second
	errorBackoff   = 10 * time.Second
)

// Progress tracks one fetch run. Total and RateRemaining are -1 until the
// API reports them.
type Progress struct {
	Target        string
	Fetched       int
	Total         int
	RateRemaining int
	Requests      int
	Errors        int
	Resuming      bool
}

// Client talks to the paginated host API. Pacing is enforced with a rate
// limiter whose interval tracks the remaining request budget the API
// reports on every page.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	base    string
	log     *slog.Logger
}

// NewClient creates a Client with conservative initial pacing.
func NewClient(logger *slog.Logger) *Client {
	return &Client{
		http:    &http.Client{Timeout: requestTimeout},
		limiter: rate.NewLimiter(rate.Every(PaceFor(-1)), 1),
		base:    defaultAPIBase,
		log:     logger,
	}
}

// SetBase points the client at a different API root, for tests.
func (c *Client) SetBase(base string) {
	c.base = base
}

// StartURL builds the first page URL for a target. Anything that looks
// like a domain goes through the subdomain endpoint; bare IPs query hosts
// on that address directly.
func (c *Client) StartURL(target string) string {
	if IsDomainTarget(target) {
		return c.base + "sb/" + target + "?l=100"
	}
	return c.base + target + "?l=100"
}

// IsDomainTarget reports whether target is a domain name rather than an
// IPv4 address.
func IsDomainTarget(target string) bool {
	if !strings.Contains(target, ".") {
		return false
	}
	stripped := strings.ReplaceAll(target, ".", "")
	for _, r := range stripped {
		if r < '0' || r > '9' {
			return true
		}
	}
	return false
}

// FetchPage retrieves and parses one page, waiting out the pacing
// interval first and tightening or relaxing it from the page's rate-limit
// report.
func (c *Client) FetchPage(ctx context.Context, url string) (Page, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Page{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Page{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Page{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return Page{}, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Page{}, err
	}

	page := ParsePage(string(body), c.base)
	if page.RateRemaining >= 0 {
		c.limiter.SetLimit(rate.Every(PaceFor(page.RateRemaining)))
	}
	return page, nil
}

// FetchAll walks every page for target, appending entries to outPath.
// When outPath already holds entries the run resumes: already-fetched
// pages are walked again without rewriting their entries. Request
// failures back off and retry the same page. Cancelling the context
// returns the progress made so far together with the context error; the
// output file keeps everything written up to that point.
func (c *Client) FetchAll(ctx context.Context, target, outPath string, statusFn func(Progress)) (Progress, error) {
	report := func(p Progress) {
		if statusFn != nil {
			statusFn(p)
		}
	}

	prog := Progress{Target: target, Total: -1, RateRemaining: -1}

	already, err := countNonEmptyLines(outPath)
	if err != nil {
		return prog, err
	}
	prog.Resuming = already > 0
	prog.Fetched = already

	flags := os.O_CREATE | os.O_WRONLY
	if prog.Resuming {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	file, err := os.OpenFile(outPath, flags, 0644)
	if err != nil {
		return prog, fmt.Errorf("opening output file: %w", err)
	}
	defer file.Close()
	w := bufio.NewWriter(file)
	defer w.Flush()

	report(prog)

	url := c.StartURL(target)

	// Resume: walk past the pages whose entries are already on disk. The
	// API has no offset parameter, so the pages are refetched and only
	// counted. A short page means the data set ends inside what we
	// already have.
	if prog.Resuming {
		remaining := already
		for url != "" && remaining >= pageSize {
			if ctx.Err() != nil {
				return prog, ctx.Err()
			}

			prog.Requests++
			page, err := c.FetchPage(ctx, url)
			if err != nil {
				if ctx.Err() != nil {
					return prog, ctx.Err()
				}
				prog.Errors++
				c.log.Warn("request failed during resume skip", "url", url, "error", err)
				if !sleepCtx(ctx, errorBackoff) {
					return prog, ctx.Err()
				}
				continue
			}

			updateFromPage(&prog, page)
			if len(page.Entries) < pageSize {
				url = ""
				break
			}
			remaining -= len(page.Entries)
			url = page.NextPage
			report(prog)
		}
	}

	for url != "" {
		if ctx.Err() != nil {
			return prog, ctx.Err()
		}

		prog.Requests++
		page, err := c.FetchPage(ctx, url)
		if err != nil {
			if ctx.Err() != nil {
				return prog, ctx.Err()
			}
			prog.Errors++
			c.log.Warn("request failed", "url", url, "error", err)
			if !sleepCtx(ctx, errorBackoff) {
				return prog, ctx.Err()
			}
			report(prog)
			continue
		}

		updateFromPage(&prog, page)
		for _, entry := range page.Entries {
			fmt.Fprintln(w, entry)
		}
		prog.Fetched += len(page.Entries)
		report(prog)

		url = page.NextPage
	}

	if err := w.Flush(); err != nil {
		return prog, fmt.Errorf("flushing output file: %w", err)
	}
	return prog, nil
}

func updateFromPage(prog *Progress, page Page) {
	if page.Total >= 0 {
		prog.Total = page.Total
	}
	if page.RateRemaining >= 0 {
		prog.RateRemaining = page.RateRemaining
	}
}

// countNonEmptyLines counts existing entries for resume. A missing file
// means a fresh start.
func countNonEmptyLines(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	defer file.Close()

	count := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) != "" {
			count++
		}
	}
	return count, scanner.Err()
}

// sleepCtx sleeps for d unless the context is cancelled first; it returns
// false on cancellation.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
