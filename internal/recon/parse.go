// Package recon fetches every known host for a domain or IP from the
// ip.thc.org paginated API, pacing requests from the rate-limit hints the
// API reports and resuming interrupted fetches from the output file.
package recon

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// The API decorates its plain-text responses with ANSI sequences; all
// three families show up in practice.
var (
	csiRe     = regexp.MustCompile(`\x1b\[[0-?]*[ -/]*[@-~]`)
	escRe     = regexp.MustCompile(`\x1b[@-Z\\-_][0-?]*[ -/]*[@-~]`)
	charsetRe = regexp.MustCompile(`\x1b\([AB0-2]`)

	rateLimitRe = regexp.MustCompile(`You can make (\d+)`)
)

// StripANSI removes ANSI escape sequences and surrounding whitespace.
func StripANSI(s string) string {
	s = csiRe.ReplaceAllString(s, "")
	s = escRe.ReplaceAllString(s, "")
	s = charsetRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// Page is one parsed API response page. Total and RateRemaining are -1
// when the response did not report them.
type Page struct {
	Entries       []string
	Total         int
	RateRemaining int
	NextPage      string
}

// ParsePage extracts result entries and the ;;-prefixed metadata lines
// from a raw response body. Metadata lines carry the total entry count
// (";;Entries: fetched/total"), the remaining rate limit and the next
// page URL; every other non-empty line is a host entry.
func ParsePage(text string, apiPrefix string) Page {
	page := Page{Total: -1, RateRemaining: -1}

	var nextCandidate string
	for _, rawLine := range strings.Split(text, "\n") {
		line := StripANSI(rawLine)
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, ";;Entries:"):
			parts := strings.Split(line, "/")
			if len(parts) >= 2 {
				if fields := strings.Fields(parts[1]); len(fields) > 0 {
					if n, err := strconv.Atoi(fields[0]); err == nil {
						page.Total = n
					}
				}
			}
		case strings.HasPrefix(line, ";;Rate Limit:"):
			if m := rateLimitRe.FindStringSubmatch(line); m != nil {
				if n, err := strconv.Atoi(m[1]); err == nil {
					page.RateRemaining = n
				}
			}
		case strings.HasPrefix(line, ";;Next Page:"):
			if _, after, found := strings.Cut(line, ":"); found {
				nextCandidate = StripANSI(after)
			}
		case strings.HasPrefix(line, ";;"):
			// other metadata, ignored
		default:
			page.Entries = append(page.Entries, line)
		}
	}

	if strings.HasPrefix(nextCandidate, apiPrefix) {
		page.NextPage = nextCandidate
	}
	return page
}

// PaceFor maps the remaining rate limit to the delay before the next
// request: generous headroom means near-continuous fetching, a nearly
// exhausted budget backs off toward the refresh interval. A negative
// value means the limit is unknown and gets the conservative default.
func PaceFor(rateRemaining int) time.Duration {
	switch {
	case rateRemaining < 0:
		return 2100 * time.Millisecond
	case rateRemaining >= 50:
		return 100 * time.Millisecond
	case rateRemaining >= 20:
		return 500 * time.Millisecond
	case rateRemaining >= 10:
		return time.Second
	default:
		return time.Duration(2200-100*rateRemaining) * time.Millisecond
	}
}
