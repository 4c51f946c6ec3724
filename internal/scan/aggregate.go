package scan

import "sync"

// LiveHost is one host with a non-empty open-port set, ports ascending.
type LiveHost struct {
	Host  string
	Ports []int
}

// InternalHost is one host that resolved to a private IPv4 address.
type InternalHost struct {
	Host string
	IP   string
}

// Snapshot is a consistent view of the counters, taken under the aggregate
// lock and handed to the status reporter.
type Snapshot struct {
	Scanned     int
	Total       int
	Found       int
	Internal    int
	Screenshots int
}

// Aggregate holds all state shared across workers. Every mutation happens
// under one mutex so the status reporter never observes a torn update.
// The scanned counter only increases and, after an uninterrupted run,
// equals the number of submitted targets.
type Aggregate struct {
	mu sync.Mutex

	total       int
	scanned     int
	found       int
	screenshots int

	live     []LiveHost
	internal []InternalHost
	fetches  []FetchResult
}

// NewAggregate creates shared state for a run over total targets.
func NewAggregate(total int) *Aggregate {
	return &Aggregate{total: total}
}

// RecordInternal notes a host that resolved to a private address.
func (a *Aggregate) RecordInternal(host, ip string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.internal = append(a.internal, InternalHost{Host: host, IP: ip})
}

// CompleteHost accounts for one finished host pipeline. Hosts that failed
// resolution or had no open ports still count as scanned; only hosts with
// open ports increment the found counter and join the live list. Returns
// the snapshot to report.
func (a *Aggregate) CompleteHost(host string, openPorts []int) Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.scanned++
	if len(openPorts) > 0 {
		a.found++
		a.live = append(a.live, LiveHost{Host: host, Ports: openPorts})
	}
	return a.snapshotLocked()
}

// RecordFetch stores a successful per-port fetch.
func (a *Aggregate) RecordFetch(result FetchResult) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.fetches = append(a.fetches, result)
}

// RecordScreenshot bumps the capture counter and returns the snapshot to
// report.
func (a *Aggregate) RecordScreenshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.screenshots++
	return a.snapshotLocked()
}

// Snapshot returns a consistent view of the counters.
func (a *Aggregate) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

func (a *Aggregate) snapshotLocked() Snapshot {
	return Snapshot{
		Scanned:     a.scanned,
		Total:       a.total,
		Found:       a.found,
		Internal:    len(a.internal),
		Screenshots: a.screenshots,
	}
}

// Live returns the accumulated live hosts.
func (a *Aggregate) Live() []LiveHost {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]LiveHost, len(a.live))
	copy(out, a.live)
	return out
}

// Internal returns the accumulated private-IP hosts.
func (a *Aggregate) Internal() []InternalHost {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]InternalHost, len(a.internal))
	copy(out, a.internal)
	return out
}

// Fetches returns the accumulated fetch results.
func (a *Aggregate) Fetches() []FetchResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]FetchResult, len(a.fetches))
	copy(out, a.fetches)
	return out
}
