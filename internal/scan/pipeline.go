package scan

import (
	"context"
	"errors"
	"log/slog"
)

// Capturer persists a screenshot of the root page on host:port. The
// browser engine behind it is a black box; failures are isolated to the
// capture stage.
type Capturer interface {
	Capture(ctx context.Context, host string, port int) error
}

// Pipeline runs the per-host stage sequence: resolve, classify, port scan,
// fetch per open port, screenshot per open port. Each stage is entered
// only if the run is not cancelled and the previous stage produced a
// qualifying result.
type Pipeline struct {
	Resolver Resolver
	Prober   *PortProber
	Fetcher  *Fetcher
	Capturer Capturer // nil when screenshots are disabled
	Agg      *Aggregate
	Status   func(Snapshot) // nil-safe status reporter hook
	Log      *slog.Logger
}

// RunHost processes one target. Every failure is swallowed at the stage
// where it occurred; the host always counts toward the scanned counter
// unless the run was cancelled before the port scan finished accounting.
func (p *Pipeline) RunHost(ctx context.Context, host string) {
	if ctx.Err() != nil {
		return
	}

	ip, err := p.Resolver.Resolve(ctx, host)
	if err != nil {
		var stageErr *StageError
		if errors.As(err, &stageErr) {
			p.Log.Debug("resolution failed", "host", host, "error", stageErr.Err)
		}
		p.report(p.Agg.CompleteHost(host, nil))
		return
	}

	if IsPrivateIPv4(ip) {
		p.Agg.RecordInternal(host, ip)
	}

	openPorts := p.Prober.Scan(ctx, host)

	p.report(p.Agg.CompleteHost(host, openPorts))
	if len(openPorts) == 0 {
		return
	}

	// Fetch loop: ascending port order, one best-effort attempt each.
	// Track which ports got an attempt so the screenshot loop covers them
	// even when the fetch itself failed.
	var attempted []int
	for _, port := range openPorts {
		if ctx.Err() != nil {
			break
		}
		attempted = append(attempted, port)

		result, err := p.Fetcher.Fetch(ctx, host, port)
		if err != nil {
			p.Log.Debug("fetch failed", "host", host, "port", port, "error", err)
			continue
		}
		p.Agg.RecordFetch(result)
	}

	if p.Capturer == nil {
		return
	}
	for _, port := range attempted {
		if ctx.Err() != nil {
			break
		}
		if err := p.Capturer.Capture(ctx, host, port); err != nil {
			p.Log.Debug("capture failed", "host", host, "port", port, "error", err)
			continue
		}
		p.report(p.Agg.RecordScreenshot())
	}
}

func (p *Pipeline) report(s Snapshot) {
	if p.Status != nil {
		p.Status(s)
	}
}
