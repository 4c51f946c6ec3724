// Command livecheck probes a list of hostnames for live web servers.
// For each target it resolves DNS, flags private addresses, probes the
// common web ports, fetches the root page for a title and server
// fingerprint, and optionally captures a screenshot.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dawgyg/bugbounty-tools/internal/config"
	"github.com/dawgyg/bugbounty-tools/internal/output"
	"github.com/dawgyg/bugbounty-tools/internal/scan"
	"github.com/dawgyg/bugbounty-tools/internal/screenshot"
	"github.com/dawgyg/bugbounty-tools/internal/status"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.ParseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		fmt.Fprintln(os.Stderr, "Use -h for usage.")
		return 1
	}

	hosts, err := readHosts(cfg.InputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	printer := status.New()
	if !cfg.Silent {
		printer.Banner("THC LiveCheck")
	}

	if len(hosts) == 0 {
		printer.Linef(status.Yellow, "No hosts found in %s, nothing to do", cfg.InputFile)
		return 0
	}

	layout := output.NewLayout(cfg.OutputFile, cfg.TitlesFile, cfg.FingerprintFile, cfg.JSONFile)
	if err := os.MkdirAll(layout.Dir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: creating output directory: %v\n", err)
		return 1
	}
	if cfg.Screenshots {
		if err := os.MkdirAll(layout.ScreenshotsDir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Error: creating screenshots directory: %v\n", err)
			return 1
		}
	}

	if !cfg.Silent {
		printer.Linef(status.White, "Loaded %d hosts from %s", len(hosts), cfg.InputFile)
		printer.Linef(status.Gray, "Ports: %s", portList(scan.WebPorts))
		printer.Linef(status.Gray, "Threads: %d", cfg.Threads)
		if layout.Titles != "" {
			printer.Linef(status.Gray, "Titles  → %s", layout.Titles)
		}
		if layout.Fingerprints != "" {
			printer.Linef(status.Gray, "Servers → %s", layout.Fingerprints)
		}
		printer.Line("")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	agg := scan.NewAggregate(len(hosts))

	var capturer scan.Capturer
	if cfg.Screenshots {
		capturer = screenshot.New(layout.ScreenshotsDir, cfg.ScreenshotParallel, cfg.Logger)
	}

	fetcher, err := scan.NewFetcher(cfg.TechDetect, cfg.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer fetcher.Close()

	pipeline := &scan.Pipeline{
		Resolver: scan.NewNetResolver(),
		Prober:   scan.NewPortProber(),
		Fetcher:  fetcher,
		Capturer: capturer,
		Agg:      agg,
		Log:      cfg.Logger,
	}
	if !cfg.Silent {
		pipeline.Status = func(s scan.Snapshot) {
			printer.Status(statusLine(s, cfg.Screenshots))
		}
	}

	// Draw the zero-progress line before workers start so the operator
	// sees the run is underway.
	if pipeline.Status != nil {
		pipeline.Status(agg.Snapshot())
	}

	pool := &scan.Pool{Workers: cfg.Threads, Pipeline: pipeline}
	pool.Run(ctx, hosts)
	printer.Done()

	interrupted := ctx.Err() != nil
	stop()

	if err := writeResults(cfg, layout, agg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if !cfg.Silent {
		printSummary(printer, agg.Snapshot(), layout, interrupted)
	}
	return 0
}

// readHosts loads the newline-delimited target list, skipping blank lines.
func readHosts(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input file: %w", err)
	}
	defer file.Close()

	var hosts []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		host := strings.TrimSpace(scanner.Text())
		if host == "" {
			continue
		}
		hosts = append(hosts, host)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input file: %w", err)
	}
	return hosts, nil
}

func portList(ports []int) string {
	parts := make([]string, len(ports))
	for i, p := range ports {
		parts[i] = fmt.Sprintf("%d", p)
	}
	return strings.Join(parts, ", ")
}

func statusLine(s scan.Snapshot, screenshots bool) string {
	line := fmt.Sprintf("%s  |  %s  |  %s",
		status.White.Sprintf("Scanning: %d/%d", s.Scanned, s.Total),
		status.Green.Sprintf("Live web servers: %d", s.Found),
		status.Yellow.Sprintf("Internal IPs: %d", s.Internal),
	)
	if screenshots {
		line += "  |  " + status.Magenta.Sprintf("Screenshots: %d", s.Screenshots)
	}
	return line
}

// writeResults persists every requested output file. The internal-hosts
// file only appears when something resolved to a private address; the
// optional files only when their flag was given.
func writeResults(cfg *config.Config, layout output.Layout, agg *scan.Aggregate) error {
	live := agg.Live()
	lines := make([]string, len(live))
	for i, h := range live {
		lines[i] = output.LiveLine(h)
	}
	if err := output.WriteLines(layout.Live, lines); err != nil {
		return err
	}

	if internal := agg.Internal(); len(internal) > 0 {
		lines := make([]string, len(internal))
		for i, h := range internal {
			lines[i] = output.InternalLine(h)
		}
		if err := output.WriteLines(layout.Internal, lines); err != nil {
			return err
		}
	}

	fetches := agg.Fetches()

	if layout.Titles != "" {
		lines := make([]string, len(fetches))
		for i, r := range fetches {
			lines[i] = output.TitleLine(r)
		}
		if err := output.WriteLines(layout.Titles, lines); err != nil {
			return err
		}
	}

	if layout.Fingerprints != "" {
		lines := make([]string, len(fetches))
		for i, r := range fetches {
			lines[i] = output.FingerprintLine(r)
		}
		if err := output.WriteLines(layout.Fingerprints, lines); err != nil {
			return err
		}
	}

	if cfg.TechDetect {
		var lines []string
		for _, r := range fetches {
			if len(r.Technologies) == 0 {
				continue
			}
			lines = append(lines, output.TechLine(r))
		}
		if err := output.WriteLines(layout.Tech, lines); err != nil {
			return err
		}
	}

	if layout.JSON != "" {
		records := make([]output.Record, len(fetches))
		for i, r := range fetches {
			records[i] = output.NewRecord(r)
		}
		if err := output.WriteRecords(layout.JSON, records); err != nil {
			return err
		}
	}

	return nil
}

func printSummary(p *status.Printer, s scan.Snapshot, layout output.Layout, interrupted bool) {
	p.Line("")
	if interrupted {
		p.Linef(status.Red, "Interrupted: scanned %d/%d hosts, partial results written", s.Scanned, s.Total)
	} else {
		p.Linef(status.Green, "Scan complete: %d hosts scanned", s.Scanned)
	}
	p.Linef(status.Green, "Live web servers: %d → %s", s.Found, layout.Live)
	if s.Internal > 0 {
		p.Linef(status.Yellow, "Internal IPs: %d → %s", s.Internal, layout.Internal)
	}
	if s.Screenshots > 0 {
		p.Linef(status.Magenta, "Screenshots: %d → %s/", s.Screenshots, layout.ScreenshotsDir)
	}
}
