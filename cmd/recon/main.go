// Command recon pulls every known host for a domain or IP from the
// ip.thc.org API into a newline-delimited file, pacing itself from the
// rate-limit hints the API reports. Interrupted runs resume where they
// stopped.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dawgyg/bugbounty-tools/internal/recon"
	"github.com/dawgyg/bugbounty-tools/internal/status"
	"github.com/dawgyg/bugbounty-tools/pkg/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		outFile     string
		debug       bool
		showVersion bool
	)
	flag.StringVar(&outFile, "o", "", "output file for discovered hosts (required)")
	flag.StringVar(&outFile, "output", "", "output file for discovered hosts (required)")
	flag.BoolVar(&debug, "d", false, "enable debug logging")
	flag.BoolVar(&showVersion, "v", false, "print version and exit")
	flag.Usage = usage
	flag.Parse()

	if showVersion {
		fmt.Println(version.GetVersion("recon"))
		return 0
	}

	if flag.NArg() != 1 || outFile == "" {
		usage()
		return 1
	}
	target := flag.Arg(0)

	logLevel := slog.LevelWarn
	if debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	printer := status.New()
	printer.Banner("THC Recon")
	printer.Linef(status.White, "Target: %s", target)
	printer.Linef(status.Gray, "Output: %s", outFile)
	printer.Line("")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := recon.NewClient(logger)
	prog, err := client.FetchAll(ctx, target, outFile, func(p recon.Progress) {
		printer.Status(progressLine(p))
	})
	printer.Done()

	if err != nil {
		if ctx.Err() != nil {
			printer.Line("")
			printer.Linef(status.Red, "Interrupted: %d entries written to %s", prog.Fetched, outFile)
			printer.Linef(status.Yellow, "Run again with the same output file to resume")
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	printer.Line("")
	printer.Line(strings.Repeat("=", 80))
	printer.Linef(status.Green, "Done: %d entries for %s → %s", prog.Fetched, target, outFile)
	printer.Linef(status.Gray, "Requests: %d, errors: %d", prog.Requests, prog.Errors)
	printer.Line(strings.Repeat("=", 80))
	return 0
}

func progressLine(p recon.Progress) string {
	total := "?"
	if p.Total >= 0 {
		total = fmt.Sprintf("%d", p.Total)
	}
	rate := "?"
	if p.RateRemaining >= 0 {
		rate = fmt.Sprintf("%d", p.RateRemaining)
	}
	return fmt.Sprintf("%s  |  %s  |  %s  |  %s",
		status.White.Sprintf("Target: %s", p.Target),
		status.Green.Sprintf("Fetched: %d/%s", p.Fetched, total),
		status.Yellow.Sprintf("Rate limit: %s", rate),
		status.Gray.Sprintf("Requests: %d", p.Requests),
	)
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: recon [options] <domain-or-ip>

Fetches all known hosts for the target from ip.thc.org.

Options:
  -o, --output FILE   output file for discovered hosts (required)
  -d                  enable debug logging
  -v                  print version and exit
`)
}
