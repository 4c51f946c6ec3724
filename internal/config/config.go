// Package config holds the livecheck CLI configuration and its grouped
// flag registration.
package config

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/dawgyg/bugbounty-tools/pkg/version"
)

// Config holds the livecheck CLI configuration.
type Config struct {
	InputFile       string // newline-delimited hostnames, required
	OutputFile      string // base name for the live-hosts file, required
	TitlesFile      string // optional page-titles output
	FingerprintFile string // optional server-fingerprints output
	JSONFile        string // optional JSON-lines output
	TechDetect      bool   // wappalyzer technology detection
	Screenshots     bool   // capture screenshots of open web servers

	Threads            int // worker pool size
	ScreenshotParallel int // cap on concurrent browser sessions

	Debug   bool
	Silent  bool
	Version bool

	Logger *slog.Logger
}

// New creates a Config with default values.
func New() *Config {
	return &Config{
		Threads:            100,
		ScreenshotParallel: 4,
	}
}

// ParseFlags parses command-line flags into a validated Config.
func ParseFlags() (*Config, error) {
	cfg := New()

	formatter := RegisterFlags(cfg)
	flag.Usage = func() {
		formatter.PrintUsage(os.Stderr)
	}

	flag.Parse()

	if cfg.Version {
		fmt.Println(version.GetVersion("livecheck"))
		os.Exit(0)
	}

	if cfg.InputFile == "" {
		return nil, fmt.Errorf("-i/--input is required")
	}
	if cfg.OutputFile == "" {
		return nil, fmt.Errorf("-o/--output is required")
	}
	if cfg.Threads < 1 {
		return nil, fmt.Errorf("--threads must be at least 1")
	}

	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}
	if cfg.Silent {
		logLevel = slog.LevelError
	}
	cfg.Logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	return cfg, nil
}
