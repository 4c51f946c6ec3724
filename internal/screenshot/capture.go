// Package screenshot captures full-page images of discovered web servers
// through headless Chrome. Each capture runs in its own isolated browser
// session; a semaphore bounds how many sessions exist at once so high
// worker counts cannot exhaust the machine.
package screenshot

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/dawgyg/bugbounty-tools/internal/scan"
)

const (
	// DefaultTimeout bounds navigation plus capture per page.
	DefaultTimeout = 15 * time.Second

	// DefaultParallel is the default cap on concurrent browser sessions.
	DefaultParallel = 4

	screenshotQuality = 90
)

// Capturer implements scan.Capturer using chromedp.
type Capturer struct {
	dir     string
	timeout time.Duration
	sem     chan struct{}
	log     *slog.Logger
}

// New returns a Capturer writing <host>.<port>.png files into dir, with at
// most parallel browser sessions alive at any time.
func New(dir string, parallel int, logger *slog.Logger) *Capturer {
	if parallel <= 0 {
		parallel = DefaultParallel
	}
	return &Capturer{
		dir:     dir,
		timeout: DefaultTimeout,
		sem:     make(chan struct{}, parallel),
		log:     logger,
	}
}

// Capture navigates to the root page of host:port, waits for the network
// to go idle, and persists a full-page PNG. Failures leave no guarantee of
// a partial file and never affect other stages.
func (c *Capturer) Capture(ctx context.Context, host string, port int) error {
	select {
	case c.sem <- struct{}{}:
	case <-ctx.Done():
		return &scan.StageError{Kind: scan.FailureCapture, Err: ctx.Err()}
	}
	defer func() { <-c.sem }()

	url := fmt.Sprintf("%s://%s:%d/", scan.SchemeForPort(port), host, port)
	filename := filepath.Join(c.dir, fmt.Sprintf("%s.%d.png", host, port))

	data, err := c.capture(ctx, url)
	if err != nil {
		return &scan.StageError{Kind: scan.FailureCapture, Err: err}
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return &scan.StageError{Kind: scan.FailureCapture, Err: err}
	}

	c.log.Debug("screenshot saved", "file", filename)
	return nil
}

func (c *Capturer) capture(ctx context.Context, url string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.Flag("ignore-certificate-errors", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1920, 1080),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, c.timeout)
	defer cancelTimeout()

	idle := trackNetworkIdle(browserCtx)

	var buf []byte
	err := chromedp.Run(browserCtx,
		network.Enable(),
		chromedp.Navigate(url),
		idle.Wait(defaultQuietWindow),
		chromedp.FullScreenshot(&buf, screenshotQuality),
	)
	if err != nil {
		return nil, err
	}
	return buf, nil
}
