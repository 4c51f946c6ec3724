package screenshot

import (
	"context"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

const (
	// defaultQuietWindow is how long the network must stay quiet before a
	// page counts as idle, mirroring browser-automation networkidle
	// semantics.
	defaultQuietWindow = 500 * time.Millisecond

	idlePollInterval = 100 * time.Millisecond
)

// idleTracker watches CDP network events and reports when no requests
// have been in flight for a quiet window.
type idleTracker struct {
	mu       sync.Mutex
	inflight map[network.RequestID]struct{}
	last     time.Time
}

// trackNetworkIdle attaches an event listener to the browser context.
// It must be installed before navigation starts.
func trackNetworkIdle(ctx context.Context) *idleTracker {
	t := &idleTracker{
		inflight: make(map[network.RequestID]struct{}),
		last:     time.Now(),
	}

	chromedp.ListenTarget(ctx, func(ev interface{}) {
		switch e := ev.(type) {
		case *network.EventRequestWillBeSent:
			t.touch(func() { t.inflight[e.RequestID] = struct{}{} })
		case *network.EventLoadingFinished:
			t.touch(func() { delete(t.inflight, e.RequestID) })
		case *network.EventLoadingFailed:
			t.touch(func() { delete(t.inflight, e.RequestID) })
		}
	})

	return t
}

func (t *idleTracker) touch(update func()) {
	t.mu.Lock()
	update()
	t.last = time.Now()
	t.mu.Unlock()
}

// Wait returns an action that blocks until the network has been idle for
// quiet, or the context (and with it the capture timeout) expires.
func (t *idleTracker) Wait(quiet time.Duration) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		ticker := time.NewTicker(idlePollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				t.mu.Lock()
				idle := len(t.inflight) == 0 && time.Since(t.last) >= quiet
				t.mu.Unlock()
				if idle {
					return nil
				}
			}
		}
	})
}
