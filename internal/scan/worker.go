package scan

import (
	"context"
	"sync"
)

// DefaultWorkers is the default worker pool size.
const DefaultWorkers = 100

// Pool fans targets out to a fixed number of workers, each running the
// host pipeline. Run blocks until every worker exits: either the queue is
// drained or the context is cancelled, whichever comes first. Results
// aggregated before cancellation stay intact.
type Pool struct {
	Workers  int
	Pipeline *Pipeline
}

// Run scans all hosts and returns when the pool has fully stopped.
func (p *Pool) Run(ctx context.Context, hosts []string) {
	workers := p.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	queue := make(chan string, len(hosts))
	for _, host := range hosts {
		queue <- host
	}
	close(queue)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for host := range queue {
				select {
				case <-ctx.Done():
					return
				default:
				}
				p.Pipeline.RunHost(ctx, host)
			}
		}()
	}
	wg.Wait()
}
