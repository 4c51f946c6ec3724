package scan

import (
	"context"
	"net"
	"sort"
	"strconv"
	"time"
)

// DefaultConnectTimeout is the per-port TCP connect timeout.
const DefaultConnectTimeout = 2 * time.Second

// PortProber performs single-attempt TCP connect probes.
type PortProber struct {
	Timeout time.Duration
}

// NewPortProber returns a prober with the default connect timeout.
func NewPortProber() *PortProber {
	return &PortProber{Timeout: DefaultConnectTimeout}
}

// Probe attempts one TCP connect to host:port. Any error (timeout, refused,
// unreachable, unresolvable) is returned as a StageError of kind
// FailureConnect; there are no retries.
func (p *PortProber) Probe(ctx context.Context, host string, port int) error {
	dialer := net.Dialer{Timeout: p.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return &StageError{Kind: FailureConnect, Err: err}
	}
	conn.Close()
	return nil
}

// Scan probes every port in WebPorts in list order, stopping early only on
// cancellation. A connect failure means closed and only skips that port.
// The returned set is sorted ascending.
func (p *PortProber) Scan(ctx context.Context, host string) []int {
	var open []int
	for _, port := range WebPorts {
		if ctx.Err() != nil {
			break
		}
		if err := p.Probe(ctx, host, port); err == nil {
			open = append(open, port)
		}
	}
	sort.Ints(open)
	return open
}
