package scan

import (
	"context"
	"fmt"
	"net"

	"golang.org/x/net/idna"
)

// Resolver resolves a hostname to its first IPv4 address. Implementations
// must honor context cancellation; the pipeline checks the context before
// every blocking call.
type Resolver interface {
	Resolve(ctx context.Context, host string) (string, error)
}

// NetResolver resolves hostnames through the system resolver, normalizing
// internationalized names to punycode first.
type NetResolver struct {
	resolver *net.Resolver
}

// NewNetResolver returns a resolver backed by net.DefaultResolver.
func NewNetResolver() *NetResolver {
	return &NetResolver{resolver: net.DefaultResolver}
}

// Resolve returns the first IPv4 address for host, or a StageError of kind
// FailureResolution.
func (r *NetResolver) Resolve(ctx context.Context, host string) (string, error) {
	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		// Not a valid IDN; try the raw name as given
		ascii = host
	}

	ips, err := r.resolver.LookupIP(ctx, "ip4", ascii)
	if err != nil {
		return "", &StageError{Kind: FailureResolution, Err: err}
	}
	if len(ips) == 0 {
		return "", &StageError{Kind: FailureResolution, Err: fmt.Errorf("no IPv4 address for %s", host)}
	}
	return ips[0].String(), nil
}
