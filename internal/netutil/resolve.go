package netutil

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"slices"

	"golang.org/x/sync/errgroup"
)

// maxConcurrentLookups bounds the number of in-flight DNS queries.
const maxConcurrentLookups = 8

// Resolver looks up the addresses of a host. *net.Resolver satisfies it.
type Resolver interface {
	LookupNetIP(ctx context.Context, network, host string) ([]netip.Addr, error)
}

// DefaultResolver is the system resolver.
var DefaultResolver Resolver = net.DefaultResolver

// ResolveHosts resolves every host to its IPv4 addresses. The result is
// de-duplicated and sorted. Any failed lookup fails the whole call.
func ResolveHosts(ctx context.Context, r Resolver, hosts []string) ([]netip.Addr, error) {
	results := make([][]netip.Addr, len(hosts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)
	for i, host := range hosts {
		g.Go(func() error {
			addrs, err := r.LookupNetIP(ctx, "ip4", host)
			if err != nil {
				return fmt.Errorf("resolving %s: %w", host, err)
			}
			results[i] = addrs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []netip.Addr
	for _, addrs := range results {
		for _, a := range addrs {
			a = a.Unmap()
			if a.Is4() {
				all = append(all, a)
			}
		}
	}
	slices.SortFunc(all, netip.Addr.Compare)
	return slices.Compact(all), nil
}
