package crawl

import (
	"context"
	"sync"

	"github.com/civicmeet/civicmeet"
	"golang.org/x/time/rate"
)

var _ civicmeet.DomainLimiter = (*DomainLimiter)(nil)

// DefaultRPS paces politely against small municipal portals: roughly one
// request every 300ms per host.
const DefaultRPS = 3.0

// DomainLimiter enforces per-host request pacing with token buckets. Each
// host gets its own limiter with a burst of 1, so concurrent enrichment
// workers never hammer a single portal while still fanning out across
// hosts.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
}

// NewDomainLimiter creates a limiter allowing rps requests per second to
// each host.
func NewDomainLimiter(rps float64) *DomainLimiter {
	if rps <= 0 {
		rps = DefaultRPS
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
	}
}

// Wait blocks until the rate limit allows a request to the domain, or the
// context is canceled.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(d.rps), 1)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}
