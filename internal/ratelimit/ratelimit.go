package ratelimit

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/keithlinneman/assetserve/internal/httpmw"
)

// visitor is the per-IP state: a token bucket plus enough bookkeeping for
// eviction and one-shot logging.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
	// logged marks that the first-denial callback already fired for this
	// entry. It resets naturally when the entry is evicted and re-created.
	logged bool
}

// IPLimiter maintains a token bucket per client IP and evicts idle buckets
// in the background.
type IPLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor

	perSecond rate.Limit
	burst     int

	// maxVisitors bounds the map so an address-rotating client cannot grow
	// it without limit. Requests beyond the cap are allowed through
	// unlimited rather than denied, since denying unknown IPs wholesale
	// would turn the cap into a self-inflicted outage.
	maxVisitors int

	// ttl is how long an idle IP survives in the map before eviction.
	ttl time.Duration

	// OnFirstDenied fires once per visitor on their first denial. Meant for
	// logging, so a single offender produces one line instead of a flood.
	OnFirstDenied func(ip string)

	// OnDenied fires on every denied request. Meant for counters.
	OnDenied func(ip string)

	// OnCapacity fires when a new visitor cannot be tracked because the map
	// is at maxVisitors.
	OnCapacity func()
}

type Option func(*IPLimiter)

// WithRate sets the refill rate and the bucket capacity. WithRate(10, 50)
// admits a burst of 50 requests, then refills at 10 tokens per second.
func WithRate(perSecond float64, burst int) Option {
	return func(l *IPLimiter) {
		l.perSecond = rate.Limit(perSecond)
		l.burst = burst
	}
}

// WithTTL sets how long an idle IP stays tracked before eviction.
func WithTTL(d time.Duration) Option {
	return func(l *IPLimiter) {
		l.ttl = d
	}
}

// WithMaxVisitors bounds the number of concurrently tracked IPs.
func WithMaxVisitors(n int) Option {
	return func(l *IPLimiter) {
		l.maxVisitors = n
	}
}

// WithOnFirstDenied sets the once-per-visitor denial callback.
func WithOnFirstDenied(fn func(ip string)) Option {
	return func(l *IPLimiter) {
		l.OnFirstDenied = fn
	}
}

// WithOnDenied sets the every-denial callback.
func WithOnDenied(fn func(ip string)) Option {
	return func(l *IPLimiter) {
		l.OnDenied = fn
	}
}

// WithOnCapacity sets the tracking-capacity-reached callback.
func WithOnCapacity(fn func()) Option {
	return func(l *IPLimiter) {
		l.OnCapacity = fn
	}
}

// New builds an IPLimiter and starts its eviction goroutine. The goroutine
// exits when ctx is cancelled, which the caller ties to process shutdown.
func New(ctx context.Context, opts ...Option) *IPLimiter {
	l := &IPLimiter{
		visitors:    make(map[string]*visitor),
		perSecond:   10,
		burst:       30,
		maxVisitors: 10000,
		ttl:         5 * time.Minute,
	}
	for _, o := range opts {
		o(l)
	}
	go l.evictLoop(ctx)
	return l
}

// allow reports whether a request from ip may proceed, creating the visitor
// entry on first sight. Callbacks run outside the lock because they may do
// slow work (logging) and must not stall other requests.
func (l *IPLimiter) allow(ip string) bool {
	l.mu.Lock()
	v, tracked := l.visitors[ip]
	if !tracked {
		if len(l.visitors) >= l.maxVisitors {
			l.mu.Unlock()
			if l.OnCapacity != nil {
				l.OnCapacity()
			}
			return true
		}
		v = &visitor{limiter: rate.NewLimiter(l.perSecond, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	allowed := v.limiter.Allow()

	firstDenial := !allowed && !v.logged
	if firstDenial {
		v.logged = true
	}
	l.mu.Unlock()

	if firstDenial && l.OnFirstDenied != nil {
		l.OnFirstDenied(ip)
	}
	if !allowed && l.OnDenied != nil {
		l.OnDenied(ip)
	}
	return allowed
}

// evictLoop drops visitors idle longer than the TTL. It ticks at ttl/2 so a
// stale entry lives at most 1.5x the TTL.
func (l *IPLimiter) evictLoop(ctx context.Context) {
	ticker := time.NewTicker(l.ttl / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.mu.Lock()
			for ip, v := range l.visitors {
				if now.Sub(v.lastSeen) > l.ttl {
					delete(l.visitors, ip)
				}
			}
			l.mu.Unlock()
		}
	}
}

// Middleware rejects over-limit requests with 429. The client IP comes from
// the upstream ClientIP middleware, which already handled proxy headers.
func (l *IPLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := httpmw.ClientIPFromContext(r.Context())

		if !l.allow(ip) {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.Header().Set("Retry-After", "30")
			w.WriteHeader(http.StatusTooManyRequests)
			// no limit or refill detail in the body, that information only
			// helps an abuser tune their rate
			w.Write([]byte(`{"error":"too many requests"}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}
