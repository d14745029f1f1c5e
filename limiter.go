package portfolio

import (
	"sync"
	"time"
)

// Limiter rate-limits an action per client IP over a sliding window.
type Limiter struct {
	mu     sync.Mutex
	hits   map[string][]time.Time
	max    int
	window time.Duration
	now    func() time.Time
	stop   chan struct{}
	once   sync.Once
}

// NewLimiter creates a Limiter that allows max hits per window and starts
// a background sweep of idle IPs. Call Stop to end it.
func NewLimiter(max int, window time.Duration) *Limiter {
	l := &Limiter{
		hits:   make(map[string][]time.Time),
		max:    max,
		window: window,
		now:    time.Now,
		stop:   make(chan struct{}),
	}
	go l.cleanup()
	return l
}

func (l *Limiter) cleanup() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			cutoff := l.now().Add(-l.window)
			l.mu.Lock()
			for ip := range l.hits {
				if kept := l.prune(ip, cutoff); len(kept) == 0 {
					delete(l.hits, ip)
				}
			}
			l.mu.Unlock()
		}
	}
}

// prune drops hits older than cutoff. Callers hold l.mu.
func (l *Limiter) prune(ip string, cutoff time.Time) []time.Time {
	hits := l.hits[ip]
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	l.hits[ip] = kept
	return kept
}

// Stop ends the background sweep. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}

// Allow checks the limit and records a hit when allowed.
func (l *Limiter) Allow(ip string) bool {
	_, ok := l.Reserve(ip)
	return ok
}

// Reserve checks the limit and takes a slot for ip under one lock. The
// returned release gives the slot back when the action did not happen;
// calls after the first do nothing.
func (l *Limiter) Reserve(ip string) (release func(), ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if kept := l.prune(ip, now.Add(-l.window)); len(kept) >= l.max {
		return func() {}, false
	}
	l.hits[ip] = append(l.hits[ip], now)

	var once sync.Once
	return func() {
		once.Do(func() { l.unrecord(ip, now) })
	}, true
}

// unrecord removes one hit at t for ip.
func (l *Limiter) unrecord(ip string, t time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	hits := l.hits[ip]
	for i, h := range hits {
		if h.Equal(t) {
			l.hits[ip] = append(hits[:i], hits[i+1:]...)
			break
		}
	}
	if len(l.hits[ip]) == 0 {
		delete(l.hits, ip)
	}
}

// Retry returns how long ip must wait before its oldest hit leaves the
// window, or zero when it is under the limit.
func (l *Limiter) Retry(ip string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	kept := l.prune(ip, now.Add(-l.window))
	if len(kept) < l.max {
		return 0
	}
	return kept[0].Add(l.window).Sub(now)
}
