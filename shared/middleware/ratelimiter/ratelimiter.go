package ratelimiter

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type entry struct {
	limiter *rate.Limiter
	timer   *time.Timer
}

// Pool hands out one token bucket per identity. Idle buckets are dropped
// after expiration so the map does not grow with every visitor.
type Pool struct {
	mu             sync.Mutex
	limiters       map[string]*entry
	rps            rate.Limit
	burst          int
	expirationTime time.Duration
}

func New(rps float64, burst int, expirationTime time.Duration) *Pool {
	if rps <= 0 {
		rps = 5
	}
	if burst <= 0 {
		burst = 10
	}
	return &Pool{
		limiters:       make(map[string]*entry),
		rps:            rate.Limit(rps),
		burst:          burst,
		expirationTime: expirationTime,
	}
}

func (p *Pool) get(key string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	e, ok := p.limiters[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(p.rps, p.burst)}
		p.limiters[key] = e
	}
	if p.expirationTime > 0 {
		if e.timer != nil {
			e.timer.Stop()
		}
		e.timer = time.AfterFunc(p.expirationTime, func() { p.cleanup(key, e) })
	}
	return e.limiter
}

func (p *Pool) cleanup(key string, e *entry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	// a newer entry may have replaced e
	if cur, ok := p.limiters[key]; ok && cur == e {
		delete(p.limiters, key)
	}
}

// Allow reports whether key may make a request now.
func (p *Pool) Allow(key string) bool {
	return p.get(key).Allow()
}

// Len is the number of tracked identities.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.limiters)
}

// Stop cancels all expiration timers.
func (p *Pool) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, e := range p.limiters {
		if e.timer != nil {
			e.timer.Stop()
		}
	}
}
