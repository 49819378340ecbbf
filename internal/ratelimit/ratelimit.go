package ratelimit

import (
	"math"
	"sync"
	"time"
)

// Limiter decides if a request from key should be allowed.
// Allow returns (allowed, retryAfterSeconds). When allowed is false, retryAfterSeconds
// may be set for the Retry-After response header (0 = omit).
type Limiter interface {
	Allow(key string) (allowed bool, retryAfterSec int)
}

// Noop allows all requests.
type Noop struct{}

func (Noop) Allow(key string) (bool, int) { return true, 0 }

// TokenBucket meters each key at burst requests per window, refilling
// continuously. A client that paces itself never sees a rejection; a spike
// is absorbed up to the bucket size and then throttled to the refill rate.
// Burst is sized per surface: room creation gets a small bucket, chat a
// generous one. Single instance only.
type TokenBucket struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	burst   float64
	rate    float64 // tokens per second
	nowFunc func() time.Time
	sweepAt time.Time
}

type bucket struct {
	tokens float64
	last   time.Time
}

// NewTokenBucket allows bursts of up to burst requests per key, refilled
// evenly over window.
func NewTokenBucket(burst int, window time.Duration) *TokenBucket {
	return &TokenBucket{
		buckets: make(map[string]*bucket),
		burst:   float64(burst),
		rate:    float64(burst) / window.Seconds(),
		nowFunc: time.Now,
	}
}

func (r *TokenBucket) Allow(key string) (allowed bool, retryAfterSec int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.nowFunc()
	r.sweep(now)

	b, ok := r.buckets[key]
	if !ok {
		b = &bucket{tokens: r.burst, last: now}
		r.buckets[key] = b
	}
	b.tokens = math.Min(r.burst, b.tokens+now.Sub(b.last).Seconds()*r.rate)
	b.last = now

	if b.tokens >= 1 {
		b.tokens--
		return true, 0
	}
	wait := (1 - b.tokens) / r.rate
	return false, int(math.Ceil(wait))
}

// sweep drops buckets that have refilled to full, at most once per refill
// period, so idle keys don't accumulate. Caller holds the lock.
func (r *TokenBucket) sweep(now time.Time) {
	if now.Before(r.sweepAt) {
		return
	}
	period := time.Duration(r.burst / r.rate * float64(time.Second))
	r.sweepAt = now.Add(period)
	for key, b := range r.buckets {
		if b.tokens+now.Sub(b.last).Seconds()*r.rate >= r.burst {
			delete(r.buckets, key)
		}
	}
}
