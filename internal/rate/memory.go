package rate

import (
	"context"
	"math"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	xrate "golang.org/x/time/rate"
)

// MemoryLimiter es un token bucket por clave: ráfaga de Max y recarga de
// Max tokens por Window. Los buckets inactivos se descartan vía go-cache.
type MemoryLimiter struct {
	max     int
	window  time.Duration
	every   xrate.Limit
	mu      sync.Mutex
	buckets *gocache.Cache
	now     func() time.Time
}

// NewMemoryLimiter crea el limiter. Un bucket sin uso por 2*window se libera.
func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		max:     max,
		window:  window,
		every:   xrate.Every(window / time.Duration(max)),
		buckets: gocache.New(2*window, window),
		now:     time.Now,
	}
}

func (l *MemoryLimiter) bucket(key string) *xrate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if v, ok := l.buckets.Get(key); ok {
		lim := v.(*xrate.Limiter)
		l.buckets.SetDefault(key, lim) // renueva el TTL de inactividad
		return lim
	}
	lim := xrate.NewLimiter(l.every, l.max)
	l.buckets.SetDefault(key, lim)
	return lim
}

func (l *MemoryLimiter) Allow(ctx context.Context, key string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	lim := l.bucket(key)
	now := l.now()

	r := lim.ReserveN(now, 1)
	delay := r.DelayFrom(now)
	if delay > 0 {
		r.CancelAt(now)
		tokens := lim.TokensAt(now)
		return Result{
			Allowed:     false,
			Remaining:   0,
			RetryAfter:  delay,
			WindowTTL:   l.window,
			CurrentHits: int64(l.max) + 1 - int64(math.Max(0, math.Floor(tokens))),
		}, nil
	}

	remaining := int64(math.Floor(lim.TokensAt(now)))
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:     true,
		Remaining:   remaining,
		WindowTTL:   l.window,
		CurrentHits: int64(l.max) - remaining,
	}, nil
}
