package calls

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Info is what the registry knows about one call. Observational only:
// no dialog state is carried between turns.
type Info struct {
	FirstSeen    time.Time
	LastActivity time.Time
	Turns        int
}

// Registry tracks call activity in memory with a best-effort Redis
// mirror for operator tooling. Redis being unreachable never blocks
// call handling.
type Registry struct {
	mu    sync.RWMutex
	calls map[string]*Info
	redis *redis.Client
	ttl   time.Duration
	log   zerolog.Logger
}

// NewRegistry connects to Redis when a URL is given, degrading to
// in-memory tracking if the connection fails.
func NewRegistry(redisURL, redisPassword string, ttl time.Duration, log zerolog.Logger) *Registry {
	l := log.With().Str("component", "calls").Logger()

	var client *redis.Client
	if redisURL != "" {
		client = redis.NewClient(&redis.Options{
			Addr:     redisURL,
			Password: redisPassword,
			DB:       0,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			l.Warn().Err(err).Msg("redis unreachable, call registry runs in-memory only")
			client = nil
		}
	}

	return &Registry{
		calls: make(map[string]*Info),
		redis: client,
		ttl:   ttl,
		log:   l,
	}
}

// Touch records one turn of activity for a call sid.
func (r *Registry) Touch(ctx context.Context, sid string) {
	now := time.Now()

	r.mu.Lock()
	info, ok := r.calls[sid]
	if !ok {
		info = &Info{FirstSeen: now}
		r.calls[sid] = info
	}
	info.LastActivity = now
	info.Turns++
	turns := info.Turns
	r.mu.Unlock()

	if r.redis != nil {
		r.redis.HSet(ctx, "call:"+sid, map[string]interface{}{
			"last_activity": now.Format(time.RFC3339),
			"turns":         turns,
		})
		r.redis.SAdd(ctx, "active_calls", sid)
		r.redis.Expire(ctx, "call:"+sid, r.ttl)
	}
}

// ActiveCalls returns how many calls are currently tracked.
func (r *Registry) ActiveCalls() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.calls)
}

// Expire drops entries idle past the TTL.
func (r *Registry) Expire(ctx context.Context) {
	now := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()
	for sid, info := range r.calls {
		if now.Sub(info.LastActivity) > r.ttl {
			delete(r.calls, sid)
			if r.redis != nil {
				r.redis.Del(ctx, "call:"+sid)
				r.redis.SRem(ctx, "active_calls", sid)
			}
		}
	}
}

// StartExpiry runs Expire once a minute until ctx is cancelled.
func (r *Registry) StartExpiry(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Expire(ctx)
		}
	}
}

// Close releases the Redis connection if one was established.
func (r *Registry) Close() {
	if r.redis != nil {
		_ = r.redis.Close()
	}
}
