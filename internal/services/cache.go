package services

import (
	"context"
	"log/slog"
	"time"

	"checkintracker/internal/domain"
)

// CacheTTLs holds the lifetime of each cached collection.
type CacheTTLs struct {
	TicketTypes time.Duration
	Tickets     time.Duration
	Status      time.Duration
}

// DefaultCacheTTLs returns 60s for the catalog lists and 30s for participant statuses.
func DefaultCacheTTLs() CacheTTLs {
	return CacheTTLs{
		TicketTypes: 60 * time.Second,
		Tickets:     60 * time.Second,
		Status:      30 * time.Second,
	}
}

// statusKey is the per-ticket status key. It shares the snapshot prefix so
// invalidating the snapshot drops every per-ticket entry too.
func statusKey(ticketID string) string {
	return domain.CacheKeyParticipantsStatus + ":" + ticketID
}

// readThrough returns the cached value under key or loads, stores and returns it.
// Cache failures degrade to a store read.
func readThrough[T any](ctx context.Context, c domain.Cache, logger *slog.Logger, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var cached T
	hit, err := c.Get(ctx, key, &cached)
	if err != nil {
		logger.Warn("cache read failed", "key", key, "error", err)
	} else if hit {
		return cached, nil
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	if err := c.Set(ctx, key, v, ttl); err != nil {
		logger.Warn("cache write failed", "key", key, "error", err)
	}
	return v, nil
}

// invalidate drops every key under the given prefixes. It runs before a mutating
// call returns so the next read in this process sees the write.
func invalidate(ctx context.Context, c domain.Cache, logger *slog.Logger, prefixes ...string) {
	for _, p := range prefixes {
		if err := c.Invalidate(ctx, p); err != nil {
			logger.Error("cache invalidation failed", "prefix", p, "error", err)
		}
	}
}

// publish sends a notification; failures are logged and never returned.
func publish(ctx context.Context, p domain.EventPublisher, logger *slog.Logger, n *domain.Notification) {
	if err := p.Publish(ctx, n); err != nil {
		logger.Error("publish notification failed", "type", n.Type, "key", n.Key, "error", err)
	}
}
