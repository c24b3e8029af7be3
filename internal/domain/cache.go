package domain

import (
	"context"
	"time"
)

// Cache keys used by the services. Invalidation matches by prefix.
const (
	CacheKeyTicketTypes        = "ticket_types"
	CacheKeyTickets            = "tickets"
	CacheKeyParticipantsStatus = "participants_status"
)

// Cache is a short-TTL read-through store. Values are encoded by the implementation;
// Get decodes into dest and reports whether a live entry was found.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Invalidate(ctx context.Context, keyPrefix string) error
}
