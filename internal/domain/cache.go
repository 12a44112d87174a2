package domain

import (
	"context"
	"errors"
)

// ErrCacheMiss is returned by EventViewCache.Get when no entry exists.
var ErrCacheMiss = errors.New("cache miss")

// EventViewCache caches the assembled event view (event + RSVPs + counts)
// served to the public event page. Every RSVP write for an event must
// invalidate its entry so subsequent reads reflect the change; entries also
// carry a TTL as a backstop. The cache is a read accelerator only; the
// repositories remain the source of truth.
type EventViewCache interface {
	Get(ctx context.Context, eventID string) (*EventWithRsvps, error)
	Set(ctx context.Context, eventID string, view *EventWithRsvps) error
	Invalidate(ctx context.Context, eventID string) error
}
