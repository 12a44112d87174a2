package services

import (
	"context"
	"errors"
	"fmt"

	"rsvphub/internal/domain"
)

// authorizeEventMutation loads the event and allows the mutation only when
// userID is its owner. Returns ErrNotFound for unknown events and
// ErrForbidden on owner mismatch, so callers can map to 404 vs 403.
// Public RSVP submission does not go through here; it is open to anyone.
func authorizeEventMutation(ctx context.Context, events domain.EventRepository, eventID, userID string) (*domain.Event, error) {
	event, err := events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.OwnerID != userID {
		return nil, domain.ErrForbidden
	}
	return event, nil
}
