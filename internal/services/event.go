package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"rsvphub/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	rsvpRepo       domain.RsvpRepository
	viewCache      domain.EventViewCache
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewEventService creates an EventService with the given repositories and
// optional view cache.
func NewEventService(
	eventRepo domain.EventRepository,
	rsvpRepo domain.RsvpRepository,
	viewCache domain.EventViewCache,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		rsvpRepo:       rsvpRepo,
		viewCache:      viewCache,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if event.OwnerID == "" {
		return fmt.Errorf("event owner is required")
	}
	if strings.TrimSpace(event.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if event.EventDate.IsZero() {
		return fmt.Errorf("%w: event_date is required", domain.ErrInvalidInput)
	}

	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()

	return s.eventRepo.Create(ctx, event)
}

func (s *eventService) GetEventWithRsvps(ctx context.Context, eventID string) (*domain.EventWithRsvps, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if s.viewCache != nil {
		if view, err := s.viewCache.Get(ctx, eventID); err == nil {
			return view, nil
		} else if !errors.Is(err, domain.ErrCacheMiss) {
			s.logger.Warn("event view cache read failed", "event_id", eventID, "err", err)
		}
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	rsvps, err := s.rsvpRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list rsvps: %w", err)
	}
	if rsvps == nil {
		rsvps = []*domain.Rsvp{}
	}

	view := &domain.EventWithRsvps{
		Event:  event,
		Rsvps:  rsvps,
		Counts: domain.CountResponses(rsvps),
	}

	if s.viewCache != nil {
		if err := s.viewCache.Set(ctx, eventID, view); err != nil {
			s.logger.Warn("event view cache write failed", "event_id", eventID, "err", err)
		}
	}

	return view, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, eventID, ownerID string, upd domain.EventUpdate) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := authorizeEventMutation(ctx, s.eventRepo, eventID, ownerID); err != nil {
		return nil, err
	}
	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", domain.ErrInvalidInput)
	}

	updated, err := s.eventRepo.Update(ctx, eventID, upd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}

	if s.viewCache != nil {
		if err := s.viewCache.Invalidate(ctx, eventID); err != nil {
			s.logger.Warn("event view invalidation failed", "event_id", eventID, "err", err)
		}
	}

	return updated, nil
}

func (s *eventService) ListMyEvents(ctx context.Context, ownerID string) ([]*domain.EventSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	// Counts come from the RSVP rows on every read; nothing is cached per
	// owner, so the dashboard always reflects the latest submissions.
	summaries := make([]*domain.EventSummary, 0, len(events))
	for _, event := range events {
		rsvps, err := s.rsvpRepo.ListByEventID(ctx, event.ID)
		if err != nil {
			return nil, fmt.Errorf("list rsvps for event %s: %w", event.ID, err)
		}
		summaries = append(summaries, &domain.EventSummary{
			Event:  event,
			Counts: domain.CountResponses(rsvps),
		})
	}
	return summaries, nil
}
