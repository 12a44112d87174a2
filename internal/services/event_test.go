package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"rsvphub/internal/domain"
)

func newTestEventService(eventRepo *mockEventRepository, rsvpRepo *mockRsvpRepository, cache *mockViewCache) domain.EventService {
	return NewEventService(eventRepo, rsvpRepo, cache, testLogger(), 2*time.Second)
}

func TestEventService_CreateEvent(t *testing.T) {
	date := time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		event   *domain.Event
		wantErr error
	}{
		{
			name:  "valid event",
			event: &domain.Event{Title: "Launch", EventDate: date, OwnerID: "u1"},
		},
		{
			name:    "missing title",
			event:   &domain.Event{Title: "  ", EventDate: date, OwnerID: "u1"},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "missing date",
			event:   &domain.Event{Title: "Launch", OwnerID: "u1"},
			wantErr: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eventRepo := &mockEventRepository{events: map[string]*domain.Event{}}
			svc := newTestEventService(eventRepo, &mockRsvpRepository{}, &mockViewCache{})

			err := svc.CreateEvent(context.Background(), tt.event)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.event.ID == "" {
				t.Fatal("expected assigned ID")
			}
			if tt.event.CreatedAt.IsZero() || tt.event.UpdatedAt.IsZero() {
				t.Fatal("expected timestamps to be set")
			}
		})
	}
}

func TestEventService_GetEventWithRsvps(t *testing.T) {
	event := &domain.Event{ID: "e1", Title: "Launch", OwnerID: "u1"}
	seed := map[string]*domain.Rsvp{
		"r1": {ID: "r1", EventID: "e1", Response: domain.ResponseYes},
		"r2": {ID: "r2", EventID: "e1", Response: domain.ResponseYes},
		"r3": {ID: "r3", EventID: "e1", Response: domain.ResponseNo},
		"r4": {ID: "r4", EventID: "e1", Response: domain.ResponseMaybe},
	}

	eventRepo := &mockEventRepository{events: map[string]*domain.Event{"e1": event}}
	rsvpRepo := &mockRsvpRepository{rsvps: seed}
	cache := &mockViewCache{}
	svc := newTestEventService(eventRepo, rsvpRepo, cache)

	view, err := svc.GetEventWithRsvps(context.Background(), "e1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := domain.RsvpCounts{Yes: 2, No: 1, Maybe: 1}
	if view.Counts != want {
		t.Fatalf("expected counts %+v, got %+v", want, view.Counts)
	}
	if view.Counts.Total() != len(view.Rsvps) {
		t.Fatalf("counts total %d does not match %d records", view.Counts.Total(), len(view.Rsvps))
	}

	// Reading again without any writes returns the same tallies, now
	// served from the cache.
	again, err := svc.GetEventWithRsvps(context.Background(), "e1")
	if err != nil {
		t.Fatalf("unexpected error on second read: %v", err)
	}
	if again.Counts != want {
		t.Fatalf("second read changed counts: %+v", again.Counts)
	}
	if _, ok := cache.views["e1"]; !ok {
		t.Fatal("expected view to be cached after first read")
	}
}

func TestEventService_GetEventWithRsvps_unknownEvent(t *testing.T) {
	svc := newTestEventService(&mockEventRepository{}, &mockRsvpRepository{}, &mockViewCache{})

	_, err := svc.GetEventWithRsvps(context.Background(), "nope")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEventService_GetEventWithRsvps_noRsvps(t *testing.T) {
	eventRepo := &mockEventRepository{events: map[string]*domain.Event{"e1": {ID: "e1"}}}
	svc := newTestEventService(eventRepo, &mockRsvpRepository{}, &mockViewCache{})

	view, err := svc.GetEventWithRsvps(context.Background(), "e1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Rsvps == nil {
		t.Fatal("expected empty slice, not nil")
	}
	if view.Counts != (domain.RsvpCounts{}) {
		t.Fatalf("expected zero counts, got %+v", view.Counts)
	}
}

func TestEventService_UpdateEvent(t *testing.T) {
	newTitle := "Rescheduled Launch"
	emptyTitle := "  "

	tests := []struct {
		name    string
		eventID string
		ownerID string
		upd     domain.EventUpdate
		wantErr error
	}{
		{name: "owner updates title", eventID: "e1", ownerID: "u1", upd: domain.EventUpdate{Title: &newTitle}},
		{name: "non-owner forbidden", eventID: "e1", ownerID: "u2", upd: domain.EventUpdate{Title: &newTitle}, wantErr: domain.ErrForbidden},
		{name: "unknown event", eventID: "nope", ownerID: "u1", upd: domain.EventUpdate{Title: &newTitle}, wantErr: domain.ErrNotFound},
		{name: "empty title rejected", eventID: "e1", ownerID: "u1", upd: domain.EventUpdate{Title: &emptyTitle}, wantErr: domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eventRepo := &mockEventRepository{events: map[string]*domain.Event{
				"e1": {ID: "e1", Title: "Launch", OwnerID: "u1"},
			}}
			cache := &mockViewCache{}
			svc := newTestEventService(eventRepo, &mockRsvpRepository{}, cache)

			got, err := svc.UpdateEvent(context.Background(), tt.eventID, tt.ownerID, tt.upd)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if eventRepo.events["e1"].Title != "Launch" {
					t.Fatal("event changed on rejected update")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Title != newTitle {
				t.Fatalf("expected title %q, got %q", newTitle, got.Title)
			}
			if got.OwnerID != "u1" {
				t.Fatalf("owner changed on update: %q", got.OwnerID)
			}
			if len(cache.invalidated) != 1 {
				t.Fatalf("expected one view invalidation, got %v", cache.invalidated)
			}
		})
	}
}

func TestEventService_ListMyEvents(t *testing.T) {
	eventRepo := &mockEventRepository{events: map[string]*domain.Event{
		"e1": {ID: "e1", Title: "Mine", OwnerID: "u1"},
		"e2": {ID: "e2", Title: "Also mine", OwnerID: "u1"},
		"e3": {ID: "e3", Title: "Someone else's", OwnerID: "u2"},
	}}
	rsvpRepo := &mockRsvpRepository{rsvps: map[string]*domain.Rsvp{
		"r1": {ID: "r1", EventID: "e1", Response: domain.ResponseYes},
		"r2": {ID: "r2", EventID: "e1", Response: domain.ResponseMaybe},
		"r3": {ID: "r3", EventID: "e3", Response: domain.ResponseYes},
	}}
	svc := newTestEventService(eventRepo, rsvpRepo, &mockViewCache{})

	summaries, err := svc.ListMyEvents(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 events, got %d", len(summaries))
	}
	for _, s := range summaries {
		if s.Event.OwnerID != "u1" {
			t.Fatalf("foreign event in listing: %+v", s.Event)
		}
		if s.Event.ID == "e1" {
			want := domain.RsvpCounts{Yes: 1, Maybe: 1}
			if s.Counts != want {
				t.Fatalf("expected counts %+v for e1, got %+v", want, s.Counts)
			}
		}
	}
}
