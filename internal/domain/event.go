package domain

import (
	"context"
	"time"
)

// Event represents an organizer-owned gathering that people RSVP to.
// swagger:model Event
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Location    *string   `json:"location"`
	EventDate   time.Time `json:"event_date"`
	ImageURL    *string   `json:"image_url"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewEvent returns a new Event with the given fields. ID is set by the repository on create.
func NewEvent(title string, description, location *string, eventDate time.Time, imageURL *string, ownerID string, createdAt, updatedAt time.Time) *Event {
	return &Event{
		Title:       title,
		Description: description,
		Location:    location,
		EventDate:   eventDate,
		ImageURL:    imageURL,
		OwnerID:     ownerID,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// EventUpdate carries the mutable event fields for a partial update.
// Nil fields are left unchanged. OwnerID is deliberately absent: ownership
// is fixed at creation and no exposed operation may reassign it.
type EventUpdate struct {
	Title       *string
	Description *string
	Location    *string
	EventDate   *time.Time
	ImageURL    *string
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]*Event, error)
	Update(ctx context.Context, id string, upd EventUpdate) (*Event, error)
}

// EventWithRsvps bundles an event with its RSVP list (newest first) and the
// derived response counts.
type EventWithRsvps struct {
	Event  *Event     `json:"event"`
	Rsvps  []*Rsvp    `json:"rsvps"`
	Counts RsvpCounts `json:"rsvp_counts"`
}

// EventSummary is an event with its response counts, used for the
// organizer's dashboard listing.
type EventSummary struct {
	Event  *Event     `json:"event"`
	Counts RsvpCounts `json:"rsvp_counts"`
}

// EventService defines organizer-facing event operations. All mutations are
// gated on the acting user being the event owner.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event) error
	// GetEventWithRsvps returns the event, its RSVPs ordered newest first, and
	// the recomputed counts. Open to any caller.
	GetEventWithRsvps(ctx context.Context, eventID string) (*EventWithRsvps, error)
	// UpdateEvent applies upd if ownerID owns the event. Returns ErrNotFound
	// or ErrForbidden otherwise.
	UpdateEvent(ctx context.Context, eventID, ownerID string, upd EventUpdate) (*Event, error)
	ListMyEvents(ctx context.Context, ownerID string) ([]*EventSummary, error)
}
