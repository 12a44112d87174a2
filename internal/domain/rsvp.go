package domain

import (
	"context"
	"time"
)

// RsvpResponse is one of the three allowed response literals.
type RsvpResponse string

const (
	ResponseYes   RsvpResponse = "yes"
	ResponseNo    RsvpResponse = "no"
	ResponseMaybe RsvpResponse = "maybe"
)

// Valid reports whether r is one of the three enumerated literals.
func (r RsvpResponse) Valid() bool {
	switch r {
	case ResponseYes, ResponseNo, ResponseMaybe:
		return true
	}
	return false
}

// PlaceholderEmail is the sentinel email stored for owner-entered manual
// RSVPs that have no real attendee address. Records carrying it are exempt
// from the per-event email uniqueness rule, so an owner may add any number
// of manual entries.
const PlaceholderEmail = "manual@rsvp.app"

// Rsvp is a single attendee's response to an event.
// swagger:model Rsvp
type Rsvp struct {
	ID           string       `json:"id"`
	EventID      string       `json:"event_id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	Response     RsvpResponse `json:"response"`
	Comment      *string      `json:"comment"`
	AddedByOwner bool         `json:"added_by_owner"`
	CreatedAt    time.Time    `json:"created_at"`
}

// NewRsvp returns a new Rsvp with the given fields. ID is set by the repository on create.
func NewRsvp(eventID, name, email string, response RsvpResponse, comment *string, addedByOwner bool, createdAt time.Time) *Rsvp {
	return &Rsvp{
		EventID:      eventID,
		Name:         name,
		Email:        email,
		Response:     response,
		Comment:      comment,
		AddedByOwner: addedByOwner,
		CreatedAt:    createdAt,
	}
}

// RsvpCounts is the derived yes/no/maybe tally for an event. It is never
// persisted; it is recomputed from the RSVP rows on every read.
// swagger:model RsvpCounts
type RsvpCounts struct {
	Yes   int `json:"yes"`
	No    int `json:"no"`
	Maybe int `json:"maybe"`
}

// Total returns the number of counted responses.
func (c RsvpCounts) Total() int {
	return c.Yes + c.No + c.Maybe
}

// CountResponses tallies the responses in a single pass. Each record lands
// in exactly one bucket; values outside the enumeration are ignored.
func CountResponses(rsvps []*Rsvp) RsvpCounts {
	var counts RsvpCounts
	for _, r := range rsvps {
		switch r.Response {
		case ResponseYes:
			counts.Yes++
		case ResponseNo:
			counts.No++
		case ResponseMaybe:
			counts.Maybe++
		}
	}
	return counts
}

// RsvpUpdate carries the mutable RSVP fields for an owner-initiated update.
// All fields are overwritten; the event reference is immutable.
type RsvpUpdate struct {
	Name     string
	Email    string
	Response RsvpResponse
	Comment  *string
}

// RsvpRepository defines the interface for RSVP storage.
type RsvpRepository interface {
	// Create inserts the RSVP. Returns ErrDuplicateRsvp when the database
	// uniqueness rule for (event_id, email) rejects the insert.
	Create(ctx context.Context, rsvp *Rsvp) error
	GetByID(ctx context.Context, id string) (*Rsvp, error)
	// FindByEventAndEmail returns the RSVP for the given (event, email)
	// pair. An empty email matches nothing and returns ErrNotFound without
	// touching the store.
	FindByEventAndEmail(ctx context.Context, eventID, email string) (*Rsvp, error)
	// ListByEventID returns the event's RSVPs ordered by created_at descending.
	ListByEventID(ctx context.Context, eventID string) ([]*Rsvp, error)
	Update(ctx context.Context, id string, upd RsvpUpdate) (*Rsvp, error)
	Delete(ctx context.Context, id string) error
}

// RsvpService defines the RSVP lifecycle: public submission plus the
// owner's administrative add/update/delete.
type RsvpService interface {
	// Submit records a public RSVP for the event. No authentication is
	// required. Duplicate (event, email) submissions fail with
	// ErrDuplicateRsvp; an unknown event fails with ErrNotFound.
	Submit(ctx context.Context, eventID, name, email string, response RsvpResponse, comment *string) (*Rsvp, error)
	// AddManual records an owner-entered RSVP under PlaceholderEmail.
	AddManual(ctx context.Context, eventID, ownerID, name string, response RsvpResponse, comment *string) (*Rsvp, error)
	// Update overwrites all mutable fields of the RSVP. The email is not
	// re-checked for duplicates; an owner edit may collide with another
	// record's email.
	Update(ctx context.Context, eventID, rsvpID, ownerID string, upd RsvpUpdate) (*Rsvp, error)
	Delete(ctx context.Context, eventID, rsvpID, ownerID string) error
}
