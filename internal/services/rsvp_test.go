package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"testing"
	"time"

	"rsvphub/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockEventRepository struct {
	events map[string]*domain.Event
	err    error
}

func (m *mockEventRepository) Create(ctx context.Context, event *domain.Event) error {
	if m.err != nil {
		return m.err
	}
	if m.events == nil {
		m.events = map[string]*domain.Event{}
	}
	event.ID = "e" + strconv.Itoa(len(m.events)+1)
	m.events[event.ID] = event
	return nil
}

func (m *mockEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	ev, ok := m.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return ev, nil
}

func (m *mockEventRepository) ListByOwnerID(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.Event
	for _, ev := range m.events {
		if ev.OwnerID == ownerID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (m *mockEventRepository) Update(ctx context.Context, id string, upd domain.EventUpdate) (*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	ev, ok := m.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if upd.Title != nil {
		ev.Title = *upd.Title
	}
	if upd.Description != nil {
		ev.Description = upd.Description
	}
	if upd.Location != nil {
		ev.Location = upd.Location
	}
	if upd.EventDate != nil {
		ev.EventDate = *upd.EventDate
	}
	if upd.ImageURL != nil {
		ev.ImageURL = upd.ImageURL
	}
	ev.UpdatedAt = time.Now()
	return ev, nil
}

type mockRsvpRepository struct {
	rsvps   map[string]*domain.Rsvp
	nextID  int
	err     error
	deleted []string
}

func (m *mockRsvpRepository) Create(ctx context.Context, rsvp *domain.Rsvp) error {
	if m.err != nil {
		return m.err
	}
	if m.rsvps == nil {
		m.rsvps = map[string]*domain.Rsvp{}
	}
	if rsvp.Email != "" && rsvp.Email != domain.PlaceholderEmail {
		for _, r := range m.rsvps {
			if r.EventID == rsvp.EventID && strings.EqualFold(r.Email, rsvp.Email) {
				return domain.ErrDuplicateRsvp
			}
		}
	}
	m.nextID++
	rsvp.ID = "r" + strconv.Itoa(m.nextID)
	m.rsvps[rsvp.ID] = rsvp
	return nil
}

func (m *mockRsvpRepository) GetByID(ctx context.Context, id string) (*domain.Rsvp, error) {
	if m.err != nil {
		return nil, m.err
	}
	r, ok := m.rsvps[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

func (m *mockRsvpRepository) FindByEventAndEmail(ctx context.Context, eventID, email string) (*domain.Rsvp, error) {
	if m.err != nil {
		return nil, m.err
	}
	if email == "" || email == domain.PlaceholderEmail {
		return nil, domain.ErrNotFound
	}
	for _, r := range m.rsvps {
		if r.EventID == eventID && strings.EqualFold(r.Email, email) {
			return r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockRsvpRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Rsvp, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.Rsvp
	for _, r := range m.rsvps {
		if r.EventID == eventID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockRsvpRepository) Update(ctx context.Context, id string, upd domain.RsvpUpdate) (*domain.Rsvp, error) {
	if m.err != nil {
		return nil, m.err
	}
	r, ok := m.rsvps[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	r.Name = upd.Name
	r.Email = upd.Email
	r.Response = upd.Response
	r.Comment = upd.Comment
	return r, nil
}

func (m *mockRsvpRepository) Delete(ctx context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.rsvps[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.rsvps, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type mockUserRepository struct {
	users map[string]*domain.User
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error { return nil }

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

type mockViewCache struct {
	views       map[string]*domain.EventWithRsvps
	invalidated []string
	setErr      error
	getErr      error
}

func (m *mockViewCache) Get(ctx context.Context, eventID string) (*domain.EventWithRsvps, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.views[eventID]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return v, nil
}

func (m *mockViewCache) Set(ctx context.Context, eventID string, view *domain.EventWithRsvps) error {
	if m.setErr != nil {
		return m.setErr
	}
	if m.views == nil {
		m.views = map[string]*domain.EventWithRsvps{}
	}
	m.views[eventID] = view
	return nil
}

func (m *mockViewCache) Invalidate(ctx context.Context, eventID string) error {
	m.invalidated = append(m.invalidated, eventID)
	delete(m.views, eventID)
	return nil
}

func newTestRsvpService(eventRepo *mockEventRepository, rsvpRepo *mockRsvpRepository, cache *mockViewCache) domain.RsvpService {
	return NewRsvpService(eventRepo, rsvpRepo, &mockUserRepository{}, cache, nil, testLogger(), 2*time.Second)
}

func TestRsvpService_Submit(t *testing.T) {
	event := &domain.Event{ID: "e1", Title: "Launch", OwnerID: "u1"}

	tests := []struct {
		name     string
		eventID  string
		rsvpName string
		email    string
		response domain.RsvpResponse
		existing []*domain.Rsvp
		wantErr  error
	}{
		{
			name:     "first rsvp succeeds",
			eventID:  "e1",
			rsvpName: "Alice",
			email:    "alice@example.com",
			response: domain.ResponseYes,
		},
		{
			name:     "duplicate email rejected",
			eventID:  "e1",
			rsvpName: "Alice again",
			email:    "alice@example.com",
			response: domain.ResponseNo,
			existing: []*domain.Rsvp{
				{EventID: "e1", Name: "Alice", Email: "alice@example.com", Response: domain.ResponseYes},
			},
			wantErr: domain.ErrDuplicateRsvp,
		},
		{
			name:     "duplicate check is case insensitive",
			eventID:  "e1",
			rsvpName: "Alice",
			email:    "ALICE@Example.COM",
			response: domain.ResponseYes,
			existing: []*domain.Rsvp{
				{EventID: "e1", Name: "Alice", Email: "alice@example.com", Response: domain.ResponseYes},
			},
			wantErr: domain.ErrDuplicateRsvp,
		},
		{
			name:     "empty email never collides",
			eventID:  "e1",
			rsvpName: "Anon Two",
			email:    "",
			response: domain.ResponseMaybe,
			existing: []*domain.Rsvp{
				{EventID: "e1", Name: "Anon One", Email: "", Response: domain.ResponseYes},
			},
		},
		{
			name:     "unknown event",
			eventID:  "nope",
			rsvpName: "Alice",
			email:    "alice@example.com",
			response: domain.ResponseYes,
			wantErr:  domain.ErrNotFound,
		},
		{
			name:     "missing name",
			eventID:  "e1",
			rsvpName: "   ",
			email:    "alice@example.com",
			response: domain.ResponseYes,
			wantErr:  domain.ErrInvalidInput,
		},
		{
			name:     "invalid response literal",
			eventID:  "e1",
			rsvpName: "Alice",
			email:    "alice@example.com",
			response: domain.RsvpResponse("definitely"),
			wantErr:  domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eventRepo := &mockEventRepository{events: map[string]*domain.Event{"e1": event}}
			rsvpRepo := &mockRsvpRepository{rsvps: map[string]*domain.Rsvp{}}
			for i, r := range tt.existing {
				r.ID = "seed" + strconv.Itoa(i)
				rsvpRepo.rsvps[r.ID] = r
			}
			cache := &mockViewCache{}
			svc := newTestRsvpService(eventRepo, rsvpRepo, cache)

			got, err := svc.Submit(context.Background(), tt.eventID, tt.rsvpName, tt.email, tt.response, nil)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if len(rsvpRepo.rsvps) != len(tt.existing) {
					t.Fatalf("store changed on failed submit: %d records, want %d", len(rsvpRepo.rsvps), len(tt.existing))
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.ID == "" {
				t.Fatal("expected assigned ID")
			}
			if got.AddedByOwner {
				t.Fatal("public submission must not be marked owner-added")
			}
			if len(cache.invalidated) != 1 || cache.invalidated[0] != tt.eventID {
				t.Fatalf("expected one view invalidation for %q, got %v", tt.eventID, cache.invalidated)
			}
		})
	}
}

func TestRsvpService_Submit_normalizesEmail(t *testing.T) {
	eventRepo := &mockEventRepository{events: map[string]*domain.Event{"e1": {ID: "e1", OwnerID: "u1"}}}
	rsvpRepo := &mockRsvpRepository{}
	svc := newTestRsvpService(eventRepo, rsvpRepo, &mockViewCache{})

	got, err := svc.Submit(context.Background(), "e1", "Bob", "  BOB@Example.Com ", domain.ResponseYes, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Email != "bob@example.com" {
		t.Fatalf("expected normalized email, got %q", got.Email)
	}
}

func TestRsvpService_AddManual(t *testing.T) {
	event := &domain.Event{ID: "e1", Title: "Launch", OwnerID: "u1"}

	tests := []struct {
		name     string
		eventID  string
		ownerID  string
		rsvpName string
		wantErr  error
	}{
		{name: "owner adds manual entry", eventID: "e1", ownerID: "u1", rsvpName: "Walk-in"},
		{name: "non-owner forbidden", eventID: "e1", ownerID: "u2", rsvpName: "Walk-in", wantErr: domain.ErrForbidden},
		{name: "unknown event", eventID: "nope", ownerID: "u1", rsvpName: "Walk-in", wantErr: domain.ErrNotFound},
		{name: "missing name", eventID: "e1", ownerID: "u1", rsvpName: "", wantErr: domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eventRepo := &mockEventRepository{events: map[string]*domain.Event{"e1": event}}
			rsvpRepo := &mockRsvpRepository{}
			svc := newTestRsvpService(eventRepo, rsvpRepo, &mockViewCache{})

			got, err := svc.AddManual(context.Background(), tt.eventID, tt.ownerID, tt.rsvpName, domain.ResponseYes, nil)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if len(rsvpRepo.rsvps) != 0 {
					t.Fatal("store changed on rejected manual add")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Email != domain.PlaceholderEmail {
				t.Fatalf("expected placeholder email, got %q", got.Email)
			}
			if !got.AddedByOwner {
				t.Fatal("manual entry must be marked owner-added")
			}
		})
	}
}

func TestRsvpService_AddManual_multipleEntriesCoexist(t *testing.T) {
	eventRepo := &mockEventRepository{events: map[string]*domain.Event{"e1": {ID: "e1", OwnerID: "u1"}}}
	rsvpRepo := &mockRsvpRepository{}
	svc := newTestRsvpService(eventRepo, rsvpRepo, &mockViewCache{})

	for _, name := range []string{"Walk-in One", "Walk-in Two", "Walk-in Three"} {
		if _, err := svc.AddManual(context.Background(), "e1", "u1", name, domain.ResponseYes, nil); err != nil {
			t.Fatalf("manual add %q failed: %v", name, err)
		}
	}
	if len(rsvpRepo.rsvps) != 3 {
		t.Fatalf("expected 3 manual entries, got %d", len(rsvpRepo.rsvps))
	}
}

func TestRsvpService_Update(t *testing.T) {
	comment := "bringing cake"

	tests := []struct {
		name    string
		eventID string
		rsvpID  string
		ownerID string
		upd     domain.RsvpUpdate
		wantErr error
	}{
		{
			name:    "owner overwrites all fields",
			eventID: "e1",
			rsvpID:  "r1",
			ownerID: "u1",
			upd:     domain.RsvpUpdate{Name: "Alice B", Email: "alice.b@example.com", Response: domain.ResponseMaybe, Comment: &comment},
		},
		{
			name:    "email collision with another record is allowed",
			eventID: "e1",
			rsvpID:  "r1",
			ownerID: "u1",
			upd:     domain.RsvpUpdate{Name: "Alice", Email: "carol@example.com", Response: domain.ResponseYes},
		},
		{
			name:    "non-owner forbidden",
			eventID: "e1",
			rsvpID:  "r1",
			ownerID: "u2",
			upd:     domain.RsvpUpdate{Name: "Alice", Email: "alice@example.com", Response: domain.ResponseYes},
			wantErr: domain.ErrForbidden,
		},
		{
			name:    "rsvp from another event reads as missing",
			eventID: "e1",
			rsvpID:  "other",
			ownerID: "u1",
			upd:     domain.RsvpUpdate{Name: "Alice", Email: "alice@example.com", Response: domain.ResponseYes},
			wantErr: domain.ErrNotFound,
		},
		{
			name:    "unknown rsvp",
			eventID: "e1",
			rsvpID:  "nope",
			ownerID: "u1",
			upd:     domain.RsvpUpdate{Name: "Alice", Email: "alice@example.com", Response: domain.ResponseYes},
			wantErr: domain.ErrNotFound,
		},
		{
			name:    "invalid response literal",
			eventID: "e1",
			rsvpID:  "r1",
			ownerID: "u1",
			upd:     domain.RsvpUpdate{Name: "Alice", Email: "alice@example.com", Response: domain.RsvpResponse("sure")},
			wantErr: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eventRepo := &mockEventRepository{events: map[string]*domain.Event{"e1": {ID: "e1", OwnerID: "u1"}}}
			rsvpRepo := &mockRsvpRepository{rsvps: map[string]*domain.Rsvp{
				"r1":    {ID: "r1", EventID: "e1", Name: "Alice", Email: "alice@example.com", Response: domain.ResponseYes},
				"r2":    {ID: "r2", EventID: "e1", Name: "Carol", Email: "carol@example.com", Response: domain.ResponseNo},
				"other": {ID: "other", EventID: "e9", Name: "Dave", Email: "dave@example.com", Response: domain.ResponseYes},
			}}
			cache := &mockViewCache{}
			svc := newTestRsvpService(eventRepo, rsvpRepo, cache)

			got, err := svc.Update(context.Background(), tt.eventID, tt.rsvpID, tt.ownerID, tt.upd)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Name != tt.upd.Name || got.Email != tt.upd.Email || got.Response != tt.upd.Response {
				t.Fatalf("fields not overwritten: %+v", got)
			}
			if len(cache.invalidated) != 1 {
				t.Fatalf("expected one view invalidation, got %v", cache.invalidated)
			}
		})
	}
}

func TestRsvpService_Delete(t *testing.T) {
	tests := []struct {
		name    string
		eventID string
		rsvpID  string
		ownerID string
		wantErr error
	}{
		{name: "owner deletes", eventID: "e1", rsvpID: "r1", ownerID: "u1"},
		{name: "non-owner forbidden", eventID: "e1", rsvpID: "r1", ownerID: "u2", wantErr: domain.ErrForbidden},
		{name: "unknown event", eventID: "nope", rsvpID: "r1", ownerID: "u1", wantErr: domain.ErrNotFound},
		{name: "rsvp from another event", eventID: "e1", rsvpID: "other", ownerID: "u1", wantErr: domain.ErrNotFound},
		{name: "unknown rsvp", eventID: "e1", rsvpID: "nope", ownerID: "u1", wantErr: domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eventRepo := &mockEventRepository{events: map[string]*domain.Event{"e1": {ID: "e1", OwnerID: "u1"}}}
			rsvpRepo := &mockRsvpRepository{rsvps: map[string]*domain.Rsvp{
				"r1":    {ID: "r1", EventID: "e1", Name: "Alice"},
				"other": {ID: "other", EventID: "e9", Name: "Dave"},
			}}
			cache := &mockViewCache{}
			svc := newTestRsvpService(eventRepo, rsvpRepo, cache)

			err := svc.Delete(context.Background(), tt.eventID, tt.rsvpID, tt.ownerID)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if len(rsvpRepo.deleted) != 0 {
					t.Fatal("store changed on rejected delete")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(rsvpRepo.deleted) != 1 || rsvpRepo.deleted[0] != tt.rsvpID {
				t.Fatalf("expected %q deleted, got %v", tt.rsvpID, rsvpRepo.deleted)
			}
			if len(cache.invalidated) != 1 {
				t.Fatalf("expected one view invalidation, got %v", cache.invalidated)
			}
		})
	}
}
