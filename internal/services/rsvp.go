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

type rsvpService struct {
	eventRepo      domain.EventRepository
	rsvpRepo       domain.RsvpRepository
	userRepo       domain.UserRepository
	viewCache      domain.EventViewCache
	emailService   domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewRsvpService creates an RsvpService with the given repositories and
// collaborators. The email service and view cache may be nil-behaving
// implementations; the lifecycle itself never depends on them succeeding.
func NewRsvpService(
	eventRepo domain.EventRepository,
	rsvpRepo domain.RsvpRepository,
	userRepo domain.UserRepository,
	viewCache domain.EventViewCache,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.RsvpService {
	return &rsvpService{
		eventRepo:      eventRepo,
		rsvpRepo:       rsvpRepo,
		userRepo:       userRepo,
		viewCache:      viewCache,
		emailService:   emailService,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// dedupExempt reports whether an email is outside the per-event uniqueness
// rule: empty strings and the manual-entry placeholder never collide.
func dedupExempt(email string) bool {
	return email == "" || email == domain.PlaceholderEmail
}

func (s *rsvpService) Submit(ctx context.Context, eventID, name, email string, response domain.RsvpResponse, comment *string) (*domain.Rsvp, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if !response.Valid() {
		return nil, fmt.Errorf("%w: response must be yes, no, or maybe", domain.ErrInvalidInput)
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	// Friendly pre-check so the common duplicate case never reaches the
	// insert. The repository's serialized re-check inside the insert
	// transaction remains authoritative for the race between two
	// concurrent submissions with the same email.
	if !dedupExempt(email) {
		if _, err := s.rsvpRepo.FindByEventAndEmail(ctx, eventID, email); err == nil {
			return nil, domain.ErrDuplicateRsvp
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("find rsvp by email: %w", err)
		}
	}

	rsvp := domain.NewRsvp(eventID, name, email, response, comment, false, time.Now())
	if err := s.rsvpRepo.Create(ctx, rsvp); err != nil {
		if errors.Is(err, domain.ErrDuplicateRsvp) {
			return nil, domain.ErrDuplicateRsvp
		}
		return nil, fmt.Errorf("create rsvp: %w", err)
	}

	s.invalidateView(ctx, eventID)
	s.notifyOwner(event, rsvp)

	return rsvp, nil
}

func (s *rsvpService) AddManual(ctx context.Context, eventID, ownerID, name string, response domain.RsvpResponse, comment *string) (*domain.Rsvp, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := authorizeEventMutation(ctx, s.eventRepo, eventID, ownerID); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if !response.Valid() {
		return nil, fmt.Errorf("%w: response must be yes, no, or maybe", domain.ErrInvalidInput)
	}

	// Manual entries all share PlaceholderEmail, which is exempt from the
	// uniqueness scan, so any number of them may coexist per event.
	rsvp := domain.NewRsvp(eventID, name, domain.PlaceholderEmail, response, comment, true, time.Now())
	if err := s.rsvpRepo.Create(ctx, rsvp); err != nil {
		return nil, fmt.Errorf("create manual rsvp: %w", err)
	}

	s.invalidateView(ctx, eventID)

	return rsvp, nil
}

func (s *rsvpService) Update(ctx context.Context, eventID, rsvpID, ownerID string, upd domain.RsvpUpdate) (*domain.Rsvp, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := authorizeEventMutation(ctx, s.eventRepo, eventID, ownerID); err != nil {
		return nil, err
	}

	existing, err := s.rsvpRepo.GetByID(ctx, rsvpID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get rsvp: %w", err)
	}
	if existing.EventID != eventID {
		return nil, domain.ErrNotFound
	}

	upd.Name = strings.TrimSpace(upd.Name)
	upd.Email = strings.TrimSpace(strings.ToLower(upd.Email))
	if upd.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if !upd.Response.Valid() {
		return nil, fmt.Errorf("%w: response must be yes, no, or maybe", domain.ErrInvalidInput)
	}

	// Owner edits overwrite all mutable fields without re-running the
	// duplicate check; an edit may legally collide with another record's
	// email. Matches the observed product behavior.
	updated, err := s.rsvpRepo.Update(ctx, rsvpID, upd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update rsvp: %w", err)
	}

	s.invalidateView(ctx, eventID)

	return updated, nil
}

func (s *rsvpService) Delete(ctx context.Context, eventID, rsvpID, ownerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := authorizeEventMutation(ctx, s.eventRepo, eventID, ownerID); err != nil {
		return err
	}

	existing, err := s.rsvpRepo.GetByID(ctx, rsvpID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get rsvp: %w", err)
	}
	if existing.EventID != eventID {
		return domain.ErrNotFound
	}

	if err := s.rsvpRepo.Delete(ctx, rsvpID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete rsvp: %w", err)
	}

	s.invalidateView(ctx, eventID)

	return nil
}

// invalidateView drops the cached public view for the event. A failed
// invalidation is logged and left to the TTL; it never fails the write.
func (s *rsvpService) invalidateView(ctx context.Context, eventID string) {
	if s.viewCache == nil {
		return
	}
	if err := s.viewCache.Invalidate(ctx, eventID); err != nil {
		s.logger.Warn("event view invalidation failed", "event_id", eventID, "err", err)
	}
}

// notifyOwner emails the event owner about a new public RSVP. Best effort on
// a separate goroutine; the submitter never sees a failure here.
func (s *rsvpService) notifyOwner(event *domain.Event, rsvp *domain.Rsvp) {
	if s.emailService == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.contextTimeout)
		defer cancel()

		owner, err := s.userRepo.GetByID(ctx, event.OwnerID)
		if err != nil {
			s.logger.Warn("rsvp notification skipped", "event_id", event.ID, "err", err)
			return
		}
		comment := ""
		if rsvp.Comment != nil {
			comment = *rsvp.Comment
		}
		data := &domain.RsvpNotificationEmailData{
			OwnerEmail:   owner.Email,
			OwnerName:    owner.Name,
			EventTitle:   event.Title,
			AttendeeName: rsvp.Name,
			Response:     string(rsvp.Response),
			Comment:      comment,
		}
		if err := s.emailService.SendRsvpNotification(ctx, data); err != nil {
			s.logger.Warn("rsvp notification failed", "event_id", event.ID, "err", err)
		}
	}()
}
