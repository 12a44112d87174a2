package services

import (
	"context"
	"fmt"
	"log/slog"

	"rsvphub/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendWelcomeMessage greets a freshly signed-up account.
func (s *emailService) SendWelcomeMessage(ctx context.Context, data *domain.WelcomeMessageEmailData) error {
	if data == nil {
		return fmt.Errorf("welcome message data is nil")
	}
	return s.send(ctx, "welcome", data.Email, data)
}

// SendRsvpNotification tells an event owner about a new public RSVP.
func (s *emailService) SendRsvpNotification(ctx context.Context, data *domain.RsvpNotificationEmailData) error {
	if data == nil {
		return fmt.Errorf("rsvp notification data is nil")
	}
	return s.send(ctx, "rsvp_notification", data.OwnerEmail, data)
}

func (s *emailService) send(ctx context.Context, name, to string, data any) error {
	subject, htmlBody, textBody, err := s.renderer.Render(name, data)
	if err != nil {
		return fmt.Errorf("render %s email: %w", name, err)
	}
	if err := s.mailer.Send(to, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("send %s email: %w", name, err)
	}
	s.logger.InfoContext(ctx, "email sent", "template", name, "to", to)
	return nil
}
