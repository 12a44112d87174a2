package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"rsvphub/internal/delivery/http/controllers"
)

// NewRouter initializes the HTTP router with all application routes.
// RSVP submission and the event view are public; everything touching
// ownership goes through RequireAuth.
func NewRouter(
	authController *controllers.AuthController,
	eventController *controllers.EventController,
	rsvpController *controllers.RsvpController,
	healthController *controllers.HealthController,
	requireAuth func(http.HandlerFunc) http.HandlerFunc,
) *http.ServeMux {
	mux := http.NewServeMux()

	// Auth
	mux.HandleFunc("POST /auth/signup", authController.SignUp)
	mux.HandleFunc("POST /auth/login", authController.Login)

	// Public event page and RSVP submission
	mux.HandleFunc("GET /events/{eventID}", eventController.GetEventByID)
	mux.HandleFunc("GET /events/{eventID}/calendar.ics", eventController.GetEventCalendar)
	mux.HandleFunc("POST /events/{eventID}/rsvps", rsvpController.SubmitRsvp)

	// Organizer routes
	mux.HandleFunc("POST /events", requireAuth(eventController.CreateEvent))
	mux.HandleFunc("GET /events/me", requireAuth(eventController.ListMyEvents))
	mux.HandleFunc("PATCH /events/{eventID}", requireAuth(eventController.UpdateEvent))
	mux.HandleFunc("POST /events/{eventID}/rsvps/manual", requireAuth(rsvpController.AddManualRsvp))
	mux.HandleFunc("PUT /events/{eventID}/rsvps/{rsvpID}", requireAuth(rsvpController.UpdateRsvp))
	mux.HandleFunc("DELETE /events/{eventID}/rsvps/{rsvpID}", requireAuth(rsvpController.DeleteRsvp))

	// Operational endpoints
	mux.HandleFunc("GET /healthz", healthController.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
