package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	h "rsvphub/internal/delivery/http/helpers"
	"rsvphub/internal/delivery/http/middleware"
	"rsvphub/internal/domain"
)

// SubmitRsvpRequest is the request body for the public POST /events/{eventID}/rsvps.
type SubmitRsvpRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Response string  `json:"response"`
	Comment  *string `json:"comment"`
}

// Validate implements Validator.
func (s SubmitRsvpRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(s.Name) == "" {
		errs = append(errs, "name is required")
	}
	email := strings.TrimSpace(s.Email)
	if email != "" && !emailRegexp.MatchString(email) {
		errs = append(errs, "invalid email format")
	}
	if !domain.RsvpResponse(s.Response).Valid() {
		errs = append(errs, `response must be "yes", "no", or "maybe"`)
	}
	return errs
}

// AddManualRsvpRequest is the request body for POST /events/{eventID}/rsvps/manual.
// Manual entries carry no attendee email.
type AddManualRsvpRequest struct {
	Name     string  `json:"name"`
	Response string  `json:"response"`
	Comment  *string `json:"comment"`
}

// Validate implements Validator.
func (a AddManualRsvpRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(a.Name) == "" {
		errs = append(errs, "name is required")
	}
	if !domain.RsvpResponse(a.Response).Valid() {
		errs = append(errs, `response must be "yes", "no", or "maybe"`)
	}
	return errs
}

// UpdateRsvpRequest is the request body for PUT /events/{eventID}/rsvps/{rsvpID}.
// All mutable fields are overwritten.
type UpdateRsvpRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Response string  `json:"response"`
	Comment  *string `json:"comment"`
}

// Validate implements Validator.
func (u UpdateRsvpRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(u.Name) == "" {
		errs = append(errs, "name is required")
	}
	email := strings.TrimSpace(u.Email)
	if email != "" && email != domain.PlaceholderEmail && !emailRegexp.MatchString(email) {
		errs = append(errs, "invalid email format")
	}
	if !domain.RsvpResponse(u.Response).Valid() {
		errs = append(errs, `response must be "yes", "no", or "maybe"`)
	}
	return errs
}

type RsvpController struct {
	Logger  *slog.Logger
	Service domain.RsvpService
}

func NewRsvpController(logger *slog.Logger, svc domain.RsvpService) *RsvpController {
	return &RsvpController{
		Logger:  logger,
		Service: svc,
	}
}

// SubmitRsvp godoc
// @Summary Submit an RSVP
// @Description Record a public RSVP for an event. No authentication required. One RSVP per email per event; the email may be omitted.
// @Tags rsvps
// @Accept json
// @Produce json
// @Param eventID path string true "Event ID"
// @Param rsvp body SubmitRsvpRequest true "RSVP data"
// @Success 201 {object} helpers.APIResponse "data contains the created RSVP"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/rsvps [post]
func (c *RsvpController) SubmitRsvp(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req SubmitRsvpRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	rsvp, err := c.Service.Submit(r.Context(), eventID, strings.TrimSpace(req.Name), strings.TrimSpace(req.Email), domain.RsvpResponse(req.Response), req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "event not found")
		case errors.Is(err, domain.ErrDuplicateRsvp):
			h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, "an rsvp for this email already exists")
		case errors.Is(err, domain.ErrInvalidInput):
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "internal server error")
		}
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, rsvp)
}

// AddManualRsvp godoc
// @Summary Add a manual RSVP
// @Description Record an RSVP on behalf of an attendee. Owner only. Manual entries are exempt from the one-per-email rule.
// @Tags rsvps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param rsvp body AddManualRsvpRequest true "RSVP data"
// @Success 201 {object} helpers.APIResponse "data contains the created RSVP"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/rsvps/manual [post]
func (c *RsvpController) AddManualRsvp(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing eventID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req AddManualRsvpRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	rsvp, err := c.Service.AddManual(r.Context(), eventID, userID, strings.TrimSpace(req.Name), domain.RsvpResponse(req.Response), req.Comment)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, rsvp)
}

// UpdateRsvp godoc
// @Summary Update an RSVP
// @Description Overwrite an RSVP's fields. Owner only. The RSVP must belong to the event in the path.
// @Tags rsvps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param rsvpID path string true "RSVP ID"
// @Param rsvp body UpdateRsvpRequest true "RSVP data"
// @Success 200 {object} helpers.APIResponse "data contains the updated RSVP"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/rsvps/{rsvpID} [put]
func (c *RsvpController) UpdateRsvp(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	rsvpID := r.PathValue("rsvpID")
	if eventID == "" || rsvpID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing eventID or rsvpID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req UpdateRsvpRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	upd := domain.RsvpUpdate{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.TrimSpace(req.Email),
		Response: domain.RsvpResponse(req.Response),
		Comment:  req.Comment,
	}
	rsvp, err := c.Service.Update(r.Context(), eventID, rsvpID, userID, upd)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, rsvp)
}

// DeleteRsvp godoc
// @Summary Delete an RSVP
// @Description Remove an RSVP from an event. Owner only.
// @Tags rsvps
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param rsvpID path string true "RSVP ID"
// @Success 204 "no content"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/rsvps/{rsvpID} [delete]
func (c *RsvpController) DeleteRsvp(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	rsvpID := r.PathValue("rsvpID")
	if eventID == "" || rsvpID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing eventID or rsvpID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.Delete(r.Context(), eventID, rsvpID, userID); err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *RsvpController) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "not found")
	case errors.Is(err, domain.ErrForbidden):
		h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "not the event owner")
	case errors.Is(err, domain.ErrInvalidInput):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "internal server error")
	}
}
