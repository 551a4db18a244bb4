package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	repository "github.com/mergington/activities/internal/adapters/repository"
	"github.com/mergington/activities/pkg/logger"
)

// Response details that clients match on.
const (
	detailActivityNotFound = "Activity not found"
	detailActivityFull     = "Activity is full"
	detailEmailRequired    = "email query parameter is required"
	detailNameRequired     = "activity name is required"
	detailInternal         = "Internal server error"
)

// participantRequest is the validated input of signup and unregister.
// Email format is deliberately not checked.
type participantRequest struct {
	Activity string `validate:"required,notblank"`
	Email    string `validate:"required,notblank"`
}

// ActivitiesHandler serves the registry endpoints.
type ActivitiesHandler struct {
	deps     Dependencies
	logger   logger.Logger
	validate *validator.Validate
}

// NewActivitiesHandler creates a new activities handler.
func NewActivitiesHandler(deps Dependencies, log logger.Logger) *ActivitiesHandler {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return &ActivitiesHandler{deps: deps, logger: log, validate: v}
}

// HandleList handles GET /activities.
func (h *ActivitiesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_activities"
	all, err := h.deps.ListActivities(r.Context())
	if err != nil {
		h.logger.Error(r.Context(), "list activities failed", logger.Error(Wrap(op, err)))
		writeError(w, http.StatusInternalServerError, detailInternal)
		return
	}
	writeJSON(w, http.StatusOK, all)
}

// HandleSignup handles POST /activities/{activity_name}/signup?email=.
func (h *ActivitiesHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	const op = "api.signup"
	req, ok := h.bind(w, r, op)
	if !ok {
		return
	}
	if err := h.deps.Signup(r.Context(), req.Activity, req.Email); err != nil {
		h.fail(w, r, op, req, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{
		Message: fmt.Sprintf("Signed up %s for %s", req.Email, req.Activity),
	})
}

// HandleUnregister handles DELETE /activities/{activity_name}/participants?email=.
func (h *ActivitiesHandler) HandleUnregister(w http.ResponseWriter, r *http.Request) {
	const op = "api.unregister"
	req, ok := h.bind(w, r, op)
	if !ok {
		return
	}
	if err := h.deps.Unregister(r.Context(), req.Activity, req.Email); err != nil {
		h.fail(w, r, op, req, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{
		Message: fmt.Sprintf("Unregistered %s from %s", req.Email, req.Activity),
	})
}

// bind extracts and validates the path and query parameters. It writes a 422
// and returns false when they are unusable.
func (h *ActivitiesHandler) bind(w http.ResponseWriter, r *http.Request, op string) (participantRequest, bool) {
	req := participantRequest{
		Activity: r.PathValue("activity_name"),
		Email:    r.URL.Query().Get("email"),
	}
	err := h.validate.Struct(req)
	if err == nil {
		return req, true
	}

	detail := detailEmailRequired
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Field() == "Activity" {
		detail = detailNameRequired
	}
	h.logger.Debug(r.Context(), "rejected request", logger.Error(WrapKind(op, ErrBadRequest, err)))
	writeError(w, http.StatusUnprocessableEntity, detail)
	return req, false
}

// fail maps registry errors to HTTP responses.
func (h *ActivitiesHandler) fail(w http.ResponseWriter, r *http.Request, op string, req participantRequest, err error) {
	switch {
	case errors.Is(err, repository.ErrActivityNotFound):
		writeError(w, http.StatusNotFound, detailActivityNotFound)
	case errors.Is(err, repository.ErrAlreadySignedUp):
		writeError(w, http.StatusBadRequest, fmt.Sprintf("%s is already signed up for this activity", req.Email))
	case errors.Is(err, repository.ErrParticipantNotFound):
		writeError(w, http.StatusNotFound, fmt.Sprintf("%s not found in this activity", req.Email))
	case errors.Is(err, repository.ErrActivityFull):
		writeError(w, http.StatusBadRequest, detailActivityFull)
	default:
		h.logger.Error(r.Context(), "registry operation failed", logger.Error(WrapKind(op, ErrInternal, err)))
		writeError(w, http.StatusInternalServerError, detailInternal)
	}
}
