// Package handler exposes the authenticated profile endpoints.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"helpy/internal/auth"
	"helpy/internal/directory/models"
	"helpy/internal/platform/middleware"
	"helpy/internal/profile"
	"helpy/pkg/platform/httputil"
	dErrors "helpy/pkg/domain-errors"
)

// Service is the profile read/write path.
type Service interface {
	Get(ctx context.Context, principal auth.Principal) profile.Result
	Update(ctx context.Context, principal auth.Principal, p models.Profile) (models.Profile, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the profile routes. The router passed in must already be
// behind the bearer auth middleware.
func (h *Handler) Register(r chi.Router) {
	r.Get("/me/profile", h.HandleGetProfile)
	r.Put("/me/profile", h.HandleUpdateProfile)
}

// ProfileResponse is the profile payload with its origin.
type ProfileResponse struct {
	Profile models.Profile `json:"profile"`
	Origin  models.Origin  `json:"origin"`
	Warning string         `json:"warning,omitempty"`
}

// UpdateProfileRequest is the editable subset of a profile.
type UpdateProfileRequest struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Location  string `json:"location"`
	AvatarURL string `json:"avatar_url"`
}

// Normalize trims whitespace from the form fields.
func (r *UpdateProfileRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Location = strings.TrimSpace(r.Location)
	r.AvatarURL = strings.TrimSpace(r.AvatarURL)
}

// Validate checks the payload before it reaches the service.
func (r *UpdateProfileRequest) Validate() error {
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name must not be empty")
	}
	return nil
}

// HandleGetProfile returns the caller's profile, creating the default row on
// first visit.
func (h *Handler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := middleware.GetPrincipal(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	result := h.service.Get(ctx, principal)

	w.Header().Set(httputil.HeaderDataOrigin, string(result.Origin))
	httputil.WriteJSON(w, http.StatusOK, &ProfileResponse{
		Profile: result.Profile,
		Origin:  result.Origin,
		Warning: result.Warning,
	})
}

// HandleUpdateProfile saves profile changes for the caller.
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	principal, ok := middleware.GetPrincipal(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[UpdateProfileRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	updated, err := h.service.Update(ctx, principal, models.Profile{
		Name:      req.Name,
		Phone:     req.Phone,
		Location:  req.Location,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "profile update failed",
			"error", err,
			"user_id", principal.ID,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, &ProfileResponse{
		Profile: updated,
		Origin:  models.OriginRemote,
	})
}
