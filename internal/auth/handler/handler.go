// Package handler exposes the signup and signin endpoints.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"helpy/internal/auth"
	"helpy/internal/platform/metrics"
	"helpy/internal/platform/middleware"
	"helpy/pkg/platform/httputil"
)

type Handler struct {
	auth    auth.Authenticator
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func New(authenticator auth.Authenticator, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{auth: authenticator, logger: logger, metrics: m}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/signup", h.HandleSignUp)
	r.Post("/auth/signin", h.HandleSignIn)
}

// HandleSignUp creates an account and returns its first session.
func (h *Handler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[SignUpRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	session, err := h.auth.SignUp(ctx, req.credentials())
	if err != nil {
		h.metrics.RecordAuthFailure()
		h.logger.WarnContext(ctx, "signup rejected", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	h.metrics.RecordSignUp()
	httputil.WriteJSON(w, http.StatusCreated, session)
}

// HandleSignIn opens a session for an existing account.
func (h *Handler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[SignInRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	session, err := h.auth.SignIn(ctx, req.credentials())
	if err != nil {
		h.metrics.RecordAuthFailure()
		h.logger.WarnContext(ctx, "signin rejected", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	h.metrics.RecordSignIn()
	httputil.WriteJSON(w, http.StatusOK, session)
}
