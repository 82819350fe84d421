// Package profile implements the account profile read and write path. Reads
// follow the fetch-with-fallback contract; writes are guarded so edits made
// against fallback data can never overwrite the remote row.
package profile

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"helpy/internal/auth"
	"helpy/internal/directory/models"
	"helpy/internal/directory/store"
	dErrors "helpy/pkg/domain-errors"
)

// Result is a profile read with its origin.
type Result struct {
	Profile models.Profile
	Origin  models.Origin
	Warning string
}

// SampleProfileFunc returns the literal sample profile served when the
// remote store is unreachable.
type SampleProfileFunc func() models.Profile

// Metrics is the subset of counters the profile service records.
type Metrics interface {
	RecordProfileCreated()
}

// Service reads and writes the authenticated account's profile.
type Service struct {
	remote  store.RemoteStore
	sample  SampleProfileFunc
	logger  *slog.Logger
	metrics Metrics
}

// NewService creates a profile service.
func NewService(remote store.RemoteStore, sample SampleProfileFunc, logger *slog.Logger, metrics Metrics) *Service {
	return &Service{
		remote:  remote,
		sample:  sample,
		logger:  logger,
		metrics: metrics,
	}
}

// Get returns the principal's profile. A missing row on a healthy remote
// store means a first visit: a default profile seeded from the principal is
// created, persisted, and returned with a remote origin. Only a failing
// remote store yields the sample profile with a fallback origin.
func (s *Service) Get(ctx context.Context, principal auth.Principal) Result {
	row, err := s.remote.SelectOne(ctx, models.CollectionProfiles, principal.ID)
	switch {
	case err == nil:
		var p models.Profile
		if uerr := json.Unmarshal(row, &p); uerr == nil {
			return Result{Profile: p, Origin: models.OriginRemote}
		}
		err = dErrors.New(dErrors.CodeRemoteUnavailable, "malformed profile row")
		fallthrough

	default:
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return s.createDefault(ctx, principal)
		}

		s.logger.WarnContext(ctx, "remote profile fetch failed, serving sample profile",
			"user_id", principal.ID,
			"error", err,
		)
		return Result{
			Profile: s.sample(),
			Origin:  models.OriginFallback,
			Warning: err.Error(),
		}
	}
}

// createDefault builds the first-visit profile and persists it. A failed
// insert is absorbed: the caller still gets the default profile, and the next
// visit retries the insert.
func (s *Service) createDefault(ctx context.Context, principal auth.Principal) Result {
	p := defaultProfile(principal)

	warning := ""
	if err := s.remote.Insert(ctx, models.CollectionProfiles, p); err != nil {
		s.logger.WarnContext(ctx, "failed to persist default profile",
			"user_id", principal.ID,
			"error", err,
		)
		warning = err.Error()
	} else if s.metrics != nil {
		s.metrics.RecordProfileCreated()
	}

	return Result{Profile: p, Origin: models.OriginRemote, Warning: warning}
}

// Update persists profile changes for the principal. The write is refused
// while the remote store is unreachable so edits based on sample data cannot
// clobber the real row once the store recovers.
func (s *Service) Update(ctx context.Context, principal auth.Principal, p models.Profile) (models.Profile, error) {
	if err := validate(p); err != nil {
		return models.Profile{}, err
	}

	// Identity fields are owned by the auth service, not the form.
	p.ID = principal.ID
	p.Email = principal.Email

	_, err := s.remote.SelectOne(ctx, models.CollectionProfiles, principal.ID)
	switch {
	case err == nil:
		if uerr := s.remote.Update(ctx, models.CollectionProfiles, principal.ID, p); uerr != nil {
			return models.Profile{}, uerr
		}
		return p, nil

	case dErrors.HasCode(err, dErrors.CodeNotFound):
		if ierr := s.remote.Insert(ctx, models.CollectionProfiles, p); ierr != nil {
			return models.Profile{}, ierr
		}
		return p, nil

	default:
		return models.Profile{}, dErrors.Wrap(err, dErrors.CodeRemoteUnavailable,
			"profile changes cannot be saved while the remote store is unreachable")
	}
}

func defaultProfile(principal auth.Principal) models.Profile {
	name := strings.TrimSpace(principal.Name)
	if name == "" {
		// Fall back to the mailbox part of the email.
		if at := strings.Index(principal.Email, "@"); at > 0 {
			name = principal.Email[:at]
		}
	}
	return models.Profile{
		ID:    principal.ID,
		Name:  name,
		Email: principal.Email,
	}
}

func validate(p models.Profile) error {
	if strings.TrimSpace(p.Name) == "" {
		return dErrors.New(dErrors.CodeValidation, "name must not be empty")
	}
	return nil
}
