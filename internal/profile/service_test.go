package profile

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"helpy/internal/auth"
	"helpy/internal/directory/fallback"
	"helpy/internal/directory/models"
	"helpy/internal/directory/store/memory"
	dErrors "helpy/pkg/domain-errors"
)

type countingMetrics struct {
	created int
}

func (m *countingMetrics) RecordProfileCreated() { m.created++ }

type ServiceSuite struct {
	suite.Suite

	store   *memory.Store
	metrics *countingMetrics
	service *Service

	principal auth.Principal
}

func (s *ServiceSuite) SetupTest() {
	s.store = memory.New()
	s.metrics = &countingMetrics{}
	s.service = NewService(
		s.store,
		fallback.Profile,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		s.metrics,
	)
	s.principal = auth.Principal{ID: "u-1", Email: "marie@example.fr", Name: "Marie Dubois"}
}

func (s *ServiceSuite) TestGetExistingProfile() {
	err := s.store.Seed(models.CollectionProfiles, models.Profile{
		ID:       "u-1",
		Name:     "Marie Dubois",
		Email:    "marie@example.fr",
		Location: "Paris",
	})
	s.Require().NoError(err)

	result := s.service.Get(context.Background(), s.principal)

	s.Equal(models.OriginRemote, result.Origin)
	s.Empty(result.Warning)
	s.Equal("Marie Dubois", result.Profile.Name)
	s.Equal("Paris", result.Profile.Location)
	s.Zero(s.metrics.created)
}

func (s *ServiceSuite) TestGetFirstVisitCreatesAndPersistsDefault() {
	result := s.service.Get(context.Background(), s.principal)

	s.Equal(models.OriginRemote, result.Origin, "a default profile is real data, not fallback")
	s.Empty(result.Warning)
	s.Equal("u-1", result.Profile.ID)
	s.Equal("Marie Dubois", result.Profile.Name)
	s.Equal("marie@example.fr", result.Profile.Email)
	s.Equal(1, s.metrics.created)

	// The default row was written back, so the next read finds it.
	again := s.service.Get(context.Background(), s.principal)
	s.Equal(models.OriginRemote, again.Origin)
	s.Equal(1, s.metrics.created, "the row exists now, no second create")
}

func (s *ServiceSuite) TestGetFirstVisitWithoutNameDerivesFromEmail() {
	result := s.service.Get(context.Background(), auth.Principal{ID: "u-2", Email: "jean@example.fr"})
	s.Equal("jean", result.Profile.Name)
}

func (s *ServiceSuite) TestGetRemoteFailureServesSample() {
	s.store.FailWith(dErrors.New(dErrors.CodeRemoteUnavailable, "connection refused"))

	result := s.service.Get(context.Background(), s.principal)

	s.Equal(models.OriginFallback, result.Origin)
	s.Contains(result.Warning, "connection refused")
	s.Equal(fallback.Profile().Name, result.Profile.Name)
	s.Zero(s.metrics.created)
}

func (s *ServiceSuite) TestUpdateExistingRow() {
	s.Require().NoError(s.store.Seed(models.CollectionProfiles, models.Profile{
		ID:    "u-1",
		Name:  "Marie Dubois",
		Email: "marie@example.fr",
	}))

	updated, err := s.service.Update(context.Background(), s.principal, models.Profile{
		Name:     "Marie D.",
		Phone:    "+33 6 12 34 56 78",
		Location: "Lyon",
	})

	s.Require().NoError(err)
	s.Equal("Marie D.", updated.Name)

	result := s.service.Get(context.Background(), s.principal)
	s.Equal(models.OriginRemote, result.Origin)
	s.Equal("Marie D.", result.Profile.Name)
	s.Equal("Lyon", result.Profile.Location)
}

func (s *ServiceSuite) TestUpdateOwnsIdentityFields() {
	s.Require().NoError(s.store.Seed(models.CollectionProfiles, models.Profile{
		ID:    "u-1",
		Name:  "Marie Dubois",
		Email: "marie@example.fr",
	}))

	updated, err := s.service.Update(context.Background(), s.principal, models.Profile{
		ID:    "someone-else",
		Name:  "Marie",
		Email: "spoofed@example.fr",
	})

	s.Require().NoError(err)
	s.Equal("u-1", updated.ID)
	s.Equal("marie@example.fr", updated.Email)
}

func (s *ServiceSuite) TestUpdateMissingRowInsertsIt() {
	updated, err := s.service.Update(context.Background(), s.principal, models.Profile{Name: "Marie"})

	s.Require().NoError(err)
	s.Equal("u-1", updated.ID)

	result := s.service.Get(context.Background(), s.principal)
	s.Equal("Marie", result.Profile.Name)
}

func (s *ServiceSuite) TestUpdateValidatesName() {
	_, err := s.service.Update(context.Background(), s.principal, models.Profile{Name: "   "})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestUpdateRefusedWhileRemoteIsDown() {
	s.store.FailWith(dErrors.New(dErrors.CodeRemoteUnavailable, "connection refused"))

	_, err := s.service.Update(context.Background(), s.principal, models.Profile{Name: "Marie"})

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeRemoteUnavailable),
		"edits made against sample data must never reach the remote store")
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}
