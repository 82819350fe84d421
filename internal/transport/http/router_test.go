package httptransport

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	authhandler "helpy/internal/auth/handler"
	authmemory "helpy/internal/auth/memory"
	"helpy/internal/directory/fallback"
	directoryhandler "helpy/internal/directory/handler"
	"helpy/internal/directory/models"
	"helpy/internal/directory/service"
	"helpy/internal/directory/store"
	storememory "helpy/internal/directory/store/memory"
	"helpy/internal/geo"
	"helpy/internal/platform/health"
	"helpy/internal/profile"
	profilehandler "helpy/internal/profile/handler"
	"helpy/pkg/platform/httputil"
	dErrors "helpy/pkg/domain-errors"
)

// RouterSuite exercises the assembled HTTP surface end to end against the
// in-memory store and authenticator.
type RouterSuite struct {
	suite.Suite

	store  *storememory.Store
	server http.Handler
}

func (s *RouterSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.store = storememory.New()

	artisans := service.New(
		models.CollectionArtisans,
		s.store,
		fallback.Artisans,
		store.Query{OrderField: "nom"},
		logger,
		service.WithSearchFields(models.Artisan.SearchFields),
	)
	posts := service.New(
		models.CollectionPosts,
		s.store,
		fallback.Posts,
		store.Query{OrderField: "created_at", OrderDesc: true},
		logger,
	)

	resolver := geo.NewResolver(
		geo.GeocoderFunc(func(context.Context, string) ([]geo.Candidate, error) {
			return nil, nil
		}),
		logger,
	)

	authenticator := authmemory.New([]byte("test-signing-key"))
	profiles := profile.NewService(s.store, fallback.Profile, logger, nil)

	healthHandler := health.New("test")

	s.server = NewRouter(Dependencies{
		Logger:    logger,
		Metrics:   nil,
		Health:    healthHandler,
		Directory: directoryhandler.New(artisans, posts, resolver, logger),
		Auth:      authhandler.New(authenticator, logger, nil),
		Profile:   profilehandler.New(profiles, logger),
		Verifier:  authenticator,
	})
}

func (s *RouterSuite) do(method, path, token, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.server.ServeHTTP(rec, req)
	return rec
}

func (s *RouterSuite) signUp() string {
	rec := s.do(http.MethodPost, "/api/v1/auth/signup",
		"", `{"email": "marie@example.fr", "password": "s3cret!", "name": "Marie"}`)
	s.Require().Equal(http.StatusCreated, rec.Code)

	var session struct {
		AccessToken string `json:"access_token"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &session))
	s.Require().NotEmpty(session.AccessToken)
	return session.AccessToken
}

func (s *RouterSuite) TestArtisanListFallsBackWhenStoreEmpty() {
	rec := s.do(http.MethodGet, "/api/v1/artisans", "", "")

	s.Equal(http.StatusOK, rec.Code)
	s.Equal("fallback", rec.Header().Get(httputil.HeaderDataOrigin))
	s.Contains(rec.Body.String(), "Dubois")
}

func (s *RouterSuite) TestArtisanListServesSeededRows() {
	s.Require().NoError(s.store.Seed(models.CollectionArtisans, fallback.Artisans()[4]))

	rec := s.do(http.MethodGet, "/api/v1/artisans", "", "")

	s.Equal(http.StatusOK, rec.Code)
	s.Equal("remote", rec.Header().Get(httputil.HeaderDataOrigin))
	s.Contains(rec.Body.String(), "Petit")
	s.NotContains(rec.Body.String(), "Dubois")
}

func (s *RouterSuite) TestArtisanDetailIncludesLocation() {
	rec := s.do(http.MethodGet, "/api/v1/artisans/3", "", "")

	s.Equal(http.StatusOK, rec.Code)

	var body struct {
		Location geo.ResolvedLocation `json:"location"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	// Petit carries coordinates, so the resolver reports them directly.
	s.Equal(geo.ProvenanceDirect, body.Location.Provenance)
	s.InDelta(48.8592, body.Location.Latitude, 0.0001)
}

func (s *RouterSuite) TestArtisanDetailUnknownIDIs404() {
	rec := s.do(http.MethodGet, "/api/v1/artisans/999", "", "")
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *RouterSuite) TestPostsNewestFirst() {
	rec := s.do(http.MethodGet, "/api/v1/posts", "", "")

	s.Equal(http.StatusOK, rec.Code)
	body := rec.Body.String()
	s.Less(strings.Index(body, "Getting Started"), strings.Index(body, "Welcome to Helpy"))
}

func (s *RouterSuite) TestProfileRequiresAuth() {
	rec := s.do(http.MethodGet, "/api/v1/me/profile", "", "")
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *RouterSuite) TestProfileRoundTrip() {
	token := s.signUp()

	rec := s.do(http.MethodGet, "/api/v1/me/profile", token, "")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("remote", rec.Header().Get(httputil.HeaderDataOrigin))
	s.Contains(rec.Body.String(), "Marie")

	rec = s.do(http.MethodPut, "/api/v1/me/profile", token, `{"name": "Marie D.", "location": "Lyon"}`)
	s.Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/me/profile", token, "")
	s.Contains(rec.Body.String(), "Marie D.")
	s.Contains(rec.Body.String(), "Lyon")
}

func (s *RouterSuite) TestProfileFallbackWhenStoreDown() {
	token := s.signUp()
	s.store.FailWith(dErrors.New(dErrors.CodeRemoteUnavailable, "connection refused"))

	rec := s.do(http.MethodGet, "/api/v1/me/profile", token, "")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("fallback", rec.Header().Get(httputil.HeaderDataOrigin))
	s.Contains(rec.Body.String(), fallback.Profile().Name)

	rec = s.do(http.MethodPut, "/api/v1/me/profile", token, `{"name": "Marie D."}`)
	s.Equal(http.StatusServiceUnavailable, rec.Code)
}

func (s *RouterSuite) TestHealthEndpoints() {
	rec := s.do(http.MethodGet, "/health/live", "", "")
	s.Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/health/ready", "", "")
	s.Equal(http.StatusOK, rec.Code)
}

func (s *RouterSuite) TestMetricsEndpoint() {
	rec := s.do(http.MethodGet, "/metrics", "", "")
	s.Equal(http.StatusOK, rec.Code)
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}
