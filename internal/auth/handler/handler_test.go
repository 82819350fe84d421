package handler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"helpy/internal/auth"
	"helpy/internal/auth/memory"
)

type AuthHandlerSuite struct {
	suite.Suite

	router chi.Router
}

func (s *AuthHandlerSuite) SetupTest() {
	authenticator := memory.New([]byte("test-signing-key"))
	h := New(authenticator, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	s.router = chi.NewRouter()
	h.Register(s.router)
}

func (s *AuthHandlerSuite) post(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *AuthHandlerSuite) TestSignUpThenSignIn() {
	rec := s.post("/auth/signup", `{"email": "marie@example.fr", "password": "s3cret!", "name": "Marie"}`)
	s.Equal(http.StatusCreated, rec.Code)
	s.Contains(rec.Body.String(), "access_token")
	s.Contains(rec.Body.String(), "marie@example.fr")

	rec = s.post("/auth/signin", `{"email": "marie@example.fr", "password": "s3cret!"}`)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "access_token")
}

func (s *AuthHandlerSuite) TestSignUpDuplicateIsConflict() {
	s.post("/auth/signup", `{"email": "marie@example.fr", "password": "s3cret!"}`)
	rec := s.post("/auth/signup", `{"email": "marie@example.fr", "password": "s3cret!"}`)

	s.Equal(http.StatusConflict, rec.Code)
	s.Contains(rec.Body.String(), "conflict")
}

func (s *AuthHandlerSuite) TestSignUpMissingFields() {
	rec := s.post("/auth/signup", `{"email": "marie@example.fr"}`)

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "password is required")
}

func (s *AuthHandlerSuite) TestSignUpMalformedBody() {
	rec := s.post("/auth/signup", `{"email": `)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *AuthHandlerSuite) TestSignInWrongPassword() {
	s.post("/auth/signup", `{"email": "marie@example.fr", "password": "s3cret!"}`)
	rec := s.post("/auth/signin", `{"email": "marie@example.fr", "password": "wrong!!"}`)

	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *AuthHandlerSuite) TestSignInEmailIsTrimmed() {
	s.post("/auth/signup", `{"email": "marie@example.fr", "password": "s3cret!"}`)
	rec := s.post("/auth/signin", `{"email": "  marie@example.fr ", "password": "s3cret!"}`)

	s.Equal(http.StatusOK, rec.Code)
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerSuite))
}

var _ auth.Authenticator = (*memory.Authenticator)(nil)
