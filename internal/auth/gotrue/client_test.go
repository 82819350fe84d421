package gotrue

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpy/internal/auth"
	dErrors "helpy/pkg/domain-errors"
)

const sessionBody = `{
	"access_token": "token-123",
	"token_type": "bearer",
	"expires_in": 3600,
	"user": {"id": "u-1", "email": "marie@example.fr", "user_metadata": {"name": "Marie"}}
}`

func TestSignUpSendsPayloadAndHeaders(t *testing.T) {
	var gotPath, gotKey, gotContentType string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("apikey")
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sessionBody))
	}))
	defer server.Close()

	client := New(server.URL, "anon-key")
	session, err := client.SignUp(context.Background(), auth.Credentials{
		Email:    "marie@example.fr",
		Password: "s3cret!",
		Name:     "Marie",
	})

	require.NoError(t, err)
	assert.Equal(t, "/auth/v1/signup", gotPath)
	assert.Equal(t, "anon-key", gotKey)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "marie@example.fr", gotBody["email"])
	assert.Equal(t, map[string]any{"name": "Marie"}, gotBody["data"])

	assert.Equal(t, "token-123", session.AccessToken)
	assert.EqualValues(t, 3600, session.ExpiresIn)
	assert.Equal(t, auth.Principal{ID: "u-1", Email: "marie@example.fr", Name: "Marie"}, session.Principal)
}

func TestSignInUsesPasswordGrant(t *testing.T) {
	var gotGrant string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotGrant = r.URL.Query().Get("grant_type")
		_, _ = w.Write([]byte(sessionBody))
	}))
	defer server.Close()

	client := New(server.URL, "anon-key")
	session, err := client.SignIn(context.Background(), auth.Credentials{
		Email:    "marie@example.fr",
		Password: "s3cret!",
	})

	require.NoError(t, err)
	assert.Equal(t, "password", gotGrant)
	assert.Equal(t, "u-1", session.Principal.ID)
}

func TestSignInBadCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error_description": "Invalid login credentials"}`))
	}))
	defer server.Close()

	client := New(server.URL, "anon-key")
	_, err := client.SignIn(context.Background(), auth.Credentials{Email: "x@y.fr", Password: "nope"})

	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	assert.Contains(t, err.Error(), "Invalid login credentials")
}

func TestSignUpDuplicateEmail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"msg": "User already registered"}`))
	}))
	defer server.Close()

	client := New(server.URL, "anon-key")
	_, err := client.SignUp(context.Background(), auth.Credentials{Email: "x@y.fr", Password: "s3cret!"})

	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

func TestVerifySendsBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"id": "u-1", "email": "marie@example.fr", "user_metadata": {"name": "Marie"}}`))
	}))
	defer server.Close()

	client := New(server.URL, "anon-key")
	principal, err := client.Verify(context.Background(), "token-123")

	require.NoError(t, err)
	assert.Equal(t, "Bearer token-123", gotAuth)
	assert.Equal(t, "u-1", principal.ID)
	assert.Equal(t, "Marie", principal.Name)
}

func TestVerifyRejectedToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"msg": "invalid JWT"}`))
	}))
	defer server.Close()

	client := New(server.URL, "anon-key")
	_, err := client.Verify(context.Background(), "expired")

	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestServiceOutage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := New(server.URL, "anon-key")
	_, err := client.SignIn(context.Background(), auth.Credentials{Email: "x@y.fr", Password: "s3cret!"})

	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeRemoteUnavailable))
}

func TestTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(sessionBody))
	}))
	defer server.Close()

	client := New(server.URL, "anon-key", WithTimeout(20*time.Millisecond))
	_, err := client.SignIn(context.Background(), auth.Credentials{Email: "x@y.fr", Password: "s3cret!"})

	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeTimeout))
}
