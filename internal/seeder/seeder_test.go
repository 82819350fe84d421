package seeder

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpy/internal/auth"
	authmemory "helpy/internal/auth/memory"
	"helpy/internal/directory/models"
	"helpy/internal/directory/store"
	storememory "helpy/internal/directory/store/memory"
)

func storeQuery() store.Query {
	return store.Query{}
}

func TestSeedAll(t *testing.T) {
	store := storememory.New()
	authenticator := authmemory.New([]byte("test-signing-key"))
	s := New(store, authenticator, slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, s.SeedAll(context.Background()))

	artisans, err := store.Select(context.Background(), models.CollectionArtisans, storeQuery())
	require.NoError(t, err)
	assert.Len(t, artisans, 5)

	posts, err := store.Select(context.Background(), models.CollectionPosts, storeQuery())
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	// The demo account can sign in and has a seeded profile.
	session, err := authenticator.SignIn(context.Background(), auth.Credentials{
		Email:    DemoEmail,
		Password: DemoPassword,
	})
	require.NoError(t, err)

	row, err := store.SelectOne(context.Background(), models.CollectionProfiles, session.Principal.ID)
	require.NoError(t, err)
	assert.Contains(t, string(row), DemoEmail)
}

func TestSeedAllFailsWhenDemoAccountExists(t *testing.T) {
	store := storememory.New()
	authenticator := authmemory.New([]byte("test-signing-key"))
	s := New(store, authenticator, slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, s.SeedAll(context.Background()))
	assert.Error(t, s.SeedAll(context.Background()), "reseeding hits the existing demo account")
}
