// Package seeder populates the in-memory store and authenticator with demo
// data for local development.
package seeder

import (
	"context"
	"fmt"
	"log/slog"

	"helpy/internal/auth"
	"helpy/internal/directory/fallback"
	"helpy/internal/directory/models"
)

// DataStore defines methods for seeding directory collections.
type DataStore interface {
	Seed(collection models.Collection, rows ...any) error
}

// AccountStore defines methods for seeding demo accounts.
type AccountStore interface {
	SignUp(ctx context.Context, creds auth.Credentials) (auth.Session, error)
}

// Demo account credentials for local development.
const (
	DemoEmail    = "demo@helpy.fr"
	DemoPassword = "demo-password"
	DemoName     = "John Appleseed"
)

// Seeder populates in-memory backends with demo data.
type Seeder struct {
	store    DataStore
	accounts AccountStore
	logger   *slog.Logger
}

// New creates a seeder.
func New(store DataStore, accounts AccountStore, logger *slog.Logger) *Seeder {
	return &Seeder{
		store:    store,
		accounts: accounts,
		logger:   logger,
	}
}

// SeedAll loads the sample artisans and posts into the store and creates the
// demo account with its profile.
func (s *Seeder) SeedAll(ctx context.Context) error {
	s.logger.Info("seeding demo data...")

	artisans := fallback.Artisans()
	rows := make([]any, 0, len(artisans))
	for _, a := range artisans {
		rows = append(rows, a)
	}
	if err := s.store.Seed(models.CollectionArtisans, rows...); err != nil {
		return fmt.Errorf("failed to seed artisans: %w", err)
	}

	posts := fallback.Posts()
	rows = rows[:0]
	for _, p := range posts {
		rows = append(rows, p)
	}
	if err := s.store.Seed(models.CollectionPosts, rows...); err != nil {
		return fmt.Errorf("failed to seed posts: %w", err)
	}

	session, err := s.accounts.SignUp(ctx, auth.Credentials{
		Email:    DemoEmail,
		Password: DemoPassword,
		Name:     DemoName,
	})
	if err != nil {
		return fmt.Errorf("failed to create demo account: %w", err)
	}

	p := fallback.Profile()
	p.ID = session.Principal.ID
	p.Email = DemoEmail
	if err := s.store.Seed(models.CollectionProfiles, p); err != nil {
		return fmt.Errorf("failed to seed demo profile: %w", err)
	}

	s.logger.Info("demo data seeded successfully",
		"artisans", len(artisans),
		"posts", len(posts),
		"demo_email", DemoEmail,
	)
	return nil
}
