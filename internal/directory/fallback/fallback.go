// Package fallback holds the hand-authored sample records substituted when
// the remote store is empty or unreachable. Each collection has exactly one
// literal set here, the single source of truth for fallback content.
package fallback

import (
	"time"

	"helpy/internal/directory/models"
)

// artisans is the bundled sample directory, ordered by family name to match
// the default list ordering. Content is fixed; callers receive deep copies.
var artisans = []models.Artisan{
	{
		ID:          4,
		FamilyName:  "Dubois",
		GivenName:   "Marie",
		Photo:       "https://images.unsplash.com/photo-1573497019940-1c28c88b4f3e?ixlib=rb-1.2.1&auto=format&fit=crop&w=256&h=256&q=80",
		Trade:       "Électricienne",
		Phone:       "06 45 67 89 01",
		Email:       "marie.dubois@example.com",
		Address:     "42 boulevard Voltaire, 75012 Paris",
		Description: "Électricienne certifiée spécialisée dans les installations électriques résidentielles et les systèmes domotiques.",
		Rating:      f64(4.7),
		Latitude:    f64(48.8502),
		Longitude:   f64(2.3798),
	},
	{
		ID:          1,
		FamilyName:  "Dupont",
		GivenName:   "Jean",
		Photo:       "https://images.unsplash.com/photo-1560250097-0b93528c311a?ixlib=rb-1.2.1&auto=format&fit=crop&w=256&h=256&q=80",
		Trade:       "Menuisier",
		Phone:       "06 12 34 56 78",
		Email:       "jean.dupont@example.com",
		Address:     "15 rue des Artisans, 75001 Paris",
		Description: "Menuisier expérimenté avec plus de 15 ans d'expérience dans la fabrication de meubles sur mesure et la rénovation.",
		Rating:      f64(4.8),
		Latitude:    f64(48.8584),
		Longitude:   f64(2.3536),
	},
	{
		ID:          5,
		FamilyName:  "Leroy",
		GivenName:   "Thomas",
		Photo:       "https://images.unsplash.com/photo-1500648767791-00dcc994a43e?ixlib=rb-1.2.1&auto=format&fit=crop&w=256&h=256&q=80",
		Trade:       "Maçon",
		Phone:       "06 56 78 90 12",
		Email:       "thomas.leroy@example.com",
		Address:     "3 rue des Bâtisseurs, 75020 Paris",
		Description: "Maçon expérimenté spécialisé dans la construction et la rénovation de maisons individuelles et de petits immeubles.",
		Rating:      f64(4.6),
		Latitude:    f64(48.8651),
		Longitude:   f64(2.4017),
	},
	{
		ID:          2,
		FamilyName:  "Martin",
		GivenName:   "Sophie",
		Photo:       "https://images.unsplash.com/photo-1494790108377-be9c29b29330?ixlib=rb-1.2.1&auto=format&fit=crop&w=256&h=256&q=80",
		Trade:       "Ébéniste",
		Phone:       "06 23 45 67 89",
		Email:       "sophie.martin@example.com",
		Address:     "27 avenue du Bois, 75016 Paris",
		Description: "Ébéniste passionnée spécialisée dans la restauration de meubles anciens et la création de pièces uniques.",
		Rating:      f64(4.9),
		Latitude:    f64(48.8637),
		Longitude:   f64(2.2771),
	},
	{
		ID:          3,
		FamilyName:  "Petit",
		GivenName:   "Michel",
		Photo:       "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?ixlib=rb-1.2.1&auto=format&fit=crop&w=256&h=256&q=80",
		Trade:       "Plombier",
		Phone:       "06 34 56 78 90",
		Email:       "michel.petit@example.com",
		Address:     "8 rue des Tuyaux, 75011 Paris",
		Description: "Plombier qualifié proposant des services d'installation, de réparation et de dépannage pour tous vos problèmes de plomberie.",
		Rating:      f64(4.5),
		Latitude:    f64(48.8592),
		Longitude:   f64(2.3781),
	},
}

// posts is the bundled sample feed, newest first. Timestamps are fixed so the
// fallback content is identical across calls.
var posts = []models.Post{
	{
		ID:        2,
		Title:     "Getting Started",
		Content:   "Explore the app using the menu in the header or the navigation tabs in the footer.",
		CreatedAt: time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC),
	},
	{
		ID:        1,
		Title:     "Welcome to Helpy",
		Content:   "This is a sample post. Connect your remote database to see real data.",
		CreatedAt: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	},
}

// profile is the sample profile shown when the remote store cannot be reached.
var profile = models.Profile{
	ID:        "1",
	Name:      "John Appleseed",
	Email:     "john.appleseed@example.com",
	Phone:     "+1 (555) 123-4567",
	Location:  "Cupertino, CA",
	AvatarURL: "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?ixlib=rb-1.2.1&auto=format&fit=facearea&facepad=2&w=256&h=256&q=80",
}

// Artisans returns a deep copy of the sample artisan set.
func Artisans() []models.Artisan {
	out := make([]models.Artisan, len(artisans))
	for i, a := range artisans {
		out[i] = copyArtisan(a)
	}
	return out
}

// Posts returns a copy of the sample post set.
func Posts() []models.Post {
	out := make([]models.Post, len(posts))
	copy(out, posts)
	return out
}

// Profile returns a copy of the sample profile.
func Profile() models.Profile {
	return profile
}

func copyArtisan(a models.Artisan) models.Artisan {
	a.Rating = clone(a.Rating)
	a.Latitude = clone(a.Latitude)
	a.Longitude = clone(a.Longitude)
	return a
}

func clone(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func f64(v float64) *float64 {
	return &v
}
