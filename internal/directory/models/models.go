// Package models defines the entities served by the directory: the records
// fetched from the remote store or substituted from the bundled fallback sets.
package models

import (
	"strconv"
	"time"
)

// Origin tags where a record set came from: the live remote store or the
// bundled fallback literals. It is always an explicit returned value, never
// inferred by callers from which code path ran.
type Origin string

const (
	OriginRemote   Origin = "remote"
	OriginFallback Origin = "fallback"
)

// Collection identifies a remote table-like collection.
type Collection string

const (
	CollectionArtisans Collection = "artisans"
	CollectionProfiles Collection = "profiles"
	CollectionPosts    Collection = "posts"
)

// Entity is a record with a stable, comparable identifier.
type Entity interface {
	RecordID() string
}

// Artisan is a service professional listed in the directory.
// The JSON tags mirror the remote table's column names, which predate this
// service; the remote schema is French while the Go names are not.
type Artisan struct {
	ID          int      `json:"id"`
	FamilyName  string   `json:"nom"`
	GivenName   string   `json:"prenom"`
	Photo       string   `json:"photo"`
	Trade       string   `json:"corps_de_metier"`
	Phone       string   `json:"telephone,omitempty"`
	Email       string   `json:"email,omitempty"`
	Address     string   `json:"adresse,omitempty"`
	Description string   `json:"description,omitempty"`
	Rating      *float64 `json:"note,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

// RecordID implements Entity.
func (a Artisan) RecordID() string {
	return strconv.Itoa(a.ID)
}

// HasCoordinates reports whether both latitude and longitude are present.
// When they are, they are authoritative and geocoding must be skipped.
func (a Artisan) HasCoordinates() bool {
	return a.Latitude != nil && a.Longitude != nil
}

// SearchFields returns the fields the client-side search matches against.
func (a Artisan) SearchFields() []string {
	return []string{a.FamilyName, a.GivenName, a.Trade}
}

// Profile is the record bound 1:1 to an authenticated principal.
type Profile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Location  string `json:"location"`
	AvatarURL string `json:"avatar_url"`
}

// RecordID implements Entity.
func (p Profile) RecordID() string {
	return p.ID
}

// Post is a feed entry shown on the home screen.
type Post struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// RecordID implements Entity.
func (p Post) RecordID() string {
	return strconv.Itoa(p.ID)
}
