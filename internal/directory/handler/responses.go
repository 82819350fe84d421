package handler

import (
	"helpy/internal/directory/models"
	"helpy/internal/geo"
)

// ArtisanListResponse is the artisan list payload. Origin tells the client
// whether it is rendering live or sample data; Warning carries the absorbed
// remote failure, if any.
type ArtisanListResponse struct {
	Artisans []models.Artisan `json:"artisans"`
	Origin   models.Origin    `json:"origin"`
	Warning  string           `json:"warning,omitempty"`
}

// ArtisanDetailResponse is the artisan detail payload with its resolved map
// position.
type ArtisanDetailResponse struct {
	Artisan  models.Artisan       `json:"artisan"`
	Location geo.ResolvedLocation `json:"location"`
	Origin   models.Origin        `json:"origin"`
	Warning  string               `json:"warning,omitempty"`
}

// PostListResponse is the post list payload, newest first.
type PostListResponse struct {
	Posts   []models.Post `json:"posts"`
	Origin  models.Origin `json:"origin"`
	Warning string        `json:"warning,omitempty"`
}
