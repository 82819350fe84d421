// Package handler exposes the directory read endpoints. Every response is
// renderable: remote failures surface as fallback data with an explicit
// origin, and only an identifier that matches nothing returns 404.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"helpy/internal/directory/models"
	"helpy/internal/directory/service"
	"helpy/internal/directory/viewstate"
	"helpy/internal/geo"
	"helpy/internal/platform/middleware"
	"helpy/pkg/platform/httputil"
)

// ArtisanService is the artisan read path.
type ArtisanService interface {
	FetchCollection(ctx context.Context, search string) service.ListResult[models.Artisan]
	FetchOne(ctx context.Context, id string) (service.OneResult[models.Artisan], error)
}

// PostService is the post read path.
type PostService interface {
	FetchCollection(ctx context.Context, search string) service.ListResult[models.Post]
}

// LocationResolver resolves display coordinates for a detail view.
type LocationResolver interface {
	Resolve(ctx context.Context, e geo.Entity) geo.ResolvedLocation
}

type Handler struct {
	artisans ArtisanService
	posts    PostService
	resolver LocationResolver
	logger   *slog.Logger
}

func New(artisans ArtisanService, posts PostService, resolver LocationResolver, logger *slog.Logger) *Handler {
	return &Handler{
		artisans: artisans,
		posts:    posts,
		resolver: resolver,
		logger:   logger,
	}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/artisans", h.HandleListArtisans)
	r.Get("/artisans/{id}", h.HandleGetArtisan)
	r.Get("/posts", h.HandleListPosts)
}

// HandleListArtisans lists artisans, optionally filtered by the search query
// parameter over name and trade.
func (h *Handler) HandleListArtisans(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	result := h.artisans.FetchCollection(ctx, r.URL.Query().Get("search"))
	state := viewstate.ForList(result.Origin, result.Warning)

	w.Header().Set(httputil.HeaderDataOrigin, string(state.Origin))
	httputil.WriteJSON(w, http.StatusOK, &ArtisanListResponse{
		Artisans: result.Records,
		Origin:   state.Origin,
		Warning:  state.Warning,
	})
}

// HandleGetArtisan returns one artisan with its resolved map position.
func (h *Handler) HandleGetArtisan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	result, err := h.artisans.FetchOne(ctx, id)

	switch state := viewstate.ForOne(result.Origin, result.Warning, err); state.Phase {
	case viewstate.PhaseLoaded:
		// Resolution starts only once the record is settled, so the map
		// position always matches the rendered record.
		location := h.resolver.Resolve(ctx, geo.Entity{
			Latitude:  result.Record.Latitude,
			Longitude: result.Record.Longitude,
			Address:   result.Record.Address,
		})

		w.Header().Set(httputil.HeaderDataOrigin, string(state.Origin))
		httputil.WriteJSON(w, http.StatusOK, &ArtisanDetailResponse{
			Artisan:  result.Record,
			Location: location,
			Origin:   state.Origin,
			Warning:  state.Warning,
		})

	case viewstate.PhaseNotFound:
		h.logger.InfoContext(ctx, "artisan not found",
			"artisan_id", id,
			"request_id", middleware.GetRequestID(ctx),
		)
		httputil.WriteError(w, err)

	default:
		h.logger.ErrorContext(ctx, "artisan fetch failed",
			"artisan_id", id,
			"reason", state.Reason,
			"request_id", middleware.GetRequestID(ctx),
		)
		httputil.WriteError(w, err)
	}
}

// HandleListPosts lists posts, newest first.
func (h *Handler) HandleListPosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	result := h.posts.FetchCollection(ctx, "")
	state := viewstate.ForList(result.Origin, result.Warning)

	w.Header().Set(httputil.HeaderDataOrigin, string(state.Origin))
	httputil.WriteJSON(w, http.StatusOK, &PostListResponse{
		Posts:   result.Records,
		Origin:  state.Origin,
		Warning: state.Warning,
	})
}
