package core

import (
	"context"

	"github.com/vadimtrunov/moviedeck/internal/metadata/tmdb"
)

// MovieCatalog is the read-only movie metadata source behind every frontend.
type MovieCatalog interface {
	// Genres returns the genre taxonomy
	Genres(ctx context.Context) ([]tmdb.Genre, error)

	// PopularMovies returns one page of the popular listing (page >= 1)
	PopularMovies(ctx context.Context, page int) (*tmdb.MoviePage, error)

	// Trailer returns a watch URL for a movie's trailer
	Trailer(ctx context.Context, movieID int) (string, error)
}

// Frontend defines the interface for long-running user-facing frontends (web, Telegram)
type Frontend interface {
	// Start runs the frontend until ctx is canceled
	Start(ctx context.Context) error

	// Stop releases resources held by the frontend
	Stop(ctx context.Context) error

	// Name returns the frontend name (e.g., "web", "telegram")
	Name() string
}

// compile-time check.
var _ MovieCatalog = (*tmdb.Client)(nil)
