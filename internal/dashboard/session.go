package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/vadimtrunov/moviedeck/internal/core"
	"github.com/vadimtrunov/moviedeck/internal/metadata/tmdb"
)

// Session drives a State from a MovieCatalog for frontends that handle one
// request at a time per user (web, Telegram). Fetch errors are logged and
// swallowed; the previous list stays visible.
type Session struct {
	mu      sync.Mutex
	state   *State
	catalog core.MovieCatalog
	logger  *slog.Logger

	genresLoaded bool
	moviesLoaded bool
}

// NewSession creates a session on page 1.
func NewSession(catalog core.MovieCatalog, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		state:   NewState(),
		catalog: catalog,
		logger:  logger,
	}
}

// Ensure loads whatever the dashboard is still missing: the genre taxonomy
// until one fetch succeeds, and the current page until it loads. A failed
// load is retried on the next call.
func (s *Session) Ensure(ctx context.Context) {
	s.mu.Lock()
	needGenres := !s.genresLoaded
	needMovies := !s.state.Loading() && (!s.moviesLoaded || s.state.Err() != nil)
	s.mu.Unlock()

	if needGenres {
		s.LoadGenres(ctx)
	}
	if needMovies {
		s.LoadMovies(ctx)
	}
}

// LoadGenres fetches the genre taxonomy. On failure the lookup stays as it
// was and genre chips fall back to placeholders.
func (s *Session) LoadGenres(ctx context.Context) {
	genres, err := s.catalog.Genres(ctx)
	if err != nil {
		s.logger.Error("error fetching genres", slog.String("error", err.Error()))
		return
	}

	s.mu.Lock()
	s.state.ApplyGenres(genres)
	s.genresLoaded = true
	s.mu.Unlock()
	s.logger.Debug("genres loaded", slog.Int("count", len(genres)))
}

// LoadMovies fetches the current page. A response that arrives after the
// page changed again is dropped.
func (s *Session) LoadMovies(ctx context.Context) {
	s.mu.Lock()
	req := s.state.BeginFetch()
	s.mu.Unlock()

	page, err := s.catalog.PopularMovies(ctx, req.Page)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if !s.state.FailFetch(req, err) {
			s.logger.Warn("stale movie fetch failed",
				slog.Int("page", req.Page),
				slog.String("error", err.Error()),
			)
			return
		}
		s.logger.Error("error fetching movie data",
			slog.Int("page", req.Page),
			slog.String("error", err.Error()),
		)
		return
	}
	if !s.state.ApplyMovies(req, page) {
		s.logger.Debug("discarding stale movie page",
			slog.Int("page", req.Page),
			slog.Int("current_page", s.state.Page()),
		)
		return
	}
	s.moviesLoaded = true
	s.logger.Debug("movies loaded",
		slog.Int("page", req.Page),
		slog.Int("count", len(page.Results)),
		slog.Int("skipped", page.Skipped),
	)
}

// Next moves to the next page and reloads. It reports whether the page changed.
func (s *Session) Next(ctx context.Context) bool {
	s.mu.Lock()
	changed := s.state.NextPage()
	s.mu.Unlock()
	if changed {
		s.LoadMovies(ctx)
	}
	return changed
}

// Prev moves to the previous page and reloads. At page 1 it does nothing.
func (s *Session) Prev(ctx context.Context) bool {
	s.mu.Lock()
	changed := s.state.PrevPage()
	s.mu.Unlock()
	if changed {
		s.LoadMovies(ctx)
	}
	return changed
}

// Trailer resolves the trailer link for a displayed movie.
func (s *Session) Trailer(ctx context.Context, movieID int) (string, error) {
	s.mu.Lock()
	m, ok := s.state.Movie(movieID)
	s.mu.Unlock()
	if !ok {
		return "", fmt.Errorf("movie %d is not on this page", movieID)
	}

	link, err := s.catalog.Trailer(ctx, movieID)
	if err != nil {
		return "", fmt.Errorf("trailer for %q: %w", m.Title, err)
	}
	return link, nil
}

// Do applies an action and updates the notice line.
func (s *Session) Do(ctx context.Context, a Action) error {
	switch a.Kind {
	case ActionNext:
		s.Next(ctx)
		return nil
	case ActionPrev:
		s.Prev(ctx)
		return nil
	case ActionTrailer:
		s.setNotice(s.trailerNotice(ctx, a.MovieID))
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	switch a.Kind {
	case ActionToggle:
		s.state.ToggleExpand(a.MovieID)
	case ActionRemove:
		if m, ok := s.state.Movie(a.MovieID); ok && s.state.Remove(a.MovieID) {
			s.state.SetNotice(fmt.Sprintf("Removed %q from this page.", m.Title))
		}
	case ActionWatchlist:
		if m, ok := s.state.Movie(a.MovieID); ok {
			s.state.SetNotice(WatchlistNotice(m.Title, s.state.ToggleWatchlist(a.MovieID)))
		}
	case ActionMenu:
		s.state.ToggleMenu()
	default:
		return fmt.Errorf("unsupported action %q", a.Kind)
	}
	return nil
}

func (s *Session) trailerNotice(ctx context.Context, movieID int) string {
	link, err := s.Trailer(ctx, movieID)
	if err != nil {
		s.logger.Warn("trailer lookup failed",
			slog.Int("movie_id", movieID),
			slog.String("error", err.Error()),
		)
		return TrailerErrorNotice(err)
	}
	return "Trailer: " + link
}

func (s *Session) setNotice(msg string) {
	s.mu.Lock()
	s.state.SetNotice(msg)
	s.mu.Unlock()
}

// View returns a snapshot for rendering.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.View()
}

// Page returns the current page number.
func (s *Session) Page() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Page()
}

// GenreName resolves a genre id against the loaded taxonomy.
func (s *Session) GenreName(id int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.GenreName(id)
}

// WatchlistNotice is the status line after a watchlist toggle.
func WatchlistNotice(title string, added bool) string {
	if added {
		return fmt.Sprintf("Added %q to your watchlist.", title)
	}
	return fmt.Sprintf("Removed %q from your watchlist.", title)
}

// TrailerErrorNotice is the status line when no trailer could be resolved.
func TrailerErrorNotice(err error) string {
	if errors.Is(err, tmdb.ErrNoTrailer) {
		return "No trailer available for this movie."
	}
	return "Could not load the trailer."
}
