// Package dashboard holds the popular-movies view state and the loaders that
// feed it. Every frontend drives the same State.
package dashboard

import (
	"slices"

	"github.com/vadimtrunov/moviedeck/internal/metadata/tmdb"
)

// Request identifies one movie fetch. Only the most recent request for the
// current page may update the list.
type Request struct {
	Page int
	Seq  uint64
}

// State is the transient view state of one dashboard. It is not safe for
// concurrent use; Session adds locking.
type State struct {
	page       int
	totalPages int
	movies     []tmdb.Movie

	expanded int // movie id, 0 when every card is collapsed
	cursor   int
	menuOpen bool

	genres    map[int]string
	watchlist map[int]bool

	seq     uint64
	latest  Request
	loading bool
	lastErr error
	notice  string
}

// NewState returns a state on page 1 with nothing loaded.
func NewState() *State {
	return &State{
		page:      1,
		genres:    map[int]string{},
		watchlist: map[int]bool{},
	}
}

// Page returns the current page number (>= 1).
func (s *State) Page() int { return s.page }

// TotalPages returns the page count reported by the last successful fetch,
// or 0 when unknown.
func (s *State) TotalPages() int { return s.totalPages }

// Movies returns a copy of the displayed list.
func (s *State) Movies() []tmdb.Movie { return slices.Clone(s.movies) }

// Movie looks up a displayed movie by id.
func (s *State) Movie(id int) (tmdb.Movie, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return tmdb.Movie{}, false
	}
	return s.movies[i], true
}

// Expanded returns the expanded movie id, if any.
func (s *State) Expanded() (int, bool) { return s.expanded, s.expanded != 0 }

// IsExpanded reports whether the card for id is expanded.
func (s *State) IsExpanded(id int) bool { return id != 0 && s.expanded == id }

// ToggleExpand expands the card for id, collapsing any other card, or
// collapses it if it is already expanded. Unknown ids are ignored.
func (s *State) ToggleExpand(id int) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	if s.expanded == id {
		s.expanded = 0
	} else {
		s.expanded = id
	}
	s.cursor = i
	return true
}

// Remove drops the movie from the local list. The server is not told and the
// movie comes back on the next fetch.
func (s *State) Remove(id int) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.movies = slices.Delete(slices.Clone(s.movies), i, i+1)
	if s.expanded == id {
		s.expanded = 0
	}
	s.clampCursor()
	return true
}

// CanPrev reports whether Previous is enabled.
func (s *State) CanPrev() bool { return s.page > 1 }

// CanNext reports whether Next is enabled. Next is unbounded until a fetch
// has reported the page count.
func (s *State) CanNext() bool {
	if s.totalPages == 0 {
		return true
	}
	return s.page < s.totalPages
}

// NextPage advances one page. It reports whether the page changed.
func (s *State) NextPage() bool {
	if !s.CanNext() {
		return false
	}
	s.setPage(s.page + 1)
	return true
}

// PrevPage goes back one page, never below 1. It reports whether the page
// changed.
func (s *State) PrevPage() bool {
	if !s.CanPrev() {
		return false
	}
	s.setPage(s.page - 1)
	return true
}

func (s *State) setPage(page int) {
	s.page = max(1, page)
	s.expanded = 0
	s.cursor = 0
}

// MenuOpen reports whether the navigation menu is shown.
func (s *State) MenuOpen() bool { return s.menuOpen }

// ToggleMenu flips the navigation menu.
func (s *State) ToggleMenu() { s.menuOpen = !s.menuOpen }

// BeginFetch registers a movie fetch for the current page and returns its
// tag. Any earlier request becomes stale.
func (s *State) BeginFetch() Request {
	s.seq++
	s.latest = Request{Page: s.page, Seq: s.seq}
	s.loading = true
	return s.latest
}

// Loading reports whether a movie fetch is outstanding.
func (s *State) Loading() bool { return s.loading }

// ApplyMovies replaces the list with a fetched page. Responses for stale
// requests are discarded and ApplyMovies returns false.
func (s *State) ApplyMovies(req Request, page *tmdb.MoviePage) bool {
	if !s.isCurrent(req) || page == nil {
		return false
	}
	s.loading = false
	s.lastErr = nil
	s.movies = slices.Clone(page.Results)
	if page.TotalPages > 0 {
		s.totalPages = min(page.TotalPages, tmdb.MaxPopularPages)
	}
	if s.expanded != 0 && s.indexOf(s.expanded) < 0 {
		s.expanded = 0
	}
	s.clampCursor()
	return true
}

// FailFetch records a failed fetch. The previous list stays visible.
func (s *State) FailFetch(req Request, err error) bool {
	if !s.isCurrent(req) {
		return false
	}
	s.loading = false
	s.lastErr = err
	return true
}

// Err returns the error of the last movie fetch, if it failed.
func (s *State) Err() error { return s.lastErr }

func (s *State) isCurrent(req Request) bool {
	return req.Seq == s.latest.Seq && req.Page == s.page && req.Seq != 0
}

// ApplyGenres replaces the genre lookup.
func (s *State) ApplyGenres(genres []tmdb.Genre) {
	m := make(map[int]string, len(genres))
	for _, g := range genres {
		m[g.ID] = g.Name
	}
	s.genres = m
}

// GenreName resolves a genre id, falling back to a placeholder for ids the
// taxonomy does not know.
func (s *State) GenreName(id int) string {
	if name, ok := s.genres[id]; ok {
		return name
	}
	return UnknownGenre(id)
}

// GenreNames resolves every id in order.
func (s *State) GenreNames(ids []int) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, s.GenreName(id))
	}
	return names
}

// Cursor returns the index of the highlighted card.
func (s *State) Cursor() int { return s.cursor }

// MoveCursor moves the highlight by delta, clamped to the list.
func (s *State) MoveCursor(delta int) {
	s.cursor += delta
	s.clampCursor()
}

// Selected returns the highlighted movie.
func (s *State) Selected() (tmdb.Movie, bool) {
	if s.cursor < 0 || s.cursor >= len(s.movies) {
		return tmdb.Movie{}, false
	}
	return s.movies[s.cursor], true
}

func (s *State) clampCursor() {
	if s.cursor >= len(s.movies) {
		s.cursor = len(s.movies) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

// ToggleWatchlist adds or removes a movie from the in-memory watchlist and
// returns the new membership. Unknown ids are ignored.
func (s *State) ToggleWatchlist(id int) bool {
	if s.indexOf(id) < 0 {
		return s.watchlist[id]
	}
	if s.watchlist[id] {
		delete(s.watchlist, id)
		return false
	}
	s.watchlist[id] = true
	return true
}

// InWatchlist reports watchlist membership.
func (s *State) InWatchlist(id int) bool { return s.watchlist[id] }

// Watchlist returns the watchlisted ids in ascending order.
func (s *State) Watchlist() []int {
	ids := make([]int, 0, len(s.watchlist))
	for id := range s.watchlist {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Notice returns the one-line message for the status bar.
func (s *State) Notice() string { return s.notice }

// SetNotice replaces the status bar message.
func (s *State) SetNotice(msg string) { s.notice = msg }

func (s *State) indexOf(id int) int {
	if id == 0 {
		return -1
	}
	return slices.IndexFunc(s.movies, func(m tmdb.Movie) bool { return m.ID == id })
}
