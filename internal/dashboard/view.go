package dashboard

import "github.com/vadimtrunov/moviedeck/internal/metadata/tmdb"

// MenuItems are the entries of the navigation menu.
var MenuItems = []string{"Menu item 1", "Menu item 2", "Log out"}

// View is a render-ready snapshot of a State.
type View struct {
	Page       int
	TotalPages int
	CanPrev    bool
	CanNext    bool
	MenuOpen   bool
	Loading    bool
	Notice     string
	Err        string
	Cards      []Card
	Watchlist  []int
}

// Card is one movie as a frontend draws it.
type Card struct {
	ID          int
	Title       string
	PosterURL   string
	Vote        string
	Tone        Tone
	ReleaseDate string
	Expanded    bool
	Selected    bool
	Watchlisted bool

	// Detail fields, shown only when Expanded.
	Language  string
	Adult     string
	VoteCount int
	Genres    []string
	Overview  string
}

// View builds a snapshot of the current state.
func (s *State) View() View {
	v := View{
		Page:       s.page,
		TotalPages: s.totalPages,
		CanPrev:    s.CanPrev(),
		CanNext:    s.CanNext(),
		MenuOpen:   s.menuOpen,
		Loading:    s.loading,
		Notice:     s.notice,
		Cards:      make([]Card, 0, len(s.movies)),
		Watchlist:  s.Watchlist(),
	}
	v.Err = ErrorMessage(s.lastErr)
	for i, m := range s.movies {
		v.Cards = append(v.Cards, s.card(m, i == s.cursor))
	}
	return v
}

func (s *State) card(m tmdb.Movie, selected bool) Card {
	overview := m.Overview
	if overview == "" {
		overview = "No overview available."
	}
	return Card{
		ID:          m.ID,
		Title:       m.Title,
		PosterURL:   tmdb.PosterURL(m.PosterPath, tmdb.PosterSize),
		Vote:        FormatVote(m.VoteAverage),
		Tone:        VoteTone(m.VoteAverage),
		ReleaseDate: FormatReleaseDate(m.ReleaseDate),
		Expanded:    s.IsExpanded(m.ID),
		Selected:    selected,
		Watchlisted: s.watchlist[m.ID],
		Language:    FormatLanguage(m.OriginalLanguage),
		Adult:       YesNo(m.Adult),
		VoteCount:   m.VoteCount,
		Genres:      s.GenreNames(m.GenreIDs),
		Overview:    overview,
	}
}
