package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vadimtrunov/moviedeck/internal/metadata/tmdb"
)

// mockCatalog implements core.MovieCatalog for testing.
type mockCatalog struct {
	pages      map[int][]tmdb.Movie
	trailer    string
	trailerErr error
}

func (m *mockCatalog) Genres(_ context.Context) ([]tmdb.Genre, error) {
	return []tmdb.Genre{{ID: 18, Name: "Drama"}}, nil
}

func (m *mockCatalog) PopularMovies(_ context.Context, page int) (*tmdb.MoviePage, error) {
	return &tmdb.MoviePage{Page: page, TotalPages: 3, Results: m.pages[page]}, nil
}

func (m *mockCatalog) Trailer(_ context.Context, _ int) (string, error) {
	return m.trailer, m.trailerErr
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCatalog() *mockCatalog {
	return &mockCatalog{pages: map[int][]tmdb.Movie{
		1: {
			{ID: 550, Title: "Fight Club", VoteAverage: tmdb.NewRating(8.4), GenreIDs: []int{18}, Overview: "Soap."},
			{ID: 13, Title: "Forrest Gump", VoteAverage: tmdb.NewRating(8.5)},
		},
		2: {{ID: 77, Title: "Page Two"}},
	}}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// loadedModel returns a sized model with page 1 applied.
func loadedModel(t *testing.T, width int) browseModel {
	t.Helper()
	catalog := testCatalog()
	m := newBrowseModel(context.Background(), catalog, testLogger())

	updated, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: 40})
	m = updated.(browseModel)

	genres, _ := catalog.Genres(context.Background())
	updated, _ = m.Update(genresMsg{genres: genres})
	m = updated.(browseModel)

	msg := m.fetchMovies()()
	updated, _ = m.Update(msg)
	return updated.(browseModel)
}

func press(t *testing.T, m browseModel, keys ...string) (browseModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var updated tea.Model
		updated, cmd = m.Update(keyMsg(k))
		m = updated.(browseModel)
	}
	return m, cmd
}

func TestBrowseModel_Init(t *testing.T) {
	m := newBrowseModel(context.Background(), testCatalog(), testLogger())

	if cmd := m.Init(); cmd == nil {
		t.Error("Init should return a command (genres + movies + spinner tick)")
	}
	if !m.state.Loading() {
		t.Error("Init should start the first movie fetch")
	}
}

func TestBrowseModel_WindowSize(t *testing.T) {
	m := newBrowseModel(context.Background(), testCatalog(), testLogger())
	if m.ready {
		t.Error("should not be ready before WindowSizeMsg")
	}

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	bm := updated.(browseModel)

	if !bm.ready {
		t.Error("should be ready after WindowSizeMsg")
	}
	if bm.width != 80 || bm.height != 24 {
		t.Errorf("size = %dx%d, want 80x24", bm.width, bm.height)
	}
}

func TestBrowseModel_Quit(t *testing.T) {
	m := newBrowseModel(context.Background(), testCatalog(), testLogger())

	for _, k := range []string{"q", "ctrl+c"} {
		_, cmd := m.Update(keyMsg(k))
		if cmd == nil {
			t.Errorf("%s should return a quit command", k)
		}
	}
}

func TestBrowseModel_LoadsPage(t *testing.T) {
	m := loadedModel(t, 80)

	if len(m.state.Movies()) != 2 {
		t.Fatalf("expected 2 movies, got %d", len(m.state.Movies()))
	}
	view := m.View()
	for _, want := range []string{"Popular Movies", "Page 1 of 3", "Fight Club", "Forrest Gump"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestBrowseModel_ToggleExpands(t *testing.T) {
	m := loadedModel(t, 80)

	m, _ = press(t, m, "enter")
	if id, ok := m.state.Expanded(); !ok || id != 550 {
		t.Fatalf("expected Fight Club expanded, got %d", id)
	}
	view := m.View()
	if !strings.Contains(view, "Original Language") || !strings.Contains(view, "Drama") {
		t.Error("expanded card should show details and genre chips")
	}

	// Moving down and toggling expands the other card only.
	m, _ = press(t, m, "down", "enter")
	if id, _ := m.state.Expanded(); id != 13 {
		t.Errorf("expected Forrest Gump expanded, got %d", id)
	}

	m, _ = press(t, m, "enter")
	if _, ok := m.state.Expanded(); ok {
		t.Error("toggling the expanded card should collapse it")
	}
}

func TestBrowseModel_RemoveDoesNotToggle(t *testing.T) {
	m := loadedModel(t, 80)

	m, _ = press(t, m, "down", "x")
	if len(m.state.Movies()) != 1 {
		t.Fatalf("expected 1 movie after remove, got %d", len(m.state.Movies()))
	}
	if _, ok := m.state.Expanded(); ok {
		t.Error("remove must not expand a card")
	}
	if !strings.Contains(m.state.Notice(), "Forrest Gump") {
		t.Errorf("unexpected notice %q", m.state.Notice())
	}
}

func TestBrowseModel_Watchlist(t *testing.T) {
	m := loadedModel(t, 80)

	m, _ = press(t, m, "w")
	if !m.state.InWatchlist(550) {
		t.Error("w should add the highlighted movie to the watchlist")
	}
	m, _ = press(t, m, "w")
	if m.state.InWatchlist(550) {
		t.Error("second w should remove it again")
	}
}

func TestBrowseModel_Pagination(t *testing.T) {
	m := loadedModel(t, 80)

	m, cmd := press(t, m, "left")
	if cmd != nil {
		t.Error("previous on page 1 should not fetch")
	}
	if m.state.Page() != 1 {
		t.Errorf("page = %d, want 1", m.state.Page())
	}

	m, cmd = press(t, m, "right")
	if cmd == nil {
		t.Fatal("next should fetch")
	}
	if m.state.Page() != 2 || !m.state.Loading() {
		t.Errorf("page = %d loading = %v", m.state.Page(), m.state.Loading())
	}
}

func TestBrowseModel_StaleResponseDiscarded(t *testing.T) {
	m := loadedModel(t, 80)

	// A fetch for page 1 is in flight when the user moves to page 2.
	stale := m.fetchMovies()
	m, _ = press(t, m, "right")
	fresh := moviesMsg{req: m.state.BeginFetch(), page: &tmdb.MoviePage{Page: 2, TotalPages: 3, Results: []tmdb.Movie{{ID: 77, Title: "Page Two"}}}}

	updated, _ := m.Update(fresh)
	m = updated.(browseModel)
	updated, _ = m.Update(stale())
	m = updated.(browseModel)

	movies := m.state.Movies()
	if len(movies) != 1 || movies[0].ID != 77 {
		t.Errorf("late page 1 response overwrote page 2: %+v", movies)
	}
}

func TestBrowseModel_FetchError(t *testing.T) {
	m := newBrowseModel(context.Background(), testCatalog(), testLogger())
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(browseModel)

	req := m.state.BeginFetch()
	updated, _ = m.Update(moviesMsg{req: req, err: errors.New("connection refused")})
	m = updated.(browseModel)

	if m.state.Loading() {
		t.Error("loading should end after a failed fetch")
	}
	if !strings.Contains(m.View(), "Could not load movies: network error") {
		t.Error("view should report the fetch error")
	}
}

func TestBrowseModel_Trailer(t *testing.T) {
	m := loadedModel(t, 80)

	_, cmd := press(t, m, "t")
	if cmd == nil {
		t.Fatal("t should start a trailer lookup")
	}

	updated, _ := m.Update(trailerMsg{title: "Fight Club", link: "https://www.youtube.com/watch?v=abc"})
	m = updated.(browseModel)
	if m.state.Notice() != "Trailer: https://www.youtube.com/watch?v=abc" {
		t.Errorf("notice = %q", m.state.Notice())
	}

	updated, _ = m.Update(trailerMsg{title: "Fight Club", err: tmdb.ErrNoTrailer})
	m = updated.(browseModel)
	if m.state.Notice() != "No trailer available for this movie." {
		t.Errorf("notice = %q", m.state.Notice())
	}
}

func TestBrowseModel_MenuLayout(t *testing.T) {
	t.Run("wide terminal shows menu beside the list", func(t *testing.T) {
		m := loadedModel(t, 120)
		m, _ = press(t, m, "m")
		view := m.View()
		if !strings.Contains(view, "Main Menu") || !strings.Contains(view, "Fight Club") {
			t.Error("expected both menu and cards")
		}
	})

	t.Run("narrow terminal replaces the list", func(t *testing.T) {
		m := loadedModel(t, 60)
		m, _ = press(t, m, "m")
		view := m.View()
		if !strings.Contains(view, "Main Menu") || !strings.Contains(view, "Log out") {
			t.Error("expected menu")
		}
		if strings.Contains(view, "Fight Club") {
			t.Error("narrow layout should hide the cards while the menu is open")
		}

		m, _ = press(t, m, "m")
		if !strings.Contains(m.View(), "Fight Club") {
			t.Error("closing the menu should bring the cards back")
		}
	})
}
