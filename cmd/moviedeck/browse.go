package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/vadimtrunov/moviedeck/internal/config"
	"github.com/vadimtrunov/moviedeck/internal/core"
	"github.com/vadimtrunov/moviedeck/internal/dashboard"
	"github.com/vadimtrunov/moviedeck/internal/metadata/tmdb"
)

// newBrowseCmd returns the "browse" subcommand, the interactive dashboard.
func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse popular movies in the terminal",
		Long: "Browse TMDb's popular movies as expandable cards.\n" +
			"Press ? inside the dashboard for key bindings.",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runBrowse()
		},
	}
}

// runBrowse loads configuration and starts the Bubble Tea dashboard.
func runBrowse() error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	// stdout belongs to the alt screen, so logs go to a file.
	logFile, err := config.OpenLogFile(cfg.App.DataDir)
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()
	logger := config.SetupLogger(cfg.App.LogLevel, logFile)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	p := tea.NewProgram(newBrowseModel(ctx, newCatalog(cfg, logger), logger), tea.WithAltScreen())

	// Bridge OS signal cancellation into the Bubble Tea event loop.
	go func() {
		<-ctx.Done()
		p.Send(tea.Quit())
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run dashboard: %w", err)
	}
	return nil
}

// genresMsg carries the genre taxonomy back to the TUI.
type genresMsg struct {
	genres []tmdb.Genre
	err    error
}

// moviesMsg carries a fetched page, tagged with the request it answers.
type moviesMsg struct {
	req  dashboard.Request
	page *tmdb.MoviePage
	err  error
}

// trailerMsg carries a resolved trailer link.
type trailerMsg struct {
	title string
	link  string
	err   error
}

// browseModel is the Bubble Tea model for the movie dashboard.
type browseModel struct {
	ctx      context.Context
	catalog  core.MovieCatalog
	logger   *slog.Logger
	state    *dashboard.State
	keys     browseKeyMap
	help     help.Model
	viewport viewport.Model
	spinner  spinner.Model
	width    int
	height   int
	ready    bool
}

// newBrowseModel creates a dashboard model on page 1.
func newBrowseModel(ctx context.Context, catalog core.MovieCatalog, logger *slog.Logger) browseModel {
	if logger == nil {
		logger = slog.Default()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styleInfo

	return browseModel{
		ctx:     ctx,
		catalog: catalog,
		logger:  logger,
		state:   dashboard.NewState(),
		keys:    defaultBrowseKeys(),
		help:    help.New(),
		spinner: s,
	}
}

// Init issues the genre fetch and the first movie fetch.
func (m browseModel) Init() tea.Cmd {
	return tea.Batch(m.fetchGenres(), m.fetchMovies(), m.spinner.Tick)
}

// Update handles incoming messages and key presses.
func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleResize(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case genresMsg:
		m.handleGenres(msg)
		m.refresh()
		return m, nil

	case moviesMsg:
		m.handleMovies(msg)
		m.refresh()
		return m, nil

	case trailerMsg:
		m.handleTrailer(msg)
		return m, nil

	case spinner.TickMsg:
		if m.state.Loading() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.ready {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleResize adjusts the viewport on terminal resize.
func (m *browseModel) handleResize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height
	m.help.Width = msg.Width

	vpHeight := max(m.height-chromeHeight, 1)
	if !m.ready {
		m.viewport = viewport.New(m.listWidth(), vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = m.listWidth()
		m.viewport.Height = vpHeight
	}
	m.refresh()
}

// handleKey dispatches key presses. Card actions never toggle the card.
func (m browseModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Menu):
		m.state.ToggleMenu()

	case key.Matches(msg, m.keys.Up):
		m.state.MoveCursor(-1)

	case key.Matches(msg, m.keys.Down):
		m.state.MoveCursor(1)

	case key.Matches(msg, m.keys.Toggle):
		if sel, ok := m.state.Selected(); ok {
			m.state.ToggleExpand(sel.ID)
		}

	case key.Matches(msg, m.keys.PrevPage):
		if m.state.PrevPage() {
			m.refresh()
			return m, tea.Batch(m.fetchMovies(), m.spinner.Tick)
		}

	case key.Matches(msg, m.keys.NextPage):
		if m.state.NextPage() {
			m.refresh()
			return m, tea.Batch(m.fetchMovies(), m.spinner.Tick)
		}

	case key.Matches(msg, m.keys.Remove):
		if sel, ok := m.state.Selected(); ok && m.state.Remove(sel.ID) {
			m.state.SetNotice(fmt.Sprintf("Removed %q from this page.", sel.Title))
		}

	case key.Matches(msg, m.keys.Watchlist):
		if sel, ok := m.state.Selected(); ok {
			m.state.SetNotice(dashboard.WatchlistNotice(sel.Title, m.state.ToggleWatchlist(sel.ID)))
		}

	case key.Matches(msg, m.keys.Trailer):
		if sel, ok := m.state.Selected(); ok {
			m.state.SetNotice(fmt.Sprintf("Looking up the trailer for %q...", sel.Title))
			return m, m.fetchTrailer(sel)
		}

	default:
		if m.ready {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	m.refresh()
	return m, nil
}

func (m *browseModel) handleGenres(msg genresMsg) {
	if msg.err != nil {
		m.logger.Error("error fetching genres", slog.String("error", msg.err.Error()))
		return
	}
	m.state.ApplyGenres(msg.genres)
}

func (m *browseModel) handleMovies(msg moviesMsg) {
	if msg.err != nil {
		if !m.state.FailFetch(msg.req, msg.err) {
			m.logger.Warn("stale movie fetch failed",
				slog.Int("page", msg.req.Page),
				slog.String("error", msg.err.Error()),
			)
			return
		}
		m.logger.Error("error fetching movie data",
			slog.Int("page", msg.req.Page),
			slog.String("error", msg.err.Error()),
		)
		return
	}
	if !m.state.ApplyMovies(msg.req, msg.page) {
		m.logger.Debug("discarding stale movie page", slog.Int("page", msg.req.Page))
		return
	}
	if m.ready {
		m.viewport.GotoTop()
	}
}

func (m *browseModel) handleTrailer(msg trailerMsg) {
	if msg.err != nil {
		m.logger.Warn("trailer lookup failed",
			slog.String("title", msg.title),
			slog.String("error", msg.err.Error()),
		)
		m.state.SetNotice(dashboard.TrailerErrorNotice(msg.err))
		return
	}
	m.state.SetNotice("Trailer: " + msg.link)
}

// refresh re-renders the card list into the viewport and keeps the
// highlighted card in view.
func (m *browseModel) refresh() {
	if !m.ready {
		return
	}
	content, top, bottom := m.renderCards()
	m.viewport.SetContent(content)

	switch {
	case top < m.viewport.YOffset:
		m.viewport.SetYOffset(top)
	case bottom > m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(bottom - m.viewport.Height)
	}
}

// fetchGenres returns a command that loads the genre taxonomy.
func (m browseModel) fetchGenres() tea.Cmd {
	return func() tea.Msg {
		genres, err := m.catalog.Genres(m.ctx)
		return genresMsg{genres: genres, err: err}
	}
}

// fetchMovies registers a fetch for the current page and returns the
// command that performs it.
func (m browseModel) fetchMovies() tea.Cmd {
	req := m.state.BeginFetch()
	return func() tea.Msg {
		page, err := m.catalog.PopularMovies(m.ctx, req.Page)
		return moviesMsg{req: req, page: page, err: err}
	}
}

// fetchTrailer returns a command that resolves a trailer link.
func (m browseModel) fetchTrailer(movie tmdb.Movie) tea.Cmd {
	return func() tea.Msg {
		link, err := m.catalog.Trailer(m.ctx, movie.ID)
		return trailerMsg{title: movie.Title, link: link, err: err}
	}
}
