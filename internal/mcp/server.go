// Package mcp exposes the popular-movies catalog as MCP tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vadimtrunov/moviedeck/internal/core"
	"github.com/vadimtrunov/moviedeck/internal/dashboard"
	"github.com/vadimtrunov/moviedeck/internal/metadata/tmdb"
)

// Deps holds backend dependencies for MCP tool handlers.
type Deps struct {
	Catalog core.MovieCatalog
}

// Server wraps an MCP SDK server with MovieDeck tool handlers.
type Server struct {
	server *mcpsdk.Server
	deps   Deps
	logger *slog.Logger
}

// NewServer creates an MCP server with all MovieDeck tools registered.
func NewServer(deps Deps, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "moviedeck",
			Version: version,
		},
		&mcpsdk.ServerOptions{Logger: logger},
	)

	srv := &Server{server: s, deps: deps, logger: logger}
	srv.registerTools()
	return srv
}

// ServeStdio runs the MCP server over stdin/stdout.
func (s *Server) ServeStdio(ctx context.Context) error {
	return s.server.Run(ctx, &mcpsdk.StdioTransport{})
}

// MCPServer returns the underlying MCP SDK server (for testing).
func (s *Server) MCPServer() *mcpsdk.Server {
	return s.server
}

func (s *Server) registerTools() {
	s.server.AddTool(popularMoviesTool(), s.handlePopularMovies)
	s.server.AddTool(movieGenresTool(), s.handleMovieGenres)
	s.server.AddTool(movieTrailerTool(), s.handleMovieTrailer)
}

func popularMoviesTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name: "popular_movies",
		Description: "List one page of TMDb's popular movies. Returns the page number, the total page count, " +
			"and each movie's id, title, release date, vote average, genres and overview.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"page": map[string]any{
					"type":        "integer",
					"description": "Page number, starting at 1 (default 1, at most 500)",
				},
			},
		},
	}
}

func movieGenresTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "movie_genres",
		Description: "List the TMDb movie genre taxonomy as id/name pairs.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	}
}

func movieTrailerTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "movie_trailer",
		Description: "Get a YouTube link to a movie's trailer by its TMDb ID.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"tmdb_id": map[string]any{
					"type":        "integer",
					"description": "The TMDb ID of the movie",
				},
			},
			"required": []any{"tmdb_id"},
		},
	}
}

// movieResult is one movie as returned by popular_movies.
type movieResult struct {
	ID               int         `json:"id"`
	Title            string      `json:"title"`
	ReleaseDate      string      `json:"release_date,omitempty"`
	VoteAverage      tmdb.Rating `json:"vote_average"`
	VoteCount        int         `json:"vote_count"`
	OriginalLanguage string      `json:"original_language,omitempty"`
	Adult            bool        `json:"adult"`
	Genres           []string    `json:"genres"`
	Overview         string      `json:"overview,omitempty"`
	PosterURL        string      `json:"poster_url,omitempty"`
}

type popularResult struct {
	Page         int           `json:"page"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
	Movies       []movieResult `json:"movies"`
}

// Tool handlers: each parses arguments, calls the catalog, returns JSON text content.

func (s *Server) handlePopularMovies(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Catalog == nil {
		return toolError("TMDb client not configured"), nil
	}

	page, err := optionalIntFromArgs(req.Params.Arguments, "page", 1)
	if err != nil {
		return toolError(err.Error()), nil
	}
	if page < 1 || page > tmdb.MaxPopularPages {
		return toolError(fmt.Sprintf("page must be between 1 and %d", tmdb.MaxPopularPages)), nil
	}

	result, err := s.deps.Catalog.PopularMovies(ctx, page)
	if err != nil {
		return toolError(fmt.Sprintf("tmdb popular movies failed: %v", err)), nil
	}

	names := s.genreNames(ctx)
	out := popularResult{
		Page:         result.Page,
		TotalPages:   min(result.TotalPages, tmdb.MaxPopularPages),
		TotalResults: result.TotalResults,
		Movies:       make([]movieResult, 0, len(result.Results)),
	}
	for _, m := range result.Results {
		genres := make([]string, 0, len(m.GenreIDs))
		for _, id := range m.GenreIDs {
			name, ok := names[id]
			if !ok {
				name = dashboard.UnknownGenre(id)
			}
			genres = append(genres, name)
		}
		out.Movies = append(out.Movies, movieResult{
			ID:               m.ID,
			Title:            m.Title,
			ReleaseDate:      m.ReleaseDate,
			VoteAverage:      m.VoteAverage,
			VoteCount:        m.VoteCount,
			OriginalLanguage: m.OriginalLanguage,
			Adult:            m.Adult,
			Genres:           genres,
			Overview:         m.Overview,
			PosterURL:        tmdb.PosterURL(m.PosterPath, tmdb.PosterSize),
		})
	}
	return toolJSON(out)
}

// genreNames loads the taxonomy for labelling. A failure degrades to
// placeholder names.
func (s *Server) genreNames(ctx context.Context) map[int]string {
	genres, err := s.deps.Catalog.Genres(ctx)
	if err != nil {
		s.logger.Warn("error fetching genres", slog.String("error", err.Error()))
		return nil
	}
	names := make(map[int]string, len(genres))
	for _, g := range genres {
		names[g.ID] = g.Name
	}
	return names
}

func (s *Server) handleMovieGenres(ctx context.Context, _ *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Catalog == nil {
		return toolError("TMDb client not configured"), nil
	}

	genres, err := s.deps.Catalog.Genres(ctx)
	if err != nil {
		return toolError(fmt.Sprintf("tmdb genres failed: %v", err)), nil
	}
	if genres == nil {
		genres = []tmdb.Genre{}
	}
	return toolJSON(genres)
}

func (s *Server) handleMovieTrailer(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Catalog == nil {
		return toolError("TMDb client not configured"), nil
	}

	tmdbID, err := extractIntFromArgs(req.Params.Arguments, "tmdb_id")
	if err != nil {
		return toolError(err.Error()), nil
	}
	if tmdbID <= 0 {
		return toolError("tmdb_id must be positive"), nil
	}

	link, err := s.deps.Catalog.Trailer(ctx, tmdbID)
	if errors.Is(err, tmdb.ErrNoTrailer) {
		return toolError(fmt.Sprintf("no trailer available for movie %d", tmdbID)), nil
	}
	if err != nil {
		return toolError(fmt.Sprintf("tmdb trailer lookup failed: %v", err)), nil
	}

	return toolJSON(map[string]any{
		"tmdb_id": tmdbID,
		"url":     link,
	})
}

// Helper functions.

// toolJSON marshals v to JSON and returns it as text content.
func toolJSON(v any) (*mcpsdk.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return toolError(fmt.Sprintf("marshal result: %v", err)), nil
	}
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(data)}},
	}, nil
}

// toolError returns a tool result indicating an error.
func toolError(msg string) *mcpsdk.CallToolResult {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: msg}},
		IsError: true,
	}
}

// extractIntFromArgs extracts an integer argument from raw JSON arguments.
func extractIntFromArgs(raw json.RawMessage, key string) (int, error) {
	var args map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &args); err != nil {
			return 0, fmt.Errorf("invalid arguments: %w", err)
		}
	}

	val, ok := args[key]
	if !ok {
		return 0, fmt.Errorf("%s is required", key)
	}

	switch v := val.(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("%s must be a whole number", key)
		}
		return int(v), nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("%s must be a number: %w", key, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%s must be a number, got %T", key, val)
	}
}

// optionalIntFromArgs is extractIntFromArgs with a default for a missing key.
func optionalIntFromArgs(raw json.RawMessage, key string, def int) (int, error) {
	var args map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &args); err != nil {
			return 0, fmt.Errorf("invalid arguments: %w", err)
		}
	}
	if v, ok := args[key]; !ok || v == nil {
		return def, nil
	}
	return extractIntFromArgs(raw, key)
}
