package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/vadimtrunov/moviedeck/internal/httpclient"
)

const (
	// DefaultBaseURL is the TMDb v3 API root.
	DefaultBaseURL = "https://api.themoviedb.org/3"
	imageBaseURL   = "https://image.tmdb.org/t/p/"

	// PosterSize is the poster width used by every frontend.
	PosterSize = "w500"

	// MaxPopularPages is the deepest page TMDb serves for listings.
	MaxPopularPages = 500

	maxErrorBody = 512
)

// ErrNoTrailer is returned by Trailer when a movie has no YouTube clip.
var ErrNoTrailer = errors.New("no trailer available")

// APIError is a non-200 answer from TMDb.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("tmdb API error %d", e.StatusCode)
	}
	return fmt.Sprintf("tmdb API error %d: %s", e.StatusCode, e.Message)
}

// Options tunes a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL  string
	Language string
	HTTP     httpclient.Config
}

// Client is a read-only TMDb API v3 client.
type Client struct {
	baseURL  string
	apiKey   string
	language string
	http     *httpclient.Client
	logger   *slog.Logger
}

// New creates a TMDb client authenticated with apiKey.
func New(apiKey string, opts Options, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.HTTP == (httpclient.Config{}) {
		opts.HTTP = httpclient.DefaultConfig()
	}
	return &Client{
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		apiKey:   apiKey,
		language: opts.Language,
		http:     httpclient.New(opts.HTTP, logger),
		logger:   logger,
	}
}

// Genres fetches the movie genre taxonomy. Entries without an id or a name
// are dropped.
func (c *Client) Genres(ctx context.Context) ([]Genre, error) {
	var resp genresResponse
	if err := c.get(ctx, "/genre/movie/list", nil, &resp); err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}

	genres := make([]Genre, 0, len(resp.Genres))
	for _, g := range resp.Genres {
		if g.ID <= 0 || strings.TrimSpace(g.Name) == "" {
			continue
		}
		genres = append(genres, g)
	}
	return genres, nil
}

// PopularMovies fetches one page of the popular-movies listing. Records
// without a usable id are skipped and counted in MoviePage.Skipped.
func (c *Client) PopularMovies(ctx context.Context, page int) (*MoviePage, error) {
	if page < 1 {
		return nil, fmt.Errorf("popular movies: page must be >= 1, got %d", page)
	}

	var resp pageResponse
	params := url.Values{"page": {strconv.Itoa(page)}}
	if err := c.get(ctx, "/movie/popular", params, &resp); err != nil {
		return nil, fmt.Errorf("popular movies page %d: %w", page, err)
	}
	if resp.Results == nil {
		return nil, fmt.Errorf("popular movies page %d: response has no results field", page)
	}

	out := &MoviePage{
		Page:         resp.Page,
		TotalPages:   resp.TotalPages,
		TotalResults: resp.TotalResults,
		Results:      make([]Movie, 0, len(resp.Results)),
	}
	if out.Page == 0 {
		out.Page = page
	}

	seen := make(map[int]bool, len(resp.Results))
	for i, raw := range resp.Results {
		var rec movieRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			c.logger.Warn("skipping malformed movie record",
				slog.Int("page", page),
				slog.Int("index", i),
				slog.String("error", err.Error()),
			)
			out.Skipped++
			continue
		}
		m, ok := rec.toMovie()
		if !ok || seen[m.ID] {
			c.logger.Warn("skipping movie record without usable id",
				slog.Int("page", page),
				slog.Int("index", i),
			)
			out.Skipped++
			continue
		}
		seen[m.ID] = true
		out.Results = append(out.Results, m)
	}
	return out, nil
}

// Trailer returns a YouTube watch URL for the movie's trailer. Official
// trailers win over unofficial ones, trailers over other clip types.
func (c *Client) Trailer(ctx context.Context, movieID int) (string, error) {
	var resp videosResponse
	path := fmt.Sprintf("/movie/%d/videos", movieID)
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return "", fmt.Errorf("get videos for %d: %w", movieID, err)
	}

	v, ok := pickTrailer(resp.Results)
	if !ok {
		return "", fmt.Errorf("movie %d: %w", movieID, ErrNoTrailer)
	}
	return "https://www.youtube.com/watch?v=" + url.QueryEscape(v.Key), nil
}

func pickTrailer(videos []Video) (Video, bool) {
	best, bestScore := Video{}, -1
	for _, v := range videos {
		if !strings.EqualFold(v.Site, "YouTube") || v.Key == "" {
			continue
		}
		score := 0
		if v.Type == "Trailer" {
			score += 2
		}
		if v.Official {
			score++
		}
		if score > bestScore {
			best, bestScore = v, score
		}
	}
	return best, bestScore >= 0
}

// PosterURL returns the full URL for a poster path.
func PosterURL(posterPath, size string) string {
	if posterPath == "" {
		return ""
	}
	if !strings.HasPrefix(posterPath, "/") {
		posterPath = "/" + posterPath
	}
	return imageBaseURL + size + posterPath
}

// get performs an authenticated GET request and decodes the JSON response.
func (c *Client) get(ctx context.Context, path string, params url.Values, result any) error {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	q := u.Query()
	for k, vs := range params {
		for _, v := range vs {
			q.Set(k, v)
		}
	}
	if c.language != "" {
		q.Set("language", c.language)
	}
	q.Set("api_key", c.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var payload struct {
		StatusMessage string `json:"status_message"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.StatusMessage != "" {
		apiErr.Message = payload.StatusMessage
	} else {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	return apiErr
}
