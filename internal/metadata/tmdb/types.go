package tmdb

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Movie is a validated entry of the popular-movies listing.
type Movie struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title,omitempty"`
	Overview         string  `json:"overview"`
	ReleaseDate      string  `json:"release_date"`
	PosterPath       string  `json:"poster_path"`
	OriginalLanguage string  `json:"original_language"`
	Adult            bool    `json:"adult"`
	VoteAverage      Rating  `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Popularity       float64 `json:"popularity,omitempty"`
	GenreIDs         []int   `json:"genre_ids"`
}

// MoviePage is one page of the popular-movies listing.
type MoviePage struct {
	Page         int     `json:"page"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
	Results      []Movie `json:"results"`
	// Skipped counts records dropped because they had no usable id.
	Skipped int `json:"-"`
}

// Genre is one entry of the genre taxonomy.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Video is a clip attached to a movie (trailers, teasers, featurettes).
type Video struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
}

// Rating is a vote average on the 0-10 scale. Valid is false when the API
// sent null, a non-number or a value outside the scale.
type Rating struct {
	Value float64
	Valid bool
}

// NewRating returns a valid rating, or an invalid one when v is off-scale.
func NewRating(v float64) Rating {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > 10 {
		return Rating{}
	}
	return Rating{Value: v, Valid: true}
}

// UnmarshalJSON accepts numbers, numeric strings and null. Anything else
// yields an invalid rating instead of an error.
func (r *Rating) UnmarshalJSON(data []byte) error {
	*r = Rating{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil //nolint:nilerr // malformed ratings degrade to unrated
		}
		raw = strings.TrimSpace(s)
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil //nolint:nilerr // malformed ratings degrade to unrated
	}
	*r = NewRating(v)
	return nil
}

// MarshalJSON writes the value, or null for an invalid rating.
func (r Rating) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(r.Value, 'f', -1, 64)), nil
}

// movieRecord is the raw shape of a listing entry. Pointers mark the fields
// whose absence must be detected.
type movieRecord struct {
	ID               *int     `json:"id"`
	Title            *string  `json:"title"`
	OriginalTitle    string   `json:"original_title"`
	Overview         string   `json:"overview"`
	ReleaseDate      string   `json:"release_date"`
	PosterPath       *string  `json:"poster_path"`
	OriginalLanguage string   `json:"original_language"`
	Adult            bool     `json:"adult"`
	VoteAverage      Rating   `json:"vote_average"`
	VoteCount        *int     `json:"vote_count"`
	Popularity       *float64 `json:"popularity"`
	GenreIDs         []int    `json:"genre_ids"`
}

// untitled is used when a record has no title at all.
const untitled = "Untitled"

// toMovie validates a record. ok is false when the record has no positive id.
func (r movieRecord) toMovie() (Movie, bool) {
	if r.ID == nil || *r.ID <= 0 {
		return Movie{}, false
	}
	m := Movie{
		ID:               *r.ID,
		OriginalTitle:    r.OriginalTitle,
		Overview:         strings.TrimSpace(r.Overview),
		ReleaseDate:      strings.TrimSpace(r.ReleaseDate),
		OriginalLanguage: strings.ToLower(strings.TrimSpace(r.OriginalLanguage)),
		Adult:            r.Adult,
		VoteAverage:      r.VoteAverage,
		GenreIDs:         r.GenreIDs,
	}
	switch {
	case r.Title != nil && strings.TrimSpace(*r.Title) != "":
		m.Title = strings.TrimSpace(*r.Title)
	case r.OriginalTitle != "":
		m.Title = r.OriginalTitle
	default:
		m.Title = untitled
	}
	if r.PosterPath != nil {
		m.PosterPath = *r.PosterPath
	}
	if r.VoteCount != nil && *r.VoteCount > 0 {
		m.VoteCount = *r.VoteCount
	}
	if r.Popularity != nil {
		m.Popularity = *r.Popularity
	}
	if m.GenreIDs == nil {
		m.GenreIDs = []int{}
	}
	return m, true
}

// pageResponse is the raw /movie/popular envelope. Results stay raw so one
// bad record cannot fail the whole page.
type pageResponse struct {
	Page         int               `json:"page"`
	Results      []json.RawMessage `json:"results"`
	TotalPages   int               `json:"total_pages"`
	TotalResults int               `json:"total_results"`
}

// genresResponse wraps /genre/movie/list.
type genresResponse struct {
	Genres []Genre `json:"genres"`
}

// videosResponse wraps /movie/{id}/videos.
type videosResponse struct {
	ID      int     `json:"id"`
	Results []Video `json:"results"`
}
