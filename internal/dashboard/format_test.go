package dashboard

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vadimtrunov/moviedeck/internal/metadata/tmdb"
)

func TestToneFor(t *testing.T) {
	tests := []struct {
		vote float64
		want Tone
	}{
		{10, TonePositive},
		{7.0, TonePositive},
		{6.99, ToneCaution},
		{5.0, ToneCaution},
		{4.99, ToneNegative},
		{0, ToneNegative},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToneFor(tt.vote), "vote %v", tt.vote)
	}
}

func TestToneFor_Partition(t *testing.T) {
	for v := 0.0; v <= 10.0; v += 0.05 {
		got := ToneFor(v)
		switch {
		case v >= 7:
			assert.Equal(t, TonePositive, got, "vote %v", v)
		case v >= 5:
			assert.Equal(t, ToneCaution, got, "vote %v", v)
		default:
			assert.Equal(t, ToneNegative, got, "vote %v", v)
		}
	}
}

func TestVoteTone_Unrated(t *testing.T) {
	assert.Equal(t, ToneNegative, VoteTone(tmdb.Rating{}))
	assert.Equal(t, TonePositive, VoteTone(tmdb.NewRating(7.1)))
}

func TestToneString(t *testing.T) {
	assert.Equal(t, "positive", TonePositive.String())
	assert.Equal(t, "caution", ToneCaution.String())
	assert.Equal(t, "negative", ToneNegative.String())
}

func TestFormatVote(t *testing.T) {
	assert.Equal(t, "7.0", FormatVote(tmdb.NewRating(7)))
	assert.Equal(t, "6.5", FormatVote(tmdb.NewRating(6.45)))
	assert.Equal(t, "–", FormatVote(tmdb.Rating{}))
}

func TestFormatReleaseDate(t *testing.T) {
	assert.Equal(t, "Oct 15, 1999", FormatReleaseDate("1999-10-15"))
	assert.Equal(t, "Unknown", FormatReleaseDate(" "))
	assert.Equal(t, "2024", FormatReleaseDate("2024"))
}

func TestFormatLanguageAndFlags(t *testing.T) {
	assert.Equal(t, "JA", FormatLanguage("ja"))
	assert.Equal(t, "N/A", FormatLanguage(""))
	assert.Equal(t, "Yes", YesNo(true))
	assert.Equal(t, "No", YesNo(false))
	assert.Equal(t, "Genre #12", UnknownGenre(12))
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{fmt.Errorf("popular movies page 1: %w", &tmdb.APIError{StatusCode: 401, Message: "Invalid API key"}), "TMDb API error 401"},
		{fmt.Errorf("list genres: %w", context.DeadlineExceeded), "request timed out"},
		{context.Canceled, "request cancelled"},
		{errors.New(`Get "https://api.example/3?api_key=k": dial tcp: connection refused`), "network error"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ErrorMessage(tt.err), "%v", tt.err)
	}
}
