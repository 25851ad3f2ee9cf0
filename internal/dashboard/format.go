package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/vadimtrunov/moviedeck/internal/metadata/tmdb"
)

// Tone classifies a vote average for coloring.
type Tone int

const (
	ToneNegative Tone = iota // below 5, or unrated
	ToneCaution              // 5 up to 7
	TonePositive             // 7 and above
)

// String returns the tone name used as a CSS class and in tests.
func (t Tone) String() string {
	switch t {
	case TonePositive:
		return "positive"
	case ToneCaution:
		return "caution"
	default:
		return "negative"
	}
}

// ToneFor classifies a raw vote average.
func ToneFor(v float64) Tone {
	switch {
	case v >= 7:
		return TonePositive
	case v >= 5:
		return ToneCaution
	default:
		return ToneNegative
	}
}

// VoteTone classifies a rating. Unrated movies get the negative tone.
func VoteTone(r tmdb.Rating) Tone {
	if !r.Valid {
		return ToneNegative
	}
	return ToneFor(r.Value)
}

// FormatVote renders a rating with one decimal, or "–" when unrated.
func FormatVote(r tmdb.Rating) string {
	if !r.Valid {
		return "–"
	}
	return strconv.FormatFloat(r.Value, 'f', 1, 64)
}

// FormatReleaseDate renders an ISO date as "Jan 2, 2006". Dates that do not
// parse are returned as-is.
func FormatReleaseDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "Unknown"
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return raw
	}
	return t.Format("Jan 2, 2006")
}

// FormatLanguage upper-cases an ISO 639-1 code.
func FormatLanguage(code string) string {
	if code == "" {
		return "N/A"
	}
	return strings.ToUpper(code)
}

// YesNo renders a flag the way the detail view shows it.
func YesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// UnknownGenre is the chip label for a genre id missing from the taxonomy.
func UnknownGenre(id int) string {
	return "Genre #" + strconv.Itoa(id)
}

// ErrorMessage is the fixed text a frontend shows for a failed fetch. The
// underlying error only goes to the log.
func ErrorMessage(err error) string {
	var (
		apiErr *tmdb.APIError
		netErr net.Error
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &apiErr):
		return fmt.Sprintf("TMDb API error %d", apiErr.StatusCode)
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return "request timed out"
	case errors.Is(err, context.Canceled):
		return "request cancelled"
	default:
		return "network error"
	}
}
