package dashboard

import (
	"fmt"
	"strconv"
	"strings"
)

// ActionKind names a user interaction with the dashboard.
type ActionKind string

const (
	ActionToggle    ActionKind = "toggle"
	ActionRemove    ActionKind = "remove"
	ActionWatchlist ActionKind = "watchlist"
	ActionTrailer   ActionKind = "trailer"
	ActionNext      ActionKind = "next"
	ActionPrev      ActionKind = "prev"
	ActionMenu      ActionKind = "menu"
)

// Action is a parsed interaction. MovieID is set for card actions only.
type Action struct {
	Kind    ActionKind
	MovieID int
}

// NeedsMovie reports whether the action targets a card.
func (k ActionKind) NeedsMovie() bool {
	switch k {
	case ActionToggle, ActionRemove, ActionWatchlist, ActionTrailer:
		return true
	}
	return false
}

// NewAction validates a kind and id pair.
func NewAction(kind string, movieID int) (Action, error) {
	k := ActionKind(strings.ToLower(strings.TrimSpace(kind)))
	switch k {
	case ActionToggle, ActionRemove, ActionWatchlist, ActionTrailer:
		if movieID <= 0 {
			return Action{}, fmt.Errorf("action %s needs a movie id", k)
		}
		return Action{Kind: k, MovieID: movieID}, nil
	case ActionNext, ActionPrev, ActionMenu:
		return Action{Kind: k}, nil
	}
	return Action{}, fmt.Errorf("unknown action %q", kind)
}

// Encode returns the compact "kind[:id]" form used in callback data.
func (a Action) Encode() string {
	if a.Kind.NeedsMovie() {
		return string(a.Kind) + ":" + strconv.Itoa(a.MovieID)
	}
	return string(a.Kind)
}

// ParseAction is the inverse of Encode.
func ParseAction(s string) (Action, error) {
	kind, rawID, hasID := strings.Cut(s, ":")
	id := 0
	if hasID {
		n, err := strconv.Atoi(rawID)
		if err != nil {
			return Action{}, fmt.Errorf("invalid movie id %q: %w", rawID, err)
		}
		id = n
	}
	return NewAction(kind, id)
}
