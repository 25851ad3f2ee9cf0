package web

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vadimtrunov/moviedeck/internal/dashboard"
)

const trailerPrefix = "Trailer: "

var templateFuncs = template.FuncMap{
	"pageLabel": func(v dashboard.View) string {
		if v.TotalPages > 0 {
			return fmt.Sprintf("Page %d of %d", v.Page, v.TotalPages)
		}
		return fmt.Sprintf("Page %d", v.Page)
	},
}

// pageData is what the dashboard template renders.
type pageData struct {
	View       dashboard.View
	Notice     string
	TrailerURL string
	MenuItems  []string
}

func newPageData(v dashboard.View) pageData {
	d := pageData{
		View:      v,
		Notice:    v.Notice,
		MenuItems: dashboard.MenuItems,
	}
	if link, ok := strings.CutPrefix(v.Notice, trailerPrefix); ok {
		d.Notice = ""
		d.TrailerURL = link
	}
	return d
}

// loadContext detaches catalog loads from the request so a client that
// goes away mid-load does not leave the session half loaded.
func loadContext(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	session := s.sessionFor(w, r)
	session.Ensure(loadContext(r))

	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "dashboard.html", newPageData(session.View())); err != nil {
		s.logger.Error("render dashboard", slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// handleCardAction applies a per-movie action taken from the {id} path segment.
func (s *Server) handleCardAction(kind dashboard.ActionKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil || id <= 0 {
			http.Error(w, "invalid movie id", http.StatusBadRequest)
			return
		}
		s.apply(w, r, dashboard.Action{Kind: kind, MovieID: id})
	}
}

// handleAction applies a page-level action.
func (s *Server) handleAction(kind dashboard.ActionKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.apply(w, r, dashboard.Action{Kind: kind})
	}
}

func (s *Server) apply(w http.ResponseWriter, r *http.Request, a dashboard.Action) {
	session := s.sessionFor(w, r)
	ctx := loadContext(r)
	session.Ensure(ctx)
	if err := session.Do(ctx, a); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
