package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vadimtrunov/moviedeck/internal/dashboard"
)

const (
	// header (2) + navigation (1) + status (1) + short help (1)
	chromeHeight = 5

	// Below this width an open menu replaces the card list.
	menuBreakpoint = 100
	menuWidth      = 24
)

var (
	styleCard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)

	styleCardSelected = styleCard.BorderForeground(lipgloss.Color("12"))

	styleCardTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))

	styleChip = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("6")).
			Padding(0, 1)

	styleMenu = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("5")).
			Padding(0, 1).
			Width(menuWidth - 2)

	styleWatchlisted = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// toneStyle maps a vote tone to its color.
func toneStyle(t dashboard.Tone) lipgloss.Style {
	switch t {
	case dashboard.TonePositive:
		return styleSuccess
	case dashboard.ToneCaution:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	default:
		return styleError
	}
}

// View renders the dashboard.
func (m browseModel) View() string {
	if !m.ready {
		return "Initializing..."
	}
	v := m.state.View()

	title := styleHeader.UnsetMarginBottom().Render("Popular Movies") + "  " + styleDim.Render(pageLabel(v))
	if v.Loading {
		title += " " + m.spinner.View()
	}
	header := lipgloss.NewStyle().MarginBottom(1).Render(title)

	body := m.viewport.View()
	if v.MenuOpen {
		menu := renderMenu()
		if m.width >= menuBreakpoint {
			body = lipgloss.JoinHorizontal(lipgloss.Top, body, " ", menu)
		} else {
			body = menu
		}
	}

	return strings.Join([]string{
		header,
		body,
		renderNav(v),
		renderStatus(v),
		m.help.View(m.keys),
	}, "\n")
}

// listWidth is the width available to the card list.
func (m browseModel) listWidth() int {
	if m.state.MenuOpen() && m.width >= menuBreakpoint {
		return max(m.width-menuWidth-1, 1)
	}
	return max(m.width, 1)
}

// renderCards draws every card and returns the first and last line of the
// highlighted one.
func (m *browseModel) renderCards() (content string, top, bottom int) {
	m.viewport.Width = m.listWidth()
	v := m.state.View()

	if len(v.Cards) == 0 {
		switch {
		case v.Loading:
			return styleDim.Render("Loading popular movies..."), 0, 0
		case v.Err != "":
			return styleError.Render("Could not load movies: " + v.Err), 0, 0
		default:
			return styleDim.Render("No movies on this page."), 0, 0
		}
	}

	var (
		b    strings.Builder
		line int
	)
	for i, c := range v.Cards {
		card := renderCard(c, m.viewport.Width)
		h := lipgloss.Height(card)
		if c.Selected {
			top, bottom = line, line+h
		}
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(card)
		line += h
	}
	return b.String(), top, bottom
}

// renderCard draws one movie card, with details when expanded.
func renderCard(c dashboard.Card, width int) string {
	marker := "▸"
	if c.Expanded {
		marker = "▾"
	}
	title := styleCardTitle.Render(marker + " " + c.Title)
	if c.Watchlisted {
		title += " " + styleWatchlisted.Render("★")
	}

	lines := []string{
		title,
		toneStyle(c.Tone).Render("● "+c.Vote) + "  " + styleDim.Render("Release date: "+c.ReleaseDate),
	}

	inner := max(width-4, 10)
	if c.Expanded {
		lines = append(lines,
			"",
			field("Original Language", c.Language),
			field("Adult Content", c.Adult),
			field("Vote Count", strconv.Itoa(c.VoteCount)),
			renderChips(c.Genres, inner),
			"",
			lipgloss.NewStyle().Width(inner).Render(c.Overview),
		)
		if c.PosterURL != "" {
			lines = append(lines, "", styleDim.Render("Poster: "+c.PosterURL))
		}
		watch := "[w] Add to Watchlist"
		if c.Watchlisted {
			watch = "[w] Remove from Watchlist"
		}
		lines = append(lines, styleInfo.Render("[t] Watch Trailer  "+watch+"  [x] Remove"))
	}

	style := styleCard
	if c.Selected {
		style = styleCardSelected
	}
	return style.Width(max(width-2, 1)).Render(strings.Join(lines, "\n"))
}

func field(label, value string) string {
	return styleDim.Render(label+": ") + value
}

// renderChips lays genre names out as chips, wrapping at width.
func renderChips(genres []string, width int) string {
	if len(genres) == 0 {
		return styleDim.Render("No genres")
	}
	var (
		rows []string
		row  []string
		used int
	)
	for _, g := range genres {
		chip := styleChip.Render(g)
		w := lipgloss.Width(chip) + 1
		if used > 0 && used+w > width {
			rows = append(rows, strings.Join(row, " "))
			row, used = nil, 0
		}
		row = append(row, chip)
		used += w
	}
	rows = append(rows, strings.Join(row, " "))
	return strings.Join(rows, "\n")
}

func renderMenu() string {
	lines := []string{styleCardTitle.Render("Main Menu"), ""}
	for _, item := range dashboard.MenuItems {
		lines = append(lines, "  "+item)
	}
	return styleMenu.Render(strings.Join(lines, "\n"))
}

func renderNav(v dashboard.View) string {
	prev := styleDim.Render("[←] Previous Page")
	if v.CanPrev {
		prev = styleInfo.Render("[←] Previous Page")
	}
	next := styleDim.Render("[→] Next Page")
	if v.CanNext {
		next = styleInfo.Render("[→] Next Page")
	}
	return prev + "   " + next
}

func renderStatus(v dashboard.View) string {
	switch {
	case v.Notice != "":
		return styleSuccess.Render(v.Notice)
	case v.Err != "" && len(v.Cards) > 0:
		return styleError.Render("Could not refresh: " + v.Err)
	default:
		return ""
	}
}

func pageLabel(v dashboard.View) string {
	if v.TotalPages > 0 {
		return fmt.Sprintf("Page %d of %d", v.Page, v.TotalPages)
	}
	return fmt.Sprintf("Page %d", v.Page)
}
