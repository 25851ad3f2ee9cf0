package telegram

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/vadimtrunov/moviedeck/internal/dashboard"
)

// mdV2Replacer escapes special characters for Telegram MarkdownV2.
var mdV2Replacer = strings.NewReplacer(
	`\`, `\\`,
	"_", "\\_",
	"*", "\\*",
	"[", "\\[",
	"]", "\\]",
	"(", "\\(",
	")", "\\)",
	"~", "\\~",
	"`", "\\`",
	">", "\\>",
	"#", "\\#",
	"+", "\\+",
	"-", "\\-",
	"=", "\\=",
	"|", "\\|",
	"{", "\\{",
	"}", "\\}",
	".", "\\.",
	"!", "\\!",
)

// Inside the (...) part of an inline link only these two need escaping.
var mdV2URLReplacer = strings.NewReplacer(`\`, `\\`, ")", "\\)")

// Inside code spans only backslash and backtick need escaping.
var mdV2CodeReplacer = strings.NewReplacer(`\`, `\\`, "`", "\\`")

const (
	maxButtonLabel = 30  // max characters in inline keyboard button label
	maxOverview    = 700 // overview runes kept in the expanded card
	trailerPrefix  = "Trailer: "
)

// EscapeMdV2 escapes a string for safe use in Telegram MarkdownV2.
func EscapeMdV2(s string) string {
	return mdV2Replacer.Replace(s)
}

// FormatBold returns MarkdownV2 bold text.
func FormatBold(s string) string {
	return "*" + EscapeMdV2(s) + "*"
}

// FormatItalic returns MarkdownV2 italic text.
func FormatItalic(s string) string {
	return "_" + EscapeMdV2(s) + "_"
}

// FormatLink returns a MarkdownV2 inline link.
func FormatLink(label, url string) string {
	return "[" + EscapeMdV2(label) + "](" + mdV2URLReplacer.Replace(url) + ")"
}

// toneMarker is the colored dot shown next to a vote.
func toneMarker(t dashboard.Tone) string {
	switch t {
	case dashboard.TonePositive:
		return "🟢"
	case dashboard.ToneCaution:
		return "🟡"
	default:
		return "🔴"
	}
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "…"
}

func pageLabel(v dashboard.View) string {
	if v.TotalPages > 0 {
		return fmt.Sprintf("Page %d of %d", v.Page, v.TotalPages)
	}
	return fmt.Sprintf("Page %d", v.Page)
}

// renderDashboard renders a view as a MarkdownV2 message body.
func renderDashboard(v dashboard.View) string {
	var b strings.Builder

	b.WriteString(FormatBold("Popular Movies"))
	b.WriteString(" " + EscapeMdV2("· "+pageLabel(v)) + "\n")

	if v.MenuOpen {
		b.WriteString("\n" + FormatBold("Main Menu") + "\n")
		for _, item := range dashboard.MenuItems {
			b.WriteString(EscapeMdV2("• "+item) + "\n")
		}
	}

	if link, ok := strings.CutPrefix(v.Notice, trailerPrefix); ok {
		b.WriteString("\n" + FormatLink("▶ Watch the trailer", link) + "\n")
	} else if v.Notice != "" {
		b.WriteString("\n" + FormatItalic(v.Notice) + "\n")
	}
	if v.Err != "" {
		b.WriteString("\n" + EscapeMdV2("⚠ Could not load movies: "+v.Err) + "\n")
	}

	b.WriteString("\n")
	if len(v.Cards) == 0 {
		if v.Loading {
			b.WriteString(EscapeMdV2("Loading popular movies..."))
		} else {
			b.WriteString(EscapeMdV2("No movies on this page."))
		}
		return b.String()
	}

	for i, c := range v.Cards {
		b.WriteString(renderCard(i+1, c))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderCard renders one card: a summary line, plus details when expanded.
func renderCard(n int, c dashboard.Card) string {
	var b strings.Builder

	title := FormatBold(c.Title)
	if c.Watchlisted {
		title += " ⭐"
	}
	fmt.Fprintf(&b, "%s %s %s %s %s\n",
		EscapeMdV2(fmt.Sprintf("%d.", n)),
		title,
		toneMarker(c.Tone),
		EscapeMdV2(c.Vote),
		EscapeMdV2("· "+c.ReleaseDate),
	)
	if !c.Expanded {
		return b.String()
	}

	fmt.Fprintf(&b, "%s %s\n", FormatItalic("Original Language:"), EscapeMdV2(c.Language))
	fmt.Fprintf(&b, "%s %s\n", FormatItalic("Adult Content:"), EscapeMdV2(c.Adult))
	fmt.Fprintf(&b, "%s %d\n", FormatItalic("Vote Count:"), c.VoteCount)
	if len(c.Genres) > 0 {
		chips := make([]string, len(c.Genres))
		for i, g := range c.Genres {
			chips[i] = "`" + mdV2CodeReplacer.Replace(g) + "`"
		}
		fmt.Fprintf(&b, "%s %s\n", FormatItalic("Genres:"), strings.Join(chips, " "))
	}
	b.WriteString(EscapeMdV2(truncate(c.Overview, maxOverview)) + "\n")
	if c.PosterURL != "" {
		b.WriteString(FormatLink("Poster", c.PosterURL) + "\n")
	}
	return b.String()
}
