package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vadimtrunov/moviedeck/internal/dashboard"
)

const callbackPrefix = "dk:" // prefix for dashboard callback data

// callbackData encodes an action as inline-button callback data.
func callbackData(a dashboard.Action) string {
	return callbackPrefix + a.Encode()
}

// parseCallback decodes callback data produced by callbackData.
func parseCallback(data string) (dashboard.Action, error) {
	raw, ok := strings.CutPrefix(data, callbackPrefix)
	if !ok {
		return dashboard.Action{}, fmt.Errorf("not a dashboard callback: %q", data)
	}
	return dashboard.ParseAction(raw)
}

func button(label string, a dashboard.Action) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(label, callbackData(a))
}

// buildKeyboard builds the inline keyboard for a view: one toggle button
// per card, the action row of the expanded card, and the navigation row.
func buildKeyboard(v dashboard.View) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	for i, c := range v.Cards {
		marker := "▸"
		if c.Expanded {
			marker = "▾"
		}
		label := fmt.Sprintf("%s %d. %s", marker, i+1, truncate(c.Title, maxButtonLabel))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			button(label, dashboard.Action{Kind: dashboard.ActionToggle, MovieID: c.ID}),
		))

		if c.Expanded {
			watch := "☆ Watchlist"
			if c.Watchlisted {
				watch = "★ Watchlist"
			}
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				button("🎬 Trailer", dashboard.Action{Kind: dashboard.ActionTrailer, MovieID: c.ID}),
				button(watch, dashboard.Action{Kind: dashboard.ActionWatchlist, MovieID: c.ID}),
				button("✖ Remove", dashboard.Action{Kind: dashboard.ActionRemove, MovieID: c.ID}),
			))
		}
	}

	var nav []tgbotapi.InlineKeyboardButton
	if v.CanPrev {
		nav = append(nav, button("« Previous", dashboard.Action{Kind: dashboard.ActionPrev}))
	}
	menu := "☰ Menu"
	if v.MenuOpen {
		menu = "✕ Close menu"
	}
	nav = append(nav, button(menu, dashboard.Action{Kind: dashboard.ActionMenu}))
	if v.CanNext {
		nav = append(nav, button("Next »", dashboard.Action{Kind: dashboard.ActionNext}))
	}
	rows = append(rows, nav)

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
