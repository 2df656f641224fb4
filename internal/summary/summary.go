// Package summary renders finalized games as shareable plain text.
package summary

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/abrezinsky/hockeyscorer/internal/models"
)

// FormatGameSummary renders a game as text suitable for pasting into a
// message. Only active players are listed, alphabetically. Notes among
// entries are appended in the order given.
func FormatGameSummary(game models.GameResult, entries []models.LogEntry) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Game Summary (%s)\n", FormatDateForDisplay(game.Date))
	if len(game.Teams) >= 2 {
		home, away := game.Teams[0], game.Teams[1]
		fmt.Fprintf(&b, "%s %d - %d %s\n\n", home.Name, home.TotalScore, away.TotalScore, away.Name)
	} else {
		b.WriteString("\n")
	}

	coll := collate.New(language.English)
	for _, team := range game.Teams {
		fmt.Fprintf(&b, "%s:\n", team.Name)
		if len(team.Players) == 0 {
			b.WriteString("- No players\n")
		}

		var active []models.Player
		for _, p := range team.Players {
			if p.Active {
				active = append(active, p)
			}
		}
		sort.SliceStable(active, func(i, j int) bool {
			return coll.CompareString(active[i].Name, active[j].Name) < 0
		})
		for _, p := range active {
			switch {
			case p.Score == 1:
				fmt.Fprintf(&b, "- %s: 1 goal\n", p.Name)
			case p.Score > 1:
				fmt.Fprintf(&b, "- %s: %d goals\n", p.Name, p.Score)
			default:
				fmt.Fprintf(&b, "- %s\n", p.Name)
			}
		}
		b.WriteString("\n")
	}

	var notes []string
	for _, e := range entries {
		if e.Type == models.LogTypeNote {
			notes = append(notes, e.Content)
		}
	}
	if len(notes) > 0 {
		b.WriteString("Notes:\n")
		for _, n := range notes {
			fmt.Fprintf(&b, "- %s\n", n)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// FormatDateForDisplay turns 2025-05-12 into "Monday, 12th May 2025".
// Dates that do not parse are returned unchanged.
func FormatDateForDisplay(date string) string {
	t, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return date
	}
	day := t.Day()
	return fmt.Sprintf("%s, %d%s %s %d", t.Weekday(), day, ordinalSuffix(day), t.Month(), t.Year())
}

func ordinalSuffix(day int) string {
	switch day {
	case 1, 21, 31:
		return "st"
	case 2, 22:
		return "nd"
	case 3, 23:
		return "rd"
	default:
		return "th"
	}
}
