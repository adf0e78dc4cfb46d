package poll

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/werkgeheugen/backend/internal/models"
)

// GenerateSummary renders the shareable plain-text status report for
// an event. Section order is fixed: title, time, best date, all dates
// ranked, locations (when any), responded count, and either the list
// of participants who have not yet responded or an all-done line.
//
// A participant counts as responded once they cast a vote on at least
// one date, regardless of the vote's value.
func GenerateSummary(event *models.PollEvent, appURL string) string {
	responded := RespondedIDs(event)
	var notResponded []models.Participant
	for _, p := range event.Participants {
		if _, ok := responded[p.ID]; !ok {
			notResponded = append(notResponded, p)
		}
	}

	ranked := RankDates(event)

	var b strings.Builder
	fmt.Fprintf(&b, "📊 *%s* - Tussenstand\n\n", event.Title)
	fmt.Fprintf(&b, "⏰ Tijd: %s\n\n", event.Time)

	if len(ranked) > 0 {
		best := ranked[0]
		fmt.Fprintf(&b, "🏆 Beste optie: *%s* (%s%%)\n\n", best.Date.Label, formatPct(best.Percentage))
		b.WriteString("📅 Alle opties:\n")
		for _, score := range ranked {
			fmt.Fprintf(&b, "• %s: %s%%\n", score.Date.Label, formatPct(score.Percentage))
		}
	}

	if len(event.Locations) > 0 {
		b.WriteString("\n📍 Voorgestelde locaties:\n")
		for _, loc := range event.Locations {
			address := ""
			if loc.Address != "" {
				address = fmt.Sprintf(" (%s)", loc.Address)
			}
			fmt.Fprintf(&b, "• %s%s - %d stemmen\n", loc.Name, address, len(loc.Votes))
		}
	}

	fmt.Fprintf(&b, "\n✅ Gereageerd: %d/%d\n", len(responded), len(event.Participants))

	if len(notResponded) > 0 {
		b.WriteString("\n⏳ Nog niet gereageerd:\n")
		for _, p := range notResponded {
			fmt.Fprintf(&b, "• %s\n", p.Name)
		}
		fmt.Fprintf(&b, "\n👉 Vul je beschikbaarheid in: %s", appURL)
	} else {
		b.WriteString("\n🎉 Iedereen heeft gereageerd!")
	}

	return b.String()
}

// formatPct renders a percentage without a trailing ".0".
func formatPct(pct float64) string {
	return strconv.FormatFloat(pct, 'f', -1, 64)
}
