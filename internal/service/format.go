package service

import (
	"fmt"
	"strings"

	"github.com/omarshaarawi/ttfl/internal/defense"
	"github.com/omarshaarawi/ttfl/internal/models"
)

func trendMarker(t models.Trend) string {
	switch t {
	case models.TrendRising:
		return " ^"
	case models.TrendFalling:
		return " v"
	}
	return ""
}

func trendEmoji(t models.Trend) string {
	switch t {
	case models.TrendRising:
		return "🔥"
	case models.TrendFalling:
		return "❄️"
	}
	return ""
}

// FormatRecommendations renders the ranked list as a fixed-width table.
// verbose adds every factor of the score and the opponents' top defenders.
func FormatRecommendations(recs []models.PlayerRecommendation, date string, verbose bool) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("TTFL Picks for %s\n\n", date))

	if verbose {
		writeVerboseTable(&sb, recs)
	} else {
		writeCompactTable(&sb, recs)
	}

	sb.WriteString("\nLegend:\n")
	sb.WriteString("  ok = Available (no injury)\n")
	sb.WriteString("  ^  = Hot streak (score boosted)\n")
	sb.WriteString("  v  = Cold streak (score reduced)\n")
	sb.WriteString("  Questionable/Doubtful = Injury risk (score adjusted)\n")
	sb.WriteString("  Locked = Picked within the lock window\n")
	if !verbose {
		sb.WriteString("\nUse --verbose for detailed scoring breakdown.\n")
	}
	return sb.String()
}

func writeCompactTable(sb *strings.Builder, recs []models.PlayerRecommendation) {
	sb.WriteString("Top Recommendations (risk-adjusted):\n\n")
	sb.WriteString(fmt.Sprintf("%2s  %-25s %-5s %-5s %8s %9s  %s\n", "#", "Player", "Team", "vs", "Avg TTFL", "Adj Score", "Status"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	for i, r := range recs {
		sb.WriteString(fmt.Sprintf("%2d  %-25s %-5s %-5s %8.1f %9.1f%s  %s\n",
			i+1, r.Name, r.Team, r.OpponentTeam, r.SimpleAvg, r.FinalScore, trendMarker(r.Trend), r.StatusDisplay()))
	}
}

func writeVerboseTable(sb *strings.Builder, recs []models.PlayerRecommendation) {
	sb.WriteString("Top Recommendations (detailed breakdown):\n\n")
	sb.WriteString(fmt.Sprintf("%2s  %-20s %-4s %-4s %5s %5s %6s %5s %5s %6s  %s\n",
		"#", "Player", "Team", "vs", "Avg", "Form", "Trend", "Def", "Dfdr", "Final", "Status"))
	sb.WriteString(strings.Repeat("-", 95) + "\n")

	for i, r := range recs {
		defender := "1.00"
		if r.BestDefender != "" {
			defender = fmt.Sprintf("%.2f", r.DefenderFactor)
		}
		sb.WriteString(fmt.Sprintf("%2d  %-20s %-4s %-4s %5.1f %5.1f %6s %5.2f %5s %6.1f  %s\n",
			i+1, r.Name, r.Team, r.OpponentTeam, r.SimpleAvg, r.WeightedAvg, r.TrendDisplay(),
			r.DefenseFactor, defender, r.FinalScore, r.StatusDisplay()))
	}

	sb.WriteString("\nColumn Legend:\n")
	sb.WriteString("  Avg   = Simple average TTFL (last 10 games)\n")
	sb.WriteString("  Form  = Weighted average (recent games weighted more)\n")
	sb.WriteString("  Trend = Hot/cold trend adjustment\n")
	sb.WriteString("  Def   = Team defense factor (>1 = weak defense)\n")
	sb.WriteString("  Dfdr  = Best defender penalty (<1 = elite defender)\n")
	sb.WriteString("  Final = Risk-adjusted final score\n")

	seen := make(map[string]bool)
	var defenders []string
	for _, r := range recs {
		if r.BestDefender == "" || r.DefenderFactor >= 1.0 || seen[r.BestDefender] {
			continue
		}
		seen[r.BestDefender] = true
		tier := "Good"
		if r.DefenderFactor <= defense.EliteDefenderFactor {
			tier = "Elite"
		}
		defenders = append(defenders, fmt.Sprintf("  %s: %s (%s)\n", r.OpponentTeam, r.BestDefender, tier))
	}
	if len(defenders) > 0 {
		sb.WriteString("\nElite/Good Defenders on Opponents:\n")
		for _, d := range defenders {
			sb.WriteString(d)
		}
	}
}

func FormatPlan(plan models.Plan) string {
	if len(plan) == 0 {
		return "No picks planned - no games found for the requested dates."
	}

	var sb strings.Builder
	sb.WriteString("📅 TTFL Pick Plan\n")
	sb.WriteString(strings.Repeat("=", 60) + "\n\n")

	for _, day := range plan {
		p := day.Pick
		risk := ""
		if p.DNPRisk > 0 {
			risk = " ⚠️ " + p.InjuryStatus
		}

		sb.WriteString(fmt.Sprintf("📆 %s\n", day.Date.Format(DateLayout)))
		sb.WriteString(strings.TrimRight(fmt.Sprintf("   ➤ %s (%s vs %s) %s", p.Name, p.Team, p.OpponentTeam, trendEmoji(p.Trend)), " ") + "\n")
		sb.WriteString(fmt.Sprintf("     Expected: %.1f pts | Avg: %.1f%s\n", p.FinalScore, p.SimpleAvg, risk))

		if len(day.Alternatives) > 0 {
			alts := make([]string, 0, len(day.Alternatives))
			for _, a := range day.Alternatives {
				alts = append(alts, fmt.Sprintf("%s (%.0f)", a.Name, a.FinalScore))
			}
			sb.WriteString(fmt.Sprintf("     Alternatives: %s\n", strings.Join(alts, ", ")))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(strings.Repeat("-", 60) + "\n")
	sb.WriteString(fmt.Sprintf("📊 Total Expected: %.1f pts over %d days\n", plan.Total(), len(plan)))
	sb.WriteString(fmt.Sprintf("📈 Average per day: %.1f pts\n\n", plan.Average()))
	sb.WriteString("Note: Injury status may change. Check daily before picking.")
	return sb.String()
}

func FormatInjuries(injured []models.InjuredPlayer, date string) string {
	if len(injured) == 0 {
		return fmt.Sprintf("No notable injuries for the games on %s.", date)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🚑 *Notable Injuries for %s*\n\n", date))
	for _, p := range injured {
		sb.WriteString(fmt.Sprintf("• *%s* (%s) - %s\n", p.Name, p.Team, p.Status))
	}
	return sb.String()
}

func FormatLocks(names []string, lockDays int, ignored bool) string {
	if ignored {
		return "Lock check disabled: no TTFL cookie file."
	}
	if len(names) == 0 {
		return fmt.Sprintf("No players locked by picks of the last %d days.", lockDays)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🔒 *Locked players (%d)*\n\n", len(names)))
	for _, n := range names {
		sb.WriteString(fmt.Sprintf("• %s\n", n))
	}
	return sb.String()
}

// FormatPicksMessage is the Markdown version of the recommendations sent to
// chats.
func FormatPicksMessage(recs []models.PlayerRecommendation, date, firstGame string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🏀 *TTFL Picks for %s*\n", date))
	if firstGame != "" {
		sb.WriteString(fmt.Sprintf("⏰ Pick before %s\n", firstGame))
	}
	sb.WriteString("\n")

	if len(recs) == 0 {
		sb.WriteString("No recommendations: no games or no eligible players.")
		return sb.String()
	}

	for i, r := range recs {
		sb.WriteString(fmt.Sprintf("%d. *%s* (%s vs %s) - %.1f pts", i+1, r.Name, r.Team, r.OpponentTeam, r.FinalScore))
		if e := trendEmoji(r.Trend); e != "" {
			sb.WriteString(" " + e)
		}
		if status := r.StatusDisplay(); status != "ok" {
			sb.WriteString(" ⚠️ " + status)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func FormatPlayer(r models.PlayerRecommendation, date string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*%s* (%s vs %s)\n", r.Name, r.Team, r.OpponentTeam))
	sb.WriteString("━━━━━━━━━━━━━━━━\n")
	sb.WriteString(fmt.Sprintf("%s\n\n", date))
	sb.WriteString(fmt.Sprintf("Expected: %.1f pts\n", r.FinalScore))
	sb.WriteString(fmt.Sprintf("Average: %.1f over %d games\n", r.SimpleAvg, r.GamesPlayed))
	sb.WriteString(fmt.Sprintf("Form: %.1f (trend %s, consistency %.2f)\n", r.WeightedAvg, r.TrendDisplay(), r.ConsistencyFactor))
	sb.WriteString(fmt.Sprintf("Defense: %.2f\n", r.DefenseFactor))
	if r.BestDefender != "" {
		sb.WriteString(fmt.Sprintf("Best defender: %s (%.2f)\n", r.BestDefender, r.DefenderFactor))
	}
	sb.WriteString(fmt.Sprintf("Status: %s", r.StatusDisplay()))
	return sb.String()
}
