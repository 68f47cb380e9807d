package nba

import (
	"fmt"
	"strconv"
	"time"
)

type Team struct {
	ID     int
	Abbrev string
	Name   string
}

var teams = map[int]Team{
	1610612737: {1610612737, "ATL", "Atlanta Hawks"},
	1610612738: {1610612738, "BOS", "Boston Celtics"},
	1610612739: {1610612739, "CLE", "Cleveland Cavaliers"},
	1610612740: {1610612740, "NOP", "New Orleans Pelicans"},
	1610612741: {1610612741, "CHI", "Chicago Bulls"},
	1610612742: {1610612742, "DAL", "Dallas Mavericks"},
	1610612743: {1610612743, "DEN", "Denver Nuggets"},
	1610612744: {1610612744, "GSW", "Golden State Warriors"},
	1610612745: {1610612745, "HOU", "Houston Rockets"},
	1610612746: {1610612746, "LAC", "LA Clippers"},
	1610612747: {1610612747, "LAL", "Los Angeles Lakers"},
	1610612748: {1610612748, "MIA", "Miami Heat"},
	1610612749: {1610612749, "MIL", "Milwaukee Bucks"},
	1610612750: {1610612750, "MIN", "Minnesota Timberwolves"},
	1610612751: {1610612751, "BKN", "Brooklyn Nets"},
	1610612752: {1610612752, "NYK", "New York Knicks"},
	1610612753: {1610612753, "ORL", "Orlando Magic"},
	1610612754: {1610612754, "IND", "Indiana Pacers"},
	1610612755: {1610612755, "PHI", "Philadelphia 76ers"},
	1610612756: {1610612756, "PHX", "Phoenix Suns"},
	1610612757: {1610612757, "POR", "Portland Trail Blazers"},
	1610612758: {1610612758, "SAC", "Sacramento Kings"},
	1610612759: {1610612759, "SAS", "San Antonio Spurs"},
	1610612760: {1610612760, "OKC", "Oklahoma City Thunder"},
	1610612761: {1610612761, "TOR", "Toronto Raptors"},
	1610612762: {1610612762, "UTA", "Utah Jazz"},
	1610612763: {1610612763, "MEM", "Memphis Grizzlies"},
	1610612764: {1610612764, "WAS", "Washington Wizards"},
	1610612765: {1610612765, "DET", "Detroit Pistons"},
	1610612766: {1610612766, "CHA", "Charlotte Hornets"},
}

// TeamAbbrev returns the team abbreviation, "?" for 0 and the numeric id for
// unknown teams.
func TeamAbbrev(teamID int) string {
	if teamID == 0 {
		return "?"
	}
	if t, ok := teams[teamID]; ok {
		return t.Abbrev
	}
	return strconv.Itoa(teamID)
}

func TeamName(teamID int) string {
	if t, ok := teams[teamID]; ok {
		return t.Name
	}
	return strconv.Itoa(teamID)
}

// CurrentSeason returns the season string for a date, e.g. "2025-26".
// Seasons start in October.
func CurrentSeason(now time.Time) string {
	start := now.Year()
	if now.Month() < time.October {
		start--
	}
	return fmt.Sprintf("%d-%02d", start, (start+1)%100)
}
