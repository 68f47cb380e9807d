package nba

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/omarshaarawi/ttfl/internal/models"
	"github.com/omarshaarawi/ttfl/internal/ttfl"
)

const (
	seasonType      = "Regular Season"
	minDefenderMins = 15
)

type API struct {
	client *Client
	season string
}

func NewAPI(client *Client, season string) *API {
	if season == "" {
		season = CurrentSeason(time.Now())
	}
	return &API{client: client, season: season}
}

func (a *API) Season() string {
	return a.season
}

// GamesOn returns the games scheduled on a date.
func (a *API) GamesOn(ctx context.Context, date time.Time) ([]models.Game, error) {
	var resp models.StatsResponse
	params := map[string]string{
		"GameDate":  date.Format("01/02/2006"),
		"LeagueID":  "00",
		"DayOffset": "0",
	}

	if err := a.client.Get(ctx, "scoreboardv2", params, &resp); err != nil {
		return nil, fmt.Errorf("fetching scoreboard: %w", err)
	}

	rs, ok := resp.Set("GameHeader")
	if !ok {
		rs, _ = resp.First()
	}

	seen := make(map[string]bool)
	var games []models.Game
	for _, row := range rs.Rows() {
		id := row.String("GAME_ID")
		if seen[id] {
			continue
		}
		seen[id] = true
		games = append(games, models.Game{
			GameID:     id,
			HomeTeamID: row.Int("HOME_TEAM_ID"),
			AwayTeamID: row.Int("VISITOR_TEAM_ID"),
			StatusText: strings.TrimSpace(row.String("GAME_STATUS_TEXT")),
		})
	}
	return games, nil
}

func (a *API) Roster(ctx context.Context, teamID int) ([]models.Player, error) {
	var resp models.StatsResponse
	params := map[string]string{
		"TeamID":   strconv.Itoa(teamID),
		"Season":   a.season,
		"LeagueID": "00",
	}

	if err := a.client.Get(ctx, "commonteamroster", params, &resp); err != nil {
		return nil, fmt.Errorf("fetching roster for team %d: %w", teamID, err)
	}

	rs, ok := resp.Set("CommonTeamRoster")
	if !ok {
		rs, _ = resp.First()
	}

	var players []models.Player
	for _, row := range rs.Rows() {
		players = append(players, models.Player{
			ID:     row.Int("PLAYER_ID"),
			Name:   row.String("PLAYER"),
			TeamID: teamID,
			Team:   TeamAbbrev(teamID),
		})
	}
	return players, nil
}

// PlayersOn returns every rostered player whose team plays on the date, with
// the opponent resolved, plus the games themselves. The scoreboard is
// required; a roster that cannot be fetched is skipped.
func (a *API) PlayersOn(ctx context.Context, date time.Time) ([]models.Player, []models.Game, error) {
	games, err := a.GamesOn(ctx, date)
	if err != nil {
		return nil, nil, err
	}
	if len(games) == 0 {
		return nil, nil, nil
	}

	opponents := make(map[int]int)
	for _, g := range games {
		for _, teamID := range []int{g.HomeTeamID, g.AwayTeamID} {
			opponents[teamID] = g.OpponentOf(teamID)
		}
	}

	teamIDs := make([]int, 0, len(opponents))
	for id := range opponents {
		teamIDs = append(teamIDs, id)
	}
	sort.Ints(teamIDs)

	var players []models.Player
	for _, teamID := range teamIDs {
		roster, err := a.Roster(ctx, teamID)
		if err != nil {
			if ctx.Err() != nil {
				return nil, nil, ctx.Err()
			}
			slog.Warn("Could not fetch roster", "team", TeamAbbrev(teamID), "error", err)
			continue
		}
		for _, p := range roster {
			p.OpponentTeamID = opponents[teamID]
			players = append(players, p)
		}
	}
	return players, games, nil
}

// GameLogs returns up to lastN of the player's games this season, most recent
// first, with TTFL scores computed.
func (a *API) GameLogs(ctx context.Context, playerID, lastN int) ([]models.GameLog, error) {
	var resp models.StatsResponse
	params := map[string]string{
		"PlayerID":   strconv.Itoa(playerID),
		"Season":     a.season,
		"SeasonType": seasonType,
	}

	if err := a.client.Get(ctx, "playergamelog", params, &resp); err != nil {
		return nil, fmt.Errorf("fetching game logs for player %d: %w", playerID, err)
	}

	rs, _ := resp.First()
	rows := rs.Rows()
	if lastN > 0 && len(rows) > lastN {
		rows = rows[:lastN]
	}

	logs := make([]models.GameLog, 0, len(rows))
	for _, row := range rows {
		line := models.BoxScoreLine{
			Points:    row.Int("PTS"),
			Rebounds:  row.Int("REB"),
			Assists:   row.Int("AST"),
			Steals:    row.Int("STL"),
			Blocks:    row.Int("BLK"),
			FGM:       row.Int("FGM"),
			FGA:       row.Int("FGA"),
			FG3M:      row.Int("FG3M"),
			FG3A:      row.Int("FG3A"),
			FTM:       row.Int("FTM"),
			FTA:       row.Int("FTA"),
			Turnovers: row.Int("TOV"),
		}
		logs = append(logs, models.GameLog{
			GameDate: row.String("GAME_DATE"),
			Matchup:  row.String("MATCHUP"),
			Minutes:  row.Float("MIN"),
			Line:     line,
			Score:    ttfl.Score(line),
		})
	}
	return logs, nil
}

func leagueDashParams(season, measureType string) map[string]string {
	return map[string]string{
		"Season":         season,
		"SeasonType":     seasonType,
		"MeasureType":    measureType,
		"PerMode":        "PerGame",
		"LeagueID":       "00",
		"LastNGames":     "0",
		"Month":          "0",
		"OpponentTeamID": "0",
		"PaceAdjust":     "N",
		"Period":         "0",
		"PlusMinus":      "N",
		"Rank":           "N",
		"TeamID":         "0",
	}
}

// TeamOpponentStats returns what each team allows per game.
func (a *API) TeamOpponentStats(ctx context.Context) ([]models.TeamOpponentStats, error) {
	var resp models.StatsResponse
	if err := a.client.Get(ctx, "leaguedashteamstats", leagueDashParams(a.season, "Opponent"), &resp); err != nil {
		return nil, fmt.Errorf("fetching team defense stats: %w", err)
	}

	rs, _ := resp.First()
	var stats []models.TeamOpponentStats
	for _, row := range rs.Rows() {
		teamID := row.Int("TEAM_ID")
		name := row.String("TEAM_NAME")
		if name == "" {
			name = TeamName(teamID)
		}
		stats = append(stats, models.TeamOpponentStats{
			TeamID:   teamID,
			TeamName: name,
			OppPTS:   row.Float("OPP_PTS"),
			OppREB:   row.Float("OPP_REB"),
			OppAST:   row.Float("OPP_AST"),
			OppFGM:   row.Float("OPP_FGM"),
			OppFGA:   row.Float("OPP_FGA"),
			OppFG3M:  row.Float("OPP_FG3M"),
			OppFG3A:  row.Float("OPP_FG3A"),
			OppFTM:   row.Float("OPP_FTM"),
			OppFTA:   row.Float("OPP_FTA"),
			OppTOV:   row.Float("OPP_TOV"),
		})
	}
	return stats, nil
}

// PlayerDefenseStats returns individual defensive metrics for players
// averaging at least 15 minutes.
func (a *API) PlayerDefenseStats(ctx context.Context) ([]models.PlayerDefenseStats, error) {
	var resp models.StatsResponse
	if err := a.client.Get(ctx, "leaguedashplayerstats", leagueDashParams(a.season, "Defense"), &resp); err != nil {
		return nil, fmt.Errorf("fetching defender stats: %w", err)
	}

	rs, _ := resp.First()
	var stats []models.PlayerDefenseStats
	for _, row := range rs.Rows() {
		if row.Float("MIN") < minDefenderMins {
			continue
		}
		stats = append(stats, models.PlayerDefenseStats{
			PlayerID:     row.Int("PLAYER_ID"),
			PlayerName:   row.String("PLAYER_NAME"),
			TeamID:       row.Int("TEAM_ID"),
			GamesPlayed:  row.Float("GP"),
			Minutes:      row.Float("MIN"),
			DefRating:    row.FloatOr("DEF_RATING", 110),
			DefWinShares: row.Float("DEF_WS"),
			Steals:       row.Float("STL"),
			Blocks:       row.Float("BLK"),
		})
	}
	return stats, nil
}

// EarliestGameTime returns the status text of the earliest upcoming game
// ("7:00 pm ET"), or "" when no scheduled tip-off can be read.
func EarliestGameTime(games []models.Game) string {
	var earliest time.Time
	var text string
	for _, g := range games {
		t, ok := parseTipOff(g.StatusText)
		if !ok {
			continue
		}
		if text == "" || t.Before(earliest) {
			earliest, text = t, g.StatusText
		}
	}
	return text
}

func parseTipOff(status string) (time.Time, bool) {
	s := strings.ToLower(strings.TrimSpace(status))
	s = strings.TrimSpace(strings.TrimSuffix(s, "et"))
	t, err := time.Parse("3:04 pm", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
