package models

import (
	"strconv"
	"strings"
)

type StatsResponse struct {
	Resource   string      `json:"resource"`
	ResultSets []ResultSet `json:"resultSets"`
}

type ResultSet struct {
	Name    string   `json:"name"`
	Headers []string `json:"headers"`
	RowSet  [][]any  `json:"rowSet"`
}

// Row is one stats.nba.com result row keyed by upper-case column header.
type Row map[string]any

func (s StatsResponse) Set(name string) (ResultSet, bool) {
	for _, rs := range s.ResultSets {
		if rs.Name == name {
			return rs, true
		}
	}
	return ResultSet{}, false
}

// First returns the first result set, which is the primary table for every
// endpoint this package decodes.
func (s StatsResponse) First() (ResultSet, bool) {
	if len(s.ResultSets) == 0 {
		return ResultSet{}, false
	}
	return s.ResultSets[0], true
}

func (rs ResultSet) Rows() []Row {
	rows := make([]Row, 0, len(rs.RowSet))
	for _, values := range rs.RowSet {
		row := make(Row, len(rs.Headers))
		for i, header := range rs.Headers {
			if i < len(values) {
				row[strings.ToUpper(header)] = values[i]
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// Float returns the numeric value of a column. Missing and null values are 0.
func (r Row) Float(key string) float64 {
	switch v := r[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

func (r Row) FloatOr(key string, fallback float64) float64 {
	if r[key] == nil {
		return fallback
	}
	return r.Float(key)
}

func (r Row) Int(key string) int {
	return int(r.Float(key))
}

func (r Row) String(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

type Game struct {
	GameID     string
	HomeTeamID int
	AwayTeamID int
	StatusText string
}

// OpponentOf returns the other team in the game, or 0 when teamID is not playing.
func (g Game) OpponentOf(teamID int) int {
	switch teamID {
	case g.HomeTeamID:
		return g.AwayTeamID
	case g.AwayTeamID:
		return g.HomeTeamID
	}
	return 0
}

type Player struct {
	ID             int
	Name           string
	TeamID         int
	Team           string
	OpponentTeamID int
}

type BoxScoreLine struct {
	Points    int `json:"pts"`
	Rebounds  int `json:"reb"`
	Assists   int `json:"ast"`
	Steals    int `json:"stl"`
	Blocks    int `json:"blk"`
	FGM       int `json:"fgm"`
	FGA       int `json:"fga"`
	FG3M      int `json:"fg3m"`
	FG3A      int `json:"fg3a"`
	FTM       int `json:"ftm"`
	FTA       int `json:"fta"`
	Turnovers int `json:"tov"`
}

type GameLog struct {
	GameDate string
	Matchup  string
	Minutes  float64
	Line     BoxScoreLine
	Score    int
}

type TeamOpponentStats struct {
	TeamID   int
	TeamName string
	OppPTS   float64
	OppREB   float64
	OppAST   float64
	OppFGM   float64
	OppFGA   float64
	OppFG3M  float64
	OppFG3A  float64
	OppFTM   float64
	OppFTA   float64
	OppTOV   float64
}

type PlayerDefenseStats struct {
	PlayerID     int
	PlayerName   string
	TeamID       int
	GamesPlayed  float64
	Minutes      float64
	DefRating    float64
	DefWinShares float64
	Steals       float64
	Blocks       float64
}
