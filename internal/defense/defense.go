// Package defense adjusts expected scores for the opponent: a team-wide
// defense factor and a penalty for facing an elite individual defender.
package defense

import (
	"context"
	"log/slog"
	"sort"

	"github.com/omarshaarawi/ttfl/internal/api/nba"
	"github.com/omarshaarawi/ttfl/internal/models"
	"github.com/omarshaarawi/ttfl/internal/repository/memory"
)

const (
	MaxDefenseAdjustment = 0.30

	// Opponent steals and blocks are not split out in team opponent stats.
	estimatedStealsBlocks = 15.0
	rotationSize          = 5.0

	EliteDefenderRank   = 20
	GoodDefenderRank    = 50
	EliteDefenderFactor = 0.85
	GoodDefenderFactor  = 0.93

	minDefenderMinutes = 15.0
)

type Provider interface {
	TeamOpponentStats(ctx context.Context) ([]models.TeamOpponentStats, error)
	PlayerDefenseStats(ctx context.Context) ([]models.PlayerDefenseStats, error)
}

// EstimatedAllowed applies the TTFL formula to what a team allows per game and
// spreads it over a five-man rotation.
func EstimatedAllowed(s models.TeamOpponentStats) float64 {
	positive := s.OppPTS + s.OppREB + s.OppAST + s.OppFGM + s.OppFG3M + s.OppFTM + estimatedStealsBlocks
	negative := s.OppTOV + (s.OppFGA - s.OppFGM) + (s.OppFG3A - s.OppFG3M) + (s.OppFTA - s.OppFTM)
	return (positive - negative) / rotationSize
}

// TeamFactors rates every team against the league average. Factors above 1
// mean a weak defense and are capped at ±MaxDefenseAdjustment.
func TeamFactors(stats []models.TeamOpponentStats) map[int]models.TeamDefense {
	teams := make(map[int]models.TeamDefense, len(stats))
	if len(stats) == 0 {
		return teams
	}

	var sum float64
	for _, s := range stats {
		allowed := EstimatedAllowed(s)
		sum += allowed
		teams[s.TeamID] = models.TeamDefense{
			TeamID:           s.TeamID,
			Abbrev:           nba.TeamAbbrev(s.TeamID),
			Name:             s.TeamName,
			EstimatedAllowed: allowed,
			Factor:           1.0,
		}
	}

	leagueAvg := sum / float64(len(stats))
	if leagueAvg <= 0 {
		return teams
	}

	for id, t := range teams {
		t.Factor = max(1.0-MaxDefenseAdjustment, min(1.0+MaxDefenseAdjustment, t.EstimatedAllowed/leagueAvg))
		teams[id] = t
	}
	return teams
}

// Composite scores a defender on a 0..1 scale from an inverted defensive
// rating (40%), per-game defensive win shares (30%) and steals plus blocks (30%).
func Composite(s models.PlayerDefenseStats) float64 {
	drtgScore := max(0, (120-s.DefRating)/20)

	var dwsPerGame float64
	if s.GamesPlayed > 0 {
		dwsPerGame = s.DefWinShares / s.GamesPlayed
	}
	dwsScore := min(1.0, dwsPerGame/0.1)

	stlBlkScore := min(1.0, (s.Steals+s.Blocks)/3)

	return drtgScore*0.4 + dwsScore*0.3 + stlBlkScore*0.3
}

// RankDefenders returns qualifying players ordered best first with their
// 1-based league rank. Ties keep player id order.
func RankDefenders(stats []models.PlayerDefenseStats) []models.Defender {
	defenders := make([]models.Defender, 0, len(stats))
	for _, s := range stats {
		if s.Minutes < minDefenderMinutes {
			continue
		}
		defenders = append(defenders, models.Defender{
			PlayerID:     s.PlayerID,
			Name:         s.PlayerName,
			TeamID:       s.TeamID,
			TeamAbbrev:   nba.TeamAbbrev(s.TeamID),
			DefRating:    s.DefRating,
			DefWinShares: s.DefWinShares,
			Steals:       s.Steals,
			Blocks:       s.Blocks,
			Composite:    Composite(s),
		})
	}

	sort.Slice(defenders, func(i, j int) bool {
		if defenders[i].Composite != defenders[j].Composite {
			return defenders[i].Composite > defenders[j].Composite
		}
		return defenders[i].PlayerID < defenders[j].PlayerID
	})
	for i := range defenders {
		defenders[i].Rank = i + 1
	}
	return defenders
}

func TierFactor(rank int) float64 {
	switch {
	case rank <= 0:
		return 1.0
	case rank <= EliteDefenderRank:
		return EliteDefenderFactor
	case rank <= GoodDefenderRank:
		return GoodDefenderFactor
	}
	return 1.0
}

// Adjuster serves both opponent factors from tables fetched once and kept in
// the run's cache. Failed fetches degrade to neutral factors.
type Adjuster struct {
	provider Provider
	cache    *memory.Repository
}

func NewAdjuster(provider Provider, cache *memory.Repository) *Adjuster {
	return &Adjuster{provider: provider, cache: cache}
}

// Load fetches both tables unless they are already cached.
func (a *Adjuster) Load(ctx context.Context) {
	teams := a.Teams(ctx)
	defenders := a.Defenders(ctx)
	slog.Info("Defense tables ready", "teams", len(teams), "defenders", len(defenders))
}

func (a *Adjuster) Teams(ctx context.Context) map[int]models.TeamDefense {
	if teams, ok := a.cache.GetTeamDefense(); ok {
		return teams
	}

	stats, err := a.provider.TeamOpponentStats(ctx)
	if err != nil {
		slog.Warn("Team defense stats unavailable, using neutral factors", "error", err)
	} else if len(stats) == 0 {
		slog.Warn("No team defense stats available, using neutral factors")
	}

	teams := TeamFactors(stats)
	a.cache.SaveTeamDefense(teams)
	return teams
}

func (a *Adjuster) Defenders(ctx context.Context) []models.Defender {
	if defenders, ok := a.cache.GetDefenders(); ok {
		return defenders
	}

	stats, err := a.provider.PlayerDefenseStats(ctx)
	if err != nil {
		slog.Warn("Defender rankings unavailable, using neutral factors", "error", err)
	}

	defenders := RankDefenders(stats)
	a.cache.SaveDefenders(defenders)
	return defenders
}

// TeamFactor returns the defense factor of the opponent, 1.0 when unknown.
func (a *Adjuster) TeamFactor(ctx context.Context, opponentTeamID int) float64 {
	if t, ok := a.Teams(ctx)[opponentTeamID]; ok {
		return t.Factor
	}
	return 1.0
}

// BestDefender returns the highest ranked qualifying defender of a team.
func (a *Adjuster) BestDefender(ctx context.Context, teamID int) (models.Defender, bool) {
	for _, d := range a.Defenders(ctx) {
		if d.TeamID == teamID {
			return d, true
		}
	}
	return models.Defender{}, false
}

func (a *Adjuster) DefenderFactor(ctx context.Context, opponentTeamID int) models.DefenderFactor {
	best, ok := a.BestDefender(ctx, opponentTeamID)
	if !ok {
		return models.DefenderFactor{Factor: 1.0}
	}
	return models.DefenderFactor{Factor: TierFactor(best.Rank), Defender: &best}
}
