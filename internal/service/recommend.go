package service

import (
	"context"
	"sort"
	"time"

	"github.com/omarshaarawi/ttfl/internal/api/nba"
	"github.com/omarshaarawi/ttfl/internal/form"
	"github.com/omarshaarawi/ttfl/internal/injury"
	"github.com/omarshaarawi/ttfl/internal/models"
)

// MinAverage filters out bench players: a simple average below it is never
// recommended.
const MinAverage = 10.0

type Options struct {
	// TopN caps the result; zero or less keeps every candidate.
	TopN          int
	IncludeRisky  bool
	IncludeLocked bool
	UseForm       bool
	UseDefense    bool
	// ExtraLocks are treated like real locks for this call only.
	ExtraLocks models.LockSet
}

func DefaultOptions() Options {
	return Options{TopN: 10, UseForm: true, UseDefense: true}
}

// FinalScore combines the form estimate, the opponent factors and the DNP
// risk into the expected TTFL score of a pick.
func FinalScore(profile form.Profile, defenseFactor, defenderFactor, dnpRisk float64, useForm, useDefense bool) float64 {
	score := profile.SimpleAvg
	if useForm {
		score = profile.Score()
	}
	if useDefense {
		score = score * defenseFactor * defenderFactor
	}
	return score * (1 - dnpRisk)
}

// Recommend ranks the players of the date's games by expected score.
func (s *Session) Recommend(ctx context.Context, date time.Time, opts Options) ([]models.PlayerRecommendation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recommend(ctx, date, opts)
}

func (s *Session) recommend(ctx context.Context, date time.Time, opts Options) ([]models.PlayerRecommendation, error) {
	if err := s.prepare(ctx); err != nil {
		return nil, err
	}
	sl, err := s.slate(ctx, date)
	if err != nil {
		return nil, err
	}
	if len(sl.players) == 0 {
		return nil, nil
	}

	locks := s.locks.Union(opts.ExtraLocks)

	recs := make([]models.PlayerRecommendation, 0, len(sl.players))
	for i, p := range sl.players {
		if (i+1)%50 == 0 {
			s.logger.Debug("Scoring players", "progress", i+1, "total", len(sl.players))
		}

		locked := locks.Contains(p.Name)
		if locked && !opts.IncludeLocked {
			continue
		}

		status, _ := injury.Match(p.Name, s.injuries)
		risk := injury.DNPRisk(status)
		if risk >= 1.0 && !opts.IncludeRisky {
			continue
		}

		scores, err := s.recentScores(ctx, p)
		if err != nil {
			return nil, err
		}
		if len(scores) == 0 {
			continue
		}

		profile := form.Analyze(scores)
		if profile.SimpleAvg < MinAverage {
			continue
		}

		defenseFactor, defender := 1.0, models.DefenderFactor{Factor: 1.0}
		if opts.UseDefense && p.OpponentTeamID != 0 {
			defenseFactor = s.adjuster.TeamFactor(ctx, p.OpponentTeamID)
			defender = s.adjuster.DefenderFactor(ctx, p.OpponentTeamID)
		}

		recs = append(recs, models.PlayerRecommendation{
			Name:              p.Name,
			PlayerID:          p.ID,
			Team:              p.Team,
			OpponentTeam:      nba.TeamAbbrev(p.OpponentTeamID),
			SimpleAvg:         profile.SimpleAvg,
			WeightedAvg:       profile.WeightedAvg,
			TrendFactor:       profile.TrendFactor,
			Trend:             profile.Trend,
			ConsistencyFactor: profile.ConsistencyFactor,
			DefenseFactor:     defenseFactor,
			BestDefender:      defender.Name(),
			DefenderFactor:    defender.Factor,
			FinalScore:        FinalScore(profile, defenseFactor, defender.Factor, risk, opts.UseForm, opts.UseDefense),
			InjuryStatus:      status,
			DNPRisk:           risk,
			IsLocked:          locked,
			GamesPlayed:       profile.Games,
		})
	}

	sortRecommendations(recs)
	if opts.TopN > 0 && len(recs) > opts.TopN {
		recs = recs[:opts.TopN]
	}
	return recs, nil
}

func sortRecommendations(recs []models.PlayerRecommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].FinalScore != recs[j].FinalScore {
			return recs[i].FinalScore > recs[j].FinalScore
		}
		return recs[i].Name < recs[j].Name
	})
}

func sortInjured(players []models.InjuredPlayer) {
	sort.SliceStable(players, func(i, j int) bool {
		if players[i].DNPRisk != players[j].DNPRisk {
			return players[i].DNPRisk > players[j].DNPRisk
		}
		return players[i].Name < players[j].Name
	})
}
