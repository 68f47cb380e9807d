package service

import (
	"context"
	"time"

	"github.com/omarshaarawi/ttfl/internal/models"
)

const (
	planCandidates   = 20
	planAlternatives = 3
)

// Plan picks greedily for days consecutive dates from start. Each day's pick
// is locked for the following days; days without a candidate are skipped.
// Locked and OUT players are never candidates, whatever opts says.
func (s *Session) Plan(ctx context.Context, start time.Time, days int, opts Options) (models.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	simulated := models.NewLockSet()
	opts.TopN = planCandidates
	opts.IncludeLocked = false
	opts.IncludeRisky = false

	var plan models.Plan
	for offset := 0; offset < days; offset++ {
		date := start.AddDate(0, 0, offset)
		dayOpts := opts
		dayOpts.ExtraLocks = simulated.Union(opts.ExtraLocks)

		recs, err := s.recommend(ctx, date, dayOpts)
		if err != nil {
			return nil, err
		}
		if len(recs) == 0 {
			s.logger.Info("No recommendations for date", "date", date.Format(DateLayout))
			continue
		}

		pick := recs[0]
		alternatives := recs[1:min(len(recs), 1+planAlternatives)]
		simulated.Add(pick.Name)

		plan = append(plan, models.DayPlan{Date: date, Pick: pick, Alternatives: alternatives})
		s.logger.Info("Planned pick",
			"date", date.Format(DateLayout), "player", pick.Name, "team", pick.Team, "expected", pick.FinalScore)
	}
	return plan, nil
}
