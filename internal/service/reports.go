package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/omarshaarawi/ttfl/internal/models"
)

const (
	playerMatchThreshold = 0.6
	subsequenceBonus     = 0.5
)

func (s *Session) PicksReport(ctx context.Context, date time.Time, topN int) (string, error) {
	opts := DefaultOptions()
	if topN > 0 {
		opts.TopN = topN
	}

	recs, err := s.Recommend(ctx, date, opts)
	if err != nil {
		return "", fmt.Errorf("error computing picks: %w", err)
	}
	firstGame, err := s.EarliestGameTime(ctx, date)
	if err != nil {
		return "", fmt.Errorf("error reading schedule: %w", err)
	}

	return FormatPicksMessage(recs, date.Format(DateLayout), firstGame), nil
}

func (s *Session) PlanReport(ctx context.Context, start time.Time, days int) (string, error) {
	plan, err := s.Plan(ctx, start, days, DefaultOptions())
	if err != nil {
		return "", fmt.Errorf("error planning picks: %w", err)
	}
	return FormatPlan(plan), nil
}

func (s *Session) InjuriesReport(ctx context.Context, date time.Time) (string, error) {
	injured, err := s.NotableInjuries(ctx, date)
	if err != nil {
		return "", fmt.Errorf("error fetching injuries: %w", err)
	}
	return FormatInjuries(injured, date.Format(DateLayout)), nil
}

// LocksReport lists the players locked by recent picks.
func (s *Session) LocksReport(ctx context.Context) (string, error) {
	if err := s.Prepare(ctx); err != nil {
		return "", fmt.Errorf("error fetching locks: %w", err)
	}
	return FormatLocks(s.Locks().Names(), s.cfg.LockDays, s.cfg.IgnoreLocks), nil
}

// PlayerReport explains the score of the player of the date's games whose
// name is closest to query. Locked and injured players are included.
func (s *Session) PlayerReport(ctx context.Context, date time.Time, query string) (string, error) {
	opts := DefaultOptions()
	opts.TopN = 0
	opts.IncludeLocked = true
	opts.IncludeRisky = true

	recs, err := s.Recommend(ctx, date, opts)
	if err != nil {
		return "", fmt.Errorf("error computing picks: %w", err)
	}

	rec, ok := FindPlayer(recs, query)
	if !ok {
		return fmt.Sprintf("🔍 No player found matching '%s' on %s.", query, date.Format(DateLayout)), nil
	}
	return FormatPlayer(rec, date.Format(DateLayout)), nil
}

// FindPlayer returns the recommendation whose name is most similar to query by
// Levenshtein distance, or false when nothing is close enough. Names holding
// every letter of the query in order ("jokic" in "Nikola Jokić") get a bonus.
func FindPlayer(recs []models.PlayerRecommendation, query string) (models.PlayerRecommendation, bool) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return models.PlayerRecommendation{}, false
	}

	best, bestSimilarity := -1, playerMatchThreshold
	for i, r := range recs {
		name := strings.ToLower(r.Name)
		distance := fuzzy.LevenshteinDistance(query, name)
		maxLen := float64(max(len([]rune(query)), len([]rune(name))))
		similarity := 1 - float64(distance)/maxLen
		if fuzzy.MatchNormalizedFold(query, name) {
			similarity += subsequenceBonus
		}

		if similarity > bestSimilarity {
			best, bestSimilarity = i, similarity
		}
	}

	if best < 0 {
		return models.PlayerRecommendation{}, false
	}
	return recs[best], true
}
