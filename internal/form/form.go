// Package form turns a player's recent TTFL scores into a recency-weighted,
// trend- and consistency-adjusted estimate.
package form

import (
	"gonum.org/v1/gonum/stat"

	"github.com/omarshaarawi/ttfl/internal/models"
)

// GameWeights applies to the last ten games, most recent first.
var GameWeights = [10]float64{0.25, 0.18, 0.14, 0.11, 0.09, 0.07, 0.06, 0.05, 0.03, 0.02}

const (
	MaxTrendAdjustment    = 0.20
	MaxConsistencyPenalty = 0.15

	trendThreshold = 0.05
	minTrendGames  = 3
	cvNoPenalty    = 0.2
	cvPenaltyRange = 0.3
)

type Profile struct {
	SimpleAvg         float64
	WeightedAvg       float64
	TrendFactor       float64
	Trend             models.Trend
	ConsistencyFactor float64
	Games             int
}

// Score is the form-adjusted estimate: weighted average times trend times consistency.
func (p Profile) Score() float64 {
	return p.WeightedAvg * p.TrendFactor * p.ConsistencyFactor
}

// Analyze builds the profile of a score series ordered most recent first.
func Analyze(scores []float64) Profile {
	if len(scores) == 0 {
		return Profile{TrendFactor: 1.0, Trend: models.TrendFlat, ConsistencyFactor: 1.0}
	}

	trendFactor, trend := TrendFactor(scores)
	return Profile{
		SimpleAvg:         stat.Mean(scores, nil),
		WeightedAvg:       WeightedAverage(scores),
		TrendFactor:       trendFactor,
		Trend:             trend,
		ConsistencyFactor: ConsistencyFactor(scores),
		Games:             len(scores),
	}
}

func WeightedAverage(scores []float64) float64 {
	n := min(len(scores), len(GameWeights))
	if n == 0 {
		return 0
	}

	weights := GameWeights[:n]
	var weightSum float64
	for _, w := range weights {
		weightSum += w
	}

	var avg float64
	for i, w := range weights {
		avg += scores[i] * (w / weightSum)
	}
	return avg
}

// TrendFactor fits a least-squares line over the series in chronological
// order and expresses the slope relative to the mean, scaled by the series
// length and capped at MaxTrendAdjustment either way.
func TrendFactor(scores []float64) (float64, models.Trend) {
	n := len(scores)
	if n < minTrendGames {
		return 1.0, models.TrendFlat
	}

	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := range scores {
		xs[i] = float64(i)
		ys[i] = scores[n-1-i]
	}

	mean := stat.Mean(ys, nil)
	if mean == 0 {
		return 1.0, models.TrendFlat
	}

	_, slope := stat.LinearRegression(xs, ys, nil, false)
	adjustment := clamp(slope/mean*float64(n), -MaxTrendAdjustment, MaxTrendAdjustment)

	switch {
	case adjustment > trendThreshold:
		return 1.0 + adjustment, models.TrendRising
	case adjustment < -trendThreshold:
		return 1.0 + adjustment, models.TrendFalling
	}
	return 1.0 + adjustment, models.TrendFlat
}

// ConsistencyFactor penalizes volatile players through the coefficient of
// variation: none up to 0.2, rising linearly to MaxConsistencyPenalty at 0.5.
func ConsistencyFactor(scores []float64) float64 {
	if len(scores) < minTrendGames {
		return 1.0
	}

	mean := stat.Mean(scores, nil)
	if mean == 0 {
		return 1.0
	}

	cv := stat.StdDev(scores, nil) / mean
	if cv <= cvNoPenalty {
		return 1.0
	}

	penalty := min(1.0, (cv-cvNoPenalty)/cvPenaltyRange) * MaxConsistencyPenalty
	return 1.0 - penalty
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
