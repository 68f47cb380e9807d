// Package ttfl computes the TrashTalk Fantasy League score of a box score line.
package ttfl

import "github.com/omarshaarawi/ttfl/internal/models"

// Score returns the TTFL points of one game:
//
//	PTS + REB + AST + STL + BLK + FGM + 3PM + FTM - (TOV + FG misses + 3P misses + FT misses)
//
// Misses are taken as attempts minus makes without clamping, so a line with
// more makes than attempts scores the difference as a bonus.
func Score(line models.BoxScoreLine) int {
	positive := line.Points + line.Rebounds + line.Assists + line.Steals + line.Blocks +
		line.FGM + line.FG3M + line.FTM

	fgMiss := line.FGA - line.FGM
	fg3Miss := line.FG3A - line.FG3M
	ftMiss := line.FTA - line.FTM
	negative := line.Turnovers + fgMiss + fg3Miss + ftMiss

	return positive - negative
}

// Scores maps game logs to their TTFL scores, preserving order.
func Scores(logs []models.GameLog) []float64 {
	scores := make([]float64, 0, len(logs))
	for _, l := range logs {
		scores = append(scores, float64(Score(l.Line)))
	}
	return scores
}
