// Package fantasy gathers every external source the recommender reads from
// behind one API: the NBA stats site, the injury reports and the TTFL pick
// history.
package fantasy

import (
	"context"
	"fmt"
	"time"

	"github.com/omarshaarawi/ttfl/internal/api/injuries"
	"github.com/omarshaarawi/ttfl/internal/api/nba"
	"github.com/omarshaarawi/ttfl/internal/api/trashtalk"
	"github.com/omarshaarawi/ttfl/internal/models"
	"github.com/omarshaarawi/ttfl/internal/ttfl"
)

type API struct {
	nbaAPI      *nba.API
	injuries    *injuries.Client
	history     *trashtalk.Client
	gameLogSize int
}

// NewAPI wires the sources together. history may be nil when locks are not
// checked.
func NewAPI(nbaAPI *nba.API, injuryClient *injuries.Client, history *trashtalk.Client, gameLogSize int) *API {
	if gameLogSize <= 0 {
		gameLogSize = 10
	}
	return &API{nbaAPI: nbaAPI, injuries: injuryClient, history: history, gameLogSize: gameLogSize}
}

func (a *API) PlayersOn(ctx context.Context, date time.Time) ([]models.Player, []models.Game, error) {
	return a.nbaAPI.PlayersOn(ctx, date)
}

// RecentScores returns the player's latest TTFL scores, most recent first.
func (a *API) RecentScores(ctx context.Context, playerID int) ([]float64, error) {
	logs, err := a.nbaAPI.GameLogs(ctx, playerID, a.gameLogSize)
	if err != nil {
		return nil, fmt.Errorf("fetching game log of player %d: %w", playerID, err)
	}
	return ttfl.Scores(logs), nil
}

func (a *API) TeamOpponentStats(ctx context.Context) ([]models.TeamOpponentStats, error) {
	return a.nbaAPI.TeamOpponentStats(ctx)
}

func (a *API) PlayerDefenseStats(ctx context.Context) ([]models.PlayerDefenseStats, error) {
	return a.nbaAPI.PlayerDefenseStats(ctx)
}

func (a *API) InjuryReport(ctx context.Context) map[string]string {
	if a.injuries == nil {
		return map[string]string{}
	}
	return a.injuries.Report(ctx)
}

func (a *API) LockedPlayers(ctx context.Context, now time.Time, lockDays int) (models.LockSet, error) {
	if a.history == nil {
		return models.NewLockSet(), nil
	}
	return a.history.LockedPlayers(ctx, now, lockDays)
}
