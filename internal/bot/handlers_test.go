package bot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/omarshaarawi/ttfl/internal/models"
	"github.com/omarshaarawi/ttfl/internal/repository/memory"
	"github.com/omarshaarawi/ttfl/internal/service"
)

const (
	mavericks = 1610612742
	suns      = 1610612756
)

type stubProvider struct {
	players     []models.Player
	games       []models.Game
	scores      map[int][]float64
	injuries    map[string]string
	playerCalls int
}

func (p *stubProvider) PlayersOn(_ context.Context, date time.Time) ([]models.Player, []models.Game, error) {
	p.playerCalls++
	if date.Weekday() == time.Sunday {
		return nil, nil, nil
	}
	return p.players, p.games, nil
}

func (p *stubProvider) RecentScores(_ context.Context, playerID int) ([]float64, error) {
	return p.scores[playerID], nil
}

func (p *stubProvider) InjuryReport(context.Context) map[string]string {
	return p.injuries
}

func (p *stubProvider) LockedPlayers(context.Context, time.Time, int) (models.LockSet, error) {
	return models.NewLockSet(), nil
}

func (p *stubProvider) TeamOpponentStats(context.Context) ([]models.TeamOpponentStats, error) {
	return nil, nil
}

func (p *stubProvider) PlayerDefenseStats(context.Context) ([]models.PlayerDefenseStats, error) {
	return nil, nil
}

func newTestHandler() (*Handler, *stubProvider) {
	provider := &stubProvider{
		players: []models.Player{
			{ID: 1, Name: "Luka Dončić", Team: "DAL", TeamID: mavericks, OpponentTeamID: suns},
			{ID: 2, Name: "Kevin Durant", Team: "PHX", TeamID: suns, OpponentTeamID: mavericks},
		},
		games: []models.Game{{GameID: "1", HomeTeamID: mavericks, AwayTeamID: suns, StatusText: "8:30 pm ET"}},
		scores: map[int][]float64{
			1: {62, 58, 60, 55, 61},
			2: {45, 44, 47, 43, 46},
		},
		injuries: map[string]string{"Kevin Durant": "Questionable"},
	}

	session := service.NewSession(provider, memory.NewRepository(), service.SessionConfig{IgnoreLocks: true})
	h := NewHandler(session, time.UTC)
	// a Wednesday
	h.now = func() time.Time { return time.Date(2026, 1, 21, 18, 0, 0, 0, time.UTC) }
	return h, provider
}

func TestRespondStaticCommands(t *testing.T) {
	h, _ := newTestHandler()
	ctx := context.Background()

	assert.Contains(t, h.Respond(ctx, "start", ""), "/help")
	assert.Contains(t, h.Respond(ctx, "help", ""), "/picks")
	assert.Contains(t, h.Respond(ctx, "scores", ""), "Unknown command")
}

func TestRespondPicks(t *testing.T) {
	h, provider := newTestHandler()
	ctx := context.Background()

	reply := h.Respond(ctx, "picks", "")
	assert.Contains(t, reply, "*TTFL Picks for 2026-01-21*")
	assert.Contains(t, reply, "Pick before 8:30 pm ET")
	assert.Contains(t, reply, "1. *Luka Dončić* (DAL vs PHX)")
	assert.Contains(t, reply, "2. *Kevin Durant* (PHX vs DAL)")
	assert.Contains(t, reply, "⚠️ Questionable")

	// every command starts from a fresh session
	h.Respond(ctx, "picks", "2026-01-21")
	assert.Equal(t, 2, provider.playerCalls)

	assert.Contains(t, h.Respond(ctx, "picks", "21/01/2026"), "invalid date format")
}

func TestRespondPlan(t *testing.T) {
	h, _ := newTestHandler()
	ctx := context.Background()

	reply := h.Respond(ctx, "plan", "3")
	assert.Contains(t, reply, "📆 2026-01-21")
	assert.Contains(t, reply, "Total Expected")

	assert.Contains(t, h.Respond(ctx, "plan", "zero"), "between 1 and 14")
	assert.Contains(t, h.Respond(ctx, "plan", "30"), "between 1 and 14")
}

func TestRespondInjuries(t *testing.T) {
	h, _ := newTestHandler()
	ctx := context.Background()

	reply := h.Respond(ctx, "injuries", "")
	assert.Contains(t, reply, "*Kevin Durant* (PHX) - Questionable")

	assert.Contains(t, h.Respond(ctx, "injuries", "2026-01-25"), "No notable injuries")
}

func TestRespondPlayer(t *testing.T) {
	h, _ := newTestHandler()
	ctx := context.Background()

	assert.Contains(t, h.Respond(ctx, "player", ""), "Usage: /player")
	assert.Contains(t, h.Respond(ctx, "player", "luka doncic"), "*Luka Dončić* (DAL vs PHX)")
	assert.Contains(t, h.Respond(ctx, "player", "durant"), "*Kevin Durant*")
	assert.Contains(t, h.Respond(ctx, "player", "zzzzzz"), "No player found")
}

func TestRespondLocks(t *testing.T) {
	h, _ := newTestHandler()

	assert.Equal(t, "Lock check disabled: no TTFL cookie file.", h.Respond(context.Background(), "locks", ""))
	assert.Contains(t, h.Respond(context.Background(), "help", ""), "/locks")
}
