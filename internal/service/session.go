package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/omarshaarawi/ttfl/internal/api/nba"
	"github.com/omarshaarawi/ttfl/internal/defense"
	"github.com/omarshaarawi/ttfl/internal/injury"
	"github.com/omarshaarawi/ttfl/internal/models"
	"github.com/omarshaarawi/ttfl/internal/repository/memory"
)

// Provider is everything a session reads from the outside world.
type Provider interface {
	defense.Provider
	PlayersOn(ctx context.Context, date time.Time) ([]models.Player, []models.Game, error)
	RecentScores(ctx context.Context, playerID int) ([]float64, error)
	InjuryReport(ctx context.Context) map[string]string
	LockedPlayers(ctx context.Context, now time.Time, lockDays int) (models.LockSet, error)
}

type SessionConfig struct {
	IgnoreLocks bool
	LockDays    int
	// Now defaults to time.Now.
	Now func() time.Time
}

type slate struct {
	players []models.Player
	games   []models.Game
}

// Session fetches the data shared by every date once (locks, injuries,
// defense tables) and caches per-date slates and per-player scores for the
// rest of the run. Calls are serialized; use Fresh to start each logical run
// from empty caches.
type Session struct {
	provider Provider
	cache    *memory.Repository
	adjuster *defense.Adjuster
	cfg      SessionConfig
	logger   *slog.Logger

	prepared bool
	locks    models.LockSet
	injuries map[string]string
	slates   map[string]slate
	scores   map[int][]float64
	mu       sync.Mutex
	runMu    sync.Mutex
}

func NewSession(provider Provider, cache *memory.Repository, cfg SessionConfig) *Session {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.LockDays <= 0 {
		cfg.LockDays = 30
	}
	s := &Session{
		provider: provider,
		cache:    cache,
		adjuster: defense.NewAdjuster(provider, cache),
		cfg:      cfg,
	}
	s.reset()
	return s
}

// Logger carries the run_id of the current run.
func (s *Session) Logger() *slog.Logger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logger
}

// Reset drops every cached value and starts a new run.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

// Fresh resets the session and runs fn. Concurrent callers wait for the
// previous run to finish.
func (s *Session) Fresh(fn func() error) error {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	s.Reset()
	return fn()
}

func (s *Session) reset() {
	s.logger = slog.With("run_id", uuid.NewString())
	s.prepared = false
	s.locks = models.NewLockSet()
	s.injuries = map[string]string{}
	s.slates = make(map[string]slate)
	s.scores = make(map[int][]float64)
	s.cache.Clear()
}

// Prepare loads the shared data. A failing lock check is an error; injury
// feeds and defense tables degrade to empty.
func (s *Session) Prepare(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prepare(ctx)
}

func (s *Session) prepare(ctx context.Context) error {
	if s.prepared {
		return nil
	}

	if s.cfg.IgnoreLocks {
		s.logger.Info("Skipping lock check")
	} else {
		locks, err := s.provider.LockedPlayers(ctx, s.cfg.Now(), s.cfg.LockDays)
		if err != nil {
			return fmt.Errorf("fetching locked players: %w", err)
		}
		s.locks = locks
		s.logger.Info("Found locked players", "count", len(locks))
		s.logger.Debug("Locked players", "names", locks.Names())
	}

	s.injuries = s.provider.InjuryReport(ctx)
	s.logger.Info("Found players with injury status", "count", len(s.injuries))

	s.adjuster.Load(ctx)
	s.prepared = true
	return nil
}

func (s *Session) Locks() models.LockSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locks.Union(nil)
}

func (s *Session) slate(ctx context.Context, date time.Time) (slate, error) {
	key := date.Format(DateLayout)
	if sl, ok := s.slates[key]; ok {
		return sl, nil
	}

	players, games, err := s.provider.PlayersOn(ctx, date)
	if err != nil {
		return slate{}, fmt.Errorf("fetching players for %s: %w", key, err)
	}
	s.logger.Info("Found players in games", "date", key, "games", len(games), "players", len(players))

	sl := slate{players: players, games: games}
	s.slates[key] = sl
	return sl, nil
}

// recentScores never fails on a provider error: the player is left without
// data and excluded, like an empty game log.
func (s *Session) recentScores(ctx context.Context, p models.Player) ([]float64, error) {
	if scores, ok := s.scores[p.ID]; ok {
		return scores, nil
	}

	scores, err := s.provider.RecentScores(ctx, p.ID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Warn("Could not fetch game log", "player", p.Name, "error", err)
		scores = nil
	}
	s.scores[p.ID] = scores
	return scores, nil
}

// NotableInjuries lists the players of the date's games with a non-zero DNP
// risk, riskiest first.
func (s *Session) NotableInjuries(ctx context.Context, date time.Time) ([]models.InjuredPlayer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.prepare(ctx); err != nil {
		return nil, err
	}
	sl, err := s.slate(ctx, date)
	if err != nil {
		return nil, err
	}

	var injured []models.InjuredPlayer
	for _, p := range sl.players {
		status, ok := injury.Match(p.Name, s.injuries)
		if !ok {
			continue
		}
		risk := injury.DNPRisk(status)
		if risk <= 0 {
			continue
		}
		injured = append(injured, models.InjuredPlayer{Name: p.Name, Team: p.Team, Status: status, DNPRisk: risk})
	}

	sortInjured(injured)
	return injured, nil
}

// EarliestGameTime returns the tip-off text of the first game of the date, or
// "" when it is unknown.
func (s *Session) EarliestGameTime(ctx context.Context, date time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl, err := s.slate(ctx, date)
	if err != nil {
		return "", err
	}
	return nba.EarliestGameTime(sl.games), nil
}
