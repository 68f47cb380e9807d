package memory

import (
	"sync"

	"github.com/omarshaarawi/ttfl/internal/models"
)

// Repository caches the league-wide defense tables for the lifetime of one
// run. A nil table means "not loaded yet"; an empty one means the fetch
// failed and neutral factors apply.
type Repository struct {
	teamDefense map[int]models.TeamDefense
	defenders   []models.Defender
	mu          sync.RWMutex
}

func NewRepository() *Repository {
	return &Repository{}
}

func (r *Repository) SaveTeamDefense(teams map[int]models.TeamDefense) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if teams == nil {
		teams = map[int]models.TeamDefense{}
	}
	r.teamDefense = teams
}

func (r *Repository) GetTeamDefense() (map[int]models.TeamDefense, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.teamDefense, r.teamDefense != nil
}

// SaveDefenders stores the league ranking, best defender first.
func (r *Repository) SaveDefenders(ranked []models.Defender) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ranked == nil {
		ranked = []models.Defender{}
	}
	r.defenders = ranked
}

func (r *Repository) GetDefenders() ([]models.Defender, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defenders, r.defenders != nil
}

func (r *Repository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.teamDefense = nil
	r.defenders = nil
}
