package models

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Trend string

const (
	TrendRising  Trend = "rising"
	TrendFalling Trend = "falling"
	TrendFlat    Trend = "flat"
)

type TeamDefense struct {
	TeamID           int
	Abbrev           string
	Name             string
	EstimatedAllowed float64
	Factor           float64
}

type Defender struct {
	PlayerID     int
	Name         string
	TeamID       int
	TeamAbbrev   string
	DefRating    float64
	DefWinShares float64
	Steals       float64
	Blocks       float64
	Composite    float64
	Rank         int
}

// DefenderFactor is the best-defender penalty for one opponent. Defender is
// nil when the opponent has no qualifying defender.
type DefenderFactor struct {
	Factor   float64
	Defender *Defender
}

func (d DefenderFactor) Name() string {
	if d.Defender == nil {
		return ""
	}
	return d.Defender.Name
}

type Pick struct {
	Date     time.Time
	Player   string
	Score    int
	HasScore bool
	Locked   bool
}

// LockSet holds player names matched case-insensitively.
type LockSet map[string]string

func NewLockSet(names ...string) LockSet {
	s := make(LockSet, len(names))
	for _, n := range names {
		s.Add(n)
	}
	return s
}

func (s LockSet) Add(name string) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return
	}
	s[key] = name
}

func (s LockSet) Contains(name string) bool {
	_, ok := s[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Union returns a new set holding the members of both sets.
func (s LockSet) Union(other LockSet) LockSet {
	out := make(LockSet, len(s)+len(other))
	for k, v := range s {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

func (s LockSet) Names() []string {
	names := make([]string, 0, len(s))
	for _, v := range s {
		names = append(names, v)
	}
	sort.Strings(names)
	return names
}

type PlayerRecommendation struct {
	Name         string
	PlayerID     int
	Team         string
	OpponentTeam string

	SimpleAvg         float64
	WeightedAvg       float64
	TrendFactor       float64
	Trend             Trend
	ConsistencyFactor float64

	DefenseFactor  float64
	BestDefender   string
	DefenderFactor float64

	FinalScore   float64
	InjuryStatus string
	DNPRisk      float64
	IsLocked     bool
	GamesPlayed  int
}

func (r PlayerRecommendation) IsOut() bool {
	return r.DNPRisk >= 1.0
}

func (r PlayerRecommendation) TrendDisplay() string {
	pct := (r.TrendFactor - 1.0) * 100
	switch {
	case pct >= 0.5:
		return fmt.Sprintf("+%.0f%%", pct)
	case pct <= -0.5:
		return fmt.Sprintf("%.0f%%", pct)
	}
	return "0%"
}

func (r PlayerRecommendation) StatusDisplay() string {
	if r.IsLocked {
		return "Locked"
	}
	return StatusLabel(r.InjuryStatus, r.DNPRisk)
}

// Matchup combines the team defense and best defender factors.
func (r PlayerRecommendation) Matchup() float64 {
	return r.DefenseFactor * r.DefenderFactor
}

func StatusLabel(status string, risk float64) string {
	switch {
	case risk >= 1.0:
		return "Out"
	case risk > 0:
		return cases.Title(language.English).String(strings.TrimSpace(status))
	}
	return "ok"
}

type DayPlan struct {
	Date         time.Time
	Pick         PlayerRecommendation
	Alternatives []PlayerRecommendation
}

type Plan []DayPlan

func (p Plan) Total() float64 {
	var total float64
	for _, day := range p {
		total += day.Pick.FinalScore
	}
	return total
}

func (p Plan) Average() float64 {
	if len(p) == 0 {
		return 0
	}
	return p.Total() / float64(len(p))
}

type InjuredPlayer struct {
	Name    string
	Team    string
	Status  string
	DNPRisk float64
}
