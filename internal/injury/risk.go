// Package injury converts injury report statuses into did-not-play risk and
// reconciles roster names with the names used by injury feeds.
package injury

import "strings"

type riskRule struct {
	keyword string
	risk    float64
}

// riskRules is checked in order. Exact matches are tried first over the whole
// list, then substring containment, so longer phrases must precede the
// keywords they contain.
var riskRules = []riskRule{
	{"out for season", 1.0},
	{"out-for-season", 1.0},
	{"out indefinitely", 1.0},
	{"out-indefinitely", 1.0},
	{"out", 1.0},
	{"doubtful", 0.75},
	{"questionable", 0.40},
	{"day-to-day", 0.30},
	{"day to day", 0.30},
	{"game-time decision", 0.30},
	{"game time decision", 0.30},
	{"gtd", 0.30},
	{"probable", 0.10},
	{"available", 0.0},
}

// DNPRisk returns the probability that a player with the given status does
// not play. Unknown and empty statuses carry no risk.
func DNPRisk(status string) float64 {
	s := strings.ToLower(strings.TrimSpace(status))
	if s == "" {
		return 0
	}

	for _, r := range riskRules {
		if s == r.keyword {
			return r.risk
		}
	}
	for _, r := range riskRules {
		if strings.Contains(s, r.keyword) {
			return r.risk
		}
	}
	return 0
}

// Merge combines injury feeds. Earlier feeds win when a name appears in more
// than one.
func Merge(feeds ...map[string]string) map[string]string {
	merged := make(map[string]string)
	for _, feed := range feeds {
		for name, status := range feed {
			if _, ok := merged[name]; !ok {
				merged[name] = status
			}
		}
	}
	return merged
}
