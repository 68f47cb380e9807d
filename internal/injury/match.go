package injury

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var suffixes = map[string]bool{
	"jr": true, "sr": true, "ii": true, "iii": true, "iv": true, "v": true,
}

// NormalizeName strips accents, lowercases, removes periods and apostrophes,
// turns hyphens into spaces and collapses whitespace.
func NormalizeName(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, name)
	if err != nil {
		stripped = name
	}

	stripped = strings.ToLower(stripped)
	stripped = strings.NewReplacer(".", "", "'", "", "’", "", "-", " ").Replace(stripped)
	return strings.Join(strings.Fields(stripped), " ")
}

// StripSuffix removes a trailing generational suffix from a normalized name.
func StripSuffix(normalized string) string {
	fields := strings.Fields(normalized)
	if len(fields) > 1 && suffixes[fields[len(fields)-1]] {
		fields = fields[:len(fields)-1]
	}
	return strings.Join(fields, " ")
}

// Match finds the status of a player in an injury feed. Tiers are tried from
// strictest to loosest: exact, normalized, normalized without suffix, and
// token overlap of at least min(2, tokens in name). The token tier can match
// different players who share two name tokens.
func Match(name string, injuries map[string]string) (string, bool) {
	if status, ok := injuries[name]; ok {
		return status, true
	}
	if len(injuries) == 0 {
		return "", false
	}

	keys := make([]string, 0, len(injuries))
	for k := range injuries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	normalized := NormalizeName(name)
	for _, k := range keys {
		if NormalizeName(k) == normalized {
			return injuries[k], true
		}
	}

	bare := StripSuffix(normalized)
	for _, k := range keys {
		if StripSuffix(NormalizeName(k)) == bare {
			return injuries[k], true
		}
	}

	tokens := strings.Fields(normalized)
	need := min(2, len(tokens))
	if need == 0 {
		return "", false
	}
	for _, k := range keys {
		if overlap(tokens, strings.Fields(NormalizeName(k))) >= need {
			return injuries[k], true
		}
	}
	return "", false
}

func overlap(a, b []string) int {
	set := make(map[string]bool, len(b))
	for _, t := range b {
		set[t] = true
	}
	seen := make(map[string]bool, len(a))
	n := 0
	for _, t := range a {
		if set[t] && !seen[t] {
			seen[t] = true
			n++
		}
	}
	return n
}
