package injury

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"LeBron James", "lebron james"},
		{"Nikola Jokić", "nikola jokic"},
		{"Luka Dončić", "luka doncic"},
		{"  LeBron   James ", "lebron james"},
		{"O.G. Anunoby", "og anunoby"},
		{"De'Aaron Fox", "deaaron fox"},
		{"Karl-Anthony Towns", "karl anthony towns"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeName(tt.in))
		})
	}
}

func TestStripSuffix(t *testing.T) {
	assert.Equal(t, "jaren jackson", StripSuffix("jaren jackson jr"))
	assert.Equal(t, "robert williams", StripSuffix("robert williams iii"))
	assert.Equal(t, "jr", StripSuffix("jr"))
	assert.Equal(t, "kevin durant", StripSuffix("kevin durant"))
}

func TestMatch(t *testing.T) {
	injuries := map[string]string{
		"LeBron James":          "Questionable",
		"Nikola Jokic":          "Out",
		"Jaren Jackson Jr.":     "Doubtful",
		"Anunoby O.G.":          "Probable",
		"Giannis Antetokounmpo": "Day-To-Day",
	}

	tests := []struct {
		name   string
		player string
		want   string
		found  bool
	}{
		{"exact", "LeBron James", "Questionable", true},
		{"case insensitive", "lebron james", "Questionable", true},
		{"accents", "Nikola Jokić", "Out", true},
		{"suffix", "Jaren Jackson", "Doubtful", true},
		{"token overlap", "O.G. Anunoby", "Probable", true},
		{"single token name", "Giannis", "Day-To-Day", true},
		{"no match", "Stephen Curry", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, found := Match(tt.player, injuries)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.want, status)
		})
	}
}

func TestMatchPrefersStricterTiers(t *testing.T) {
	injuries := map[string]string{
		"Luka Doncic": "Out",
		"Luka Dončić": "Probable",
	}

	status, found := Match("Luka Dončić", injuries)
	assert.True(t, found)
	assert.Equal(t, "Probable", status)

	injuries = map[string]string{
		"Jaren Jackson":     "Out",
		"Jaren Jackson Jr.": "Questionable",
	}
	status, found = Match("jaren jackson jr", injuries)
	assert.True(t, found)
	assert.Equal(t, "Questionable", status)
}

func TestMatchEmptyFeed(t *testing.T) {
	status, found := Match("LeBron James", nil)
	assert.False(t, found)
	assert.Empty(t, status)
}
