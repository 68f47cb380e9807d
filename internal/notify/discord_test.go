package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarshaarawi/ttfl/internal/models"
)

func ranked(n int) []models.PlayerRecommendation {
	recs := make([]models.PlayerRecommendation, 0, n)
	for i := 0; i < n; i++ {
		recs = append(recs, models.PlayerRecommendation{
			Name:           fmt.Sprintf("Player %d", i+1),
			Team:           "LAL",
			OpponentTeam:   "BOS",
			SimpleAvg:      40,
			TrendFactor:    1.0,
			Trend:          models.TrendFlat,
			DefenseFactor:  1.0,
			DefenderFactor: 1.0,
			FinalScore:     float64(100 - i),
		})
	}
	return recs
}

type webhookRecorder struct {
	mu       sync.Mutex
	messages []message
	statuses []int
}

func (w *webhookRecorder) handler(t *testing.T) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var msg message
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&msg))

		w.mu.Lock()
		defer w.mu.Unlock()
		w.messages = append(w.messages, msg)

		status := http.StatusNoContent
		if len(w.statuses) > 0 {
			status, w.statuses = w.statuses[0], w.statuses[1:]
		}
		if status == http.StatusTooManyRequests {
			rw.Header().Set("Retry-After", "0.5")
		}
		rw.WriteHeader(status)
	}
}

func newTestDiscord(t *testing.T, rec *webhookRecorder, waits *[]time.Duration) *Discord {
	t.Helper()
	server := httptest.NewServer(rec.handler(t))
	t.Cleanup(server.Close)

	d, err := NewDiscord(server.URL, WithSleep(func(_ context.Context, d time.Duration) error {
		*waits = append(*waits, d)
		return nil
	}))
	require.NoError(t, err)
	return d
}

func TestNewDiscordRequiresURL(t *testing.T) {
	_, err := NewDiscord("")
	assert.ErrorIs(t, err, ErrNoWebhook)
}

func TestPickPages(t *testing.T) {
	pages := PickPages(ranked(57), "2026-01-21", "7:00 pm ET")
	require.Len(t, pages, 5)

	assert.Equal(t, "🏀 TTFL 2026-01-21 - Picks #1-10", pages[0].Title)
	assert.Equal(t, "⏰ Deadline: first game at 7:00 pm ET", pages[0].Description)
	assert.Equal(t, 0x2ecc71, pages[0].Color)
	assert.Len(t, pages[0].Fields, 10)

	assert.Equal(t, "🏀 Picks #11-20", pages[1].Title)
	assert.Empty(t, pages[1].Description)
	assert.Equal(t, 0x3498db, pages[1].Color)
	assert.Equal(t, "🏀 Picks #41-50", pages[4].Title)
	assert.Equal(t, 0xe74c3c, pages[4].Color)

	assert.Contains(t, pages[1].Fields[0].Value, "**#11 Player 11**")
	assert.NotEmpty(t, pages[1].Fields[0].Name)
}

func TestPickPagesPartial(t *testing.T) {
	pages := PickPages(ranked(13), "2026-01-21", "")
	require.Len(t, pages, 2)
	assert.Empty(t, pages[0].Description)
	assert.Equal(t, "🏀 Picks #11-13", pages[1].Title)
	assert.Len(t, pages[1].Fields, 3)

	assert.Empty(t, PickPages(nil, "2026-01-21", ""))
}

func TestFormatPick(t *testing.T) {
	r := models.PlayerRecommendation{
		Name: "LeBron James", Team: "LAL", OpponentTeam: "BOS",
		SimpleAvg: 48.2, FinalScore: 39.46, TrendFactor: 1.12, Trend: models.TrendRising,
		DefenseFactor: 0.95, DefenderFactor: 0.85, BestDefender: "Jrue Holiday",
		InjuryStatus: "Questionable", DNPRisk: 0.4,
	}

	assert.Equal(t,
		"**#3 LeBron James** (LAL vs BOS)\n"+
			"Score: **39.5** | Avg: 48.2 | 🔥 +12%\n"+
			"🔴 Very tough defense (vs Jrue Holiday)\n"+
			"⚠️ Questionable (40%)",
		formatPick(3, r))
}

func TestMatchupLabel(t *testing.T) {
	assert.Equal(t, "🟢 Weak defense", MatchupLabel(1.2))
	assert.Equal(t, "🟡 Average defense", MatchupLabel(1.0))
	assert.Equal(t, "🟠 Tough defense", MatchupLabel(0.93))
	assert.Equal(t, "🔴 Very tough defense", MatchupLabel(0.9*0.85))
}

func TestPostPicks(t *testing.T) {
	rec := &webhookRecorder{}
	var waits []time.Duration
	d := newTestDiscord(t, rec, &waits)

	injured := []models.InjuredPlayer{{Name: "Joel Embiid", Team: "PHI", Status: "Out", DNPRisk: 1}}
	result := d.PostPicks(context.Background(), ranked(25), "2026-01-21", "7:00 pm ET", injured)

	require.Len(t, result, 4)
	assert.True(t, result.OK())
	require.Len(t, rec.messages, 4)
	for _, msg := range rec.messages {
		assert.Equal(t, "TTFL Picker", msg.Username)
		require.Len(t, msg.Embeds, 1)
	}
	assert.NotEmpty(t, rec.messages[0].Embeds[0].Timestamp)
	assert.Empty(t, rec.messages[1].Embeds[0].Timestamp)
	assert.Equal(t, "🚑 Notable Injuries - 2026-01-21", rec.messages[3].Embeds[0].Title)
	assert.Contains(t, rec.messages[3].Embeds[0].Description, "🚫 **Joel Embiid** (PHI) - Out")
	assert.Empty(t, waits)
}

func TestPostPicksReportsFailedPages(t *testing.T) {
	rec := &webhookRecorder{statuses: []int{http.StatusNoContent, http.StatusBadRequest, http.StatusNoContent}}
	var waits []time.Duration
	d := newTestDiscord(t, rec, &waits)

	result := d.PostPicks(context.Background(), ranked(30), "2026-01-21", "", nil)

	require.Len(t, result, 3)
	assert.False(t, result.OK())
	assert.NoError(t, result[0].Err)
	assert.Error(t, result[1].Err)
	assert.NoError(t, result[2].Err)
}

func TestPostPicksRetriesRateLimitOnce(t *testing.T) {
	rec := &webhookRecorder{statuses: []int{http.StatusTooManyRequests, http.StatusOK}}
	var waits []time.Duration
	d := newTestDiscord(t, rec, &waits)

	result := d.PostPicks(context.Background(), ranked(5), "2026-01-21", "", nil)

	assert.True(t, result.OK())
	assert.Len(t, rec.messages, 2)
	assert.Equal(t, []time.Duration{500 * time.Millisecond}, waits)
}

func TestPostPicksGivesUpAfterSecondRateLimit(t *testing.T) {
	rec := &webhookRecorder{statuses: []int{http.StatusTooManyRequests, http.StatusTooManyRequests}}
	var waits []time.Duration
	d := newTestDiscord(t, rec, &waits)

	result := d.PostPicks(context.Background(), ranked(5), "2026-01-21", "", nil)

	require.Len(t, result, 1)
	assert.False(t, result.OK())
	assert.Len(t, waits, 1)
}

func TestPostPicksNothingToSend(t *testing.T) {
	rec := &webhookRecorder{}
	var waits []time.Duration
	d := newTestDiscord(t, rec, &waits)

	result := d.PostPicks(context.Background(), nil, "2026-01-21", "", nil)
	assert.False(t, result.OK())
	assert.Empty(t, rec.messages)
}
