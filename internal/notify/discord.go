// Package notify posts recommendations to a Discord channel through a
// webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/omarshaarawi/ttfl/internal/models"
	"github.com/omarshaarawi/ttfl/internal/retry"
)

const (
	PageSize = 10
	MaxPicks = 50

	username         = "TTFL Picker"
	maxInjuryLines   = 25
	defaultRetryWait = 2 * time.Second

	// Discord rejects fields with an empty name.
	blankFieldName = "\u200b"
)

var ErrNoWebhook = errors.New("DISCORD_WEBHOOK_URL or DISCORD_TTFL not set")

var pageColors = []int{0x2ecc71, 0x3498db, 0x9b59b6, 0xe67e22, 0xe74c3c}

const fallbackColor = 0x95a5a6

type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type Embed struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Color       int     `json:"color"`
	Fields      []Field `json:"fields,omitempty"`
	Timestamp   string  `json:"timestamp,omitempty"`
}

type message struct {
	Username string  `json:"username"`
	Embeds   []Embed `json:"embeds"`
}

// PageResult reports the delivery of one message.
type PageResult struct {
	Title string
	Err   error
}

type Result []PageResult

func (r Result) OK() bool {
	if len(r) == 0 {
		return false
	}
	for _, p := range r {
		if p.Err != nil {
			return false
		}
	}
	return true
}

type Discord struct {
	url        string
	httpClient *http.Client
	now        func() time.Time
	sleep      func(ctx context.Context, d time.Duration) error
}

type Option func(*Discord)

func WithHTTPClient(hc *http.Client) Option {
	return func(d *Discord) { d.httpClient = hc }
}

func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(d *Discord) { d.sleep = sleep }
}

func NewDiscord(webhookURL string, opts ...Option) (*Discord, error) {
	if webhookURL == "" {
		return nil, ErrNoWebhook
	}
	d := &Discord{
		url:        webhookURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		now:        time.Now,
		sleep:      retry.Sleep,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// PostPicks sends up to MaxPicks recommendations as one message per page of
// PageSize, followed by an injury digest when injured is not empty. Every
// page is attempted; failures are reported per page.
func (d *Discord) PostPicks(ctx context.Context, recs []models.PlayerRecommendation, date, firstGame string, injured []models.InjuredPlayer) Result {
	embeds := PickPages(recs, date, firstGame)
	if len(embeds) == 0 {
		return nil
	}
	embeds[0].Timestamp = d.now().UTC().Format(time.RFC3339)
	if len(injured) > 0 {
		embeds = append(embeds, InjuryDigest(injured, date))
	}

	result := make(Result, 0, len(embeds))
	for _, embed := range embeds {
		err := d.send(ctx, embed)
		if err != nil {
			slog.Error("Failed to post to Discord", "page", embed.Title, "error", err)
		}
		result = append(result, PageResult{Title: embed.Title, Err: err})
	}
	return result
}

// PickPages splits the ranked list into embeds of PageSize picks.
func PickPages(recs []models.PlayerRecommendation, date, firstGame string) []Embed {
	recs = recs[:min(len(recs), MaxPicks)]

	var embeds []Embed
	for start := 0; start < len(recs); start += PageSize {
		page := recs[start:min(len(recs), start+PageSize)]
		first, last := start+1, start+len(page)

		embed := Embed{
			Title: fmt.Sprintf("🏀 Picks #%d-%d", first, last),
			Color: pageColor(start / PageSize),
		}
		if start == 0 {
			embed.Title = fmt.Sprintf("🏀 TTFL %s - Picks #%d-%d", date, first, last)
			if firstGame != "" {
				embed.Description = fmt.Sprintf("⏰ Deadline: first game at %s", firstGame)
			}
		}
		for i, r := range page {
			embed.Fields = append(embed.Fields, Field{Name: blankFieldName, Value: formatPick(first+i, r)})
		}
		embeds = append(embeds, embed)
	}
	return embeds
}

func InjuryDigest(injured []models.InjuredPlayer, date string) Embed {
	lines := make([]string, 0, min(len(injured), maxInjuryLines)+1)
	for _, p := range injured[:min(len(injured), maxInjuryLines)] {
		lines = append(lines, fmt.Sprintf("%s **%s** (%s) - %s", riskEmoji(p.DNPRisk), p.Name, p.Team, p.Status))
	}
	if extra := len(injured) - maxInjuryLines; extra > 0 {
		lines = append(lines, fmt.Sprintf("...and %d more", extra))
	}
	return Embed{
		Title:       fmt.Sprintf("🚑 Notable Injuries - %s", date),
		Description: strings.Join(lines, "\n"),
		Color:       fallbackColor,
	}
}

func pageColor(page int) int {
	if page < len(pageColors) {
		return pageColors[page]
	}
	return fallbackColor
}

// MatchupLabel grades the combined opponent factor.
func MatchupLabel(combined float64) string {
	switch {
	case combined >= 1.10:
		return "🟢 Weak defense"
	case combined >= 1.0:
		return "🟡 Average defense"
	case combined >= 0.90:
		return "🟠 Tough defense"
	}
	return "🔴 Very tough defense"
}

func riskEmoji(risk float64) string {
	switch {
	case risk >= 1.0:
		return "🚫"
	case risk >= 0.5:
		return "⛔"
	case risk > 0:
		return "⚠️"
	}
	return ""
}

func formatPick(rank int, r models.PlayerRecommendation) string {
	matchup := MatchupLabel(r.Matchup())
	if r.BestDefender != "" && r.DefenderFactor < 0.95 {
		matchup += fmt.Sprintf(" (vs %s)", r.BestDefender)
	}

	status := "✅ Healthy"
	switch {
	case r.IsOut():
		status = "🚫 OUT"
	case r.DNPRisk > 0:
		status = fmt.Sprintf("%s %s (%d%%)", riskEmoji(r.DNPRisk), r.InjuryStatus, int(r.DNPRisk*100))
	}

	trend := "➡️ Stable"
	switch r.Trend {
	case models.TrendRising:
		trend = "🔥 " + r.TrendDisplay()
	case models.TrendFalling:
		trend = "❄️ " + r.TrendDisplay()
	}

	return fmt.Sprintf("**#%d %s** (%s vs %s)\nScore: **%.1f** | Avg: %.1f | %s\n%s\n%s",
		rank, r.Name, r.Team, r.OpponentTeam, r.FinalScore, r.SimpleAvg, trend, matchup, status)
}

// send posts one embed. A 429 answer is waited out and retried once.
func (d *Discord) send(ctx context.Context, embed Embed) error {
	body, err := json.Marshal(message{Username: username, Embeds: []Embed{embed}})
	if err != nil {
		return fmt.Errorf("error encoding message: %w", err)
	}

	for attempt := 0; ; attempt++ {
		status, retryAfter, err := d.post(ctx, body)
		if err != nil {
			return err
		}
		switch {
		case status >= 200 && status < 300:
			return nil
		case status == http.StatusTooManyRequests && attempt == 0:
			slog.Warn("Discord rate limited, retrying", "wait", retryAfter)
			if err := d.sleep(ctx, retryAfter); err != nil {
				return err
			}
		default:
			return fmt.Errorf("discord webhook: unexpected status code: %d", status)
		}
	}
}

func (d *Discord) post(ctx context.Context, body []byte) (int, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return 0, 0, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	return resp.StatusCode, retryAfter(resp.Header.Get("Retry-After")), nil
}

func retryAfter(header string) time.Duration {
	secs, err := strconv.ParseFloat(strings.TrimSpace(header), 64)
	if err != nil || secs <= 0 {
		return defaultRetryWait
	}
	return time.Duration(secs * float64(time.Second))
}
