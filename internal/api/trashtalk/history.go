// Package trashtalk reads the pick history of a TTFL account from
// fantasy.trashtalk.co.
package trashtalk

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/omarshaarawi/ttfl/internal/models"
	"github.com/omarshaarawi/ttfl/internal/retry"
)

const (
	historyURL = "https://fantasy.trashtalk.co/?tpl=historique"
	userAgent  = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

	// Date, Joueur, Pts, Reb, Ast, Stl, Blk, Ftm, Fgm, Fg3m, Malus, Score, [Bonus]
	colDate    = 0
	colPlayer  = 1
	colScore   = 11
	colLocked  = 12
	minColumns = 12
)

type Client struct {
	httpClient *http.Client
	url        string
	cookies    []*http.Cookie
	retry      retry.Policy
}

type Option func(*Client)

func WithURL(u string) Option {
	return func(c *Client) { c.url = u }
}

func WithRetryPolicy(p retry.Policy) Option {
	return func(c *Client) { c.retry = p }
}

// NewClient loads the session cookies from a Netscape cookie file.
func NewClient(cookieFile string, opts ...Option) (*Client, error) {
	cookies, err := LoadCookies(cookieFile)
	if err != nil {
		return nil, err
	}

	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		url:        historyURL,
		cookies:    cookies,
		retry:      retry.DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) History(ctx context.Context) ([]models.Pick, error) {
	var picks []models.Pick
	err := c.retry.Do(ctx, "ttfl-history", func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
		if err != nil {
			return fmt.Errorf("error creating request: %w", err)
		}
		req.Header.Set("User-Agent", userAgent)
		for _, cookie := range c.cookies {
			req.AddCookie(cookie)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("error making request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("ttfl history: unexpected status code: %d", resp.StatusCode)
		}

		picks, err = ParseHistory(resp.Body)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("fetching pick history: %w", err)
	}

	if len(picks) == 0 {
		slog.Warn("No picks found in TTFL history, cookies may have expired")
	}
	return picks, nil
}

// LockedPlayers returns the players picked within the last lockDays days.
func (c *Client) LockedPlayers(ctx context.Context, now time.Time, lockDays int) (models.LockSet, error) {
	picks, err := c.History(ctx)
	if err != nil {
		return nil, err
	}
	locks := LockedFrom(picks, now, lockDays)
	slog.Info("Loaded locked players", "picks", len(picks), "locked", len(locks))
	return locks, nil
}

// ParseHistory reads every table row with at least twelve cells and a
// YYYY-MM-DD date. Other rows, headers included, are skipped.
func ParseHistory(r io.Reader) ([]models.Pick, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing history page: %w", err)
	}

	var picks []models.Pick
	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td, th")
		if cells.Length() < minColumns {
			return
		}
		text := func(i int) string {
			return strings.TrimSpace(cells.Eq(i).Text())
		}

		date, err := time.Parse("2006-01-02", text(colDate))
		if err != nil {
			return
		}

		pick := models.Pick{Date: date, Player: text(colPlayer)}
		if score, err := strconv.Atoi(text(colScore)); err == nil {
			pick.Score = score
			pick.HasScore = true
		}
		if cells.Length() > colLocked {
			pick.Locked = strings.EqualFold(text(colLocked), "oui")
		}
		picks = append(picks, pick)
	})
	return picks, nil
}

// LockedFrom applies the lock window: a pick dated on or after now minus
// lockDays keeps its player locked.
func LockedFrom(picks []models.Pick, now time.Time, lockDays int) models.LockSet {
	cutoff := now.AddDate(0, 0, -lockDays)
	locks := models.NewLockSet()
	for _, p := range picks {
		y, m, d := p.Date.Date()
		picked := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
		if !picked.Before(cutoff) {
			locks.Add(p.Player)
		}
	}
	return locks
}
