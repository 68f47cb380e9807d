// Package injuries scrapes the public NBA injury reports of ESPN and CBS
// Sports into name → status maps.
package injuries

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/omarshaarawi/ttfl/internal/injury"
	"github.com/omarshaarawi/ttfl/internal/retry"
)

const (
	espnURL = "https://www.espn.com/nba/injuries"
	cbsURL  = "https://www.cbssports.com/nba/injuries/"

	userAgent      = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"
	defaultTimeout = 10 * time.Second
)

type Client struct {
	httpClient *http.Client
	espnURL    string
	cbsURL     string
	retry      retry.Policy
}

type Option func(*Client)

func WithURLs(espn, cbs string) Option {
	return func(c *Client) {
		c.espnURL = espn
		c.cbsURL = cbs
	}
}

func WithRetryPolicy(p retry.Policy) Option {
	return func(c *Client) { c.retry = p }
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		espnURL:    espnURL,
		cbsURL:     cbsURL,
		retry:      retry.DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ESPN(ctx context.Context) (map[string]string, error) {
	var feed map[string]string
	err := c.fetch(ctx, "espn-injuries", c.espnURL, func(body io.Reader) error {
		var err error
		feed, err = ParseESPN(body)
		return err
	})
	return feed, err
}

func (c *Client) CBS(ctx context.Context) (map[string]string, error) {
	var feed map[string]string
	err := c.fetch(ctx, "cbs-injuries", c.cbsURL, func(body io.Reader) error {
		var err error
		feed, err = ParseCBS(body)
		return err
	})
	return feed, err
}

// Report merges both feeds with ESPN taking precedence. A feed that cannot be
// fetched is logged and left out; the report is never an error.
func (c *Client) Report(ctx context.Context) map[string]string {
	espn, err := c.ESPN(ctx)
	if err != nil {
		slog.Warn("Could not fetch ESPN injuries", "error", err)
	}
	cbs, err := c.CBS(ctx)
	if err != nil {
		slog.Warn("Could not fetch CBS Sports injuries", "error", err)
	}

	report := injury.Merge(espn, cbs)
	slog.Info("Fetched injury report", "players", len(report), "espn", len(espn), "cbs", len(cbs))
	return report
}

func (c *Client) fetch(ctx context.Context, name, url string, parse func(io.Reader) error) error {
	return c.retry.Do(ctx, name, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("error creating request: %w", err)
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("error making request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("%s: unexpected status code: %d", name, resp.StatusCode)
		}
		return parse(resp.Body)
	})
}

// columns locates the player and status cells of an injury table.
type columns struct {
	name     int
	status   int
	position bool
}

// detectColumns reads the table's header cells. When no status header is
// found the fallback layout is used.
func detectColumns(table *goquery.Selection, fallback columns) columns {
	cols := columns{name: -1, status: -1}
	table.Find("th").Each(func(i int, th *goquery.Selection) {
		header := strings.ToUpper(strings.TrimSpace(th.Text()))
		switch {
		case header == "NAME" || header == "PLAYER":
			if cols.name < 0 {
				cols.name = i
			}
		case header == "POS" || header == "POSITION":
			cols.position = true
		case strings.Contains(header, "STATUS"):
			cols.status = i
		}
	})

	if cols.status < 0 {
		return fallback
	}
	if cols.name < 0 {
		cols.name = 0
	}
	return cols
}

// ParseESPN reads every table row of the ESPN injury page. Without a
// separate position column the trailing position token of the name cell is
// dropped ("Joel Embiid C").
func ParseESPN(r io.Reader) (map[string]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing ESPN injuries: %w", err)
	}

	feed := make(map[string]string)
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		cols := detectColumns(table, columns{name: 0, status: 1})
		table.Find("tr").Each(func(_ int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() < 2 || cells.Length() <= max(cols.name, cols.status) {
				return
			}

			name := strings.TrimSpace(cells.Eq(cols.name).Text())
			status := strings.TrimSpace(cells.Eq(cols.status).Text())
			if name == "" || status == "" {
				return
			}
			if !cols.position {
				name = stripPosition(name)
			}
			feed[name] = status
		})
	})
	return feed, nil
}

// ParseCBS reads the TableBase rows of the CBS Sports injury page. The player
// name is taken from the cell's link, preferring the long form.
func ParseCBS(r io.Reader) (map[string]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing CBS injuries: %w", err)
	}

	feed := make(map[string]string)
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		cols := detectColumns(table, columns{name: 0, status: 2})
		table.Find("tr").Each(func(_ int, row *goquery.Selection) {
			class, _ := row.Attr("class")
			if !strings.Contains(class, "TableBase") {
				return
			}
			cells := row.Find("td")
			if cells.Length() < 3 || cells.Length() <= max(cols.name, cols.status) {
				return
			}

			name := cbsPlayerName(cells.Eq(cols.name))
			status := strings.TrimSpace(cells.Eq(cols.status).Text())
			if name == "" || status == "" {
				return
			}
			feed[name] = status
		})
	})
	return feed, nil
}

func cbsPlayerName(cell *goquery.Selection) string {
	if long := cell.Find(".CellPlayerName--long a"); long.Length() > 0 {
		return strings.TrimSpace(long.First().Text())
	}
	if link := cell.Find("a"); link.Length() > 0 {
		return strings.TrimSpace(link.First().Text())
	}
	return strings.TrimSpace(cell.Text())
}

func stripPosition(name string) string {
	i := strings.LastIndex(name, " ")
	if i < 0 {
		return name
	}
	if len(name[i+1:]) <= 3 {
		return strings.TrimSpace(name[:i])
	}
	return name
}
