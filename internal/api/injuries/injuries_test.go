package injuries

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarshaarawi/ttfl/internal/retry"
)

const espnPage = `<html><body>
<div class="Table__Title">Atlanta Hawks</div>
<table>
  <thead><tr><th>NAME</th><th>POS</th><th>EST. RETURN DATE</th><th>STATUS</th><th>COMMENT</th></tr></thead>
  <tbody>
    <tr><td><a href="/nba/player/_/id/1">Trae Young</a></td><td>G</td><td>Jan 25</td><td>Out</td><td>Knee</td></tr>
    <tr><td><a href="/nba/player/_/id/2">Bol Bol</a></td><td>C</td><td>Jan 22</td><td>Day-To-Day</td><td>Ankle</td></tr>
  </tbody>
</table>
</body></html>`

const espnLegacyPage = `<table>
  <tr><td>Joel Embiid C</td><td>Questionable</td></tr>
  <tr><td>Nikola Jokić</td><td>Probable</td></tr>
  <tr><td>Lonely cell</td></tr>
</table>`

const cbsPage = `<html><body>
<table class="TableBase-table">
  <thead><tr class="TableBase-headTr">
    <th>Player</th><th>Position</th><th>Updated</th><th>Injury</th><th>Injury Status</th>
  </tr></thead>
  <tbody>
    <tr class="TableBase-bodyTr">
      <td><span class="CellPlayerName--short"><a href="/p/1">L. James</a></span><span class="CellPlayerName--long"><a href="/p/1">LeBron James</a></span></td>
      <td>F</td><td>Tue, Jan 20</td><td>Foot</td><td>Game Time Decision</td>
    </tr>
    <tr class="TableBase-bodyTr">
      <td><a href="/p/2">Trae Young</a></td>
      <td>G</td><td>Mon, Jan 19</td><td>Knee</td><td>Expected to be out until at least Jan 25</td>
    </tr>
    <tr class="other"><td>Ignored Player</td><td>G</td><td>-</td><td>-</td><td>Out</td></tr>
  </tbody>
</table>
</body></html>`

func TestParseESPNWithHeaders(t *testing.T) {
	feed, err := ParseESPN(strings.NewReader(espnPage))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"Trae Young": "Out",
		"Bol Bol":    "Day-To-Day",
	}, feed)
}

func TestParseESPNFixedColumns(t *testing.T) {
	feed, err := ParseESPN(strings.NewReader(espnLegacyPage))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"Joel Embiid":  "Questionable",
		"Nikola Jokić": "Probable",
	}, feed)
}

func TestParseCBS(t *testing.T) {
	feed, err := ParseCBS(strings.NewReader(cbsPage))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"LeBron James": "Game Time Decision",
		"Trae Young":   "Expected to be out until at least Jan 25",
	}, feed)
}

func TestParseCBSFixedColumns(t *testing.T) {
	page := `<table>
	  <tr class="TableBase-bodyTr"><td><a href="#">Ja Morant</a></td><td>G</td><td>Doubtful</td></tr>
	  <tr class="TableBase-bodyTr"><td>Too short</td><td>G</td></tr>
	</table>`

	feed, err := ParseCBS(strings.NewReader(page))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Ja Morant": "Doubtful"}, feed)
}

func TestStripPosition(t *testing.T) {
	assert.Equal(t, "Joel Embiid", stripPosition("Joel Embiid C"))
	assert.Equal(t, "Jalen Brunson", stripPosition("Jalen Brunson PG"))
	assert.Equal(t, "Kevin Love", stripPosition("Kevin Love"))
	assert.Equal(t, "Nene", stripPosition("Nene"))
}

func newTestClient(t *testing.T, espn, cbs http.HandlerFunc) *Client {
	t.Helper()
	espnServer := httptest.NewServer(espn)
	t.Cleanup(espnServer.Close)
	cbsServer := httptest.NewServer(cbs)
	t.Cleanup(cbsServer.Close)

	policy := retry.DefaultPolicy()
	policy.Sleep = func(context.Context, time.Duration) error { return nil }
	return NewClient(WithURLs(espnServer.URL, cbsServer.URL), WithRetryPolicy(policy))
}

func TestReportPrefersESPN(t *testing.T) {
	client := newTestClient(t,
		func(w http.ResponseWriter, r *http.Request) {
			assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla")
			_, _ = w.Write([]byte(espnPage))
		},
		func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(cbsPage))
		})

	report := client.Report(context.Background())
	assert.Equal(t, "Out", report["Trae Young"])
	assert.Equal(t, "Day-To-Day", report["Bol Bol"])
	assert.Equal(t, "Game Time Decision", report["LeBron James"])
	assert.Len(t, report, 3)
}

func TestReportSurvivesFeedFailure(t *testing.T) {
	client := newTestClient(t,
		func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		},
		func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(cbsPage))
		})

	report := client.Report(context.Background())
	assert.Equal(t, "Expected to be out until at least Jan 25", report["Trae Young"])
	assert.Len(t, report, 2)
}

func TestESPNStatusError(t *testing.T) {
	client := newTestClient(t,
		func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		},
		func(http.ResponseWriter, *http.Request) {})

	feed, err := client.ESPN(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Nil(t, feed)
}
