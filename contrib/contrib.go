// Package contrib turns GitHub contribution calendars into simulation grids:
// it fetches the public per-day contribution counts for a user and maps them
// onto cell states through the fixed graph-level thresholds.
package contrib

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/ghlife/ghlife/model"
)

var (
	// ErrNegativeCount reports a contribution count below zero.
	ErrNegativeCount = errors.New("contribution count must be >= 0")
	// ErrUsername reports a username that cannot belong to a GitHub account.
	ErrUsername = errors.New("invalid username")
	// ErrCalendar reports calendar markup that could not be parsed into the
	// fixed 7×53 layout.
	ErrCalendar = errors.New("unparseable contribution calendar")
)

// CellStateForCount maps a raw per-day contribution count onto a cell state:
// 0 → DEAD, 1–2 → GREEN_1, 3–4 → GREEN_2, 5–7 → GREEN_3, 8+ → GREEN_4.
func CellStateForCount(count int) (model.CellState, error) {
	switch {
	case count < 0:
		return model.Dead, errors.Wrapf(ErrNegativeCount, "[CellStateForCount] got %d", count)
	case count == 0:
		return model.Dead, nil
	case count <= 2:
		return model.Green1, nil
	case count <= 4:
		return model.Green2, nil
	case count <= 7:
		return model.Green3, nil
	default:
		return model.Green4, nil
	}
}

// GridFromCounts converts a 7×53 matrix of raw contribution counts into a
// validated Grid. Shape problems surface through model.NewGrid.
func GridFromCounts(counts [][]int) (*model.Grid, error) {
	cells := make([][]model.CellState, len(counts))
	for r, row := range counts {
		cells[r] = make([]model.CellState, len(row))
		for c, count := range row {
			state, err := CellStateForCount(count)
			if err != nil {
				return nil, errors.Wrapf(err, "[GridFromCounts] cell (%d,%d)", r, c)
			}
			cells[r][c] = state
		}
	}
	return model.NewGrid(cells)
}

// Source supplies a year of per-day contribution counts for a user, laid out
// as 7 weekday rows by 53 week columns.
type Source interface {
	Contributions(ctx context.Context, username string) ([][]int, error)
}

const defaultBaseURL = "https://github.com"

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,37}[a-zA-Z0-9])?$`)
	dayRe      = regexp.MustCompile(`data-count="(\d+)"[^>]*data-date="(\d{4}-\d{2}-\d{2})"|data-date="(\d{4}-\d{2}-\d{2})"[^>]*data-count="(\d+)"`)
)

// Client fetches contribution calendars from GitHub's public per-user
// calendar endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a Client against the public GitHub endpoint. An empty
// baseURL selects the real service; tests point it at a local server.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Contributions fetches and parses the user's calendar into a 7×53 count
// matrix. Days are laid out week-column-major starting at the weekday of the
// first calendar day; the partial first and last weeks stay zero.
func (cl *Client) Contributions(ctx context.Context, username string) ([][]int, error) {
	if !usernameRe.MatchString(username) {
		return nil, errors.Wrapf(ErrUsername, "[Contributions] %q", username)
	}

	url := fmt.Sprintf("%s/users/%s/contributions", cl.baseURL, username)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "[Contributions] failed to build request for %+v", username)
	}
	resp, err := cl.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "[Contributions] failed to fetch calendar for %+v", username)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("[Contributions] calendar for %+v returned status %d", username, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "[Contributions] failed to read calendar for %+v", username)
	}
	return parseCalendar(body)
}

type calendarDay struct {
	date  time.Time
	count int
}

// parseCalendar extracts (date, count) pairs from the calendar markup and
// lays them out into the 7×53 matrix.
func parseCalendar(body []byte) ([][]int, error) {
	matches := dayRe.FindAllSubmatch(body, -1)
	if len(matches) == 0 {
		return nil, errors.Wrap(ErrCalendar, "[parseCalendar] no day cells found")
	}

	days := make([]calendarDay, 0, len(matches))
	for _, m := range matches {
		countStr, dateStr := string(m[1]), string(m[2])
		if countStr == "" {
			dateStr, countStr = string(m[3]), string(m[4])
		}
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, errors.Wrapf(ErrCalendar, "[parseCalendar] bad date %q", dateStr)
		}
		count, err := strconv.Atoi(countStr)
		if err != nil {
			return nil, errors.Wrapf(ErrCalendar, "[parseCalendar] bad count %q", countStr)
		}
		days = append(days, calendarDay{date: date, count: count})
	}

	first := days[0].date
	for _, d := range days {
		if d.date.Before(first) {
			first = d.date
		}
	}

	counts := make([][]int, model.Rows)
	for r := range counts {
		counts[r] = make([]int, model.Cols)
	}
	offset := int(first.Weekday())
	for _, d := range days {
		idx := offset + int(d.date.Sub(first).Hours()/24)
		row, col := idx%model.Rows, idx/model.Rows
		if col >= model.Cols {
			return nil, errors.Wrapf(ErrCalendar, "[parseCalendar] day %s falls outside the %d-week window",
				d.date.Format("2006-01-02"), model.Cols)
		}
		counts[row][col] = d.count
	}
	return counts, nil
}
