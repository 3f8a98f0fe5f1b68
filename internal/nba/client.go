// Package nba fetches season game logs from the stats.nba.com API: the
// league-wide team game log, team rosters and per-player game logs. Responses
// come back as generic result sets (parallel header and row arrays) and are
// cached so immutable past seasons are only ever fetched once.
package nba

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/HarryGoodman/nba-betting-ml/internal/models"
)

// Client is a rate-limited stats API client.
type Client struct {
	baseURL string
	http    *http.Client
	cache   Cache
	delay   time.Duration
	logger  *zap.SugaredLogger

	mu   sync.Mutex
	last time.Time
}

func NewClient(baseURL string, cache Cache, delay time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		cache:   cache,
		delay:   delay,
		logger:  logger.Sugar(),
	}
}

// LeagueGameLog fetches every team game row for a season, e.g. "2023-24".
func (c *Client) LeagueGameLog(ctx context.Context, season string) ([]models.TeamGame, error) {
	params := url.Values{
		"Counter":      {"0"},
		"Direction":    {"ASC"},
		"LeagueID":     {"00"},
		"PlayerOrTeam": {"T"},
		"Season":       {season},
		"SeasonType":   {"Regular Season"},
		"Sorter":       {"DATE"},
	}

	resp, err := c.fetch(ctx, "leaguegamelog-"+season, "leaguegamelog", params)
	if err != nil {
		return nil, err
	}
	set, err := resp.set("LeagueGameLog")
	if err != nil {
		return nil, err
	}

	games := make([]models.TeamGame, 0, len(set.RowSet))
	for i := range set.RowSet {
		row, err := set.row(i)
		if err != nil {
			return nil, err
		}

		date, err := row.date("GAME_DATE")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		stats, err := row.statLine()
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}

		games = append(games, models.TeamGame{
			GameID:     row.str("GAME_ID"),
			TeamAbbrev: row.str("TEAM_ABBREVIATION"),
			GameDate:   date,
			Matchup:    row.str("MATCHUP"),
			WinLoss:    row.str("WL"),
			Season:     season,
			Stats:      stats,
		})
	}

	c.logger.Infow("Fetched league game log", "season", season, "rows", len(games))
	return games, nil
}

// TeamIDs fetches the IDs of every franchise known to the league.
func (c *Client) TeamIDs(ctx context.Context) ([]int64, error) {
	resp, err := c.fetch(ctx, "commonteamyears", "commonteamyears", url.Values{"LeagueID": {"00"}})
	if err != nil {
		return nil, err
	}
	set, err := resp.set("TeamYears")
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(set.RowSet))
	for i := range set.RowSet {
		row, err := set.row(i)
		if err != nil {
			return nil, err
		}
		ids = append(ids, row.i64("TEAM_ID"))
	}
	return ids, nil
}

// TeamRoster fetches the player IDs on a team's roster for a season.
func (c *Client) TeamRoster(ctx context.Context, teamID int64, season string) ([]int64, error) {
	params := url.Values{
		"TeamID": {fmt.Sprint(teamID)},
		"Season": {season},
	}
	resp, err := c.fetch(ctx, fmt.Sprintf("commonteamroster-%d-%s", teamID, season), "commonteamroster", params)
	if err != nil {
		return nil, err
	}
	set, err := resp.set("CommonTeamRoster")
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(set.RowSet))
	for i := range set.RowSet {
		row, err := set.row(i)
		if err != nil {
			return nil, err
		}
		ids = append(ids, row.i64("PLAYER_ID"))
	}
	return ids, nil
}

// PlayerGameLog fetches one player's game rows for a season.
func (c *Client) PlayerGameLog(ctx context.Context, playerID int64, season string) ([]models.PlayerGame, error) {
	params := url.Values{
		"PlayerID":   {fmt.Sprint(playerID)},
		"Season":     {season},
		"SeasonType": {"Regular Season"},
	}
	resp, err := c.fetch(ctx, fmt.Sprintf("playergamelog-%d-%s", playerID, season), "playergamelog", params)
	if err != nil {
		return nil, err
	}
	set, err := resp.set("PlayerGameLog")
	if err != nil {
		return nil, err
	}

	games := make([]models.PlayerGame, 0, len(set.RowSet))
	for i := range set.RowSet {
		row, err := set.row(i)
		if err != nil {
			return nil, err
		}

		date, err := row.date("GAME_DATE")
		if err != nil {
			return nil, fmt.Errorf("player %d row %d: %w", playerID, i, err)
		}
		stats, err := row.statLine()
		if err != nil {
			return nil, fmt.Errorf("player %d row %d: %w", playerID, i, err)
		}

		games = append(games, models.PlayerGame{
			PlayerID: row.i64("Player_ID"),
			GameID:   row.str("Game_ID"),
			Matchup:  row.str("MATCHUP"),
			GameDate: date,
			Minutes:  row.f64("MIN"),
			Season:   season,
			Stats:    stats,
		})
	}

	c.logger.Infow("Fetched player game log", "playerID", playerID, "season", season, "rows", len(games))
	return games, nil
}

// fetch returns the decoded response for an endpoint, from cache when
// possible. Live requests are spaced at least c.delay apart across all
// goroutines; the API bans callers that hit it faster.
func (c *Client) fetch(ctx context.Context, cacheKey, endpoint string, params url.Values) (*resultSetResponse, error) {
	if data, ok := c.cache.Get(ctx, cacheKey); ok {
		c.logger.Debugw("Cache hit", "key", cacheKey)
		return decodeResultSets(data)
	}

	c.throttle()

	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	// stats.nba.com rejects requests without browser-like headers.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")
	req.Header.Set("Referer", "https://www.nba.com/")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-nba-stats-origin", "stats")
	req.Header.Set("x-nba-stats-token", "true")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", endpoint, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", endpoint, err)
	}

	if err := c.cache.Set(ctx, cacheKey, body); err != nil {
		c.logger.Warnw("Failed to cache response", "key", cacheKey, "error", err)
	}

	return decodeResultSets(body)
}

func (c *Client) throttle() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if wait := c.delay - time.Since(c.last); wait > 0 {
		time.Sleep(wait)
	}
	c.last = time.Now()
}
