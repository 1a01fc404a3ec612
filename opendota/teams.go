package opendota

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/padraicbc/dotawatch/match"
)

type teamRow struct {
	TeamID        int64   `json:"team_id"`
	Name          string  `json:"name"`
	Tag           string  `json:"tag"`
	Rating        float64 `json:"rating"`
	LastMatchTime int64   `json:"last_match_time"`
}

// Teams returns the top teams as a directory; list order is rank order.
func (c *Client) Teams(ctx context.Context, limit int) (match.Directory, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	body, err := c.get(ctx, "/teams", q)
	if err != nil {
		return nil, err
	}
	var rows []teamRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, &APIError{Path: "/teams", Err: fmt.Errorf("decoding teams: %w", err)}
	}
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	teams := make([]match.Team, 0, len(rows))
	for _, r := range rows {
		teams = append(teams, match.Team{ID: r.TeamID, Name: r.Name})
	}
	dir := match.NewDirectory(teams)
	c.log.Info("fetched teams", zap.Int("teams", len(dir)))
	return dir, nil
}
