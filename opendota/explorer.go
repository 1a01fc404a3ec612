package opendota

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/padraicbc/dotawatch/match"
)

// Row is one explorer result row of the matches table joined with leagues.
type Row struct {
	MatchID               int64           `json:"match_id"`
	StartTime             int64           `json:"start_time"`
	Duration              int             `json:"duration"`
	RadiantWin            bool            `json:"radiant_win"`
	RadiantGoldAdv        json.RawMessage `json:"radiant_gold_adv"`
	Teamfights            json.RawMessage `json:"teamfights"`
	Objectives            json.RawMessage `json:"objectives"`
	BarracksStatusRadiant *int            `json:"barracks_status_radiant"`
	BarracksStatusDire    *int            `json:"barracks_status_dire"`
	TowerStatusRadiant    int             `json:"tower_status_radiant"`
	TowerStatusDire       int             `json:"tower_status_dire"`
	RadiantScore          int             `json:"radiant_score"`
	DireScore             int             `json:"dire_score"`
	RadiantTeamID         int64           `json:"radiant_team_id"`
	DireTeamID            int64           `json:"dire_team_id"`
	LeagueID              int64           `json:"leagueid"`
	SeriesID              int64           `json:"series_id"`
	SeriesType            int             `json:"series_type"`
	Name                  string          `json:"name"`
	Tier                  string          `json:"tier"`
}

// ToMatch converts the row into a match record. Event fields that cannot be
// decoded are left absent and listed in Match.Malformed.
func (r Row) ToMatch() match.Match {
	m := match.Match{
		MatchID:         r.MatchID,
		DurationSeconds: r.Duration,
		SideAWon:        r.RadiantWin,
		TowerStatusA:    r.TowerStatusRadiant,
		TowerStatusB:    r.TowerStatusDire,
		ScoreA:          r.RadiantScore,
		ScoreB:          r.DireScore,
		TeamAID:         r.RadiantTeamID,
		TeamBID:         r.DireTeamID,
		Tournament:      r.Name,
		LeagueID:        r.LeagueID,
		SeriesID:        r.SeriesID,
		SeriesType:      r.SeriesType,
	}
	if r.BarracksStatusRadiant != nil && r.BarracksStatusDire != nil {
		m.BarracksStatusA = *r.BarracksStatusRadiant
		m.BarracksStatusB = *r.BarracksStatusDire
	} else {
		m.BarracksUnknown = true
	}
	if r.StartTime > 0 {
		m.ObservedAt = time.Unix(r.StartTime, 0).UTC()
	}

	var err error
	if m.GoldAdvantage, err = match.ParseSeries(r.RadiantGoldAdv); err != nil {
		m.Malformed = append(m.Malformed, match.FieldGoldAdvantage)
	}
	if m.Teamfights, err = match.ParseTeamfights(r.Teamfights); err != nil {
		m.Malformed = append(m.Malformed, match.FieldTeamfights)
	}
	if m.Objectives, err = match.ParseObjectives(r.Objectives); err != nil {
		m.Malformed = append(m.Malformed, match.FieldObjectives)
	}
	return m
}

type explorerResponse struct {
	Rows     []Row  `json:"rows"`
	RowCount int    `json:"rowCount"`
	Err      string `json:"err"`
}

// Explorer runs a read-only SQL query against the public match database.
func (c *Client) Explorer(ctx context.Context, sql string) ([]Row, error) {
	body, err := c.get(ctx, "/explorer", url.Values{"sql": {sql}})
	if err != nil {
		return nil, err
	}
	var resp explorerResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &APIError{Path: "/explorer", Err: fmt.Errorf("decoding rows: %w", err)}
	}
	if resp.Err != "" {
		return nil, &APIError{Path: "/explorer", Err: fmt.Errorf("query: %s", resp.Err)}
	}
	return resp.Rows, nil
}

// Query selects recent professional matches.
type Query struct {
	// Tiers limits leagues by tier, e.g. professional, premium. Empty means any.
	Tiers []string
	// ExcludeLeague drops leagues whose name contains this text.
	ExcludeLeague string
	// Since drops matches that started before it. Zero means no limit.
	Since time.Time
	Limit int
}

// DefaultQuery mirrors the feed the rankings were tuned on.
func DefaultQuery() Query {
	return Query{
		Tiers:         []string{"professional", "premium"},
		ExcludeLeague: "Division II",
		Limit:         1000,
	}
}

// SQL renders the explorer query.
func (q Query) SQL() string {
	var where []string
	if len(q.Tiers) > 0 {
		quoted := make([]string, len(q.Tiers))
		for i, t := range q.Tiers {
			quoted[i] = quote(t)
		}
		where = append(where, "leagues.tier IN ("+strings.Join(quoted, ", ")+")")
	}
	if q.ExcludeLeague != "" {
		where = append(where, "leagues.name NOT LIKE "+quote("%"+q.ExcludeLeague+"%"))
	}
	if !q.Since.IsZero() {
		where = append(where, fmt.Sprintf("matches.start_time >= %d", q.Since.Unix()))
	}

	var b strings.Builder
	b.WriteString("SELECT matches.*, leagues.name, leagues.tier\nFROM matches\nJOIN leagues USING(leagueid)\n")
	if len(where) > 0 {
		b.WriteString("WHERE " + strings.Join(where, "\n  AND ") + "\n")
	}
	b.WriteString("ORDER BY matches.start_time DESC")
	if q.Limit > 0 {
		fmt.Fprintf(&b, "\nLIMIT %d", q.Limit)
	}
	return b.String()
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// RecentMatches runs q and returns the matches in feed order, keeping the
// first row of any duplicated match id.
func (c *Client) RecentMatches(ctx context.Context, q Query) ([]match.Match, error) {
	rows, err := c.Explorer(ctx, q.SQL())
	if err != nil {
		return nil, err
	}
	seen := make(map[int64]struct{}, len(rows))
	out := make([]match.Match, 0, len(rows))
	for _, r := range rows {
		if _, dup := seen[r.MatchID]; dup {
			continue
		}
		seen[r.MatchID] = struct{}{}
		m := r.ToMatch()
		if len(m.Malformed) > 0 {
			c.log.Debug("malformed match fields", zap.Int64("match_id", m.MatchID), zap.Strings("fields", m.Malformed))
		}
		out = append(out, m)
	}
	c.log.Info("fetched matches", zap.Int("rows", len(rows)), zap.Int("matches", len(out)))
	return out, nil
}
