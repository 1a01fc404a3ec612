package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/padraicbc/dotawatch/db"
	"github.com/padraicbc/dotawatch/features"
	"github.com/padraicbc/dotawatch/models"
	"github.com/padraicbc/dotawatch/opendota"
	"github.com/padraicbc/dotawatch/refresh"
)

// matchView is a cached match joined with the caller's own rating.
type matchView struct {
	models.CachedMatch
	UserScore *int   `json:"user_score"`
	UserTitle string `json:"user_title"`
}

// Matches lists the cached ranking with user ratings merged in. An empty cache
// triggers a synchronous refresh first. Scores are as of the last refresh;
// days_ago and its text are recomputed against the current clock.
func (h *Handler) Matches(c echo.Context) error {
	ctx := c.Request().Context()

	order := db.ByFinalScore
	switch c.QueryParam("view") {
	case "", "highlights":
	case "whole_game":
		order = db.ByWholeGameScore
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "view must be highlights or whole_game")
	}

	n, err := db.CountCachedMatches(ctx, h.db)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if n == 0 {
		h.log.Info("match cache empty, refreshing")
		if _, err := h.refresher.Run(ctx); err != nil {
			if errors.Is(err, refresh.ErrNoData) {
				return c.JSON(http.StatusOK, []matchView{})
			}
			return h.refreshError(err)
		}
	}

	rows, err := db.CachedMatches(ctx, h.db, order, h.topN)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if len(rows) == 0 {
		return c.JSON(http.StatusOK, []matchView{})
	}

	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.MatchID
	}
	ratings, err := db.Ratings(ctx, h.db, ids...)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	byID := make(map[string]models.MatchRating, len(ratings))
	for _, r := range ratings {
		byID[r.MatchID] = r
	}

	now := h.now()
	out := make([]matchView, 0, len(rows))
	for _, r := range rows {
		if !r.ObservedAt.IsZero() {
			days := float64(features.DaysAgo(r.ObservedAt, now))
			r.DaysAgo = &days
			r.DaysAgoPretty = features.TimeAgo(r.ObservedAt, now)
		}
		v := matchView{CachedMatch: r}
		if rating, ok := byID[r.MatchID]; ok {
			score := rating.Score
			v.UserScore = &score
			v.UserTitle = rating.Title
		}
		out = append(out, v)
	}
	return c.JSON(http.StatusOK, out)
}

// Recalculate runs a refresh now and reports how many matches were cached.
func (h *Handler) Recalculate(c echo.Context) error {
	count, err := h.refresher.Run(c.Request().Context())
	if err != nil && !errors.Is(err, refresh.ErrNoData) {
		return h.refreshError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"status": "success", "count": count})
}

func (h *Handler) refreshError(err error) error {
	h.log.Error("refresh failed", zap.Error(err))
	if errors.Is(err, opendota.ErrUpstream) {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
