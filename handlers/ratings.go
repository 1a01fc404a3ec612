package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/padraicbc/dotawatch/db"
	"github.com/padraicbc/dotawatch/models"
)

type rateMatchRequest struct {
	MatchID int64  `json:"match_id"`
	Title   string `json:"title"`
	Score   int    `json:"score"`
}

// RateMatch stores the signed-in user's rating for a match, replacing any
// earlier one.
func (h *Handler) RateMatch(c echo.Context) error {
	var req rateMatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.MatchID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "match_id is required")
	}
	if req.Score < 0 || req.Score > 10 {
		return echo.NewHTTPError(http.StatusBadRequest, "score must be between 0 and 10")
	}

	rating := &models.MatchRating{
		MatchID: strconv.FormatInt(req.MatchID, 10),
		Title:   strings.TrimSpace(req.Title),
		Score:   req.Score,
	}
	if err := db.UpsertRating(c.Request().Context(), h.db, rating); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	username, _ := c.Get("username").(string)
	h.log.Info("match rated",
		zap.String("match_id", rating.MatchID),
		zap.Int("score", rating.Score),
		zap.String("username", username))
	return c.JSON(http.StatusOK, map[string]string{"status": "success"})
}

// Ratings lists every stored rating.
func (h *Handler) Ratings(c echo.Context) error {
	ratings, err := db.Ratings(c.Request().Context(), h.db)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if ratings == nil {
		ratings = []models.MatchRating{}
	}
	return c.JSON(http.StatusOK, ratings)
}
