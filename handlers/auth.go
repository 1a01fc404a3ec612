package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/padraicbc/dotawatch/db"
	mw "github.com/padraicbc/dotawatch/middleware"
)

const tokenLifetime = 30 * 24 * time.Hour

type login struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (l *login) normalize() {
	l.Username = strings.TrimSpace(l.Username)
}

// HashPasswordForUser returns the bcrypt hash stored for a new user. Both
// fields must be non-blank.
func HashPasswordForUser(username, password string) (string, error) {
	switch {
	case strings.TrimSpace(username) == "":
		return "", errors.New("username is required")
	case strings.TrimSpace(password) == "":
		return "", errors.New("password is required")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(b), err
}

// requireAdmin rejects callers that are not registered users listed in
// AdminUsers.
func (h *Handler) requireAdmin(c echo.Context) error {
	name, _ := c.Get("username").(string)
	name = strings.TrimSpace(name)
	if name == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if _, err := db.User(c.Request().Context(), h.db, name); err != nil {
		if errors.Is(err, db.ErrNoUser) {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	for _, admin := range h.AdminUsers {
		if strings.EqualFold(name, strings.TrimSpace(admin)) {
			return nil
		}
	}
	return echo.NewHTTPError(http.StatusForbidden, "admin access required")
}

// PasswordHash hashes a new user's password so an admin can add them with
// cmd/adduser or directly in the database.
func (h *Handler) PasswordHash(c echo.Context) error {
	if err := h.requireAdmin(c); err != nil {
		return err
	}
	var req login
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.normalize()
	hash, err := HashPasswordForUser(req.Username, req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"username": req.Username, "password_hash": hash})
}

// Signin exchanges a username and password for a bearer token.
func (h *Handler) Signin(c echo.Context) error {
	var req login
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.normalize()

	user, err := db.User(c.Request().Context(), h.db, req.Username)
	if err != nil {
		if !errors.Is(err, db.ErrNoUser) {
			h.log.Error("signin lookup failed", zap.Error(err))
		}
		return echo.NewHTTPError(http.StatusBadRequest, "incorrect username or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		h.log.Info("signin rejected", zap.String("username", req.Username))
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	token, err := h.issueToken(req.Username)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"token": token})
}

// issueToken signs a token for username. Expiry follows the wall clock the
// JWT middleware validates against.
func (h *Handler) issueToken(username string) (string, error) {
	claims := &mw.Claims{
		Username: username,
		UserHash: mw.UserHashFromUsername(username, h.JWTKey),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenLifetime)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.JWTKey)
}
