package main

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"

	"github.com/padraicbc/dotawatch/cache"
	"github.com/padraicbc/dotawatch/config"
	"github.com/padraicbc/dotawatch/db"
	"github.com/padraicbc/dotawatch/handlers"
	applog "github.com/padraicbc/dotawatch/logger"
	mw "github.com/padraicbc/dotawatch/middleware"
	"github.com/padraicbc/dotawatch/opendota"
	"github.com/padraicbc/dotawatch/pipeline"
	"github.com/padraicbc/dotawatch/refresh"
	"github.com/padraicbc/dotawatch/runtracker"
)

//go:embed all:build/*
var embeddedFiles embed.FS

func main() {
	cfg := config.Load()
	logger, err := applog.New(cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if err := cfg.RequireServer(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bdb, err := db.Setup(ctx, cfg)
	if err != nil {
		logger.Fatal("database setup failed", zap.Error(err), zap.String("dsn", cfg.MaskedDSN()))
	}
	defer bdb.Close()

	clientOpts := []opendota.Option{
		opendota.WithAPIKey(cfg.OpenDotaAPIKey),
		opendota.WithLogger(logger),
	}
	var rawCache *cache.RedisCache
	if cfg.RedisURL != "" {
		rawCache, err = cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			logger.Warn("redis unavailable, fetching without cache", zap.Error(err))
		} else {
			defer rawCache.Close()
			clientOpts = append(clientOpts, opendota.WithCache(rawCache, cfg.RawCacheTTL))
		}
	}
	source := opendota.NewClient(cfg.OpenDotaBaseURL, clientOpts...)

	scorer, err := pipeline.NewScorer(cfg.Scoring(), pipeline.WithLogger(logger))
	if err != nil {
		logger.Fatal("invalid scoring configuration", zap.Error(err))
	}
	tracker, err := runtracker.Open(cfg.RunTrackerFile, logger)
	if err != nil {
		logger.Fatal("run tracker failed", zap.Error(err))
	}
	refresher := refresh.New(bdb, source, scorer, tracker, refresh.Options{
		Query:      cfg.Query,
		TeamsLimit: cfg.TeamsLimit,
		CacheDays:  cfg.CacheDaysLimit,
		Every:      cfg.RefreshEvery,
		TeamsEvery: cfg.TeamsRefreshEvery,
	}, logger)
	go refresher.Start(ctx)

	h := handlers.New(bdb, cfg.JWTKey(), refresher, cfg.TopN, logger)
	h.AdminUsers = cfg.AdminUsers
	if rawCache != nil {
		h.CacheHealth = rawCache.HealthCheck
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(applog.Requests(logger))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"*", "Authorization"},
		AllowCredentials: true,
	}))

	e.GET("/health", h.Health)

	// Public
	api := e.Group("/api")
	api.GET("/matches", h.Matches)
	api.GET("/ratings", h.Ratings)
	api.POST("/signin", h.Signin)

	// Protected – require valid JWT in Authorization header
	auth := api.Group("", mw.JWT(cfg.JWTKey()))
	auth.POST("/recalculate", h.Recalculate)
	auth.POST("/rate_match", h.RateMatch)
	auth.POST("/password_hash", h.PasswordHash)

	subFS, err := fs.Sub(embeddedFiles, "build")
	if err != nil {
		logger.Fatal("open embedded build fs failed", zap.Error(err))
	}
	fileServer := http.FileServer(http.FS(subFS))
	e.GET("/*", func(c echo.Context) error {
		if strings.Contains(c.Request().URL.Path, ".") {
			http.StripPrefix("/", fileServer).ServeHTTP(c.Response(), c.Request())
			return nil
		}
		// SPA fallback
		indexFile, err := subFS.Open("index.html")
		if err != nil {
			return c.NoContent(http.StatusNotFound)
		}
		defer indexFile.Close()
		return c.Stream(http.StatusOK, "text/html", indexFile)
	})

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown", zap.Error(err))
		}
	}()

	if cfg.Debug {
		logger.Info("starting server", zap.String("mode", "debug"), zap.String("addr", cfg.Port))
		if err := e.Start(cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server exited", zap.Error(err))
		}
		return
	}

	autoTLS := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		Cache:      autocert.DirCache(".cache"),
		HostPolicy: autocert.HostWhitelist(cfg.TLSDomains...),
	}
	e.TLSServer = &http.Server{
		Addr:         ":443",
		TLSConfig:    autoTLS.TLSConfig(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  15 * time.Second,
	}
	logger.Info("starting server", zap.String("mode", "tls"), zap.Strings("domains", cfg.TLSDomains))
	if err := e.StartServer(e.TLSServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("tls server exited", zap.Error(err))
		os.Exit(1)
	}
}
