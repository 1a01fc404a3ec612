package handlers

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Refresher rebuilds the cached ranking and reports how many matches it stored.
type Refresher interface {
	Run(ctx context.Context) (int, error)
}

// Handler holds shared dependencies used by all route handlers.
type Handler struct {
	db        *bun.DB
	JWTKey    []byte
	refresher Refresher
	topN      int
	log       *zap.Logger
	now       func() time.Time

	// AdminUsers may call PasswordHash. Matching ignores case.
	AdminUsers []string
	// CacheHealth, when set, is checked by Health alongside the database.
	CacheHealth func(ctx context.Context) error
}

// New creates a Handler. topN caps the number of matches listed.
func New(db *bun.DB, jwtKey []byte, refresher Refresher, topN int, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		db:        db,
		JWTKey:    jwtKey,
		refresher: refresher,
		topN:      topN,
		log:       log,
		now:       time.Now,
	}
}
