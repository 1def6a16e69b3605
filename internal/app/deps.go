package app

import (
	"context"
	"fmt"
	"time"

	"github.com/mediatube/backend/internal/assets"
	"github.com/mediatube/backend/internal/auth"
	"github.com/mediatube/backend/internal/catalog"
	"github.com/mediatube/backend/internal/config"
	"github.com/mediatube/backend/internal/db"
	"github.com/mediatube/backend/internal/handlers"
	"github.com/mediatube/backend/internal/middleware"
	"github.com/mediatube/backend/internal/repositories"
	"github.com/mediatube/backend/internal/storage"
)

// buildDependencies wires together concrete implementations used by the HTTP handlers.
func buildDependencies(ctx context.Context, pool db.Pool, cfg config.Config) (handlers.Dependencies, error) {
	users := repositories.NewPostgresUserRepository(pool)
	videos := repositories.NewPostgresVideoRepository(pool)
	playlists := repositories.NewPostgresPlaylistRepository(pool)
	subscriptions := repositories.NewPostgresSubscriptionRepository(pool)

	credentials := auth.NewManager(users, auth.Keys{
		AccessSecret:  []byte(cfg.AccessTokenSecret),
		RefreshSecret: []byte(cfg.RefreshTokenSecret),
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,
	})

	assetStore, err := storage.NewS3Storage(ctx, cfg.ObjectStore)
	if err != nil {
		return handlers.Dependencies{}, fmt.Errorf("configure asset storage: %w", err)
	}

	probe := assets.NewCachingProber(
		assets.NewFFProbe(cfg.FFProbePath, cfg.FFProbeTimeout),
		cfg.ProbeCacheTTL,
	)

	service := &catalog.Service{
		Users:         users,
		Videos:        videos,
		Playlists:     playlists,
		Subscriptions: subscriptions,
		Assets:        assetStore,
		Probe:         probe,
	}

	return handlers.Dependencies{
		Credentials:   credentials,
		Playlists:     service,
		Videos:        service,
		Subscriptions: service,
		TokenParser:   credentials,
		AuthLimiter:   middleware.NewIPRateLimiter(10, time.Minute, 5, 10*time.Minute),
	}, nil
}
