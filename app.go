package main

import (
	"context"

	"go.uber.org/zap"

	"matchview/config"
	"matchview/middleware"
	"matchview/models"
	"matchview/routes"
	"matchview/search"
	"matchview/services"
	"matchview/socket"
)

// app is the wired service graph shared by every command
type app struct {
	backend  *services.BackendClient
	tokens   *middleware.TokenParser
	hub      *socket.Hub
	presence *services.PresenceService
	janitor  *services.CacheJanitor
	services routes.Services
}

// newApp wires the backend-only services. AWS-backed pieces are added by withAWS.
func newApp(cfg *config.Config, logger *zap.Logger) *app {
	backend := services.NewBackendClient(services.BackendConfig{
		BaseURL:           cfg.Backend.URL,
		Timeout:           cfg.Backend.Timeout,
		RequestsPerSecond: cfg.Backend.RequestsPerSecond,
		Burst:             cfg.Backend.Burst,
	}, logger.Named("backend"))

	tokens := middleware.NewTokenParser(cfg.Auth.JWTSecret)
	hub := socket.NewHub(tokens, logger.Named("socket"))

	relationships := services.NewRelationshipService(backend, hub, logger.Named("relationships"))
	access := services.NewPiiService(backend, hub, logger.Named("pii"))
	hub.OnRefresh(access.Invalidate)

	var presence *services.PresenceService
	if cfg.Presence.ServiceToken != "" {
		presence = services.NewPresenceService(backend, models.Session{
			Username: cfg.Presence.ServiceUsername,
			Token:    cfg.Presence.ServiceToken,
			Role:     "service",
		}, cfg.Presence.PollInterval, logger.Named("presence"))
	}

	return &app{
		backend:  backend,
		tokens:   tokens,
		hub:      hub,
		presence: presence,
		services: routes.Services{
			Relationships: relationships,
			Pii:           access,
			Dashboard:     services.NewDashboardService(backend, relationships, access, presence),
			Notifications: services.NewNotificationService(backend),
			Payments:      services.NewPaymentService(backend),
			Admin:         services.NewAdminService(backend),
		},
	}
}

// withSearch adds the search services; pageSizes may be nil
func (a *app) withSearch(cfg *config.Config, pageSizes services.PageSizeStore, logger *zap.Logger) *app {
	searches := services.NewSearchService(
		a.backend,
		a.services.Relationships,
		a.services.Pii,
		a.presence,
		pageSizes,
		services.SearchConfig{
			FetchLimit:      cfg.Search.FetchLimit,
			BufferCap:       cfg.Search.BufferCap,
			DefaultPageSize: cfg.Search.DefaultPageSize,
			Unparsable:      search.ParseUnparsablePolicy(cfg.Search.UnparsablePolicy),
		},
		logger.Named("search"),
	)
	a.services.Search = searches
	a.services.SavedSearches = services.NewSavedSearchService(a.backend, searches)
	a.janitor = services.NewCacheJanitor(cfg.Cache.TTL, cfg.Cache.SweepInterval, map[string]services.Evicter{
		"search":        searches,
		"relationships": a.services.Relationships,
		"pii":           a.services.Pii,
	}, logger.Named("cache"))
	return a
}

// withAWS adds DynamoDB preferences and S3 image signing
func (a *app) withAWS(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	awsCfg, err := services.LoadAWSConfig(ctx, cfg.AWS.Region)
	if err != nil {
		return nil, err
	}
	dynamo := services.NewDynamoService(awsCfg, logger.Named("dynamo"))
	preferences := services.NewPreferenceService(dynamo, cfg.AWS.PreferencesTable, cfg.Search.DefaultPageSize, logger.Named("preferences"))
	a.services.Preferences = preferences
	a.services.Images = services.NewImageService(
		a.backend,
		a.services.Pii,
		services.NewS3Presigner(awsCfg),
		cfg.AWS.S3Bucket,
		cfg.AWS.ImageURLTTL,
		logger.Named("images"),
	)
	return a.withSearch(cfg, preferences, logger), nil
}
