package container

import (
	"context"
	"errors"
	"fmt"

	"placar/internal/config"
	"placar/internal/repository"
	"placar/internal/service"
	"placar/internal/service/auth"
	"placar/pkg/database"
	"placar/pkg/logger"
	"placar/pkg/redis"
	"placar/pkg/supabase"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *logger.Logger
	Store       repository.Store
	RedisClient *redis.Client
	Cache       *service.CacheService
	Services    *service.Services
}

// New opens the configured store and optional Redis cache and wires every service
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	store, err := OpenStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	// Initialize Redis client if Redis URL is configured
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(cfg.RedisURL, cfg.Environment, log.Logger)
		if err != nil {
			log.WithError(err).Warn("Failed to initialize Redis client, proceeding without caching")
		} else {
			redisClient = client
			log.Info("Redis client initialized successfully")
		}
	} else {
		log.Info("Redis URL not configured, proceeding without caching")
	}

	return Assemble(cfg, log, store, redisClient), nil
}

// OpenStore connects the record store selected by STORE_BACKEND
func OpenStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendFile:
		store, err := repository.NewFileStore(cfg.DataFile, log)
		if err != nil {
			return nil, fmt.Errorf("failed to open file store: %w", err)
		}
		return store, nil

	case config.BackendPostgres:
		db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return repository.NewPostgresStore(db), nil

	case config.BackendSupabase:
		client := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceRole, log)
		return repository.NewSupabaseStore(client, log), nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// Assemble wires services around an already opened store. redisClient may be nil.
func Assemble(cfg *config.Config, log *logger.Logger, store repository.Store, redisClient *redis.Client) *Container {
	cache := service.NewCacheService(redisClient, log.Logger)

	services := &service.Services{
		Auth:        auth.NewService(cfg, log),
		Players:     service.NewPlayerService(store, cache, log.Logger),
		Suggestions: service.NewSuggestionService(store, cache, log.Logger),
		Matches:     service.NewMatchService(store, cache, log.Logger),
		Standings:   service.NewStandingsService(store, cache, log.Logger),
	}

	log.WithFields(map[string]interface{}{
		"backend": store.Backend(),
		"cache":   cache.Enabled(),
	}).Info("Container assembled")

	return &Container{
		Config:      cfg,
		Logger:      log,
		Store:       store,
		RedisClient: redisClient,
		Cache:       cache,
		Services:    services,
	}
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logger.Logger {
	return c.Logger
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.Config
}

// HasRedis returns true if Redis client is available
func (c *Container) HasRedis() bool {
	return c.RedisClient != nil
}

// Close releases the cache connection and the store
func (c *Container) Close() error {
	var errs []error

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}
	if c.Store != nil {
		if err := c.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store close: %w", err))
		}
	}
	return errors.Join(errs...)
}
