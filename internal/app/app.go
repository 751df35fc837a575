package app

import (
	"time"

	"github.com/WallCharmers/viktory-dashboard/internal/cache"
	"github.com/WallCharmers/viktory-dashboard/internal/common"
	"github.com/WallCharmers/viktory-dashboard/internal/config"
	"github.com/WallCharmers/viktory-dashboard/internal/handlers"
	"github.com/WallCharmers/viktory-dashboard/internal/interfaces"
	"github.com/WallCharmers/viktory-dashboard/internal/models"
	"github.com/WallCharmers/viktory-dashboard/internal/source"
	"github.com/WallCharmers/viktory-dashboard/internal/spapi"
	"github.com/WallCharmers/viktory-dashboard/internal/storage"
)

// App holds all application components and dependencies.
type App struct {
	Config   *config.Config
	Logger   *common.Logger
	Storage  interfaces.StorageManager
	Selector *source.Selector

	// HTTP handlers
	PageHandler      *handlers.PageHandler
	AuthHandler      *handlers.AuthHandler
	DashboardHandler *handlers.DashboardHandler
	MetricsHandler   *handlers.MetricsHandler
	StatusHandler    *handlers.StatusHandler
	HealthHandler    *handlers.HealthHandler
	VersionHandler   *handlers.VersionHandler
}

// New initializes the application with all dependencies.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	a := &App{
		Config: cfg,
		Logger: logger,
	}

	creds := credentialsFromConfig(&cfg.SPAPI)
	if missing := creds.Missing(); len(missing) > 0 {
		logger.Warn().
			Int("missing", len(missing)).
			Msg("SP-API credentials incomplete, dashboard will serve demo data")
	}

	// Snapshot history is an enhancement; the dashboard still runs without it.
	store, err := storage.NewStorageManager(logger, cfg)
	if err != nil {
		logger.Warn().Str("error", err.Error()).Msg("snapshot storage unavailable, continuing without history")
	} else {
		a.Storage = store
	}

	a.Selector = buildSelector(cfg, logger, creds, a.Storage)
	a.initHandlers()

	logger.Info().Msg("application initialization complete")

	return a, nil
}

// credentialsFromConfig builds the immutable credential set from config.
// Config is the single ingestion point; nothing else reads the environment.
func credentialsFromConfig(cfg *config.SPAPIConfig) models.Credentials {
	return models.NewCredentials(map[string]string{
		models.CredClientID:           cfg.ClientID,
		models.CredClientSecret:       cfg.ClientSecret,
		models.CredRefreshToken:       cfg.RefreshToken,
		models.CredSellerID:           cfg.SellerID,
		models.CredMarketplaceID:      cfg.MarketplaceID,
		models.CredAWSAccessKeyID:     cfg.AWSAccessKeyID,
		models.CredAWSSecretAccessKey: cfg.AWSSecretAccessKey,
		models.CredAWSRegion:          cfg.AWSRegion,
		models.CredAWSRoleARN:         cfg.AWSRoleARN,
	})
}

// buildSelector wires the live and demo providers behind the selector.
func buildSelector(cfg *config.Config, logger *common.Logger, creds models.Credentials, store interfaces.StorageManager) *source.Selector {
	client := spapi.NewClient(spapi.Config{
		ClientID:      cfg.SPAPI.ClientID,
		ClientSecret:  cfg.SPAPI.ClientSecret,
		RefreshToken:  cfg.SPAPI.RefreshToken,
		SellerID:      cfg.SPAPI.SellerID,
		MarketplaceID: cfg.SPAPI.MarketplaceID,
		Endpoint:      cfg.SPAPI.Endpoint,
		LWAURL:        cfg.SPAPI.LWAURL,
		Timeout:       time.Duration(cfg.SPAPI.TimeoutSeconds) * time.Second,
	}, logger)

	live := source.NewLiveProvider(client, logger)
	demo := source.NewDemoProvider(cfg.Demo.Seed)

	selector := source.NewSelector(logger, creds, live, demo,
		time.Duration(cfg.SPAPI.TimeoutSeconds)*time.Second)

	if store != nil {
		selector.SetHistory(store.SnapshotStorage())
	}
	if cfg.Cache.TTLSeconds > 0 {
		selector.SetCache(cache.New(
			time.Duration(cfg.Cache.TTLSeconds)*time.Second,
			cfg.Cache.MaxEntries,
		))
	}

	return selector
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() {
	jwtSecret := []byte(a.Config.Auth.JWTSecret)
	sessionTTL := time.Duration(a.Config.Auth.SessionTTLHours) * time.Hour

	a.PageHandler = handlers.NewPageHandler(a.Logger, jwtSecret)
	a.AuthHandler = handlers.NewAuthHandler(a.Logger, a.Config.Auth.AppPassword, jwtSecret, sessionTTL)
	a.DashboardHandler = handlers.NewDashboardHandler(a.Logger, jwtSecret, a.Selector)
	a.MetricsHandler = handlers.NewMetricsHandler(a.Logger, jwtSecret, a.Selector)
	a.StatusHandler = handlers.NewStatusHandler(a.Logger, jwtSecret, a.Selector)
	a.HealthHandler = handlers.NewHealthHandler(a.Logger)
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)

	a.Logger.Debug().Msg("HTTP handlers initialized")
}

// Close closes all application resources.
func (a *App) Close() error {
	if a.Storage != nil {
		return a.Storage.Close()
	}
	return nil
}
