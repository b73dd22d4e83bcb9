package app

import (
	"context"

	"github.com/tschirnhausen/desafio-buda/internal/config"
	"github.com/tschirnhausen/desafio-buda/internal/delivery/httpapi"
	"github.com/tschirnhausen/desafio-buda/internal/infra/buda"
	"github.com/tschirnhausen/desafio-buda/internal/infra/db"
	"github.com/tschirnhausen/desafio-buda/internal/infra/log"
	"github.com/tschirnhausen/desafio-buda/internal/usecase"
	"go.uber.org/zap"
)

type App struct {
	server    *httpapi.Server
	logger    *zap.Logger
	cleanupFn func() error
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := log.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	dbConn, err := db.Open(cfg, logger)
	if err != nil {
		return nil, err
	}

	alertRepo := db.NewAlertRepository(dbConn)
	exchange := buda.NewClient(cfg.BudaBaseURL, cfg.BudaTimeout, logger)

	spreadUC := usecase.NewSpreadUsecase(exchange, logger)
	alertUC := usecase.NewAlertUsecase(alertRepo, spreadUC)

	handlers := httpapi.NewHandlers(spreadUC, alertUC, cfg.StreamPollInterval, logger)
	router := httpapi.NewRouter(handlers, logger)
	server := httpapi.NewServer(cfg.HTTPPort, router, logger)

	cleanup := func() error {
		sqlDB, err := dbConn.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return &App{server: server, logger: logger, cleanupFn: cleanup}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("spread service starting")
	return a.server.Start(ctx)
}

func (a *App) Shutdown() {
	a.logger.Info("spread service shutting down")
	if a.cleanupFn != nil {
		if err := a.cleanupFn(); err != nil {
			a.logger.Warn("failed to close database", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
