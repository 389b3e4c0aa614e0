package cli

import (
	"context"
	"database/sql"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/lachiem1/tally/internal/config"
	"github.com/lachiem1/tally/internal/logging"
	"github.com/lachiem1/tally/internal/storage"
)

// app is what every command that touches the ledger needs.
type app struct {
	db     *sql.DB
	logger *zap.Logger
}

func openApp(ctx context.Context, cfg config.Config) (*app, error) {
	logger, err := logging.New(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	db, err := storage.Open(ctx, cfg.DB)
	if err != nil {
		logger.Error("open database", zap.String("path", cfg.DB.Path), zap.Error(err))
		return nil, multierr.Append(err, logger.Sync())
	}
	logger.Debug("database ready", zap.String("path", cfg.DB.Path))
	return &app{db: db, logger: logger}, nil
}

// loadApp is openApp with configuration read from the environment.
func loadApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return openApp(ctx, cfg)
}

func (a *app) close() error {
	_ = a.logger.Sync()
	return a.db.Close()
}
