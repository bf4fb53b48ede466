package main

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pathwai/pathwai-backend/internal/config"
	"github.com/pathwai/pathwai-backend/internal/db"
	"github.com/pathwai/pathwai-backend/internal/logger"
)

// openDB читает конфигурацию и подключается к базе.
func openDB(ctx context.Context) (*sqlx.DB, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger.Init(cfg.LogLevel)
	logger.SetTextFormatter()

	conn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}
	return conn, cfg, nil
}
