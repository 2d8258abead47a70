package main

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-PetBookingService/internal/config"
	"github.com/m04kA/SMC-PetBookingService/internal/infra/migrations"
	"github.com/m04kA/SMC-PetBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-PetBookingService/pkg/logger"
)

func runMigrate(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Database.Driver != config.DriverPostgres {
		return fmt.Errorf("migrate requires database.driver = %q, got %q", config.DriverPostgres, cfg.Database.Driver)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Close()

	db, err := openPostgres(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrations.Up(ctx, dbmetrics.Wrap(db, nil), log); err != nil {
		return err
	}

	log.Info("Migrations applied")
	return nil
}
