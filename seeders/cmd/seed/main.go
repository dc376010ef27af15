package main

import (
	"context"
	"flag"

	"erp-system/pkg/config"
	"erp-system/pkg/database/postgresql"
	applogger "erp-system/pkg/logger"
	"erp-system/seeders"

	"go.uber.org/zap"
)

func main() {
	runRoles := flag.Bool("roles", false, "seed permissions, roles and role grants")
	runAdmin := flag.Bool("admin", false, "create the super admin account")
	runAll := flag.Bool("all", false, "run every seeder (same as -roles -admin)")
	flag.Parse()

	cfg := config.New()
	logger := applogger.NewLogger(cfg.Server.LogLevel).Named("seed")
	defer func() { _ = logger.Sync() }()

	if !*runRoles && !*runAdmin && !*runAll {
		logger.Warn("no seeder selected, use -roles, -admin or -all")
		flag.PrintDefaults()
		return
	}

	ctx := context.Background()
	dbPool, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer dbPool.Close()

	if err := postgresql.Migrate(ctx, dbPool); err != nil {
		logger.Fatal("failed to apply migrations", zap.Error(err))
	}

	if *runAll || *runRoles {
		if err := seeders.SeedAccess(ctx, dbPool, logger); err != nil {
			logger.Fatal("access seeding failed", zap.Error(err))
		}
	}
	if *runAll || *runAdmin {
		if err := seeders.SeedAdmin(ctx, dbPool, cfg, logger); err != nil {
			logger.Fatal("admin seeding failed", zap.Error(err))
		}
	}
	logger.Info("seeding finished")
}
