// Command migrate applies or reports the embedded schema migrations.
//
//	go run ./cmd/migrate
//	go run ./cmd/migrate -status
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sensai-backend/internal/shared/config"
	"sensai-backend/internal/shared/storage/db"
	"sensai-backend/internal/shared/telemetry"
)

func main() {
	status := flag.Bool("status", false, "print migration status instead of applying")
	timeout := flag.Duration("timeout", 5*time.Minute, "give up after this long")
	flag.Parse()

	cfg := config.Load()
	telemetry.Init(cfg.Env)
	os.Exit(run(cfg, *status, *timeout))
}

func run(cfg config.Config, statusOnly bool, timeout time.Duration) int {
	defer telemetry.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.DefaultOptions(db.RoleMigrate).WithEnv())
	if err != nil {
		telemetry.Error("migrate.connect_failed", map[string]any{"err": err})
		return 1
	}
	defer sqlDB.Close()

	if statusOnly {
		err = db.MigrationStatus(ctx, sqlDB)
	} else {
		err = db.RunMigrations(ctx, sqlDB)
	}
	if err != nil {
		telemetry.Error("migrate.failed", map[string]any{"err": err, "status_only": statusOnly})
		return 1
	}
	return 0
}
