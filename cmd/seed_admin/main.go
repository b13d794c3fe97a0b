// Command seed_admin creates the platform administrator from ADMIN_EMAIL and
// ADMIN_PASSWORD, or promotes and resets an existing account with that email.
// It is safe to run repeatedly.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/rtsyr/rtsyr_backend/internal/core/services"
	"github.com/rtsyr/rtsyr_backend/internal/platform/config"
	"github.com/rtsyr/rtsyr_backend/internal/repositories/database/pgsql"
	"github.com/rtsyr/rtsyr_backend/pkg/database"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("Admin seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	defer database.ClosePgxPool(dbPool, logger)

	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
		return err
	}

	repos := pgsql.NewRepositoryProvider(dbPool)
	userService := services.NewUserService(repos.UserRepo, repos.SignupRequestRepo, repos.RefreshTokenRepo, cfg.DefaultPhoneRegion)

	admin, err := userService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminFullName)
	if err != nil {
		return err
	}

	logger.Info("Admin account ready", slog.String("user_id", admin.UserID), slog.String("email", admin.Email))
	return nil
}
