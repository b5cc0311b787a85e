// Command createsuperuser creates an administrator account.
//
// Usage:
//
//	RECIPE_SUPERUSER_PASSWORD=... createsuperuser -email admin@example.com [-name "Admin"]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/msomdec/recipe-box/internal/config"
	"github.com/msomdec/recipe-box/internal/di"
	"github.com/msomdec/recipe-box/internal/service"
)

func main() {
	email := flag.String("email", "", "superuser email (required)")
	name := flag.String("name", "", "display name")
	flag.Parse()

	if err := run(*email, *name, os.Getenv("RECIPE_SUPERUSER_PASSWORD")); err != nil {
		fmt.Fprintln(os.Stderr, "createsuperuser:", err)
		os.Exit(1)
	}
}

func run(email, name, password string) error {
	if email == "" {
		return fmt.Errorf("-email is required")
	}
	if password == "" {
		return fmt.Errorf("RECIPE_SUPERUSER_PASSWORD must be set")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := di.NewLogger(cfg.Log)

	ctx := context.Background()
	db, err := di.OpenDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	auth := service.NewAuthService(db.Users(), cfg.Auth.JWTSecret, cfg.Auth.BcryptCost, cfg.Auth.TokenTTL)
	user, err := auth.RegisterSuperuser(ctx, service.SuperuserInput{
		RegisterInput: service.RegisterInput{Email: email, Password: password, Name: name},
	})
	if err != nil {
		return fmt.Errorf("create superuser: %w", err)
	}

	logger.Info("superuser created", "id", user.ID, "email", user.Email)
	return nil
}
