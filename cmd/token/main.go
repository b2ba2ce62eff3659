package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"brewpos/internal/auth"
	"brewpos/internal/config"
	"brewpos/internal/database"
	"brewpos/internal/model"
	"brewpos/internal/repository"
	"brewpos/internal/service"

	"github.com/joho/godotenv"
)

// token signs in an active staff member and prints a bearer token signed with
// the server's JWT settings. The role comes from the staff directory.
//
//	go run ./cmd/token -cashier cashier-7
//	go run ./cmd/token -create -cashier manager-1 -name "Mia" -role admin
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cashierID := flag.String("cashier", "", "staff member id placed in the token subject")
	create := flag.Bool("create", false, "register the staff member before signing them in")
	name := flag.String("name", "", "display name, with -create")
	email := flag.String("email", "", "email address, with -create")
	role := flag.String("role", string(auth.RoleCashier), "admin, cashier or server, with -create")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// stdout carries only the token.
	logger := config.NewLoggerTo(cfg.Logger, os.Stderr)
	ctx := context.Background()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	staff := service.NewStaffService(repository.NewStaffRepository(pool, logger), logger)

	if *create {
		if _, err := staff.Create(ctx, service.StaffInput{
			ID:    *cashierID,
			Name:  *name,
			Email: *email,
			Role:  model.StaffRole(*role),
		}); err != nil {
			return fmt.Errorf("failed to register staff member: %w", err)
		}
	}

	member, err := staff.Active(ctx, *cashierID)
	if errors.Is(err, model.ErrUnauthorised) {
		return fmt.Errorf("staff member %q is unknown or deactivated; register them with -create", *cashierID)
	}
	if err != nil {
		return err
	}

	token, err := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL).Issue(member.ID, auth.Role(member.Role))
	if err != nil {
		return err
	}

	if err := staff.RecordLogin(ctx, member.ID); err != nil {
		logger.Warn().Err(err).Str("staff_id", member.ID).Msg("failed to record login")
	}

	fmt.Println(token)
	return nil
}
