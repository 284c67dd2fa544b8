package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/itimad/portal-api/internal/bootstrap"
	"github.com/itimad/portal-api/internal/data"
	domainauth "github.com/itimad/portal-api/internal/domain/auth"
	"github.com/itimad/portal-api/internal/domain/model"
)

type seedSuperAdminOptions struct {
	Email    string
	Password string
	FullName string
}

func parseSeedSuperAdminFlags(args []string) (seedSuperAdminOptions, error) {
	fs := flag.NewFlagSet("seed-super-admin", flag.ContinueOnError)
	opts := seedSuperAdminOptions{}
	fs.StringVar(&opts.Email, "email", "", "account email (required)")
	fs.StringVar(&opts.Password, "password", "", "account password (required)")
	fs.StringVar(&opts.FullName, "name", "Portal Super Admin", "account display name")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.Email == "" || opts.Password == "" {
		return opts, errors.New("both --email and --password are required")
	}
	return opts, nil
}

func runSeedSuperAdmin(cmdCtx *commandContext, args []string) error {
	opts, err := parseSeedSuperAdminFlags(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, time.Minute)
	defer cancel()

	db, err := connectDB(cmdCtx)
	if err != nil {
		return err
	}
	defer closeDB(cmdCtx, db)

	hash, err := bcrypt.GenerateFromPassword([]byte(opts.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	users := data.NewUserRepo(db)
	user, err := users.Create(ctx, data.CreateParams{
		Email:        opts.Email,
		PasswordHash: string(hash),
		FullName:     opts.FullName,
		Role:         domainauth.RoleSuperAdmin,
	})
	if err != nil {
		if errors.Is(err, data.ErrUserEmailExists) {
			return fmt.Errorf("account %s already exists", opts.Email)
		}
		return fmt.Errorf("create super admin: %w", err)
	}

	cmdCtx.Logger.Info("super admin created", "id", user.ID, "email", user.Email)
	return writef(os.Stdout, "Created super admin %s (%s)\n", user.Email, user.ID)
}

type setUserStatusOptions struct {
	ID     string
	Status string
}

func parseSetUserStatusFlags(args []string) (setUserStatusOptions, error) {
	fs := flag.NewFlagSet("set-user-status", flag.ContinueOnError)
	opts := setUserStatusOptions{}
	fs.StringVar(&opts.ID, "id", "", "user ID (required)")
	fs.StringVar(&opts.Status, "status", "", "new status: active or suspended (required)")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.ID == "" {
		return opts, errors.New("--id is required")
	}
	switch model.UserStatus(opts.Status) {
	case model.UserActive, model.UserSuspended:
	default:
		return opts, fmt.Errorf("invalid --status %q (valid options: active, suspended)", opts.Status)
	}
	return opts, nil
}

func runSetUserStatus(cmdCtx *commandContext, args []string) error {
	opts, err := parseSetUserStatusFlags(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, time.Minute)
	defer cancel()

	db, err := connectDB(cmdCtx)
	if err != nil {
		return err
	}
	defer closeDB(cmdCtx, db)

	users := data.NewUserRepo(db)
	user, err := users.SetStatus(ctx, opts.ID, model.UserStatus(opts.Status))
	if err != nil {
		return fmt.Errorf("set user status: %w", err)
	}

	return writef(os.Stdout, "User %s is now %s\n", user.Email, user.Status)
}

func connectDB(cmdCtx *commandContext) (*sql.DB, error) {
	db, err := bootstrap.ConnectDB(bootstrap.DatabaseConfig{
		DBConfig: cmdCtx.Config.Postgres,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	return db, nil
}

func closeDB(cmdCtx *commandContext, db *sql.DB) {
	if err := db.Close(); err != nil {
		cmdCtx.Logger.Warn("db close failed", "error", err)
	}
}
