package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/itimad/portal-api/internal/data/pgxutil"
	domainauth "github.com/itimad/portal-api/internal/domain/auth"
	"github.com/itimad/portal-api/internal/domain/model"
)

// UserRepo provides database operations for portal accounts.
type UserRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewUserRepo creates a new UserRepo with real time provider.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewUserRepoWithTimeProvider creates a new UserRepo with a custom time provider (useful for tests).
func NewUserRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *UserRepo {
	return &UserRepo{DB: db, timeProvider: tp}
}

// CreateParams carries the columns for a new account. PasswordHash is empty
// for SSO-provisioned staff.
type CreateParams struct {
	Email        string
	PasswordHash string
	FullName     string
	Role         domainauth.Role
}

// Create inserts a new active account. Returns ErrUserEmailExists when the
// email is already registered.
func (r *UserRepo) Create(ctx context.Context, p CreateParams) (*model.User, error) {
	email := normalizeEmail(p.Email)
	if email == "" {
		return nil, errors.New("email is required")
	}
	if !p.Role.Valid() {
		return nil, errors.New("role is invalid")
	}

	now := r.timeProvider.Now().UTC()
	var out model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO users (email, password_hash, full_name, role, status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING `+userColumnList,
			email,
			p.PasswordHash,
			strings.TrimSpace(p.FullName),
			p.Role,
			model.UserActive,
			now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, ErrUserEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &out, nil
}

// GetByID retrieves a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.getByQuery(ctx, userGetByIDQuery, "failed to get user by ID", id)
}

// GetByEmail retrieves a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getByQuery(ctx, userGetByEmailQuery, "failed to get user by email", normalizeEmail(email))
}

// UpsertStaff provisions or refreshes a staff account on SSO login. The role
// follows the IdP group mapping on every login, so a demoted admin loses
// access at the next sign-in.
func (r *UserRepo) UpsertStaff(ctx context.Context, email, fullName string, role domainauth.Role) (*model.User, error) {
	if !role.IsStaff() {
		return nil, errors.New("role must be a staff role")
	}
	email = normalizeEmail(email)
	if email == "" {
		return nil, errors.New("email is required")
	}

	now := r.timeProvider.Now().UTC()
	var out model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO users (email, password_hash, full_name, role, status, created_at)
			VALUES ($1, '', $2, $3, $4, $5)
			ON CONFLICT (email) DO UPDATE
			SET full_name = EXCLUDED.full_name,
			    role = EXCLUDED.role
			RETURNING `+userColumnList,
			email,
			strings.TrimSpace(fullName),
			role,
			model.UserActive,
			now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert staff user: %w", err)
	}
	return &out, nil
}

// SetStatus updates an account's lifecycle status.
func (r *UserRepo) SetStatus(ctx context.Context, id string, status model.UserStatus) (*model.User, error) {
	var out model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE users SET status = $1 WHERE id = $2
			RETURNING `+userColumnList,
			status, id,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to set user status: %w", err)
	}
	return &out, nil
}

// --- helpers ---

const (
	userColumnList = `id, email, password_hash, full_name, role, status, created_at`

	userGetByIDQuery = `
		SELECT ` + userColumnList + `
		FROM users
		WHERE id = $1`

	userGetByEmailQuery = `
		SELECT ` + userColumnList + `
		FROM users
		WHERE email = $1`
)

func (r *UserRepo) getByQuery(
	ctx context.Context,
	q string,
	errMsg string,
	args ...any,
) (*model.User, error) {
	var user model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		user, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", errMsg, err)
	}
	return &user, nil
}

// normalizeEmail lower-cases and trims an address so lookups match signups.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
