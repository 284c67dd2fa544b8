package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/itimad/portal-api/internal/data/database"
	"github.com/itimad/portal-api/internal/data/pgxutil"
	"github.com/itimad/portal-api/internal/domain/model"
)

const (
	sortDirAsc  = "ASC"
	sortDirDesc = "DESC"
)

// ErrStaleApplicationStatus is returned when a guarded status update finds the
// row no longer in the expected status. Concurrent reviewers race here.
var ErrStaleApplicationStatus = errors.New("application status changed concurrently")

// ApplicationRepo provides database operations for accreditation applications.
type ApplicationRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewApplicationRepo creates a new ApplicationRepo with real time provider.
func NewApplicationRepo(db *sql.DB) *ApplicationRepo {
	return &ApplicationRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewApplicationRepoWithTimeProvider creates a new ApplicationRepo with a custom time provider (useful for tests).
func NewApplicationRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *ApplicationRepo {
	return &ApplicationRepo{DB: db, timeProvider: tp}
}

// Create inserts a new application in the submitted status.
func (r *ApplicationRepo) Create(ctx context.Context, req *model.CreateApplicationRequest) (*model.Application, error) {
	if req == nil {
		return nil, errors.New("create application request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.UserID) == "" {
		return nil, errors.New("user_id is required")
	}

	now := r.timeProvider.Now().UTC()
	var out model.Application
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO applications (
				center_type, center_name, manager_name, city, user_id, status, submitted_at, created_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $7
			) RETURNING `+applicationColumnList,
			req.CenterType,
			strings.TrimSpace(req.CenterName),
			strings.TrimSpace(req.ManagerName),
			strings.TrimSpace(req.City),
			req.UserID,
			model.StatusSubmitted,
			now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Application])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	return &out, nil
}

// GetByID retrieves an application by ID.
func (r *ApplicationRepo) GetByID(ctx context.Context, id string) (*model.Application, error) {
	return r.getByQuery(ctx, applicationGetByIDQuery, "failed to get application by ID", id)
}

// ListByUser retrieves one owner's applications, newest first.
func (r *ApplicationRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*model.Application, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var rowsOut []model.Application
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, applicationListByUserQuery, userID, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Application])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list applications by user: %w", err)
	}

	res := make([]*model.Application, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// ListWithOptions retrieves applications with optional filters for the review queue.
func (r *ApplicationRepo) ListWithOptions(
	ctx context.Context,
	opts model.ApplicationsListOptions,
) ([]*model.Application, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(opts.Offset, 0)

	queryOpts := r.buildApplicationQueryOptions(opts, limit, offset)
	query, args := database.BuildListQuery(queryOpts)

	var rowsOut []model.Application
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Application])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list applications with options: %w", err)
	}
	res := make([]*model.Application, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// StatusUpdate carries the columns touched by a guarded status change.
type StatusUpdate struct {
	From          model.ApplicationStatus
	To            model.ApplicationStatus
	ReviewNotes   *string
	ReviewedBy    string
	CertificateID *string
}

// UpdateStatus applies a status change guarded on the expected current
// status. Returns ErrStaleApplicationStatus when the row moved on since it
// was read, and ErrApplicationNotFound when no such application exists.
func (r *ApplicationRepo) UpdateStatus(ctx context.Context, id string, upd StatusUpdate) (*model.Application, error) {
	now := r.timeProvider.Now().UTC()
	var out model.Application
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE applications
			SET status = $1,
			    review_notes = $2,
			    reviewed_at = $3,
			    reviewed_by = $4,
			    certificate_id = COALESCE($5, certificate_id),
			    updated_at = $3
			WHERE id = $6 AND status = $7
			RETURNING `+applicationColumnList,
			upd.To,
			upd.ReviewNotes,
			now,
			upd.ReviewedBy,
			upd.CertificateID,
			id,
			upd.From,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Application])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Distinguish a missing row from a concurrent status change.
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, ErrStaleApplicationStatus
		}
		return nil, fmt.Errorf("failed to update application status: %w", err)
	}
	return &out, nil
}

// Resubmit amends the owner-editable fields and returns the application to
// the submitted status, clearing the previous review's outcome. The UPDATE
// is guarded against terminal rows so a concurrent final decision cannot be
// reopened; losing that race reports ErrStaleApplicationStatus.
func (r *ApplicationRepo) Resubmit(ctx context.Context, id string, req model.ResubmitRequest) (*model.Application, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := r.timeProvider.Now().UTC()
	var out model.Application
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE applications
			SET center_name = COALESCE($1, center_name),
			    manager_name = COALESCE($2, manager_name),
			    city = COALESCE($3, city),
			    status = $4,
			    review_notes = NULL,
			    reviewed_at = NULL,
			    reviewed_by = NULL,
			    submitted_at = $5,
			    updated_at = $5
			WHERE id = $6 AND status NOT IN ($7, $8)
			RETURNING `+applicationColumnList,
			trimmedOrNil(req.CenterName),
			trimmedOrNil(req.ManagerName),
			trimmedOrNil(req.City),
			model.StatusSubmitted,
			now,
			id,
			model.StatusAccepted,
			model.StatusRejected,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Application])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Distinguish a missing row from a row decided concurrently.
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, ErrStaleApplicationStatus
		}
		return nil, fmt.Errorf("failed to resubmit application: %w", err)
	}
	return &out, nil
}

// --- helpers ---

// SQL query constants for static queries (no dynamic WHERE/ORDER BY).
const (
	applicationColumnList = `id, center_type, center_name, manager_name, city, user_id, status,
	       review_notes, reviewed_at, reviewed_by, certificate_id, submitted_at, created_at, updated_at`

	applicationGetByIDQuery = `
		SELECT ` + applicationColumnList + `
		FROM applications
		WHERE id = $1`

	applicationListByUserQuery = `
		SELECT ` + applicationColumnList + `
		FROM applications
		WHERE user_id = $1
		ORDER BY submitted_at DESC
		LIMIT $2 OFFSET $3`
)

// applicationColumns returns the standard column list for application queries.
func applicationColumns() []string {
	return []string{
		"id",
		"center_type",
		"center_name",
		"manager_name",
		"city",
		"user_id",
		"status",
		"review_notes",
		"reviewed_at",
		"reviewed_by",
		"certificate_id",
		"submitted_at",
		"created_at",
		"updated_at",
	}
}

// buildApplicationQueryOptions builds query options for the review queue listing.
func (r *ApplicationRepo) buildApplicationQueryOptions(
	opts model.ApplicationsListOptions,
	limit, offset int,
) *database.ListQueryOptions {
	queryOpts := []database.ListQueryOption{
		database.WithColumns(applicationColumns()...),
		database.WithLimit(limit),
		database.WithOffset(offset),
	}

	if opts.Status != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("status", database.Equal, string(*opts.Status)),
		))
	}
	if opts.CenterType != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("center_type", database.Equal, string(*opts.CenterType)),
		))
	}
	if opts.UserID != nil && strings.TrimSpace(*opts.UserID) != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("user_id", database.Equal, strings.TrimSpace(*opts.UserID)),
		))
	}

	queryOpts = append(queryOpts, database.WithOrderBy("submitted_at", sortDirDesc))

	return database.NewListQueryOptions("applications", queryOpts...)
}

// getByQuery is a helper function to execute a query and return a single application.
func (r *ApplicationRepo) getByQuery(
	ctx context.Context,
	q string,
	errMsg string,
	args ...any,
) (*model.Application, error) {
	var app model.Application
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		app, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Application])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("%s: %w", errMsg, err)
	}
	return &app, nil
}

// trimmedOrNil trims a pointed-to string, mapping nil and all-whitespace to nil.
func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
