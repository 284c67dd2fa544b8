package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/itimad/portal-api/internal/data/pgxutil"
	"github.com/itimad/portal-api/internal/domain/model"
)

// CertificateRepo provides database operations for accreditation certificates.
// Certificates are insert-only; revocation is out of scope for the portal.
type CertificateRepo struct {
	DB *sql.DB
}

// NewCertificateRepo creates a new CertificateRepo.
func NewCertificateRepo(db *sql.DB) *CertificateRepo {
	return &CertificateRepo{DB: db}
}

// Create inserts a freshly minted certificate.
func (r *CertificateRepo) Create(ctx context.Context, cert *model.Certificate) (*model.Certificate, error) {
	if cert == nil {
		return nil, errors.New("certificate is required")
	}

	var out model.Certificate
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO certificates (id, application_id, center_name, center_type, serial, verify_token, issued_at, expires_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING `+certificateColumnList,
			cert.ID,
			cert.ApplicationID,
			cert.CenterName,
			cert.CenterType,
			cert.Serial,
			cert.VerifyToken,
			cert.IssuedAt.UTC(),
			cert.ExpiresAt.UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Certificate])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create certificate: %w", err)
	}
	return &out, nil
}

// GetByID retrieves a certificate by ID.
func (r *CertificateRepo) GetByID(ctx context.Context, id string) (*model.Certificate, error) {
	return r.getByQuery(ctx, certificateGetByIDQuery, "failed to get certificate by ID", id)
}

// GetBySerial retrieves a certificate by its printed serial.
func (r *CertificateRepo) GetBySerial(ctx context.Context, serial string) (*model.Certificate, error) {
	return r.getByQuery(ctx, certificateGetBySerialQuery, "failed to get certificate by serial", serial)
}

// GetByApplicationID retrieves the certificate minted for an application.
func (r *CertificateRepo) GetByApplicationID(ctx context.Context, applicationID string) (*model.Certificate, error) {
	return r.getByQuery(ctx, certificateGetByApplicationQuery, "failed to get certificate by application", applicationID)
}

// Delete removes a certificate. This is not revocation: it exists so an
// acceptance that lost a concurrent review can take back the certificate it
// minted before the status change was refused.
func (r *CertificateRepo) Delete(ctx context.Context, id string) error {
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM certificates WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return ErrCertificateNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCertificateNotFound) {
			return ErrCertificateNotFound
		}
		return fmt.Errorf("failed to delete certificate: %w", err)
	}
	return nil
}

// --- helpers ---

const (
	certificateColumnList = `id, application_id, center_name, center_type, serial, verify_token, issued_at, expires_at`

	certificateGetByIDQuery = `
		SELECT ` + certificateColumnList + `
		FROM certificates
		WHERE id = $1`

	certificateGetBySerialQuery = `
		SELECT ` + certificateColumnList + `
		FROM certificates
		WHERE serial = $1`

	certificateGetByApplicationQuery = `
		SELECT ` + certificateColumnList + `
		FROM certificates
		WHERE application_id = $1`
)

func (r *CertificateRepo) getByQuery(
	ctx context.Context,
	q string,
	errMsg string,
	args ...any,
) (*model.Certificate, error) {
	var cert model.Certificate
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		cert, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Certificate])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCertificateNotFound
		}
		return nil, fmt.Errorf("%s: %w", errMsg, err)
	}
	return &cert, nil
}
