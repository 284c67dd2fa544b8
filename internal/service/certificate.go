package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/itimad/portal-api/internal/core"
	"github.com/itimad/portal-api/internal/data"
	"github.com/itimad/portal-api/internal/domain/model"
	apperrors "github.com/itimad/portal-api/internal/errors"
)

const defaultCertificateValidity = 365 * 24 * time.Hour

// CertificateServiceOptions groups dependencies for CertificateService.
type CertificateServiceOptions struct {
	Certificates core.CertificateRepository

	// SigningKey signs verification tokens (HMAC-SHA256). Required.
	SigningKey []byte
	// Issuer names this portal in issued tokens.
	Issuer string
	// Validity is how long issued certificates stay valid.
	Validity time.Duration
}

// CertificateService mints accreditation certificates and verifies the
// signed tokens embedded in them. Third parties holding a token can have it
// checked without any access to the applications themselves.
type CertificateService struct {
	certs      core.CertificateRepository
	signingKey []byte
	issuer     string
	validity   time.Duration

	now func() time.Time
}

// NewCertificateService constructs a new CertificateService.
func NewCertificateService(opts CertificateServiceOptions) *CertificateService {
	if opts.Validity <= 0 {
		opts.Validity = defaultCertificateValidity
	}
	if opts.Issuer == "" {
		opts.Issuer = "portal-api"
	}
	return &CertificateService{
		certs:      opts.Certificates,
		signingKey: opts.SigningKey,
		issuer:     opts.Issuer,
		validity:   opts.Validity,
		now:        time.Now,
	}
}

// certificateClaims is the verification token payload.
type certificateClaims struct {
	jwt.RegisteredClaims
	ApplicationID string `json:"application_id"`
	CenterName    string `json:"center_name"`
	CenterType    string `json:"center_type"`
}

// Mint issues a certificate for an accepted application and persists it.
// The serial doubles as the token subject, so verification round-trips back
// to the stored row.
func (s *CertificateService) Mint(ctx context.Context, app *model.Application) (*model.Certificate, error) {
	if app == nil {
		return nil, errors.New("application is required")
	}

	now := s.now().UTC()
	serial := uuid.NewString()
	expiresAt := now.Add(s.validity)

	claims := certificateClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   serial,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		ApplicationID: app.ID,
		CenterName:    app.CenterName,
		CenterType:    string(app.CenterType),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return nil, fmt.Errorf("sign verification token: %w", err)
	}

	cert := &model.Certificate{
		ID:            uuid.NewString(),
		ApplicationID: app.ID,
		CenterName:    app.CenterName,
		CenterType:    app.CenterType,
		Serial:        serial,
		VerifyToken:   token,
		IssuedAt:      now,
		ExpiresAt:     expiresAt,
	}
	created, err := s.certs.Create(ctx, cert)
	if err != nil {
		return nil, fmt.Errorf("create certificate: %w", err)
	}
	return created, nil
}

// Discard removes a certificate whose acceptance never took effect, so its
// verify token stops resolving. A row already gone counts as discarded.
func (s *CertificateService) Discard(ctx context.Context, id string) error {
	if err := s.certs.Delete(ctx, id); err != nil && !errors.Is(err, data.ErrCertificateNotFound) {
		return fmt.Errorf("discard certificate: %w", err)
	}
	return nil
}

// GetByID retrieves a certificate by ID.
func (s *CertificateService) GetByID(ctx context.Context, id string) (*model.Certificate, error) {
	cert, err := s.certs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, data.ErrCertificateNotFound) {
			return nil, apperrors.NotFound("certificate not found")
		}
		return nil, err
	}
	return cert, nil
}

// GetByApplicationID retrieves the certificate minted for an application.
func (s *CertificateService) GetByApplicationID(ctx context.Context, applicationID string) (*model.Certificate, error) {
	cert, err := s.certs.GetByApplicationID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, data.ErrCertificateNotFound) {
			return nil, apperrors.NotFound("certificate not found")
		}
		return nil, err
	}
	return cert, nil
}

// Verify checks a verification token's signature and expiry and returns the
// certificate it was minted for. Forged, malformed, and expired tokens all
// read as validation failures; the caller learns nothing about which.
func (s *CertificateService) Verify(ctx context.Context, token string) (*model.Certificate, error) {
	var claims certificateClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.signingKey, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil || !parsed.Valid {
		return nil, apperrors.Validation("verification token is invalid or expired")
	}

	cert, err := s.certs.GetBySerial(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, data.ErrCertificateNotFound) {
			return nil, apperrors.NotFound("certificate not found")
		}
		return nil, err
	}
	return cert, nil
}
