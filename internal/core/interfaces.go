package core

import (
	"context"

	"github.com/itimad/portal-api/internal/data"
	domainauth "github.com/itimad/portal-api/internal/domain/auth"
	"github.com/itimad/portal-api/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// These interfaces define the contracts between the service layer and data layer.
// Service implementations should depend on these interfaces, not concrete implementations.

// ApplicationRepository defines the interface for accreditation application data operations.
type ApplicationRepository interface {
	Create(ctx context.Context, req *model.CreateApplicationRequest) (*model.Application, error)
	GetByID(ctx context.Context, id string) (*model.Application, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*model.Application, error)
	ListWithOptions(ctx context.Context, opts model.ApplicationsListOptions) ([]*model.Application, error)
	// UpdateStatus applies a status change guarded on the expected current status.
	UpdateStatus(ctx context.Context, id string, upd data.StatusUpdate) (*model.Application, error)
	Resubmit(ctx context.Context, id string, req model.ResubmitRequest) (*model.Application, error)
}

// UserRepository defines the interface for account data operations.
type UserRepository interface {
	Create(ctx context.Context, p data.CreateParams) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// UpsertStaff provisions or refreshes a staff account on SSO login.
	UpsertStaff(ctx context.Context, email, fullName string, role domainauth.Role) (*model.User, error)
	SetStatus(ctx context.Context, id string, status model.UserStatus) (*model.User, error)
}

// CertificateRepository defines the interface for accreditation certificate data operations.
type CertificateRepository interface {
	Create(ctx context.Context, cert *model.Certificate) (*model.Certificate, error)
	GetByID(ctx context.Context, id string) (*model.Certificate, error)
	GetBySerial(ctx context.Context, serial string) (*model.Certificate, error)
	GetByApplicationID(ctx context.Context, applicationID string) (*model.Certificate, error)
	// Delete removes a certificate whose issuance did not stick.
	Delete(ctx context.Context, id string) error
}
