package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/itimad/portal-api/internal/core"
	"github.com/itimad/portal-api/internal/data"
	domainauth "github.com/itimad/portal-api/internal/domain/auth"
	"github.com/itimad/portal-api/internal/domain/model"
	apperrors "github.com/itimad/portal-api/internal/errors"
)

// Actor is the authenticated principal a request acts as, lifted off the
// session by the HTTP layer.
type Actor struct {
	UserID string
	Role   domainauth.Role
}

// ApplicationServiceOptions groups dependencies for ApplicationService.
type ApplicationServiceOptions struct {
	Applications core.ApplicationRepository
	Certificates *CertificateService
}

// ApplicationService orchestrates the accreditation review pipeline:
// submission, the admin review queue, guarded status transitions with
// certificate minting, and owner resubmission.
type ApplicationService struct {
	apps  core.ApplicationRepository
	certs *CertificateService
}

// NewApplicationService constructs a new ApplicationService.
func NewApplicationService(opts ApplicationServiceOptions) *ApplicationService {
	return &ApplicationService{
		apps:  opts.Applications,
		certs: opts.Certificates,
	}
}

// Submit files a new accreditation application for the actor's own center.
// The application's center type must match the actor's role: a training
// center cannot file on the testing track.
func (s *ApplicationService) Submit(ctx context.Context, actor Actor, req *model.CreateApplicationRequest) (*model.Application, error) {
	if !actor.Role.Can(domainauth.PermSubmitApplication) {
		return nil, apperrors.PermissionDenied("your role cannot submit applications")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if !trackMatchesRole(req.CenterType, actor.Role) {
		return nil, apperrors.PermissionDenied(
			fmt.Sprintf("a %s center cannot apply on the %s track", actor.Role, req.CenterType))
	}

	req.UserID = actor.UserID
	app, err := s.apps.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}
	return app, nil
}

// GetByID retrieves an application, visible to its owner and to staff.
func (s *ApplicationService) GetByID(ctx context.Context, actor Actor, id string) (*model.Application, error) {
	app, err := s.getApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.UserID != actor.UserID && !actor.Role.Can(domainauth.PermViewAllApplications) {
		return nil, apperrors.PermissionDenied("you may only view your own applications")
	}
	return app, nil
}

// ListByUser returns one owner's applications, newest first. Centers may
// list only their own; staff may list anyone's.
func (s *ApplicationService) ListByUser(ctx context.Context, actor Actor, userID string, limit, offset int) ([]*model.Application, error) {
	if userID != actor.UserID && !actor.Role.Can(domainauth.PermViewAllApplications) {
		return nil, apperrors.PermissionDenied("you may only view your own applications")
	}
	if userID == actor.UserID && !actor.Role.Can(domainauth.PermViewOwnApplications) &&
		!actor.Role.Can(domainauth.PermViewAllApplications) {
		return nil, apperrors.PermissionDenied("your role cannot view applications")
	}
	return s.apps.ListByUser(ctx, userID, limit, offset)
}

// List returns the staff review queue with optional filters.
func (s *ApplicationService) List(ctx context.Context, actor Actor, opts model.ApplicationsListOptions) ([]*model.Application, error) {
	if !actor.Role.Can(domainauth.PermViewAllApplications) {
		return nil, apperrors.PermissionDenied("only staff may list the review queue")
	}
	return s.apps.ListWithOptions(ctx, opts)
}

// Transition applies a review decision. The target must be directly legal
// from the current status; terminal applications never move. Acceptance
// mints the certificate and records its ID in the same guarded update; an
// acceptance that loses the guard discards the certificate it minted, so a
// certificate exists exactly when the status is accepted.
func (s *ApplicationService) Transition(ctx context.Context, actor Actor, id string, req model.UpdateStatusRequest) (*model.Application, error) {
	if !actor.Role.Can(domainauth.PermReviewApplication) {
		return nil, apperrors.PermissionDenied("only staff may review applications")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	target, _ := model.ParseApplicationStatus(req.Status)

	app, err := s.getApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if !app.Status.CanTransitionTo(target) {
		return nil, apperrors.InvalidTransition(string(app.Status), string(target))
	}

	upd := data.StatusUpdate{
		From:        app.Status,
		To:          target,
		ReviewNotes: req.ReviewNotes,
		ReviewedBy:  actor.UserID,
	}
	if target == model.StatusAccepted {
		cert, mintErr := s.certs.Mint(ctx, app)
		if mintErr != nil {
			return nil, fmt.Errorf("mint certificate: %w", mintErr)
		}
		upd.CertificateID = &cert.ID
	}

	updated, err := s.apps.UpdateStatus(ctx, id, upd)
	if err != nil {
		// A minted certificate must not outlive a refused acceptance: its
		// verify token would vouch for an application that was never
		// accepted. Take it back before reporting the failure.
		if upd.CertificateID != nil {
			if discardErr := s.certs.Discard(ctx, *upd.CertificateID); discardErr != nil {
				err = errors.Join(err, discardErr)
			}
		}
		switch {
		case errors.Is(err, data.ErrApplicationNotFound):
			return nil, apperrors.NotFound("application not found")
		case errors.Is(err, data.ErrStaleApplicationStatus):
			return nil, apperrors.Conflict("application status changed concurrently, reload and retry")
		}
		return nil, fmt.Errorf("update status: %w", err)
	}
	return updated, nil
}

// Resubmit amends an application after the reviewer asked for changes and
// restarts the pipeline at submitted. Owner only; refused once terminal.
func (s *ApplicationService) Resubmit(ctx context.Context, actor Actor, id string, req model.ResubmitRequest) (*model.Application, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	app, err := s.getApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.UserID != actor.UserID {
		return nil, apperrors.PermissionDenied("only the application's owner may resubmit it")
	}
	if app.Status.Terminal() {
		return nil, apperrors.InvalidTransition(string(app.Status), string(model.StatusSubmitted))
	}

	updated, err := s.apps.Resubmit(ctx, id, req)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrApplicationNotFound):
			return nil, apperrors.NotFound("application not found")
		case errors.Is(err, data.ErrStaleApplicationStatus):
			return nil, apperrors.Conflict("application was decided concurrently, reload and retry")
		}
		return nil, fmt.Errorf("resubmit application: %w", err)
	}
	return updated, nil
}

func (s *ApplicationService) getApplication(ctx context.Context, id string) (*model.Application, error) {
	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, data.ErrApplicationNotFound) {
			return nil, apperrors.NotFound("application not found")
		}
		return nil, fmt.Errorf("get application: %w", err)
	}
	return app, nil
}

func trackMatchesRole(t model.CenterType, role domainauth.Role) bool {
	switch role {
	case domainauth.RoleTrainingCenter:
		return t == model.CenterTypeTraining
	case domainauth.RoleTestingCenter:
		return t == model.CenterTypeTesting
	}
	return false
}
