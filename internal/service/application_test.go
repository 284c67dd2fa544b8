package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/itimad/portal-api/internal/data"
	domainauth "github.com/itimad/portal-api/internal/domain/auth"
	"github.com/itimad/portal-api/internal/domain/model"
	apperrors "github.com/itimad/portal-api/internal/errors"
	"github.com/itimad/portal-api/internal/mocks"
)

const testApplicationID = "app-123"

var (
	ownerActor = Actor{UserID: "owner-1", Role: domainauth.RoleTrainingCenter}
	adminActor = Actor{UserID: "admin-1", Role: domainauth.RoleAdmin}
)

func newApplicationService(t *testing.T) (*mocks.MockApplicationRepository, *mocks.MockCertificateRepository, *ApplicationService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	appRepo := mocks.NewMockApplicationRepository(ctrl)
	certRepo := mocks.NewMockCertificateRepository(ctrl)

	service := NewApplicationService(ApplicationServiceOptions{
		Applications: appRepo,
		Certificates: NewCertificateService(CertificateServiceOptions{
			Certificates: certRepo,
			SigningKey:   []byte("test-signing-key"),
		}),
	})
	return appRepo, certRepo, service
}

func pendingApplication(status model.ApplicationStatus) *model.Application {
	return &model.Application{
		ID:          testApplicationID,
		CenterType:  model.CenterTypeTraining,
		CenterName:  "Al-Rafidain Training Center",
		ManagerName: "Ali Hassan",
		City:        "Baghdad",
		UserID:      "owner-1",
		Status:      status,
		SubmittedAt: time.Now().Add(-time.Hour),
	}
}

func TestApplicationService_Submit_Success(t *testing.T) {
	t.Parallel()
	appRepo, _, service := newApplicationService(t)
	ctx := context.Background()

	req := &model.CreateApplicationRequest{
		CenterType:  model.CenterTypeTraining,
		CenterName:  "Al-Rafidain Training Center",
		ManagerName: "Ali Hassan",
		City:        "Baghdad",
	}

	appRepo.EXPECT().
		Create(ctx, req).
		DoAndReturn(func(_ context.Context, got *model.CreateApplicationRequest) (*model.Application, error) {
			assert.Equal(t, "owner-1", got.UserID, "owner comes from the session, never the body")
			return pendingApplication(model.StatusSubmitted), nil
		})

	app, err := service.Submit(ctx, ownerActor, req)
	require.NoError(t, err)
	assert.Equal(t, model.StatusSubmitted, app.Status)
}

func TestApplicationService_Submit_RoleDenied(t *testing.T) {
	t.Parallel()
	_, _, service := newApplicationService(t)

	req := &model.CreateApplicationRequest{
		CenterType:  model.CenterTypeTraining,
		CenterName:  "Center",
		ManagerName: "Manager",
		City:        "Baghdad",
	}

	for _, actor := range []Actor{
		{UserID: "student-1", Role: domainauth.RoleStudent},
		{UserID: "admin-1", Role: domainauth.RoleAdmin},
	} {
		_, err := service.Submit(context.Background(), actor, req)
		require.Error(t, err)
		assert.True(t, apperrors.IsPermissionDenied(err))
	}
}

func TestApplicationService_Submit_TrackMismatch(t *testing.T) {
	t.Parallel()
	_, _, service := newApplicationService(t)

	// a training center filing on the testing track
	req := &model.CreateApplicationRequest{
		CenterType:  model.CenterTypeTesting,
		CenterName:  "Center",
		ManagerName: "Manager",
		City:        "Baghdad",
	}

	_, err := service.Submit(context.Background(), ownerActor, req)
	require.Error(t, err)
	assert.True(t, apperrors.IsPermissionDenied(err))
}

func TestApplicationService_GetByID_OwnerAndStaff(t *testing.T) {
	t.Parallel()
	appRepo, _, service := newApplicationService(t)
	ctx := context.Background()

	appRepo.EXPECT().
		GetByID(ctx, testApplicationID).
		Return(pendingApplication(model.StatusUnderReview), nil).
		Times(2)

	app, err := service.GetByID(ctx, ownerActor, testApplicationID)
	require.NoError(t, err)
	assert.Equal(t, testApplicationID, app.ID)

	app, err = service.GetByID(ctx, adminActor, testApplicationID)
	require.NoError(t, err)
	assert.Equal(t, testApplicationID, app.ID)
}

func TestApplicationService_GetByID_StrangerDenied(t *testing.T) {
	t.Parallel()
	appRepo, _, service := newApplicationService(t)
	ctx := context.Background()

	appRepo.EXPECT().
		GetByID(ctx, testApplicationID).
		Return(pendingApplication(model.StatusUnderReview), nil)

	stranger := Actor{UserID: "other-center", Role: domainauth.RoleTestingCenter}
	_, err := service.GetByID(ctx, stranger, testApplicationID)
	require.Error(t, err)
	assert.True(t, apperrors.IsPermissionDenied(err))
}

func TestApplicationService_GetByID_NotFound(t *testing.T) {
	t.Parallel()
	appRepo, _, service := newApplicationService(t)
	ctx := context.Background()

	appRepo.EXPECT().
		GetByID(ctx, "missing").
		Return(nil, data.ErrApplicationNotFound)

	_, err := service.GetByID(ctx, adminActor, "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestApplicationService_ListByUser_Permissions(t *testing.T) {
	t.Parallel()
	appRepo, _, service := newApplicationService(t)
	ctx := context.Background()

	appRepo.EXPECT().
		ListByUser(ctx, "owner-1", 10, 0).
		Return([]*model.Application{pendingApplication(model.StatusSubmitted)}, nil).
		Times(2)

	// the owner lists their own
	list, err := service.ListByUser(ctx, ownerActor, "owner-1", 10, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	// staff list anyone's
	list, err = service.ListByUser(ctx, adminActor, "owner-1", 10, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	// another center does not
	stranger := Actor{UserID: "other-center", Role: domainauth.RoleTestingCenter}
	_, err = service.ListByUser(ctx, stranger, "owner-1", 10, 0)
	require.Error(t, err)
	assert.True(t, apperrors.IsPermissionDenied(err))
}

func TestApplicationService_List_AdminOnly(t *testing.T) {
	t.Parallel()
	appRepo, _, service := newApplicationService(t)
	ctx := context.Background()

	status := model.StatusSubmitted
	opts := model.ApplicationsListOptions{Status: &status, Limit: 20}
	appRepo.EXPECT().
		ListWithOptions(ctx, opts).
		Return([]*model.Application{pendingApplication(model.StatusSubmitted)}, nil)

	list, err := service.List(ctx, adminActor, opts)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = service.List(ctx, ownerActor, opts)
	require.Error(t, err)
	assert.True(t, apperrors.IsPermissionDenied(err))
}

func TestApplicationService_Transition_Legal(t *testing.T) {
	t.Parallel()
	appRepo, _, service := newApplicationService(t)
	ctx := context.Background()

	notes := "documents verified"
	appRepo.EXPECT().
		GetByID(ctx, testApplicationID).
		Return(pendingApplication(model.StatusSubmitted), nil)
	appRepo.EXPECT().
		UpdateStatus(ctx, testApplicationID, data.StatusUpdate{
			From:        model.StatusSubmitted,
			To:          model.StatusUnderReview,
			ReviewNotes: &notes,
			ReviewedBy:  "admin-1",
		}).
		Return(pendingApplication(model.StatusUnderReview), nil)

	app, err := service.Transition(ctx, adminActor, testApplicationID, model.UpdateStatusRequest{
		Status:      "under_review",
		ReviewNotes: &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusUnderReview, app.Status)
}

func TestApplicationService_Transition_IllegalJump(t *testing.T) {
	t.Parallel()
	appRepo, _, service := newApplicationService(t)
	ctx := context.Background()

	// submitted cannot jump straight to accepted, nor straight to rejected
	for _, target := range []string{"accepted", "rejected", "under_evaluation"} {
		appRepo.EXPECT().
			GetByID(ctx, testApplicationID).
			Return(pendingApplication(model.StatusSubmitted), nil)

		_, err := service.Transition(ctx, adminActor, testApplicationID, model.UpdateStatusRequest{
			Status: target,
		})
		require.Error(t, err, "submitted -> %s must be refused", target)
		assert.True(t, apperrors.IsInvalidTransition(err))
	}
}

func TestApplicationService_Transition_TerminalFrozen(t *testing.T) {
	t.Parallel()
	appRepo, _, service := newApplicationService(t)
	ctx := context.Background()

	for _, from := range []model.ApplicationStatus{model.StatusAccepted, model.StatusRejected} {
		appRepo.EXPECT().
			GetByID(ctx, testApplicationID).
			Return(pendingApplication(from), nil)

		_, err := service.Transition(ctx, adminActor, testApplicationID, model.UpdateStatusRequest{
			Status: "under_review",
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsInvalidTransition(err))
	}
}

func TestApplicationService_Transition_NonStaffDenied(t *testing.T) {
	t.Parallel()
	_, _, service := newApplicationService(t)

	// even the owner cannot review their own application
	_, err := service.Transition(context.Background(), ownerActor, testApplicationID, model.UpdateStatusRequest{
		Status: "under_review",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsPermissionDenied(err))
}

func TestApplicationService_Transition_AcceptedMintsCertificate(t *testing.T) {
	t.Parallel()
	appRepo, certRepo, service := newApplicationService(t)
	ctx := context.Background()

	app := pendingApplication(model.StatusUnderEvaluation)
	appRepo.EXPECT().
		GetByID(ctx, testApplicationID).
		Return(app, nil)

	var mintedID string
	certRepo.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, cert *model.Certificate) (*model.Certificate, error) {
			assert.Equal(t, testApplicationID, cert.ApplicationID)
			assert.Equal(t, app.CenterName, cert.CenterName)
			assert.NotEmpty(t, cert.Serial)
			assert.NotEmpty(t, cert.VerifyToken)
			mintedID = cert.ID
			return cert, nil
		})

	appRepo.EXPECT().
		UpdateStatus(ctx, testApplicationID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, upd data.StatusUpdate) (*model.Application, error) {
			assert.Equal(t, model.StatusUnderEvaluation, upd.From)
			assert.Equal(t, model.StatusAccepted, upd.To)
			require.NotNil(t, upd.CertificateID, "certificate ID lands in the same update")
			assert.Equal(t, mintedID, *upd.CertificateID)
			accepted := pendingApplication(model.StatusAccepted)
			accepted.CertificateID = upd.CertificateID
			return accepted, nil
		})

	updated, err := service.Transition(ctx, adminActor, testApplicationID, model.UpdateStatusRequest{
		Status: "accepted",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusAccepted, updated.Status)
	require.NotNil(t, updated.CertificateID)
	assert.Equal(t, mintedID, *updated.CertificateID)
}

func TestApplicationService_Transition_StaleStatusConflict(t *testing.T) {
	t.Parallel()
	appRepo, _, service := newApplicationService(t)
	ctx := context.Background()

	appRepo.EXPECT().
		GetByID(ctx, testApplicationID).
		Return(pendingApplication(model.StatusSubmitted), nil)
	appRepo.EXPECT().
		UpdateStatus(ctx, testApplicationID, gomock.Any()).
		Return(nil, data.ErrStaleApplicationStatus)

	_, err := service.Transition(ctx, adminActor, testApplicationID, model.UpdateStatusRequest{
		Status: "under_review",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestApplicationService_Transition_StaleAcceptDiscardsCertificate(t *testing.T) {
	t.Parallel()
	appRepo, certRepo, service := newApplicationService(t)
	ctx := context.Background()

	appRepo.EXPECT().
		GetByID(ctx, testApplicationID).
		Return(pendingApplication(model.StatusUnderEvaluation), nil)

	var mintedID string
	certRepo.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, cert *model.Certificate) (*model.Certificate, error) {
			mintedID = cert.ID
			return cert, nil
		})

	// A concurrent reviewer rejected the application between the read and
	// the guarded update. The certificate minted for the losing acceptance
	// must be taken back, or its verify token would keep vouching for an
	// application that was never accepted.
	appRepo.EXPECT().
		UpdateStatus(ctx, testApplicationID, gomock.Any()).
		Return(nil, data.ErrStaleApplicationStatus)
	certRepo.EXPECT().
		Delete(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, id string) error {
			assert.Equal(t, mintedID, id)
			return nil
		})

	_, err := service.Transition(ctx, adminActor, testApplicationID, model.UpdateStatusRequest{
		Status: "accepted",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestApplicationService_Transition_StaleAcceptToleratesDiscardedRow(t *testing.T) {
	t.Parallel()
	appRepo, certRepo, service := newApplicationService(t)
	ctx := context.Background()

	appRepo.EXPECT().
		GetByID(ctx, testApplicationID).
		Return(pendingApplication(model.StatusUnderEvaluation), nil)
	certRepo.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, cert *model.Certificate) (*model.Certificate, error) {
			return cert, nil
		})
	appRepo.EXPECT().
		UpdateStatus(ctx, testApplicationID, gomock.Any()).
		Return(nil, data.ErrStaleApplicationStatus)
	// Row already gone still reads as a clean conflict.
	certRepo.EXPECT().
		Delete(ctx, gomock.Any()).
		Return(data.ErrCertificateNotFound)

	_, err := service.Transition(ctx, adminActor, testApplicationID, model.UpdateStatusRequest{
		Status: "accepted",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestApplicationService_Resubmit_OwnerOnly(t *testing.T) {
	t.Parallel()
	appRepo, _, service := newApplicationService(t)
	ctx := context.Background()

	newManager := "Sara Kareem"
	req := model.ResubmitRequest{ManagerName: &newManager, Status: "modified"}

	appRepo.EXPECT().
		GetByID(ctx, testApplicationID).
		Return(pendingApplication(model.StatusUnderReview), nil).
		Times(2)

	// a stranger, even staff, cannot resubmit someone else's application
	_, err := service.Resubmit(ctx, adminActor, testApplicationID, req)
	require.Error(t, err)
	assert.True(t, apperrors.IsPermissionDenied(err))

	resubmitted := pendingApplication(model.StatusSubmitted)
	resubmitted.ManagerName = newManager
	appRepo.EXPECT().
		Resubmit(ctx, testApplicationID, req).
		Return(resubmitted, nil)

	app, err := service.Resubmit(ctx, ownerActor, testApplicationID, req)
	require.NoError(t, err)
	assert.Equal(t, model.StatusSubmitted, app.Status)
	assert.Equal(t, newManager, app.ManagerName)
}

func TestApplicationService_Resubmit_TerminalRefused(t *testing.T) {
	t.Parallel()
	appRepo, _, service := newApplicationService(t)
	ctx := context.Background()

	newCity := "Erbil"
	req := model.ResubmitRequest{City: &newCity, Status: "modified"}

	for _, status := range []model.ApplicationStatus{model.StatusAccepted, model.StatusRejected} {
		appRepo.EXPECT().
			GetByID(ctx, testApplicationID).
			Return(pendingApplication(status), nil)

		_, err := service.Resubmit(ctx, ownerActor, testApplicationID, req)
		require.Error(t, err)
		assert.True(t, apperrors.IsInvalidTransition(err))
	}
}

func TestApplicationService_Resubmit_DecidedConcurrently(t *testing.T) {
	t.Parallel()
	appRepo, _, service := newApplicationService(t)
	ctx := context.Background()

	newCity := "Erbil"
	req := model.ResubmitRequest{City: &newCity, Status: "modified"}

	// The application was still open when read, but a reviewer's final
	// decision landed before the guarded update. The resubmit must not
	// reopen it.
	appRepo.EXPECT().
		GetByID(ctx, testApplicationID).
		Return(pendingApplication(model.StatusUnderEvaluation), nil)
	appRepo.EXPECT().
		Resubmit(ctx, testApplicationID, req).
		Return(nil, data.ErrStaleApplicationStatus)

	_, err := service.Resubmit(ctx, ownerActor, testApplicationID, req)
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestApplicationService_Resubmit_RequiresModifiedMarker(t *testing.T) {
	t.Parallel()
	_, _, service := newApplicationService(t)

	newCity := "Erbil"
	_, err := service.Resubmit(context.Background(), ownerActor, testApplicationID, model.ResubmitRequest{
		City:   &newCity,
		Status: "submitted",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}
