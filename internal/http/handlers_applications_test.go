package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/itimad/portal-api/internal/domain/auth"
	"github.com/itimad/portal-api/internal/domain/model"
)

func storedApplication(id, userID string, status model.ApplicationStatus) *model.Application {
	now := time.Now().UTC()
	return &model.Application{
		ID:          id,
		CenterType:  model.CenterTypeTraining,
		CenterName:  "Al-Noor Training Center",
		ManagerName: "Zainab Kareem",
		City:        "Baghdad",
		UserID:      userID,
		Status:      status,
		SubmittedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestApplicationRoutes_Submit(t *testing.T) {
	t.Parallel()
	f := newPortalFixture(t)
	sess := f.signIn(t, "owner-1", domainauth.RoleTrainingCenter)

	f.apps.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, req *model.CreateApplicationRequest) (*model.Application, error) {
			// The session, not the body, names the owner; the path names the track.
			assert.Equal(t, "owner-1", req.UserID)
			assert.Equal(t, model.CenterTypeTraining, req.CenterType)
			return storedApplication("app-1", "owner-1", model.StatusSubmitted), nil
		})

	req := jsonRequest(t, http.MethodPost, "/api/training-center-applications", map[string]string{
		"center_name":  "Al-Noor Training Center",
		"manager_name": "Zainab Kareem",
		"city":         "Baghdad",
	})
	w := f.do(withCSRF(req, sess))

	assert.Equal(t, http.StatusCreated, w.Code)
	var app model.Application
	decodeBody(t, w, &app)
	assert.Equal(t, "app-1", app.ID)
	assert.Equal(t, model.StatusSubmitted, app.Status)
}

func TestApplicationRoutes_SubmitUnauthenticated(t *testing.T) {
	t.Parallel()
	f := newPortalFixture(t)

	req := jsonRequest(t, http.MethodPost, "/api/training-center-applications", map[string]string{
		"center_name":  "Al-Noor Training Center",
		"manager_name": "Zainab Kareem",
		"city":         "Baghdad",
	})
	w := f.do(req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "authentication_required")
}

func TestApplicationRoutes_SubmitTrackMismatch(t *testing.T) {
	t.Parallel()
	f := newPortalFixture(t)
	sess := f.signIn(t, "owner-1", domainauth.RoleTrainingCenter)

	// A training center cannot file on the testing track.
	req := jsonRequest(t, http.MethodPost, "/api/testing-center-applications", map[string]string{
		"center_name":  "Al-Noor Training Center",
		"manager_name": "Zainab Kareem",
		"city":         "Baghdad",
	})
	w := f.do(withCSRF(req, sess))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "permission_denied")
}

func TestApplicationRoutes_ListByUser(t *testing.T) {
	t.Parallel()
	f := newPortalFixture(t)
	sess := f.signIn(t, "owner-1", domainauth.RoleTrainingCenter)

	f.apps.EXPECT().
		ListByUser(gomock.Any(), "owner-1", 50, 0).
		Return([]*model.Application{storedApplication("app-1", "owner-1", model.StatusUnderReview)}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/training-center-applications/user/owner-1", nil)
	w := f.do(withSession(req, sess))

	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Applications []model.Application `json:"applications"`
		Limit        int                 `json:"limit"`
	}
	decodeBody(t, w, &body)
	require.Len(t, body.Applications, 1)
	assert.Equal(t, "app-1", body.Applications[0].ID)
	assert.Equal(t, 50, body.Limit)
}

func TestApplicationRoutes_ListByUser_StrangerDenied(t *testing.T) {
	t.Parallel()
	f := newPortalFixture(t)
	sess := f.signIn(t, "someone-else", domainauth.RoleTrainingCenter)

	req := httptest.NewRequest(http.MethodGet, "/api/training-center-applications/user/owner-1", nil)
	w := f.do(withSession(req, sess))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "permission_denied")
}

func TestApplicationRoutes_ReviewQueue(t *testing.T) {
	t.Parallel()
	f := newPortalFixture(t)
	sess := f.signIn(t, "admin-1", domainauth.RoleAdmin)

	f.apps.EXPECT().
		ListWithOptions(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, opts model.ApplicationsListOptions) ([]*model.Application, error) {
			require.NotNil(t, opts.Status)
			assert.Equal(t, model.StatusUnderReview, *opts.Status)
			return []*model.Application{storedApplication("app-1", "owner-1", model.StatusUnderReview)}, nil
		})

	req := httptest.NewRequest(http.MethodGet, "/api/applications?status=under_review", nil)
	w := f.do(withSession(req, sess))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestApplicationRoutes_ReviewQueue_UnknownStatusFilter(t *testing.T) {
	t.Parallel()
	f := newPortalFixture(t)
	sess := f.signIn(t, "admin-1", domainauth.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/api/applications?status=bogus", nil)
	w := f.do(withSession(req, sess))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApplicationRoutes_ReviewQueue_CenterRoleDenied(t *testing.T) {
	t.Parallel()
	f := newPortalFixture(t)
	sess := f.signIn(t, "owner-1", domainauth.RoleTrainingCenter)

	req := httptest.NewRequest(http.MethodGet, "/api/applications", nil)
	w := f.do(withSession(req, sess))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestApplicationRoutes_DetailLocalizesProgress(t *testing.T) {
	t.Parallel()
	f := newPortalFixture(t)
	sess := f.signIn(t, "owner-1", domainauth.RoleTrainingCenter)

	f.apps.EXPECT().
		GetByID(gomock.Any(), "app-1").
		Return(storedApplication("app-1", "owner-1", model.StatusFieldVisit), nil).
		Times(2)

	type detail struct {
		StatusLabel   string `json:"status_label"`
		ProgressSteps []struct {
			ID    int    `json:"id"`
			Title string `json:"title"`
			State string `json:"state"`
		} `json:"progress_steps"`
	}

	// English when asked for.
	req := httptest.NewRequest(http.MethodGet, "/api/applications/app-1?lang=en", nil)
	w := f.do(withSession(req, sess))
	require.Equal(t, http.StatusOK, w.Code)

	var en detail
	decodeBody(t, w, &en)
	assert.Equal(t, "Field Visit", en.StatusLabel)
	require.Len(t, en.ProgressSteps, 5)
	assert.Equal(t, "Application Submission", en.ProgressSteps[0].Title)
	assert.Equal(t, "completed", en.ProgressSteps[0].State)
	assert.Equal(t, "current", en.ProgressSteps[2].State)
	assert.Equal(t, "pending", en.ProgressSteps[4].State)

	// Arabic is the default.
	req = httptest.NewRequest(http.MethodGet, "/api/applications/app-1", nil)
	w = f.do(withSession(req, sess))
	require.Equal(t, http.StatusOK, w.Code)

	var ar detail
	decodeBody(t, w, &ar)
	assert.Equal(t, "الزيارة الميدانية", ar.StatusLabel)
	assert.Equal(t, "تقديم الطلب", ar.ProgressSteps[0].Title)
}

func TestApplicationRoutes_DetailStrangerDenied(t *testing.T) {
	t.Parallel()
	f := newPortalFixture(t)
	sess := f.signIn(t, "someone-else", domainauth.RoleTestingCenter)

	f.apps.EXPECT().
		GetByID(gomock.Any(), "app-1").
		Return(storedApplication("app-1", "owner-1", model.StatusSubmitted), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/applications/app-1", nil)
	w := f.do(withSession(req, sess))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestApplicationRoutes_UpdateStatus(t *testing.T) {
	t.Parallel()
	f := newPortalFixture(t)
	sess := f.signIn(t, "admin-1", domainauth.RoleAdmin)

	f.apps.EXPECT().
		GetByID(gomock.Any(), "app-1").
		Return(storedApplication("app-1", "owner-1", model.StatusSubmitted), nil)
	f.apps.EXPECT().
		UpdateStatus(gomock.Any(), "app-1", gomock.Any()).
		Return(storedApplication("app-1", "owner-1", model.StatusUnderReview), nil)

	req := jsonRequest(t, http.MethodPatch, "/api/training-center-applications/app-1/status", map[string]string{
		"status":       "under_review",
		"review_notes": "documents look complete",
	})
	w := f.do(withCSRF(req, sess))

	assert.Equal(t, http.StatusOK, w.Code)
	var app model.Application
	decodeBody(t, w, &app)
	assert.Equal(t, model.StatusUnderReview, app.Status)
}

func TestApplicationRoutes_UpdateStatus_IllegalJump(t *testing.T) {
	t.Parallel()
	f := newPortalFixture(t)
	sess := f.signIn(t, "admin-1", domainauth.RoleAdmin)

	f.apps.EXPECT().
		GetByID(gomock.Any(), "app-1").
		Return(storedApplication("app-1", "owner-1", model.StatusSubmitted), nil)

	req := jsonRequest(t, http.MethodPatch, "/api/training-center-applications/app-1/status", map[string]string{
		"status": "accepted",
	})
	w := f.do(withCSRF(req, sess))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_transition")
}

func TestApplicationRoutes_UpdateStatus_OwnerDenied(t *testing.T) {
	t.Parallel()
	f := newPortalFixture(t)
	sess := f.signIn(t, "owner-1", domainauth.RoleTrainingCenter)

	req := jsonRequest(t, http.MethodPatch, "/api/training-center-applications/app-1/status", map[string]string{
		"status": "under_review",
	})
	w := f.do(withCSRF(req, sess))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "permission_denied")
}

func TestApplicationRoutes_UpdateStatus_RequiresCSRFToken(t *testing.T) {
	t.Parallel()
	f := newPortalFixture(t)
	sess := f.signIn(t, "admin-1", domainauth.RoleAdmin)

	req := jsonRequest(t, http.MethodPatch, "/api/training-center-applications/app-1/status", map[string]string{
		"status": "under_review",
	})
	w := f.do(withSession(req, sess))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "csrf_failed")
}

func TestApplicationRoutes_Resubmit(t *testing.T) {
	t.Parallel()
	f := newPortalFixture(t)
	sess := f.signIn(t, "owner-1", domainauth.RoleTrainingCenter)

	f.apps.EXPECT().
		GetByID(gomock.Any(), "app-1").
		Return(storedApplication("app-1", "owner-1", model.StatusUnderReview), nil)
	f.apps.EXPECT().
		Resubmit(gomock.Any(), "app-1", gomock.Any()).
		Return(storedApplication("app-1", "owner-1", model.StatusSubmitted), nil)

	req := jsonRequest(t, http.MethodPatch, "/api/training-center-applications/app-1", map[string]string{
		"status": "modified",
		"city":   "Basra",
	})
	w := f.do(withCSRF(req, sess))

	assert.Equal(t, http.StatusOK, w.Code)
	var app model.Application
	decodeBody(t, w, &app)
	assert.Equal(t, model.StatusSubmitted, app.Status)
}

func TestApplicationRoutes_Resubmit_TerminalRefused(t *testing.T) {
	t.Parallel()
	f := newPortalFixture(t)
	sess := f.signIn(t, "owner-1", domainauth.RoleTrainingCenter)

	f.apps.EXPECT().
		GetByID(gomock.Any(), "app-1").
		Return(storedApplication("app-1", "owner-1", model.StatusRejected), nil)

	req := jsonRequest(t, http.MethodPatch, "/api/training-center-applications/app-1", map[string]string{
		"status": "modified",
		"city":   "Basra",
	})
	w := f.do(withCSRF(req, sess))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_transition")
}
