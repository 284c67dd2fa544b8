package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/itimad/portal-api/internal/captcha"
	domainauth "github.com/itimad/portal-api/internal/domain/auth"
	"github.com/itimad/portal-api/internal/i18n"
	"github.com/itimad/portal-api/internal/mocks"
	mockauth "github.com/itimad/portal-api/internal/mocks/auth"
	"github.com/itimad/portal-api/internal/service"
)

// portalFixture wires the full router over an in-memory session store and
// mocked repositories, so handler tests exercise real routing, middleware,
// and service logic without a database.
type portalFixture struct {
	store    *mockauth.MemorySessionStore
	provider *mockauth.MockAuthProvider
	users    *mocks.MockUserRepository
	apps     *mocks.MockApplicationRepository
	certs    *mocks.MockCertificateRepository
	captcha  *service.CaptchaService
	certSvc  *service.CertificateService
	handler  http.Handler
}

func newPortalFixture(t *testing.T) *portalFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	store := mockauth.NewMemorySessionStore()
	captchaSvc := service.NewCaptchaService(service.CaptchaServiceOptions{
		Sessions:  store,
		Generator: captcha.NewGenerator(captcha.Options{}),
	})

	provider := mockauth.NewMockAuthProvider()
	users := mocks.NewMockUserRepository(ctrl)
	authSvc := service.NewAuthService(service.AuthServiceOptions{
		Provider: provider,
		Sessions: store,
		Roles:    mockauth.StaticRoleMapper{SuperAdminGroup: "portal-directors", AdminGroup: "portal-admins"},
		Users:    users,
		Captcha:  captchaSvc,
	})

	certs := mocks.NewMockCertificateRepository(ctrl)
	certSvc := service.NewCertificateService(service.CertificateServiceOptions{
		Certificates: certs,
		SigningKey:   []byte("router-test-signing-key"),
	})

	apps := mocks.NewMockApplicationRepository(ctrl)
	appSvc := service.NewApplicationService(service.ApplicationServiceOptions{
		Applications: apps,
		Certificates: certSvc,
	})

	translator, err := i18n.New()
	require.NoError(t, err)

	handler := NewRouter(RouterServices{
		Captcha:      captchaSvc,
		Auth:         authSvc,
		Applications: appSvc,
		Certificates: certSvc,
		Translator:   translator,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	return &portalFixture{
		store:    store,
		provider: provider,
		users:    users,
		apps:     apps,
		certs:    certs,
		captcha:  captchaSvc,
		certSvc:  certSvc,
		handler:  handler,
	}
}

// signIn persists an authenticated session directly in the store and returns it.
func (f *portalFixture) signIn(t *testing.T, userID string, role domainauth.Role) domainauth.Session {
	t.Helper()
	now := time.Now().UTC()
	sess := domainauth.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Email:     userID + "@example.iq",
		FullName:  "Test User",
		Role:      role,
		CSRFToken: uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
	require.NoError(t, f.store.Save(context.Background(), sess))
	return sess
}

// do executes the request against the router and returns the recorder.
func (f *portalFixture) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

// jsonRequest builds a request with a JSON-encoded body.
func jsonRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// withSession attaches the sid cookie; withCSRF also echoes the session token.
func withSession(req *http.Request, sess domainauth.Session) *http.Request {
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sess.ID})
	return req
}

func withCSRF(req *http.Request, sess domainauth.Session) *http.Request {
	req = withSession(req, sess)
	req.Header.Set(CSRFHeaderName, sess.CSRFToken)
	return req
}

// decodeBody unmarshals the recorded response body into dst.
func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst))
}

// sidFromResponse extracts the sid cookie set by the response, if any.
func sidFromResponse(w *httptest.ResponseRecorder) string {
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c.Value
		}
	}
	return ""
}
