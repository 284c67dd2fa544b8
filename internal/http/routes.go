package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/itimad/portal-api/internal/domain/auth"
	"github.com/itimad/portal-api/internal/i18n"
	"github.com/itimad/portal-api/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Captcha      *service.CaptchaService
	Auth         AuthServiceInterface
	Applications *service.ApplicationService
	Certificates *service.CertificateService
	Translator   *i18n.Translator
	CookieDomain string
	Logger       *slog.Logger // Logger for handler errors (optional)
}

// NewRouter creates and configures the portal API router. Request logging and
// panic recovery are applied by the caller around the returned handler.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	captchaHandlers := &CaptchaHandlers{
		Svc:          services.Captcha,
		CookieDomain: services.CookieDomain,
		Logger:       services.Logger,
	}
	authHandlers := &AuthHandlers{
		Svc:          services.Auth,
		CookieDomain: services.CookieDomain,
		Logger:       services.Logger,
	}
	appHandlers := &ApplicationHandlers{
		Svc:        services.Applications,
		Translator: services.Translator,
		Logger:     services.Logger,
	}
	certHandlers := &CertificateHandlers{Svc: services.Certificates, Logger: services.Logger}

	registerCaptchaRoutes(mux, captchaHandlers, services.Auth)
	registerAuthRoutes(mux, authHandlers, services.Auth)
	registerApplicationRoutes(mux, appHandlers, services.Auth)
	registerCertificateRoutes(mux, certHandlers)
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	return mux
}

func registerCaptchaRoutes(mux *http.ServeMux, h *CaptchaHandlers, auth AuthServiceInterface) {
	mux.HandleFunc("GET /api/captcha", h.Issue)
	mux.Handle("POST /api/verify-captcha", CSRFProtection(auth)(http.HandlerFunc(h.Verify)))
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, auth AuthServiceInterface) {
	csrf := CSRFProtection(auth)
	mux.Handle("POST /api/auth/register", csrf(http.HandlerFunc(h.Register)))
	mux.Handle("POST /api/auth/login", csrf(http.HandlerFunc(h.Login)))
	mux.HandleFunc("POST /api/auth/logout", h.Logout)
	mux.HandleFunc("GET /api/auth/status", h.Status)
	mux.HandleFunc("GET /auth/sso/login", h.SSOLogin)
	mux.HandleFunc("GET /auth/sso/callback", h.SSOCallback)
}

func registerApplicationRoutes(mux *http.ServeMux, h *ApplicationHandlers, auth AuthServiceInterface) {
	requireAuth := RequireAuth(auth)
	csrf := CSRFProtection(auth)
	protect := func(hh http.HandlerFunc) http.Handler {
		return requireAuth(csrf(hh))
	}

	// Submission, one endpoint per track. Fine-grained role checks live in
	// the service, which knows the owner/track rules.
	mux.Handle("POST /api/training-center-applications", protect(h.SubmitTraining))
	mux.Handle("POST /api/testing-center-applications", protect(h.SubmitTesting))

	// Per-owner listings.
	mux.Handle("GET /api/training-center-applications/user/{userId}", requireAuth(http.HandlerFunc(h.ListByUser)))
	mux.Handle("GET /api/testing-center-applications/user/{userId}", requireAuth(http.HandlerFunc(h.ListByUser)))

	// Review decisions and resubmission.
	mux.Handle("PATCH /api/training-center-applications/{id}/status", protect(h.UpdateStatus))
	mux.Handle("PATCH /api/testing-center-applications/{id}/status", protect(h.UpdateStatus))
	mux.Handle("PATCH /api/training-center-applications/{id}", protect(h.Resubmit))
	mux.Handle("PATCH /api/testing-center-applications/{id}", protect(h.Resubmit))

	// Review queue and detail view. The queue is staff-only; detail access
	// for owners is decided in the service.
	mux.Handle("GET /api/applications", RequirePermission(auth, domainauth.PermViewAllApplications)(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/applications/{id}", requireAuth(http.HandlerFunc(h.GetByID)))
}

func registerCertificateRoutes(mux *http.ServeMux, h *CertificateHandlers) {
	mux.HandleFunc("GET /api/certificates/verify/{token}", h.Verify)
	mux.HandleFunc("GET /api/certificates/{id}", h.GetByID)
}
