package httpx

import (
	"crypto/subtle"
	"errors"
	"net/http"
)

// CSRFHeaderName is the request header carrying the session-scoped CSRF token.
const CSRFHeaderName = "X-CSRF-Token"

// CSRFProtection returns a middleware validating the session-scoped CSRF
// token on state-changing requests. The expected token lives on the
// server-side session record (issued alongside the CAPTCHA challenge or at
// login), never in process-wide state; the client echoes it back in the
// X-CSRF-Token header. Comparison is constant-time.
//
// GET, HEAD, OPTIONS, and TRACE requests are exempt from CSRF validation.
func CSRFProtection(authSvc AuthServiceInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !requiresCSRFValidation(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			session := getSessionFromRequest(r, authSvc)
			if session == nil || session.CSRFToken == "" {
				writeCSRFFailed(w, errors.New("no session token to validate against"))
				return
			}

			header := r.Header.Get(CSRFHeaderName)
			if header == "" || subtle.ConstantTimeCompare([]byte(header), []byte(session.CSRFToken)) != 1 {
				writeCSRFFailed(w, errors.New("CSRF token validation failed"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// requiresCSRFValidation returns true if the HTTP method requires CSRF validation.
// Safe methods (GET, HEAD, OPTIONS, TRACE) are exempt.
func requiresCSRFValidation(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return false
	default:
		return true
	}
}

func writeCSRFFailed(w http.ResponseWriter, err error) {
	WriteError(w, ErrorParams{
		Code:    http.StatusForbidden,
		ErrCode: "csrf_failed",
		Err:     err,
	})
}
