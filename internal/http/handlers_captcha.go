package httpx

import (
	"log/slog"
	"net/http"

	"github.com/itimad/portal-api/internal/service"
)

// CaptchaHandlers provides HTTP handlers for the session-bound CAPTCHA gate.
type CaptchaHandlers struct {
	Svc          *service.CaptchaService
	CookieDomain string
	Logger       *slog.Logger
}

func (h *CaptchaHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Issue handles GET /api/captcha: renders a fresh challenge bound to the
// visitor's session, minting the session (and its sid cookie) when absent.
// The answer stays on the server; only the obfuscated image leaves.
func (h *CaptchaHandlers) Issue(w http.ResponseWriter, r *http.Request) {
	sid := sessionIDFromRequest(r)

	result, err := h.Svc.Issue(r.Context(), sid)
	if err != nil {
		WriteAppError(w, h.logger(), err)
		return
	}

	if result.Session.ID != sid {
		setSessionCookie(w, r, h.CookieDomain, result.Session)
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"id":         result.ChallengeID,
		"image":      result.Image,
		"csrf_token": result.CSRFToken,
	})
}

type verifyCaptchaRequest struct {
	CaptchaInput string `json:"captcha_input"`
}

// Verify handles POST /api/verify-captcha. Wrong answers come back as
// success=false with 200; an expired challenge surfaces as 410.
func (h *CaptchaHandlers) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyCaptchaRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	ok, err := h.Svc.Validate(r.Context(), sessionIDFromRequest(r), req.CaptchaInput)
	if err != nil {
		WriteAppError(w, h.logger(), err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"success": ok})
}
