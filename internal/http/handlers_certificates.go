package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/itimad/portal-api/internal/service"
)

// CertificateHandlers provides HTTP handlers for issued certificates. Both
// endpoints are public: a certificate holder shares its ID or verification
// token with third parties.
type CertificateHandlers struct {
	Svc    *service.CertificateService
	Logger *slog.Logger
}

func (h *CertificateHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// GetByID handles GET /api/certificates/{id}.
func (h *CertificateHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("certificate id is required")},
		)
		return
	}

	cert, err := h.Svc.GetByID(r.Context(), id)
	if err != nil {
		WriteAppError(w, h.logger(), err)
		return
	}

	WriteJSON(w, http.StatusOK, cert)
}

// Verify handles GET /api/certificates/verify/{token}: checks the signed
// verification token and returns the certificate it was minted for.
func (h *CertificateHandlers) Verify(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	if token == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("verification token is required")},
		)
		return
	}

	cert, err := h.Svc.Verify(r.Context(), token)
	if err != nil {
		WriteAppError(w, h.logger(), err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"valid":       true,
		"certificate": cert,
	})
}
