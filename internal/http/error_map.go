package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/itimad/portal-api/internal/errors"
)

// statusForCode maps the application error taxonomy onto HTTP statuses.
// Anything unmapped is an internal failure.
func statusForCode(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeAuthRequired:
		return http.StatusUnauthorized
	case apperrors.ErrCodePermissionDenied:
		return http.StatusForbidden
	case apperrors.ErrCodeValidation, apperrors.ErrCodeInvalidTransition, apperrors.ErrCodeForeignKey:
		return http.StatusBadRequest
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeConflict:
		return http.StatusConflict
	case apperrors.ErrCodeExpiredChallenge:
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}

// WriteAppError writes err as the structured error payload `{error, message}`
// (plus `field` for field-level validation errors). Errors outside the
// taxonomy are logged with their cause and surface as an opaque 500; internal
// details never reach the client.
func WriteAppError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if status := statusForCode(appErr.Code); status != http.StatusInternalServerError {
			payload := map[string]string{
				"error":   string(appErr.Code),
				"message": appErr.Message,
			}
			if appErr.Field != "" {
				payload["field"] = appErr.Field
			}
			WriteJSON(w, status, payload)
			return
		}
	}

	if logger == nil {
		logger = slog.Default()
	}
	logger.Error("request failed", slog.Any("error", err))
	WriteError(w, ErrorParams{
		Code:    http.StatusInternalServerError,
		ErrCode: string(apperrors.ErrCodeInternal),
		Err:     errors.New("internal server error"),
	})
}
