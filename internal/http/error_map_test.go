package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/itimad/portal-api/internal/errors"
)

func TestStatusForCode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code apperrors.ErrorCode
		want int
	}{
		{apperrors.ErrCodeAuthRequired, http.StatusUnauthorized},
		{apperrors.ErrCodePermissionDenied, http.StatusForbidden},
		{apperrors.ErrCodeValidation, http.StatusBadRequest},
		{apperrors.ErrCodeInvalidTransition, http.StatusBadRequest},
		{apperrors.ErrCodeForeignKey, http.StatusBadRequest},
		{apperrors.ErrCodeNotFound, http.StatusNotFound},
		{apperrors.ErrCodeConflict, http.StatusConflict},
		{apperrors.ErrCodeExpiredChallenge, http.StatusGone},
		{apperrors.ErrCodeInternal, http.StatusInternalServerError},
		{apperrors.ErrCodeTimeout, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusForCode(tc.code), string(tc.code))
	}
}

func TestWriteAppError_FieldError(t *testing.T) {
	t.Parallel()
	w := httptest.NewRecorder()

	WriteAppError(w, nil, apperrors.ValidationField("captcha_input", "captcha verification failed"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "validation", body["error"])
	assert.Equal(t, "captcha verification failed", body["message"])
	assert.Equal(t, "captcha_input", body["field"])
}

func TestWriteAppError_WrappedTransition(t *testing.T) {
	t.Parallel()
	w := httptest.NewRecorder()

	err := apperrors.InvalidTransition("submitted", "accepted")
	WriteAppError(w, nil, errors.Join(err))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_transition")
}

func TestWriteAppError_InternalIsOpaque(t *testing.T) {
	t.Parallel()
	w := httptest.NewRecorder()
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	WriteAppError(w, logger, errors.New("pgx: connection refused to 10.0.0.4:5432"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.4")
	assert.Contains(t, w.Body.String(), "internal")
	// The cause goes to the log, not the client.
	assert.Contains(t, logs.String(), "connection refused")
}

func TestWriteAppError_NilLoggerFallsBack(t *testing.T) {
	w := httptest.NewRecorder()
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer slog.SetDefault(prev)

	WriteAppError(w, nil, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
