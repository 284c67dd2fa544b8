package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"

	"github.com/itimad/portal-api/internal/domain/model"
	"github.com/itimad/portal-api/internal/i18n"
	"github.com/itimad/portal-api/internal/service"
)

const (
	defaultApplicationsLimit = 50  // Default page size for application listings
	maxApplicationsLimit     = 100 // Maximum applications returned in one call
)

// ApplicationHandlers provides HTTP handlers for accreditation applications:
// submission, listing, the localized detail view, review transitions, and
// resubmission.
type ApplicationHandlers struct {
	Svc        *service.ApplicationService
	Translator *i18n.Translator
	Logger     *slog.Logger
}

func (h *ApplicationHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// SubmitTraining handles POST /api/training-center-applications.
func (h *ApplicationHandlers) SubmitTraining(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, model.CenterTypeTraining)
}

// SubmitTesting handles POST /api/testing-center-applications.
func (h *ApplicationHandlers) SubmitTesting(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, model.CenterTypeTesting)
}

func (h *ApplicationHandlers) submit(w http.ResponseWriter, r *http.Request, t model.CenterType) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		writeAuthRequired(w)
		return
	}

	var req model.CreateApplicationRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	// The path names the track; the body cannot override it.
	req.CenterType = t

	app, err := h.Svc.Submit(r.Context(), actor, &req)
	if err != nil {
		WriteAppError(w, h.logger(), err)
		return
	}

	WriteJSON(w, http.StatusCreated, app)
}

// ListByUser handles GET /api/{track}-center-applications/user/{userId}:
// a single owner's applications, visible to the owner and to staff.
func (h *ApplicationHandlers) ListByUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		writeAuthRequired(w)
		return
	}

	userID := r.PathValue("userId")
	if userID == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("user id is required")},
		)
		return
	}

	limit, offset := ParseLimitOffset(r, defaultApplicationsLimit, maxApplicationsLimit)
	apps, err := h.Svc.ListByUser(r.Context(), actor, userID, limit, offset)
	if err != nil {
		WriteAppError(w, h.logger(), err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"applications": apps,
		"limit":        limit,
		"offset":       offset,
	})
}

// List handles GET /api/applications — the admin review queue, filterable by
// status and center type.
func (h *ApplicationHandlers) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		writeAuthRequired(w)
		return
	}

	limit, offset := ParseLimitOffset(r, defaultApplicationsLimit, maxApplicationsLimit)
	opts := model.ApplicationsListOptions{Limit: limit, Offset: offset}

	if v := r.URL.Query().Get("status"); v != "" {
		status, valid := model.ParseApplicationStatus(v)
		if !valid {
			WriteError(
				w,
				ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation", Err: errors.New("unknown status filter")},
			)
			return
		}
		opts.Status = &status
	}
	if v := r.URL.Query().Get("center_type"); v != "" {
		centerType := model.CenterType(v)
		if !centerType.Valid() {
			WriteError(
				w,
				ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation", Err: errors.New("unknown center_type filter")},
			)
			return
		}
		opts.CenterType = &centerType
	}

	apps, err := h.Svc.List(r.Context(), actor, opts)
	if err != nil {
		WriteAppError(w, h.logger(), err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"applications": apps,
		"limit":        limit,
		"offset":       offset,
	})
}

// GetByID handles GET /api/applications/{id}: the application detail with the
// 5-step progress projection, labels localized per request language.
func (h *ApplicationHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		writeAuthRequired(w)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("application id is required")},
		)
		return
	}

	app, err := h.Svc.GetByID(r.Context(), actor, id)
	if err != nil {
		WriteAppError(w, h.logger(), err)
		return
	}

	loc := h.localizer(r)
	steps := model.ProgressSteps(app.Status)
	for i := range steps {
		steps[i].Title = i18n.T(loc, steps[i].Title)
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"application":    app,
		"status_label":   i18n.T(loc, "status."+string(app.Status)),
		"progress_steps": steps,
	})
}

// UpdateStatus handles PATCH /api/{track}-center-applications/{id}/status:
// an admin review decision moving the application along the pipeline.
func (h *ApplicationHandlers) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		writeAuthRequired(w)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("application id is required")},
		)
		return
	}

	var req model.UpdateStatusRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	app, err := h.Svc.Transition(r.Context(), actor, id, req)
	if err != nil {
		WriteAppError(w, h.logger(), err)
		return
	}

	WriteJSON(w, http.StatusOK, app)
}

// Resubmit handles PATCH /api/{track}-center-applications/{id}: the
// status:"modified" path where the owner amends fields and the pipeline
// restarts at submitted.
func (h *ApplicationHandlers) Resubmit(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		writeAuthRequired(w)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("application id is required")},
		)
		return
	}

	var req model.ResubmitRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	app, err := h.Svc.Resubmit(r.Context(), actor, id, req)
	if err != nil {
		WriteAppError(w, h.logger(), err)
		return
	}

	WriteJSON(w, http.StatusOK, app)
}

// localizer builds the request's language preference chain: an explicit
// ?lang= wins over Accept-Language; Arabic is always the final fallback.
func (h *ApplicationHandlers) localizer(r *http.Request) *goi18n.Localizer {
	langs := make([]string, 0, 2)
	if v := r.URL.Query().Get("lang"); v != "" {
		langs = append(langs, v)
	}
	if v := r.Header.Get("Accept-Language"); v != "" {
		langs = append(langs, v)
	}
	return h.Translator.Localizer(langs...)
}
