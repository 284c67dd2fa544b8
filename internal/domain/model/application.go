//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxCenterNameLen  = 255
	maxManagerNameLen = 255
	maxCityLen        = 120
	maxReviewNotesLen = 2000
)

// ApplicationStatus is the stable internal enumeration for the review
// pipeline. Display labels (Arabic source strings included) live in the
// i18n bundles, never here.
type ApplicationStatus string

const (
	StatusSubmitted       ApplicationStatus = "submitted"
	StatusUnderReview     ApplicationStatus = "under_review"
	StatusFieldVisit      ApplicationStatus = "field_visit"
	StatusUnderEvaluation ApplicationStatus = "under_evaluation"
	StatusAccepted        ApplicationStatus = "accepted"
	StatusRejected        ApplicationStatus = "rejected"
)

// Valid reports whether the status is one of the closed set.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusSubmitted, StatusUnderReview, StatusFieldVisit,
		StatusUnderEvaluation, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether no further transition is permitted from the status.
func (s ApplicationStatus) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// statusTransitions encodes the legal review pipeline: forward-only, one
// step at a time, with rejection reachable from the three intermediate
// states. Terminal states have no outgoing edges.
var statusTransitions = map[ApplicationStatus][]ApplicationStatus{
	StatusSubmitted:       {StatusUnderReview},
	StatusUnderReview:     {StatusFieldVisit, StatusRejected},
	StatusFieldVisit:      {StatusUnderEvaluation, StatusRejected},
	StatusUnderEvaluation: {StatusAccepted, StatusRejected},
}

// CanTransitionTo reports whether target is directly reachable from s.
func (s ApplicationStatus) CanTransitionTo(target ApplicationStatus) bool {
	for _, next := range statusTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// ParseApplicationStatus normalizes a status string and reports whether it is supported.
func ParseApplicationStatus(value string) (ApplicationStatus, bool) {
	s := ApplicationStatus(strings.ToLower(strings.TrimSpace(value)))
	if s.Valid() {
		return s, true
	}
	return "", false
}

// CenterType distinguishes the two accreditation tracks.
type CenterType string

const (
	CenterTypeTraining CenterType = "training"
	CenterTypeTesting  CenterType = "testing"
)

// Valid reports whether the center type is supported.
func (t CenterType) Valid() bool {
	return t == CenterTypeTraining || t == CenterTypeTesting
}

// Application is a center's accreditation request. Applications are an audit
// record: they are mutated through the review pipeline but never deleted.
type Application struct {
	ID            string            `json:"id"                       db:"id"`
	CenterType    CenterType        `json:"center_type"              db:"center_type"`
	CenterName    string            `json:"center_name"              db:"center_name"`
	ManagerName   string            `json:"manager_name"             db:"manager_name"`
	City          string            `json:"city"                     db:"city"`
	UserID        string            `json:"user_id"                  db:"user_id"`
	Status        ApplicationStatus `json:"status"                   db:"status"`
	ReviewNotes   *string           `json:"review_notes,omitempty"   db:"review_notes"`
	ReviewedAt    *time.Time        `json:"reviewed_at,omitempty"    db:"reviewed_at"`
	ReviewedBy    *string           `json:"reviewed_by,omitempty"    db:"reviewed_by"`
	CertificateID *string           `json:"certificate_id,omitempty" db:"certificate_id"`
	SubmittedAt   time.Time         `json:"submitted_at"             db:"submitted_at"`
	CreatedAt     time.Time         `json:"created_at"               db:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"               db:"updated_at"`
}

// CreateApplicationRequest represents parameters to submit an Application.
type CreateApplicationRequest struct {
	CenterType  CenterType `json:"center_type"`
	CenterName  string     `json:"center_name"`
	ManagerName string     `json:"manager_name"`
	City        string     `json:"city"`
	UserID      string     `json:"-"` // taken from the session, never the body
}

// Validate validates CreateApplicationRequest.
func (r *CreateApplicationRequest) Validate() error {
	if !r.CenterType.Valid() {
		return errors.New("center_type must be one of: training, testing")
	}
	name := strings.TrimSpace(r.CenterName)
	if name == "" {
		return errors.New("center_name is required and cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxCenterNameLen {
		return errors.New("center_name cannot exceed 255 characters")
	}
	manager := strings.TrimSpace(r.ManagerName)
	if manager == "" {
		return errors.New("manager_name is required and cannot be empty")
	}
	if utf8.RuneCountInString(manager) > maxManagerNameLen {
		return errors.New("manager_name cannot exceed 255 characters")
	}
	city := strings.TrimSpace(r.City)
	if city == "" {
		return errors.New("city is required and cannot be empty")
	}
	if utf8.RuneCountInString(city) > maxCityLen {
		return errors.New("city cannot exceed 120 characters")
	}
	return nil
}

// UpdateStatusRequest carries an admin review decision.
type UpdateStatusRequest struct {
	Status      string  `json:"status"`
	ReviewNotes *string `json:"review_notes,omitempty"`
}

// Validate validates UpdateStatusRequest. Transition legality against the
// current status is the service's job; this only checks the request shape.
func (r *UpdateStatusRequest) Validate() error {
	if _, ok := ParseApplicationStatus(r.Status); !ok {
		return errors.New("status must be one of: submitted, under_review, field_visit, under_evaluation, accepted, rejected")
	}
	if r.ReviewNotes != nil && utf8.RuneCountInString(*r.ReviewNotes) > maxReviewNotesLen {
		return errors.New("review_notes cannot exceed 2000 characters")
	}
	return nil
}

// ResubmitRequest amends an application after the reviewer asked for changes.
// The wire format carries status "modified" as a request marker; it is not a
// stored status and the pipeline restarts at submitted.
type ResubmitRequest struct {
	CenterName  *string `json:"center_name,omitempty"`
	ManagerName *string `json:"manager_name,omitempty"`
	City        *string `json:"city,omitempty"`
	Status      string  `json:"status"`
}

// HasUpdates reports whether any amendable field is set.
func (r *ResubmitRequest) HasUpdates() bool {
	return r.CenterName != nil || r.ManagerName != nil || r.City != nil
}

// Validate validates ResubmitRequest.
func (r *ResubmitRequest) Validate() error {
	if !strings.EqualFold(strings.TrimSpace(r.Status), "modified") {
		return errors.New(`status must be one of: "modified"`)
	}
	if !r.HasUpdates() {
		return errors.New("at least one field must be updated")
	}
	if r.CenterName != nil {
		n := strings.TrimSpace(*r.CenterName)
		if n == "" {
			return errors.New("center_name cannot be empty")
		}
		if utf8.RuneCountInString(n) > maxCenterNameLen {
			return errors.New("center_name cannot exceed 255 characters")
		}
	}
	if r.ManagerName != nil {
		n := strings.TrimSpace(*r.ManagerName)
		if n == "" {
			return errors.New("manager_name cannot be empty")
		}
		if utf8.RuneCountInString(n) > maxManagerNameLen {
			return errors.New("manager_name cannot exceed 255 characters")
		}
	}
	if r.City != nil {
		c := strings.TrimSpace(*r.City)
		if c == "" {
			return errors.New("city cannot be empty")
		}
		if utf8.RuneCountInString(c) > maxCityLen {
			return errors.New("city cannot exceed 120 characters")
		}
	}
	return nil
}

// ApplicationsListOptions controls paging and filtering for the review queue.
// - Status and CenterType match exactly.
// - UserID restricts to a single owner's applications.
type ApplicationsListOptions struct {
	Limit      int
	Offset     int
	Status     *ApplicationStatus
	CenterType *CenterType
	UserID     *string
}
