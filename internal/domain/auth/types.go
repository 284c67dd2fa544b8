package auth

// Package auth contains domain-level types for authentication, sessions, and
// the CAPTCHA gate. It is pure and free of framework/adapter concerns.

import (
	"strings"
	"time"
)

// Role represents a portal authorization role.
// Keep string form for easy persistence and cookies.
// Valid values are defined as constants below.
type Role string

const (
	RoleStudent        Role = "student"
	RoleTrainingCenter Role = "training_center"
	RoleTestingCenter  Role = "testing_center"
	RoleAdmin          Role = "admin"
	RoleSuperAdmin     Role = "super_admin"
)

// Valid reports whether the role is one of the closed set.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTrainingCenter, RoleTestingCenter, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// IsCenter reports whether the role belongs to a training or testing center.
func (r Role) IsCenter() bool {
	return r == RoleTrainingCenter || r == RoleTestingCenter
}

// IsStaff reports whether the role is an administrative one.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// Permission names an action a role may perform. Permission sets are static:
// the set for a role never changes at runtime.
type Permission string

const (
	PermSubmitApplication   Permission = "application:submit"
	PermViewOwnApplications Permission = "application:view_own"
	PermReviewApplication   Permission = "application:review"
	PermViewAllApplications Permission = "application:view_all"
	PermManageUsers         Permission = "user:manage"
	PermEnrollCourse        Permission = "course:enroll"
)

// rolePermissions is the static role -> allowed actions table consulted on
// every state-changing request.
var rolePermissions = map[Role][]Permission{
	RoleStudent:        {PermEnrollCourse},
	RoleTrainingCenter: {PermSubmitApplication, PermViewOwnApplications},
	RoleTestingCenter:  {PermSubmitApplication, PermViewOwnApplications},
	RoleAdmin:          {PermReviewApplication, PermViewAllApplications},
	RoleSuperAdmin:     {PermReviewApplication, PermViewAllApplications, PermManageUsers},
}

// Can reports whether the role holds the given permission.
func (r Role) Can(p Permission) bool {
	for _, held := range rolePermissions[r] {
		if held == p {
			return true
		}
	}
	return false
}

// Identity represents the authenticated principal returned by the staff IdP.
// Adapters map provider-specific claims into this shape.
type Identity struct {
	UserID    string
	FirstName string
	LastName  string
	Email     string
	Groups    []string
	ExpiresAt time.Time // absolute expiry from IdP token
}

// CaptchaChallenge is the pending challenge bound to a session.
// The answer never leaves the server.
type CaptchaChallenge struct {
	ID           string    `json:"id"`
	Answer       string    `json:"answer"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
	AttemptsLeft int       `json:"attempts_left"`
}

// Expired reports whether the challenge is past its expiry at the given time.
func (c CaptchaChallenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// Matches performs the case-insensitive answer comparison.
// An expired challenge never matches, regardless of correctness.
func (c CaptchaChallenge) Matches(input string, now time.Time) bool {
	if c.Expired(now) {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(input), c.Answer)
}

// Session is the server-side record correlated with the browser's sid cookie.
// ID is an opaque session identifier (random URL-safe string). A session may
// exist before login: the CAPTCHA gate needs somewhere to keep its challenge.
type Session struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id,omitempty"`
	Email     string            `json:"email,omitempty"`
	FullName  string            `json:"full_name,omitempty"`
	Role      Role              `json:"role,omitempty"`
	Captcha   *CaptchaChallenge `json:"captcha,omitempty"`
	CSRFToken string            `json:"csrf_token,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// Authenticated reports whether the session carries a logged-in user.
func (s Session) Authenticated() bool { return s.UserID != "" }
