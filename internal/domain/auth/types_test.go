package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleStudent, RoleTrainingCenter, RoleTestingCenter, RoleAdmin, RoleSuperAdmin} {
		assert.True(t, r.Valid(), "role %q should be valid", r)
	}
	assert.False(t, Role("moderator").Valid())
	assert.False(t, Role("").Valid())
}

func TestRolePermissions(t *testing.T) {
	assert.True(t, RoleTrainingCenter.Can(PermSubmitApplication))
	assert.True(t, RoleTestingCenter.Can(PermSubmitApplication))
	assert.False(t, RoleStudent.Can(PermSubmitApplication))

	assert.True(t, RoleAdmin.Can(PermReviewApplication))
	assert.True(t, RoleSuperAdmin.Can(PermReviewApplication))
	assert.False(t, RoleTrainingCenter.Can(PermReviewApplication))

	// Only super admins manage users.
	assert.True(t, RoleSuperAdmin.Can(PermManageUsers))
	assert.False(t, RoleAdmin.Can(PermManageUsers))
}

func TestRoleClassification(t *testing.T) {
	assert.True(t, RoleTrainingCenter.IsCenter())
	assert.True(t, RoleTestingCenter.IsCenter())
	assert.False(t, RoleAdmin.IsCenter())

	assert.True(t, RoleAdmin.IsStaff())
	assert.True(t, RoleSuperAdmin.IsStaff())
	assert.False(t, RoleStudent.IsStaff())
}

func TestCaptchaChallengeMatches(t *testing.T) {
	now := time.Now()
	ch := CaptchaChallenge{
		Answer:       "AB12",
		CreatedAt:    now,
		ExpiresAt:    now.Add(3 * time.Minute),
		AttemptsLeft: 5,
	}

	assert.True(t, ch.Matches("AB12", now))
	assert.True(t, ch.Matches("ab12", now), "comparison must be case-insensitive")
	assert.True(t, ch.Matches("  ab12  ", now), "input is trimmed before comparison")
	assert.False(t, ch.Matches("ab13", now))

	// Correct answer after expiry still fails.
	assert.False(t, ch.Matches("AB12", now.Add(4*time.Minute)))
}

func TestSessionAuthenticated(t *testing.T) {
	assert.False(t, Session{ID: "s1"}.Authenticated())
	assert.True(t, Session{ID: "s1", UserID: "u1"}.Authenticated())
}
