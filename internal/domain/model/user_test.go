package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itimad/portal-api/internal/domain/auth"
)

func TestRegisterRequestValidate(t *testing.T) {
	valid := RegisterRequest{
		Email:    "manager@center.iq",
		Password: "s3cret-pass",
		FullName: "Sara Kareem",
		Role:     auth.RoleTrainingCenter,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*RegisterRequest)
		msg    string
	}{
		{"missing email", func(r *RegisterRequest) { r.Email = " " }, "email is required"},
		{"malformed email", func(r *RegisterRequest) { r.Email = "not-an-address" }, "valid address"},
		{"short password", func(r *RegisterRequest) { r.Password = "short" }, "at least 8"},
		{"long password", func(r *RegisterRequest) { r.Password = strings.Repeat("p", maxPasswordLen+1) }, "cannot exceed 72"},
		{"missing name", func(r *RegisterRequest) { r.FullName = "" }, "full_name is required"},
		{"admin not self-service", func(r *RegisterRequest) { r.Role = auth.RoleAdmin }, "role must be one of"},
		{"super admin not self-service", func(r *RegisterRequest) { r.Role = auth.RoleSuperAdmin }, "role must be one of"},
		{"unknown role", func(r *RegisterRequest) { r.Role = "auditor" }, "role must be one of"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := valid
			tc.mutate(&req)
			err := req.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestLoginRequestValidate(t *testing.T) {
	req := LoginRequest{Email: "u@example.org", Password: "pw"}
	require.NoError(t, req.Validate())

	req = LoginRequest{Password: "pw"}
	require.Error(t, req.Validate())

	req = LoginRequest{Email: "u@example.org"}
	require.Error(t, req.Validate())
}

func TestUserActive(t *testing.T) {
	u := &User{Status: UserActive}
	assert.True(t, u.Active())
	u.Status = UserSuspended
	assert.False(t, u.Active())
}
