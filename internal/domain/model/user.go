package model

import (
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/itimad/portal-api/internal/domain/auth"
)

const (
	maxEmailLen    = 254
	maxFullNameLen = 255
	minPasswordLen = 8
	maxPasswordLen = 72 // bcrypt input limit
)

// UserStatus is the account lifecycle state.
type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserSuspended UserStatus = "suspended"
)

// User is a portal account. PasswordHash is empty for SSO-provisioned staff.
type User struct {
	ID           string     `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	FullName     string     `json:"full_name" db:"full_name"`
	Role         auth.Role  `json:"role" db:"role"`
	Status       UserStatus `json:"status" db:"status"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// Active reports whether the account may authenticate.
func (u *User) Active() bool {
	return u.Status == UserActive
}

// RegisterRequest is the self-service signup payload. Staff roles are
// provisioned through SSO and cannot be registered here.
type RegisterRequest struct {
	Email        string    `json:"email"`
	Password     string    `json:"password"`
	FullName     string    `json:"full_name"`
	Role         auth.Role `json:"role"`
	CaptchaInput string    `json:"captcha_input"`
}

// Validate validates RegisterRequest.
func (r *RegisterRequest) Validate() error {
	email := strings.TrimSpace(r.Email)
	if email == "" {
		return errors.New("email is required and cannot be empty")
	}
	if len(email) > maxEmailLen {
		return errors.New("email cannot exceed 254 characters")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return errors.New("email must be a valid address")
	}
	if len(r.Password) < minPasswordLen {
		return errors.New("password must be at least 8 characters")
	}
	if len(r.Password) > maxPasswordLen {
		return errors.New("password cannot exceed 72 characters")
	}
	name := strings.TrimSpace(r.FullName)
	if name == "" {
		return errors.New("full_name is required and cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxFullNameLen {
		return errors.New("full_name cannot exceed 255 characters")
	}
	if !r.Role.Valid() || r.Role.IsStaff() {
		return errors.New("role must be one of: student, training_center, testing_center")
	}
	return nil
}

// LoginRequest is the password login payload.
type LoginRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	CaptchaInput string `json:"captcha_input"`
}

// Validate validates LoginRequest.
func (r *LoginRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return errors.New("email is required and cannot be empty")
	}
	if r.Password == "" {
		return errors.New("password is required and cannot be empty")
	}
	return nil
}
