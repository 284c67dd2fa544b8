package data

import (
	"errors"

	"github.com/itimad/portal-api/internal/ports"
)

// Shared sentinel errors for data-layer repositories.
var (
	// Application repository sentinels.
	ErrApplicationNotFound = errors.New("application not found")

	// User repository sentinels.
	ErrUserNotFound    = errors.New("user not found")
	ErrUserEmailExists = errors.New("user email already exists")

	// Certificate repository sentinels.
	ErrCertificateNotFound = errors.New("certificate not found")

	// Session repository sentinel, shared across session backends.
	ErrSessionNotFound = ports.ErrSessionNotFound
)
