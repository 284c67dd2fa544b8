// Package mocks provides mock implementations for testing the portal services.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our repository interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockApplicationRepository(ctrl)
//	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(app, nil)
package mocks

// Generate mock for ApplicationRepository interface from internal/core package.
// This creates MockApplicationRepository with methods for all ApplicationRepository interface methods:
// Create, GetByID, ListByUser, ListWithOptions, UpdateStatus, Resubmit
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=application_repository_mock.go github.com/itimad/portal-api/internal/core ApplicationRepository

// Generate mock for UserRepository interface from internal/core package.
// This creates MockUserRepository with methods for all UserRepository interface methods:
// Create, GetByID, GetByEmail, UpsertStaff, SetStatus
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=user_repository_mock.go github.com/itimad/portal-api/internal/core UserRepository

// Generate mock for CertificateRepository interface from internal/core package.
// This creates MockCertificateRepository with methods for all CertificateRepository interface methods:
// Create, GetByID, GetBySerial, GetByApplicationID
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=certificate_repository_mock.go github.com/itimad/portal-api/internal/core CertificateRepository
