// Package testutil provides testing utilities and helpers for the portal.
package testutil

import (
	domainauth "github.com/itimad/portal-api/internal/domain/auth"
	"github.com/itimad/portal-api/internal/domain/model"
)

// ApplicationRequestBuilder provides a fluent interface for building
// CreateApplicationRequest objects for testing.
type ApplicationRequestBuilder struct {
	req *model.CreateApplicationRequest
}

// NewApplicationRequest creates a new ApplicationRequestBuilder with sensible defaults.
func NewApplicationRequest() *ApplicationRequestBuilder {
	return &ApplicationRequestBuilder{
		req: &model.CreateApplicationRequest{
			CenterType:  model.CenterTypeTraining,
			CenterName:  "Al-Rafidain Training Center",
			ManagerName: "Ali Hassan",
			City:        "Baghdad",
		},
	}
}

// WithCenterType sets the center type.
func (b *ApplicationRequestBuilder) WithCenterType(t model.CenterType) *ApplicationRequestBuilder {
	b.req.CenterType = t
	return b
}

// WithCenterName sets the center name.
func (b *ApplicationRequestBuilder) WithCenterName(name string) *ApplicationRequestBuilder {
	b.req.CenterName = name
	return b
}

// WithManagerName sets the manager name.
func (b *ApplicationRequestBuilder) WithManagerName(name string) *ApplicationRequestBuilder {
	b.req.ManagerName = name
	return b
}

// WithCity sets the city.
func (b *ApplicationRequestBuilder) WithCity(city string) *ApplicationRequestBuilder {
	b.req.City = city
	return b
}

// WithUserID sets the owning user.
func (b *ApplicationRequestBuilder) WithUserID(id string) *ApplicationRequestBuilder {
	b.req.UserID = id
	return b
}

// Build returns the constructed CreateApplicationRequest.
func (b *ApplicationRequestBuilder) Build() *model.CreateApplicationRequest {
	return b.req
}

// Common test request presets

// TrainingCenterApplication creates a training-center application request.
func TrainingCenterApplication(userID string) *model.CreateApplicationRequest {
	return NewApplicationRequest().
		WithCenterType(model.CenterTypeTraining).
		WithUserID(userID).
		Build()
}

// TestingCenterApplication creates a testing-center application request.
func TestingCenterApplication(userID string) *model.CreateApplicationRequest {
	return NewApplicationRequest().
		WithCenterType(model.CenterTypeTesting).
		WithCenterName("Basra Testing Center").
		WithCity("Basra").
		WithUserID(userID).
		Build()
}

// RegisterRequestFor creates a valid signup payload for the given role.
func RegisterRequestFor(role domainauth.Role, email string) *model.RegisterRequest {
	return &model.RegisterRequest{
		Email:    email,
		Password: "correct-horse-battery",
		FullName: "Test Account",
		Role:     role,
	}
}
