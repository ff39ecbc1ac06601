package ports

import (
	"context"

	"github.com/bistro/pos-system/internal/core/domain"
)

// EmployeeRepository persists employees.
type EmployeeRepository interface {
	Create(ctx context.Context, e *domain.Employee) error
	FindByID(ctx context.Context, id string) (*domain.Employee, error)
	List(ctx context.Context) ([]*domain.Employee, error)
	Update(ctx context.Context, e *domain.Employee) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// UpdateEmployeeInput carries optional employee changes; nil fields are
// left untouched.
type UpdateEmployeeInput struct {
	Name   *string
	Role   *string
	Active *bool
}

// EmployeeService defines the employees dashboard use cases. actorID is
// the authenticated manager performing the change.
type EmployeeService interface {
	List(ctx context.Context) ([]*domain.Employee, error)
	Get(ctx context.Context, id string) (*domain.Employee, error)
	Create(ctx context.Context, name, role, passcode string) (*domain.Employee, error)
	Update(ctx context.Context, actorID, id string, input UpdateEmployeeInput) (*domain.Employee, error)
	ResetPasscode(ctx context.Context, id, passcode string) error
	Delete(ctx context.Context, actorID, id string) error
}

// AuthService authenticates employees by passcode.
type AuthService interface {
	Login(ctx context.Context, employeeID, passcode string) (string, *domain.Employee, error)
}
