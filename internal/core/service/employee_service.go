package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bistro/pos-system/internal/core/domain"
	"github.com/bistro/pos-system/internal/core/ports"
)

type EmployeeService struct {
	repo   ports.EmployeeRepository
	logger zerolog.Logger
}

func NewEmployeeService(repo ports.EmployeeRepository, logger zerolog.Logger) *EmployeeService {
	return &EmployeeService{repo: repo, logger: logger}
}

func (s *EmployeeService) List(ctx context.Context) ([]*domain.Employee, error) {
	return s.repo.List(ctx)
}

func (s *EmployeeService) Get(ctx context.Context, id string) (*domain.Employee, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *EmployeeService) Create(ctx context.Context, name, role, passcode string) (*domain.Employee, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidRole
	}
	if !domain.ValidPasscode(passcode) {
		return nil, domain.ErrInvalidPasscode
	}

	hash, err := hashPasscode(passcode)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	emp := &domain.Employee{
		ID:           uuid.NewString(),
		Name:         name,
		Role:         role,
		PasscodeHash: hash,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, emp); err != nil {
		return nil, err
	}
	s.logger.Info().Str("employee_id", emp.ID).Str("role", role).Msg("employee created")
	return emp, nil
}

// Update applies the non-nil fields of input. A manager cannot deactivate
// their own account.
func (s *EmployeeService) Update(ctx context.Context, actorID, id string, input ports.UpdateEmployeeInput) (*domain.Employee, error) {
	emp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		emp.Name = name
	}
	if input.Role != nil {
		if !domain.ValidRole(*input.Role) {
			return nil, domain.ErrInvalidRole
		}
		if actorID == id && *input.Role != emp.Role {
			return nil, domain.ErrSelfModification
		}
		emp.Role = *input.Role
	}
	if input.Active != nil {
		if actorID == id && !*input.Active {
			return nil, domain.ErrSelfModification
		}
		emp.Active = *input.Active
	}
	emp.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, emp); err != nil {
		return nil, err
	}
	s.logger.Info().Str("employee_id", id).Str("actor_id", actorID).Msg("employee updated")
	return emp, nil
}

func (s *EmployeeService) ResetPasscode(ctx context.Context, id, passcode string) error {
	if !domain.ValidPasscode(passcode) {
		return domain.ErrInvalidPasscode
	}
	emp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	hash, err := hashPasscode(passcode)
	if err != nil {
		return err
	}
	emp.PasscodeHash = hash
	emp.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, emp); err != nil {
		return err
	}
	s.logger.Info().Str("employee_id", id).Msg("passcode reset")
	return nil
}

func (s *EmployeeService) Delete(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return domain.ErrSelfModification
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("employee_id", id).Str("actor_id", actorID).Msg("employee deleted")
	return nil
}
