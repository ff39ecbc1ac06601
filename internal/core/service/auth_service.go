package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/bistro/pos-system/internal/core/domain"
	"github.com/bistro/pos-system/internal/core/ports"
)

const bootstrapManagerName = "admin"

// AuthService implements passcode login for employees.
type AuthService struct {
	repo      ports.EmployeeRepository
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

func NewAuthService(repo ports.EmployeeRepository, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 12 * time.Hour
	}
	return &AuthService{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL, logger: logger}
}

// Login checks the passcode against the employee's bcrypt hash and returns
// a signed session token.
func (s *AuthService) Login(ctx context.Context, employeeID, passcode string) (string, *domain.Employee, error) {
	if employeeID == "" || passcode == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	emp, err := s.repo.FindByID(ctx, employeeID)
	if err != nil {
		return "", nil, err
	}
	// Account status is only revealed to callers who know the passcode.
	if bcrypt.CompareHashAndPassword([]byte(emp.PasscodeHash), []byte(passcode)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}
	if !emp.Active {
		return "", nil, domain.ErrEmployeeInactive
	}

	token, err := s.generateToken(emp)
	if err != nil {
		return "", nil, err
	}
	s.logger.Info().Str("employee_id", emp.ID).Str("role", emp.Role).Msg("employee logged in")
	return token, emp, nil
}

// Bootstrap creates the first manager when no employees exist yet.
// It does nothing when passcode is empty or employees are already present.
func (s *AuthService) Bootstrap(ctx context.Context, passcode string) (*domain.Employee, error) {
	if passcode == "" {
		return nil, nil
	}
	n, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, nil
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
		Name:         bootstrapManagerName,
		Role:         domain.RoleManager,
		PasscodeHash: hash,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, emp); err != nil {
		return nil, err
	}
	s.logger.Warn().Str("employee_id", emp.ID).Msg("bootstrap manager created, change its passcode")
	return emp, nil
}

func (s *AuthService) generateToken(emp *domain.Employee) (string, error) {
	claims := jwt.MapClaims{
		"sub":  emp.ID,
		"name": emp.Name,
		"role": emp.Role,
		"exp":  time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func hashPasscode(passcode string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
