package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/hrstack/staff-portal-api/internal/mail"
	"github.com/hrstack/staff-portal-api/internal/models"
	"github.com/hrstack/staff-portal-api/internal/repository"
	"github.com/hrstack/staff-portal-api/internal/utils"
)

var (
	ErrManagerNotFound  = errors.New("manager not found")
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrManagerInvalid   = errors.New("invalid or inactive manager")
)

// AccountService owns the account-management operations the upper tiers run
// against the tier below: creation, field updates, status toggles, listings
// and dashboard aggregation.
type AccountService struct {
	stores    repository.Stores
	mailer    mail.Mailer
	portalURL string
	log       zerolog.Logger
}

// NewAccountService creates a new AccountService.
func NewAccountService(stores repository.Stores, mailer mail.Mailer, portalURL string, log zerolog.Logger) *AccountService {
	return &AccountService{
		stores:    stores,
		mailer:    mailer,
		portalURL: portalURL,
		log:       log,
	}
}

// CreateManagerInput represents the fields for admin-driven manager creation.
type CreateManagerInput struct {
	Username   string
	Email      string
	FirstName  string
	LastName   string
	Phone      string
	Department string
	Password   string
	Image      string
}

// CreateManager creates a manager account on behalf of an admin and sends
// the welcome email carrying the initial password. Mail failure does not
// fail the creation; it is logged and the account stands.
func (s *AccountService) CreateManager(adminID uint64, input CreateManagerInput) (*models.Manager, error) {
	username := strings.TrimSpace(input.Username)
	if err := validateCredentials(username, input.Password); err != nil {
		return nil, err
	}
	email := normalizeEmail(input.Email)

	if err := checkUnique(s.stores.Managers, username, email, 0); err != nil {
		return nil, err
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	manager := &models.Manager{
		Account: models.Account{
			Username:     username,
			Email:        email,
			FirstName:    input.FirstName,
			LastName:     input.LastName,
			Phone:        input.Phone,
			Image:        input.Image,
			PasswordHash: hash,
		},
		Department: input.Department,
		IsActive:   true,
		CreatedBy:  adminID,
	}

	if err := s.stores.Managers.Create(manager); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create manager: %w", err)
	}

	s.sendWelcome(manager, input.Password)
	return manager, nil
}

// CreateEmployeeInput represents the fields for employee creation by a
// manager, or by an admin on a manager's behalf.
type CreateEmployeeInput struct {
	Username   string
	Email      string
	FirstName  string
	LastName   string
	Phone      string
	Department string
	Position   string
	Salary     float64
	Address    string
	Password   string
	Image      string
}

// CreateEmployee creates an employee under managerID. The manager must exist
// and be active at assignment time.
func (s *AccountService) CreateEmployee(creatorID, managerID uint64, input CreateEmployeeInput) (*models.Employee, error) {
	username := strings.TrimSpace(input.Username)
	if err := validateCredentials(username, input.Password); err != nil {
		return nil, err
	}
	email := normalizeEmail(input.Email)

	manager, err := s.stores.Managers.FindByID(managerID)
	if err != nil || !manager.IsActive {
		return nil, ErrManagerInvalid
	}

	if err := checkUnique(s.stores.Employees, username, email, 0); err != nil {
		return nil, err
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	employee := &models.Employee{
		Account: models.Account{
			Username:     username,
			Email:        email,
			FirstName:    input.FirstName,
			LastName:     input.LastName,
			Phone:        input.Phone,
			Image:        input.Image,
			PasswordHash: hash,
		},
		Department: input.Department,
		Position:   input.Position,
		Salary:     input.Salary,
		Address:    input.Address,
		IsActive:   true,
		CreatedBy:  creatorID,
		ManagerID:  managerID,
	}

	if err := s.stores.Employees.Create(employee); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}

	s.sendWelcome(employee, input.Password)
	return employee, nil
}

func (s *AccountService) sendWelcome(identity models.Identity, password string) {
	subject, body := mail.WelcomeMessage(identity, password, s.portalURL)
	if err := s.mailer.Send(identity.GetEmail(), subject, body); err != nil {
		s.log.Error().Err(err).
			Str("role", string(identity.GetRole())).
			Uint64("id", identity.GetID()).
			Msg("welcome email failed")
	}
}

// UpdateProfileInput holds the mutable common fields. Nil pointers leave a
// field unchanged; Image is replaced only when non-empty.
type UpdateProfileInput struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Phone     *string
	Image     string
}

// UpdateManagerInput extends the common profile fields with manager ones.
type UpdateManagerInput struct {
	UpdateProfileInput
	Department *string
}

// UpdateEmployeeInput extends the common profile fields with employee ones.
// ManagerID reassigns the employee to another manager (admin path only).
type UpdateEmployeeInput struct {
	UpdateProfileInput
	Department *string
	Position   *string
	Salary     *float64
	Address    *string
	ManagerID  *uint64
}

// UpdateAdminProfile applies a partial update to an admin's own record.
func (s *AccountService) UpdateAdminProfile(id uint64, input UpdateProfileInput) (*models.Admin, error) {
	admin, err := s.stores.Admins.FindByID(id)
	if err != nil {
		return nil, identityLookupError(err)
	}

	if err := s.applyAccountUpdate(&admin.Account, input, s.stores.Admins); err != nil {
		return nil, err
	}

	if err := s.stores.Admins.Save(admin); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to save admin: %w", err)
	}
	return admin, nil
}

// UpdateManager applies a partial update to a manager record. Used both for
// a manager's own profile and for admin-driven edits.
func (s *AccountService) UpdateManager(id uint64, input UpdateManagerInput) (*models.Manager, error) {
	manager, err := s.stores.Managers.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrManagerNotFound
		}
		return nil, fmt.Errorf("failed to find manager: %w", err)
	}

	if err := s.applyAccountUpdate(&manager.Account, input.UpdateProfileInput, s.stores.Managers); err != nil {
		return nil, err
	}
	if input.Department != nil {
		manager.Department = *input.Department
	}

	if err := s.stores.Managers.Save(manager); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to save manager: %w", err)
	}
	return manager, nil
}

// UpdateEmployee applies a partial update to an employee record. When
// scopeManagerID is non-nil the lookup is restricted to that manager's
// employees; an out-of-scope target reads as not found. Scope is re-checked
// here, at operation time, not just at authentication.
func (s *AccountService) UpdateEmployee(id uint64, scopeManagerID *uint64, input UpdateEmployeeInput) (*models.Employee, error) {
	employee, err := s.findEmployeeScoped(id, scopeManagerID)
	if err != nil {
		return nil, err
	}

	if err := s.applyAccountUpdate(&employee.Account, input.UpdateProfileInput, s.stores.Employees); err != nil {
		return nil, err
	}
	if input.Department != nil {
		employee.Department = *input.Department
	}
	if input.Position != nil {
		employee.Position = *input.Position
	}
	if input.Salary != nil {
		employee.Salary = *input.Salary
	}
	if input.Address != nil {
		employee.Address = *input.Address
	}
	if input.ManagerID != nil && *input.ManagerID != employee.ManagerID {
		manager, err := s.stores.Managers.FindByID(*input.ManagerID)
		if err != nil || !manager.IsActive {
			return nil, ErrManagerInvalid
		}
		employee.ManagerID = *input.ManagerID
	}

	if err := s.stores.Employees.Save(employee); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to save employee: %w", err)
	}
	return employee, nil
}

func (s *AccountService) applyAccountUpdate(account *models.Account, input UpdateProfileInput, repo uniquenessChecker) error {
	newUsername := ""
	if input.Username != nil && strings.TrimSpace(*input.Username) != account.Username {
		newUsername = strings.TrimSpace(*input.Username)
	}
	newEmail := ""
	if input.Email != nil && normalizeEmail(*input.Email) != account.Email {
		newEmail = normalizeEmail(*input.Email)
	}

	if err := checkUnique(repo, newUsername, newEmail, account.ID); err != nil {
		return err
	}

	if newUsername != "" {
		account.Username = newUsername
	}
	if newEmail != "" {
		account.Email = newEmail
	}
	if input.FirstName != nil {
		account.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		account.LastName = *input.LastName
	}
	if input.Phone != nil {
		account.Phone = *input.Phone
	}
	if input.Image != "" {
		account.Image = input.Image
	}
	return nil
}

// ToggleManagerStatus flips a manager's active flag. Deactivation is the
// terminal state; there is no hard delete.
func (s *AccountService) ToggleManagerStatus(id uint64) (*models.Manager, error) {
	manager, err := s.stores.Managers.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrManagerNotFound
		}
		return nil, fmt.Errorf("failed to find manager: %w", err)
	}

	manager.IsActive = !manager.IsActive
	if err := s.stores.Managers.Save(manager); err != nil {
		return nil, fmt.Errorf("failed to save manager: %w", err)
	}
	return manager, nil
}

// ToggleEmployeeStatus flips an employee's active flag, re-verifying scope at
// operation time when scopeManagerID is set.
func (s *AccountService) ToggleEmployeeStatus(id uint64, scopeManagerID *uint64) (*models.Employee, error) {
	employee, err := s.findEmployeeScoped(id, scopeManagerID)
	if err != nil {
		return nil, err
	}

	employee.IsActive = !employee.IsActive
	if err := s.stores.Employees.Save(employee); err != nil {
		return nil, fmt.Errorf("failed to save employee: %w", err)
	}
	return employee, nil
}

func (s *AccountService) findEmployeeScoped(id uint64, scopeManagerID *uint64) (*models.Employee, error) {
	var employee *models.Employee
	var err error
	if scopeManagerID != nil {
		employee, err = s.stores.Employees.FindByIDAndManager(id, *scopeManagerID)
	} else {
		employee, err = s.stores.Employees.FindByID(id)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to find employee: %w", err)
	}
	return employee, nil
}

// ListManagers returns managers newest-first.
func (s *AccountService) ListManagers(params utils.PaginationParams) ([]models.Manager, int64, error) {
	return s.stores.Managers.List(params)
}

// ListEmployees returns all employees (admin view).
func (s *AccountService) ListEmployees(params utils.PaginationParams) ([]models.Employee, int64, error) {
	return s.stores.Employees.List(params)
}

// ListEmployeesByManager returns one manager's employees.
func (s *AccountService) ListEmployeesByManager(managerID uint64, params utils.PaginationParams) ([]models.Employee, int64, error) {
	return s.stores.Employees.ListByManager(managerID, params)
}

// ManagerStats counts a manager's employees by activity.
func (s *AccountService) ManagerStats(managerID uint64) (total, active int64, err error) {
	return s.stores.Employees.CountByManager(managerID)
}

// EmployeeWithManager loads an employee with its owning-manager summary for
// the employee dashboard.
func (s *AccountService) EmployeeWithManager(id uint64) (*models.Employee, error) {
	employee, err := s.stores.Employees.FindByIDWithManager(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to find employee: %w", err)
	}
	return employee, nil
}
