package services

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/hrstack/staff-portal-api/internal/constants"
	"github.com/hrstack/staff-portal-api/internal/models"
	"github.com/hrstack/staff-portal-api/internal/repository"
)

var (
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrAccountInactive      = errors.New("account is inactive")
	ErrUsernameTaken        = errors.New("username already exists")
	ErrEmailTaken           = errors.New("email already exists")
	ErrUsernameTooShort     = errors.New("username too short")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrWrongPassword        = errors.New("current password is incorrect")
	ErrIdentityNotFound     = errors.New("account not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// hashPassword derives a salted bcrypt hash at the fixed cost (10 rounds).
func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", ErrFailedToHashPassword
	}
	return string(hashed), nil
}

// comparePassword reports whether the candidate matches the stored hash.
// A mismatch is a false, never an error.
func comparePassword(hash, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate)) == nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateCredentials(username, password string) error {
	if len(strings.TrimSpace(username)) < constants.MinUsernameLength {
		return ErrUsernameTooShort
	}
	if len(password) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// AuthService owns credential verification and password changes for all
// three tiers.
type AuthService struct {
	stores repository.Stores
	tokens *TokenService
}

// NewAuthService creates a new AuthService.
func NewAuthService(stores repository.Stores, tokens *TokenService) *AuthService {
	return &AuthService{
		stores: stores,
		tokens: tokens,
	}
}

// RegisterAdminInput represents the fields for self-service admin creation.
type RegisterAdminInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Phone     string
	Password  string
	Image     string
}

// RegisterAdmin creates an admin account. There is no elevation check: admin
// registration is open by design.
func (s *AuthService) RegisterAdmin(input RegisterAdminInput) (*models.Admin, string, error) {
	username := strings.TrimSpace(input.Username)
	if err := validateCredentials(username, input.Password); err != nil {
		return nil, "", err
	}
	email := normalizeEmail(input.Email)

	if err := checkUnique(s.stores.Admins, username, email, 0); err != nil {
		return nil, "", err
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, "", err
	}

	admin := &models.Admin{
		Account: models.Account{
			Username:     username,
			Email:        email,
			FirstName:    input.FirstName,
			LastName:     input.LastName,
			Phone:        input.Phone,
			Image:        input.Image,
			PasswordHash: hash,
		},
	}

	if err := s.stores.Admins.Create(admin); err != nil {
		// The unique index is the final authority; the pre-check above only
		// narrows the race window.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", ErrUsernameTaken
		}
		return nil, "", fmt.Errorf("failed to create admin: %w", err)
	}

	token, err := s.tokens.Issue(admin)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return admin, token, nil
}

// LoginAdmin verifies admin credentials and returns the identity plus a
// bearer token.
func (s *AuthService) LoginAdmin(identifier, password string) (*models.Admin, string, error) {
	admin, err := s.stores.Admins.FindByUsernameOrEmail(strings.TrimSpace(identifier))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find admin: %w", err)
	}

	if !comparePassword(admin.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(admin)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return admin, token, nil
}

// LoginManager verifies manager credentials. Deactivated managers cannot log
// in even with the correct password.
func (s *AuthService) LoginManager(identifier, password string) (*models.Manager, string, error) {
	manager, err := s.stores.Managers.FindByUsernameOrEmail(strings.TrimSpace(identifier))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find manager: %w", err)
	}

	if !manager.IsActive {
		return nil, "", ErrAccountInactive
	}
	if !comparePassword(manager.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(manager)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return manager, token, nil
}

// LoginEmployee verifies employee credentials with the same inactive rule.
func (s *AuthService) LoginEmployee(identifier, password string) (*models.Employee, string, error) {
	employee, err := s.stores.Employees.FindByUsernameOrEmail(strings.TrimSpace(identifier))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find employee: %w", err)
	}

	if !employee.IsActive {
		return nil, "", ErrAccountInactive
	}
	if !comparePassword(employee.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(employee)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return employee, token, nil
}

// ChangeAdminPassword replaces an admin's password after verifying the
// current one.
func (s *AuthService) ChangeAdminPassword(id uint64, currentPassword, newPassword string) error {
	admin, err := s.stores.Admins.FindByID(id)
	if err != nil {
		return identityLookupError(err)
	}
	hash, err := s.verifyAndHash(admin.PasswordHash, currentPassword, newPassword)
	if err != nil {
		return err
	}
	admin.PasswordHash = hash
	return s.stores.Admins.Save(admin)
}

// ChangeManagerPassword replaces a manager's password after verifying the
// current one.
func (s *AuthService) ChangeManagerPassword(id uint64, currentPassword, newPassword string) error {
	manager, err := s.stores.Managers.FindByID(id)
	if err != nil {
		return identityLookupError(err)
	}
	hash, err := s.verifyAndHash(manager.PasswordHash, currentPassword, newPassword)
	if err != nil {
		return err
	}
	manager.PasswordHash = hash
	return s.stores.Managers.Save(manager)
}

// ChangeEmployeePassword replaces an employee's password after verifying the
// current one.
func (s *AuthService) ChangeEmployeePassword(id uint64, currentPassword, newPassword string) error {
	employee, err := s.stores.Employees.FindByID(id)
	if err != nil {
		return identityLookupError(err)
	}
	hash, err := s.verifyAndHash(employee.PasswordHash, currentPassword, newPassword)
	if err != nil {
		return err
	}
	employee.PasswordHash = hash
	return s.stores.Employees.Save(employee)
}

func (s *AuthService) verifyAndHash(storedHash, currentPassword, newPassword string) (string, error) {
	if !comparePassword(storedHash, currentPassword) {
		return "", ErrWrongPassword
	}
	if len(newPassword) < constants.MinPasswordLength {
		return "", ErrPasswordTooShort
	}
	return hashPassword(newPassword)
}

func identityLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrIdentityNotFound
	}
	return fmt.Errorf("failed to find account: %w", err)
}

// uniquenessChecker is the slice of a repository needed for the optimistic
// username/email pre-check.
type uniquenessChecker interface {
	UsernameTaken(username string, excludeID uint64) (bool, error)
	EmailTaken(email string, excludeID uint64) (bool, error)
}

func checkUnique(repo uniquenessChecker, username, email string, excludeID uint64) error {
	if username != "" {
		taken, err := repo.UsernameTaken(username, excludeID)
		if err != nil {
			return fmt.Errorf("failed to check username: %w", err)
		}
		if taken {
			return ErrUsernameTaken
		}
	}
	if email != "" {
		taken, err := repo.EmailTaken(email, excludeID)
		if err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if taken {
			return ErrEmailTaken
		}
	}
	return nil
}
