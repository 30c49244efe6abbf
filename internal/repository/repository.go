package repository

import (
	"time"

	"github.com/hrstack/staff-portal-api/internal/models"
	"github.com/hrstack/staff-portal-api/internal/utils"
)

// CredentialStore is the role-agnostic slice of a store the authentication
// gate and the password-reset flow operate through. Each role repository
// implements it against its own table.
type CredentialStore interface {
	// FindIdentityByID loads the identity for gate refetching.
	FindIdentityByID(id uint64) (models.Identity, error)

	// FindActiveIdentityByEmail looks up a login-eligible identity by
	// lowercased email.
	FindActiveIdentityByEmail(email string) (models.Identity, error)

	// FindIdentityByResetTokenHash finds the identity holding a pending
	// reset token, regardless of expiry.
	FindIdentityByResetTokenHash(hash string) (models.Identity, error)

	// SetResetToken opens a reset window.
	SetResetToken(id uint64, tokenHash string, expiry time.Time) error

	// ClearResetToken rolls back a pending reset window.
	ClearResetToken(id uint64) error

	// ConsumeResetToken atomically matches an unexpired token hash, replaces
	// the password hash and clears both reset fields in one UPDATE. Returns
	// false when no row matched (unknown or expired token).
	ConsumeResetToken(tokenHash, newPasswordHash string) (bool, error)
}

// AdminRepository is the credential store for the admin tier.
type AdminRepository interface {
	CredentialStore

	Create(admin *models.Admin) error
	Save(admin *models.Admin) error
	FindByID(id uint64) (*models.Admin, error)
	FindByUsernameOrEmail(identifier string) (*models.Admin, error)
	UsernameTaken(username string, excludeID uint64) (bool, error)
	EmailTaken(email string, excludeID uint64) (bool, error)
}

// ManagerRepository is the credential store for the manager tier.
type ManagerRepository interface {
	CredentialStore

	Create(manager *models.Manager) error
	Save(manager *models.Manager) error
	FindByID(id uint64) (*models.Manager, error)
	FindByUsernameOrEmail(identifier string) (*models.Manager, error)
	UsernameTaken(username string, excludeID uint64) (bool, error)
	EmailTaken(email string, excludeID uint64) (bool, error)
	List(params utils.PaginationParams) ([]models.Manager, int64, error)
}

// EmployeeRepository is the credential store for the employee tier. The
// manager-scoped queries are the authorization boundary: an employee outside
// the given manager's scope is indistinguishable from one that does not
// exist.
type EmployeeRepository interface {
	CredentialStore

	Create(employee *models.Employee) error
	Save(employee *models.Employee) error
	FindByID(id uint64) (*models.Employee, error)
	FindByIDWithManager(id uint64) (*models.Employee, error)
	FindByIDAndManager(id, managerID uint64) (*models.Employee, error)
	FindByUsernameOrEmail(identifier string) (*models.Employee, error)
	UsernameTaken(username string, excludeID uint64) (bool, error)
	EmailTaken(email string, excludeID uint64) (bool, error)
	List(params utils.PaginationParams) ([]models.Employee, int64, error)
	ListByManager(managerID uint64, params utils.PaginationParams) ([]models.Employee, int64, error)
	CountByManager(managerID uint64) (total int64, active int64, err error)
}

// Stores bundles the three per-role repositories so role-parameterized
// components (the gate, the reset flow) can dispatch on the discriminant.
type Stores struct {
	Admins    AdminRepository
	Managers  ManagerRepository
	Employees EmployeeRepository
}

// ByRole returns the credential store for a role.
func (s Stores) ByRole(role models.Role) (CredentialStore, bool) {
	switch role {
	case models.RoleAdmin:
		return s.Admins, true
	case models.RoleManager:
		return s.Managers, true
	case models.RoleEmployee:
		return s.Employees, true
	default:
		return nil, false
	}
}
