package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/hrstack/staff-portal-api/internal/database"
	"github.com/hrstack/staff-portal-api/internal/models"
	"github.com/hrstack/staff-portal-api/internal/utils"
)

// GormEmployeeRepository is a GORM implementation of EmployeeRepository
type GormEmployeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository creates a new EmployeeRepository
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &GormEmployeeRepository{db: db}
}

func (r *GormEmployeeRepository) Create(employee *models.Employee) error {
	return r.db.Create(employee).Error
}

func (r *GormEmployeeRepository) Save(employee *models.Employee) error {
	return r.db.Save(employee).Error
}

func (r *GormEmployeeRepository) FindByID(id uint64) (*models.Employee, error) {
	var employee models.Employee
	if err := r.db.First(&employee, id).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *GormEmployeeRepository) FindByIDWithManager(id uint64) (*models.Employee, error) {
	var employee models.Employee
	if err := r.db.Preload("Manager").First(&employee, id).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

// FindByIDAndManager scopes the lookup to one manager's employees. A miss
// here does not say whether the record exists at all.
func (r *GormEmployeeRepository) FindByIDAndManager(id, managerID uint64) (*models.Employee, error) {
	var employee models.Employee
	if err := r.db.Where("id = ? AND manager_id = ?", id, managerID).First(&employee).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *GormEmployeeRepository) FindByUsernameOrEmail(identifier string) (*models.Employee, error) {
	var employee models.Employee
	if err := r.db.Where("username = ? OR email = ?", identifier, identifier).First(&employee).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *GormEmployeeRepository) UsernameTaken(username string, excludeID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.Employee{}).
		Where("username = ? AND id <> ?", username, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *GormEmployeeRepository) EmailTaken(email string, excludeID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.Employee{}).
		Where("email = ? AND id <> ?", email, excludeID).
		Count(&count).Error
	return count > 0, err
}

// List returns all employees newest-first with their manager summaries.
func (r *GormEmployeeRepository) List(params utils.PaginationParams) ([]models.Employee, int64, error) {
	var employees []models.Employee
	var total int64

	if err := r.db.Model(&models.Employee{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Scopes(database.Paginate(params)).
		Preload("Manager").
		Order("created_at DESC").
		Find(&employees).Error
	if err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}

// ListByManager returns one manager's employees newest-first.
func (r *GormEmployeeRepository) ListByManager(managerID uint64, params utils.PaginationParams) ([]models.Employee, int64, error) {
	var employees []models.Employee
	var total int64

	if err := r.db.Model(&models.Employee{}).
		Where("manager_id = ?", managerID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Scopes(database.Paginate(params)).
		Where("manager_id = ?", managerID).
		Order("created_at DESC").
		Find(&employees).Error
	if err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}

func (r *GormEmployeeRepository) CountByManager(managerID uint64) (int64, int64, error) {
	var total, active int64
	if err := r.db.Model(&models.Employee{}).
		Where("manager_id = ?", managerID).
		Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.Model(&models.Employee{}).
		Where("manager_id = ? AND is_active = ?", managerID, true).
		Count(&active).Error; err != nil {
		return 0, 0, err
	}
	return total, active, nil
}

func (r *GormEmployeeRepository) FindIdentityByID(id uint64) (models.Identity, error) {
	return r.FindByID(id)
}

func (r *GormEmployeeRepository) FindActiveIdentityByEmail(email string) (models.Identity, error) {
	var employee models.Employee
	if err := r.db.Where("email = ? AND is_active = ?", email, true).First(&employee).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *GormEmployeeRepository) FindIdentityByResetTokenHash(hash string) (models.Identity, error) {
	var employee models.Employee
	if err := r.db.Where("reset_token_hash = ?", hash).First(&employee).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *GormEmployeeRepository) SetResetToken(id uint64, tokenHash string, expiry time.Time) error {
	return r.db.Model(&models.Employee{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"reset_token_hash":   tokenHash,
			"reset_token_expiry": expiry,
		}).Error
}

func (r *GormEmployeeRepository) ClearResetToken(id uint64) error {
	return r.db.Model(&models.Employee{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"reset_token_hash":   "",
			"reset_token_expiry": nil,
		}).Error
}

func (r *GormEmployeeRepository) ConsumeResetToken(tokenHash, newPasswordHash string) (bool, error) {
	res := r.db.Model(&models.Employee{}).
		Where("reset_token_hash = ? AND reset_token_expiry > ?", tokenHash, time.Now()).
		Updates(map[string]interface{}{
			"password_hash":      newPasswordHash,
			"reset_token_hash":   "",
			"reset_token_expiry": nil,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
