package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/hrstack/staff-portal-api/internal/database"
	"github.com/hrstack/staff-portal-api/internal/models"
	"github.com/hrstack/staff-portal-api/internal/utils"
)

// GormManagerRepository is a GORM implementation of ManagerRepository
type GormManagerRepository struct {
	db *gorm.DB
}

// NewManagerRepository creates a new ManagerRepository
func NewManagerRepository(db *gorm.DB) ManagerRepository {
	return &GormManagerRepository{db: db}
}

func (r *GormManagerRepository) Create(manager *models.Manager) error {
	return r.db.Create(manager).Error
}

func (r *GormManagerRepository) Save(manager *models.Manager) error {
	return r.db.Save(manager).Error
}

func (r *GormManagerRepository) FindByID(id uint64) (*models.Manager, error) {
	var manager models.Manager
	if err := r.db.First(&manager, id).Error; err != nil {
		return nil, err
	}
	return &manager, nil
}

func (r *GormManagerRepository) FindByUsernameOrEmail(identifier string) (*models.Manager, error) {
	var manager models.Manager
	if err := r.db.Where("username = ? OR email = ?", identifier, identifier).First(&manager).Error; err != nil {
		return nil, err
	}
	return &manager, nil
}

func (r *GormManagerRepository) UsernameTaken(username string, excludeID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.Manager{}).
		Where("username = ? AND id <> ?", username, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *GormManagerRepository) EmailTaken(email string, excludeID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.Manager{}).
		Where("email = ? AND id <> ?", email, excludeID).
		Count(&count).Error
	return count > 0, err
}

// List returns managers newest-first with the total count.
func (r *GormManagerRepository) List(params utils.PaginationParams) ([]models.Manager, int64, error) {
	var managers []models.Manager
	var total int64

	if err := r.db.Model(&models.Manager{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Scopes(database.Paginate(params)).
		Order("created_at DESC").
		Find(&managers).Error
	if err != nil {
		return nil, 0, err
	}
	return managers, total, nil
}

func (r *GormManagerRepository) FindIdentityByID(id uint64) (models.Identity, error) {
	return r.FindByID(id)
}

func (r *GormManagerRepository) FindActiveIdentityByEmail(email string) (models.Identity, error) {
	var manager models.Manager
	if err := r.db.Where("email = ? AND is_active = ?", email, true).First(&manager).Error; err != nil {
		return nil, err
	}
	return &manager, nil
}

func (r *GormManagerRepository) FindIdentityByResetTokenHash(hash string) (models.Identity, error) {
	var manager models.Manager
	if err := r.db.Where("reset_token_hash = ?", hash).First(&manager).Error; err != nil {
		return nil, err
	}
	return &manager, nil
}

func (r *GormManagerRepository) SetResetToken(id uint64, tokenHash string, expiry time.Time) error {
	return r.db.Model(&models.Manager{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"reset_token_hash":   tokenHash,
			"reset_token_expiry": expiry,
		}).Error
}

func (r *GormManagerRepository) ClearResetToken(id uint64) error {
	return r.db.Model(&models.Manager{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"reset_token_hash":   "",
			"reset_token_expiry": nil,
		}).Error
}

func (r *GormManagerRepository) ConsumeResetToken(tokenHash, newPasswordHash string) (bool, error) {
	res := r.db.Model(&models.Manager{}).
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
