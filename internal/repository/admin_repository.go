package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/hrstack/staff-portal-api/internal/models"
)

// GormAdminRepository is a GORM implementation of AdminRepository
type GormAdminRepository struct {
	db *gorm.DB
}

// NewAdminRepository creates a new AdminRepository
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &GormAdminRepository{db: db}
}

func (r *GormAdminRepository) Create(admin *models.Admin) error {
	return r.db.Create(admin).Error
}

func (r *GormAdminRepository) Save(admin *models.Admin) error {
	return r.db.Save(admin).Error
}

func (r *GormAdminRepository) FindByID(id uint64) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.First(&admin, id).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

// FindByUsernameOrEmail matches the login identifier against either column.
func (r *GormAdminRepository) FindByUsernameOrEmail(identifier string) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.Where("username = ? OR email = ?", identifier, identifier).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *GormAdminRepository) UsernameTaken(username string, excludeID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.Admin{}).
		Where("username = ? AND id <> ?", username, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *GormAdminRepository) EmailTaken(email string, excludeID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.Admin{}).
		Where("email = ? AND id <> ?", email, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *GormAdminRepository) FindIdentityByID(id uint64) (models.Identity, error) {
	return r.FindByID(id)
}

func (r *GormAdminRepository) FindActiveIdentityByEmail(email string) (models.Identity, error) {
	var admin models.Admin
	if err := r.db.Where("email = ?", email).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *GormAdminRepository) FindIdentityByResetTokenHash(hash string) (models.Identity, error) {
	var admin models.Admin
	if err := r.db.Where("reset_token_hash = ?", hash).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *GormAdminRepository) SetResetToken(id uint64, tokenHash string, expiry time.Time) error {
	return r.db.Model(&models.Admin{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"reset_token_hash":   tokenHash,
			"reset_token_expiry": expiry,
		}).Error
}

func (r *GormAdminRepository) ClearResetToken(id uint64) error {
	return r.db.Model(&models.Admin{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"reset_token_hash":   "",
			"reset_token_expiry": nil,
		}).Error
}

// ConsumeResetToken is a single conditional UPDATE so a token cannot be
// double-spent under concurrent requests.
func (r *GormAdminRepository) ConsumeResetToken(tokenHash, newPasswordHash string) (bool, error) {
	res := r.db.Model(&models.Admin{}).
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
