package repository

import (
	"clearclaim/internal/models"

	"gorm.io/gorm"
)

type PreferenceRepository struct {
	db *gorm.DB
}

func NewPreferenceRepository(db *gorm.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// GetOrCreate returns the user's notification preferences, creating the row
// with defaults (email on, SMS off) on first access.
func (r *PreferenceRepository) GetOrCreate(userID uint) (*models.NotificationPreference, error) {
	p := models.NotificationPreference{
		UserID:                   userID,
		EnableEmailNotifications: true,
	}
	if err := r.db.Where(models.NotificationPreference{UserID: userID}).FirstOrCreate(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PreferenceRepository) Update(userID uint, fields map[string]interface{}) error {
	return r.db.Model(&models.NotificationPreference{}).Where("user_id = ?", userID).Updates(fields).Error
}
