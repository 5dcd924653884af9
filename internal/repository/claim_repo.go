package repository

import (
	"time"

	"clearclaim/internal/models"

	"gorm.io/gorm"
)

type ClaimRepository struct {
	db *gorm.DB
}

func NewClaimRepository(db *gorm.DB) *ClaimRepository {
	return &ClaimRepository{db: db}
}

func (r *ClaimRepository) Create(c *models.Claim) error {
	return r.db.Create(c).Error
}

func (r *ClaimRepository) GetByID(id uint) (*models.Claim, error) {
	var c models.Claim
	if err := r.db.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByIDForUser scopes the lookup to the owner so a foreign claim id reads
// as not-found rather than forbidden.
func (r *ClaimRepository) GetByIDForUser(id, userID uint) (*models.Claim, error) {
	var c models.Claim
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClaimRepository) ListByUserID(userID uint, limit, offset int) ([]models.Claim, error) {
	var list []models.Claim
	err := r.db.Where("user_id = ?", userID).Order("updated_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *ClaimRepository) ListAll(status string, limit, offset int) ([]models.Claim, error) {
	q := r.db.Order("updated_at DESC").Limit(limit).Offset(offset)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var list []models.Claim
	err := q.Find(&list).Error
	return list, err
}

func (r *ClaimRepository) CountAll(status string) (int64, error) {
	q := r.db.Model(&models.Claim{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

func (r *ClaimRepository) Save(c *models.Claim) error {
	return r.db.Save(c).Error
}

// UpdateStatusIf performs the conditional status write for the state machine:
// the row is only touched when its status still equals from. Zero rows
// affected means a concurrent writer got there first.
func (r *ClaimRepository) UpdateStatusIf(id uint, from, to string, now time.Time) (int64, error) {
	res := r.db.Model(&models.Claim{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":           to,
			"updated_at":       now,
			"last_accessed_at": now,
		})
	return res.RowsAffected, res.Error
}

func (r *ClaimRepository) TouchLastAccessed(id uint, t time.Time) error {
	return r.db.Model(&models.Claim{}).Where("id = ?", id).Update("last_accessed_at", t).Error
}
