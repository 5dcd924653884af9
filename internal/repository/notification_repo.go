package repository

import (
	"errors"
	"time"

	"clearclaim/internal/models"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(n *models.Notification) error {
	return r.db.Create(n).Error
}

func (r *NotificationRepository) ListByUserID(userID uint, limit, offset int) ([]models.Notification, error) {
	var list []models.Notification
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *NotificationRepository) CountUnread(userID uint) (int64, error) {
	var n int64
	err := r.db.Model(&models.Notification{}).Where("user_id = ? AND is_read = ?", userID, false).Count(&n).Error
	return n, err
}

func (r *NotificationRepository) MarkRead(id, userID uint) error {
	res := r.db.Model(&models.Notification{}).Where("id = ? AND user_id = ?", id, userID).Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(userID uint) error {
	return r.db.Model(&models.Notification{}).Where("user_id = ? AND is_read = ?", userID, false).Update("is_read", true).Error
}

func (r *NotificationRepository) Delete(id, userID uint) error {
	res := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// LatestSince returns the newest notification of any event type created for
// the user after since, or nil when there is none. The dispatcher uses it
// for the per-user throttle window.
func (r *NotificationRepository) LatestSince(userID uint, since time.Time) (*models.Notification, error) {
	var n models.Notification
	err := r.db.Where("user_id = ? AND created_at > ?", userID, since).Order("created_at DESC").First(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// PendingEmailUserIDs lists users with at least one notification created
// after since that has not been emailed yet.
func (r *NotificationRepository) PendingEmailUserIDs(since time.Time) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Notification{}).
		Where("email_sent_at IS NULL AND created_at > ?", since).
		Distinct("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *NotificationRepository) PendingForUser(userID uint, since time.Time) ([]models.Notification, error) {
	var list []models.Notification
	err := r.db.Where("user_id = ? AND email_sent_at IS NULL AND created_at > ?", userID, since).
		Order("created_at ASC").Find(&list).Error
	return list, err
}

func (r *NotificationRepository) MarkEmailSent(ids []uint, t time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&models.Notification{}).Where("id IN ?", ids).Update("email_sent_at", t).Error
}

func (r *NotificationRepository) MarkSmsSent(ids []uint, t time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&models.Notification{}).Where("id IN ?", ids).Update("sms_sent_at", t).Error
}
