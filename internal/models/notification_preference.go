package models

import "time"

// NotificationPreference is one-to-one with User and created lazily with
// defaults (email on, SMS off) the first time it is read.
type NotificationPreference struct {
	ID                       uint      `gorm:"primaryKey" json:"id"`
	UserID                   uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	EnableEmailNotifications bool      `gorm:"default:true" json:"enable_email_notifications"`
	EnableSmsNotifications   bool      `gorm:"default:false" json:"enable_sms_notifications"`
	EmailDigestTime          string    `gorm:"size:5;default:'18:00'" json:"email_digest_time"`
	Timezone                 string    `gorm:"size:64;default:'America/New_York'" json:"timezone"`
	CreatedAt                time.Time `json:"created_at"`
	UpdatedAt                time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (NotificationPreference) TableName() string {
	return "notification_preferences"
}
