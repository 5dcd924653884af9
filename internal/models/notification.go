package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notification is a single in-app/digest notification row. EmailSentAt and
// SmsSentAt are nil while the row is pending digest delivery on that channel.
type Notification struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	EventType   string         `gorm:"size:50;not null;index" json:"event_type"`
	Title       string         `gorm:"size:255" json:"title"`
	Body        string         `gorm:"type:text" json:"body"`
	Payload     datatypes.JSON `json:"payload"`
	Priority    string         `gorm:"size:10;not null;default:NORMAL" json:"priority"`
	IsRead      bool           `gorm:"default:false" json:"is_read"`
	EmailSentAt *time.Time     `json:"email_sent_at"`
	SmsSentAt   *time.Time     `json:"sms_sent_at"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Notification) TableName() string {
	return "notifications"
}
