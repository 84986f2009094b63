// models/notification_log.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	QuoteID   uuid.UUID `gorm:"type:uuid;index;not null"`
	PatientID uuid.UUID `gorm:"type:uuid;index;not null"`

	Channel      string `gorm:"type:varchar(20)"` // email, whatsapp, sms
	Status       string `gorm:"type:varchar(20)"` // sent, failed
	Message      string `gorm:"type:text"`
	ErrorMessage string `gorm:"type:text"`
	SentAt       time.Time

	gorm.Model
}

func (n *NotificationLog) BeforeCreate(tx *gorm.DB) (err error) {
	n.ID = uuid.New()
	return
}
