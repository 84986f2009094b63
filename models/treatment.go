package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Treatment struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Name         string    `gorm:"not null"`
	Description  string
	Price        float64 `gorm:"type:decimal(10,2);not null"`
	Category     string  `gorm:"default:'General'"`
	DurationDays int     // typical trip length for this treatment
	IsActive     bool    `gorm:"default:true"`

	QuoteItems []QuoteItem `gorm:"foreignKey:TreatmentID"`
}

func (t *Treatment) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}
