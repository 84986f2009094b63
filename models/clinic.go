package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Clinic struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key"`
	Name    string    `gorm:"not null"`
	City    string
	Country string
	Email   string
	Phone   string

	IsActive bool `gorm:"default:true"`

	Staff  []User  `gorm:"foreignKey:ClinicID"`
	Quotes []Quote `gorm:"foreignKey:ClinicID"`

	gorm.Model
}

func (cl *Clinic) BeforeCreate(tx *gorm.DB) (err error) {
	cl.ID = uuid.New()
	return
}
