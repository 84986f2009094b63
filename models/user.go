package models

import (
	"database/sql/driver"
	"dentaquote-backend/utils"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin       = "admin"
	RoleClinicStaff = "clinic_staff"
	RolePatient     = "patient"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Email     string    `gorm:"uniqueIndex;not null"`
	Password  string    `gorm:"not null"`
	FirstName string    `gorm:"not null"`
	LastName  string
	Phone     string

	Role     string     `gorm:"type:varchar(20);not null;default:'patient'"` // admin, clinic_staff, patient
	ClinicID *uuid.UUID `gorm:"type:uuid;index"`                             // set for clinic_staff

	LastLogin *time.Time
	IsActive  bool `gorm:"default:true"`

	gorm.Model
}

// Initialize UUID and hash the password before creating
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	u.ID = uuid.New()
	hashed, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return
}

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleClinicStaff || role == RolePatient
}

// Custom JSONB type for promo package payloads
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, &j)
}
