package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	QuoteStatusDraft     = "draft"
	QuoteStatusPriced    = "priced"
	QuoteStatusFinalized = "finalized"
	QuoteStatusExported  = "exported"
)

type Quote struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	QuoteNumber string    `gorm:"uniqueIndex;not null"`

	PatientID uuid.UUID  `gorm:"type:uuid;index;not null"`
	ClinicID  *uuid.UUID `gorm:"type:uuid;index"`

	Status string `gorm:"type:varchar(20);not null;default:'draft'"`

	Items []QuoteItem `gorm:"foreignKey:QuoteID"`

	OriginalTotal float64 `gorm:"type:decimal(10,2);default:0.0"`
	FinalTotal    float64 `gorm:"type:decimal(10,2);default:0.0"`
	Savings       float64 `gorm:"type:decimal(10,2);default:0.0"`
	Currency      string  `gorm:"type:varchar(3);default:'GBP'"`

	PromoCodeID     *uuid.UUID `gorm:"type:uuid;index"`
	PromoCode       string     // snapshot of the applied code string
	AppliedCodeType string     // discount or package

	Notes string

	gorm.Model
}

type QuoteItem struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	QuoteID       uuid.UUID `gorm:"type:uuid;index;not null"`
	TreatmentID   uuid.UUID `gorm:"type:uuid;index;not null"`
	TreatmentName string    `gorm:"not null"`
	Quantity      int       `gorm:"default:1"`
	UnitPrice     float64   `gorm:"type:decimal(10,2);not null"`
	TotalPrice    float64   `gorm:"type:decimal(10,2);not null"`
}

func (q *Quote) BeforeCreate(tx *gorm.DB) (err error) {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return
}

func (qi *QuoteItem) BeforeCreate(tx *gorm.DB) (err error) {
	if qi.ID == uuid.Nil {
		qi.ID = uuid.New()
	}
	return
}

// Finalizable reports whether the quote can be locked for sending. Only a
// priced quote qualifies; drafts carry no totals and finalized or exported
// quotes are already past the gate.
func (q *Quote) Finalizable() bool {
	return q.Status == QuoteStatusPriced
}

// Editable reports whether treatment changes are still allowed. Export does
// not lock a quote, only finalization does.
func (q *Quote) Editable() bool {
	return q.Status != QuoteStatusFinalized
}
