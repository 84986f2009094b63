package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PromoTypeDiscount = "discount"
	PromoTypePackage  = "package"

	DiscountTypePercentage  = "percentage"
	DiscountTypeFixedAmount = "fixed_amount"
)

type PromoCode struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key"`
	Code string    `gorm:"uniqueIndex;not null"`      // stored uppercase, matched case-insensitively
	Type string    `gorm:"type:varchar(20);not null"` // discount or package

	// Populated only when Type is discount
	DiscountType  string  `gorm:"type:varchar(20)"` // percentage or fixed_amount
	DiscountValue float64 `gorm:"type:decimal(10,2);default:0.0"`

	// Populated only when Type is package: name, description, treatments,
	// originalPrice, packagePrice, attractions, additionalServices
	PackageData JSONB `gorm:"type:jsonb"`

	ClinicID  *uuid.UUID `gorm:"type:uuid;index"` // optional clinic scoping
	IsActive  bool       `gorm:"default:true"`
	ExpiresAt *time.Time

	gorm.Model
}

func (p *PromoCode) BeforeCreate(tx *gorm.DB) (err error) {
	p.ID = uuid.New()
	p.Code = strings.ToUpper(strings.TrimSpace(p.Code))
	return
}

// Validate enforces that exactly one of the discount fields or the package
// payload is populated, matching Type.
func (p *PromoCode) Validate() error {
	switch p.Type {
	case PromoTypeDiscount:
		if p.DiscountType != DiscountTypePercentage && p.DiscountType != DiscountTypeFixedAmount {
			return errors.New("discount codes require discountType of percentage or fixed_amount")
		}
		if p.DiscountValue < 0 {
			return errors.New("discountValue must not be negative")
		}
		if p.DiscountType == DiscountTypePercentage && p.DiscountValue > 100 {
			return errors.New("percentage discount must not exceed 100")
		}
		if len(p.PackageData) > 0 {
			return errors.New("discount codes must not carry packageData")
		}
	case PromoTypePackage:
		if p.DiscountType != "" || p.DiscountValue != 0 {
			return errors.New("package codes must not carry discount fields")
		}
		if _, _, err := p.PackagePrices(); err != nil {
			return err
		}
	default:
		return errors.New("type must be discount or package")
	}
	return nil
}

// PackagePrices reads the declared originalPrice and packagePrice out of the
// JSONB payload. JSON numbers unmarshal as float64.
func (p *PromoCode) PackagePrices() (originalPrice, packagePrice float64, err error) {
	original, ok := p.PackageData["originalPrice"].(float64)
	if !ok {
		return 0, 0, errors.New("packageData.originalPrice missing or not a number")
	}
	price, ok := p.PackageData["packagePrice"].(float64)
	if !ok {
		return 0, 0, errors.New("packageData.packagePrice missing or not a number")
	}
	return original, price, nil
}

// Usable reports whether the code can currently be applied.
func (p *PromoCode) Usable(now time.Time) bool {
	if !p.IsActive {
		return false
	}
	if p.ExpiresAt != nil && p.ExpiresAt.Before(now) {
		return false
	}
	return true
}
