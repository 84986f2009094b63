// services/pricing.go
package services

import (
	"errors"
	"time"

	"dentaquote-backend/models"

	"github.com/google/uuid"
)

var (
	ErrPromoInactive  = errors.New("promo code is no longer active")
	ErrPromoExpired   = errors.New("promo code has expired")
	ErrClinicMismatch = errors.New("promo code is not valid for this clinic")
	ErrMalformedPromo = errors.New("promo code data is malformed")
)

type PriceBreakdown struct {
	OriginalPrice   float64 `json:"originalPrice"`
	FinalPrice      float64 `json:"finalPrice"`
	Savings         float64 `json:"savings"`
	AppliedCodeType string  `json:"appliedCodeType"`
}

// ResolvePromo applies a promo code to a cart total and produces the price
// breakdown. Pure read: no redemption counting, no side effects.
//
// Discount codes reduce the itemized total, flooring at zero. Package codes
// replace the cart entirely: the reported original price is the package's
// declared one, not the patient's itemized total.
func ResolvePromo(code *models.PromoCode, now time.Time, clinicID *uuid.UUID, cartTotal float64) (PriceBreakdown, error) {
	if !code.IsActive {
		return PriceBreakdown{}, ErrPromoInactive
	}
	if code.ExpiresAt != nil && code.ExpiresAt.Before(now) {
		return PriceBreakdown{}, ErrPromoExpired
	}
	if code.ClinicID != nil {
		if clinicID == nil || *clinicID != *code.ClinicID {
			return PriceBreakdown{}, ErrClinicMismatch
		}
	}

	switch code.Type {
	case models.PromoTypeDiscount:
		return resolveDiscount(code, cartTotal)
	case models.PromoTypePackage:
		return resolvePackage(code)
	default:
		return PriceBreakdown{}, ErrMalformedPromo
	}
}

func resolveDiscount(code *models.PromoCode, cartTotal float64) (PriceBreakdown, error) {
	value := code.DiscountValue
	if value < 0 {
		value = 0
	}

	var final float64
	switch code.DiscountType {
	case models.DiscountTypeFixedAmount:
		final = cartTotal - value
		if final < 0 {
			final = 0
		}
	case models.DiscountTypePercentage:
		if value > 100 {
			value = 100
		}
		final = cartTotal * (1 - value/100)
	default:
		return PriceBreakdown{}, ErrMalformedPromo
	}

	return breakdown(cartTotal, final, models.PromoTypeDiscount), nil
}

func resolvePackage(code *models.PromoCode) (PriceBreakdown, error) {
	original, price, err := code.PackagePrices()
	if err != nil {
		return PriceBreakdown{}, ErrMalformedPromo
	}
	return breakdown(original, price, models.PromoTypePackage), nil
}

func breakdown(original, final float64, codeType string) PriceBreakdown {
	savings := original - final
	if savings < 0 {
		savings = 0
	}
	return PriceBreakdown{
		OriginalPrice:   original,
		FinalPrice:      final,
		Savings:         savings,
		AppliedCodeType: codeType,
	}
}
