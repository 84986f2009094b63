package services

import (
	"errors"
	"testing"
	"time"

	"dentaquote-backend/models"

	"github.com/google/uuid"
)

func percentageCode(code string, value float64) *models.PromoCode {
	return &models.PromoCode{
		ID:            uuid.New(),
		Code:          code,
		Type:          models.PromoTypeDiscount,
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: value,
		IsActive:      true,
	}
}

func fixedCode(code string, value float64) *models.PromoCode {
	return &models.PromoCode{
		ID:            uuid.New(),
		Code:          code,
		Type:          models.PromoTypeDiscount,
		DiscountType:  models.DiscountTypeFixedAmount,
		DiscountValue: value,
		IsActive:      true,
	}
}

func packageCode(code string, originalPrice, packagePrice float64) *models.PromoCode {
	return &models.PromoCode{
		ID:       uuid.New(),
		Code:     code,
		Type:     models.PromoTypePackage,
		IsActive: true,
		PackageData: models.JSONB{
			"name":          "Smile Makeover",
			"originalPrice": originalPrice,
			"packagePrice":  packagePrice,
		},
	}
}

func TestPercentageDiscount(t *testing.T) {
	code := percentageCode("SAVE20", 20)
	got, err := ResolvePromo(code, time.Now(), nil, 1000)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.FinalPrice != 800 {
		t.Fatalf("expected final 800, got %v", got.FinalPrice)
	}
	if got.Savings != 200 {
		t.Fatalf("expected savings 200, got %v", got.Savings)
	}
	if got.OriginalPrice != 1000 {
		t.Fatalf("expected original 1000, got %v", got.OriginalPrice)
	}
	if got.AppliedCodeType != models.PromoTypeDiscount {
		t.Fatalf("expected discount type, got %q", got.AppliedCodeType)
	}
}

func TestFixedAmountFloorsAtZero(t *testing.T) {
	code := fixedCode("FLAT600", 600)
	got, err := ResolvePromo(code, time.Now(), nil, 500)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.FinalPrice != 0 {
		t.Fatalf("expected final 0, got %v", got.FinalPrice)
	}
	if got.Savings != 500 {
		t.Fatalf("savings must not exceed the original total: got %v", got.Savings)
	}
}

func TestFixedAmountNormal(t *testing.T) {
	code := fixedCode("FLAT100", 100)
	got, err := ResolvePromo(code, time.Now(), nil, 750)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.FinalPrice != 650 || got.Savings != 100 {
		t.Fatalf("expected 650/100, got %v/%v", got.FinalPrice, got.Savings)
	}
}

func TestPackageReplacesCartTotals(t *testing.T) {
	code := packageCode("SMILE-PKG", 1400, 1200)
	got, err := ResolvePromo(code, time.Now(), nil, 1500)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.FinalPrice != 1200 {
		t.Fatalf("expected package price 1200, got %v", got.FinalPrice)
	}
	// The declared package original, not the itemized 1500
	if got.OriginalPrice != 1400 {
		t.Fatalf("expected declared original 1400, got %v", got.OriginalPrice)
	}
	if got.Savings != 200 {
		t.Fatalf("expected savings 200, got %v", got.Savings)
	}
}

func TestExpiredCode(t *testing.T) {
	yesterday := time.Now().Add(-24 * time.Hour)
	code := percentageCode("OLD10", 10)
	code.ExpiresAt = &yesterday

	if _, err := ResolvePromo(code, time.Now(), nil, 100); !errors.Is(err, ErrPromoExpired) {
		t.Fatalf("expected ErrPromoExpired, got %v", err)
	}
}

func TestInactiveCode(t *testing.T) {
	// Inactive beats everything, even a valid expiry
	tomorrow := time.Now().Add(24 * time.Hour)
	code := fixedCode("DEAD", 50)
	code.IsActive = false
	code.ExpiresAt = &tomorrow

	if _, err := ResolvePromo(code, time.Now(), nil, 100); !errors.Is(err, ErrPromoInactive) {
		t.Fatalf("expected ErrPromoInactive, got %v", err)
	}
}

func TestClinicScoping(t *testing.T) {
	clinicA := uuid.New()
	clinicB := uuid.New()

	code := percentageCode("ISTANBUL15", 15)
	code.ClinicID = &clinicA

	if _, err := ResolvePromo(code, time.Now(), &clinicB, 100); !errors.Is(err, ErrClinicMismatch) {
		t.Fatalf("expected ErrClinicMismatch for wrong clinic, got %v", err)
	}
	if _, err := ResolvePromo(code, time.Now(), nil, 100); !errors.Is(err, ErrClinicMismatch) {
		t.Fatalf("expected ErrClinicMismatch for missing clinic, got %v", err)
	}
	if _, err := ResolvePromo(code, time.Now(), &clinicA, 100); err != nil {
		t.Fatalf("matching clinic should pass, got %v", err)
	}
}

func TestPercentageClamping(t *testing.T) {
	code := percentageCode("TOOBIG", 150)
	got, err := ResolvePromo(code, time.Now(), nil, 400)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.FinalPrice != 0 {
		t.Fatalf("percentage over 100 must clamp to a free quote, got %v", got.FinalPrice)
	}
	if got.Savings != 400 {
		t.Fatalf("savings must equal the original at the clamp, got %v", got.Savings)
	}
}

func TestNegativeDiscountTreatedAsZero(t *testing.T) {
	code := fixedCode("NEG", -40)
	got, err := ResolvePromo(code, time.Now(), nil, 300)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.FinalPrice != 300 || got.Savings != 0 {
		t.Fatalf("negative discount must not raise the price: got %v/%v", got.FinalPrice, got.Savings)
	}
}

func TestZeroTotal(t *testing.T) {
	code := percentageCode("SAVE20", 20)
	got, err := ResolvePromo(code, time.Now(), nil, 0)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.FinalPrice != 0 || got.Savings != 0 {
		t.Fatalf("zero total must stay zero: got %v/%v", got.FinalPrice, got.Savings)
	}
}

func TestReapplyIsIdempotent(t *testing.T) {
	code := percentageCode("SAVE20", 20)
	first, err := ResolvePromo(code, time.Now(), nil, 1000)
	if err != nil {
		t.Fatalf("first apply: %v", err)
	}
	second, err := ResolvePromo(code, time.Now(), nil, 1000)
	if err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if first != second {
		t.Fatalf("reapplying the same code must yield identical totals: %+v vs %+v", first, second)
	}
}

func TestMalformedPackageData(t *testing.T) {
	code := &models.PromoCode{
		ID:          uuid.New(),
		Code:        "BROKEN",
		Type:        models.PromoTypePackage,
		IsActive:    true,
		PackageData: models.JSONB{"name": "no prices"},
	}
	if _, err := ResolvePromo(code, time.Now(), nil, 100); !errors.Is(err, ErrMalformedPromo) {
		t.Fatalf("expected ErrMalformedPromo, got %v", err)
	}
}

func TestUnknownDiscountType(t *testing.T) {
	code := &models.PromoCode{
		ID:           uuid.New(),
		Code:         "ODD",
		Type:         models.PromoTypeDiscount,
		DiscountType: "bogus",
		IsActive:     true,
	}
	if _, err := ResolvePromo(code, time.Now(), nil, 100); !errors.Is(err, ErrMalformedPromo) {
		t.Fatalf("expected ErrMalformedPromo, got %v", err)
	}
}
