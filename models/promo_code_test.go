package models

import (
	"testing"
	"time"
)

func TestValidateDiscountShape(t *testing.T) {
	promo := PromoCode{
		Code:          "SAVE20",
		Type:          PromoTypeDiscount,
		DiscountType:  DiscountTypePercentage,
		DiscountValue: 20,
	}
	if err := promo.Validate(); err != nil {
		t.Fatalf("valid discount rejected: %v", err)
	}

	promo.DiscountValue = 120
	if err := promo.Validate(); err == nil {
		t.Fatalf("percentage over 100 accepted")
	}

	promo.DiscountType = ""
	promo.DiscountValue = 20
	if err := promo.Validate(); err == nil {
		t.Fatalf("discount without discountType accepted")
	}

	promo.DiscountType = DiscountTypeFixedAmount
	promo.DiscountValue = -5
	if err := promo.Validate(); err == nil {
		t.Fatalf("negative discountValue accepted")
	}
}

func TestValidateRejectsMixedShape(t *testing.T) {
	promo := PromoCode{
		Code:          "MIXED",
		Type:          PromoTypeDiscount,
		DiscountType:  DiscountTypeFixedAmount,
		DiscountValue: 50,
		PackageData:   JSONB{"packagePrice": 100.0, "originalPrice": 150.0},
	}
	if err := promo.Validate(); err == nil {
		t.Fatalf("discount code carrying packageData accepted")
	}

	promo = PromoCode{
		Code:          "MIXED2",
		Type:          PromoTypePackage,
		DiscountType:  DiscountTypeFixedAmount,
		DiscountValue: 50,
		PackageData:   JSONB{"packagePrice": 100.0, "originalPrice": 150.0},
	}
	if err := promo.Validate(); err == nil {
		t.Fatalf("package code carrying discount fields accepted")
	}
}

func TestValidatePackageShape(t *testing.T) {
	promo := PromoCode{
		Code: "SMILE-PKG",
		Type: PromoTypePackage,
		PackageData: JSONB{
			"name":          "Smile Makeover",
			"originalPrice": 1400.0,
			"packagePrice":  1200.0,
		},
	}
	if err := promo.Validate(); err != nil {
		t.Fatalf("valid package rejected: %v", err)
	}

	promo.PackageData = JSONB{"name": "no prices"}
	if err := promo.Validate(); err == nil {
		t.Fatalf("package without prices accepted")
	}
}

func TestPackagePrices(t *testing.T) {
	promo := PromoCode{
		Type: PromoTypePackage,
		PackageData: JSONB{
			"originalPrice": 1400.0,
			"packagePrice":  1200.0,
		},
	}
	original, price, err := promo.PackagePrices()
	if err != nil {
		t.Fatalf("prices: %v", err)
	}
	if original != 1400 || price != 1200 {
		t.Fatalf("got %v/%v, want 1400/1200", original, price)
	}

	promo.PackageData = JSONB{"originalPrice": "not a number"}
	if _, _, err := promo.PackagePrices(); err == nil {
		t.Fatalf("string price accepted")
	}
}

func TestUsable(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	promo := PromoCode{IsActive: true}
	if !promo.Usable(now) {
		t.Fatalf("active code without expiry must be usable")
	}

	promo.ExpiresAt = &future
	if !promo.Usable(now) {
		t.Fatalf("active unexpired code must be usable")
	}

	promo.ExpiresAt = &past
	if promo.Usable(now) {
		t.Fatalf("expired code must not be usable")
	}

	promo = PromoCode{IsActive: false, ExpiresAt: &future}
	if promo.Usable(now) {
		t.Fatalf("inactive code must not be usable")
	}
}
