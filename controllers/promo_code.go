// controllers/promo_code.go
package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"dentaquote-backend/config"
	"dentaquote-backend/models"
	"dentaquote-backend/services"
	"dentaquote-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreatePromoCodeInput struct {
	Code          string       `json:"code" binding:"required"`
	Type          string       `json:"type" binding:"required,oneof=discount package"`
	DiscountType  string       `json:"discountType" binding:"omitempty,oneof=percentage fixed_amount"`
	DiscountValue float64      `json:"discountValue" binding:"min=0"`
	PackageData   models.JSONB `json:"packageData"`
	ClinicID      *uuid.UUID   `json:"clinicId"`
	ExpiresAt     *time.Time   `json:"expiresAt"`
}

type UpdatePromoCodeInput struct {
	DiscountValue *float64     `json:"discountValue" binding:"omitempty,min=0"`
	PackageData   models.JSONB `json:"packageData"`
	ClinicID      *uuid.UUID   `json:"clinicId"`
	IsActive      *bool        `json:"isActive"`
	ExpiresAt     *time.Time   `json:"expiresAt"`
}

type ValidatePromoCodeInput struct {
	Code      string     `json:"code" binding:"required"`
	CartTotal float64    `json:"cartTotal" binding:"min=0"`
	ClinicID  *uuid.UUID `json:"clinicId"`
}

// CreatePromoCode creates a promo code (admin only). The discount/package
// shape invariant is enforced before anything touches the database.
func CreatePromoCode(c *gin.Context) {
	var input CreatePromoCodeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	promo := models.PromoCode{
		Code:          input.Code,
		Type:          input.Type,
		DiscountType:  input.DiscountType,
		DiscountValue: input.DiscountValue,
		PackageData:   input.PackageData,
		ClinicID:      input.ClinicID,
		ExpiresAt:     input.ExpiresAt,
		IsActive:      true,
	}

	if err := promo.Validate(); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	if input.ClinicID != nil {
		var clinic models.Clinic
		if err := config.DB.First(&clinic, "id = ?", input.ClinicID).Error; err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Clinic not found")
			return
		}
	}

	var existing models.PromoCode
	result := config.DB.Where("UPPER(code) = UPPER(?)", strings.TrimSpace(input.Code)).First(&existing)
	if result.Error == nil {
		utils.RespondWithError(c, http.StatusConflict, "Promo code already exists")
		return
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	if err := config.DB.Create(&promo).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create promo code")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "promoCode": promo})
}

// GetPromoCodes lists all promo codes (admin only)
func GetPromoCodes(c *gin.Context) {
	var promos []models.PromoCode
	if err := config.DB.Order("created_at DESC").Find(&promos).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve promo codes")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "promoCodes": promos})
}

// GetPromoCode retrieves a specific promo code by ID (admin only)
func GetPromoCode(c *gin.Context) {
	promoUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid promo code ID format")
		return
	}

	var promo models.PromoCode
	if err := config.DB.First(&promo, "id = ?", promoUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Promo code not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "promoCode": promo})
}

// UpdatePromoCode updates a promo code (admin only). The code string and
// type are immutable; create a new code instead.
func UpdatePromoCode(c *gin.Context) {
	promoUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid promo code ID format")
		return
	}

	var input UpdatePromoCodeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var promo models.PromoCode
	if err := config.DB.First(&promo, "id = ?", promoUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Promo code not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.DiscountValue != nil {
		promo.DiscountValue = *input.DiscountValue
	}
	if input.PackageData != nil {
		promo.PackageData = input.PackageData
	}
	if input.ClinicID != nil {
		promo.ClinicID = input.ClinicID
	}
	if input.IsActive != nil {
		promo.IsActive = *input.IsActive
	}
	if input.ExpiresAt != nil {
		promo.ExpiresAt = input.ExpiresAt
	}

	if err := promo.Validate(); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := config.DB.Save(&promo).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update promo code")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "promoCode": promo})
}

// DeletePromoCode soft deletes a promo code (admin only)
func DeletePromoCode(c *gin.Context) {
	promoUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid promo code ID format")
		return
	}

	result := config.DB.Where("id = ?", promoUUID).Delete(&models.PromoCode{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete promo code")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Promo code not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Promo code deleted successfully"})
}

// ValidatePromoCode resolves a code against a hypothetical cart without
// touching any quote. Backs the promo-code test surface in the frontend.
func ValidatePromoCode(c *gin.Context) {
	var input ValidatePromoCodeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	promo, ok := lookupPromoCode(c, input.Code)
	if !ok {
		return
	}

	pricing, err := services.ResolvePromo(promo, time.Now(), input.ClinicID, input.CartTotal)
	if err != nil {
		respondPromoError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "pricing": pricing})
}

// lookupPromoCode finds a code by its case-insensitive string, writing the
// 404 itself when missing.
func lookupPromoCode(c *gin.Context, code string) (*models.PromoCode, bool) {
	var promo models.PromoCode
	err := config.DB.Where("UPPER(code) = UPPER(?)", strings.TrimSpace(code)).First(&promo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Promo code not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return nil, false
	}
	return &promo, true
}

// respondPromoError maps engine failures onto the HTTP taxonomy. Business
// rule failures are 400s with descriptive messages.
func respondPromoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPromoInactive),
		errors.Is(err, services.ErrPromoExpired),
		errors.Is(err, services.ErrClinicMismatch),
		errors.Is(err, services.ErrMalformedPromo):
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	default:
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to apply promo code")
	}
}
