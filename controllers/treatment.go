// controllers/treatment.go
package controllers

import (
	"errors"
	"net/http"

	"dentaquote-backend/config"
	"dentaquote-backend/models"
	"dentaquote-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateTreatmentInput defines the expected JSON structure for creating a treatment
type CreateTreatmentInput struct {
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description"`
	Price        float64 `json:"price" binding:"required,min=0"`
	Category     string  `json:"category"`
	DurationDays int     `json:"durationDays" binding:"min=0"`
}

// UpdateTreatmentInput defines the expected JSON structure for updating a treatment
type UpdateTreatmentInput struct {
	Name         *string  `json:"name"`
	Description  *string  `json:"description"`
	Price        *float64 `json:"price" binding:"omitempty,min=0"`
	Category     *string  `json:"category"`
	DurationDays *int     `json:"durationDays"`
	IsActive     *bool    `json:"isActive"`
}

// CreateTreatment adds a treatment to the catalog (admin only)
func CreateTreatment(c *gin.Context) {
	var input CreateTreatmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	treatment := models.Treatment{
		Name:         input.Name,
		Description:  input.Description,
		Price:        input.Price,
		Category:     input.Category,
		DurationDays: input.DurationDays,
		IsActive:     true,
	}

	if err := config.DB.Create(&treatment).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create treatment")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "treatment": treatment})
}

// GetTreatments lists the active treatment catalog
func GetTreatments(c *gin.Context) {
	var treatments []models.Treatment
	if err := config.DB.Where("is_active = ?", true).Order("category, name").
		Find(&treatments).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve treatments")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "treatments": treatments})
}

// GetAllTreatments lists the full catalog including inactive entries (admin)
func GetAllTreatments(c *gin.Context) {
	var treatments []models.Treatment
	if err := config.DB.Order("category, name").Find(&treatments).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve treatments")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "treatments": treatments})
}

// UpdateTreatment updates an existing catalog entry (admin only)
func UpdateTreatment(c *gin.Context) {
	treatmentUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid treatment ID format")
		return
	}

	var input UpdateTreatmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var treatment models.Treatment
	if err := config.DB.First(&treatment, "id = ?", treatmentUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Treatment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		treatment.Name = *input.Name
	}
	if input.Description != nil {
		treatment.Description = *input.Description
	}
	if input.Price != nil {
		treatment.Price = *input.Price
	}
	if input.Category != nil {
		treatment.Category = *input.Category
	}
	if input.DurationDays != nil {
		treatment.DurationDays = *input.DurationDays
	}
	if input.IsActive != nil {
		treatment.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&treatment).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update treatment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "treatment": treatment})
}

// DeleteTreatment removes a treatment from the catalog (admin only)
func DeleteTreatment(c *gin.Context) {
	treatmentUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid treatment ID format")
		return
	}

	result := config.DB.Where("id = ?", treatmentUUID).Delete(&models.Treatment{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete treatment")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Treatment not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Treatment deleted successfully"})
}
