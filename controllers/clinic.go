// controllers/clinic.go
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

type CreateClinicInput struct {
	Name    string `json:"name" binding:"required"`
	City    string `json:"city"`
	Country string `json:"country"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone"`
}

type UpdateClinicInput struct {
	Name     *string `json:"name"`
	City     *string `json:"city"`
	Country  *string `json:"country"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone"`
	IsActive *bool   `json:"isActive"`
}

// CreateClinic registers a partner clinic (admin only)
func CreateClinic(c *gin.Context) {
	var input CreateClinicInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	clinic := models.Clinic{
		Name:     input.Name,
		City:     input.City,
		Country:  input.Country,
		Email:    input.Email,
		Phone:    input.Phone,
		IsActive: true,
	}

	if err := config.DB.Create(&clinic).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create clinic")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "clinic": clinic})
}

// GetClinics lists all partner clinics (admin only)
func GetClinics(c *gin.Context) {
	var clinics []models.Clinic
	if err := config.DB.Order("name").Find(&clinics).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve clinics")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "clinics": clinics})
}

// GetClinic retrieves a specific clinic by ID (admin only)
func GetClinic(c *gin.Context) {
	clinicUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid clinic ID format")
		return
	}

	var clinic models.Clinic
	if err := config.DB.First(&clinic, "id = ?", clinicUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Clinic not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "clinic": clinic})
}

// UpdateClinic updates an existing clinic (admin only)
func UpdateClinic(c *gin.Context) {
	clinicUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid clinic ID format")
		return
	}

	var input UpdateClinicInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var clinic models.Clinic
	if err := config.DB.First(&clinic, "id = ?", clinicUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Clinic not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		clinic.Name = *input.Name
	}
	if input.City != nil {
		clinic.City = *input.City
	}
	if input.Country != nil {
		clinic.Country = *input.Country
	}
	if input.Email != nil {
		clinic.Email = *input.Email
	}
	if input.Phone != nil {
		clinic.Phone = *input.Phone
	}
	if input.IsActive != nil {
		clinic.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&clinic).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update clinic")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "clinic": clinic})
}

// DeleteClinic soft deletes a clinic (admin only)
func DeleteClinic(c *gin.Context) {
	clinicUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid clinic ID format")
		return
	}

	result := config.DB.Where("id = ?", clinicUUID).Delete(&models.Clinic{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete clinic")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Clinic not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Clinic deleted successfully"})
}
