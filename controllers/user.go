// controllers/user.go
package controllers

import (
	"errors"
	"net/http"
	"strings"

	"dentaquote-backend/config"
	"dentaquote-backend/models"
	"dentaquote-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateUserInput defines the JSON structure for admin user creation.
// This is how clinic_staff and additional admin accounts come into being;
// self-registration only ever produces patients.
type CreateUserInput struct {
	Email     string     `json:"email" binding:"required,email"`
	Password  string     `json:"password" binding:"required,min=8"`
	FirstName string     `json:"firstName" binding:"required"`
	LastName  string     `json:"lastName"`
	Phone     string     `json:"phone"`
	Role      string     `json:"role" binding:"required,oneof=admin clinic_staff patient"`
	ClinicID  *uuid.UUID `json:"clinicId"`
}

// UpdateUserInput defines the JSON structure for admin user edits. Role is
// immutable after creation.
type UpdateUserInput struct {
	FirstName *string    `json:"firstName"`
	LastName  *string    `json:"lastName"`
	Phone     *string    `json:"phone"`
	ClinicID  *uuid.UUID `json:"clinicId"`
	IsActive  *bool      `json:"isActive"`
}

// CreateUser creates a user account (admin only)
func CreateUser(c *gin.Context) {
	var input CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Role == models.RoleClinicStaff {
		if input.ClinicID == nil {
			utils.RespondWithError(c, http.StatusBadRequest, "clinicId is required for clinic staff")
			return
		}
		var clinic models.Clinic
		if err := config.DB.First(&clinic, "id = ?", input.ClinicID).Error; err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Clinic not found")
			return
		}
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	var existing models.User
	result := config.DB.Where("email = ?", email).First(&existing)
	if result.Error == nil {
		utils.RespondWithError(c, http.StatusConflict, "Email already registered")
		return
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	user := models.User{
		Email:     email,
		Password:  input.Password, // hashed in BeforeCreate hook
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
		Role:      input.Role,
		ClinicID:  input.ClinicID,
		IsActive:  true,
	}

	if err := config.DB.Create(&user).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "user": userPayload(&user)})
}

// GetUsers lists all user accounts (admin only)
func GetUsers(c *gin.Context) {
	query := config.DB.Order("created_at DESC")
	if role := c.Query("role"); role != "" {
		if !models.ValidRole(role) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid role filter")
			return
		}
		query = query.Where("role = ?", role)
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve users")
		return
	}

	payload := make([]gin.H, 0, len(users))
	for i := range users {
		payload = append(payload, userPayload(&users[i]))
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "users": payload})
}

// UpdateUser edits a user account (admin only)
func UpdateUser(c *gin.Context) {
	userUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	var input UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", userUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "User not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.ClinicID != nil {
		var clinic models.Clinic
		if err := config.DB.First(&clinic, "id = ?", input.ClinicID).Error; err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Clinic not found")
			return
		}
		user.ClinicID = input.ClinicID
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&user).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": userPayload(&user)})
}

// DeleteUser soft deletes a user account (admin only)
func DeleteUser(c *gin.Context) {
	userUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	result := config.DB.Where("id = ?", userUUID).Delete(&models.User{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete user")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User deleted successfully"})
}
