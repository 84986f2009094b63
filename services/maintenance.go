// services/maintenance.go
package services

import (
	"log"
	"time"

	"dentaquote-backend/models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

type MaintenanceService struct {
	db *gorm.DB
}

func NewMaintenanceService(db *gorm.DB) *MaintenanceService {
	return &MaintenanceService{db: db}
}

func (s *MaintenanceService) StartScheduler() {
	c := cron.New()

	// Run every day at 3 AM
	c.AddFunc("0 3 * * *", func() {
		s.DeactivateExpiredPromoCodes()
	})

	c.Start()
	log.Println("Maintenance scheduler started")
}

// DeactivateExpiredPromoCodes flips is_active off for codes whose expiry has
// passed. Expiry is also checked at application time, so this is cleanup for
// the admin listing, not a correctness requirement.
func (s *MaintenanceService) DeactivateExpiredPromoCodes() {
	result := s.db.Model(&models.PromoCode{}).
		Where("is_active = ? AND expires_at IS NOT NULL AND expires_at < ?", true, time.Now()).
		Update("is_active", false)

	if result.Error != nil {
		log.Printf("Failed to deactivate expired promo codes: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("Deactivated %d expired promo codes", result.RowsAffected)
	}
}
