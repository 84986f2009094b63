// controllers/dashboard.go
package controllers

import (
	"net/http"
	"time"

	"dentaquote-backend/config"
	"dentaquote-backend/models"

	"github.com/gin-gonic/gin"
)

type DashboardOverview struct {
	TotalPatients    int64              `json:"totalPatients"`
	TotalClinics     int64              `json:"totalClinics"`
	TotalQuotes      int64              `json:"totalQuotes"`
	QuotesThisMonth  int64              `json:"quotesThisMonth"`
	RevenueThisMonth float64            `json:"revenueThisMonth"` // finalized quote value
	ActivePromoCodes int64              `json:"activePromoCodes"`
	TopTreatments    []TreatmentSummary `json:"topTreatments"`
	RecentQuotes     []RecentQuote      `json:"recentQuotes"`
}

type TreatmentSummary struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

type RecentQuote struct {
	QuoteNumber string  `json:"quoteNumber"`
	Patient     string  `json:"patient"`
	Status      string  `json:"status"`
	FinalTotal  float64 `json:"finalTotal"`
}

// GetDashboardOverview aggregates the admin landing-page stats.
func GetDashboardOverview(c *gin.Context) {
	var overview DashboardOverview

	config.DB.Model(&models.User{}).
		Where("role = ? AND deleted_at IS NULL", models.RolePatient).
		Count(&overview.TotalPatients)

	config.DB.Model(&models.Clinic{}).
		Where("is_active = ? AND deleted_at IS NULL", true).
		Count(&overview.TotalClinics)

	config.DB.Model(&models.Quote{}).
		Where("deleted_at IS NULL").
		Count(&overview.TotalQuotes)

	now := time.Now()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	config.DB.Model(&models.Quote{}).
		Where("created_at >= ? AND deleted_at IS NULL", firstOfMonth).
		Count(&overview.QuotesThisMonth)

	config.DB.Model(&models.Quote{}).
		Where("status IN ? AND created_at >= ? AND deleted_at IS NULL",
			[]string{models.QuoteStatusFinalized, models.QuoteStatusExported}, firstOfMonth).
		Select("COALESCE(SUM(final_total), 0)").
		Scan(&overview.RevenueThisMonth)

	config.DB.Model(&models.PromoCode{}).
		Where("is_active = ? AND (expires_at IS NULL OR expires_at > ?) AND deleted_at IS NULL", true, now).
		Count(&overview.ActivePromoCodes)

	config.DB.Raw(`
        SELECT qi.treatment_name AS name,
               SUM(qi.quantity) AS count,
               COALESCE(SUM(qi.total_price), 0) AS revenue
        FROM quote_items qi
        JOIN quotes q ON q.id = qi.quote_id
        WHERE q.deleted_at IS NULL
        GROUP BY qi.treatment_name
        ORDER BY revenue DESC
        LIMIT 5
    `).Scan(&overview.TopTreatments)

	config.DB.Raw(`
        SELECT q.quote_number, u.first_name || ' ' || u.last_name AS patient,
               q.status, q.final_total
        FROM quotes q
        JOIN users u ON u.id = q.patient_id
        WHERE q.deleted_at IS NULL
        ORDER BY q.created_at DESC
        LIMIT 5
    `).Scan(&overview.RecentQuotes)

	c.JSON(http.StatusOK, gin.H{"success": true, "dashboard": overview})
}
