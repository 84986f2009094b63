// controllers/quote.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"dentaquote-backend/config"
	"dentaquote-backend/models"
	"dentaquote-backend/services"
	"dentaquote-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notifier is wired from main; nil in tests.
var Notifier *services.NotifierService

// QuoteItemInput defines a treatment selection line
type QuoteItemInput struct {
	TreatmentID uuid.UUID `json:"treatmentId" binding:"required"`
	Quantity    int       `json:"quantity" binding:"min=1"`
}

// CreateQuoteInput defines the expected JSON structure for creating a quote
type CreateQuoteInput struct {
	PatientID *uuid.UUID       `json:"patientId"` // staff/admin only; patients always quote for themselves
	ClinicID  *uuid.UUID       `json:"clinicId"`
	Items     []QuoteItemInput `json:"items"`
	Notes     string           `json:"notes"`
}

// UpdateQuoteInput defines the expected JSON structure for updating a quote
type UpdateQuoteInput struct {
	ClinicID *uuid.UUID        `json:"clinicId"`
	Items    *[]QuoteItemInput `json:"items"`
	Notes    *string           `json:"notes"`
}

type ApplyPromoInput struct {
	Code string `json:"code" binding:"required"`
}

type principal struct {
	UserID   uuid.UUID
	Role     string
	ClinicID *uuid.UUID
}

// requestPrincipal reads the authenticated identity out of the gin context,
// writing the 401 itself when absent.
func requestPrincipal(c *gin.Context) (*principal, bool) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Authentication required")
		return nil, false
	}
	userStr, ok := userID.(string)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid session")
		return nil, false
	}
	userUUID, err := uuid.Parse(userStr)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid session")
		return nil, false
	}

	p := principal{UserID: userUUID}
	if role, ok := c.Get("userRole"); ok {
		p.Role, _ = role.(string)
	}
	if clinicID, ok := c.Get("clinicId"); ok {
		if s, _ := clinicID.(string); s != "" {
			if clinicUUID, err := uuid.Parse(s); err == nil {
				p.ClinicID = &clinicUUID
			}
		}
	}
	return &p, true
}

// canAccessQuote enforces resource ownership: patients see their own quotes,
// clinic staff their clinic's, admins everything. Guards only check roles;
// this is the per-handler ownership check.
func canAccessQuote(p *principal, quote *models.Quote) bool {
	switch p.Role {
	case models.RoleAdmin:
		return true
	case models.RoleClinicStaff:
		return quote.ClinicID != nil && p.ClinicID != nil && *quote.ClinicID == *p.ClinicID
	case models.RolePatient:
		return quote.PatientID == p.UserID
	default:
		return false
	}
}

// priceItems resolves treatment selections against the catalog and snapshots
// name and price onto the quote lines.
func priceItems(tx *gorm.DB, inputs []QuoteItemInput) ([]models.QuoteItem, float64, error) {
	var subtotal float64
	var items []models.QuoteItem

	for _, input := range inputs {
		var treatment models.Treatment
		if err := tx.Where("id = ? AND is_active = ?", input.TreatmentID, true).
			First(&treatment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, 0, errors.New("treatment not found: " + input.TreatmentID.String())
			}
			return nil, 0, err
		}

		quantity := input.Quantity
		if quantity < 1 {
			quantity = 1
		}
		lineTotal := treatment.Price * float64(quantity)
		subtotal += lineTotal

		items = append(items, models.QuoteItem{
			TreatmentID:   treatment.ID,
			TreatmentName: treatment.Name,
			Quantity:      quantity,
			UnitPrice:     treatment.Price,
			TotalPrice:    lineTotal,
		})
	}

	return items, subtotal, nil
}

// CreateQuote creates a quote from a treatment selection. Items are priced
// from the catalog immediately; a quote with no items stays in draft.
func CreateQuote(c *gin.Context) {
	p, ok := requestPrincipal(c)
	if !ok {
		return
	}

	var input CreateQuoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	patientID := p.UserID
	if p.Role != models.RolePatient {
		if input.PatientID == nil {
			utils.RespondWithError(c, http.StatusBadRequest, "patientId is required")
			return
		}
		var patient models.User
		if err := config.DB.Where("id = ? AND role = ?", input.PatientID, models.RolePatient).
			First(&patient).Error; err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Patient not found")
			return
		}
		patientID = *input.PatientID
	}

	clinicID := input.ClinicID
	if p.Role == models.RoleClinicStaff {
		clinicID = p.ClinicID
	}
	if clinicID != nil {
		var clinic models.Clinic
		if err := config.DB.First(&clinic, "id = ?", clinicID).Error; err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Clinic not found")
			return
		}
	}

	items, subtotal, err := priceItems(config.DB, input.Items)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	status := models.QuoteStatusDraft
	if len(items) > 0 {
		status = models.QuoteStatusPriced
	}

	quote := models.Quote{
		QuoteNumber:   "QTE-" + time.Now().Format("20060102") + "-" + utils.GenerateRandomString(6),
		PatientID:     patientID,
		ClinicID:      clinicID,
		Status:        status,
		Items:         items,
		OriginalTotal: subtotal,
		FinalTotal:    subtotal,
		Savings:       0,
		Currency:      "GBP",
		Notes:         input.Notes,
	}

	if err := config.DB.Create(&quote).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create quote")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "quote": quote})
}

// GetQuotes lists quotes scoped by role: own for patients, all for admins.
func GetQuotes(c *gin.Context) {
	p, ok := requestPrincipal(c)
	if !ok {
		return
	}

	query := config.DB.Preload("Items").Order("created_at DESC")
	switch p.Role {
	case models.RoleAdmin:
	case models.RoleClinicStaff:
		if p.ClinicID == nil {
			utils.RespondWithError(c, http.StatusForbidden, "No clinic assigned")
			return
		}
		query = query.Where("clinic_id = ?", p.ClinicID)
	default:
		query = query.Where("patient_id = ?", p.UserID)
	}

	var quotes []models.Quote
	if err := query.Find(&quotes).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve quotes")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "quotes": quotes})
}

// GetClinicQuotes lists the quotes for the staff member's own clinic.
func GetClinicQuotes(c *gin.Context) {
	p, ok := requestPrincipal(c)
	if !ok {
		return
	}
	if p.ClinicID == nil {
		utils.RespondWithError(c, http.StatusForbidden, "No clinic assigned")
		return
	}

	var quotes []models.Quote
	if err := config.DB.Preload("Items").
		Where("clinic_id = ?", p.ClinicID).
		Order("created_at DESC").
		Find(&quotes).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve quotes")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "quotes": quotes})
}

// findQuote loads a quote with its items and performs the ownership check,
// writing the error response itself on failure.
func findQuote(c *gin.Context, p *principal) (*models.Quote, bool) {
	quoteUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid quote ID format")
		return nil, false
	}

	var quote models.Quote
	if err := config.DB.Preload("Items").First(&quote, "id = ?", quoteUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Quote not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return nil, false
	}

	if !canAccessQuote(p, &quote) {
		utils.RespondWithError(c, http.StatusForbidden, "Not allowed to access this quote")
		return nil, false
	}
	return &quote, true
}

// GetQuote retrieves a specific quote by ID
func GetQuote(c *gin.Context) {
	p, ok := requestPrincipal(c)
	if !ok {
		return
	}
	quote, ok := findQuote(c, p)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "quote": quote})
}

// UpdateQuote edits a quote's treatment selection. Finalized quotes are
// locked; exported quotes are not (the PDF may go stale, accepted behavior).
func UpdateQuote(c *gin.Context) {
	p, ok := requestPrincipal(c)
	if !ok {
		return
	}
	quote, ok := findQuote(c, p)
	if !ok {
		return
	}

	if !quote.Editable() {
		utils.RespondWithError(c, http.StatusBadRequest, "Quote is finalized and can no longer be edited")
		return
	}

	var input UpdateQuoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	clinicChanged := false
	if input.ClinicID != nil {
		var clinic models.Clinic
		if err := tx.First(&clinic, "id = ?", input.ClinicID).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusBadRequest, "Clinic not found")
			return
		}
		quote.ClinicID = input.ClinicID
		clinicChanged = true
	}
	if input.Notes != nil {
		quote.Notes = *input.Notes
	}

	if input.Items != nil {
		if err := tx.Where("quote_id = ?", quote.ID).Delete(&models.QuoteItem{}).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to clear existing items")
			return
		}

		items, subtotal, err := priceItems(tx, *input.Items)
		if err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		for i := range items {
			items[i].QuoteID = quote.ID
		}

		setQuoteItems(quote, items, subtotal)
		reapplyStoredPromo(tx, quote, subtotal)
	} else if clinicChanged {
		// A clinic change alone can invalidate a clinic-scoped promo
		reapplyStoredPromo(tx, quote, itemizedTotal(quote))
	}

	if err := tx.Save(quote).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update quote")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, gin.H{"success": true, "quote": quote})
}

// setQuoteItems replaces the quote's line items with a freshly priced list.
// An empty list drops the quote back to draft; pricing a draft's first items
// moves it to priced.
func setQuoteItems(quote *models.Quote, items []models.QuoteItem, subtotal float64) {
	quote.Items = items
	quote.OriginalTotal = subtotal
	quote.FinalTotal = subtotal
	quote.Savings = 0

	if len(items) == 0 {
		quote.Status = models.QuoteStatusDraft
	} else if quote.Status == models.QuoteStatusDraft {
		quote.Status = models.QuoteStatusPriced
	}
}

// reapplyStoredPromo recomputes promo totals after an edit. If the stored
// code no longer resolves, the promo is dropped and the quote reverts to its
// itemized totals.
func reapplyStoredPromo(tx *gorm.DB, quote *models.Quote, subtotal float64) {
	if quote.PromoCodeID == nil {
		return
	}

	var promo models.PromoCode
	if err := tx.First(&promo, "id = ?", quote.PromoCodeID).Error; err != nil {
		clearPromo(quote, subtotal)
		return
	}

	recomputePromoTotals(quote, &promo, subtotal)
}

// recomputePromoTotals re-runs the pricing engine for an already-applied
// code against the quote's current clinic and subtotal, clearing the promo
// when the code no longer resolves.
func recomputePromoTotals(quote *models.Quote, promo *models.PromoCode, subtotal float64) {
	pricing, err := services.ResolvePromo(promo, time.Now(), quote.ClinicID, subtotal)
	if err != nil {
		clearPromo(quote, subtotal)
		return
	}

	quote.OriginalTotal = pricing.OriginalPrice
	quote.FinalTotal = pricing.FinalPrice
	quote.Savings = pricing.Savings
	quote.AppliedCodeType = pricing.AppliedCodeType
}

func clearPromo(quote *models.Quote, subtotal float64) {
	quote.PromoCodeID = nil
	quote.PromoCode = ""
	quote.AppliedCodeType = ""
	quote.OriginalTotal = subtotal
	quote.FinalTotal = subtotal
	quote.Savings = 0
}

// ApplyPromo applies a promo code to a priced quote. A failed application
// leaves the quote's totals and status untouched.
func ApplyPromo(c *gin.Context) {
	p, ok := requestPrincipal(c)
	if !ok {
		return
	}
	quote, ok := findQuote(c, p)
	if !ok {
		return
	}

	if !quote.Editable() {
		utils.RespondWithError(c, http.StatusBadRequest, "Quote is finalized and can no longer be changed")
		return
	}
	if len(quote.Items) == 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "Quote has no priced treatments")
		return
	}

	var input ApplyPromoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	promo, ok := lookupPromoCode(c, input.Code)
	if !ok {
		return
	}

	subtotal := itemizedTotal(quote)
	pricing, err := services.ResolvePromo(promo, time.Now(), quote.ClinicID, subtotal)
	if err != nil {
		respondPromoError(c, err)
		return
	}

	quote.PromoCodeID = &promo.ID
	quote.PromoCode = promo.Code
	quote.AppliedCodeType = pricing.AppliedCodeType
	quote.OriginalTotal = pricing.OriginalPrice
	quote.FinalTotal = pricing.FinalPrice
	quote.Savings = pricing.Savings

	if err := config.DB.Save(quote).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to apply promo code")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "quote": quote, "pricing": pricing})
}

// RemovePromo removes an applied promo code and restores itemized totals.
func RemovePromo(c *gin.Context) {
	p, ok := requestPrincipal(c)
	if !ok {
		return
	}
	quote, ok := findQuote(c, p)
	if !ok {
		return
	}

	if !quote.Editable() {
		utils.RespondWithError(c, http.StatusBadRequest, "Quote is finalized and can no longer be changed")
		return
	}
	if quote.PromoCodeID == nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Quote has no promo code applied")
		return
	}

	clearPromo(quote, itemizedTotal(quote))

	if err := config.DB.Save(quote).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to remove promo code")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "quote": quote})
}

func itemizedTotal(quote *models.Quote) float64 {
	var total float64
	for _, item := range quote.Items {
		total += item.TotalPrice
	}
	return total
}

// FinalizeQuote locks a priced quote and notifies the patient.
func FinalizeQuote(c *gin.Context) {
	p, ok := requestPrincipal(c)
	if !ok {
		return
	}
	quote, ok := findQuote(c, p)
	if !ok {
		return
	}

	if !quote.Finalizable() {
		utils.RespondWithError(c, http.StatusBadRequest, "Only priced quotes can be finalized")
		return
	}

	quote.Status = models.QuoteStatusFinalized
	if err := config.DB.Save(quote).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to finalize quote")
		return
	}

	if Notifier != nil {
		var patient models.User
		if err := config.DB.First(&patient, "id = ?", quote.PatientID).Error; err == nil {
			go Notifier.QuoteFinalized(quote, &patient)
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "quote": quote})
}

// ExportQuotePDF renders the quote to a PDF document. The quote is marked
// exported but not locked against later edits.
func ExportQuotePDF(c *gin.Context) {
	p, ok := requestPrincipal(c)
	if !ok {
		return
	}
	quote, ok := findQuote(c, p)
	if !ok {
		return
	}

	if quote.Status != models.QuoteStatusFinalized && quote.Status != models.QuoteStatusExported {
		utils.RespondWithError(c, http.StatusBadRequest, "Only finalized quotes can be exported")
		return
	}

	var patient models.User
	if err := config.DB.First(&patient, "id = ?", quote.PatientID).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load patient")
		return
	}

	var clinic *models.Clinic
	if quote.ClinicID != nil {
		var cl models.Clinic
		if err := config.DB.First(&cl, "id = ?", quote.ClinicID).Error; err == nil {
			clinic = &cl
		}
	}

	pdfBytes, err := services.RenderQuotePDF(quote, &patient, clinic)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to render PDF")
		return
	}

	if quote.Status != models.QuoteStatusExported {
		config.DB.Model(quote).Update("status", models.QuoteStatusExported)
	}

	c.Header("Content-Disposition", "attachment; filename="+quote.QuoteNumber+".pdf")
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
