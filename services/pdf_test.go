package services

import (
	"bytes"
	"testing"
	"time"

	"dentaquote-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func TestRenderQuotePDF(t *testing.T) {
	clinicID := uuid.New()
	quote := &models.Quote{
		ID:          uuid.New(),
		QuoteNumber: "QTE-20260829-ABC123",
		PatientID:   uuid.New(),
		ClinicID:    &clinicID,
		Status:      models.QuoteStatusFinalized,
		Items: []models.QuoteItem{
			{TreatmentName: "Dental Implant", Quantity: 2, UnitPrice: 450, TotalPrice: 900},
			{TreatmentName: "Teeth Whitening", Quantity: 1, UnitPrice: 100, TotalPrice: 100},
		},
		OriginalTotal:   1000,
		FinalTotal:      800,
		Savings:         200,
		Currency:        "GBP",
		PromoCode:       "SAVE20",
		AppliedCodeType: models.PromoTypeDiscount,
		Model:           gorm.Model{CreatedAt: time.Now()},
	}
	patient := &models.User{FirstName: "Jane", LastName: "Doe"}
	clinic := &models.Clinic{Name: "Smile Istanbul", City: "Istanbul", Country: "Turkey"}

	pdfBytes, err := RenderQuotePDF(quote, patient, clinic)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(pdfBytes) == 0 {
		t.Fatalf("empty document")
	}
	if !bytes.HasPrefix(pdfBytes, []byte("%PDF")) {
		t.Fatalf("output is not a PDF document")
	}
}

func TestRenderQuotePDFWithoutClinic(t *testing.T) {
	quote := &models.Quote{
		ID:          uuid.New(),
		QuoteNumber: "QTE-20260829-XYZ789",
		PatientID:   uuid.New(),
		Status:      models.QuoteStatusFinalized,
		Items: []models.QuoteItem{
			{TreatmentName: "Checkup", Quantity: 1, UnitPrice: 50, TotalPrice: 50},
		},
		OriginalTotal: 50,
		FinalTotal:    50,
		Currency:      "EUR",
		Model:         gorm.Model{CreatedAt: time.Now()},
	}
	patient := &models.User{FirstName: "John"}

	pdfBytes, err := RenderQuotePDF(quote, patient, nil)
	if err != nil {
		t.Fatalf("render without clinic: %v", err)
	}
	if len(pdfBytes) == 0 {
		t.Fatalf("empty document")
	}
}
