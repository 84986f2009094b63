// services/pdf.go
package services

import (
	"bytes"
	"fmt"

	"dentaquote-backend/models"

	"github.com/jung-kurt/gofpdf"
)

// RenderQuotePDF produces the printable quote document. Read-only
// projection of the quote: nothing on the quote itself is touched here.
func RenderQuotePDF(quote *models.Quote, patient *models.User, clinic *models.Clinic) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Treatment Quote "+quote.QuoteNumber, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Dental Treatment Quote")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Quote number: %s", quote.QuoteNumber))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", quote.CreatedAt.Format("02 Jan 2006")))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Patient: %s %s", patient.FirstName, patient.LastName))
	pdf.Ln(6)
	if clinic != nil {
		pdf.Cell(0, 6, fmt.Sprintf("Clinic: %s, %s, %s", clinic.Name, clinic.City, clinic.Country))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	// Items table
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(90, 8, "Treatment", "1", 0, "L", false, 0, "")
	pdf.CellFormat(20, 8, "Qty", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 8, "Unit Price", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, "Total", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, item := range quote.Items {
		pdf.CellFormat(90, 8, item.TreatmentName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 8, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 8, money(item.UnitPrice, quote.Currency), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 8, money(item.TotalPrice, quote.Currency), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(150, 7, "Original total", "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 7, money(quote.OriginalTotal, quote.Currency), "", 1, "R", false, 0, "")

	if quote.PromoCode != "" {
		pdf.CellFormat(150, 7, fmt.Sprintf("Promo code %s (%s)", quote.PromoCode, quote.AppliedCodeType), "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, "-"+money(quote.Savings, quote.Currency), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(150, 9, "Total due", "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 9, money(quote.FinalTotal, quote.Currency), "", 1, "R", false, 0, "")

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, "This quote is an estimate based on the treatments selected. Final pricing is confirmed by the clinic after consultation.", "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Core PDF fonts are cp1252, so currency symbols are written as their
// single-byte code points.
func money(amount float64, currency string) string {
	symbol := currency + " "
	switch currency {
	case "GBP":
		symbol = "\xa3"
	case "EUR":
		symbol = "\x80"
	case "USD":
		symbol = "$"
	}
	return fmt.Sprintf("%s%.2f", symbol, amount)
}
