// services/notifier.go
package services

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
	"time"

	"dentaquote-backend/models"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

// EmailSender abstracts the SMTP relay so tests can swap it out.
type EmailSender interface {
	Send(to, subject, body string) error
}

type SMTPSender struct {
	addr string
	from string
}

func NewSMTPSender() *SMTPSender {
	host := strings.TrimSpace(os.Getenv("SMTP_HOST"))
	port := strings.TrimSpace(os.Getenv("SMTP_PORT"))
	from := strings.TrimSpace(os.Getenv("SMTP_FROM"))
	if from == "" {
		from = "no-reply@dentaquote.local"
	}
	return &SMTPSender{
		addr: fmt.Sprintf("%s:%s", host, port),
		from: from,
	}
}

func (s *SMTPSender) Send(to, subject, body string) error {
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		s.from, to, subject, body,
	)
	return smtp.SendMail(s.addr, nil, s.from, []string{to}, []byte(msg))
}

type NotifierService struct {
	db     *gorm.DB
	client *twilio.RestClient
	email  EmailSender
}

func NewNotifierService(db *gorm.DB, email EmailSender) *NotifierService {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &NotifierService{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		email: email,
	}
}

// QuoteFinalized notifies the patient that their quote is ready. Delivery
// failures are logged and recorded but never surfaced to the caller.
func (s *NotifierService) QuoteFinalized(quote *models.Quote, patient *models.User) {
	message := fmt.Sprintf(
		"Hi %s, your dental treatment quote %s is ready. Total: %s %.2f (you save %s %.2f). Log in to view and download it.",
		patient.FirstName, quote.QuoteNumber,
		quote.Currency, quote.FinalTotal,
		quote.Currency, quote.Savings,
	)

	if patient.Email != "" {
		subject := "Your treatment quote " + quote.QuoteNumber + " is ready"
		err := s.email.Send(patient.Email, subject, message)
		s.logNotification(quote, patient, "email", message, err)
	}

	if patient.Phone != "" {
		s.sendMessage(quote, patient, message)
	}
}

func (s *NotifierService) sendMessage(quote *models.Quote, patient *models.User, message string) {
	// WhatsApp for E.164 numbers, plain SMS otherwise
	channel := "sms"
	to := patient.Phone
	if strings.HasPrefix(patient.Phone, "+") {
		to = "whatsapp:" + patient.Phone
		channel = "whatsapp"
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetBody(message)
	if channel == "whatsapp" {
		params.SetFrom("whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER"))
	} else {
		params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
	}

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("Failed to send %s to %s: %v", channel, patient.Phone, err)
	} else if resp.Sid != nil {
		log.Printf("%s sent to %s, SID: %s", channel, patient.Phone, *resp.Sid)
	}

	entry := models.NotificationLog{
		QuoteID:   quote.ID,
		PatientID: patient.ID,
		Channel:   channel,
		Status:    "sent",
		Message:   message,
		SentAt:    time.Now(),
	}
	if err != nil {
		entry.Status = "failed"
		entry.ErrorMessage = err.Error()
	}
	if err := s.db.Create(&entry).Error; err != nil {
		log.Printf("Failed to log notification for quote %s: %v", quote.ID, err)
	}
}

func (s *NotifierService) logNotification(quote *models.Quote, patient *models.User, channel, message string, sendErr error) {
	entry := models.NotificationLog{
		QuoteID:   quote.ID,
		PatientID: patient.ID,
		Channel:   channel,
		Status:    "sent",
		Message:   message,
		SentAt:    time.Now(),
	}
	if sendErr != nil {
		log.Printf("Failed to send %s to %s: %v", channel, patient.Email, sendErr)
		entry.Status = "failed"
		entry.ErrorMessage = sendErr.Error()
	}
	if err := s.db.Create(&entry).Error; err != nil {
		log.Printf("Failed to log notification for quote %s: %v", quote.ID, err)
	}
}
