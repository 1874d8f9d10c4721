package utils

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/himashiprops/estate-backend/config"
	"github.com/himashiprops/estate-backend/models"
)

// SendEmail sends an email using SendGrid and records a best-effort audit
// log in the email_logs collection. It returns the provider message id.
func SendEmail(toName, toEmail, subject, textContent, htmlContent string) (string, error) {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("SENDGRID_API_KEY is not set in environment variables")
	}

	fromEmail := config.FromEmail
	if fromEmail == "" {
		return "", fmt.Errorf("MAIL_FROM_EMAIL is not set in environment variables")
	}
	if isPlaceholderDomain(fromEmail) {
		return "", fmt.Errorf("MAIL_FROM_EMAIL must not use example.com, set it to your real domain email")
	}

	from := mail.NewEmail(config.FromName, fromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, textContent, htmlContent)
	client := sendgrid.NewSendClient(apiKey)

	response, err := client.Send(message)
	if err != nil {
		log.Printf("Error sending email to %s: %v", toEmail, err)
		logEmail(toEmail, subject, textContent, htmlContent, "", "", err.Error(), false)
		return "", err
	}

	messageID := response.Headers["X-Message-Id"]
	id := ""
	if len(messageID) > 0 {
		id = messageID[0]
	}

	if response.StatusCode >= 400 {
		log.Printf("SendGrid API Error: Status Code %d, Body: %s", response.StatusCode, response.Body)
		logEmail(toEmail, subject, textContent, htmlContent, id, response.Body, "", false)
		return "", fmt.Errorf("failed to send email, status code: %d", response.StatusCode)
	}

	logEmail(toEmail, subject, textContent, htmlContent, id, fmt.Sprintf("status %d", response.StatusCode), "", true)
	return id, nil
}

// isPlaceholderDomain reports whether the address sits on the example.com
// placeholder domain.
func isPlaceholderDomain(email string) bool {
	at := strings.LastIndex(email, "@")
	if at == -1 {
		return false
	}
	return strings.EqualFold(email[at+1:], "example.com")
}

// logEmail writes the audit record. Audit failures never surface to the
// caller; they are logged and dropped.
func logEmail(toEmail, subject, text, html, messageID, response, sendErr string, accepted bool) {
	if Client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entry := models.EmailLog{
		To:        []string{toEmail},
		Subject:   subject,
		Text:      text,
		HTML:      html,
		MessageID: messageID,
		Response:  response,
		Error:     sendErr,
		CreatedAt: time.Now(),
	}
	if accepted {
		entry.Accepted = []string{toEmail}
	} else {
		entry.Rejected = []string{toEmail}
	}

	if _, err := GetCollection("email_logs").InsertOne(ctx, entry); err != nil {
		log.Printf("Failed to write email log: %v", err)
	}
}
