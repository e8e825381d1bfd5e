package email

import (
	"fmt"
	"net/smtp"
	"os"
)

// SendEmail sends a plain text email using SMTP.
func SendEmail(to, subject, body string) error {
	from := os.Getenv("SMTP_SENDER")
	password := os.Getenv("SMTP_PASSWORD")
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPort := os.Getenv("SMTP_PORT")

	auth := smtp.PlainAuth("", from, password, smtpHost)

	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", from, to, subject, body))

	address := smtpHost + ":" + smtpPort

	if err := smtp.SendMail(address, auth, from, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}

// SendVerificationEmail sends the account verification link to a new user.
func SendVerificationEmail(to, link string) error {
	body := fmt.Sprintf("Welcome to MindWell!\n\nPlease verify your email by clicking the link below:\n%s", link)
	return SendEmail(to, "Verify your MindWell account", body)
}
