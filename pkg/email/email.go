package email

import (
	"fmt"
	"net/smtp"
	"os"
)

// SendEmail delivers a plain-text message through the SMTP server named by
// the SMTP_HOST, SMTP_PORT, SMTP_SENDER and SMTP_PASSWORD environment
// variables. Returns an error when the server is not configured, so callers
// running without mail settings can log and move on.
func SendEmail(to, subject, body string) error {
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	sender := os.Getenv("SMTP_SENDER")
	password := os.Getenv("SMTP_PASSWORD")

	if host == "" || port == "" || sender == "" {
		return fmt.Errorf("smtp is not configured")
	}

	msg := []byte(fmt.Sprintf("To: %s\r\nSubject: %s\r\n\r\n%s\r\n", to, subject, body))

	auth := smtp.PlainAuth("", sender, password, host)
	if err := smtp.SendMail(host+":"+port, auth, sender, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}
