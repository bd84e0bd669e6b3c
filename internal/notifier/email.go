package notifier

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
	"strings"
	"time"
)

// Notifier delivers a rendered alert report. The engine emits structured
// data only; rendering and delivery live here.
type Notifier interface {
	Send(subject, body string) error
}

// EmailNotifier sends plain-text reports over SMTP with STARTTLS.
type EmailNotifier struct {
	Host     string
	Port     int
	From     string
	Password string
	To       string
}

// NewEmailNotifier creates an SMTP notifier.
func NewEmailNotifier(host string, port int, from, password, to string) *EmailNotifier {
	return &EmailNotifier{Host: host, Port: port, From: from, Password: password, To: to}
}

// Send sends one message to the configured recipient.
func (n *EmailNotifier) Send(subject, body string) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", n.From)
	fmt.Fprintf(&msg, "To: %s\r\n", n.To)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", n.Host, n.Port)
	auth := smtp.PlainAuth("", n.From, n.Password, n.Host)
	if err := smtp.SendMail(addr, auth, n.From, []string{n.To}, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// SendWithRetry sends a message with exponential backoff retry.
func (n *EmailNotifier) SendWithRetry(ctx context.Context, subject, body string, maxRetries int) error {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		if err := n.Send(subject, body); err != nil {
			lastErr = err
			backoff := time.Duration(1<<uint(i)) * time.Second
			log.Printf("[WARN] email send failed (attempt %d/%d): %v, retrying in %v", i+1, maxRetries+1, err, backoff)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				continue
			}
		}
		return nil
	}
	return fmt.Errorf("all %d retries exhausted: %w", maxRetries+1, lastErr)
}

// LogNotifier writes reports to the process log instead of sending them.
// Used for dry runs.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier { return &LogNotifier{} }

func (l *LogNotifier) Send(subject, body string) error {
	log.Printf("[INFO] dry run, report not sent\nSubject: %s\n%s", subject, body)
	return nil
}
