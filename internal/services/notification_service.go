// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/phonebay/phonebay-backend/internal/config"
	"github.com/phonebay/phonebay-backend/internal/models"
)

type NotificationService struct {
	config *config.Config
}

func NewNotificationService(config *config.Config) *NotificationService {
	return &NotificationService{config: config}
}

var welcomeTemplate = template.Must(template.New("welcome").Parse(`
<h2>Welcome to {{.PlatformName}}, {{.Username}}!</h2>
<p>Your account is ready. Browse listings, fill your cart and check out whenever you like.</p>
`))

var orderConfirmationTemplate = template.Must(template.New("order_confirmation").Parse(`
<h2>Thanks for your order, {{.Username}}!</h2>
<p>Order <strong>{{.OrderID}}</strong> has been placed.</p>
<table>
{{range .Items}}<tr><td>{{.Title}}</td><td>x{{.Quantity}}</td><td>{{printf "%.2f" .Price}}</td></tr>
{{end}}
</table>
<p>Total: <strong>{{printf "%.2f" .Total}}</strong></p>
<p>Shipping to: {{.Address}}</p>
`))

func (s *NotificationService) SendWelcomeEmail(user *models.User) error {
	data := map[string]interface{}{
		"Username":     user.Username,
		"PlatformName": "PhoneBay",
	}

	body, err := renderTemplate(welcomeTemplate, data)
	if err != nil {
		return fmt.Errorf("failed to render welcome email: %w", err)
	}

	return s.sendEmail(user.Email, "Welcome to PhoneBay", body)
}

func (s *NotificationService) SendOrderConfirmationEmail(user *models.User, order *models.Order) error {
	data := map[string]interface{}{
		"Username": user.Username,
		"OrderID":  order.ID.String(),
		"Items":    order.Items,
		"Total":    order.TotalAmount,
		"Address":  order.Address,
	}

	body, err := renderTemplate(orderConfirmationTemplate, data)
	if err != nil {
		return fmt.Errorf("failed to render order confirmation email: %w", err)
	}

	return s.sendEmail(user.Email, "Your PhoneBay order confirmation", body)
}

func renderTemplate(tmpl *template.Template, data map[string]interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (s *NotificationService) sendEmail(to, subject, htmlBody string) error {
	if s.config.Email.SMTPUsername == "" {
		// Email is not configured; treat as a no-op in development.
		return nil
	}

	msg := fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.config.Email.FromName, s.config.Email.FromEmail, to, subject, htmlBody)

	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)
	addr := fmt.Sprintf("%s:%s", s.config.Email.SMTPHost, s.config.Email.SMTPPort)

	return smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{to}, []byte(msg))
}
