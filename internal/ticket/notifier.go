package ticket

import (
	"bytes"
	"fmt"
	"net/smtp"
	"strings"
	"text/template"

	"github.com/clubhousegolfcanada/ClubOS/internal/config"
	"github.com/clubhousegolfcanada/ClubOS/internal/models"
	"go.uber.org/zap"
)

// Notifier sends assignment notifications for new tickets. Returning false
// means the notification was skipped or failed; ticket creation never depends
// on it.
type Notifier interface {
	SendAssignment(contact models.Contact, ticket *models.Ticket) bool
}

var priorityColors = map[string]string{
	"low":      "#10b981",
	"medium":   "#f59e0b",
	"high":     "#ef4444",
	"critical": "#dc2626",
}

const assignmentTemplate = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <div style="background: #1a1a1a; color: white; padding: 20px; border-radius: 8px;">
    <h2 style="margin: 0 0 20px 0;">New Ticket Assignment</h2>
    <div style="background: #2a2a2a; padding: 16px; border-radius: 6px; margin-bottom: 20px;">
      <h3 style="margin: 0 0 12px 0;">Ticket Details</h3>
      <p><strong>Ticket ID:</strong> {{.Ticket.ID}}</p>
      <p><strong>Priority:</strong> <span style="color: {{.Color}}; font-weight: bold;">{{.Priority}}</span></p>
      <p><strong>Category:</strong> {{.Category}}</p>
      <p><strong>Assigned to:</strong> {{.Contact.Name}}</p>
    </div>
    <div style="background: #2a2a2a; padding: 16px; border-radius: 6px; margin-bottom: 20px;">
      <h3 style="margin: 0 0 12px 0;">Issue Description</h3>
      <p style="line-height: 1.6;">{{.Ticket.Description}}</p>
    </div>
    <div style="background: #2a2a2a; padding: 16px; border-radius: 6px; margin-bottom: 20px;">
      <h3 style="margin: 0 0 12px 0;">Recommended Next Steps</h3>
      <ol style="line-height: 1.8; padding-left: 20px;">
        {{range .Ticket.NextSteps}}<li>{{.}}</li>{{end}}
      </ol>
    </div>
    <div style="background: #152F2F; padding: 16px; border-radius: 6px; text-align: center;">
      <p style="margin: 0; font-size: 14px;">Please address this issue and update the ticket status when completed.</p>
    </div>
  </div>
</div>`

// EmailNotifier sends HTML assignment emails over SMTP with STARTTLS.
type EmailNotifier struct {
	cfg      config.SMTPConfig
	template *template.Template
	logger   *zap.Logger
}

// NewEmailNotifier creates the SMTP notifier.
func NewEmailNotifier(cfg config.SMTPConfig, logger *zap.Logger) *EmailNotifier {
	return &EmailNotifier{
		cfg:      cfg,
		template: template.Must(template.New("assignment").Parse(assignmentTemplate)),
		logger:   logger,
	}
}

// SendAssignment emails the assigned contact. Missing credentials skip the
// send rather than failing it.
func (n *EmailNotifier) SendAssignment(contact models.Contact, ticket *models.Ticket) bool {
	if n.cfg.Username == "" || n.cfg.Password == "" {
		n.logger.Info("Email credentials not configured, notification skipped",
			zap.String("ticket_id", ticket.ID))
		return false
	}

	color, ok := priorityColors[ticket.Priority]
	if !ok {
		color = "#888"
	}

	var body bytes.Buffer
	err := n.template.Execute(&body, map[string]interface{}{
		"Ticket":   ticket,
		"Contact":  contact,
		"Color":    color,
		"Priority": strings.ToUpper(ticket.Priority),
		"Category": capitalize(ticket.Category),
	})
	if err != nil {
		n.logger.Error("Failed to render notification", zap.Error(err))
		return false
	}

	subject := fmt.Sprintf("ClubOS Ticket: %s - %s Priority", ticket.ID, strings.ToUpper(ticket.Priority))
	message := buildMIMEMessage(n.cfg.FromEmail, contact.Email, subject, body.String())

	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	if err := smtp.SendMail(addr, auth, n.cfg.FromEmail, []string{contact.Email}, message); err != nil {
		n.logger.Error("Failed to send notification email",
			zap.String("ticket_id", ticket.ID),
			zap.String("to", contact.Email),
			zap.Error(err))
		return false
	}

	n.logger.Info("Notification email sent",
		zap.String("ticket_id", ticket.ID),
		zap.String("to", contact.Email))
	return true
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func buildMIMEMessage(from, to, subject, htmlBody string) []byte {
	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)
	return msg.Bytes()
}
