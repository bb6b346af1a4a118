package utils

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/keighl/postmark"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"

	"furniture-store/config"
	"furniture-store/models"
)

// Message is one outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Mailer delivers a rendered message through a provider.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// NewMailer picks the provider named in the configuration.
func NewMailer(cfg config.EmailConfig) (Mailer, error) {
	switch cfg.Provider {
	case "postmark":
		if cfg.PostmarkToken == "" {
			return nil, fmt.Errorf("POSTMARK_SERVER_TOKEN is not set")
		}
		client := postmark.NewClient(cfg.PostmarkToken, "")
		client.HTTPClient = &http.Client{Timeout: cfg.Timeout}
		return &PostmarkMailer{client: client, from: cfg.From}, nil
	case "sendgrid":
		if cfg.SendGridAPIKey == "" {
			return nil, fmt.Errorf("SENDGRID_API_KEY is not set")
		}
		return &SendGridMailer{client: sendgrid.NewSendClient(cfg.SendGridAPIKey), from: cfg.From, timeout: cfg.Timeout}, nil
	case "", "log":
		return &LogMailer{Logger: logrus.StandardLogger()}, nil
	}
	return nil, fmt.Errorf("unknown EMAIL_PROVIDER %q", cfg.Provider)
}

// PostmarkMailer handles sending emails using Postmark
type PostmarkMailer struct {
	client *postmark.Client
	from   string
}

func (m *PostmarkMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := m.client.SendEmail(postmark.Email{
		From:     m.from,
		To:       msg.To,
		Subject:  msg.Subject,
		HtmlBody: msg.HTML,
		TextBody: msg.Text,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

type SendGridMailer struct {
	client  *sendgrid.Client
	from    string
	timeout time.Duration
}

func (m *SendGridMailer) Send(ctx context.Context, msg Message) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	message := mail.NewSingleEmail(mail.NewEmail("", m.from), msg.Subject, mail.NewEmail("", msg.To), msg.Text, msg.HTML)
	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("failed to send email: sendgrid status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// LogMailer writes messages to the log instead of delivering them.
type LogMailer struct {
	Logger *logrus.Logger
}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.Logger.WithFields(logrus.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info("email (log provider)")
	m.Logger.Debug(msg.Text)
	return nil
}

// EmailService renders the transactional templates and hands them to a Mailer.
type EmailService struct {
	mailer    Mailer
	templates *Templates
	clientURL string
}

func NewEmailService(mailer Mailer, templates *Templates, clientURL string) *EmailService {
	return &EmailService{mailer: mailer, templates: templates, clientURL: clientURL}
}

func (es *EmailService) send(ctx context.Context, to, subject, name string, data map[string]interface{}) error {
	html, text, err := es.templates.Render(name, data)
	if err != nil {
		return err
	}
	return es.mailer.Send(ctx, Message{To: to, Subject: subject, HTML: html, Text: text})
}

// SendVerificationEmail sends an email verification link to the user
func (es *EmailService) SendVerificationEmail(ctx context.Context, to, name, token string) error {
	return es.send(ctx, to, "Verify your email", "verify", map[string]interface{}{
		"Name": name,
		"Link": fmt.Sprintf("%s/verify-email/%s", es.clientURL, token),
	})
}

func (es *EmailService) SendPasswordResetEmail(ctx context.Context, to, name, token string) error {
	return es.send(ctx, to, "Reset your password", "reset", map[string]interface{}{
		"Name": name,
		"Link": fmt.Sprintf("%s/reset-password/%s", es.clientURL, token),
	})
}

// SendOrderConfirmationEmail sends an order confirmation email to the user
func (es *EmailService) SendOrderConfirmationEmail(ctx context.Context, to, name string, order *models.Order) error {
	return es.send(ctx, to, "Order confirmation", "order_confirmation", map[string]interface{}{
		"Name":  name,
		"Order": order,
		"Link":  fmt.Sprintf("%s/orders/%s", es.clientURL, order.ID.Hex()),
	})
}

func (es *EmailService) SendOrderStatusEmail(ctx context.Context, to, name string, order *models.Order) error {
	return es.send(ctx, to, fmt.Sprintf("Your order is %s", order.OrderStatus), "order_status", map[string]interface{}{
		"Name":  name,
		"Order": order,
		"Link":  fmt.Sprintf("%s/orders/%s", es.clientURL, order.ID.Hex()),
	})
}

func (es *EmailService) SendAdminInviteEmail(ctx context.Context, to, token string, expiresAt time.Time) error {
	return es.send(ctx, to, "You have been invited as an administrator", "admin_invite", map[string]interface{}{
		"Link":      fmt.Sprintf("%s/admin/invite/%s", es.clientURL, token),
		"ExpiresAt": expiresAt.Format(time.RFC1123),
	})
}

func (es *EmailService) SendWorkshopRequestEmail(ctx context.Context, to string, req *models.WorkshopRequest) error {
	return es.send(ctx, to, "New workshop request from "+req.Name, "workshop_request", map[string]interface{}{
		"Request": req,
	})
}
