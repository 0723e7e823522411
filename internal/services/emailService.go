package services

import (
	"fmt"
	"html"

	"gopkg.in/gomail.v2"

	"rebelbot/internal/config"
	"rebelbot/internal/models"
)

// Notifier tells staff about new feedback.
type Notifier interface {
	NotifyFeedback(feedback *models.Feedback) error
}

type emailNotifier struct {
	from   string
	to     string
	dialer *gomail.Dialer
}

func NewEmailNotifier(cfg *config.Config) Notifier {
	return &emailNotifier{
		from:   cfg.SMTPUsername,
		to:     cfg.FeedbackNotifyEmail,
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
	}
}

func (e *emailNotifier) NotifyFeedback(feedback *models.Feedback) error {
	m := gomail.NewMessage()

	m.SetHeader("From", e.from)
	m.SetHeader("To", e.to)
	m.SetHeader("Subject", "New RebelBot feedback")
	m.SetBody("text/html", feedbackEmailBody(feedback))

	if err := e.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send feedback email: %w", err)
	}
	return nil
}

func feedbackEmailBody(f *models.Feedback) string {
	page := f.Page
	if page == "" {
		page = "unknown"
	}
	return fmt.Sprintf("<p><strong>Page:</strong> %s</p><p><strong>User:</strong> %s</p><p>%s</p>",
		html.EscapeString(page), html.EscapeString(f.UserID), html.EscapeString(f.Message))
}
