// Package notifications delivers out-of-band alerts for board activity.
package notifications

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"anonboard/internal/models"
	"anonboard/internal/observability"
)

// previewLength caps how much post content the notification mail carries.
const previewLength = 300

// MailerConfig holds SMTP connection settings and the fixed recipient.
type MailerConfig struct {
	Host string
	Port int
	User string
	Pass string
	Dest string
}

// Mailer sends a notification mail for every new post. Delivery runs on
// its own goroutine and never blocks or fails the request that created
// the post.
type Mailer struct {
	cfg  MailerConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewMailer creates a Mailer from SMTP settings.
func NewMailer(cfg MailerConfig) *Mailer {
	return &Mailer{cfg: cfg, send: smtp.SendMail}
}

// NotifyNewPost dispatches the notification mail asynchronously.
func (m *Mailer) NotifyNewPost(post *models.Post) {
	go m.deliver(post)
}

func (m *Mailer) deliver(post *models.Post) {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)

	msg := m.compose(post)
	if err := m.send(addr, auth, m.cfg.User, []string{m.cfg.Dest}, msg); err != nil {
		observability.MailDeliveries.WithLabelValues("error").Inc()
		observability.Logger.Error("notification mail failed",
			slog.String("post_id", post.ID),
			slog.String("error", err.Error()))
		return
	}
	observability.MailDeliveries.WithLabelValues("success").Inc()
	observability.Logger.Info("notification mail sent", slog.String("post_id", post.ID))
}

func (m *Mailer) compose(post *models.Post) []byte {
	subject := "New post: " + post.Title
	if len(post.Tags) > 0 {
		subject = fmt.Sprintf("New post: [%s] %s", strings.Join(post.Tags, ", "), post.Title)
	}

	preview := []rune(post.Content)
	if len(preview) > previewLength {
		preview = append(preview[:previewLength], []rune("...")...)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.cfg.User)
	fmt.Fprintf(&b, "To: %s\r\n", m.cfg.Dest)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "Author: %s\r\n\r\n", post.DisplayAuthor)
	b.WriteString(string(preview))
	b.WriteString("\r\n")

	return []byte(b.String())
}
