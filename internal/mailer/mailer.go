package mailer

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/smtp"
	"strings"

	"hidetrade/internal/config"
)

// Attachment is a file carried inline with a message.
type Attachment struct {
	Filename    string
	Content     []byte
	ContentType string
}

// Message is an outbound email.
type Message struct {
	To          string
	Subject     string
	Text        string
	HTML        string
	Attachments []Attachment
}

// Mailer submits messages to the mail transport. Callers at best-effort
// sites catch and log failures instead of propagating them.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type smtpMailer struct {
	cfg config.SMTPConfig
}

func NewSMTP(cfg config.SMTPConfig) Mailer {
	return &smtpMailer{cfg: cfg}
}

func (m *smtpMailer) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("mail: recipient is required")
	}

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{msg.To}, buildMIME(m.cfg.From, msg)); err != nil {
		return fmt.Errorf("mail transport: %w", err)
	}
	return nil
}

// buildMIME assembles a multipart/mixed message with an alternative
// text/html body part and base64 attachments.
func buildMIME(from string, msg Message) []byte {
	const boundary = "hidetrade-mail-boundary"
	var b strings.Builder

	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + msg.To + "\r\n")
	b.WriteString("Subject: " + msg.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: multipart/mixed; boundary=\"" + boundary + "\"\r\n")
	b.WriteString("\r\n")

	body := msg.HTML
	contentType := "text/html; charset=\"UTF-8\""
	if body == "" {
		body = msg.Text
		contentType = "text/plain; charset=\"UTF-8\""
	}

	b.WriteString("--" + boundary + "\r\n")
	b.WriteString("Content-Type: " + contentType + "\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")

	for _, att := range msg.Attachments {
		contentType := att.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		b.WriteString("--" + boundary + "\r\n")
		b.WriteString("Content-Type: " + contentType + "; name=\"" + att.Filename + "\"\r\n")
		b.WriteString("Content-Transfer-Encoding: base64\r\n")
		b.WriteString("Content-Disposition: attachment; filename=\"" + att.Filename + "\"\r\n")
		b.WriteString("\r\n")

		encoded := base64.StdEncoding.EncodeToString(att.Content)
		// RFC 2045 line length limit.
		for len(encoded) > 76 {
			b.WriteString(encoded[:76] + "\r\n")
			encoded = encoded[76:]
		}
		b.WriteString(encoded + "\r\n")
	}

	b.WriteString("--" + boundary + "--\r\n")
	return []byte(b.String())
}
