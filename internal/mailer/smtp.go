package mailer

import (
	"context"
	"fmt"
	"mime"
	"net"
	"net/smtp"

	"github.com/preiskampf/preiskampf/internal/config"
)

type SMTPProvider struct {
	addr string
	auth smtp.Auth
	from string
}

func NewSMTPProvider(cfg *config.Config) *SMTPProvider {
	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)
	}

	return &SMTPProvider{
		addr: net.JoinHostPort(cfg.SMTPHost, cfg.SMTPPort),
		auth: auth,
		from: cfg.SMTPFrom,
	}
}

func (s *SMTPProvider) Send(ctx context.Context, email Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	header := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n",
		s.from, email.To, mime.QEncoding.Encode("utf-8", email.Subject))
	msg := []byte(header + email.Body)

	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{email.To}, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (s *SMTPProvider) Type() ProviderType { return ProviderSMTP }
func (s *SMTPProvider) IsAvailable() bool  { return s.addr != "" }
