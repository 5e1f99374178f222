package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"intake_backend/internal/config"
)

// SMTPProvider реализует Provider поверх gomail
type SMTPProvider struct {
	cfg *config.Config
}

// NewSMTPProvider создает новый SMTP провайдер
func NewSMTPProvider(cfg *config.Config) *SMTPProvider {
	return &SMTPProvider{cfg: cfg}
}

// Send отправляет email сообщение
func (p *SMTPProvider) Send(email *Email) error {
	if err := p.Validate(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	from := p.cfg.Email.FromEmail
	if p.cfg.Email.FromName != "" {
		from = m.FormatAddress(p.cfg.Email.FromEmail, p.cfg.Email.FromName)
	}
	m.SetHeader("From", from)
	m.SetHeader("To", email.To)
	m.SetHeader("Subject", email.Subject)

	if email.HTMLBody != "" {
		m.SetBody("text/html", email.HTMLBody)
	} else {
		m.SetBody("text/plain", email.Body)
	}

	d := gomail.NewDialer(
		p.cfg.Email.SMTPHost,
		p.cfg.Email.SMTPPort,
		p.cfg.Email.SMTPUsername,
		p.cfg.Email.SMTPPassword,
	)

	return d.DialAndSend(m)
}

// Validate проверяет конфигурацию SMTP
func (p *SMTPProvider) Validate() error {
	if p.cfg.Email.SMTPHost == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if p.cfg.Email.SMTPPort <= 0 || p.cfg.Email.SMTPPort > 65535 {
		return fmt.Errorf("invalid SMTP port: %d", p.cfg.Email.SMTPPort)
	}
	return nil
}

// NewProvider выбирает провайдера по конфигурации: без SMTP-хоста
// письма просто не отправляются.
func NewProvider(cfg *config.Config) Provider {
	if cfg.Email.SMTPHost == "" {
		return NewNoopProvider()
	}
	return NewSMTPProvider(cfg)
}
