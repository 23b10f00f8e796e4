package mailer

import (
	"atman/src/config"
	"fmt"

	"github.com/wneessen/go-mail"
)

type SendMailInput struct {
	To      string
	Subject string
	Body    string
}

// Send delivers a plain-text notification over SMTP. Callers treat delivery
// as best-effort and only log failures.
func Send(cfg *config.Config, input *SendMailInput) error {
	if !cfg.MailEnabled() {
		return nil
	}
	m := mail.NewMsg()
	if err := m.From(cfg.MailFrom); err != nil {
		return err
	}
	if err := m.To(input.To); err != nil {
		return err
	}
	m.Subject(input.Subject)
	m.SetBodyString(mail.TypeTextPlain, input.Body)

	client, err := mail.NewClient(
		cfg.SMTPHost,
		mail.WithPort(cfg.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.SMTPUser),
		mail.WithPassword(cfg.SMTPPass),
	)
	if err != nil {
		return fmt.Errorf("error creating mail client: %s", err.Error())
	}
	return client.DialAndSend(m)
}

// NotifyAdmin sends to the configured studio administrator address.
func NotifyAdmin(cfg *config.Config, subject, body string) error {
	if cfg.AdminEmail == "" {
		return nil
	}
	return Send(cfg, &SendMailInput{
		To:      cfg.AdminEmail,
		Subject: subject,
		Body:    body,
	})
}
