package email

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
)

// SMTPConfig holds the configuration for local email sending
type SMTPConfig struct {
	SMTPHost string
	SMTPPort string
	Username string
	Password string
	From     string
}

// LocalSMTPSender implements Sender for a plain SMTP relay
type LocalSMTPSender struct {
	Config *SMTPConfig
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func (s *LocalSMTPSender) SendTemplateEmail(ctx context.Context, recipientEmail string, template Template) (string, error) {
	send := s.send
	if send == nil {
		send = smtp.SendMail
	}

	auth := smtp.PlainAuth("", s.Config.Username, s.Config.Password, s.Config.SMTPHost)
	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", s.Config.From, recipientEmail, template.Subject, plainBody(template)))

	done := make(chan error, 1)
	go func() {
		done <- send(net.JoinHostPort(s.Config.SMTPHost, s.Config.SMTPPort), auth, s.Config.From, []string{recipientEmail}, msg)
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("smtp send: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return "", fmt.Errorf("smtp send: %w", err)
		}
		return "", nil
	}
}

func validateSMTPConfig(config *SMTPConfig) error {
	if config == nil || config.SMTPHost == "" || config.SMTPPort == "" || config.From == "" {
		return fmt.Errorf("%w: smtp requires host, port and from", ErrInvalidConfig)
	}
	return nil
}
