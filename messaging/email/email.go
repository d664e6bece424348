package email

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Provider names accepted by NewSender.
const (
	ProviderMailgun  = "mailgun"
	ProviderSendGrid = "sendgrid"
	ProviderSMTP     = "smtp"
	ProviderLog      = "log"
)

// Email holds the configuration for all email providers
type Email struct {
	Provider string          `json:"provider" yaml:"provider"`
	Timeout  time.Duration   `json:"timeout" yaml:"timeout"`
	Mailgun  *MailgunConfig  `json:"mailgun" yaml:"mailgun"`
	SendGrid *SendGridConfig `json:"sendgrid" yaml:"sendgrid"`
	SMTP     *SMTPConfig     `json:"smtp" yaml:"smtp"`
}

// Template represents the email template
type Template struct {
	Subject  string `json:"subject"`
	Template string `json:"template"`
	Keyword  string `json:"keyword"`
	URL      string `json:"url"`
	Data     any    `json:"data"`
}

// Sender is a generic interface for sending emails
type Sender interface {
	SendTemplateEmail(ctx context.Context, recipientEmail string, template Template) (string, error)
}

// ErrInvalidConfig is returned when the selected provider is not fully configured.
var ErrInvalidConfig = errors.New("invalid email configuration")

// NewSender returns the Sender selected by cfg.Provider.
func NewSender(cfg *Email, logf func(format string, args ...any)) (Sender, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	switch cfg.Provider {
	case ProviderMailgun:
		if err := validateMailgunConfig(cfg.Mailgun); err != nil {
			return nil, err
		}
		return &MailgunSender{Config: cfg.Mailgun}, nil
	case ProviderSendGrid:
		if err := validateSendGridConfig(cfg.SendGrid); err != nil {
			return nil, err
		}
		return &SendGridSender{Config: cfg.SendGrid}, nil
	case ProviderSMTP:
		if err := validateSMTPConfig(cfg.SMTP); err != nil {
			return nil, err
		}
		return &LocalSMTPSender{Config: cfg.SMTP}, nil
	case ProviderLog, "":
		return &LogSender{Logf: logf}, nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}

// plainBody renders the text part shared by providers that do not use hosted templates.
func plainBody(template Template) string {
	if template.Keyword == "" {
		return fmt.Sprintf("%s\n\n%s\n", template.Subject, template.URL)
	}
	return fmt.Sprintf("%s\n\n%s\n%s\n", template.Subject, template.Keyword, template.URL)
}
