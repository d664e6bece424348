package email

import (
	"context"
	"fmt"

	"github.com/mailgun/mailgun-go/v4"
)

// MailgunConfig holds the configuration for Mailgun
type MailgunConfig struct {
	Key    string
	Domain string
	From   string
}

// MailgunSender implements Sender for Mailgun
type MailgunSender struct {
	Config *MailgunConfig
}

// SendTemplateEmail sends through a Mailgun hosted template when one is named,
// otherwise as a plain text message.
func (s *MailgunSender) SendTemplateEmail(ctx context.Context, recipientEmail string, template Template) (string, error) {
	mg := mailgun.NewMailgun(s.Config.Domain, s.Config.Key)

	message := mg.NewMessage(s.Config.From, template.Subject, plainBody(template))
	if template.Template != "" {
		message.SetTemplate(template.Template)
		_ = message.AddVariable("keyword", template.Keyword)
		_ = message.AddVariable("url", template.URL)
	}
	if err := message.AddRecipient(recipientEmail); err != nil {
		return "", fmt.Errorf("mailgun recipient: %w", err)
	}

	_, id, err := mg.Send(ctx, message)
	if err != nil {
		return "", fmt.Errorf("mailgun send: %w", err)
	}
	return id, nil
}

func validateMailgunConfig(config *MailgunConfig) error {
	if config == nil || config.Key == "" || config.Domain == "" || config.From == "" {
		return fmt.Errorf("%w: mailgun requires key, domain and from", ErrInvalidConfig)
	}
	return nil
}
