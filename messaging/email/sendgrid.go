package email

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridConfig holds the configuration for SendGrid
type SendGridConfig struct {
	Key  string
	From string
}

// SendGridSender implements Sender for SendGrid
type SendGridSender struct {
	Config *SendGridConfig
}

func (s *SendGridSender) SendTemplateEmail(ctx context.Context, recipientEmail string, template Template) (string, error) {
	from := mail.NewEmail("Cooks Corner", s.Config.From)
	to := mail.NewEmail("", recipientEmail)
	htmlContent := fmt.Sprintf("<p>%s</p><p><a href=\"%s\">%s</a></p>", template.Keyword, template.URL, template.URL)
	message := mail.NewSingleEmail(from, template.Subject, to, plainBody(template), htmlContent)

	client := sendgrid.NewSendClient(s.Config.Key)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return "", fmt.Errorf("sendgrid send: %w", err)
	}
	if response.StatusCode != http.StatusAccepted {
		return "", fmt.Errorf("sendgrid send: unexpected status code %d", response.StatusCode)
	}

	if ids := response.Headers["X-Message-Id"]; len(ids) > 0 {
		return ids[0], nil
	}
	return "", nil
}

func validateSendGridConfig(config *SendGridConfig) error {
	if config == nil || config.Key == "" || config.From == "" {
		return fmt.Errorf("%w: sendgrid requires key and from", ErrInvalidConfig)
	}
	return nil
}
