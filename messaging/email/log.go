package email

import (
	"context"

	"github.com/google/uuid"
)

// LogSender writes the message to a log function instead of delivering it.
// It is the default provider for local development.
type LogSender struct {
	Logf func(format string, args ...any)
}

func (s *LogSender) SendTemplateEmail(_ context.Context, recipientEmail string, template Template) (string, error) {
	id := uuid.NewString()
	if s.Logf != nil {
		s.Logf("email %s to %s: %s %s", id, recipientEmail, template.Subject, template.URL)
	}
	return id, nil
}
