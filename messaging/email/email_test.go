package email

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSender_SelectsProvider(t *testing.T) {
	cfg := &Email{
		Mailgun:  &MailgunConfig{Key: "k", Domain: "mg.example.com", From: "a@example.com"},
		SendGrid: &SendGridConfig{Key: "k", From: "a@example.com"},
		SMTP:     &SMTPConfig{SMTPHost: "localhost", SMTPPort: "25", From: "a@example.com"},
	}

	cases := map[string]any{
		ProviderMailgun:  &MailgunSender{},
		ProviderSendGrid: &SendGridSender{},
		ProviderSMTP:     &LocalSMTPSender{},
		ProviderLog:      &LogSender{},
	}
	for provider, want := range cases {
		cfg.Provider = provider
		sender, err := NewSender(cfg, nil)
		require.NoError(t, err, provider)
		assert.IsType(t, want, sender, provider)
	}
}

func TestNewSender_InvalidConfig(t *testing.T) {
	_, err := NewSender(&Email{Provider: ProviderMailgun, Mailgun: &MailgunConfig{Key: "k"}}, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewSender(&Email{Provider: ProviderSendGrid}, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewSender(&Email{Provider: "carrier-pigeon"}, nil)
	assert.Error(t, err)

	_, err = NewSender(nil, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLogSender(t *testing.T) {
	var lines []string
	s := &LogSender{Logf: func(format string, args ...any) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}}

	id, err := s.SendTemplateEmail(context.Background(), "a@x.com", Template{Subject: "Verify", URL: "http://x/verify?token=t"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "a@x.com")
	assert.Contains(t, lines[0], "http://x/verify?token=t")
}

func TestLocalSMTPSender(t *testing.T) {
	var gotAddr string
	var gotMsg []byte
	s := &LocalSMTPSender{
		Config: &SMTPConfig{SMTPHost: "mail.local", SMTPPort: "2525", From: "noreply@x.com"},
		send: func(addr string, _ smtp.Auth, _ string, _ []string, msg []byte) error {
			gotAddr = addr
			gotMsg = msg
			return nil
		},
	}

	_, err := s.SendTemplateEmail(context.Background(), "a@x.com", Template{Subject: "Reset", URL: "http://x/reset"})
	require.NoError(t, err)
	assert.Equal(t, "mail.local:2525", gotAddr)
	assert.True(t, strings.Contains(string(gotMsg), "Subject: Reset"))

	s.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("relay down") }
	_, err = s.SendTemplateEmail(context.Background(), "a@x.com", Template{})
	assert.ErrorContains(t, err, "relay down")
}

func TestLocalSMTPSender_ContextDeadline(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	s := &LocalSMTPSender{
		Config: &SMTPConfig{SMTPHost: "mail.local", SMTPPort: "25"},
		send: func(string, smtp.Auth, string, []string, []byte) error {
			<-block
			return nil
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := s.SendTemplateEmail(ctx, "a@x.com", Template{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
