package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/ncobase/cookscorner/config"
	"github.com/ncobase/cookscorner/core/account/structs"
	"github.com/ncobase/cookscorner/logging/logger"
	"github.com/ncobase/cookscorner/messaging/email"
	"github.com/ncobase/cookscorner/security/jwt"
)

// Notifier delivers an action token to the account owner.
type Notifier interface {
	Notify(ctx context.Context, account *structs.Account, purpose jwt.Purpose, token string) error
}

// EmailNotifier sends action links by email.
type EmailNotifier struct {
	sender  email.Sender
	links   *config.Links
	timeout time.Duration
}

// NewEmailNotifier creates an email notifier. A zero timeout means 30s.
func NewEmailNotifier(sender email.Sender, links *config.Links, timeout time.Duration) *EmailNotifier {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if links == nil {
		links = &config.Links{}
	}
	return &EmailNotifier{sender: sender, links: links, timeout: timeout}
}

var templates = map[jwt.Purpose]email.Template{
	jwt.PurposeVerifyAccount: {
		Subject:  "Confirm your email",
		Template: "verify-account",
		Keyword:  "Follow the link to activate your account:",
	},
	jwt.PurposeChangePassword: {
		Subject:  "Reset your password",
		Template: "change-password",
		Keyword:  "Follow the link to choose a new password:",
	},
}

// Notify builds the action link and sends it.
func (n *EmailNotifier) Notify(ctx context.Context, account *structs.Account, purpose jwt.Purpose, token string) error {
	tmpl, ok := templates[purpose]
	if !ok {
		return fmt.Errorf("no email template for %s", purpose)
	}
	base := n.links.VerifyEmail
	if purpose == jwt.PurposeChangePassword {
		base = n.links.ResetPassword
	}
	link, err := BuildLink(base, token)
	if err != nil {
		return err
	}
	tmpl.URL = link
	tmpl.Data = map[string]any{"url": link}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	id, err := n.sender.SendTemplateEmail(ctx, account.Email, tmpl)
	if err != nil {
		return err
	}
	logger.Infof(ctx, "sent %s email to account %s, message id %s", purpose, account.ID, id)
	return nil
}

// BuildLink appends token as the "token" query parameter of base.
func BuildLink(base, token string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid link %q: %w", base, err)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
