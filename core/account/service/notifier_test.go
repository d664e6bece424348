package service

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/ncobase/cookscorner/config"
	"github.com/ncobase/cookscorner/core/account/structs"
	"github.com/ncobase/cookscorner/security/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLink(t *testing.T) {
	link, err := BuildLink("https://cookscorner.app/verify?lang=en", "a.b.c")
	require.NoError(t, err)

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "a.b.c", u.Query().Get("token"))
	assert.Equal(t, "en", u.Query().Get("lang"))

	_, err = BuildLink("http://[::1", "x")
	assert.Error(t, err)
}

func TestEmailNotifier(t *testing.T) {
	sender := &fakeSender{}
	n := NewEmailNotifier(sender, &config.Links{
		VerifyEmail:   "https://cookscorner.app/verify",
		ResetPassword: "https://cookscorner.app/reset",
	}, time.Second)
	account := &structs.Account{ID: "acc-1", Email: "a@x.com"}

	require.NoError(t, n.Notify(context.Background(), account, jwt.PurposeChangePassword, "tok"))
	assert.Equal(t, "a@x.com", sender.to)
	assert.Equal(t, "change-password", sender.template.Template)
	assert.Equal(t, "https://cookscorner.app/reset?token=tok", sender.template.URL)

	require.NoError(t, n.Notify(context.Background(), account, jwt.PurposeVerifyAccount, "tok"))
	assert.Equal(t, "https://cookscorner.app/verify?token=tok", sender.template.URL)

	assert.Error(t, n.Notify(context.Background(), account, jwt.PurposeAccess, "tok"))

	sender.err = errDelivery
	assert.ErrorIs(t, n.Notify(context.Background(), account, jwt.PurposeVerifyAccount, "tok"), errDelivery)
}
