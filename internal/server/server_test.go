package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/cookscorner/config"
	"github.com/ncobase/cookscorner/crypto"
	"github.com/ncobase/cookscorner/data/datatest"
	"github.com/ncobase/cookscorner/messaging/email"
	"github.com/ncobase/cookscorner/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type outbox struct {
	mu   sync.Mutex
	sent map[string][]email.Template
}

func (o *outbox) SendTemplateEmail(_ context.Context, to string, tpl email.Template) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.sent == nil {
		o.sent = make(map[string][]email.Template)
	}
	o.sent[to] = append(o.sent[to], tpl)
	return "id", nil
}

// token extracts the token query parameter of the last link mailed to addr.
func (o *outbox) token(t *testing.T, addr string) string {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	msgs := o.sent[addr]
	require.NotEmpty(t, msgs, "no mail for %s", addr)
	u, err := url.Parse(msgs[len(msgs)-1].URL)
	require.NoError(t, err)
	return u.Query().Get("token")
}

func testConfig() *config.Config {
	policy := validator.DefaultPasswordPolicy()
	return &config.Config{
		RunMode: gin.TestMode,
		Auth: &config.Auth{
			JWT: &config.JWT{
				Secret:        "server-test-secret",
				AccessExpire:  time.Minute,
				RefreshExpire: time.Hour,
				ActionExpire:  time.Hour,
			},
			Password: &config.Password{
				MinLength:     policy.MinLength,
				MaxLength:     policy.MaxLength,
				RequireUpper:  policy.RequireUpper,
				RequireLower:  policy.RequireLower,
				RequireDigit:  policy.RequireDigit,
				RejectNumeric: policy.RejectNumeric,
				RejectCommon:  policy.RejectCommon,
			},
			ResetCheck: "stored_code",
		},
		Links: &config.Links{
			VerifyEmail:   "http://localhost/api/v1/email-verify",
			ResetPassword: "http://localhost/reset",
		},
		Email: &email.Email{Provider: email.ProviderLog, Timeout: time.Second},
	}
}

type client struct {
	t *testing.T
	h http.Handler
}

func (c client) do(method, path, access string, body any) (int, map[string]any) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}
	w := httptest.NewRecorder()
	c.h.ServeHTTP(w, req)

	out := map[string]any{}
	if w.Body.Len() > 0 {
		require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w.Code, out
}

func newTestServer(t *testing.T) (client, *outbox) {
	t.Helper()
	prev, err := crypto.SetCost(bcrypt.MinCost)
	require.NoError(t, err)
	t.Cleanup(func() { _, _ = crypto.SetCost(prev) })

	mail := &outbox{}
	s, err := New(testConfig(), datatest.NewSQLite(t), mail)
	require.NoError(t, err)
	return client{t: t, h: s.Handler()}, mail
}

func TestNewRejectsMissingAuth(t *testing.T) {
	_, err := New(&config.Config{}, datatest.NewSQLite(t), &outbox{})
	assert.Error(t, err)

	cfg := testConfig()
	cfg.Auth.ResetCheck = "sometimes"
	_, err = New(cfg, datatest.NewSQLite(t), &outbox{})
	assert.Error(t, err)
}

func TestHealthAndNoRoute(t *testing.T) {
	c, _ := newTestServer(t)

	code, body := c.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body["status"])

	code, body = c.do(http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Not found.", body["Error"])
}

func TestAccountLifecycle(t *testing.T) {
	c, mail := newTestServer(t)
	const api = APIPrefix

	code, body := c.do(http.MethodPost, api+"/signup", "", map[string]string{
		"username":         "Julia Child",
		"email":            "a@x.com",
		"password":         "Str0ngPW!",
		"password_confirm": "Str0ngPW!",
	})
	require.Equal(t, http.StatusCreated, code, body)
	assert.NotEmpty(t, body["access"])
	assert.NotEmpty(t, body["refresh"])

	code, body = c.do(http.MethodPost, api+"/signup", "", map[string]string{
		"username":         "Julia",
		"email":            "a@x.com",
		"password":         "Str0ngPW!",
		"password_confirm": "Str0ngPW!",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "User with this email already exists.", body["Error"])

	code, body = c.do(http.MethodPost, api+"/login", "", map[string]string{"email": "a@x.com", "password": "wrong"})
	assert.Equal(t, http.StatusBadRequest, code, body)

	code, body = c.do(http.MethodPost, api+"/login", "", map[string]string{"email": "a@x.com", "password": "Str0ngPW!"})
	require.Equal(t, http.StatusOK, code, body)
	access := body["access"].(string)
	refresh := body["refresh"].(string)

	code, body = c.do(http.MethodGet, api+"/recipes/missing", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code, body)

	code, body = c.do(http.MethodGet, api+"/recipes/missing", access, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Recipe is not found.", body["Error"])

	// unverified accounts cannot publish
	recipe := map[string]any{
		"name":             "Pancakes",
		"description":      "Fluffy",
		"preparation_time": 20,
		"ingredients":      []map[string]string{{"name": "Flour", "amount": "200 g"}},
	}
	code, body = c.do(http.MethodPost, api+"/recipes", access, recipe)
	assert.Equal(t, http.StatusForbidden, code, body)

	code, body = c.do(http.MethodGet, api+"/email-verify?token="+url.QueryEscape(mail.token(t, "a@x.com")), "", nil)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "User successfully verified", body["Message"])

	code, body = c.do(http.MethodPost, api+"/recipes", access, recipe)
	require.Equal(t, http.StatusCreated, code, body)

	code, body = c.do(http.MethodGet, api+"/recipes/pancakes", access, nil)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "Pancakes", body["name"])
	assert.Len(t, body["ingredients"], 1)

	code, body = c.do(http.MethodPost, api+"/login/refresh", "", map[string]string{"refresh": refresh})
	require.Equal(t, http.StatusOK, code, body)
	assert.NotEmpty(t, body["access"])

	code, body = c.do(http.MethodPost, api+"/logout", access, map[string]string{"refresh": refresh})
	require.Equal(t, http.StatusOK, code, body)

	code, body = c.do(http.MethodPost, api+"/login/refresh", "", map[string]string{"refresh": refresh})
	assert.Equal(t, http.StatusUnauthorized, code, body)
	assert.Equal(t, "Token is invalid or expired", body["Error"])
}

func TestPasswordReset(t *testing.T) {
	c, mail := newTestServer(t)
	const api = APIPrefix

	code, _ := c.do(http.MethodPost, api+"/signup", "", map[string]string{
		"username":         "Reset Me",
		"email":            "r@x.com",
		"password":         "Str0ngPW!",
		"password_confirm": "Str0ngPW!",
	})
	require.Equal(t, http.StatusCreated, code)

	code, body := c.do(http.MethodPost, api+"/forgot-password", "", map[string]string{"email": "r@x.com"})
	require.Equal(t, http.StatusOK, code, body)

	code, body = c.do(http.MethodPost, api+"/forgot-password/change?token="+url.QueryEscape(mail.token(t, "r@x.com")), "", map[string]string{
		"password":         "N3wPassw0rd",
		"password_confirm": "N3wPassw0rd",
	})
	require.Equal(t, http.StatusOK, code, body)

	code, _ = c.do(http.MethodPost, api+"/login", "", map[string]string{"email": "r@x.com", "password": "N3wPassw0rd"})
	assert.Equal(t, http.StatusOK, code)
}

func TestSignupTrimsEmail(t *testing.T) {
	c, _ := newTestServer(t)

	code, body := c.do(http.MethodPost, APIPrefix+"/signup", "", map[string]string{
		"username":         "Spaced",
		"email":            "  B@x.com ",
		"password":         "Str0ngPW!",
		"password_confirm": "Str0ngPW!",
	})
	require.Equal(t, http.StatusCreated, code, body)

	code, body = c.do(http.MethodPost, APIPrefix+"/login", "", map[string]string{"email": " b@x.com", "password": "Str0ngPW!"})
	assert.Equal(t, http.StatusOK, code, body)
}
