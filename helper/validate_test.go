package helper

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/cookscorner/core/account/structs"
	"github.com/stretchr/testify/assert"
)

func newContext(body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestBindBody_TrimsEmail(t *testing.T) {
	c, _ := newContext(`{"username":"a","email":"  a@x.com ","password":"p","password_confirm":"p"}`)
	body := &structs.SignupBody{}
	assert.True(t, BindBody(c, body))
	assert.Equal(t, "a@x.com", body.Email)
}

func TestBindBody_Rejects(t *testing.T) {
	c, w := newContext(`{"email":"not-an-email"}`)
	assert.False(t, BindBody(c, &structs.SignupBody{}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "must be a valid email address")

	c, w = newContext(`{`)
	assert.False(t, BindBody(c, &structs.LoginBody{}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
