package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/cookscorner/core/account/service"
	"github.com/ncobase/cookscorner/core/account/structs"
	"github.com/ncobase/cookscorner/ctxutil"
	"github.com/ncobase/cookscorner/ecode"
	"github.com/ncobase/cookscorner/logging/logger"
	"github.com/ncobase/cookscorner/net/resp"
)

// Authenticator resolves an access token to its account.
type Authenticator interface {
	Authenticate(ctx context.Context, access string) (*structs.Account, error)
}

// Auth requires a valid "Authorization: Bearer <access>" header and stores
// the account id in the request context.
func Auth(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			resp.Fail(c.Writer, resp.UnAuthorized(ecode.Text(ecode.NoLogin)))
			c.Abort()
			return
		}

		token = strings.TrimSpace(token)
		ctx := c.Request.Context()
		account, err := a.Authenticate(ctx, token)
		if err != nil {
			if errors.Is(err, service.ErrInvalidToken) {
				resp.Fail(c.Writer, resp.UnAuthorized("Given token not valid for any token type"))
			} else {
				logger.Errorf(ctx, "authenticate: %v", err)
				resp.Fail(c.Writer, resp.InternalServer(ecode.Text(ecode.ServerErr)))
			}
			c.Abort()
			return
		}

		ctx = ctxutil.SetAccountID(ctx, account.ID)
		ctx = ctxutil.SetToken(ctx, token)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
