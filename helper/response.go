package helper

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/cookscorner/ecode"
	"github.com/ncobase/cookscorner/logging/logger"
	"github.com/ncobase/cookscorner/net/resp"
	"github.com/ncobase/cookscorner/validator"
)

// Case pairs an error with the response written when a handler sees it.
type Case struct {
	Err  error
	Resp *resp.Exception
}

// On builds a Case.
func On(err error, r *resp.Exception) Case {
	return Case{Err: err, Resp: r}
}

// Fail writes the response of the first case matching err. Password policy
// violations become a field error on field. Anything else is logged and
// answered with a 500 that does not echo the cause.
func Fail(c *gin.Context, err error, field string, cases ...Case) {
	for _, cs := range cases {
		if errors.Is(err, cs.Err) {
			resp.Fail(c.Writer, cs.Resp)
			return
		}
	}

	var pe *validator.PasswordError
	if field != "" && errors.As(err, &pe) {
		resp.Fail(c.Writer, resp.InvalidParams(ecode.Text(ecode.ParamErr), map[string]string{field: pe.Error()}))
		return
	}

	logger.Errorf(c.Request.Context(), "%s %s: %v", c.Request.Method, c.FullPath(), err)
	resp.Fail(c.Writer, &resp.Exception{
		Status:  http.StatusInternalServerError,
		Code:    ecode.ServerErr,
		Message: ecode.Text(ecode.ServerErr),
	})
}
