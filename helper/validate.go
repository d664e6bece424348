package helper

import (
	"github.com/gin-gonic/gin"
	"github.com/ncobase/cookscorner/ecode"
	"github.com/ncobase/cookscorner/net/resp"
	"github.com/ncobase/cookscorner/validator"
)

// Validate maps struct validation failures to JSON field names.
var Validate = validator.ValidateStruct

// ShouldBindAndValidateStruct decodes the JSON body into obj and validates it.
// obj must be a pointer to a struct.
func ShouldBindAndValidateStruct(c *gin.Context, obj any) (map[string]string, error) {
	if err := c.ShouldBindJSON(obj); err != nil {
		return nil, err
	}
	if n, ok := obj.(normalizer); ok {
		n.Normalize()
	}
	return Validate(obj), nil
}

// normalizer is implemented by bodies that clean their fields before validation.
type normalizer interface {
	Normalize()
}

// BindBody binds and validates obj and writes a 400 when either step fails.
// It reports whether the handler may continue.
func BindBody(c *gin.Context, obj any) bool {
	fields, err := ShouldBindAndValidateStruct(c, obj)
	if err != nil {
		resp.Fail(c.Writer, resp.BadRequest(ecode.Text(ecode.RequestErr)))
		return false
	}
	if len(fields) > 0 {
		resp.Fail(c.Writer, resp.InvalidParams(ecode.Text(ecode.ParamErr), fields))
		return false
	}
	return true
}
