package helper

import (
	"github.com/gin-gonic/gin"
	"github.com/ncobase/cookscorner/net/resp"
	"github.com/ncobase/cookscorner/paging"
)

// PagingParams reads ?cursor= and ?limit= from the query string.
func PagingParams(c *gin.Context) (paging.Params, bool) {
	var params paging.Params
	if err := c.ShouldBindQuery(&params); err != nil {
		resp.Fail(c.Writer, resp.InvalidParams("Invalid paging parameters.", map[string]string{"limit": "must be an integer"}))
		return params, false
	}
	if _, err := paging.DecodeCursor(params.Cursor); err != nil {
		resp.Fail(c.Writer, resp.InvalidParams("Invalid paging parameters.", map[string]string{"cursor": err.Error()}))
		return params, false
	}
	return params, true
}
