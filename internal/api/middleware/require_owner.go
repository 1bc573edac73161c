package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/jobtrack/internal/utils"
)

// RequireOwner rejects requests whose :user_id path segment is not the
// authenticated user. Collections are only reachable by their owner.
func RequireOwner(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, _ := c.Get("user_id")
		userID, _ := v.(string)

		if userID == "" || c.Param(param) != userID {
			abort(c, http.StatusForbidden, utils.CodeForbidden, "forbidden")
			return
		}
		c.Next()
	}
}
