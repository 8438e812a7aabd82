package middleware

import (
	"fmt"
	"log"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/health-chat/internal/common"
)

// Recovery converts a panic into a 500 JSON error instead of a dropped connection.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[Recovery] panic request_id=%s path=%s err=%v\n%s",
					c.GetString(RequestIDKey), c.Request.URL.Path, r, debug.Stack())
				common.Fail(c, http.StatusInternalServerError, fmt.Sprintf("Unexpected error: %v", r))
			}
		}()
		c.Next()
	}
}
