package common

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OK writes payload as the JSON body with status 200.
func OK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// Fail aborts the request with {"detail": detail}.
func Fail(c *gin.Context, httpStatus int, detail string) {
	c.AbortWithStatusJSON(httpStatus, gin.H{"detail": detail})
}
