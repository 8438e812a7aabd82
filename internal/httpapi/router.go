package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/health-chat/internal/common"
	"github.com/suPer8Hu/health-chat/internal/config"
	"github.com/suPer8Hu/health-chat/internal/httpapi/handlers"
	"github.com/suPer8Hu/health-chat/internal/httpapi/middleware"
	"github.com/suPer8Hu/health-chat/internal/observability"
)

func NewRouter(h *handlers.Handler, cfg config.Config, metrics *observability.Metrics) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSAllowOrigins))

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, "Not Found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	r.GET("/ping", h.Ping)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// the web client calls both the slash and no-slash forms
	r.POST("/chat/", h.Chat)
	r.POST("/chat", h.Chat)
	r.GET("/chat/history/", h.ChatHistory)
	r.GET("/chat/history", h.ChatHistory)
	return r
}
