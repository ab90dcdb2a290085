package http

import (
	"io/fs"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"webpush_demo/internal/config"
	"webpush_demo/internal/http/controller"
	"webpush_demo/internal/http/middleware"
	"webpush_demo/internal/metrics"
	"webpush_demo/web"
)

func NewRouter(cfg *config.Config, handler *controller.Handler, m *metrics.Metrics, logger *zap.Logger) (*gin.Engine, error) {
	public := web.Public()
	index, err := fs.ReadFile(public, "index.html")
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.ZapLogger(logger),
		middleware.ZapRecovery(logger),
		otelgin.Middleware(cfg.OTELServiceName),
		cors.Default(),
	)

	router.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", index)
	})
	router.StaticFileFS("/app.js", "app.js", http.FS(public))
	router.StaticFileFS("/sw.js", "sw.js", http.FS(public))

	router.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/metrics", gin.WrapH(m.Handler()))

	router.GET("/stats", handler.Stats)
	router.GET("/events", handler.Events)
	router.POST("/subscribe", handler.Subscribe)
	router.POST("/unsubscribe", handler.Unsubscribe)
	router.POST("/send-notification", handler.SendNotification)
	router.POST("/send-notification/publish", handler.PublishNotification)

	return router, nil
}
