package rest

import (
	"net/http"
	"time"

	"github.com/Badsnus/qrlabels/pkg/logger/types"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterOptions struct {
	// Mode is "dev" or "release". dev enables CORS for AllowOrigins.
	Mode         string
	AllowOrigins []string
}

func NewRouter(opts RouterOptions, sheets SheetService, qrs QrService, log *types.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(requestLogger(log), gin.Recovery())
	_ = r.SetTrustedProxies(nil)

	if opts.Mode == "dev" {
		origins := opts.AllowOrigins
		if len(origins) == 0 {
			origins = []string{"http://localhost:3000"}
		}
		r.Use(cors.New(cors.Config{
			AllowOrigins:  origins,
			AllowHeaders:  []string{"Origin", "Content-Type"},
			ExposeHeaders: exposedHeaders,
			AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
			MaxAge:        12 * time.Hour,
		}))
	}

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	api := r.Group("/api/v1")
	RegisterRoutes(api, sheets, qrs)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorBody(CodeNotFound, "route not found"))
	})
	return r
}

func requestLogger(log *types.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []interface{}{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start),
			"ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}
		switch {
		case status >= http.StatusInternalServerError:
			log.Errorw("request", fields...)
		case status >= http.StatusBadRequest:
			log.Warnw("request", fields...)
		default:
			log.Infow("request", fields...)
		}
	}
}
