package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/signalsfoundry/geo-distance/internal/logging"
	"github.com/signalsfoundry/geo-distance/internal/observability"
)

// RequestIDHeader carries the request id on requests and responses. It
// matches the gRPC metadata key.
const RequestIDHeader = "X-Request-Id"

// NewRouter builds the gin engine with recovery, request-id, access logging,
// CORS and metrics middleware installed. collector may be nil, in which case
// /metrics is not served.
func NewRouter(h *GeoHandler, log logging.Logger, collector *observability.Collector) *gin.Engine {
	if log == nil {
		log = logging.Noop()
	}

	router := gin.New()
	router.Use(RecoveryMiddleware(log))
	router.Use(RequestIDMiddleware(log))
	router.Use(LoggerMiddleware())
	router.Use(corsHandler())
	if collector != nil {
		router.Use(collector.GinMiddleware())
		router.GET("/metrics", gin.WrapH(collector.Handler()))
	}

	h.RegisterRoutes(&router.RouterGroup)
	return router
}

// RequestIDMiddleware reuses an inbound X-Request-Id or generates one, stores
// a request-scoped logger on the request context and echoes the id back.
func RequestIDMiddleware(base logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if incoming := c.GetHeader(RequestIDHeader); incoming != "" {
			ctx = logging.ContextWithRequestID(ctx, incoming)
		}
		ctx, reqLog := logging.WithRequestLogger(ctx, base.With(
			logging.String("http_method", c.Request.Method),
			logging.String("http_path", c.Request.URL.Path),
		))
		ctx = logging.ContextWithLogger(ctx, reqLog)
		c.Request = c.Request.WithContext(ctx)

		c.Header(RequestIDHeader, logging.RequestIDFromContext(ctx))
		c.Next()
	}
}

// LoggerMiddleware writes one access log record per request through the
// request-scoped logger.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ctx := c.Request.Context()
		reqLog := logging.LoggerFromContext(ctx)
		if reqLog == nil {
			return
		}
		fields := []logging.Field{
			logging.Int("status", c.Writer.Status()),
			logging.Int("bytes", c.Writer.Size()),
			logging.String("client_ip", c.ClientIP()),
			logging.Any("latency", time.Since(start).String()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, logging.String("errors", c.Errors.String()))
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			reqLog.Error(ctx, "http request", fields...)
			return
		}
		reqLog.Debug(ctx, "http request", fields...)
	}
}

// RecoveryMiddleware converts handler panics into a 500 JSON response.
func RecoveryMiddleware(log logging.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error(c.Request.Context(), "panic in HTTP handler",
			logging.String("http_path", c.Request.URL.Path),
			logging.Any("panic", recovered),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error", "code": "Internal"})
	})
}

func corsHandler() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodOptions, http.MethodHead},
		AllowHeaders: []string{
			"Origin", "Accept", "Content-Type", "Content-Length",
			RequestIDHeader,
		},
		ExposeHeaders: []string{
			"Content-Length", "Content-Type", RequestIDHeader,
		},
		MaxAge: 12 * time.Hour,
	})
}
