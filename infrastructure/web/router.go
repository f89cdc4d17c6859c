// Package web serves the pipeline over HTTP.
package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-Id"

const requestIDKey = "request_id"

// NewRouter creates the gin engine serving h
func NewRouter(h *Handler, logger logrus.FieldLogger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), AccessLog(logger))

	r.Any("/", h.Huffduff)
	r.GET("/healthz", Healthz)

	return r
}

// RequestID assigns every request an id, reusing the caller's when present
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// AccessLog logs one entry per finished request
func AccessLog(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.WithFields(logrus.Fields{
			requestIDKey: c.GetString(requestIDKey),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start),
		}).Info("request")
	}
}

// Healthz reports that the server is up
func Healthz(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
