package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
)

// requestLogger logs every request and reports it to the request observer.
func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()

	elapsed := time.Since(start)
	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	status := c.Writer.Status()

	if h.requests != nil {
		h.requests.ObserveRequest(c.Request.Method, route, status, elapsed)
	}
	if h.log == nil {
		return
	}
	kv := []interface{}{
		"method", c.Request.Method,
		"route", route,
		"status", status,
		"elapsed_ms", elapsed.Milliseconds(),
	}
	switch {
	case status >= 500:
		h.log.Errorw("http_request", kv...)
	case status >= 400:
		h.log.Warnw("http_request", kv...)
	default:
		h.log.Debugw("http_request", kv...)
	}
}
