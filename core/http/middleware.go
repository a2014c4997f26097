// Package http provides shared gin middleware for plantd HTTP surfaces.
package http

import (
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// LoggerMiddleware returns a gin.HandlerFunc that logs one structured line
// per request via logrus, then lets the request continue.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		uri := c.Request.URL.RequestURI()
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		log.WithFields(log.Fields{
			"status":     status,
			"latency":    latency,
			"client_ip":  c.ClientIP(),
			"req_method": method,
			"req_uri":    uri,
		}).Infof("status=%d method=%s uri=%s latency=%s", status, method, uri, latency)
	}
}
