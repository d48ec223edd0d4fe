package api

import (
	"alcyxob/bodyapp/internal/domain"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// RequestLogger logs one line per request through logrus.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
			"ip":      c.ClientIP(),
		})
		if len(c.Errors) > 0 {
			entry = entry.WithField("errors", c.Errors.String())
		}
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			entry.Error("request failed")
		case status >= http.StatusBadRequest:
			entry.Warn("request rejected")
		default:
			entry.Debug("request served")
		}
	}
}

// PanicRecovery turns a handler panic into a 500 and logs the stack.
func PanicRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Errorf("http: panic serving %s: %v\n%s", c.Request.URL.Path, r, debug.Stack())
				abortWithError(c, http.StatusInternalServerError, "Internal server error.")
			}
		}()
		c.Next()
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// dateParam reads and validates a YYYY-MM-DD path parameter.
func dateParam(c *gin.Context, name string) (string, bool) {
	key := c.Param(name)
	if _, err := domain.ParseDateKey(key); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD.", key))
		return "", false
	}
	return key, true
}

// indexParam reads a non-negative integer path parameter.
// Range checks against the day's content happen in the store.
func indexParam(c *gin.Context, name string) (int, bool) {
	raw := c.Param(name)
	idx, err := strconv.Atoi(raw)
	if err != nil || idx < 0 {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s %q.", name, raw))
		return 0, false
	}
	return idx, true
}
