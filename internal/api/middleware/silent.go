package middleware

import (
	"errors"
	"log"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

// SilentLogger logs requests but ignores health probes and the "broken
// pipe" errors caused by viewers closing the tab mid-response.
func SilentLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		if path == "/health" {
			return
		}
		for _, e := range c.Errors {
			if isClientGone(e.Err) {
				return
			}
		}

		if query != "" {
			path = path + "?" + redactQuery(query)
		}

		log.Printf("[GIN] %3d | %13v | %15s | %-7s %#v",
			c.Writer.Status(),
			time.Since(start),
			c.ClientIP(),
			c.Request.Method,
			path,
		)
	}
}

// redactQuery hides the ?token= fallback accepted by RequireAuth.
func redactQuery(raw string) string {
	q, err := url.ParseQuery(raw)
	if err != nil {
		return "[unparsed query]"
	}
	if _, ok := q[tokenParam]; !ok {
		return raw
	}
	q.Set(tokenParam, "REDACTED")
	return q.Encode()
}

func isClientGone(err error) bool {
	if errors.Is(err, syscall.EPIPE) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "broken pipe") || strings.Contains(msg, "connection reset by peer")
}
