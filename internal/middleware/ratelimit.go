package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// RateLimit rejects requests beyond perSecond sustained and burst instantaneous with 429.
// A perSecond of zero disables the limit.
func RateLimit(perSecond float64, burst int) gin.HandlerFunc {
	if perSecond <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst < 1 {
		burst = 1
	}

	limiter := rate.NewLimiter(rate.Limit(perSecond), burst)
	retryAfter := strconv.Itoa(int(math.Ceil(1 / perSecond)))

	return func(c *gin.Context) {
		if limiter.Allow() {
			c.Next()
			return
		}

		log.Warn().Str("requestID", RequestID(c)).Str("path", c.Request.URL.Path).Msg("Rate limit exceeded")
		c.Header("Retry-After", retryAfter)
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"success": false,
			"message": "Too many comments submitted. Please try again later.",
		})
	}
}
