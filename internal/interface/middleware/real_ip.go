package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sanikant20/bookMandala-Server/pkg/httpmeta"
)

// RealIP sets the real client IP into Gin context (key: "real_ip") and into
// the request context for downstream consumers (audit trail).
// Priority:
// 1) CF-Connecting-IP (Cloudflare)
// 2) X-Forwarded-For (left-most)
// 3) fallback to c.ClientIP()
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		// 1) Cloudflare header
		if cf := strings.TrimSpace(c.GetHeader("CF-Connecting-IP")); cf != "" {
			if parsed := net.ParseIP(cf); parsed != nil {
				ip = parsed.String()
			}
		} else if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
			// 2) X-Forwarded-For: take left-most
			parts := strings.Split(xff, ",")
			if len(parts) > 0 {
				if parsed := net.ParseIP(strings.TrimSpace(parts[0])); parsed != nil {
					ip = parsed.String()
				}
			}
		}

		c.Set("real_ip", ip)
		ctx := httpmeta.WithClientIP(c.Request.Context(), ip)
		ctx = httpmeta.WithUserAgent(ctx, c.Request.UserAgent())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
