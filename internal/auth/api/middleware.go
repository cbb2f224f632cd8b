package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/miboks/miboks-server/internal/auth/service"
)

// VendorIDKey is the gin context key the middleware stores the acting
// vendor's ID under.
const VendorIDKey = "vendor_id"

// RequireAuth guards vendor-only routes. It expects an
// "Authorization: Bearer <token>" header.
func RequireAuth(as service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		vendorID, err := as.VerifyToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(VendorIDKey, vendorID)
		c.Next()
	}
}

// VendorID returns the authenticated vendor's ID from the request context.
func VendorID(c *gin.Context) string {
	return c.GetString(VendorIDKey)
}
