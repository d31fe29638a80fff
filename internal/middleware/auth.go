package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xyz-asif/civic-connect/internal/pkg/jwt"
	"github.com/xyz-asif/civic-connect/internal/pkg/response"
)

// PrincipalKey is the gin context key holding the authenticated *Principal
const PrincipalKey = "principal"

// Principal is the authenticated caller. Subject is the citizen email, the
// department code, or "admin".
type Principal struct {
	Subject    string
	Role       string
	Department string
}

// Auth requires a valid bearer credential. When adminKey is set, an exact
// X-API-Key match authenticates as admin.
func Auth(issuer *jwt.Issuer, adminKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key := c.GetHeader("X-API-Key"); adminKey != "" && key != "" {
			if subtle.ConstantTimeCompare([]byte(key), []byte(adminKey)) != 1 {
				response.Unauthorized(c, "Invalid API key", "INVALID_API_KEY")
				c.Abort()
				return
			}
			c.Set(PrincipalKey, &Principal{Subject: "admin", Role: jwt.RoleAdmin})
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header required", "AUTH_REQUIRED")
			c.Abort()
			return
		}

		// Support both "Bearer <token>" (case-insensitive) and raw token in header
		fields := strings.Fields(authHeader)
		tokenString := authHeader
		if len(fields) == 2 && strings.EqualFold(fields[0], "Bearer") {
			tokenString = fields[1]
		}

		claims, err := issuer.ValidateToken(tokenString)
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token", "INVALID_TOKEN")
			c.Abort()
			return
		}

		c.Set(PrincipalKey, &Principal{
			Subject:    claims.Subject,
			Role:       claims.Role,
			Department: claims.Department,
		})
		c.Next()
	}
}

// RequireRole aborts with 403 unless the principal holds one of roles. It must run after Auth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := CurrentPrincipal(c)
		if !ok {
			response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
			c.Abort()
			return
		}
		for _, role := range roles {
			if p.Role == role {
				c.Next()
				return
			}
		}
		response.Forbidden(c, "Insufficient permissions", "FORBIDDEN")
		c.Abort()
	}
}

// CurrentPrincipal returns the principal set by Auth
func CurrentPrincipal(c *gin.Context) (*Principal, bool) {
	v, exists := c.Get(PrincipalKey)
	if !exists {
		return nil, false
	}
	p, ok := v.(*Principal)
	return p, ok && p != nil
}
