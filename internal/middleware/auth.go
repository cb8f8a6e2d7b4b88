package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/identity"
	"github.com/BruksfildServices01/scoop-dispatch/internal/httperr"
)

const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
)

func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Unauthorized(c, "missing_authorization_header", "Missing authorization header.")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Unauthorized(c, "invalid_authorization_header", "Invalid authorization header.")
			c.Abort()
			return
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			httperr.Unauthorized(c, "invalid_token", "Invalid token.")
			c.Abort()
			return
		}

		userID, err := claims.GetSubject()
		role, _ := claims["role"].(string)
		if err != nil || userID == "" || !knownRole(role) {
			httperr.Unauthorized(c, "invalid_token_payload", "Invalid token payload.")
			c.Abort()
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextUserRole, role)

		c.Next()
	}
}

func knownRole(role string) bool {
	switch role {
	case identity.RoleEmployee, identity.RoleCustomer, identity.RoleAdmin:
		return true
	}
	return false
}

// Principal returns the caller stored by AuthMiddleware.
func Principal(c *gin.Context) identity.Principal {
	return identity.Principal{
		UserID: c.GetString(ContextUserID),
		Role:   c.GetString(ContextUserRole),
	}
}

// RequireRole lets admins through along with the listed roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := Principal(c)
		if p.IsAdmin() {
			c.Next()
			return
		}
		for _, r := range roles {
			if p.Role == r {
				c.Next()
				return
			}
		}
		httperr.FromError(c, httperr.Forbidden())
		c.Abort()
	}
}
