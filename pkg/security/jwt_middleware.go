package security

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"sklad/pkg/roles"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// Session identifies the operator of a mutating call. Handlers build it from
// the verified JWT claims and pass it down explicitly; nothing below the
// handler layer reads ambient request state.
type Session struct {
	Username    string
	DisplayName string
	Role        roles.Role
}

// JWTMiddleware validates the bearer token and stores the session claims on
// the request context.
func JWTMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return secretKey(), nil
		})

		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		claims := token.Claims.(jwt.MapClaims)
		c.Set("username", claims["username"])
		c.Set("displayName", claims["displayName"])
		c.Set("role", claims["role"])
		c.Next()
	}
}

// Authorize ensures the caller's role covers the required one.
func Authorize(requiredRole roles.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden: insufficient permissions"})
			c.Abort()
			return
		}
		userRole, ok := role.(string)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid role format"})
			c.Abort()
			return
		}

		if !roles.Role(userRole).IsValid() || !roles.Role(userRole).HasPermission(requiredRole) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden: insufficient permissions"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// SessionFromContext rebuilds the operator session stored by JWTMiddleware.
func SessionFromContext(c *gin.Context) (Session, error) {
	username, _ := c.Get("username")
	displayName, _ := c.Get("displayName")
	role, _ := c.Get("role")

	name, ok := username.(string)
	if !ok || name == "" {
		return Session{}, fmt.Errorf("no authenticated user on request")
	}

	display, _ := displayName.(string)
	if display == "" {
		display = name
	}
	roleStr, _ := role.(string)

	return Session{Username: name, DisplayName: display, Role: roles.Role(roleStr)}, nil
}
