package middleware

import (
	"net/http"
	"os"
	"strings"

	"hidetrade/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func GetJWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			panic("FATAL: JWT_SECRET environment variable is required in production mode")
		}
		secret = "dev_jwt_secret" // Development fallback only
	}
	return []byte(secret)
}

// RequireAdmin validates the JWT (cookie first, Authorization header
// fallback) and rejects anything without the admin role.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, cookieErr := c.Cookie("access_token")
		if cookieErr != nil || tokenString == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, response.Fail("authorization is missing"))
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, response.Fail("invalid authorization format, expected 'Bearer <token>'"))
				return
			}
			tokenString = parts[1]
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return GetJWTSecret(), nil
		})

		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Fail("invalid token"))
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Fail("invalid token claims"))
			return
		}

		role, _ := claims["role"].(string)
		if role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Fail("access denied: admin only"))
			return
		}

		c.Set("userID", claims["sub"])
		c.Set("userRole", role)

		c.Next()
	}
}

// RequireCronSecret gates the scheduled cleanup trigger behind a shared
// bearer secret in the Authorization header.
func RequireCronSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, response.Fail("cleanup trigger is not configured"))
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader != "Bearer "+secret {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Fail("invalid cleanup secret"))
			return
		}

		c.Next()
	}
}
