package middleware

import (
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/tahmid-rahman/inkwell-backend/internal/apperrors"
	"github.com/tahmid-rahman/inkwell-backend/internal/models"
)

// JWTSecret resolves the signing secret from the environment.
func JWTSecret() string {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "supersecretjwtkey"
	}
	return secret
}

// JWTAuthMiddleware checks the token cookie or the Authorization bearer
// header and stores the verified actor identity in the request context.
func JWTAuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var tokenString string

			if cookie, err := c.Cookie("token"); err == nil && cookie.Value != "" {
				tokenString = cookie.Value
			} else if authHeader := c.Request().Header.Get("Authorization"); authHeader != "" {
				parts := strings.Split(authHeader, " ")
				if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
					return apperrors.Unauthorized("invalid Authorization header format")
				}
				tokenString = parts[1]
			}

			if tokenString == "" {
				return apperrors.Unauthorized("no token provided")
			}

			claims := &models.JwtCustomClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, apperrors.Unauthorized("unexpected signing method")
				}
				return []byte(JWTSecret()), nil
			})
			if err != nil || !token.Valid {
				return apperrors.Unauthorized("invalid token")
			}

			c.Set("userID", claims.UserID)
			c.Set("username", claims.Username)
			return next(c)
		}
	}
}
