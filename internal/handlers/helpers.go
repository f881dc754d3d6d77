package handlers

import "github.com/labstack/echo/v4"

// getUserIDFromContext returns the verified actor identity stored by the auth
// middleware, or "" when the request is unauthenticated.
func getUserIDFromContext(c echo.Context) string {
	if id, ok := c.Get("userID").(string); ok {
		return id
	}
	return ""
}
