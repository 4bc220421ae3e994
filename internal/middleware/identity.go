package middleware

// identity.go provides the user-identity helper shared by the rate limiter.
// Unauthenticated requests bucket together as "guest".

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// contextUserID returns a stable identifier for the authenticated user, or
// "guest" when the request carries no valid token.  JWTAuth stores the raw
// claim value under "user_id"; its concrete type depends on the JSON decoder
// so it is formatted rather than asserted.
func contextUserID(c echo.Context) string {
	v := c.Get("user_id")
	if v == nil {
		return "guest"
	}
	return fmt.Sprint(v)
}
