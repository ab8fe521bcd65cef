package handlers

import "github.com/labstack/echo/v4"

// currentUserID returns the Firebase UID stored by the auth middleware, or
// "" when the request is unauthenticated.
func currentUserID(c echo.Context) string {
	uid, _ := c.Get("firebaseUID").(string)
	return uid
}
