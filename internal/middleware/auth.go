package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireUser lets only signed-in users through; everyone else is sent to
// the user login page.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if Current(c).User == nil {
			c.Redirect(http.StatusFound, "/users")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin is RequireUser for the admin area.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if Current(c).Admin == nil {
			c.Redirect(http.StatusFound, "/admin")
			c.Abort()
			return
		}
		c.Next()
	}
}

// AnonymousOnly keeps signed-in callers away from login and signup.
func AnonymousOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if Current(c).Authenticated() {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}
