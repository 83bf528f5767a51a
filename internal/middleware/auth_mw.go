package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const LoginPath = "/login"

// RequireLogin redirects requests without an authenticated session to the login page
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentSession(c).IsAuthenticated() {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}
