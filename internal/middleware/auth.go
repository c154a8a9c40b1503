package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront/internal/session"
)

// RequireAdmin redirects anonymous sessions to loginPath instead of failing.
func RequireAdmin(loginPath string, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !session.FromContext(c).Authenticated() {
			log.Warnf("Middleware: Anonymous access to %s, redirecting to %s", c.Request.URL.Path, loginPath)
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}
