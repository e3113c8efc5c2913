package middleware

import (
	"net/http"

	"portfolio-api/internal/models"
	"portfolio-api/internal/session"
	"portfolio-api/internal/util"

	"github.com/gin-gonic/gin"
)

// RequireLogin admits any authenticated session. It reads the session
// only; expiry refresh is the session layer's job.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := session.FromContext(c)
		if sess == nil || !sess.LoggedIn() {
			util.Fail(c, http.StatusUnauthorized, "Unauthorized")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin admits sessions that are logged in and carry the admin
// role. A logged-in session missing the role key gets a distinct message
// telling the client to re-authenticate rather than that it lacks
// permission.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := session.FromContext(c)
		if sess == nil || !sess.LoggedIn() {
			util.Fail(c, http.StatusUnauthorized, "Unauthorized")
			c.Abort()
			return
		}

		role, ok := sess.Role()
		if !ok {
			util.Fail(c, http.StatusUnauthorized, "Session expired, relogin")
			c.Abort()
			return
		}
		if role != models.RoleAdmin {
			util.Fail(c, http.StatusUnauthorized, "Unauthorized")
			c.Abort()
			return
		}
		c.Next()
	}
}
