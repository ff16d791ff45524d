package middleware

import (
	"net/http"

	"github.com/P3chys/fresher-portal/internal/session"
	"github.com/gin-gonic/gin"
)

// LoadSession resolves the session cookie into a request identity.
func LoadSession(sm *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := sm.Attach(c); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INTERNAL_ERROR",
					"message": "Failed to load session",
				},
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RoleRequired sends anyone without the given role back to /home. When
// flashMessage is set it is queued as a warning first.
func RoleRequired(sm *session.Manager, role session.Role, flashMessage string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if session.IdentityFrom(c).Is(role) {
			c.Next()
			return
		}

		if flashMessage != "" {
			if err := sm.AddFlash(c, "warning", flashMessage); err != nil {
				_ = c.Error(err)
			}
		}
		c.Redirect(http.StatusFound, "/home")
		c.Abort()
	}
}
