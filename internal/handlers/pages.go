package handlers

import (
	"github.com/P3chys/fresher-portal/internal/session"
	"github.com/gin-gonic/gin"
)

// Page renders a view that needs no data.
func Page(sm *session.Manager, view string) gin.HandlerFunc {
	return func(c *gin.Context) {
		render(c, sm, view, gin.H{"identity": session.IdentityFrom(c)})
	}
}
