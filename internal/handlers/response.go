package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/P3chys/fresher-portal/internal/services"
	"github.com/P3chys/fresher-portal/internal/session"
	"github.com/gin-gonic/gin"
)

// Flash categories understood by the views.
const (
	FlashMessage = "message"
	FlashSuccess = "success"
	FlashWarning = "warning"
	FlashDanger  = "danger"
)

// render answers with the JSON view envelope, draining queued flashes.
// extra flashes belong to this response only and are never stored.
func render(c *gin.Context, sm *session.Manager, view string, data gin.H, extra ...session.Flash) {
	flashes, err := sm.PopFlashes(c)
	if err != nil {
		internalError(c, err)
		return
	}
	flashes = append(flashes, extra...)
	if flashes == nil {
		flashes = []session.Flash{}
	}
	if data == nil {
		data = gin.H{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"view":    view,
		"data":    data,
		"flashes": flashes,
	})
}

func flashRedirect(c *gin.Context, sm *session.Manager, location, category, message string) {
	if err := sm.AddFlash(c, category, message); err != nil {
		internalError(c, err)
		return
	}
	c.Redirect(http.StatusFound, location)
}

func errorResponse(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func notFound(c *gin.Context, message string) {
	errorResponse(c, http.StatusNotFound, "NOT_FOUND", message)
}

func internalError(c *gin.Context, err error) {
	_ = c.Error(err)
	errorResponse(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
}

// serviceError maps a service failure onto 404 or 500.
func serviceError(c *gin.Context, err error, notFoundMessage string) {
	if errors.Is(err, services.ErrNotFound) {
		notFound(c, notFoundMessage)
		return
	}
	internalError(c, err)
}

// pathID parses a positive integer path parameter. Non-numeric ids do not
// match any resource and answer 404.
func pathID(c *gin.Context, name, notFoundMessage string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		notFound(c, notFoundMessage)
		return 0, false
	}
	return uint(id), true
}

func batchLocation(batchID uint) string {
	return "/trainer/batch/" + strconv.FormatUint(uint64(batchID), 10)
}

// employeeBatchLocation is where trainer actions on an employee return to:
// their batch page, or the dashboard when unassigned.
func employeeBatchLocation(batchID *uint) string {
	if batchID == nil {
		return "/trainer/dashboard"
	}
	return batchLocation(*batchID)
}
