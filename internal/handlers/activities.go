package handlers

import (
	"net/http"
	"strconv"

	"github.com/P3chys/fresher-portal/internal/services"
	"github.com/gin-gonic/gin"
)

func GetRecentActivities(activity *services.ActivityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
		if limit <= 0 {
			limit = 10
		}
		if limit > 50 {
			limit = 50
		}

		activities, err := activity.GetRecentActivities(c.Request.Context(), limit)
		if err != nil {
			internalError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": activities})
	}
}
