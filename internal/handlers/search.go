package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/P3chys/fresher-portal/internal/services"
	"github.com/gin-gonic/gin"
)

// SearchEmployees queries the search index, or the database when no index
// is configured.
func SearchEmployees(employees *services.EmployeeService, index EmployeeIndex) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := strings.TrimSpace(c.Query("q"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		if limit <= 0 || limit > 100 {
			limit = 20
		}

		if index != nil {
			docs, err := index.SearchEmployees(c.Request.Context(), query, int64(limit))
			if err == nil {
				c.JSON(http.StatusOK, gin.H{"success": true, "data": docs})
				return
			}
			_ = c.Error(err)
		}

		found, err := employees.Search(c.Request.Context(), query, limit)
		if err != nil {
			internalError(c, err)
			return
		}

		docs := make([]services.EmployeeDocument, 0, len(found))
		for _, e := range found {
			docs = append(docs, services.NewEmployeeDocument(e))
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": docs})
	}
}
