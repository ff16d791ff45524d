package handlers

import (
	"context"
	"fmt"

	"github.com/P3chys/fresher-portal/internal/models"
	"github.com/P3chys/fresher-portal/internal/services"
	"github.com/gin-gonic/gin"
)

// EmployeeIndex is the search index kept in sync with employee writes.
type EmployeeIndex interface {
	IndexEmployee(ctx context.Context, employee models.Employee) error
	SearchEmployees(ctx context.Context, query string, limit int64) ([]services.EmployeeDocument, error)
}

// ReportArchive stores copies of exported reports.
type ReportArchive interface {
	ArchiveReport(ctx context.Context, objectName string, data []byte) error
}

// InterviewNotifier tells an employee about a scheduled interview.
type InterviewNotifier interface {
	SendInterviewScheduled(employee models.Employee, allocation models.ProjectAllocation) error
}

// indexEmployee refreshes the search index. Failures are attached to the
// request and logged, the write already committed.
func indexEmployee(c *gin.Context, index EmployeeIndex, employee *models.Employee) {
	if index == nil || employee == nil {
		return
	}
	if err := index.IndexEmployee(c.Request.Context(), *employee); err != nil {
		_ = c.Error(fmt.Errorf("failed to index employee %d: %w", employee.ID, err))
	}
}
