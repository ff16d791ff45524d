package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/P3chys/fresher-portal/internal/services"
	"github.com/P3chys/fresher-portal/internal/session"
	"github.com/gin-gonic/gin"
)

func markText(mark *int) string {
	if mark == nil {
		return services.StatusAbsent
	}
	return strconv.Itoa(*mark)
}

func performanceRowView(row services.PerformanceRow) gin.H {
	return gin.H{
		"employee":      row.Employee,
		"m1":            row.M1,
		"m1_status":     row.M1Status,
		"sprint":        row.Sprint,
		"sprint_status": row.SprintStatus,
		"l1":            row.L1,
		"l1_status":     row.L1Status,
		"aggregate":     row.AggregateText(),
		"final_result":  row.FinalResult,
	}
}

func BatchPerformance(performance *services.PerformanceService, sm *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id", "Batch not found")
		if !ok {
			return
		}

		report, err := performance.BatchReport(c.Request.Context(), id)
		if err != nil {
			serviceError(c, err, "Batch not found")
			return
		}

		rows := make([]gin.H, 0, len(report.Rows))
		for _, row := range report.Rows {
			rows = append(rows, performanceRowView(row))
		}

		render(c, sm, "performance", gin.H{
			"batch": report.Batch,
			"rows":  rows,
		})
	}
}

// EncodePerformanceCSV writes a report with one line per employee.
func EncodePerformanceCSV(report *services.PerformanceReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"employee_id", "name", "email", "m1", "m1_status", "sprint", "sprint_status", "l1", "l1_status", "aggregate", "final_result"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, row := range report.Rows {
		record := []string{
			strconv.FormatUint(uint64(row.Employee.ID), 10),
			row.Employee.Name,
			row.Employee.Email,
			markText(row.M1), row.M1Status,
			markText(row.Sprint), row.SprintStatus,
			markText(row.L1), row.L1Status,
			row.AggregateText(),
			row.FinalResult,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func ExportBatchPerformance(performance *services.PerformanceService, archive ReportArchive) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id", "Batch not found")
		if !ok {
			return
		}

		report, err := performance.BatchReport(c.Request.Context(), id)
		if err != nil {
			serviceError(c, err, "Batch not found")
			return
		}

		data, err := EncodePerformanceCSV(report)
		if err != nil {
			internalError(c, err)
			return
		}

		if archive != nil {
			objectName := fmt.Sprintf("batch-%d/performance-%s.csv", id, time.Now().UTC().Format("20060102T150405Z"))
			if err := archive.ArchiveReport(c.Request.Context(), objectName, data); err != nil {
				_ = c.Error(err)
			}
		}

		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="batch-%d-performance.csv"`, id))
		c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
	}
}
