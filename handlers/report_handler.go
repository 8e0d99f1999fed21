package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aietlabs/faceattend/database"
	"github.com/aietlabs/faceattend/reports"
)

type ReportHandler struct{}

func NewReportHandler() *ReportHandler { return &ReportHandler{} }

func reportFilter(c echo.Context) reports.Filter {
	return reports.Filter{
		StartDate: strings.TrimSpace(c.QueryParam("start")),
		EndDate:   strings.TrimSpace(c.QueryParam("end")),
		SubjectID: uint(atoiOr(c.QueryParam("subject_id"), 0)),
		StudentID: uint(atoiOr(c.QueryParam("student_id"), 0)),
		Branch:    strings.TrimSpace(c.QueryParam("branch")),
		Semester:  atoiOr(c.QueryParam("semester"), 0),
		Section:   strings.TrimSpace(c.QueryParam("section")),
	}
}

// GET /faculty/reports/attendance?format=csv|pdf|json&start=&end=&subject_id=&student_id=&branch=&semester=&section=
func (h *ReportHandler) Attendance(c echo.Context) error {
	rows, err := reports.Rows(database.DB, reportFilter(c))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}

	format := strings.ToLower(strings.TrimSpace(c.QueryParam("format")))
	stamp := time.Now().Format("20060102_150405")

	switch format {
	case "", "json":
		return c.JSON(http.StatusOK, rows)

	case "csv":
		var buf bytes.Buffer
		if err := reports.WriteCSV(&buf, rows); err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]any{"error": "EXPORT_FAILED"})
		}
		c.Response().Header().Set(echo.HeaderContentDisposition,
			fmt.Sprintf(`attachment; filename="attendance_%s.csv"`, stamp))
		return c.Blob(http.StatusOK, "text/csv", buf.Bytes())

	case "pdf":
		var buf bytes.Buffer
		if err := reports.WritePDF(&buf, rows, "Attendance Report"); err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]any{"error": "EXPORT_FAILED"})
		}
		c.Response().Header().Set(echo.HeaderContentDisposition,
			fmt.Sprintf(`attachment; filename="attendance_%s.pdf"`, stamp))
		return c.Blob(http.StatusOK, "application/pdf", buf.Bytes())
	}

	return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_FORMAT"})
}
