package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/aietlabs/faceattend/database"
	"github.com/aietlabs/faceattend/models"
)

type DashboardHandler struct{}

func NewDashboardHandler() *DashboardHandler { return &DashboardHandler{} }

// GET /faculty/dashboard/daily?date=YYYY-MM-DD&subject_id=&branch=&semester=&section=
// Returns { total, present, absent, by_branch: [...], by_subject: [...] }
func (h *DashboardHandler) Daily(c echo.Context) error {
	date := strings.TrimSpace(c.QueryParam("date"))
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	subjectID := atoiOr(c.QueryParam("subject_id"), 0)
	branch := strings.TrimSpace(c.QueryParam("branch"))
	semester := atoiOr(c.QueryParam("semester"), 0)
	section := strings.TrimSpace(c.QueryParam("section"))

	// enrolled head count under the same student filters
	studentQ := database.DB.Model(&models.Student{})
	if branch != "" {
		studentQ = studentQ.Where("branch = ?", branch)
	}
	if semester != 0 {
		studentQ = studentQ.Where("semester = ?", semester)
	}
	if section != "" {
		studentQ = studentQ.Where("section = ?", section)
	}
	var total int64
	if err := studentQ.Count(&total).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}

	// fresh chain per aggregate; GORM finalizers pollute reused statements
	presentQ := func() *gorm.DB {
		tx := database.DB.Table("attendances AS a").
			Joins("JOIN students s ON s.id = a.student_id").
			Where("a.date = ?", date).
			Where("a.status = ?", models.StatusPresent)
		if subjectID != 0 {
			tx = tx.Where("a.subject_id = ?", subjectID)
		}
		if branch != "" {
			tx = tx.Where("s.branch = ?", branch)
		}
		if semester != 0 {
			tx = tx.Where("s.semester = ?", semester)
		}
		if section != "" {
			tx = tx.Where("s.section = ?", section)
		}
		return tx
	}

	var present int64
	if err := presentQ().Distinct("a.student_id").Count(&present).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}

	type bucket struct {
		Name    string `json:"name"`
		Present int64  `json:"present"`
	}

	var byBranch []bucket
	if err := presentQ().
		Select("s.branch AS name, COUNT(DISTINCT a.student_id) AS present").
		Group("s.branch").
		Scan(&byBranch).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}

	var bySubject []bucket
	if err := presentQ().
		Joins("JOIN subjects sub ON sub.id = a.subject_id").
		Select("sub.name AS name, COUNT(DISTINCT a.student_id) AS present").
		Group("sub.name").
		Scan(&bySubject).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"date":       date,
		"total":      total,
		"present":    present,
		"absent":     total - present,
		"by_branch":  byBranch,
		"by_subject": bySubject,
	})
}
