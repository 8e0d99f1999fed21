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

type AttendanceHandler struct{}

func NewAttendanceHandler() *AttendanceHandler { return &AttendanceHandler{} }

// MarkAttendance writes one attendance row per (student, subject, date).
// A same-day re-mark updates time/status in place instead of inserting a
// duplicate; the composite unique index backs this up. Returns the stored
// row and whether it was newly created. Failures propagate to the caller
// and are never retried.
func MarkAttendance(db *gorm.DB, studentID, subjectID uint, status string, now time.Time) (models.Attendance, bool, error) {
	date := now.Format("2006-01-02")
	clock := now.Format("15:04:05")

	var existing models.Attendance
	err := db.Where("student_id = ? AND subject_id = ? AND date = ?", studentID, subjectID, date).
		First(&existing).Error
	if err == nil {
		existing.Time = clock
		existing.Status = status
		existing.Synced = false
		if err := db.Save(&existing).Error; err != nil {
			return models.Attendance{}, false, err
		}
		return existing, false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return models.Attendance{}, false, err
	}

	rec := models.Attendance{
		StudentID: studentID,
		SubjectID: subjectID,
		Date:      date,
		Time:      clock,
		Status:    status,
	}
	if err := db.Create(&rec).Error; err != nil {
		return models.Attendance{}, false, err
	}
	return rec, true, nil
}

// GET /faculty/attendance?start=&end=&subject_id=&student_id=&branch=&semester=&section=&statuses=
func (h *AttendanceHandler) List(c echo.Context) error {
	start := strings.TrimSpace(c.QueryParam("start"))
	end := strings.TrimSpace(c.QueryParam("end"))
	subjectID := strings.TrimSpace(c.QueryParam("subject_id"))
	studentID := strings.TrimSpace(c.QueryParam("student_id"))
	branch := strings.TrimSpace(c.QueryParam("branch"))
	semester := strings.TrimSpace(c.QueryParam("semester"))
	section := strings.TrimSpace(c.QueryParam("section"))
	statuses := strings.TrimSpace(c.QueryParam("statuses"))

	tx := database.DB.Model(&models.Attendance{})

	// date bounds are inclusive on both ends
	if start != "" {
		tx = tx.Where("date >= ?", start)
	}
	if end != "" {
		tx = tx.Where("date <= ?", end)
	}
	if subjectID != "" {
		tx = tx.Where("subject_id = ?", subjectID)
	}
	if studentID != "" {
		tx = tx.Where("attendances.student_id = ?", studentID)
	}
	if statuses != "" {
		if parts := splitCSV(statuses); len(parts) > 0 {
			tx = tx.Where("status IN ?", parts)
		}
	}
	if branch != "" || semester != "" || section != "" {
		tx = tx.Joins("JOIN students s ON s.id = attendances.student_id")
		if branch != "" {
			tx = tx.Where("s.branch = ?", branch)
		}
		if semester != "" {
			tx = tx.Where("s.semester = ?", atoiOr(semester, 0))
		}
		if section != "" {
			tx = tx.Where("s.section = ?", section)
		}
	}

	var rows []models.Attendance
	if err := tx.Order("date DESC, time DESC, id DESC").Find(&rows).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusOK, []models.Attendance{})
		}
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, rows)
}

// POST /faculty/attendance/mark marks a single student by hand.
func (h *AttendanceHandler) Mark(c echo.Context) error {
	var req struct {
		StudentID uint   `json:"student_id"`
		SubjectID uint   `json:"subject_id"`
		Status    string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if req.StudentID == 0 || req.SubjectID == 0 {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "MISSING_FIELDS"})
	}

	status := strings.ToLower(strings.TrimSpace(req.Status))
	switch status {
	case models.StatusPresent, models.StatusAbsent, models.StatusLate:
	case "":
		status = models.StatusPresent
	default:
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_STATUS"})
	}

	var s models.Student
	if err := database.DB.First(&s, req.StudentID).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "STUDENT_NOT_FOUND"})
	}
	var sub models.Subject
	if err := database.DB.First(&sub, req.SubjectID).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "SUBJECT_NOT_FOUND"})
	}

	rec, created, err := MarkAttendance(database.DB, req.StudentID, req.SubjectID, status, time.Now())
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}

	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	return c.JSON(code, rec)
}
