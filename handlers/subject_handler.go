package handlers

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/aietlabs/faceattend/database"
	"github.com/aietlabs/faceattend/models"
)

type SubjectHandler struct{}

func NewSubjectHandler() *SubjectHandler { return &SubjectHandler{} }

var subReCode = regexp.MustCompile(`^[A-Za-z0-9\-]{1,20}$`)

type subjectPayload struct {
	Code     string `json:"subject_code"`
	Name     string `json:"subject_name"`
	Branch   string `json:"branch"`
	Semester int    `json:"semester"`
}

func (p *subjectPayload) normalize() {
	p.Code = strings.TrimSpace(strings.ToUpper(p.Code))
	p.Name = strings.Join(strings.Fields(p.Name), " ")
	p.Branch = strings.TrimSpace(p.Branch)
}

func validateSubject(p *subjectPayload) map[string]string {
	errs := map[string]string{}
	if p.Code == "" || !subReCode.MatchString(p.Code) {
		errs["subject_code"] = "subject code must be 1-20 letters, digits or dashes"
	}
	if strings.TrimSpace(p.Name) == "" {
		errs["subject_name"] = "subject name is required"
	}
	if strings.TrimSpace(p.Branch) == "" {
		errs["branch"] = "branch is required"
	}
	if p.Semester < 1 || p.Semester > 8 {
		errs["semester"] = "semester must be between 1 and 8"
	}
	return errs
}

// GET /subjects?branch=&semester=
func (h *SubjectHandler) List(c echo.Context) error {
	branch := strings.TrimSpace(c.QueryParam("branch"))
	semester := strings.TrimSpace(c.QueryParam("semester"))

	tx := database.DB.Model(&models.Subject{})
	if branch != "" {
		tx = tx.Where("branch = ?", branch)
	}
	if semester != "" {
		tx = tx.Where("semester = ?", atoiOr(semester, 0))
	}

	var rows []models.Subject
	if err := tx.Order("code ASC").Find(&rows).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, rows)
}

// POST /subjects
func (h *SubjectHandler) Create(c echo.Context) error {
	var p subjectPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if errs := validateSubject(&p); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_FAILED", "fields": errs})
	}

	var dup models.Subject
	if err := database.DB.Where("code = ?", p.Code).First(&dup).Error; err == nil {
		return c.JSON(http.StatusConflict, map[string]any{"error": "SUBJECT_CODE_EXISTS"})
	}

	rec := models.Subject{
		Code:     p.Code,
		Name:     p.Name,
		Branch:   p.Branch,
		Semester: p.Semester,
	}
	if err := database.DB.Create(&rec).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, rec)
}

// PUT /subjects/:id
func (h *SubjectHandler) Update(c echo.Context) error {
	var s models.Subject
	if err := database.DB.First(&s, c.Param("id")).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "SUBJECT_NOT_FOUND"})
	}

	var p subjectPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if errs := validateSubject(&p); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_FAILED", "fields": errs})
	}

	var dup models.Subject
	if err := database.DB.Where("code = ? AND id <> ?", p.Code, s.ID).First(&dup).Error; err == nil {
		return c.JSON(http.StatusConflict, map[string]any{"error": "SUBJECT_CODE_EXISTS"})
	}

	s.Code = p.Code
	s.Name = p.Name
	s.Branch = p.Branch
	s.Semester = p.Semester
	if err := database.DB.Save(&s).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, s)
}

// DELETE /subjects/:id
func (h *SubjectHandler) Delete(c echo.Context) error {
	var s models.Subject
	if err := database.DB.First(&s, c.Param("id")).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "SUBJECT_NOT_FOUND"})
	}
	if err := database.DB.Delete(&s).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{"deleted": s.ID})
}
