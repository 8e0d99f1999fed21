package handlers

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/aietlabs/faceattend/database"
	"github.com/aietlabs/faceattend/models"
	"github.com/aietlabs/faceattend/vision"
)

type StudentHandler struct {
	engine *vision.Engine
}

func NewStudentHandler(engine *vision.Engine) *StudentHandler {
	return &StudentHandler{engine: engine}
}

// ===== Validation rules =====
var (
	stuReRollNo = regexp.MustCompile(`^[A-Za-z0-9\-]{1,20}$`)
	stuReName   = regexp.MustCompile(`^[A-Za-z\.\' ]{1,100}$`)
	stuReEmail  = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

type studentPayload struct {
	RollNo   string `json:"roll_no"`
	Name     string `json:"name"`
	Branch   string `json:"branch"`
	Semester int    `json:"semester"`
	Section  string `json:"section"`
	Email    string `json:"email"`
}

func (p *studentPayload) normalize() {
	p.RollNo = strings.TrimSpace(p.RollNo)
	p.Name = strings.Join(strings.Fields(p.Name), " ")
	p.Branch = strings.TrimSpace(p.Branch)
	p.Section = strings.TrimSpace(strings.ToUpper(p.Section))
	p.Email = strings.TrimSpace(strings.ToLower(p.Email))
}

func validateStudent(p *studentPayload) map[string]string {
	errs := map[string]string{}

	if p.RollNo == "" || !stuReRollNo.MatchString(p.RollNo) {
		errs["roll_no"] = "roll number must be 1-20 letters, digits or dashes"
	}
	if p.Name == "" || !stuReName.MatchString(p.Name) {
		errs["name"] = "name must contain letters only"
	}
	if strings.TrimSpace(p.Branch) == "" {
		errs["branch"] = "branch is required"
	}
	if p.Semester < 1 || p.Semester > 8 {
		errs["semester"] = "semester must be between 1 and 8"
	}
	if strings.TrimSpace(p.Section) == "" {
		errs["section"] = "section is required"
	}
	if p.Email != "" && !stuReEmail.MatchString(p.Email) {
		errs["email"] = "invalid email address"
	}
	return errs
}

// GET /students?branch=&semester=&section=&q=
func (h *StudentHandler) List(c echo.Context) error {
	branch := strings.TrimSpace(c.QueryParam("branch"))
	semester := strings.TrimSpace(c.QueryParam("semester"))
	section := strings.TrimSpace(c.QueryParam("section"))
	q := strings.TrimSpace(c.QueryParam("q"))

	tx := database.DB.Model(&models.Student{})
	if branch != "" {
		tx = tx.Where("branch = ?", branch)
	}
	if semester != "" {
		tx = tx.Where("semester = ?", atoiOr(semester, 0))
	}
	if section != "" {
		tx = tx.Where("section = ?", section)
	}
	if q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(roll_no) LIKE ? OR LOWER(name) LIKE ?", like, like)
	}

	var rows []models.Student
	if err := tx.Order("roll_no ASC").Find(&rows).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, rows)
}

// GET /students/:id
func (h *StudentHandler) Get(c echo.Context) error {
	var s models.Student
	if err := database.DB.First(&s, c.Param("id")).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "STUDENT_NOT_FOUND"})
	}
	return c.JSON(http.StatusOK, s)
}

// POST /students
func (h *StudentHandler) Create(c echo.Context) error {
	var p studentPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if errs := validateStudent(&p); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_FAILED", "fields": errs})
	}

	var dup models.Student
	if err := database.DB.Where("roll_no = ?", p.RollNo).First(&dup).Error; err == nil {
		return c.JSON(http.StatusConflict, map[string]any{"error": "ROLL_NO_EXISTS"})
	}

	rec := models.Student{
		RollNo:   p.RollNo,
		Name:     p.Name,
		Branch:   p.Branch,
		Semester: p.Semester,
		Section:  p.Section,
		Email:    p.Email,
	}
	if err := database.DB.Create(&rec).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, rec)
}

// PUT /students/:id
func (h *StudentHandler) Update(c echo.Context) error {
	var s models.Student
	if err := database.DB.First(&s, c.Param("id")).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "STUDENT_NOT_FOUND"})
	}

	var p studentPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if errs := validateStudent(&p); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_FAILED", "fields": errs})
	}

	var dup models.Student
	if err := database.DB.Where("roll_no = ? AND id <> ?", p.RollNo, s.ID).First(&dup).Error; err == nil {
		return c.JSON(http.StatusConflict, map[string]any{"error": "ROLL_NO_EXISTS"})
	}

	s.RollNo = p.RollNo
	s.Name = p.Name
	s.Branch = p.Branch
	s.Semester = p.Semester
	s.Section = p.Section
	s.Email = p.Email
	if err := database.DB.Save(&s).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, s)
}

// DELETE /students/:id
//
// Hard cascade: face samples and attendance rows go with the student, so
// reports never see dangling references. The recognizer retrains afterwards
// because the deleted labels must leave the model.
func (h *StudentHandler) Delete(c echo.Context) error {
	var s models.Student
	if err := database.DB.First(&s, c.Param("id")).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "STUDENT_NOT_FOUND"})
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", s.ID).Delete(&models.Attendance{}).Error; err != nil {
			return err
		}
		if err := tx.Where("student_id = ?", s.ID).Delete(&models.FaceSample{}).Error; err != nil {
			return err
		}
		return tx.Delete(&s).Error
	})
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}

	if h.engine != nil {
		if err := h.engine.RemoveSamples(s.ID); err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]any{"error": "SAMPLE_CLEANUP_FAILED"})
		}
		if err := retrainModel(h.engine); err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]any{"error": "RETRAIN_FAILED"})
		}
	}
	return c.JSON(http.StatusOK, map[string]any{"deleted": s.ID})
}
