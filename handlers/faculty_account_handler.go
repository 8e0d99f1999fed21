package handlers

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/aietlabs/faceattend/database"
	"github.com/aietlabs/faceattend/models"
)

// Admin-only management of faculty accounts.
type FacultyAccountHandler struct{}

func NewFacultyAccountHandler() *FacultyAccountHandler { return &FacultyAccountHandler{} }

var facReUsername = regexp.MustCompile(`^[A-Za-z0-9_\-\.]{3,60}$`)

type facultyAccountPayload struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// GET /admin/faculty
func (h *FacultyAccountHandler) List(c echo.Context) error {
	var rows []models.Faculty
	if err := database.DB.Order("username ASC").Find(&rows).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, rows)
}

// POST /admin/faculty
func (h *FacultyAccountHandler) Create(c echo.Context) error {
	var p facultyAccountPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	p.Username = strings.TrimSpace(p.Username)
	p.Name = strings.Join(strings.Fields(p.Name), " ")
	p.Role = strings.ToLower(strings.TrimSpace(p.Role))

	if !facReUsername.MatchString(p.Username) || p.Name == "" || len(p.Password) < 6 {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "MISSING_FIELDS"})
	}
	if p.Role != models.RoleAdmin && p.Role != models.RoleFaculty {
		p.Role = models.RoleFaculty
	}

	var dup models.Faculty
	if err := database.DB.Where("username = ?", p.Username).First(&dup).Error; err == nil {
		return c.JSON(http.StatusConflict, map[string]any{"error": "USERNAME_EXISTS"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "HASH_FAILED"})
	}
	rec := models.Faculty{
		Username: p.Username,
		Name:     p.Name,
		Email:    strings.TrimSpace(strings.ToLower(p.Email)),
		Password: string(hash),
		Role:     p.Role,
	}
	if err := database.DB.Create(&rec).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, rec)
}

// POST /admin/faculty/:id/reset sets a new password for the account.
func (h *FacultyAccountHandler) ResetPassword(c echo.Context) error {
	var f models.Faculty
	if err := database.DB.First(&f, c.Param("id")).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "ACCOUNT_NOT_FOUND"})
	}

	var req struct {
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil || len(req.Password) < 6 {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "PASSWORD_TOO_SHORT"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "HASH_FAILED"})
	}
	f.Password = string(hash)
	if err := database.DB.Save(&f).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{"id": f.ID, "reset": true})
}

// DELETE /admin/faculty/:id
func (h *FacultyAccountHandler) Delete(c echo.Context) error {
	var f models.Faculty
	if err := database.DB.First(&f, c.Param("id")).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "ACCOUNT_NOT_FOUND"})
	}

	// keep at least one admin alive
	if f.Role == models.RoleAdmin {
		var admins int64
		database.DB.Model(&models.Faculty{}).Where("role = ?", models.RoleAdmin).Count(&admins)
		if admins <= 1 {
			return c.JSON(http.StatusConflict, map[string]any{"error": "LAST_ADMIN"})
		}
	}
	if err := database.DB.Delete(&f).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{"deleted": f.ID})
}
