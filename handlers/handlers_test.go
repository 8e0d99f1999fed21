package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aietlabs/faceattend/database"
	"github.com/aietlabs/faceattend/models"
)

// setupDB points the package-global connection at a fresh in-memory
// database. Each test gets its own named memory instance so state never
// leaks between tests.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })
	return db
}

func seedStudent(t *testing.T, db *gorm.DB, rollNo, name string) models.Student {
	t.Helper()
	s := models.Student{
		RollNo:   rollNo,
		Name:     name,
		Branch:   "CSE",
		Semester: 5,
		Section:  "A",
	}
	require.NoError(t, db.Create(&s).Error)
	return s
}

func seedSubject(t *testing.T, db *gorm.DB, code, name string) models.Subject {
	t.Helper()
	s := models.Subject{
		Code:     code,
		Name:     name,
		Branch:   "CSE",
		Semester: 5,
	}
	require.NoError(t, db.Create(&s).Error)
	return s
}

func seedFaculty(t *testing.T, db *gorm.DB, username, password, role string) models.Faculty {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	f := models.Faculty{
		Username: username,
		Name:     "Test Faculty",
		Password: string(hash),
		Role:     role,
	}
	require.NoError(t, db.Create(&f).Error)
	return f
}

// newJSONContext builds an echo context around a JSON body.
func newJSONContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func newGETContext(t *testing.T, target string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	return newJSONContext(t, http.MethodGet, target, "")
}
