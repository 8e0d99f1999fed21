package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aietlabs/faceattend/database"
	"github.com/aietlabs/faceattend/models"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seed(t *testing.T, db *gorm.DB, dates []string) (models.Student, models.Subject) {
	t.Helper()
	student := models.Student{RollNo: "4AL21CS010", Name: "Ganesh Bhat", Branch: "CSE", Semester: 5, Section: "A"}
	require.NoError(t, db.Create(&student).Error)
	subject := models.Subject{Code: "21CS56", Name: "Computer Graphics", Branch: "CSE", Semester: 5}
	require.NoError(t, db.Create(&subject).Error)

	for _, d := range dates {
		require.NoError(t, db.Create(&models.Attendance{
			StudentID: student.ID,
			SubjectID: subject.ID,
			Date:      d,
			Time:      "09:00:00",
			Status:    "present",
		}).Error)
	}
	return student, subject
}

func TestRowsDateRangeInclusive(t *testing.T) {
	db := setupDB(t)
	seed(t, db, []string{"2026-02-27", "2026-02-28", "2026-03-01", "2026-03-02"})

	rows, err := Rows(db, Filter{StartDate: "2026-02-28", EndDate: "2026-03-01"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// newest first; both boundary dates included
	assert.Equal(t, "2026-03-01", rows[0].Date)
	assert.Equal(t, "2026-02-28", rows[1].Date)
}

func TestRowsJoinsStudentAndSubject(t *testing.T) {
	db := setupDB(t)
	student, subject := seed(t, db, []string{"2026-03-02"})

	rows, err := Rows(db, Filter{SubjectID: subject.ID, StudentID: student.ID})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, student.RollNo, rows[0].RollNo)
	assert.Equal(t, student.Name, rows[0].StudentName)
	assert.Equal(t, subject.Code, rows[0].SubjectCode)
	assert.Equal(t, subject.Name, rows[0].SubjectName)
	assert.Equal(t, "present", rows[0].Status)
}

func TestRowsFilterMismatchReturnsEmpty(t *testing.T) {
	db := setupDB(t)
	seed(t, db, []string{"2026-03-02"})

	rows, err := Rows(db, Filter{Branch: "ECE"})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestWriteCSVRoundTrip(t *testing.T) {
	rows := []Row{
		{RollNo: "4AL21CS001", StudentName: "Asha Rao", Branch: "CSE", Semester: 5, Section: "A",
			SubjectCode: "21CS51", SubjectName: "Computer Networks", Date: "2026-03-02", Time: "09:00:00", Status: "present"},
		{RollNo: "4AL21CS002", StudentName: "Rohit, Jr.", Branch: "CSE", Semester: 5, Section: "B",
			SubjectCode: "21CS51", SubjectName: "Computer Networks", Date: "2026-03-02", Time: "09:05:00", Status: "late"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	parsed, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, parsed, len(rows)+1) // header + data

	assert.Equal(t, csvHeader, parsed[0])
	for i, r := range rows {
		rec := parsed[i+1]
		assert.Equal(t, r.RollNo, rec[0])
		assert.Equal(t, r.StudentName, rec[1])
		assert.Equal(t, fmt.Sprintf("%d", r.Semester), rec[3])
		assert.Equal(t, r.Date, rec[7])
		assert.Equal(t, r.Status, rec[9])
	}
}

func TestWritePDFProducesDocument(t *testing.T) {
	rows := []Row{
		{RollNo: "4AL21CS001", StudentName: "Asha Rao", SubjectID: 1, SubjectCode: "21CS51",
			SubjectName: "Computer Networks", Date: "2026-03-02", Time: "09:00:00", Status: "present"},
	}

	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, rows, "Attendance Report"))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestSingleSession(t *testing.T) {
	same := []Row{
		{SubjectID: 1, SubjectName: "CN", SubjectCode: "21CS51", Date: "2026-03-02"},
		{SubjectID: 1, SubjectName: "CN", SubjectCode: "21CS51", Date: "2026-03-02"},
	}
	subject, date, ok := singleSession(same)
	assert.True(t, ok)
	assert.Equal(t, "CN (21CS51)", subject)
	assert.Equal(t, "2026-03-02", date)

	mixed := append(same, Row{SubjectID: 2, Date: "2026-03-02"})
	_, _, ok = singleSession(mixed)
	assert.False(t, ok)

	_, _, ok = singleSession(nil)
	assert.False(t, ok)
}
