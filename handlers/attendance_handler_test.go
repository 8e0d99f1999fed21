package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aietlabs/faceattend/models"
)

func TestMarkAttendanceIdempotent(t *testing.T) {
	db := setupDB(t)
	student := seedStudent(t, db, "4AL21CS001", "Asha Rao")
	subject := seedSubject(t, db, "21CS51", "Computer Networks")

	first := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	rec1, created1, err := MarkAttendance(db, student.ID, subject.ID, models.StatusPresent, first)
	require.NoError(t, err)
	assert.True(t, created1)
	assert.Equal(t, "2026-03-02", rec1.Date)
	assert.Equal(t, "09:00:00", rec1.Time)

	// same day, later time: the row is updated in place, never duplicated
	second := time.Date(2026, 3, 2, 11, 30, 0, 0, time.UTC)
	rec2, created2, err := MarkAttendance(db, student.ID, subject.ID, models.StatusLate, second)
	require.NoError(t, err)
	assert.False(t, created2)
	assert.Equal(t, rec1.ID, rec2.ID)
	assert.Equal(t, "11:30:00", rec2.Time)
	assert.Equal(t, models.StatusLate, rec2.Status)

	var count int64
	require.NoError(t, db.Model(&models.Attendance{}).
		Where("student_id = ? AND subject_id = ? AND date = ?", student.ID, subject.ID, "2026-03-02").
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestMarkAttendanceSeparateDays(t *testing.T) {
	db := setupDB(t)
	student := seedStudent(t, db, "4AL21CS002", "Rohit Shetty")
	subject := seedSubject(t, db, "21CS52", "Operating Systems")

	_, created1, err := MarkAttendance(db, student.ID, subject.ID, models.StatusPresent,
		time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, created1)

	_, created2, err := MarkAttendance(db, student.ID, subject.ID, models.StatusPresent,
		time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, created2)

	var count int64
	require.NoError(t, db.Model(&models.Attendance{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestAttendanceMarkHandler(t *testing.T) {
	db := setupDB(t)
	student := seedStudent(t, db, "4AL21CS003", "Meera Pai")
	subject := seedSubject(t, db, "21CS53", "Database Systems")
	h := NewAttendanceHandler()

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{
			name:     "valid mark",
			body:     fmt.Sprintf(`{"student_id":%d,"subject_id":%d,"status":"present"}`, student.ID, subject.ID),
			wantCode: http.StatusCreated,
		},
		{
			name:     "remark same day returns 200",
			body:     fmt.Sprintf(`{"student_id":%d,"subject_id":%d,"status":"late"}`, student.ID, subject.ID),
			wantCode: http.StatusOK,
		},
		{
			name:     "missing fields",
			body:     `{"status":"present"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "invalid status",
			body:     fmt.Sprintf(`{"student_id":%d,"subject_id":%d,"status":"vanished"}`, student.ID, subject.ID),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown student",
			body:     fmt.Sprintf(`{"student_id":99999,"subject_id":%d,"status":"present"}`, subject.ID),
			wantCode: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newJSONContext(t, http.MethodPost, "/faculty/attendance/mark", tt.body)
			require.NoError(t, h.Mark(c))
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestAttendanceListDateRangeInclusive(t *testing.T) {
	db := setupDB(t)
	student := seedStudent(t, db, "4AL21CS004", "Kiran Kumar")
	subject := seedSubject(t, db, "21CS54", "Machine Learning")

	for _, d := range []string{"2026-03-01", "2026-03-02", "2026-03-03", "2026-03-04"} {
		require.NoError(t, db.Create(&models.Attendance{
			StudentID: student.ID,
			SubjectID: subject.ID,
			Date:      d,
			Time:      "09:00:00",
			Status:    models.StatusPresent,
		}).Error)
	}

	h := NewAttendanceHandler()
	c, rec := newGETContext(t, "/faculty/attendance?start=2026-03-02&end=2026-03-03")
	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []models.Attendance
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	// both bounds are inclusive
	assert.Equal(t, "2026-03-03", rows[0].Date)
	assert.Equal(t, "2026-03-02", rows[1].Date)
}
