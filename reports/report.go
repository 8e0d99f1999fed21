// Package reports renders stored attendance as CSV or PDF. Output is purely
// derived: rows reflect the database and nothing else.
package reports

import (
	"gorm.io/gorm"
)

// Filter narrows the report query. Zero values mean "no constraint";
// StartDate/EndDate are inclusive bounds.
type Filter struct {
	StartDate string // YYYY-MM-DD
	EndDate   string // YYYY-MM-DD
	SubjectID uint
	StudentID uint
	Branch    string
	Semester  int
	Section   string
}

// Row is one line of the tabular report, joining attendance with its
// student and subject.
type Row struct {
	ID          uint   `json:"id"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Status      string `json:"status"`
	StudentID   uint   `json:"student_id"`
	RollNo      string `json:"roll_no"`
	StudentName string `json:"student_name"`
	Branch      string `json:"branch"`
	Semester    int    `json:"semester"`
	Section     string `json:"section"`
	SubjectID   uint   `json:"subject_id"`
	SubjectCode string `json:"subject_code"`
	SubjectName string `json:"subject_name"`
}

// Rows runs the joined attendance query ordered newest first.
func Rows(db *gorm.DB, f Filter) ([]Row, error) {
	tx := db.Table("attendances AS a").
		Select(`a.id, a.date, a.time, a.status,
			s.id AS student_id, s.roll_no, s.name AS student_name, s.branch, s.semester, s.section,
			sub.id AS subject_id, sub.code AS subject_code, sub.name AS subject_name`).
		Joins("JOIN students s ON s.id = a.student_id").
		Joins("JOIN subjects sub ON sub.id = a.subject_id")

	if f.StartDate != "" {
		tx = tx.Where("a.date >= ?", f.StartDate)
	}
	if f.EndDate != "" {
		tx = tx.Where("a.date <= ?", f.EndDate)
	}
	if f.SubjectID != 0 {
		tx = tx.Where("a.subject_id = ?", f.SubjectID)
	}
	if f.StudentID != 0 {
		tx = tx.Where("a.student_id = ?", f.StudentID)
	}
	if f.Branch != "" {
		tx = tx.Where("s.branch = ?", f.Branch)
	}
	if f.Semester != 0 {
		tx = tx.Where("s.semester = ?", f.Semester)
	}
	if f.Section != "" {
		tx = tx.Where("s.section = ?", f.Section)
	}

	var rows []Row
	if err := tx.Order("a.date DESC, a.time DESC, a.id DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
