package models

import "time"

// One row per student/subject/day. The composite unique index backs the
// idempotent write path in handlers.MarkAttendance.
type Attendance struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	StudentID uint   `json:"student_id" gorm:"not null;uniqueIndex:idx_attendance_day"`
	SubjectID uint   `json:"subject_id" gorm:"not null;uniqueIndex:idx_attendance_day"`
	Date      string `json:"date" gorm:"size:10;not null;uniqueIndex:idx_attendance_day"` // YYYY-MM-DD
	Time      string `json:"time" gorm:"size:8"`                                          // HH:MM:SS
	Status    string `json:"status" gorm:"size:20;not null"`                              // present | absent | late
	Synced    bool   `json:"synced" gorm:"not null;default:false"`                        // pushed to the bot channel

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusLate    = "late"
)
