package models

import "time"

// FaceSample records one enrolled face crop stored on disk. The trained
// LBPH model itself is a single opaque file rebuilt from all samples
// whenever enrollment changes.
type FaceSample struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	StudentID uint   `json:"student_id" gorm:"index;not null"`
	Path      string `json:"path" gorm:"size:255;not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
