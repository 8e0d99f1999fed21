package models

import "time"

type Subject struct {
	ID       uint   `gorm:"primaryKey"                  json:"id"`
	Code     string `gorm:"size:20;uniqueIndex;not null" json:"subject_code"`
	Name     string `gorm:"size:100;not null"           json:"subject_name"`
	Branch   string `gorm:"size:50;not null;index"      json:"branch"`
	Semester int    `gorm:"not null;index"              json:"semester"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
