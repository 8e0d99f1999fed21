package models

import "time"

type Student struct {
	ID       uint   `gorm:"primaryKey"                  json:"id"`
	RollNo   string `gorm:"size:20;uniqueIndex;not null" json:"roll_no"`
	Name     string `gorm:"size:100;not null"           json:"name"`
	Branch   string `gorm:"size:50;not null;index"      json:"branch"`
	Semester int    `gorm:"not null;index"              json:"semester"`
	Section  string `gorm:"size:10;not null"            json:"section"`
	Email    string `gorm:"size:120"                    json:"email"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
