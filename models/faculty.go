package models

import "time"

type Faculty struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Username string `json:"username" gorm:"uniqueIndex;size:60;not null"`
	Name     string `json:"name" gorm:"size:120;not null"`
	Email    string `json:"email" gorm:"size:120"`
	Password string `json:"-" gorm:"not null"`            // bcrypt hash
	Role     string `json:"role" gorm:"size:20;not null"` // "admin" | "faculty"

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	RoleAdmin   = "admin"
	RoleFaculty = "faculty"
)
