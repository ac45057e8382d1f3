package model

import (
	"time"
)

type UserRole string

const (
	Student UserRole = "student"
	Teacher UserRole = "teacher"
	Admin   UserRole = "admin"
)

func (r UserRole) Valid() bool {
	return r == Student || r == Teacher || r == Admin
}

// Profile is a user account of the platform.
// swagger:model Profile
type Profile struct {
	BaseModel
	Email        string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	FullName     string     `gorm:"size:255" json:"full_name"`
	Role         UserRole   `gorm:"size:20;not null;index" json:"role"`
	Course       CourseType `gorm:"size:20;index" json:"course"`
	ClassName    string     `gorm:"size:100" json:"class_name"`
	IsActive     bool       `gorm:"not null" json:"is_active"`
	PasswordHash string     `gorm:"size:100" json:"-"`
	LastLoginAt  *time.Time `json:"last_login_at"`
}

func (Profile) TableName() string {
	return "profiles"
}
