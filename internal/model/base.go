package model

import (
	"time"
)

// BaseModel carries no DeletedAt: rows are removed for real.
// swagger:model
type BaseModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CourseType is the exam family a path or lesson prepares for.
type CourseType string

const (
	CourseTOEIC CourseType = "TOEIC"
	CourseIELTS CourseType = "IELTS"
	CourseAPTIS CourseType = "APTIS"
)

var CourseTypes = []CourseType{CourseTOEIC, CourseIELTS, CourseAPTIS}

func (c CourseType) Valid() bool {
	for _, ct := range CourseTypes {
		if c == ct {
			return true
		}
	}
	return false
}

// IntValue reads a nullable int column, treating NULL as zero.
func IntValue(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func IntPtr(v int) *int {
	return &v
}

func UintPtr(v uint) *uint {
	return &v
}

func UintValue(p *uint) uint {
	if p == nil {
		return 0
	}
	return *p
}
