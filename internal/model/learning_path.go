package model

// Learning path difficulty bounds.
const (
	MinPathDifficulty = 1
	MaxPathDifficulty = 5
)

// swagger:model LearningPath
type LearningPath struct {
	BaseModel
	Name            string     `gorm:"size:255;not null" json:"name"`
	Description     string     `gorm:"type:text" json:"description"`
	CourseType      CourseType `gorm:"size:20;not null;index" json:"course_type"`
	Level           string     `gorm:"size:50" json:"level"`
	TargetScore     int        `json:"target_score"`
	DurationWeeks   int        `gorm:"not null" json:"duration_weeks"`
	DifficultyLevel int        `gorm:"not null" json:"difficulty_level"` // 1-5
	IsActive        bool       `gorm:"not null" json:"is_active"`
	CreatedBy       *uint      `gorm:"index" json:"created_by"`

	CurriculumItems []CurriculumItem `gorm:"foreignKey:LearningPathID" json:"curriculum_items,omitempty"`
}

func (LearningPath) TableName() string {
	return "learning_paths"
}
