package model

type ContentType string

const (
	ContentLesson   ContentType = "lesson"
	ContentExercise ContentType = "exercise"
	ContentTest     ContentType = "test"
	ContentReview   ContentType = "review"
	ContentVideo    ContentType = "video"
)

var ContentTypes = []ContentType{ContentLesson, ContentExercise, ContentTest, ContentReview, ContentVideo}

func (c ContentType) Valid() bool {
	for _, ct := range ContentTypes {
		if c == ct {
			return true
		}
	}
	return false
}

// CurriculumItem is one scheduled unit of study inside a learning path.
// Week, day and order are nullable in storage; readers treat NULL as 0.
// swagger:model CurriculumItem
type CurriculumItem struct {
	BaseModel
	LearningPathID   uint        `gorm:"not null;index;uniqueIndex:idx_curriculum_week_order,priority:1" json:"learning_path_id"`
	WeekNumber       *int        `gorm:"uniqueIndex:idx_curriculum_week_order,priority:2" json:"week_number"`
	DayNumber        *int        `json:"day_number"`
	OrderIndex       *int        `gorm:"uniqueIndex:idx_curriculum_week_order,priority:3" json:"order_index"`
	Title            string      `gorm:"size:255;not null" json:"title"`
	Description      string      `gorm:"type:text" json:"description"`
	ContentType      ContentType `gorm:"size:30" json:"content_type"`
	EstimatedMinutes int         `json:"estimated_minutes"`
	LessonID         *uint       `gorm:"index" json:"lesson_id"`
	ExerciseID       *uint       `gorm:"index" json:"exercise_id"`
}

func (CurriculumItem) TableName() string {
	return "curriculum_items"
}

func (c CurriculumItem) Week() int {
	return IntValue(c.WeekNumber)
}

func (c CurriculumItem) Order() int {
	return IntValue(c.OrderIndex)
}
