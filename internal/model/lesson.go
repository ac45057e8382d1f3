package model

type LessonType string

const (
	LessonReading    LessonType = "reading"
	LessonListening  LessonType = "listening"
	LessonGrammar    LessonType = "grammar"
	LessonVocabulary LessonType = "vocabulary"
	LessonWriting    LessonType = "writing"
	LessonSpeaking   LessonType = "speaking"
	LessonTest       LessonType = "test"
)

var LessonTypes = []LessonType{
	LessonReading, LessonListening, LessonGrammar, LessonVocabulary,
	LessonWriting, LessonSpeaking, LessonTest,
}

func (t LessonType) Valid() bool {
	for _, lt := range LessonTypes {
		if t == lt {
			return true
		}
	}
	return false
}

// swagger:model Lesson
type Lesson struct {
	BaseModel
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Type        LessonType `gorm:"size:30;not null;index" json:"type"`
	CourseType  CourseType `gorm:"size:20;index" json:"course_type"`
	CreatedBy   *uint      `gorm:"index" json:"created_by"`

	Sections []TestSection `gorm:"foreignKey:LessonID" json:"sections,omitempty"`
}

func (Lesson) TableName() string {
	return "lessons"
}
