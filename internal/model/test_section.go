package model

type SectionType string

const (
	SectionReadingPassage SectionType = "reading_passage"
	SectionListeningAudio SectionType = "listening_audio"
	SectionMCQGroup       SectionType = "mcq_group"
)

var SectionTypes = []SectionType{SectionReadingPassage, SectionListeningAudio, SectionMCQGroup}

func (t SectionType) Valid() bool {
	return t == SectionReadingPassage || t == SectionListeningAudio || t == SectionMCQGroup
}

// TestSection is a block within a lesson. Order is 1..N per lesson.
// swagger:model TestSection
type TestSection struct {
	BaseModel
	LessonID             uint        `gorm:"not null;uniqueIndex:idx_section_lesson_order,priority:1" json:"lesson_id"`
	Title                string      `gorm:"size:255;not null" json:"title"`
	Type                 SectionType `gorm:"size:30;not null" json:"type"`
	Content              string      `gorm:"type:text" json:"content"`
	AudioURL             string      `gorm:"size:500" json:"audio_url"`
	AudioDurationSeconds float64     `json:"audio_duration_seconds"`
	Order                int         `gorm:"column:sort_order;not null;uniqueIndex:idx_section_lesson_order,priority:2" json:"order"`

	Questions []Question `gorm:"foreignKey:SectionID" json:"questions,omitempty"`
}

func (TestSection) TableName() string {
	return "test_sections"
}
