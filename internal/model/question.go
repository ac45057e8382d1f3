package model

import "gorm.io/datatypes"

// Question belongs to a lesson section. Options is a JSON array of strings.
// swagger:model Question
type Question struct {
	BaseModel
	SectionID     uint           `gorm:"not null;uniqueIndex:idx_question_section_order,priority:1" json:"section_id"`
	QuestionText  string         `gorm:"type:text;not null" json:"question_text"`
	Options       datatypes.JSON `json:"options" swaggertype:"array,string"`
	CorrectAnswer string         `gorm:"type:text" json:"correct_answer"`
	Explanation   string         `gorm:"type:text" json:"explanation"`
	Order         int            `gorm:"column:sort_order;not null;uniqueIndex:idx_question_section_order,priority:2" json:"order"`
}

func (Question) TableName() string {
	return "questions"
}
