package model

// PathItem attaches a lesson to a learning path at a position.
// swagger:model PathItem
type PathItem struct {
	BaseModel
	PathID    uint `gorm:"not null;uniqueIndex:idx_path_item_order,priority:1;uniqueIndex:idx_path_item_lesson,priority:1" json:"path_id"`
	LessonID  uint `gorm:"not null;uniqueIndex:idx_path_item_lesson,priority:2" json:"lesson_id"`
	ItemOrder int  `gorm:"column:item_order;not null;uniqueIndex:idx_path_item_order,priority:2" json:"item_order"`

	Lesson *Lesson `gorm:"foreignKey:LessonID" json:"lesson,omitempty"`
}

func (PathItem) TableName() string {
	return "path_items"
}
