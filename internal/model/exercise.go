package model

import "gorm.io/datatypes"

type ExerciseType string

const (
	ExerciseMultipleChoice ExerciseType = "multiple_choice"
	ExerciseTrueFalse      ExerciseType = "true_false"
	ExerciseFillBlank      ExerciseType = "fill_blank"
	ExerciseEssay          ExerciseType = "essay"
	ExerciseMixed          ExerciseType = "mixed"
)

var ExerciseTypes = []ExerciseType{
	ExerciseMultipleChoice, ExerciseTrueFalse, ExerciseFillBlank, ExerciseEssay, ExerciseMixed,
}

func (t ExerciseType) Valid() bool {
	for _, et := range ExerciseTypes {
		if t == et {
			return true
		}
	}
	return false
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

// swagger:model Exercise
type Exercise struct {
	BaseModel
	Title            string       `gorm:"size:255;not null" json:"title"`
	Description      string       `gorm:"type:text" json:"description"`
	ExerciseType     ExerciseType `gorm:"size:30;not null;index" json:"exercise_type"`
	DifficultyLevel  Difficulty   `gorm:"size:20;not null;index" json:"difficulty_level"`
	MaxScore         int          `json:"max_score"`
	TimeLimitMinutes int          `json:"time_limit_minutes"`
	IsActive         bool         `gorm:"not null" json:"is_active"`
	SourceFileURL    string       `gorm:"size:500" json:"source_file_url"`
	LessonID         *uint        `gorm:"index" json:"lesson_id"`
	CreatedBy        *uint        `gorm:"index" json:"created_by"`

	Questions []ExerciseQuestion `gorm:"foreignKey:ExerciseID" json:"questions,omitempty"`
}

func (Exercise) TableName() string {
	return "exercises"
}

// ExerciseQuestion is the exercise-scoped question variant.
// swagger:model ExerciseQuestion
type ExerciseQuestion struct {
	BaseModel
	ExerciseID    uint           `gorm:"not null;uniqueIndex:idx_exercise_question_order,priority:1" json:"exercise_id"`
	QuestionType  string         `gorm:"size:30;not null" json:"question_type"`
	QuestionText  string         `gorm:"type:text;not null" json:"question_text"`
	Options       datatypes.JSON `json:"options" swaggertype:"array,string"`
	CorrectAnswer string         `gorm:"type:text" json:"correct_answer"`
	Explanation   string         `gorm:"type:text" json:"explanation"`
	Points        int            `json:"points"`
	Order         int            `gorm:"column:sort_order;not null;uniqueIndex:idx_exercise_question_order,priority:2" json:"order"`
}

func (ExerciseQuestion) TableName() string {
	return "exercise_questions"
}
