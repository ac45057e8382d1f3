package authoring

import (
	"strings"

	"prep_admin_backend/internal/model"
)

// ExerciseForm holds the exercise metadata fields of the editor.
type ExerciseForm struct {
	Title            string             `json:"title"`
	Description      string             `json:"description"`
	ExerciseType     model.ExerciseType `json:"exercise_type"`
	DifficultyLevel  model.Difficulty   `json:"difficulty_level"`
	MaxScore         int                `json:"max_score"`
	TimeLimitMinutes int                `json:"time_limit_minutes"`
	LessonID         *uint              `json:"lesson_id"`
	SourceFileURL    string             `json:"source_file_url"`
	IsActive         *bool              `json:"is_active,omitempty"`
}

// Validate reports missing required fields with one message, then checks
// the enumerations and numeric ranges.
func (f ExerciseForm) Validate() error {
	if strings.TrimSpace(f.Title) == "" || f.ExerciseType == "" || f.DifficultyLevel == "" {
		return fieldError("", MsgRequiredFields)
	}
	if !f.ExerciseType.Valid() {
		return fieldError("exercise_type", MsgExerciseType)
	}
	if !f.DifficultyLevel.Valid() {
		return fieldError("difficulty_level", MsgDifficulty)
	}
	if f.MaxScore < 0 || f.TimeLimitMinutes < 0 {
		return fieldError("max_score", MsgNegativeValues)
	}
	return nil
}

// Apply copies the form onto an exercise row. IsActive is left alone when
// the form does not carry it.
func (f ExerciseForm) Apply(ex *model.Exercise) {
	ex.Title = strings.TrimSpace(f.Title)
	ex.Description = strings.TrimSpace(f.Description)
	ex.ExerciseType = f.ExerciseType
	ex.DifficultyLevel = f.DifficultyLevel
	ex.MaxScore = f.MaxScore
	ex.TimeLimitMinutes = f.TimeLimitMinutes
	ex.LessonID = f.LessonID
	ex.SourceFileURL = strings.TrimSpace(f.SourceFileURL)
	if f.IsActive != nil {
		ex.IsActive = *f.IsActive
	}
}

// FormFromModel fills the editor from a stored exercise.
func FormFromModel(ex model.Exercise) ExerciseForm {
	active := ex.IsActive
	return ExerciseForm{
		Title:            ex.Title,
		Description:      ex.Description,
		ExerciseType:     ex.ExerciseType,
		DifficultyLevel:  ex.DifficultyLevel,
		MaxScore:         ex.MaxScore,
		TimeLimitMinutes: ex.TimeLimitMinutes,
		LessonID:         ex.LessonID,
		SourceFileURL:    ex.SourceFileURL,
		IsActive:         &active,
	}
}

// SavePayload is the body of an exercise create or update: the exercise
// fields plus every question edit made since the editor opened.
// Questions are new drafts (inserted), ExistingQuestions carry ids (updated)
// and RemovedQuestionIDs are deleted.
type SavePayload struct {
	ExerciseForm
	Questions          []QuestionInput `json:"questions"`
	ExistingQuestions  []QuestionInput `json:"existing_questions,omitempty"`
	RemovedQuestionIDs []uint          `json:"removed_question_ids,omitempty"`
}

// Validate is the save-time check. It re-validates every question, so a
// multiple choice question whose correct option was removed blocks the save.
func (p SavePayload) Validate() error {
	if err := p.ExerciseForm.Validate(); err != nil {
		return err
	}

	for i, q := range p.Questions {
		if q.ID != nil {
			return &ValidationError{Field: "questions", Message: MsgQuestionIDs, Index: i}
		}
		if err := q.Validate(); err != nil {
			return atIndex(err, i, false)
		}
	}

	seen := make(map[uint]bool)
	for i, q := range p.ExistingQuestions {
		if q.ID == nil || *q.ID == 0 || seen[*q.ID] {
			return &ValidationError{Field: "existing_questions", Message: MsgQuestionIDs, Index: i, Existing: true}
		}
		seen[*q.ID] = true
		if err := q.Validate(); err != nil {
			return atIndex(err, i, true)
		}
	}
	for _, id := range p.RemovedQuestionIDs {
		if seen[id] {
			return fieldError("removed_question_ids", MsgQuestionIDs)
		}
	}
	return nil
}

// NewRows converts the new drafts into rows, in editor order.
func (p SavePayload) NewRows() []model.ExerciseQuestion {
	rows := make([]model.ExerciseQuestion, 0, len(p.Questions))
	for _, q := range p.Questions {
		rows = append(rows, q.ToModel())
	}
	return rows
}

// ExistingRows converts the edited persisted questions into rows with ids.
func (p SavePayload) ExistingRows() []model.ExerciseQuestion {
	rows := make([]model.ExerciseQuestion, 0, len(p.ExistingQuestions))
	for _, q := range p.ExistingQuestions {
		rows = append(rows, q.ToModel())
	}
	return rows
}

func atIndex(err error, i int, existing bool) error {
	if verr, ok := AsValidation(err); ok {
		cp := *verr
		cp.Index = i
		cp.Existing = existing
		return &cp
	}
	return err
}
