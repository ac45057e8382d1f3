package repository

import (
	"context"

	"prep_admin_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ExerciseRepository struct {
	DB *gorm.DB
}

func NewExerciseRepository(db *gorm.DB) *ExerciseRepository {
	return &ExerciseRepository{DB: db}
}

// ExerciseFilter mirrors the list query string. Filters compose with AND.
type ExerciseFilter struct {
	ExerciseType    model.ExerciseType
	DifficultyLevel model.Difficulty
	Search          string
	ActiveOnly      bool
}

// ExerciseChanges is one save of an existing exercise: new field values plus
// the question inserts, updates and deletes collected by the editor.
type ExerciseChanges struct {
	Exercise   *model.Exercise
	New        []model.ExerciseQuestion
	Updated    []model.ExerciseQuestion
	RemovedIDs []uint
}

func (r *ExerciseRepository) List(ctx context.Context, filter ExerciseFilter) ([]model.Exercise, error) {
	query := r.DB.WithContext(ctx).Model(&model.Exercise{})
	if filter.ExerciseType != "" {
		query = query.Where("exercise_type = ?", filter.ExerciseType)
	}
	if filter.DifficultyLevel != "" {
		query = query.Where("difficulty_level = ?", filter.DifficultyLevel)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	query = whereContains(query, filter.Search, "title", "description")

	var exercises []model.Exercise
	err := query.Order("created_at DESC").Order("id DESC").Find(&exercises).Error
	return exercises, err
}

func (r *ExerciseRepository) FindByID(ctx context.Context, id uint) (*model.Exercise, error) {
	var exercise model.Exercise
	err := r.DB.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		First(&exercise, id).Error
	return &exercise, err
}

// Create inserts the exercise and its questions in one transaction, numbering
// the questions 1..N in the given order.
func (r *ExerciseRepository) Create(ctx context.Context, exercise *model.Exercise, questions []model.ExerciseQuestion) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(exercise).Error; err != nil {
			return err
		}
		if len(questions) == 0 {
			return nil
		}
		for i := range questions {
			questions[i].ExerciseID = exercise.ID
			questions[i].Order = i + 1
		}
		if err := tx.Create(&questions).Error; err != nil {
			return err
		}
		exercise.Questions = questions
		return nil
	})
}

// ApplyChanges saves exercise fields and question edits atomically. Removed
// and updated ids must belong to the exercise; new questions are appended.
func (r *ExerciseRepository) ApplyChanges(ctx context.Context, changes ExerciseChanges) error {
	ex := changes.Exercise
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Exercise{}).Where("id = ?", ex.ID).Updates(map[string]interface{}{
			"title":              ex.Title,
			"description":        ex.Description,
			"exercise_type":      ex.ExerciseType,
			"difficulty_level":   ex.DifficultyLevel,
			"max_score":          ex.MaxScore,
			"time_limit_minutes": ex.TimeLimitMinutes,
			"source_file_url":    ex.SourceFileURL,
			"lesson_id":          ex.LessonID,
			"is_active":          ex.IsActive,
		})
		if res.Error != nil {
			return res.Error
		}

		scope := ParentScope(ex.ID)
		for _, id := range changes.RemovedIDs {
			if err := RemoveOrdered(ctx, tx, ExerciseQuestionOrder, scope, id, nil); err != nil {
				return err
			}
		}

		for _, q := range changes.Updated {
			var n int64
			if err := tx.Model(&model.ExerciseQuestion{}).Where("id = ? AND exercise_id = ?", q.ID, ex.ID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return gorm.ErrRecordNotFound
			}
			err := tx.Model(&model.ExerciseQuestion{}).Where("id = ?", q.ID).Updates(map[string]interface{}{
				"question_type":  q.QuestionType,
				"question_text":  q.QuestionText,
				"options":        q.Options,
				"correct_answer": q.CorrectAnswer,
				"explanation":    q.Explanation,
				"points":         q.Points,
			}).Error
			if err != nil {
				return err
			}
		}

		for i := range changes.New {
			q := &changes.New[i]
			q.ExerciseID = ex.ID
			err := AppendOrdered(ctx, tx, ExerciseQuestionOrder, scope, q,
				func(eq *model.ExerciseQuestion, order int) { eq.Order = order })
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ExerciseRepository) SetActive(ctx context.Context, id uint, active bool) error {
	return r.DB.WithContext(ctx).Model(&model.Exercise{}).Where("id = ?", id).Update("is_active", active).Error
}

func (r *ExerciseRepository) SetSourceFile(ctx context.Context, id uint, url string) error {
	return r.DB.WithContext(ctx).Model(&model.Exercise{}).Where("id = ?", id).Update("source_file_url", url).Error
}

// Delete removes the exercise and its questions and clears curriculum
// references. It returns the ids of the learning paths whose curriculum
// pointed at the exercise.
func (r *ExerciseRepository) Delete(ctx context.Context, id uint) ([]uint, error) {
	var touchedPaths []uint
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if touchedPaths, err = curriculumPathIDs(tx, "exercise_id", id); err != nil {
			return err
		}
		if err := tx.Where("exercise_id = ?", id).Delete(&model.ExerciseQuestion{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.CurriculumItem{}).Where("exercise_id = ?", id).Update("exercise_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Exercise{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return touchedPaths, nil
}
