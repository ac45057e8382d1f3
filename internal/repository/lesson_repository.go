package repository

import (
	"context"

	"prep_admin_backend/internal/model"

	"gorm.io/gorm"
)

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

type LessonFilter struct {
	Type       model.LessonType
	CourseType model.CourseType
	Search     string
}

func (r *LessonRepository) Create(ctx context.Context, lesson *model.Lesson) error {
	return r.DB.WithContext(ctx).Create(lesson).Error
}

func (r *LessonRepository) FindByID(ctx context.Context, id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.WithContext(ctx).First(&lesson, id).Error
	return &lesson, err
}

// FindWithContent loads the lesson with sections and their questions, each in order.
func (r *LessonRepository) FindWithContent(ctx context.Context, id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.WithContext(ctx).
		Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Sections.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		First(&lesson, id).Error
	return &lesson, err
}

func (r *LessonRepository) FindByIDs(ctx context.Context, ids []uint) (map[uint]model.Lesson, error) {
	out := make(map[uint]model.Lesson, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var lessons []model.Lesson
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&lessons).Error; err != nil {
		return nil, err
	}
	for _, l := range lessons {
		out[l.ID] = l
	}
	return out, nil
}

func (r *LessonRepository) List(ctx context.Context, filter LessonFilter) ([]model.Lesson, error) {
	query := r.DB.WithContext(ctx).Model(&model.Lesson{})
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.CourseType != "" {
		query = query.Where("course_type = ?", filter.CourseType)
	}
	query = whereContains(query, filter.Search, "title", "description")

	var lessons []model.Lesson
	err := query.Order("created_at DESC").Order("id DESC").Find(&lessons).Error
	return lessons, err
}

func (r *LessonRepository) Update(ctx context.Context, lesson *model.Lesson) error {
	return r.DB.WithContext(ctx).Model(&model.Lesson{}).Where("id = ?", lesson.ID).Updates(map[string]interface{}{
		"title":       lesson.Title,
		"description": lesson.Description,
		"type":        lesson.Type,
		"course_type": lesson.CourseType,
	}).Error
}

// PathIDs returns the learning paths that show the lesson, through a path
// item or a curriculum item.
func (r *LessonRepository) PathIDs(ctx context.Context, id uint) ([]uint, error) {
	return lessonPathIDs(r.DB.WithContext(ctx), id)
}

// Delete removes the lesson, its sections and questions, and every path item
// pointing at it (closing the gap in each affected path). Curriculum items
// and exercises keep their rows with the lesson reference cleared.
// It returns the ids of the learning paths that referenced the lesson.
func (r *LessonRepository) Delete(ctx context.Context, id uint) ([]uint, error) {
	var touchedPaths []uint
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lesson model.Lesson
		if err := tx.First(&lesson, id).Error; err != nil {
			return err
		}
		var err error
		if touchedPaths, err = lessonPathIDs(tx, id); err != nil {
			return err
		}

		sectionIDs := tx.Model(&model.TestSection{}).Select("id").Where("lesson_id = ?", id)
		if err := tx.Where("section_id IN (?)", sectionIDs).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		if err := tx.Where("lesson_id = ?", id).Delete(&model.TestSection{}).Error; err != nil {
			return err
		}

		var items []model.PathItem
		if err := tx.Where("lesson_id = ?", id).Find(&items).Error; err != nil {
			return err
		}
		for _, item := range items {
			if err := RemoveOrdered(ctx, tx, PathItemOrder, ParentScope(item.PathID), item.ID, nil); err != nil {
				return err
			}
		}

		if err := tx.Model(&model.CurriculumItem{}).Where("lesson_id = ?", id).Update("lesson_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Exercise{}).Where("lesson_id = ?", id).Update("lesson_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Lesson{}, id).Error
	})
	return touchedPaths, err
}
