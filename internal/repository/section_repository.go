package repository

import (
	"context"

	"prep_admin_backend/internal/model"

	"gorm.io/gorm"
)

type SectionRepository struct {
	DB *gorm.DB
}

func NewSectionRepository(db *gorm.DB) *SectionRepository {
	return &SectionRepository{DB: db}
}

func (r *SectionRepository) FindByID(ctx context.Context, id uint) (*model.TestSection, error) {
	var section model.TestSection
	err := r.DB.WithContext(ctx).First(&section, id).Error
	return &section, err
}

func (r *SectionRepository) ListByLesson(ctx context.Context, lessonID uint) ([]model.TestSection, error) {
	var sections []model.TestSection
	err := r.DB.WithContext(ctx).Where("lesson_id = ?", lessonID).Order("sort_order ASC").Find(&sections).Error
	return sections, err
}

// Append adds the section after the last one of its lesson.
func (r *SectionRepository) Append(ctx context.Context, section *model.TestSection) error {
	return AppendOrdered(ctx, r.DB, SectionOrder, ParentScope(section.LessonID), section,
		func(s *model.TestSection, order int) { s.Order = order })
}

func (r *SectionRepository) Update(ctx context.Context, section *model.TestSection) error {
	return r.DB.WithContext(ctx).Model(&model.TestSection{}).Where("id = ?", section.ID).Updates(map[string]interface{}{
		"title":                  section.Title,
		"type":                   section.Type,
		"content":                section.Content,
		"audio_url":              section.AudioURL,
		"audio_duration_seconds": section.AudioDurationSeconds,
	}).Error
}

func (r *SectionRepository) SetAudio(ctx context.Context, id uint, url string, seconds float64) error {
	return r.DB.WithContext(ctx).Model(&model.TestSection{}).Where("id = ?", id).Updates(map[string]interface{}{
		"audio_url":              url,
		"audio_duration_seconds": seconds,
	}).Error
}

// Remove deletes the section with its questions and renumbers the lesson.
func (r *SectionRepository) Remove(ctx context.Context, section *model.TestSection) error {
	return RemoveOrdered(ctx, r.DB, SectionOrder, ParentScope(section.LessonID), section.ID, func(tx *gorm.DB) error {
		return tx.Where("section_id = ?", section.ID).Delete(&model.Question{}).Error
	})
}

func (r *SectionRepository) Reorder(ctx context.Context, lessonID uint, ids []uint) error {
	return ReorderOrdered(ctx, r.DB, SectionOrder, ParentScope(lessonID), ids)
}

func (r *SectionRepository) Move(ctx context.Context, section *model.TestSection, delta int) error {
	return MoveOrdered(ctx, r.DB, SectionOrder, ParentScope(section.LessonID), section.ID, delta)
}
