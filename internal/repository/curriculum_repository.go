package repository

import (
	"context"

	"prep_admin_backend/internal/model"

	"gorm.io/gorm"
)

type CurriculumRepository struct {
	DB *gorm.DB
}

func NewCurriculumRepository(db *gorm.DB) *CurriculumRepository {
	return &CurriculumRepository{DB: db}
}

func (r *CurriculumRepository) FindByID(ctx context.Context, id uint) (*model.CurriculumItem, error) {
	var item model.CurriculumItem
	err := r.DB.WithContext(ctx).First(&item, id).Error
	return &item, err
}

// ListByPath returns the raw rows in storage order; grouping happens above.
func (r *CurriculumRepository) ListByPath(ctx context.Context, pathID uint) ([]model.CurriculumItem, error) {
	var items []model.CurriculumItem
	err := r.DB.WithContext(ctx).
		Where("learning_path_id = ?", pathID).
		Order("week_number ASC").Order("order_index ASC").Order("id ASC").
		Find(&items).Error
	return items, err
}

// Append places item last in its week.
func (r *CurriculumRepository) Append(ctx context.Context, item *model.CurriculumItem) error {
	return AppendOrdered(ctx, r.DB, CurriculumOrder, WeekScope(item.LearningPathID, item.WeekNumber), item,
		func(c *model.CurriculumItem, order int) { c.OrderIndex = model.IntPtr(order) })
}

// Update saves the editable fields. A week change moves the item to the end
// of its new week and closes the gap in the old one.
func (r *CurriculumRepository) Update(ctx context.Context, item *model.CurriculumItem, previousWeek *int) error {
	fields := map[string]interface{}{
		"title":             item.Title,
		"description":       item.Description,
		"content_type":      item.ContentType,
		"estimated_minutes": item.EstimatedMinutes,
		"day_number":        item.DayNumber,
		"lesson_id":         item.LessonID,
		"exercise_id":       item.ExerciseID,
	}

	if sameWeek(previousWeek, item.WeekNumber) {
		return r.DB.WithContext(ctx).Model(&model.CurriculumItem{}).Where("id = ?", item.ID).Updates(fields).Error
	}

	from := WeekScope(item.LearningPathID, previousWeek)
	to := WeekScope(item.LearningPathID, item.WeekNumber)
	return RelocateOrdered(ctx, r.DB, CurriculumOrder, from, to, item.ID, func(tx *gorm.DB, order int) error {
		fields["week_number"] = item.WeekNumber
		fields["order_index"] = order
		item.OrderIndex = model.IntPtr(order)
		return tx.Model(&model.CurriculumItem{}).Where("id = ?", item.ID).Updates(fields).Error
	})
}

func (r *CurriculumRepository) Remove(ctx context.Context, item *model.CurriculumItem) error {
	return RemoveOrdered(ctx, r.DB, CurriculumOrder, WeekScope(item.LearningPathID, item.WeekNumber), item.ID, nil)
}

func (r *CurriculumRepository) Reorder(ctx context.Context, pathID uint, week *int, ids []uint) error {
	return ReorderOrdered(ctx, r.DB, CurriculumOrder, WeekScope(pathID, week), ids)
}

func (r *CurriculumRepository) Move(ctx context.Context, item *model.CurriculumItem, delta int) error {
	return MoveOrdered(ctx, r.DB, CurriculumOrder, WeekScope(item.LearningPathID, item.WeekNumber), item.ID, delta)
}

func sameWeek(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
