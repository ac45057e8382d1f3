package repository

import (
	"context"

	"prep_admin_backend/internal/model"

	"gorm.io/gorm"
)

type PathItemRepository struct {
	DB *gorm.DB
}

func NewPathItemRepository(db *gorm.DB) *PathItemRepository {
	return &PathItemRepository{DB: db}
}

func (r *PathItemRepository) FindByID(ctx context.Context, id uint) (*model.PathItem, error) {
	var item model.PathItem
	err := r.DB.WithContext(ctx).First(&item, id).Error
	return &item, err
}

// ListByPath returns items in order with their lesson preloaded. Lesson is
// nil when the referenced lesson no longer exists.
func (r *PathItemRepository) ListByPath(ctx context.Context, pathID uint) ([]model.PathItem, error) {
	var items []model.PathItem
	err := r.DB.WithContext(ctx).
		Preload("Lesson").
		Where("path_id = ?", pathID).
		Order("item_order ASC").
		Find(&items).Error
	return items, err
}

func (r *PathItemRepository) Exists(ctx context.Context, pathID, lessonID uint) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.PathItem{}).
		Where("path_id = ? AND lesson_id = ?", pathID, lessonID).
		Count(&n).Error
	return n > 0, err
}

// Append attaches a lesson at the end of the path. A lesson already on the
// path trips the (path_id, lesson_id) unique index.
func (r *PathItemRepository) Append(ctx context.Context, item *model.PathItem) error {
	return AppendOrdered(ctx, r.DB, PathItemOrder, ParentScope(item.PathID), item,
		func(p *model.PathItem, order int) { p.ItemOrder = order })
}

func (r *PathItemRepository) Remove(ctx context.Context, item *model.PathItem) error {
	return RemoveOrdered(ctx, r.DB, PathItemOrder, ParentScope(item.PathID), item.ID, nil)
}

func (r *PathItemRepository) Reorder(ctx context.Context, pathID uint, ids []uint) error {
	return ReorderOrdered(ctx, r.DB, PathItemOrder, ParentScope(pathID), ids)
}
