package repository

import (
	"context"
	"sort"

	"prep_admin_backend/internal/model"

	"gorm.io/gorm"
)

type LearningPathRepository struct {
	DB *gorm.DB
}

func NewLearningPathRepository(db *gorm.DB) *LearningPathRepository {
	return &LearningPathRepository{DB: db}
}

// PathStats aggregates the curriculum and path items of one learning path.
type PathStats struct {
	PathID       uint
	ItemCount    int
	TotalMinutes int
	WeeksPlanned int
	LessonCount  int
}

func (r *LearningPathRepository) Create(ctx context.Context, path *model.LearningPath) error {
	return r.DB.WithContext(ctx).Create(path).Error
}

func (r *LearningPathRepository) FindByID(ctx context.Context, id uint) (*model.LearningPath, error) {
	var path model.LearningPath
	err := r.DB.WithContext(ctx).First(&path, id).Error
	return &path, err
}

func (r *LearningPathRepository) List(ctx context.Context, activeOnly bool) ([]model.LearningPath, error) {
	var paths []model.LearningPath
	query := r.DB.WithContext(ctx).Model(&model.LearningPath{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("course_type ASC").Order("difficulty_level ASC").Order("id ASC").Find(&paths).Error
	return paths, err
}

func (r *LearningPathRepository) Update(ctx context.Context, path *model.LearningPath) error {
	return r.DB.WithContext(ctx).Save(path).Error
}

// Delete removes the path with its curriculum and path items.
func (r *LearningPathRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("learning_path_id = ?", id).Delete(&model.CurriculumItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("path_id = ?", id).Delete(&model.PathItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.LearningPath{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// Stats returns per-path aggregates keyed by path id. Paths without children
// are absent from the map.
func (r *LearningPathRepository) Stats(ctx context.Context, pathIDs []uint) (map[uint]PathStats, error) {
	out := make(map[uint]PathStats, len(pathIDs))
	if len(pathIDs) == 0 {
		return out, nil
	}

	var curriculum []struct {
		LearningPathID uint
		ItemCount      int
		TotalMinutes   int
		WeeksPlanned   int
	}
	err := r.DB.WithContext(ctx).Model(&model.CurriculumItem{}).
		Select(`learning_path_id,
			COUNT(*) AS item_count,
			COALESCE(SUM(estimated_minutes), 0) AS total_minutes,
			COUNT(DISTINCT CASE WHEN week_number > 0 THEN week_number END) AS weeks_planned`).
		Where("learning_path_id IN ?", pathIDs).
		Group("learning_path_id").
		Scan(&curriculum).Error
	if err != nil {
		return nil, err
	}
	for _, c := range curriculum {
		s := out[c.LearningPathID]
		s.PathID = c.LearningPathID
		s.ItemCount = c.ItemCount
		s.TotalMinutes = c.TotalMinutes
		s.WeeksPlanned = c.WeeksPlanned
		out[c.LearningPathID] = s
	}

	var items []struct {
		PathID      uint
		LessonCount int
	}
	err = r.DB.WithContext(ctx).Model(&model.PathItem{}).
		Select("path_id, COUNT(*) AS lesson_count").
		Where("path_id IN ?", pathIDs).
		Group("path_id").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		s := out[it.PathID]
		s.PathID = it.PathID
		s.LessonCount = it.LessonCount
		out[it.PathID] = s
	}
	return out, nil
}

// curriculumPathIDs lists the paths whose curriculum points at the row
// through column (lesson_id or exercise_id).
func curriculumPathIDs(db *gorm.DB, column string, id uint) ([]uint, error) {
	var ids []uint
	err := db.Model(&model.CurriculumItem{}).Distinct().
		Where(column+" = ?", id).
		Pluck("learning_path_id", &ids).Error
	return ids, err
}

func lessonPathIDs(db *gorm.DB, lessonID uint) ([]uint, error) {
	var fromItems []uint
	if err := db.Model(&model.PathItem{}).Distinct().
		Where("lesson_id = ?", lessonID).
		Pluck("path_id", &fromItems).Error; err != nil {
		return nil, err
	}
	fromCurriculum, err := curriculumPathIDs(db, "lesson_id", lessonID)
	if err != nil {
		return nil, err
	}
	return mergeIDs(fromItems, fromCurriculum), nil
}

// mergeIDs returns the distinct ids of all lists, ascending.
func mergeIDs(lists ...[]uint) []uint {
	seen := make(map[uint]bool)
	var out []uint
	for _, list := range lists {
		for _, id := range list {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
