package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"prep_admin_backend/internal/model"
	"prep_admin_backend/internal/repository"
	"prep_admin_backend/internal/util"
	"prep_admin_backend/internal/validation"
	"prep_admin_backend/pkg/cache"
	"prep_admin_backend/pkg/logger"

	"github.com/jinzhu/copier"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PathWithProgress is a learning path with its curriculum aggregates.
type PathWithProgress struct {
	model.LearningPath
	ItemCount       int `json:"item_count"`
	TotalMinutes    int `json:"total_minutes"`
	WeeksPlanned    int `json:"weeks_planned"`
	LessonCount     int `json:"lesson_count"`
	ProgressPercent int `json:"progress_percent"`
}

// ProgressPercent is the share of the planned weeks that have content, capped at 100.
func ProgressPercent(weeksPlanned, durationWeeks int) int {
	if durationWeeks <= 0 {
		return 0
	}
	p := weeksPlanned * 100 / durationWeeks
	if p > 100 {
		return 100
	}
	return p
}

// PathItemView is a path item as the editor shows it.
type PathItemView struct {
	ID          uint             `json:"id"`
	LessonID    uint             `json:"lesson_id"`
	ItemOrder   int              `json:"item_order"`
	LessonTitle string           `json:"lesson_title"`
	LessonType  model.LessonType `json:"lesson_type,omitempty"`
	Missing     bool             `json:"missing"`
}

// PathDetail is everything the learning path page renders.
type PathDetail struct {
	Path  model.LearningPath `json:"path"`
	Weeks []WeekGroup        `json:"weeks"`
	Items []PathItemView     `json:"items"`
}

type PathInput struct {
	Name            string           `json:"name" validate:"notblank"`
	Description     string           `json:"description"`
	CourseType      model.CourseType `json:"course_type" validate:"course_type"`
	Level           string           `json:"level"`
	TargetScore     int              `json:"target_score" validate:"min=0"`
	DurationWeeks   int              `json:"duration_weeks" validate:"min=1"`
	DifficultyLevel int              `json:"difficulty_level" validate:"min=1,max=5"`
	IsActive        *bool            `json:"is_active" copier:"-"`
}

type CurriculumInput struct {
	WeekNumber       *int              `json:"week_number" form:"week_number" validate:"omitempty,min=1"`
	DayNumber        *int              `json:"day_number" form:"day_number" validate:"omitempty,min=1,max=7"`
	Title            string            `json:"title" form:"title" validate:"notblank"`
	Description      string            `json:"description" form:"description"`
	ContentType      model.ContentType `json:"content_type" form:"content_type"`
	EstimatedMinutes int               `json:"estimated_minutes" form:"estimated_minutes" validate:"min=0"`
	LessonID         *uint             `json:"lesson_id" form:"lesson_id"`
	ExerciseID       *uint             `json:"exercise_id" form:"exercise_id"`
}

type LearningPathService struct {
	Paths       *repository.LearningPathRepository
	Curriculum  *repository.CurriculumRepository
	Items       *repository.PathItemRepository
	Lessons     *repository.LessonRepository
	Cache       cache.Store
	TTL         time.Duration
	Revalidator *Revalidator
}

func NewLearningPathService(
	paths *repository.LearningPathRepository,
	curriculum *repository.CurriculumRepository,
	items *repository.PathItemRepository,
	lessons *repository.LessonRepository,
	store cache.Store,
	ttl time.Duration,
) *LearningPathService {
	return &LearningPathService{
		Paths:       paths,
		Curriculum:  curriculum,
		Items:       items,
		Lessons:     lessons,
		Cache:       store,
		TTL:         ttl,
		Revalidator: NewRevalidator(store),
	}
}

// touch drops the cached page of the path and the overview list.
func (s *LearningPathService) touch(ctx context.Context, pathIDs ...uint) {
	if len(pathIDs) == 0 {
		s.Revalidator.Keys(ctx, LearningPathListKey)
		return
	}
	s.Revalidator.LearningPaths(ctx, pathIDs...)
}

// List returns every path with progress aggregates, newest course first.
func (s *LearningPathService) List(ctx context.Context) ([]PathWithProgress, error) {
	return cache.Remember(ctx, s.Cache, LearningPathListKey, s.TTL, func(ctx context.Context) ([]PathWithProgress, error) {
		paths, err := s.Paths.List(ctx, false)
		if err != nil {
			return nil, storeError(err, util.MsgLoadFailed)
		}
		return s.withProgress(ctx, paths)
	})
}

func (s *LearningPathService) withProgress(ctx context.Context, paths []model.LearningPath) ([]PathWithProgress, error) {
	ids := make([]uint, len(paths))
	for i, p := range paths {
		ids[i] = p.ID
	}
	stats, err := s.Paths.Stats(ctx, ids)
	if err != nil {
		return nil, storeError(err, util.MsgLoadFailed)
	}

	out := make([]PathWithProgress, 0, len(paths))
	for _, p := range paths {
		st := stats[p.ID]
		out = append(out, PathWithProgress{
			LearningPath:    p,
			ItemCount:       st.ItemCount,
			TotalMinutes:    st.TotalMinutes,
			WeeksPlanned:    st.WeeksPlanned,
			LessonCount:     st.LessonCount,
			ProgressPercent: ProgressPercent(st.WeeksPlanned, p.DurationWeeks),
		})
	}
	return out, nil
}

// PublicByCourse lists active paths grouped by course type.
func (s *LearningPathService) PublicByCourse(ctx context.Context) (map[model.CourseType][]PathWithProgress, error) {
	paths, err := s.Paths.List(ctx, true)
	if err != nil {
		return nil, storeError(err, util.MsgLoadFailed)
	}
	rows, err := s.withProgress(ctx, paths)
	if err != nil {
		return nil, err
	}
	out := make(map[model.CourseType][]PathWithProgress, len(model.CourseTypes))
	for _, ct := range model.CourseTypes {
		out[ct] = []PathWithProgress{}
	}
	for _, row := range rows {
		out[row.CourseType] = append(out[row.CourseType], row)
	}
	return out, nil
}

// Detail loads the path page data through the page cache.
func (s *LearningPathService) Detail(ctx context.Context, id uint) (*PathDetail, error) {
	detail, err := cache.Remember(ctx, s.Cache, cache.PageKey(LearningPathPagePath(id)), s.TTL, func(ctx context.Context) (PathDetail, error) {
		path, err := s.Paths.FindByID(ctx, id)
		if err != nil {
			return PathDetail{}, storeError(err, util.MsgLoadFailed)
		}
		items, err := s.Curriculum.ListByPath(ctx, id)
		if err != nil {
			return PathDetail{}, storeError(err, util.MsgLoadFailed)
		}
		views, err := s.pathItemViews(ctx, id)
		if err != nil {
			return PathDetail{}, err
		}
		return PathDetail{Path: *path, Weeks: GroupCurriculumByWeek(items), Items: views}, nil
	})
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

func pathMessage(in PathInput, fields map[string]string) string {
	switch {
	case strings.TrimSpace(in.Name) == "" || in.CourseType == "":
		return util.MsgRequiredFields
	case fields["course_type"] != "":
		return util.MsgInvalidCourseType
	case fields["difficulty_level"] != "":
		return util.MsgDifficultyRange
	case fields["duration_weeks"] != "":
		return util.MsgDurationWeeks
	}
	return validation.First(fields)
}

func validatePath(in *PathInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if fields := validation.Struct(in); fields != nil {
		return util.NewValidationError(pathMessage(*in, fields), fields)
	}
	return nil
}

func (s *LearningPathService) Create(ctx context.Context, actorID uint, in PathInput) (*model.LearningPath, error) {
	if err := validatePath(&in); err != nil {
		return nil, err
	}
	var path model.LearningPath
	if err := copier.Copy(&path, &in); err != nil {
		return nil, util.WrapInternal(err, util.MsgSaveFailed)
	}
	path.IsActive = in.IsActive == nil || *in.IsActive
	if actorID != 0 {
		path.CreatedBy = model.UintPtr(actorID)
	}

	if err := s.Paths.Create(ctx, &path); err != nil {
		return nil, storeError(err, util.MsgSaveFailed)
	}
	s.touch(ctx, path.ID)
	logger.Log.Info("learning path created", zap.Uint("path_id", path.ID))
	return &path, nil
}

func (s *LearningPathService) Update(ctx context.Context, id uint, in PathInput) (*model.LearningPath, error) {
	if err := validatePath(&in); err != nil {
		return nil, err
	}
	path, err := s.Paths.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, util.MsgLoadFailed)
	}
	if err := copier.Copy(path, &in); err != nil {
		return nil, util.WrapInternal(err, util.MsgSaveFailed)
	}
	if in.IsActive != nil {
		path.IsActive = *in.IsActive
	}
	if err := s.Paths.Update(ctx, path); err != nil {
		return nil, storeError(err, util.MsgSaveFailed)
	}
	s.touch(ctx, id)
	return path, nil
}

func (s *LearningPathService) Delete(ctx context.Context, id uint) error {
	if err := s.Paths.Delete(ctx, id); err != nil {
		return storeError(err, util.MsgDeleteFailed)
	}
	s.touch(ctx, id)
	logger.Log.Info("learning path deleted", zap.Uint("path_id", id))
	return nil
}

func validateCurriculum(in *CurriculumInput) error {
	in.Title = strings.TrimSpace(in.Title)
	if in.ContentType == "" {
		in.ContentType = model.ContentLesson
	}
	if fields := validation.Struct(in); fields != nil {
		msg := util.MsgRequiredFields
		if in.Title != "" {
			msg = validation.First(fields)
		}
		return util.NewValidationError(msg, fields)
	}
	if !in.ContentType.Valid() {
		return util.NewValidationError(util.MsgInvalidContent, map[string]string{"content_type": util.MsgInvalidContent})
	}
	return nil
}

func (in CurriculumInput) apply(item *model.CurriculumItem) {
	item.WeekNumber = in.WeekNumber
	item.DayNumber = in.DayNumber
	item.Title = in.Title
	item.Description = strings.TrimSpace(in.Description)
	item.ContentType = in.ContentType
	item.EstimatedMinutes = in.EstimatedMinutes
	item.LessonID = in.LessonID
	item.ExerciseID = in.ExerciseID
}

// AddCurriculumItem appends the item at the end of its week.
func (s *LearningPathService) AddCurriculumItem(ctx context.Context, pathID uint, in CurriculumInput) (*model.CurriculumItem, error) {
	if err := validateCurriculum(&in); err != nil {
		return nil, err
	}
	item := &model.CurriculumItem{LearningPathID: pathID}
	in.apply(item)
	if err := s.Curriculum.Append(ctx, item); err != nil {
		return nil, storeError(err, util.MsgSaveFailed)
	}
	s.touch(ctx, pathID)
	return item, nil
}

func (s *LearningPathService) UpdateCurriculumItem(ctx context.Context, itemID uint, in CurriculumInput) (*model.CurriculumItem, error) {
	if err := validateCurriculum(&in); err != nil {
		return nil, err
	}
	item, err := s.Curriculum.FindByID(ctx, itemID)
	if err != nil {
		return nil, storeError(err, util.MsgLoadFailed)
	}
	previousWeek := item.WeekNumber
	in.apply(item)
	if err := s.Curriculum.Update(ctx, item, previousWeek); err != nil {
		return nil, storeError(err, util.MsgSaveFailed)
	}
	s.touch(ctx, item.LearningPathID)
	return item, nil
}

// CurriculumItemOwner returns the path the curriculum item belongs to.
func (s *LearningPathService) CurriculumItemOwner(ctx context.Context, itemID uint) (uint, error) {
	item, err := s.Curriculum.FindByID(ctx, itemID)
	if err != nil {
		return 0, storeError(err, util.MsgLoadFailed)
	}
	return item.LearningPathID, nil
}

// DeleteCurriculumItem removes the item and returns the path it belonged to.
func (s *LearningPathService) DeleteCurriculumItem(ctx context.Context, itemID uint) (uint, error) {
	item, err := s.Curriculum.FindByID(ctx, itemID)
	if err != nil {
		return 0, storeError(err, util.MsgLoadFailed)
	}
	if err := s.Curriculum.Remove(ctx, item); err != nil {
		return 0, storeError(err, util.MsgDeleteFailed)
	}
	s.touch(ctx, item.LearningPathID)
	return item.LearningPathID, nil
}

func (s *LearningPathService) ReorderCurriculum(ctx context.Context, pathID uint, week *int, ids []uint) error {
	if err := s.Curriculum.Reorder(ctx, pathID, week, ids); err != nil {
		return storeError(err, util.MsgSaveFailed)
	}
	s.touch(ctx, pathID)
	return nil
}

func (s *LearningPathService) MoveCurriculumItem(ctx context.Context, itemID uint, delta int) (uint, error) {
	item, err := s.Curriculum.FindByID(ctx, itemID)
	if err != nil {
		return 0, storeError(err, util.MsgLoadFailed)
	}
	if err := s.Curriculum.Move(ctx, item, delta); err != nil {
		return 0, storeError(err, util.MsgSaveFailed)
	}
	s.touch(ctx, item.LearningPathID)
	return item.LearningPathID, nil
}

func (s *LearningPathService) pathItemViews(ctx context.Context, pathID uint) ([]PathItemView, error) {
	items, err := s.Items.ListByPath(ctx, pathID)
	if err != nil {
		return nil, storeError(err, util.MsgLoadFailed)
	}
	views := make([]PathItemView, 0, len(items))
	for _, it := range items {
		view := PathItemView{ID: it.ID, LessonID: it.LessonID, ItemOrder: it.ItemOrder}
		if it.Lesson != nil {
			view.LessonTitle = it.Lesson.Title
			view.LessonType = it.Lesson.Type
		} else {
			view.LessonTitle = util.MsgMissingLesson
			view.Missing = true
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *LearningPathService) ListPathItems(ctx context.Context, pathID uint) ([]PathItemView, error) {
	if _, err := s.Paths.FindByID(ctx, pathID); err != nil {
		return nil, storeError(err, util.MsgLoadFailed)
	}
	return s.pathItemViews(ctx, pathID)
}

// AddPathItem attaches a lesson at the end of the path. A lesson can appear
// on a path only once.
func (s *LearningPathService) AddPathItem(ctx context.Context, pathID, lessonID uint) (*model.PathItem, error) {
	if lessonID == 0 {
		return nil, util.NewValidationError(util.MsgRequiredFields, map[string]string{"lesson_id": util.MsgRequiredFields})
	}
	if _, err := s.Lessons.FindByID(ctx, lessonID); err != nil {
		return nil, storeError(err, util.MsgLoadFailed)
	}
	exists, err := s.Items.Exists(ctx, pathID, lessonID)
	if err != nil {
		return nil, storeError(err, util.MsgSaveFailed)
	}
	if exists {
		return nil, util.NewConflictError(util.MsgLessonInPath)
	}

	item := &model.PathItem{PathID: pathID, LessonID: lessonID}
	if err := s.Items.Append(ctx, item); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.NewConflictError(util.MsgLessonInPath)
		}
		return nil, storeError(err, util.MsgSaveFailed)
	}
	s.touch(ctx, pathID)
	return item, nil
}

// PathItemOwner returns the path the item belongs to.
func (s *LearningPathService) PathItemOwner(ctx context.Context, itemID uint) (uint, error) {
	item, err := s.Items.FindByID(ctx, itemID)
	if err != nil {
		return 0, storeError(err, util.MsgLoadFailed)
	}
	return item.PathID, nil
}

func (s *LearningPathService) RemovePathItem(ctx context.Context, itemID uint) (uint, error) {
	item, err := s.Items.FindByID(ctx, itemID)
	if err != nil {
		return 0, storeError(err, util.MsgLoadFailed)
	}
	if err := s.Items.Remove(ctx, item); err != nil {
		return 0, storeError(err, util.MsgDeleteFailed)
	}
	s.touch(ctx, item.PathID)
	return item.PathID, nil
}

func (s *LearningPathService) ReorderPathItems(ctx context.Context, pathID uint, ids []uint) error {
	if err := s.Items.Reorder(ctx, pathID, ids); err != nil {
		return storeError(err, util.MsgSaveFailed)
	}
	s.touch(ctx, pathID)
	return nil
}
