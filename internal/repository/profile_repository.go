package repository

import (
	"context"
	"time"

	"prep_admin_backend/internal/model"

	"gorm.io/gorm"
)

type ProfileRepository struct {
	DB *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

// ProfileFilter narrows the user list. Empty fields match everything.
type ProfileFilter struct {
	Role     model.UserRole
	Course   model.CourseType
	Search   string
	IsActive *bool
	Page
}

func (r *ProfileRepository) Create(ctx context.Context, profile *model.Profile) error {
	return r.DB.WithContext(ctx).Create(profile).Error
}

func (r *ProfileRepository) FindByID(ctx context.Context, id uint) (*model.Profile, error) {
	var profile model.Profile
	err := r.DB.WithContext(ctx).First(&profile, id).Error
	return &profile, err
}

func (r *ProfileRepository) FindByEmail(ctx context.Context, email string) (*model.Profile, error) {
	var profile model.Profile
	err := r.DB.WithContext(ctx).Where("email = ?", email).First(&profile).Error
	return &profile, err
}

func (r *ProfileRepository) Update(ctx context.Context, profile *model.Profile) error {
	return r.DB.WithContext(ctx).Save(profile).Error
}

func (r *ProfileRepository) SetActive(ctx context.Context, id uint, active bool) error {
	return r.DB.WithContext(ctx).Model(&model.Profile{}).Where("id = ?", id).Update("is_active", active).Error
}

func (r *ProfileRepository) TouchLastLogin(ctx context.Context, id uint, at time.Time) error {
	return r.DB.WithContext(ctx).Model(&model.Profile{}).Where("id = ?", id).UpdateColumn("last_login_at", at).Error
}

func (r *ProfileRepository) Delete(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&model.Profile{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns one page of profiles and the exact total for the filter.
func (r *ProfileRepository) List(ctx context.Context, filter ProfileFilter) ([]model.Profile, int64, error) {
	query := r.DB.WithContext(ctx).Model(&model.Profile{})
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Course != "" {
		query = query.Where("course = ?", filter.Course)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	query = whereContains(query, filter.Search, "email", "full_name", "class_name")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	start, end := filter.Range()
	var profiles []model.Profile
	err := query.Order("created_at DESC").Order("id DESC").
		Offset(start).Limit(end - start + 1).
		Find(&profiles).Error
	return profiles, total, err
}

// Count counts profiles matching column = value pairs.
func (r *ProfileRepository) Count(ctx context.Context, where map[string]interface{}) (int64, error) {
	var n int64
	query := r.DB.WithContext(ctx).Model(&model.Profile{})
	if len(where) > 0 {
		query = query.Where(where)
	}
	err := query.Count(&n).Error
	return n, err
}
