package service

import (
	"context"
	"errors"
	"strings"

	"prep_admin_backend/internal/model"
	"prep_admin_backend/internal/repository"
	"prep_admin_backend/internal/util"
	"prep_admin_backend/internal/validation"
	"prep_admin_backend/pkg/logger"

	"github.com/jinzhu/copier"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// ProfileInput is the body of user create and update.
type ProfileInput struct {
	Email     string           `json:"email" validate:"required,email"`
	FullName  string           `json:"full_name" validate:"notblank"`
	Role      model.UserRole   `json:"role" validate:"user_role"`
	Course    model.CourseType `json:"course" validate:"omitempty,course_type"`
	ClassName string           `json:"class_name"`
	Password  string           `json:"password,omitempty" copier:"-"`
	IsActive  *bool            `json:"is_active" copier:"-"`
}

// ProfileStats are the counters of the user management dashboard.
type ProfileStats struct {
	Total    int64                      `json:"total"`
	Active   int64                      `json:"active"`
	Inactive int64                      `json:"inactive"`
	ByRole   map[model.UserRole]int64   `json:"by_role"`
	ByCourse map[model.CourseType]int64 `json:"by_course"`
}

type ProfileService struct {
	Profiles *repository.ProfileRepository
}

func NewProfileService(profiles *repository.ProfileRepository) *ProfileService {
	return &ProfileService{Profiles: profiles}
}

func (s *ProfileService) List(ctx context.Context, filter repository.ProfileFilter) (*util.PageResponse, error) {
	profiles, total, err := s.Profiles.List(ctx, filter)
	if err != nil {
		return nil, storeError(err, util.MsgLoadFailed)
	}
	start, end := filter.Range()
	page := filter.Page.Page
	if page < 1 {
		page = 1
	}
	return &util.PageResponse{
		List:     profiles,
		Total:    total,
		Page:     page,
		PageSize: end - start + 1,
		From:     start,
		To:       end,
	}, nil
}

// Stats counts profiles overall, by activity, role and course. The counts
// are independent and run concurrently.
func (s *ProfileService) Stats(ctx context.Context) (*ProfileStats, error) {
	roles := []model.UserRole{model.Admin, model.Teacher, model.Student}
	roleCounts := make([]int64, len(roles))
	courseCounts := make([]int64, len(model.CourseTypes))
	stats := &ProfileStats{}

	g, gctx := errgroup.WithContext(ctx)
	count := func(dst *int64, where map[string]interface{}) {
		g.Go(func() error {
			n, err := s.Profiles.Count(gctx, where)
			*dst = n
			return err
		})
	}

	count(&stats.Total, nil)
	count(&stats.Active, map[string]interface{}{"is_active": true})
	for i, role := range roles {
		count(&roleCounts[i], map[string]interface{}{"role": role})
	}
	for i, course := range model.CourseTypes {
		count(&courseCounts[i], map[string]interface{}{"course": course})
	}
	if err := g.Wait(); err != nil {
		return nil, storeError(err, util.MsgLoadFailed)
	}

	stats.Inactive = stats.Total - stats.Active
	stats.ByRole = make(map[model.UserRole]int64, len(roles))
	for i, role := range roles {
		stats.ByRole[role] = roleCounts[i]
	}
	stats.ByCourse = make(map[model.CourseType]int64, len(model.CourseTypes))
	for i, course := range model.CourseTypes {
		stats.ByCourse[course] = courseCounts[i]
	}
	return stats, nil
}

func (s *ProfileService) Get(ctx context.Context, id uint) (*model.Profile, error) {
	profile, err := s.Profiles.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, util.MsgLoadFailed)
	}
	return profile, nil
}

func validateProfile(in *ProfileInput, requirePassword bool) error {
	in.Email = normalizeEmail(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)

	if fields := validation.Struct(in); fields != nil {
		msg := util.MsgRequiredFields
		switch {
		case in.Email == "" || in.FullName == "" || in.Role == "":
		case fields["email"] != "":
			msg = util.MsgInvalidEmail
		case fields["role"] != "":
			msg = util.MsgInvalidRole
		case fields["course"] != "":
			msg = util.MsgInvalidCourseType
		default:
			msg = validation.First(fields)
		}
		return util.NewValidationError(msg, fields)
	}
	if (requirePassword || in.Password != "") && len(in.Password) < 6 {
		return util.NewValidationError(util.MsgPasswordLength, map[string]string{"password": util.MsgPasswordLength})
	}
	return nil
}

func (s *ProfileService) ensureEmailFree(ctx context.Context, email string, selfID uint) error {
	existing, err := s.Profiles.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return storeError(err, util.MsgSaveFailed)
	}
	if existing.ID != selfID {
		return util.NewConflictError(util.MsgEmailExists)
	}
	return nil
}

// Create adds a profile. New profiles are active unless the input says otherwise.
func (s *ProfileService) Create(ctx context.Context, in ProfileInput) (*model.Profile, error) {
	if err := validateProfile(&in, true); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, in.Email, 0); err != nil {
		return nil, err
	}

	var profile model.Profile
	if err := copier.Copy(&profile, &in); err != nil {
		return nil, util.WrapInternal(err, util.MsgSaveFailed)
	}
	profile.IsActive = in.IsActive == nil || *in.IsActive

	hashed, err := HashPassword(in.Password)
	if err != nil {
		return nil, util.WrapInternal(err, util.MsgSaveFailed)
	}
	profile.PasswordHash = hashed

	if err := s.Profiles.Create(ctx, &profile); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.NewConflictError(util.MsgEmailExists)
		}
		return nil, storeError(err, util.MsgSaveFailed)
	}
	logger.Log.Info("profile created", zap.Uint("profile_id", profile.ID), zap.String("role", string(profile.Role)))
	return &profile, nil
}

// Update replaces the editable fields. A blank password keeps the current one.
func (s *ProfileService) Update(ctx context.Context, id uint, in ProfileInput) (*model.Profile, error) {
	if err := validateProfile(&in, false); err != nil {
		return nil, err
	}
	profile, err := s.Profiles.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, util.MsgLoadFailed)
	}
	if err := s.ensureEmailFree(ctx, in.Email, id); err != nil {
		return nil, err
	}

	if err := copier.Copy(profile, &in); err != nil {
		return nil, util.WrapInternal(err, util.MsgSaveFailed)
	}
	if in.IsActive != nil {
		profile.IsActive = *in.IsActive
	}
	if in.Password != "" {
		if profile.PasswordHash, err = HashPassword(in.Password); err != nil {
			return nil, util.WrapInternal(err, util.MsgSaveFailed)
		}
	}

	if err := s.Profiles.Update(ctx, profile); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.NewConflictError(util.MsgEmailExists)
		}
		return nil, storeError(err, util.MsgSaveFailed)
	}
	return profile, nil
}

// SetActive persists the activity flag and returns the updated row. An admin
// cannot deactivate their own account.
func (s *ProfileService) SetActive(ctx context.Context, actorID, id uint, active bool) (*model.Profile, error) {
	if actorID == id && !active {
		return nil, util.NewForbiddenError(util.MsgCannotDeleteSelf)
	}
	profile, err := s.Profiles.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, util.MsgLoadFailed)
	}
	if err := s.Profiles.SetActive(ctx, id, active); err != nil {
		return nil, storeError(err, util.MsgSaveFailed)
	}
	profile.IsActive = active
	logger.Log.Info("profile status changed", zap.Uint("profile_id", id), zap.Bool("is_active", active))
	return profile, nil
}

func (s *ProfileService) Delete(ctx context.Context, actorID, id uint) error {
	if actorID == id {
		return util.NewForbiddenError(util.MsgCannotDeleteSelf)
	}
	if err := s.Profiles.Delete(ctx, id); err != nil {
		return storeError(err, util.MsgDeleteFailed)
	}
	logger.Log.Info("profile deleted", zap.Uint("profile_id", id))
	return nil
}
