package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"prep_admin_backend/internal/config"
	"prep_admin_backend/internal/model"
	"prep_admin_backend/internal/repository"
	"prep_admin_backend/internal/util"
	"prep_admin_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	Profiles *repository.ProfileRepository
	Cfg      *config.Config
}

func NewAuthService(profiles *repository.ProfileRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		Profiles: profiles,
		Cfg:      cfg,
	}
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login checks the credentials and returns a signed token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *model.Profile, error) {
	profile, err := s.Profiles.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, util.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, util.WrapInternal(err, util.MsgLoadFailed)
	}

	if profile.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)) != nil {
		return "", nil, util.ErrInvalidCredentials
	}
	if !profile.IsActive {
		return "", nil, util.ErrAccountDisabled
	}

	token, err := util.GenerateJWT(profile, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, util.WrapInternal(err, util.MsgSaveFailed)
	}

	now := time.Now()
	if err := s.Profiles.TouchLastLogin(ctx, profile.ID, now); err != nil {
		logger.Log.Warn("record last login failed", zap.Uint("profile_id", profile.ID), zap.Error(err))
	} else {
		profile.LastLoginAt = &now
	}
	logger.Log.Info("user logged in", zap.Uint("profile_id", profile.ID), zap.String("role", string(profile.Role)))
	return token, profile, nil
}

// CurrentProfile loads the profile behind a token.
func (s *AuthService) CurrentProfile(ctx context.Context, id uint) (*model.Profile, error) {
	profile, err := s.Profiles.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, util.MsgLoadFailed)
	}
	return profile, nil
}

// EnsureBootstrapAdmin creates the configured admin account when no admin
// exists yet. Without a configured email it does nothing.
func (s *AuthService) EnsureBootstrapAdmin(ctx context.Context) error {
	admin := s.Cfg.Admin
	if admin.Email == "" {
		return nil
	}

	n, err := s.Profiles.Count(ctx, map[string]interface{}{"role": model.Admin})
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if len(admin.Password) < 6 {
		return errors.New("admin.password must have at least 6 characters")
	}

	hashed, err := HashPassword(admin.Password)
	if err != nil {
		return err
	}
	profile := &model.Profile{
		Email:        normalizeEmail(admin.Email),
		FullName:     admin.FullName,
		Role:         model.Admin,
		IsActive:     true,
		PasswordHash: hashed,
	}
	if err := s.Profiles.Create(ctx, profile); err != nil {
		return err
	}
	logger.Log.Info("bootstrap admin created", zap.String("email", profile.Email))
	return nil
}
