package seed_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"prep_admin_backend/internal/app"
	"prep_admin_backend/internal/config"
	"prep_admin_backend/internal/model"
	"prep_admin_backend/internal/repository"
	"prep_admin_backend/internal/seed"
	"prep_admin_backend/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newSeeder(t *testing.T) (*seed.Seeder, *gorm.DB) {
	t.Helper()
	db := testutil.DB(t)
	cfg := &config.Config{
		Server:    config.ServerConfig{Mode: gin.TestMode},
		JWT:       config.JWTConfig{Secret: "seed-secret", ExpireTime: time.Hour},
		Storage:   config.StorageConfig{Type: "local", LocalPath: t.TempDir()},
		RateLimit: config.RateLimitConfig{MaxRequests: 100, WindowMinutes: 1},
	}
	a, err := app.New(cfg, db, nil)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close(context.Background()) })
	return a.Seeder(), db
}

func TestDemoFixtureDecodes(t *testing.T) {
	f, err := seed.Demo()
	require.NoError(t, err)
	assert.Len(t, f.Profiles, 2)
	assert.Len(t, f.Lessons, 2)
	require.Len(t, f.LearningPaths, 1)
	assert.Equal(t, []string{"toeic-reading-1", "toeic-listening-1"}, f.LearningPaths[0].Lessons)
	require.Len(t, f.Exercises, 1)
	assert.Len(t, f.Exercises[0].Questions, 3)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := seed.Load(strings.NewReader("lessons:\n  - titel: typo\n"))
	assert.Error(t, err)
}

func TestRunDemo(t *testing.T) {
	seeder, db := newSeeder(t)
	ctx := context.Background()
	f, err := seed.Demo()
	require.NoError(t, err)

	report, err := seeder.Run(ctx, f, 0)
	require.NoError(t, err)
	assert.Equal(t, seed.Report{
		Profiles:        2,
		Lessons:         2,
		Sections:        2,
		Questions:       3,
		LearningPaths:   1,
		PathItems:       2,
		CurriculumItems: 3,
		Exercises:       1,
	}, *report)

	var path model.LearningPath
	require.NoError(t, db.Where("name = ?", "TOEIC 650+ in 8 weeks").First(&path).Error)
	items, err := repository.NewPathItemRepository(db).ListByPath(ctx, path.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].ItemOrder)
	assert.Equal(t, 2, items[1].ItemOrder)

	var exercise model.Exercise
	require.NoError(t, db.Preload("Questions").Where("title = ?", "Grammar check 1").First(&exercise).Error)
	assert.True(t, exercise.IsActive)
	assert.Len(t, exercise.Questions, 3)

	// profiles are matched by email on a second run
	report, err = seeder.Run(ctx, &seed.Fixture{Profiles: f.Profiles}, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Profiles)
	assert.Equal(t, 2, report.ProfilesSkipped)
}

func TestRunUnknownLessonKey(t *testing.T) {
	seeder, _ := newSeeder(t)
	f := &seed.Fixture{LearningPaths: []seed.LearningPath{{
		Name: "Broken", CourseType: model.CourseAPTIS, DurationWeeks: 2, DifficultyLevel: 1,
		Lessons: []string{"missing"},
	}}}
	_, err := seeder.Run(context.Background(), f, 0)
	assert.Error(t, err)
}
