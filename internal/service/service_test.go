package service

import (
	"bytes"
	"context"
	"io"
	"os"
	"sync"
	"testing"
	"time"

	"prep_admin_backend/internal/authoring"
	"prep_admin_backend/internal/config"
	"prep_admin_backend/internal/model"
	"prep_admin_backend/internal/repository"
	"prep_admin_backend/internal/testutil"
	"prep_admin_backend/internal/util"
	"prep_admin_backend/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{objects: make(map[string][]byte)}
}

func (m *memStorage) Upload(_ context.Context, filename string, reader io.Reader, _ int64, _ string) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	m.objects[filename] = data
	m.mu.Unlock()
	return m.GetURL(filename), nil
}

func (m *memStorage) UploadFile(ctx context.Context, filename, localPath, contentType string) (string, error) {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return "", err
	}
	return m.Upload(ctx, filename, bytes.NewReader(data), int64(len(data)), contentType)
}

func (m *memStorage) Delete(_ context.Context, filename string) error {
	m.mu.Lock()
	delete(m.objects, filename)
	m.mu.Unlock()
	return nil
}

func (m *memStorage) GetURL(filename string) string {
	return "https://files.test/" + filename
}

type fixedProber struct{ seconds float64 }

func (p fixedProber) Probe(context.Context, string) (*util.AudioInfo, error) {
	return &util.AudioInfo{Duration: p.seconds, Format: "mp3"}, nil
}

type fixture struct {
	db      *gorm.DB
	store   *cache.MemoryStore
	storage *memStorage
	uploads *UploadService

	profiles  *ProfileService
	auth      *AuthService
	paths     *LearningPathService
	lessons   *LessonService
	exercises *ExerciseService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.DB(t)
	store := cache.NewMemoryStore()
	storage := newMemStorage()
	uploads := NewUploadService(storage, fixedProber{seconds: 42.5}, config.UploadConfig{MaxSizeMB: 1, AudioMaxSizeMB: 2})

	profileRepo := repository.NewProfileRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour}}

	return &fixture{
		db:       db,
		store:    store,
		storage:  storage,
		uploads:  uploads,
		profiles: NewProfileService(profileRepo),
		auth:     NewAuthService(profileRepo, cfg),
		paths: NewLearningPathService(
			repository.NewLearningPathRepository(db),
			repository.NewCurriculumRepository(db),
			repository.NewPathItemRepository(db),
			lessonRepo,
			store, time.Minute,
		),
		lessons: NewLessonService(
			lessonRepo,
			repository.NewSectionRepository(db),
			repository.NewQuestionRepository(db),
			uploads, store, time.Minute,
		),
		exercises: NewExerciseService(repository.NewExerciseRepository(db), uploads, store),
	}
}

func appErr(t *testing.T, err error, kind util.ErrorKind, msg string) {
	t.Helper()
	require.Error(t, err)
	got := util.AsAppError(err)
	assert.Equal(t, kind, got.Kind)
	if msg != "" {
		assert.Equal(t, msg, got.Message)
	}
}

func TestProfileCreateDefaultsActive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.profiles.Create(ctx, ProfileInput{
		Email: " Lan@Example.com ", FullName: "Lan", Role: model.Student,
		Course: model.CourseTOEIC, Password: "secret1",
	})
	require.NoError(t, err)
	assert.True(t, p.IsActive)
	assert.Equal(t, "lan@example.com", p.Email)
	assert.NotEqual(t, "secret1", p.PasswordHash)

	_, err = f.profiles.Create(ctx, ProfileInput{Email: "lan@example.com", FullName: "Lan 2", Role: model.Teacher, Password: "secret1"})
	appErr(t, err, util.KindConflict, util.MsgEmailExists)
}

func TestProfileValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.profiles.Create(ctx, ProfileInput{FullName: "x", Role: model.Student, Password: "secret1"})
	appErr(t, err, util.KindValidation, util.MsgRequiredFields)

	_, err = f.profiles.Create(ctx, ProfileInput{Email: "a@b.co", FullName: "x", Role: "owner", Password: "secret1"})
	appErr(t, err, util.KindValidation, util.MsgInvalidRole)

	_, err = f.profiles.Create(ctx, ProfileInput{Email: "a@b.co", FullName: "x", Role: model.Student, Course: "SAT", Password: "secret1"})
	appErr(t, err, util.KindValidation, util.MsgInvalidCourseType)

	_, err = f.profiles.Create(ctx, ProfileInput{Email: "a@b.co", FullName: "x", Role: model.Student, Password: "123"})
	appErr(t, err, util.KindValidation, util.MsgPasswordLength)

	var n int64
	f.db.Model(&model.Profile{}).Count(&n)
	assert.Zero(t, n)
}

func TestProfileToggleAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := testutil.CreateProfile(t, f.db, "admin@x.io", model.Admin, true)
	student := testutil.CreateProfile(t, f.db, "s@x.io", model.Student, true)

	updated, err := f.profiles.SetActive(ctx, admin.ID, student.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	stored, err := f.profiles.Get(ctx, student.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)

	// setting the same value again is not a missing row
	_, err = f.profiles.SetActive(ctx, admin.ID, student.ID, false)
	require.NoError(t, err)

	_, err = f.profiles.SetActive(ctx, admin.ID, 9999, true)
	appErr(t, err, util.KindNotFound, util.MsgNotFound)

	_, err = f.profiles.SetActive(ctx, admin.ID, admin.ID, false)
	appErr(t, err, util.KindForbidden, util.MsgCannotDeleteSelf)

	appErr(t, f.profiles.Delete(ctx, admin.ID, admin.ID), util.KindForbidden, util.MsgCannotDeleteSelf)
	require.NoError(t, f.profiles.Delete(ctx, admin.ID, student.ID))
	appErr(t, f.profiles.Delete(ctx, admin.ID, student.ID), util.KindNotFound, "")
}

func TestProfileUpdateKeepsPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, err := f.profiles.Create(ctx, ProfileInput{Email: "t@x.io", FullName: "T", Role: model.Teacher, Password: "secret1"})
	require.NoError(t, err)
	other := testutil.CreateProfile(t, f.db, "o@x.io", model.Student, true)

	updated, err := f.profiles.Update(ctx, p.ID, ProfileInput{Email: "t@x.io", FullName: "Teacher T", Role: model.Teacher, ClassName: "A1"})
	require.NoError(t, err)
	assert.Equal(t, "Teacher T", updated.FullName)
	assert.Equal(t, "A1", updated.ClassName)
	assert.Equal(t, p.PasswordHash, updated.PasswordHash)
	assert.True(t, updated.IsActive)

	_, err = f.profiles.Update(ctx, p.ID, ProfileInput{Email: other.Email, FullName: "T", Role: model.Teacher})
	appErr(t, err, util.KindConflict, util.MsgEmailExists)
}

func TestProfileStats(t *testing.T) {
	f := newFixture(t)
	testutil.CreateProfile(t, f.db, "a@x.io", model.Admin, true)
	testutil.CreateProfile(t, f.db, "t@x.io", model.Teacher, true)
	s1 := testutil.CreateProfile(t, f.db, "s1@x.io", model.Student, false)
	s2 := testutil.CreateProfile(t, f.db, "s2@x.io", model.Student, true)
	f.db.Model(s1).Update("course", model.CourseIELTS)
	f.db.Model(s2).Update("course", model.CourseIELTS)

	stats, err := f.profiles.Stats(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 4, stats.Total)
	assert.EqualValues(t, 3, stats.Active)
	assert.EqualValues(t, 1, stats.Inactive)
	assert.EqualValues(t, 2, stats.ByRole[model.Student])
	assert.EqualValues(t, 1, stats.ByRole[model.Admin])
	assert.EqualValues(t, 2, stats.ByCourse[model.CourseIELTS])
	assert.EqualValues(t, 0, stats.ByCourse[model.CourseTOEIC])
}

func TestProfileListPage(t *testing.T) {
	f := newFixture(t)
	for _, email := range []string{"a@x.io", "b@x.io", "c@x.io"} {
		testutil.CreateProfile(t, f.db, email, model.Student, true)
	}
	page, err := f.profiles.List(context.Background(), repository.ProfileFilter{Page: repository.Page{Page: 2, PageSize: 2}})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.From)
	assert.Equal(t, 3, page.To)
	assert.Len(t, page.List, 1)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, err := f.profiles.Create(ctx, ProfileInput{Email: "t@x.io", FullName: "T", Role: model.Teacher, Password: "secret1"})
	require.NoError(t, err)

	token, profile, err := f.auth.Login(ctx, "T@x.io", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotNil(t, profile.LastLoginAt)

	claims, err := util.ParseJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, p.ID, claims.UserID)
	assert.Equal(t, model.Teacher, claims.Role)

	_, _, err = f.auth.Login(ctx, "t@x.io", "wrong")
	appErr(t, err, util.KindUnauthorized, util.MsgInvalidLogin)
	_, _, err = f.auth.Login(ctx, "nobody@x.io", "secret1")
	appErr(t, err, util.KindUnauthorized, util.MsgInvalidLogin)

	_, err = f.profiles.SetActive(ctx, 0, p.ID, false)
	require.NoError(t, err)
	_, _, err = f.auth.Login(ctx, "t@x.io", "secret1")
	appErr(t, err, util.KindForbidden, util.MsgAccountDisabled)
}

func TestEnsureBootstrapAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.auth.Cfg.Admin = config.AdminConfig{Email: "root@x.io", Password: "changeme", FullName: "Root"}

	require.NoError(t, f.auth.EnsureBootstrapAdmin(ctx))
	require.NoError(t, f.auth.EnsureBootstrapAdmin(ctx))

	n, err := f.auth.Profiles.Count(ctx, map[string]interface{}{"role": model.Admin})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, _, err = f.auth.Login(ctx, "root@x.io", "changeme")
	assert.NoError(t, err)
}

func TestProgressPercent(t *testing.T) {
	assert.Equal(t, 0, ProgressPercent(0, 8))
	assert.Equal(t, 50, ProgressPercent(4, 8))
	assert.Equal(t, 33, ProgressPercent(1, 3))
	assert.Equal(t, 100, ProgressPercent(9, 8))
	assert.Equal(t, 0, ProgressPercent(3, 0))
}

func validPath() PathInput {
	return PathInput{Name: "IELTS 6.5", CourseType: model.CourseIELTS, DurationWeeks: 4, DifficultyLevel: 3}
}

func TestLearningPathValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := validPath()
	in.Name = "  "
	_, err := f.paths.Create(ctx, 1, in)
	appErr(t, err, util.KindValidation, util.MsgRequiredFields)

	in = validPath()
	in.DifficultyLevel = 6
	_, err = f.paths.Create(ctx, 1, in)
	appErr(t, err, util.KindValidation, util.MsgDifficultyRange)

	in = validPath()
	in.DurationWeeks = 0
	_, err = f.paths.Create(ctx, 1, in)
	appErr(t, err, util.KindValidation, util.MsgDurationWeeks)

	in = validPath()
	in.CourseType = "SAT"
	_, err = f.paths.Create(ctx, 1, in)
	appErr(t, err, util.KindValidation, util.MsgInvalidCourseType)

	path, err := f.paths.Create(ctx, 7, validPath())
	require.NoError(t, err)
	assert.True(t, path.IsActive)
	require.NotNil(t, path.CreatedBy)
	assert.EqualValues(t, 7, *path.CreatedBy)
}

func TestLearningPathListProgressAndCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	path, err := f.paths.Create(ctx, 1, validPath())
	require.NoError(t, err)

	list, err := f.paths.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 0, list[0].ProgressPercent)

	for _, week := range []int{1, 1, 2} {
		_, err := f.paths.AddCurriculumItem(ctx, path.ID, CurriculumInput{
			WeekNumber: model.IntPtr(week), Title: "Unit", EstimatedMinutes: 30,
		})
		require.NoError(t, err)
	}

	list, err = f.paths.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, list[0].ItemCount)
	assert.Equal(t, 90, list[0].TotalMinutes)
	assert.Equal(t, 2, list[0].WeeksPlanned)
	assert.Equal(t, 50, list[0].ProgressPercent)
}

func TestLearningPathDetailRevalidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	path, err := f.paths.Create(ctx, 1, validPath())
	require.NoError(t, err)

	detail, err := f.paths.Detail(ctx, path.ID)
	require.NoError(t, err)
	assert.Empty(t, detail.Weeks)

	// a write that bypasses the service is not visible until revalidation
	require.NoError(t, f.db.Create(&model.CurriculumItem{LearningPathID: path.ID, Title: "raw"}).Error)
	detail, err = f.paths.Detail(ctx, path.ID)
	require.NoError(t, err)
	assert.Empty(t, detail.Weeks)

	_, err = f.paths.AddCurriculumItem(ctx, path.ID, CurriculumInput{WeekNumber: model.IntPtr(2), Title: "Listening"})
	require.NoError(t, err)
	detail, err = f.paths.Detail(ctx, path.ID)
	require.NoError(t, err)
	require.Len(t, detail.Weeks, 2)
	assert.Equal(t, 0, detail.Weeks[0].Week)
	assert.Equal(t, 2, detail.Weeks[1].Week)
	assert.Equal(t, "Listening", detail.Weeks[1].Items[0].Title)

	_, err = f.paths.Detail(ctx, 9999)
	appErr(t, err, util.KindNotFound, util.MsgNotFound)
}

func TestCurriculumOperations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	path, err := f.paths.Create(ctx, 1, validPath())
	require.NoError(t, err)

	_, err = f.paths.AddCurriculumItem(ctx, path.ID, CurriculumInput{Title: " "})
	appErr(t, err, util.KindValidation, util.MsgRequiredFields)
	_, err = f.paths.AddCurriculumItem(ctx, path.ID, CurriculumInput{Title: "x", ContentType: "podcast"})
	appErr(t, err, util.KindValidation, util.MsgInvalidContent)
	_, err = f.paths.AddCurriculumItem(ctx, 9999, CurriculumInput{Title: "x"})
	appErr(t, err, util.KindNotFound, util.MsgNotFound)

	var ids []uint
	for _, title := range []string{"a", "b", "c"} {
		item, err := f.paths.AddCurriculumItem(ctx, path.ID, CurriculumInput{WeekNumber: model.IntPtr(1), Title: title})
		require.NoError(t, err)
		assert.Equal(t, model.ContentLesson, item.ContentType)
		ids = append(ids, item.ID)
	}

	err = f.paths.ReorderCurriculum(ctx, path.ID, model.IntPtr(1), []uint{ids[0], ids[1]})
	appErr(t, err, util.KindValidation, util.MsgInvalidOrder)
	require.NoError(t, f.paths.ReorderCurriculum(ctx, path.ID, model.IntPtr(1), []uint{ids[2], ids[0], ids[1]}))

	_, err = f.paths.MoveCurriculumItem(ctx, ids[2], 1)
	require.NoError(t, err)

	updated, err := f.paths.UpdateCurriculumItem(ctx, ids[0], CurriculumInput{WeekNumber: model.IntPtr(3), Title: "a moved"})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Order())

	pathID, err := f.paths.DeleteCurriculumItem(ctx, ids[1])
	require.NoError(t, err)
	assert.Equal(t, path.ID, pathID)

	detail, err := f.paths.Detail(ctx, path.ID)
	require.NoError(t, err)
	require.Len(t, detail.Weeks, 2)
	assert.Equal(t, []uint{ids[2]}, idsOf(detail.Weeks[0].Items))
	assert.Equal(t, 1, detail.Weeks[0].Items[0].Order())
	assert.Equal(t, []uint{ids[0]}, idsOf(detail.Weeks[1].Items))
}

func idsOf(items []model.CurriculumItem) []uint {
	out := []uint{}
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestPathItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	path, err := f.paths.Create(ctx, 1, validPath())
	require.NoError(t, err)
	l1 := testutil.CreateLesson(t, f.db, "Reading 1")
	l2 := testutil.CreateLesson(t, f.db, "Reading 2")

	first, err := f.paths.AddPathItem(ctx, path.ID, l1.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.ItemOrder)
	second, err := f.paths.AddPathItem(ctx, path.ID, l2.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, second.ItemOrder)

	_, err = f.paths.AddPathItem(ctx, path.ID, l1.ID)
	appErr(t, err, util.KindConflict, util.MsgLessonInPath)
	_, err = f.paths.AddPathItem(ctx, path.ID, 9999)
	appErr(t, err, util.KindNotFound, "")
	_, err = f.paths.AddPathItem(ctx, 9999, l1.ID)
	appErr(t, err, util.KindNotFound, "")

	require.NoError(t, f.paths.ReorderPathItems(ctx, path.ID, []uint{second.ID, first.ID}))
	views, err := f.paths.ListPathItems(ctx, path.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "Reading 2", views[0].LessonTitle)

	// a row pointing at a lesson that is gone renders a placeholder
	require.NoError(t, f.db.Exec("DELETE FROM lessons WHERE id = ?", l2.ID).Error)
	views, err = f.paths.ListPathItems(ctx, path.ID)
	require.NoError(t, err)
	assert.True(t, views[0].Missing)
	assert.Equal(t, util.MsgMissingLesson, views[0].LessonTitle)

	_, err = f.paths.RemovePathItem(ctx, second.ID)
	require.NoError(t, err)
	views, err = f.paths.ListPathItems(ctx, path.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, 1, views[0].ItemOrder)
}

func TestPublicByCourse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.paths.Create(ctx, 1, validPath())
	require.NoError(t, err)
	hidden := validPath()
	hidden.IsActive = new(bool)
	_, err = f.paths.Create(ctx, 1, hidden)
	require.NoError(t, err)

	grouped, err := f.paths.PublicByCourse(ctx)
	require.NoError(t, err)
	assert.Len(t, grouped[model.CourseIELTS], 1)
	assert.Empty(t, grouped[model.CourseTOEIC])
}

func TestLessonSectionsAndQuestions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.lessons.Create(ctx, 1, LessonInput{Title: "x", Type: "drawing"})
	appErr(t, err, util.KindValidation, util.MsgInvalidLessonType)

	lesson, err := f.lessons.Create(ctx, 1, LessonInput{Title: "Part 7", Type: model.LessonReading, CourseType: model.CourseTOEIC})
	require.NoError(t, err)

	page, err := f.lessons.Page(ctx, lesson.ID)
	require.NoError(t, err)
	assert.Empty(t, page.Sections)

	s1, err := f.lessons.AddSection(ctx, lesson.ID, SectionInput{Title: "Passage", Type: model.SectionReadingPassage})
	require.NoError(t, err)
	s2, err := f.lessons.AddSection(ctx, lesson.ID, SectionInput{Title: "Questions"})
	require.NoError(t, err)
	assert.Equal(t, 1, s1.Order)
	assert.Equal(t, 2, s2.Order)
	assert.Equal(t, model.SectionMCQGroup, s2.Type)

	_, err = f.lessons.AddSection(ctx, 9999, SectionInput{Title: "orphan"})
	appErr(t, err, util.KindNotFound, util.MsgNotFound)

	_, err = f.lessons.AddQuestion(ctx, s2.ID, LessonQuestionInput{
		QuestionText: "Where?", Options: []string{"Here", "There"}, CorrectAnswer: "Nowhere",
	})
	appErr(t, err, util.KindValidation, authoring.MsgChooseCorrect)

	q1, err := f.lessons.AddQuestion(ctx, s2.ID, LessonQuestionInput{
		QuestionText: "Where?", Options: []string{"Here", " ", "There"}, CorrectAnswer: "There",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, q1.Order)
	assert.Equal(t, []string{"Here", "There"}, authoring.DecodeOptions(q1.Options))

	q2, err := f.lessons.AddQuestion(ctx, s2.ID, LessonQuestionInput{QuestionText: "Summarise the passage", CorrectAnswer: "free text"})
	require.NoError(t, err)
	assert.Equal(t, 2, q2.Order)
	assert.Equal(t, "free text", q2.CorrectAnswer)

	page, err = f.lessons.Page(ctx, lesson.ID)
	require.NoError(t, err)
	require.Len(t, page.Sections, 2)
	assert.Equal(t, "Passage", page.Sections[0].Title)
	require.Len(t, page.Sections[1].Questions, 2)

	require.NoError(t, f.lessons.MoveQuestion(ctx, q2.ID, -1))
	_, err = f.lessons.MoveSection(ctx, s2.ID, -5)
	require.NoError(t, err)

	page, err = f.lessons.Page(ctx, lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, "Questions", page.Sections[0].Title)
	assert.Equal(t, q2.ID, page.Sections[0].Questions[0].ID)

	lessonID, err := f.lessons.DeleteSection(ctx, s1.ID)
	require.NoError(t, err)
	assert.Equal(t, lesson.ID, lessonID)
	page, err = f.lessons.Page(ctx, lesson.ID)
	require.NoError(t, err)
	require.Len(t, page.Sections, 1)
	assert.Equal(t, 1, page.Sections[0].Order)
}

func TestLessonDeleteRevalidatesPaths(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	path, err := f.paths.Create(ctx, 1, validPath())
	require.NoError(t, err)
	lesson := testutil.CreateLesson(t, f.db, "Grammar")
	_, err = f.paths.AddPathItem(ctx, path.ID, lesson.ID)
	require.NoError(t, err)

	detail, err := f.paths.Detail(ctx, path.ID)
	require.NoError(t, err)
	require.Len(t, detail.Items, 1)

	require.NoError(t, f.lessons.Delete(ctx, lesson.ID))
	detail, err = f.paths.Detail(ctx, path.ID)
	require.NoError(t, err)
	assert.Empty(t, detail.Items)

	appErr(t, f.lessons.Delete(ctx, lesson.ID), util.KindNotFound, "")
}

func TestLessonChangesRevalidateCurriculumPaths(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	withItem, err := f.paths.Create(ctx, 1, validPath())
	require.NoError(t, err)
	withCurriculum, err := f.paths.Create(ctx, 1, validPath())
	require.NoError(t, err)
	lesson := testutil.CreateLesson(t, f.db, "Grammar")

	_, err = f.paths.AddPathItem(ctx, withItem.ID, lesson.ID)
	require.NoError(t, err)
	_, err = f.paths.AddCurriculumItem(ctx, withCurriculum.ID, CurriculumInput{WeekNumber: model.IntPtr(1), Title: "Read", LessonID: model.UintPtr(lesson.ID)})
	require.NoError(t, err)

	// warm both page caches
	detail, err := f.paths.Detail(ctx, withItem.ID)
	require.NoError(t, err)
	assert.Equal(t, "Grammar", detail.Items[0].LessonTitle)
	detail, err = f.paths.Detail(ctx, withCurriculum.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Weeks[0].Items[0].LessonID)

	_, err = f.lessons.Update(ctx, lesson.ID, LessonInput{Title: "Grammar v2", Type: model.LessonGrammar, CourseType: model.CourseTOEIC})
	require.NoError(t, err)
	detail, err = f.paths.Detail(ctx, withItem.ID)
	require.NoError(t, err)
	assert.Equal(t, "Grammar v2", detail.Items[0].LessonTitle)

	require.NoError(t, f.lessons.Delete(ctx, lesson.ID))
	detail, err = f.paths.Detail(ctx, withCurriculum.ID)
	require.NoError(t, err)
	require.Len(t, detail.Weeks, 1)
	assert.Nil(t, detail.Weeks[0].Items[0].LessonID)
}

func TestExerciseDeleteRevalidatesCurriculumPaths(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	path, err := f.paths.Create(ctx, 1, validPath())
	require.NoError(t, err)
	ex := testutil.CreateExercise(t, f.db, "Practice", model.DifficultyEasy, true)
	_, err = f.paths.AddCurriculumItem(ctx, path.ID, CurriculumInput{WeekNumber: model.IntPtr(1), Title: "Practice", ExerciseID: model.UintPtr(ex.ID)})
	require.NoError(t, err)

	detail, err := f.paths.Detail(ctx, path.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Weeks[0].Items[0].ExerciseID)

	require.NoError(t, f.exercises.Delete(ctx, ex.ID))
	detail, err = f.paths.Detail(ctx, path.ID)
	require.NoError(t, err)
	assert.Nil(t, detail.Weeks[0].Items[0].ExerciseID)
}

func TestSectionAudioUpload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lesson := testutil.CreateLesson(t, f.db, "Listening")
	section, err := f.lessons.AddSection(ctx, lesson.ID, SectionInput{Title: "Part 1", Type: model.SectionListeningAudio})
	require.NoError(t, err)

	audio := append([]byte("ID3\x03\x00\x00\x00\x00\x00\x0a"), bytes.Repeat([]byte{0}, 64)...)
	updated, err := f.lessons.UploadSectionAudio(ctx, section.ID, FileUpload{
		Filename: "part1.mp3", ContentType: "audio/mpeg", Size: int64(len(audio)), Content: bytes.NewReader(audio),
	})
	require.NoError(t, err)
	assert.Contains(t, updated.AudioURL, "https://files.test/audio/")
	assert.Equal(t, 42.5, updated.AudioDurationSeconds)

	_, err = f.lessons.UploadSectionAudio(ctx, section.ID, FileUpload{
		Filename: "notes.pdf", ContentType: util.MimePDF, Size: 10, Content: bytes.NewReader([]byte("%PDF-1.4\n")),
	})
	appErr(t, err, util.KindValidation, util.MsgInvalidAudioType)
}

func mcq(text string) authoring.QuestionInput {
	return authoring.QuestionInput{
		QuestionType: authoring.MultipleChoice, QuestionText: text,
		Options: []string{"A", "B"}, CorrectAnswer: "A",
	}
}

func TestExerciseCreateAndUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	form := authoring.ExerciseForm{Title: "Unit 1", ExerciseType: model.ExerciseMultipleChoice, DifficultyLevel: model.DifficultyEasy}

	_, err := f.exercises.Create(ctx, 1, authoring.SavePayload{ExerciseForm: authoring.ExerciseForm{Title: "x"}})
	appErr(t, err, util.KindValidation, authoring.MsgRequiredFields)

	bad := mcq("Q?")
	bad.CorrectAnswer = "C"
	_, err = f.exercises.Create(ctx, 1, authoring.SavePayload{ExerciseForm: form, Questions: []authoring.QuestionInput{bad}})
	appErr(t, err, util.KindValidation, authoring.MsgChooseCorrect)

	var n int64
	f.db.Model(&model.Exercise{}).Count(&n)
	assert.Zero(t, n)

	ex, err := f.exercises.Create(ctx, 1, authoring.SavePayload{ExerciseForm: form, Questions: []authoring.QuestionInput{mcq("Q1"), mcq("Q2")}})
	require.NoError(t, err)
	assert.True(t, ex.IsActive)
	require.Len(t, ex.Questions, 2)

	existing := authoring.FromModel(ex.Questions[1])
	existing.QuestionText = "Q2 edited"
	form.Title = "Unit 1 revised"
	updated, err := f.exercises.Update(ctx, ex.ID, authoring.SavePayload{
		ExerciseForm:       form,
		Questions:          []authoring.QuestionInput{mcq("Q3")},
		ExistingQuestions:  []authoring.QuestionInput{existing},
		RemovedQuestionIDs: []uint{ex.Questions[0].ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "Unit 1 revised", updated.Title)
	require.Len(t, updated.Questions, 2)
	assert.Equal(t, "Q2 edited", updated.Questions[0].QuestionText)
	assert.Equal(t, 1, updated.Questions[0].Order)
	assert.Equal(t, "Q3", updated.Questions[1].QuestionText)
	assert.Equal(t, 2, updated.Questions[1].Order)

	_, err = f.exercises.Update(ctx, 9999, authoring.SavePayload{ExerciseForm: form})
	appErr(t, err, util.KindNotFound, "")
}

func TestExerciseToggleAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ex := testutil.CreateExercise(t, f.db, "Toggle me", model.DifficultyMedium, true)

	updated, err := f.exercises.SetActive(ctx, ex.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	stored, err := f.exercises.Get(ctx, ex.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)

	_, err = f.exercises.SetActive(ctx, 9999, true)
	appErr(t, err, util.KindNotFound, util.MsgNotFound)

	require.NoError(t, f.exercises.Delete(ctx, ex.ID))
	appErr(t, f.exercises.Delete(ctx, ex.ID), util.KindNotFound, "")
}

func TestUploadDocument(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pdf := []byte("%PDF-1.4\n%âãÏÓ\n1 0 obj\n<<>>\nendobj\n")

	url, err := f.exercises.UploadSourceFile(ctx, FileUpload{
		Filename: "Unit 1.pdf", ContentType: util.MimePDF, Size: int64(len(pdf)), Content: bytes.NewReader(pdf),
	})
	require.NoError(t, err)
	assert.Contains(t, url, "https://files.test/exercises/")
	assert.Len(t, f.storage.objects, 1)

	_, err = f.exercises.UploadSourceFile(ctx, FileUpload{
		Filename: "photo.png", ContentType: "image/png", Size: 10, Content: bytes.NewReader([]byte("\x89PNG")),
	})
	appErr(t, err, util.KindValidation, util.MsgInvalidFileType)

	_, err = f.exercises.UploadSourceFile(ctx, FileUpload{
		Filename: "big.pdf", ContentType: util.MimePDF, Size: 2 << 20, Content: bytes.NewReader(pdf),
	})
	appErr(t, err, util.KindValidation, "File quá lớn. Kích thước tối đa là 1MB")

	// content that is not a pdf is refused whatever the name says
	_, err = f.exercises.UploadSourceFile(ctx, FileUpload{
		Filename: "fake.pdf", ContentType: util.MimePDF, Size: 5, Content: bytes.NewReader([]byte("hello")),
	})
	appErr(t, err, util.KindValidation, util.MsgInvalidFileType)
	assert.Len(t, f.storage.objects, 1)

	f.uploads.SetLimits(config.UploadConfig{MaxSizeMB: 5})
	assert.EqualValues(t, 5, f.uploads.DocumentRule().MaxMB())
	assert.EqualValues(t, 50, f.uploads.AudioRule().MaxMB())
}

func TestAttachSourceFile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ex := testutil.CreateExercise(t, f.db, "With file", model.DifficultyHard, true)
	pdf := []byte("%PDF-1.7\n")

	updated, err := f.exercises.AttachSourceFile(ctx, ex.ID, FileUpload{
		Filename: "key.pdf", ContentType: util.MimePDF, Size: int64(len(pdf)), Content: bytes.NewReader(pdf),
	})
	require.NoError(t, err)
	stored, err := f.exercises.Get(ctx, ex.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.SourceFileURL, stored.SourceFileURL)
}
