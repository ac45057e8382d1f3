package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"prep_admin_backend/internal/config"
	"prep_admin_backend/internal/middleware"
	"prep_admin_backend/internal/model"
	"prep_admin_backend/internal/service"
	"prep_admin_backend/internal/testutil"
	"prep_admin_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminEmail    = "admin@prep.test"
	adminPassword = "secret-admin"
)

type harness struct {
	t   *testing.T
	app *App
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := &config.Config{
		Server:    config.ServerConfig{Port: "0", Mode: gin.TestMode},
		JWT:       config.JWTConfig{Secret: "test-secret-with-enough-length-000", ExpireTime: time.Hour},
		Storage:   config.StorageConfig{Type: "local", LocalPath: t.TempDir(), PublicBaseURL: "http://files.test"},
		Upload:    config.UploadConfig{MaxSizeMB: 10, AudioMaxSizeMB: 50},
		RateLimit: config.RateLimitConfig{MaxRequests: 10000, WindowMinutes: 1},
		Admin:     config.AdminConfig{Email: adminEmail, Password: adminPassword, FullName: "Admin"},
	}
	app, err := New(cfg, testutil.DB(t), nil)
	require.NoError(t, err)
	t.Cleanup(app.limiter.Stop)
	require.NoError(t, app.Bootstrap(context.Background()))
	return &harness{t: t, app: app}
}

func (h *harness) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.app.Router.ServeHTTP(rec, req)
	return rec
}

func (h *harness) json(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	h.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(h.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return h.serve(req)
}

func (h *harness) form(path, token string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.TokenCookie, Value: token})
	}
	return h.serve(req)
}

func (h *harness) page(path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.TokenCookie, Value: token})
	}
	return h.serve(req)
}

func (h *harness) login(email, password string) string {
	h.t.Helper()
	rec := h.json(http.MethodPost, "/api/login", "", map[string]string{"email": email, "password": password})
	require.Equal(h.t, http.StatusOK, rec.Code, rec.Body.String())
	var body struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	decode(h.t, rec, &body)
	require.NotEmpty(h.t, body.Data.Token)
	return body.Data.Token
}

func (h *harness) staff(email string, role model.UserRole) (*model.Profile, string) {
	h.t.Helper()
	profile, err := h.app.services.profile.Create(context.Background(), service.ProfileInput{
		Email: email, FullName: email, Role: role, Password: "password1",
	})
	require.NoError(h.t, err)
	return profile, h.login(email, "password1")
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body util.Response
	decode(t, rec, &body)
	assert.False(t, body.Success)
	return body.Error
}

func TestHealthAndLogin(t *testing.T) {
	h := newHarness(t)

	rec := h.json(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = h.json(http.MethodPost, "/api/login", "", map[string]string{"email": adminEmail, "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, util.MsgInvalidLogin, errorOf(t, rec))

	token := h.login(strings.ToUpper(adminEmail), adminPassword)
	rec = h.json(http.MethodGet, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), adminEmail)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestAccessControl(t *testing.T) {
	h := newHarness(t)

	rec := h.json(http.MethodGet, "/api/lessons", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	_, studentToken := h.staff("student@prep.test", model.Student)
	rec = h.json(http.MethodGet, "/api/lessons", studentToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	teacher, teacherToken := h.staff("teacher@prep.test", model.Teacher)
	rec = h.json(http.MethodGet, "/api/lessons", teacherToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// user writes are admin only
	rec = h.json(http.MethodPost, "/api/users", teacherToken, map[string]string{"email": "x@prep.test"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = h.json(http.MethodGet, "/api/users", teacherToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// deactivation applies to tokens already issued
	adminToken := h.login(adminEmail, adminPassword)
	rec = h.json(http.MethodPatch, fmt.Sprintf("/api/users/%d/toggle-status", teacher.ID), adminToken, map[string]bool{"is_active": false})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = h.json(http.MethodGet, "/api/lessons", teacherToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, util.MsgAccountDisabled, errorOf(t, rec))
}

func TestExerciseEndpoints(t *testing.T) {
	h := newHarness(t)
	token := h.login(adminEmail, adminPassword)

	rec := h.json(http.MethodPost, "/api/exercises", token, map[string]interface{}{
		"title":            "Unit 1",
		"exercise_type":    "multiple_choice",
		"difficulty_level": "easy",
		"questions": []map[string]interface{}{
			{"question_type": "multiple_choice", "question_text": "2+2?", "options": []string{"3", "4"}, "correct_answer": "4"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		Exercise model.Exercise `json:"exercise"`
	}
	decode(t, rec, &created)
	assert.True(t, created.Exercise.IsActive)
	id := created.Exercise.ID

	rec = h.json(http.MethodPost, "/api/exercises", token, map[string]interface{}{"title": "", "exercise_type": "essay"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, util.MsgRequiredFields, errorOf(t, rec))

	rec = h.json(http.MethodGet, "/api/exercises?difficulty_level=all", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Exercises []model.Exercise `json:"exercises"`
	}
	decode(t, rec, &list)
	require.Len(t, list.Exercises, 1)

	rec = h.json(http.MethodPatch, fmt.Sprintf("/api/exercises/%d/toggle-status", id), token, map[string]bool{"is_active": false})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &created)
	assert.False(t, created.Exercise.IsActive)

	rec = h.json(http.MethodDelete, fmt.Sprintf("/api/exercises/%d", id), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	rec = h.json(http.MethodGet, fmt.Sprintf("/api/exercises/%d", id), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func upload(t *testing.T, path, token, filename, contentType string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	header := make(map[string][]string)
	header["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename)}
	header["Content-Type"] = []string{contentType}
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestUploadFile(t *testing.T) {
	h := newHarness(t)
	token := h.login(adminEmail, adminPassword)

	rec := h.serve(upload(t, "/api/exercises/upload-file", token, "unit.pdf", util.MimePDF, []byte("%PDF-1.4\n%âãÏÓ\n")))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body struct {
		Data struct {
			PublicURL string `json:"publicUrl"`
		} `json:"data"`
	}
	decode(t, rec, &body)
	assert.True(t, strings.HasPrefix(body.Data.PublicURL, "http://files.test/uploads/exercises/"), body.Data.PublicURL)

	rec = h.serve(upload(t, "/api/exercises/upload-file", token, "photo.png", "image/png", []byte("\x89PNG\r\n\x1a\n")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, util.MsgInvalidFileType, errorOf(t, rec))
}

func TestLessonAndPathAPI(t *testing.T) {
	h := newHarness(t)
	token := h.login(adminEmail, adminPassword)

	rec := h.json(http.MethodPost, "/api/lessons", token, map[string]string{"title": "Reading 1", "type": "reading", "course_type": "TOEIC"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var lesson struct {
		Data model.Lesson `json:"data"`
	}
	decode(t, rec, &lesson)

	for _, title := range []string{"A", "B", "C"} {
		rec = h.json(http.MethodPost, fmt.Sprintf("/api/lessons/%d/sections", lesson.Data.ID), token, map[string]string{"title": title})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}
	rec = h.json(http.MethodGet, fmt.Sprintf("/api/lessons/%d", lesson.Data.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &lesson)
	require.Len(t, lesson.Data.Sections, 3)
	ids := []uint{lesson.Data.Sections[2].ID, lesson.Data.Sections[0].ID, lesson.Data.Sections[1].ID}

	rec = h.json(http.MethodPut, fmt.Sprintf("/api/lessons/%d/sections/reorder", lesson.Data.ID), token, map[string][]uint{"ids": ids[:2]})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, util.MsgInvalidOrder, errorOf(t, rec))

	rec = h.json(http.MethodPut, fmt.Sprintf("/api/lessons/%d/sections/reorder", lesson.Data.ID), token, map[string][]uint{"ids": ids})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = h.json(http.MethodGet, fmt.Sprintf("/api/lessons/%d", lesson.Data.ID), token, nil)
	decode(t, rec, &lesson)
	assert.Equal(t, "C", lesson.Data.Sections[0].Title)
	assert.Equal(t, 1, lesson.Data.Sections[0].Order)

	rec = h.json(http.MethodPost, "/api/learning-paths", token, map[string]interface{}{
		"name": "TOEIC 600", "course_type": "TOEIC", "duration_weeks": 4, "difficulty_level": 2,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var path struct {
		Data model.LearningPath `json:"data"`
	}
	decode(t, rec, &path)
	base := fmt.Sprintf("/api/learning-paths/%d", path.Data.ID)

	rec = h.json(http.MethodPost, base+"/items", token, map[string]uint{"lesson_id": lesson.Data.ID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = h.json(http.MethodPost, base+"/items", token, map[string]uint{"lesson_id": lesson.Data.ID})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, util.MsgLessonInPath, errorOf(t, rec))

	rec = h.json(http.MethodPost, base+"/curriculum", token, map[string]interface{}{"week_number": 2, "title": "Mock test", "content_type": "test", "estimated_minutes": 90})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = h.json(http.MethodGet, "/api/learning-paths", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var paths struct {
		Data []service.PathWithProgress `json:"data"`
	}
	decode(t, rec, &paths)
	require.Len(t, paths.Data, 1)
	assert.Equal(t, 25, paths.Data[0].ProgressPercent)
	assert.Equal(t, 90, paths.Data[0].TotalMinutes)
	assert.Equal(t, 1, paths.Data[0].LessonCount)

	rec = h.json(http.MethodGet, "/api/public/learning-paths", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "TOEIC 600")
}

func TestAdminPages(t *testing.T) {
	h := newHarness(t)
	token := h.login(adminEmail, adminPassword)
	ctx := context.Background()

	lesson, err := h.app.services.lesson.Create(ctx, 0, service.LessonInput{Title: "Listening 2", Type: model.LessonListening})
	require.NoError(t, err)
	lessonPage := service.LessonPagePath(lesson.ID)

	rec := h.page(lessonPage, "")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/login?next="+url.QueryEscape(lessonPage), rec.Header().Get("Location"))

	rec = h.page(lessonPage, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Listening 2")

	rec = h.form("/admin/sections", token, url.Values{"lessonId": {fmt.Sprint(lesson.ID)}, "title": {"Part 1"}, "type": {"listening_audio"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, lessonPage, rec.Header().Get("Location"))

	// the cached page was dropped by the mutation
	rec = h.page(lessonPage, token)
	assert.Contains(t, rec.Body.String(), "Part 1")

	rec = h.form("/admin/sections", token, url.Values{"lessonId": {fmt.Sprint(lesson.ID)}, "title": {"  "}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `class="banner"`)
	assert.Contains(t, rec.Body.String(), "Part 1")

	rec = h.form("/admin/sections", token, url.Values{"lessonId": {"9999"}, "title": {"Lost"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	page, err := h.app.services.lesson.Page(ctx, lesson.ID)
	require.NoError(t, err)
	sectionID := fmt.Sprint(page.Sections[0].ID)

	rec = h.form("/admin/questions", token, url.Values{
		"lessonId": {fmt.Sprint(lesson.ID)}, "sectionId": {sectionID},
		"question_text": {"Where is he?"}, "options": {"Home", "Office", ""}, "correct_answer": {"Gym"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = h.form("/admin/questions", token, url.Values{
		"lessonId": {fmt.Sprint(lesson.ID)}, "sectionId": {sectionID},
		"question_text": {"Where is he?"}, "options": {"Home", "Office", ""}, "correct_answer": {"Office"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	rec = h.page(lessonPage, token)
	assert.Contains(t, rec.Body.String(), "Where is he?")
}

func TestFormActionsRequireMatchingParent(t *testing.T) {
	h := newHarness(t)
	token := h.login(adminEmail, adminPassword)
	ctx := context.Background()
	lessons := h.app.services.lesson
	paths := h.app.services.learningPath

	shown, err := lessons.Create(ctx, 0, service.LessonInput{Title: "Shown", Type: model.LessonReading})
	require.NoError(t, err)
	other, err := lessons.Create(ctx, 0, service.LessonInput{Title: "Other", Type: model.LessonReading})
	require.NoError(t, err)
	section, err := lessons.AddSection(ctx, other.ID, service.SectionInput{Title: "Part 1", Type: model.SectionMCQGroup})
	require.NoError(t, err)
	question, err := lessons.AddQuestion(ctx, section.ID, service.LessonQuestionInput{QuestionText: "Why?"})
	require.NoError(t, err)

	shownID := fmt.Sprint(shown.ID)
	sectionID := fmt.Sprint(section.ID)
	for _, tc := range []struct {
		path   string
		values url.Values
	}{
		{"/admin/sections/delete", url.Values{"lessonId": {shownID}, "sectionId": {sectionID}}},
		{"/admin/sections/move", url.Values{"lessonId": {shownID}, "sectionId": {sectionID}, "delta": {"1"}}},
		{"/admin/questions", url.Values{"lessonId": {shownID}, "sectionId": {sectionID}, "question_text": {"Who?"}}},
		{"/admin/questions/delete", url.Values{"lessonId": {shownID}, "questionId": {fmt.Sprint(question.ID)}}},
	} {
		rec := h.form(tc.path, token, tc.values)
		assert.Equal(t, http.StatusNotFound, rec.Code, tc.path)
	}
	page, err := lessons.Page(ctx, other.ID)
	require.NoError(t, err)
	require.Len(t, page.Sections, 1)
	assert.Len(t, page.Sections[0].Questions, 1)

	shownPath, err := paths.Create(ctx, 0, service.PathInput{Name: "Shown", CourseType: model.CourseTOEIC, DurationWeeks: 4, DifficultyLevel: 2})
	require.NoError(t, err)
	otherPath, err := paths.Create(ctx, 0, service.PathInput{Name: "Other", CourseType: model.CourseTOEIC, DurationWeeks: 4, DifficultyLevel: 2})
	require.NoError(t, err)
	item, err := paths.AddPathItem(ctx, otherPath.ID, other.ID)
	require.NoError(t, err)
	curriculum, err := paths.AddCurriculumItem(ctx, otherPath.ID, service.CurriculumInput{WeekNumber: model.IntPtr(1), Title: "Read"})
	require.NoError(t, err)

	shownPathID := fmt.Sprint(shownPath.ID)
	rec := h.form("/admin/path-items/delete", token, url.Values{"pathId": {shownPathID}, "itemId": {fmt.Sprint(item.ID)}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = h.form("/admin/curriculum-items/delete", token, url.Values{"pathId": {shownPathID}, "itemId": {fmt.Sprint(curriculum.ID)}})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	detail, err := paths.Detail(ctx, otherPath.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Items, 1)
	require.Len(t, detail.Weeks, 1)
	assert.Len(t, detail.Weeks[0].Items, 1)

	// the matching parent still works
	rec = h.form("/admin/path-items/delete", token, url.Values{"pathId": {fmt.Sprint(otherPath.ID)}, "itemId": {fmt.Sprint(item.ID)}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, service.LearningPathPagePath(otherPath.ID), rec.Header().Get("Location"))
}

func TestLearningPathPage(t *testing.T) {
	h := newHarness(t)
	token := h.login(adminEmail, adminPassword)
	ctx := context.Background()

	lesson, err := h.app.services.lesson.Create(ctx, 0, service.LessonInput{Title: "Grammar 3", Type: model.LessonGrammar})
	require.NoError(t, err)
	path, err := h.app.services.learningPath.Create(ctx, 0, service.PathInput{
		Name: "IELTS 6.5", CourseType: model.CourseIELTS, DurationWeeks: 6, DifficultyLevel: 3,
	})
	require.NoError(t, err)
	pathPage := service.LearningPathPagePath(path.ID)
	pathID := fmt.Sprint(path.ID)

	rec := h.form("/admin/path-items", token, url.Values{"pathId": {pathID}, "lessonId": {fmt.Sprint(lesson.ID)}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, pathPage, rec.Header().Get("Location"))

	rec = h.form("/admin/path-items", token, url.Values{"pathId": {pathID}, "lessonId": {fmt.Sprint(lesson.ID)}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), util.MsgLessonInPath)

	rec = h.form("/admin/curriculum-items", token, url.Values{
		"pathId": {pathID}, "week_number": {"3"}, "day_number": {""}, "title": {"Essay practice"},
		"content_type": {"exercise"}, "estimated_minutes": {"40"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = h.form("/admin/curriculum-items", token, url.Values{"pathId": {pathID}, "week_number": {"x"}, "title": {"Bad"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = h.page(pathPage, token)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Grammar 3")
	assert.Contains(t, body, "Tuần 3")
	assert.Contains(t, body, "Essay practice")

	// deleting the lesson detaches it and drops the cached page
	require.NoError(t, h.app.services.lesson.Delete(ctx, lesson.ID))
	rec = h.page(pathPage, token)
	assert.NotContains(t, rec.Body.String(), "Grammar 3")

	rec = h.page("/admin/learning-paths/9999", token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminLoginPage(t *testing.T) {
	h := newHarness(t)

	rec := h.page("/admin/login?next=/admin/lessons/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="/admin/lessons/1"`)

	rec = h.form("/admin/login", "", url.Values{"email": {adminEmail}, "password": {"nope"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), util.MsgInvalidLogin)

	rec = h.form("/admin/login", "", url.Values{"email": {adminEmail}, "password": {adminPassword}, "next": {"https://evil.test"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin", rec.Header().Get("Location"))
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, middleware.TokenCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	rec = h.page("/admin", cookies[0].Value)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestConfigReloadAppliesUploadLimits(t *testing.T) {
	h := newHarness(t)
	next := *h.app.Config
	next.Upload = config.UploadConfig{MaxSizeMB: 3, AudioMaxSizeMB: 7}
	for _, cb := range h.app.configCallbacks {
		cb(&next)
	}
	assert.Equal(t, int64(3), h.app.services.upload.DocumentRule().MaxMB())
	assert.Equal(t, int64(7), h.app.services.upload.AudioRule().MaxMB())
}
