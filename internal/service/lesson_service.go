package service

import (
	"context"
	"strings"
	"time"

	"prep_admin_backend/internal/authoring"
	"prep_admin_backend/internal/model"
	"prep_admin_backend/internal/repository"
	"prep_admin_backend/internal/util"
	"prep_admin_backend/internal/validation"
	"prep_admin_backend/pkg/cache"
	"prep_admin_backend/pkg/logger"

	"go.uber.org/zap"
)

type LessonInput struct {
	Title       string           `json:"title" validate:"notblank"`
	Description string           `json:"description"`
	Type        model.LessonType `json:"type"`
	CourseType  model.CourseType `json:"course_type" validate:"omitempty,course_type"`
}

type SectionInput struct {
	Title    string            `json:"title" form:"title" validate:"notblank"`
	Type     model.SectionType `json:"type" form:"type"`
	Content  string            `json:"content" form:"content"`
	AudioURL string            `json:"audio_url" form:"audio_url"`
}

// LessonQuestionInput is a question inside a lesson section. With options it
// is a multiple choice question whose answer must be one of them; without
// options it is an open question.
type LessonQuestionInput struct {
	QuestionText  string   `json:"question_text" form:"question_text"`
	Options       []string `json:"options" form:"options"`
	CorrectAnswer string   `json:"correct_answer" form:"correct_answer"`
	Explanation   string   `json:"explanation" form:"explanation"`
}

func (in LessonQuestionInput) authoring() authoring.QuestionInput {
	q := authoring.QuestionInput{
		QuestionType:  authoring.Essay,
		QuestionText:  in.QuestionText,
		Options:       in.Options,
		CorrectAnswer: in.CorrectAnswer,
		Explanation:   in.Explanation,
	}
	for _, o := range in.Options {
		if strings.TrimSpace(o) != "" {
			q.QuestionType = authoring.MultipleChoice
			break
		}
	}
	return q
}

func (in LessonQuestionInput) toModel() (model.Question, error) {
	q := in.authoring()
	if err := q.Validate(); err != nil {
		return model.Question{}, err
	}
	q = q.Normalize()
	answer := q.CorrectAnswer
	if q.QuestionType == authoring.Essay {
		// open questions keep the suggested answer as entered
		answer = strings.TrimSpace(in.CorrectAnswer)
	}
	return model.Question{
		QuestionText:  q.QuestionText,
		Options:       authoring.EncodeOptions(q.Options),
		CorrectAnswer: answer,
		Explanation:   q.Explanation,
	}, nil
}

type LessonService struct {
	Lessons     *repository.LessonRepository
	Sections    *repository.SectionRepository
	Questions   *repository.QuestionRepository
	Uploads     *UploadService
	Cache       cache.Store
	TTL         time.Duration
	Revalidator *Revalidator
}

func NewLessonService(
	lessons *repository.LessonRepository,
	sections *repository.SectionRepository,
	questions *repository.QuestionRepository,
	uploads *UploadService,
	store cache.Store,
	ttl time.Duration,
) *LessonService {
	return &LessonService{
		Lessons:     lessons,
		Sections:    sections,
		Questions:   questions,
		Uploads:     uploads,
		Cache:       store,
		TTL:         ttl,
		Revalidator: NewRevalidator(store),
	}
}

func (s *LessonService) touch(ctx context.Context, lessonID uint) {
	s.Revalidator.Paths(ctx, LessonPagePath(lessonID))
}

func (s *LessonService) List(ctx context.Context, filter repository.LessonFilter) ([]model.Lesson, error) {
	lessons, err := s.Lessons.List(ctx, filter)
	if err != nil {
		return nil, storeError(err, util.MsgLoadFailed)
	}
	return lessons, nil
}

// Page returns the lesson with its sections and questions in order, through
// the page cache.
func (s *LessonService) Page(ctx context.Context, id uint) (*model.Lesson, error) {
	lesson, err := cache.Remember(ctx, s.Cache, cache.PageKey(LessonPagePath(id)), s.TTL, func(ctx context.Context) (model.Lesson, error) {
		l, err := s.Lessons.FindWithContent(ctx, id)
		if err != nil {
			return model.Lesson{}, storeError(err, util.MsgLoadFailed)
		}
		return *l, nil
	})
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func validateLesson(in *LessonInput) error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" || in.Type == "" {
		return util.NewValidationError(util.MsgRequiredFields, nil)
	}
	if !in.Type.Valid() {
		return util.NewValidationError(util.MsgInvalidLessonType, map[string]string{"type": util.MsgInvalidLessonType})
	}
	if fields := validation.Struct(in); fields != nil {
		msg := validation.First(fields)
		if fields["course_type"] != "" {
			msg = util.MsgInvalidCourseType
		}
		return util.NewValidationError(msg, fields)
	}
	return nil
}

func (s *LessonService) Create(ctx context.Context, actorID uint, in LessonInput) (*model.Lesson, error) {
	if err := validateLesson(&in); err != nil {
		return nil, err
	}
	lesson := &model.Lesson{
		Title:       in.Title,
		Description: strings.TrimSpace(in.Description),
		Type:        in.Type,
		CourseType:  in.CourseType,
	}
	if actorID != 0 {
		lesson.CreatedBy = model.UintPtr(actorID)
	}
	if err := s.Lessons.Create(ctx, lesson); err != nil {
		return nil, storeError(err, util.MsgSaveFailed)
	}
	logger.Log.Info("lesson created", zap.Uint("lesson_id", lesson.ID))
	return lesson, nil
}

func (s *LessonService) Update(ctx context.Context, id uint, in LessonInput) (*model.Lesson, error) {
	if err := validateLesson(&in); err != nil {
		return nil, err
	}
	lesson, err := s.Lessons.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, util.MsgLoadFailed)
	}
	lesson.Title = in.Title
	lesson.Description = strings.TrimSpace(in.Description)
	lesson.Type = in.Type
	lesson.CourseType = in.CourseType
	if err := s.Lessons.Update(ctx, lesson); err != nil {
		return nil, storeError(err, util.MsgSaveFailed)
	}
	s.touch(ctx, id)
	// path pages render the lesson title
	pathIDs, err := s.Lessons.PathIDs(ctx, id)
	if err != nil {
		logger.Log.Warn("lesson paths lookup failed", zap.Uint("lesson_id", id), zap.Error(err))
	}
	s.Revalidator.LearningPaths(ctx, pathIDs...)
	return lesson, nil
}

// Delete removes the lesson with its content and detaches it from every
// learning path, whose pages are revalidated too.
func (s *LessonService) Delete(ctx context.Context, id uint) error {
	touched, err := s.Lessons.Delete(ctx, id)
	if err != nil {
		return storeError(err, util.MsgDeleteFailed)
	}
	s.touch(ctx, id)
	s.Revalidator.LearningPaths(ctx, touched...)
	logger.Log.Info("lesson deleted", zap.Uint("lesson_id", id), zap.Int("paths_touched", len(touched)))
	return nil
}

func validateSection(in *SectionInput) error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Type == "" {
		in.Type = model.SectionMCQGroup
	}
	if fields := validation.Struct(in); fields != nil {
		return util.NewValidationError(util.MsgRequiredFields, fields)
	}
	if !in.Type.Valid() {
		return util.NewValidationError(util.MsgInvalidSection, map[string]string{"type": util.MsgInvalidSection})
	}
	return nil
}

// AddSection appends a section after the last one of the lesson.
func (s *LessonService) AddSection(ctx context.Context, lessonID uint, in SectionInput) (*model.TestSection, error) {
	if err := validateSection(&in); err != nil {
		return nil, err
	}
	section := &model.TestSection{
		LessonID: lessonID,
		Title:    in.Title,
		Type:     in.Type,
		Content:  in.Content,
		AudioURL: strings.TrimSpace(in.AudioURL),
	}
	if err := s.Sections.Append(ctx, section); err != nil {
		return nil, storeError(err, util.MsgSaveFailed)
	}
	s.touch(ctx, lessonID)
	return section, nil
}

func (s *LessonService) UpdateSection(ctx context.Context, sectionID uint, in SectionInput) (*model.TestSection, error) {
	if err := validateSection(&in); err != nil {
		return nil, err
	}
	section, err := s.Sections.FindByID(ctx, sectionID)
	if err != nil {
		return nil, storeError(err, util.MsgLoadFailed)
	}
	section.Title = in.Title
	section.Type = in.Type
	section.Content = in.Content
	if url := strings.TrimSpace(in.AudioURL); url != section.AudioURL {
		section.AudioURL = url
		section.AudioDurationSeconds = 0
	}
	if err := s.Sections.Update(ctx, section); err != nil {
		return nil, storeError(err, util.MsgSaveFailed)
	}
	s.touch(ctx, section.LessonID)
	return section, nil
}

// SectionOwner returns the lesson the section belongs to.
func (s *LessonService) SectionOwner(ctx context.Context, sectionID uint) (uint, error) {
	section, err := s.Sections.FindByID(ctx, sectionID)
	if err != nil {
		return 0, storeError(err, util.MsgLoadFailed)
	}
	return section.LessonID, nil
}

// QuestionOwner returns the lesson of the question's section.
func (s *LessonService) QuestionOwner(ctx context.Context, questionID uint) (uint, error) {
	question, err := s.Questions.FindByID(ctx, questionID)
	if err != nil {
		return 0, storeError(err, util.MsgLoadFailed)
	}
	return s.SectionOwner(ctx, question.SectionID)
}

// DeleteSection removes the section and its questions and returns the lesson id.
func (s *LessonService) DeleteSection(ctx context.Context, sectionID uint) (uint, error) {
	section, err := s.Sections.FindByID(ctx, sectionID)
	if err != nil {
		return 0, storeError(err, util.MsgLoadFailed)
	}
	if err := s.Sections.Remove(ctx, section); err != nil {
		return 0, storeError(err, util.MsgDeleteFailed)
	}
	s.touch(ctx, section.LessonID)
	return section.LessonID, nil
}

func (s *LessonService) ReorderSections(ctx context.Context, lessonID uint, ids []uint) error {
	if err := s.Sections.Reorder(ctx, lessonID, ids); err != nil {
		return storeError(err, util.MsgSaveFailed)
	}
	s.touch(ctx, lessonID)
	return nil
}

func (s *LessonService) MoveSection(ctx context.Context, sectionID uint, delta int) (uint, error) {
	section, err := s.Sections.FindByID(ctx, sectionID)
	if err != nil {
		return 0, storeError(err, util.MsgLoadFailed)
	}
	if err := s.Sections.Move(ctx, section, delta); err != nil {
		return 0, storeError(err, util.MsgSaveFailed)
	}
	s.touch(ctx, section.LessonID)
	return section.LessonID, nil
}

// UploadSectionAudio stores the listening audio of a section and records its
// probed duration.
func (s *LessonService) UploadSectionAudio(ctx context.Context, sectionID uint, file FileUpload) (*model.TestSection, error) {
	section, err := s.Sections.FindByID(ctx, sectionID)
	if err != nil {
		return nil, storeError(err, util.MsgLoadFailed)
	}
	url, info, err := s.Uploads.UploadAudio(ctx, file)
	if err != nil {
		return nil, err
	}
	var seconds float64
	if info != nil {
		seconds = info.Duration
	}
	if err := s.Sections.SetAudio(ctx, sectionID, url, seconds); err != nil {
		return nil, storeError(err, util.MsgSaveFailed)
	}
	section.AudioURL = url
	section.AudioDurationSeconds = seconds
	s.touch(ctx, section.LessonID)
	return section, nil
}

// AddQuestion appends a question to a section.
func (s *LessonService) AddQuestion(ctx context.Context, sectionID uint, in LessonQuestionInput) (*model.Question, error) {
	row, err := in.toModel()
	if err != nil {
		return nil, err
	}
	section, err := s.Sections.FindByID(ctx, sectionID)
	if err != nil {
		return nil, storeError(err, util.MsgLoadFailed)
	}
	row.SectionID = sectionID
	if err := s.Questions.Append(ctx, &row); err != nil {
		return nil, storeError(err, util.MsgSaveFailed)
	}
	s.touch(ctx, section.LessonID)
	return &row, nil
}

func (s *LessonService) UpdateQuestion(ctx context.Context, questionID uint, in LessonQuestionInput) (*model.Question, error) {
	row, err := in.toModel()
	if err != nil {
		return nil, err
	}
	question, err := s.Questions.FindByID(ctx, questionID)
	if err != nil {
		return nil, storeError(err, util.MsgLoadFailed)
	}
	question.QuestionText = row.QuestionText
	question.Options = row.Options
	question.CorrectAnswer = row.CorrectAnswer
	question.Explanation = row.Explanation
	if err := s.Questions.Update(ctx, question); err != nil {
		return nil, storeError(err, util.MsgSaveFailed)
	}
	s.touchSection(ctx, question.SectionID)
	return question, nil
}

func (s *LessonService) DeleteQuestion(ctx context.Context, questionID uint) error {
	question, err := s.Questions.FindByID(ctx, questionID)
	if err != nil {
		return storeError(err, util.MsgLoadFailed)
	}
	if err := s.Questions.Remove(ctx, question); err != nil {
		return storeError(err, util.MsgDeleteFailed)
	}
	s.touchSection(ctx, question.SectionID)
	return nil
}

func (s *LessonService) ReorderQuestions(ctx context.Context, sectionID uint, ids []uint) error {
	if err := s.Questions.Reorder(ctx, sectionID, ids); err != nil {
		return storeError(err, util.MsgSaveFailed)
	}
	s.touchSection(ctx, sectionID)
	return nil
}

func (s *LessonService) MoveQuestion(ctx context.Context, questionID uint, delta int) error {
	question, err := s.Questions.FindByID(ctx, questionID)
	if err != nil {
		return storeError(err, util.MsgLoadFailed)
	}
	if err := s.Questions.Move(ctx, question, delta); err != nil {
		return storeError(err, util.MsgSaveFailed)
	}
	s.touchSection(ctx, question.SectionID)
	return nil
}

func (s *LessonService) touchSection(ctx context.Context, sectionID uint) {
	section, err := s.Sections.FindByID(ctx, sectionID)
	if err != nil {
		logger.Log.Warn("revalidate section lesson failed", zap.Uint("section_id", sectionID), zap.Error(err))
		return
	}
	s.touch(ctx, section.LessonID)
}
