// Package seed imports demo content through the services, so every row it
// writes passes the same validation and ordering rules as the editors.
package seed

import (
	"context"

	"prep_admin_backend/internal/authoring"
	"prep_admin_backend/internal/service"
	"prep_admin_backend/internal/util"
	"prep_admin_backend/pkg/logger"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Seeder struct {
	Profiles  *service.ProfileService
	Lessons   *service.LessonService
	Paths     *service.LearningPathService
	Exercises *service.ExerciseService
}

// Report counts what a run created.
type Report struct {
	Profiles        int
	ProfilesSkipped int
	Lessons         int
	Sections        int
	Questions       int
	LearningPaths   int
	PathItems       int
	CurriculumItems int
	Exercises       int
}

// Run imports f on behalf of actorID. Profiles whose email already exists
// are skipped; everything else is created anew.
func (s *Seeder) Run(ctx context.Context, f *Fixture, actorID uint) (*Report, error) {
	report := &Report{}

	for _, p := range f.Profiles {
		_, err := s.Profiles.Create(ctx, service.ProfileInput{
			Email:     p.Email,
			FullName:  p.FullName,
			Role:      p.Role,
			Course:    p.Course,
			ClassName: p.ClassName,
			Password:  p.Password,
		})
		if util.IsKind(err, util.KindConflict) {
			report.ProfilesSkipped++
			continue
		}
		if err != nil {
			return report, errors.Wrapf(err, "profile %s", p.Email)
		}
		report.Profiles++
	}

	lessonIDs := make(map[string]uint, len(f.Lessons))
	for _, l := range f.Lessons {
		id, err := s.lesson(ctx, l, actorID, report)
		if err != nil {
			return report, errors.Wrapf(err, "lesson %q", l.Title)
		}
		if l.Key != "" {
			lessonIDs[l.Key] = id
		}
	}

	for _, p := range f.LearningPaths {
		if err := s.path(ctx, p, actorID, lessonIDs, report); err != nil {
			return report, errors.Wrapf(err, "learning path %q", p.Name)
		}
	}

	for _, e := range f.Exercises {
		if err := s.exercise(ctx, e, actorID); err != nil {
			return report, errors.Wrapf(err, "exercise %q", e.Title)
		}
		report.Exercises++
	}

	logger.Log.Info("seed finished",
		zap.Int("profiles", report.Profiles),
		zap.Int("lessons", report.Lessons),
		zap.Int("learning_paths", report.LearningPaths),
		zap.Int("exercises", report.Exercises),
	)
	return report, nil
}

func (s *Seeder) lesson(ctx context.Context, l Lesson, actorID uint, report *Report) (uint, error) {
	lesson, err := s.Lessons.Create(ctx, actorID, service.LessonInput{
		Title:       l.Title,
		Description: l.Description,
		Type:        l.Type,
		CourseType:  l.CourseType,
	})
	if err != nil {
		return 0, err
	}
	report.Lessons++

	for _, sec := range l.Sections {
		section, err := s.Lessons.AddSection(ctx, lesson.ID, service.SectionInput{
			Title:    sec.Title,
			Type:     sec.Type,
			Content:  sec.Content,
			AudioURL: sec.AudioURL,
		})
		if err != nil {
			return 0, errors.Wrapf(err, "section %q", sec.Title)
		}
		report.Sections++

		for _, q := range sec.Questions {
			_, err := s.Lessons.AddQuestion(ctx, section.ID, service.LessonQuestionInput{
				QuestionText:  q.Text,
				Options:       q.Options,
				CorrectAnswer: q.Answer,
				Explanation:   q.Explanation,
			})
			if err != nil {
				return 0, errors.Wrapf(err, "question %q", q.Text)
			}
			report.Questions++
		}
	}
	return lesson.ID, nil
}

func (s *Seeder) path(ctx context.Context, p LearningPath, actorID uint, lessonIDs map[string]uint, report *Report) error {
	path, err := s.Paths.Create(ctx, actorID, service.PathInput{
		Name:            p.Name,
		Description:     p.Description,
		CourseType:      p.CourseType,
		Level:           p.Level,
		TargetScore:     p.TargetScore,
		DurationWeeks:   p.DurationWeeks,
		DifficultyLevel: p.DifficultyLevel,
	})
	if err != nil {
		return err
	}
	report.LearningPaths++

	for _, key := range p.Lessons {
		id, ok := lessonIDs[key]
		if !ok {
			return errors.Errorf("unknown lesson key %q", key)
		}
		if _, err := s.Paths.AddPathItem(ctx, path.ID, id); err != nil {
			return err
		}
		report.PathItems++
	}

	for _, c := range p.Curriculum {
		in := service.CurriculumInput{
			WeekNumber:       c.Week,
			DayNumber:        c.Day,
			Title:            c.Title,
			Description:      c.Description,
			ContentType:      c.ContentType,
			EstimatedMinutes: c.Minutes,
		}
		if c.Lesson != "" {
			id, ok := lessonIDs[c.Lesson]
			if !ok {
				return errors.Errorf("unknown lesson key %q", c.Lesson)
			}
			in.LessonID = &id
		}
		if _, err := s.Paths.AddCurriculumItem(ctx, path.ID, in); err != nil {
			return errors.Wrapf(err, "curriculum item %q", c.Title)
		}
		report.CurriculumItems++
	}
	return nil
}

// exercise drives the editor draft question by question, so the fixture is
// held to the rules an operator would meet.
func (s *Seeder) exercise(ctx context.Context, e Exercise, actorID uint) error {
	draft := authoring.NewDraft(authoring.ExerciseForm{
		Title:            e.Title,
		Description:      e.Description,
		ExerciseType:     e.Type,
		DifficultyLevel:  e.Difficulty,
		MaxScore:         e.MaxScore,
		TimeLimitMinutes: e.TimeLimitMinutes,
	}, nil)

	for i, q := range e.Questions {
		if err := draft.StartAdd(); err != nil {
			return err
		}
		draft.Working = q.input()
		if err := draft.Commit(); err != nil {
			return errors.Wrapf(err, "question %d", i+1)
		}
	}

	payload, err := draft.Payload()
	if err != nil {
		return err
	}
	_, err = s.Exercises.Create(ctx, actorID, payload)
	return err
}
