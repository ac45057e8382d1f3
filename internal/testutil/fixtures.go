package testutil

import (
	"testing"

	"prep_admin_backend/internal/model"

	"gorm.io/gorm"
)

func CreateLesson(tb testing.TB, db *gorm.DB, title string) *model.Lesson {
	tb.Helper()
	lesson := &model.Lesson{Title: title, Type: model.LessonReading, CourseType: model.CourseTOEIC}
	if err := db.Create(lesson).Error; err != nil {
		tb.Fatalf("create lesson: %v", err)
	}
	return lesson
}

func CreatePath(tb testing.TB, db *gorm.DB, name string) *model.LearningPath {
	tb.Helper()
	path := &model.LearningPath{
		Name:            name,
		CourseType:      model.CourseIELTS,
		DurationWeeks:   4,
		DifficultyLevel: 2,
		IsActive:        true,
	}
	if err := db.Create(path).Error; err != nil {
		tb.Fatalf("create learning path: %v", err)
	}
	return path
}

func CreateExercise(tb testing.TB, db *gorm.DB, title string, difficulty model.Difficulty, active bool) *model.Exercise {
	tb.Helper()
	exercise := &model.Exercise{
		Title:           title,
		ExerciseType:    model.ExerciseMultipleChoice,
		DifficultyLevel: difficulty,
		MaxScore:        100,
		IsActive:        active,
	}
	if err := db.Create(exercise).Error; err != nil {
		tb.Fatalf("create exercise: %v", err)
	}
	return exercise
}

func CreateProfile(tb testing.TB, db *gorm.DB, email string, role model.UserRole, active bool) *model.Profile {
	tb.Helper()
	profile := &model.Profile{
		Email:    email,
		FullName: email,
		Role:     role,
		IsActive: active,
	}
	if err := db.Create(profile).Error; err != nil {
		tb.Fatalf("create profile: %v", err)
	}
	return profile
}
