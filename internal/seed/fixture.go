package seed

import (
	"bytes"
	_ "embed"
	"io"

	"prep_admin_backend/internal/authoring"
	"prep_admin_backend/internal/model"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed demo.yaml
var demo []byte

// Fixture is a YAML document of demo content. Lessons are referenced from
// learning paths by their Key.
type Fixture struct {
	Profiles      []Profile      `yaml:"profiles"`
	Lessons       []Lesson       `yaml:"lessons"`
	LearningPaths []LearningPath `yaml:"learning_paths"`
	Exercises     []Exercise     `yaml:"exercises"`
}

type Profile struct {
	Email     string           `yaml:"email"`
	FullName  string           `yaml:"full_name"`
	Role      model.UserRole   `yaml:"role"`
	Course    model.CourseType `yaml:"course"`
	ClassName string           `yaml:"class_name"`
	Password  string           `yaml:"password"`
}

type Lesson struct {
	Key         string           `yaml:"key"`
	Title       string           `yaml:"title"`
	Description string           `yaml:"description"`
	Type        model.LessonType `yaml:"type"`
	CourseType  model.CourseType `yaml:"course_type"`
	Sections    []Section        `yaml:"sections"`
}

type Section struct {
	Title     string            `yaml:"title"`
	Type      model.SectionType `yaml:"type"`
	Content   string            `yaml:"content"`
	AudioURL  string            `yaml:"audio_url"`
	Questions []Question        `yaml:"questions"`
}

type Question struct {
	Text        string   `yaml:"text"`
	Options     []string `yaml:"options"`
	Answer      string   `yaml:"answer"`
	Explanation string   `yaml:"explanation"`
}

type LearningPath struct {
	Name            string           `yaml:"name"`
	Description     string           `yaml:"description"`
	CourseType      model.CourseType `yaml:"course_type"`
	Level           string           `yaml:"level"`
	TargetScore     int              `yaml:"target_score"`
	DurationWeeks   int              `yaml:"duration_weeks"`
	DifficultyLevel int              `yaml:"difficulty_level"`
	Lessons         []string         `yaml:"lessons"`
	Curriculum      []CurriculumItem `yaml:"curriculum"`
}

type CurriculumItem struct {
	Week        *int              `yaml:"week"`
	Day         *int              `yaml:"day"`
	Title       string            `yaml:"title"`
	Description string            `yaml:"description"`
	ContentType model.ContentType `yaml:"content_type"`
	Minutes     int               `yaml:"minutes"`
	Lesson      string            `yaml:"lesson"`
}

type Exercise struct {
	Title            string             `yaml:"title"`
	Description      string             `yaml:"description"`
	Type             model.ExerciseType `yaml:"type"`
	Difficulty       model.Difficulty   `yaml:"difficulty"`
	MaxScore         int                `yaml:"max_score"`
	TimeLimitMinutes int                `yaml:"time_limit_minutes"`
	Questions        []ExerciseQuestion `yaml:"questions"`
}

type ExerciseQuestion struct {
	Type        authoring.QuestionType `yaml:"type"`
	Text        string                 `yaml:"text"`
	Options     []string               `yaml:"options"`
	Answer      string                 `yaml:"answer"`
	Explanation string                 `yaml:"explanation"`
	Points      int                    `yaml:"points"`
}

func (q ExerciseQuestion) input() authoring.QuestionInput {
	return authoring.QuestionInput{
		QuestionType:  q.Type,
		QuestionText:  q.Text,
		Options:       q.Options,
		CorrectAnswer: q.Answer,
		Explanation:   q.Explanation,
		Points:        q.Points,
	}
}

// Load decodes a fixture, rejecting unknown keys so typos surface.
func Load(r io.Reader) (*Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f Fixture
	if err := dec.Decode(&f); err != nil {
		return nil, errors.Wrap(err, "decode seed fixture")
	}
	return &f, nil
}

// Demo is the fixture shipped with the repository.
func Demo() (*Fixture, error) {
	return Load(bytes.NewReader(demo))
}
