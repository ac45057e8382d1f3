// Package view holds the server-rendered admin pages.
package view

import (
	"embed"
	"html/template"
	"strconv"

	"prep_admin_backend/internal/authoring"
	"prep_admin_backend/internal/model"
	"prep_admin_backend/internal/service"

	"gorm.io/datatypes"
)

//go:embed templates/*.html
var files embed.FS

// Page template names, as passed to gin's c.HTML.
const (
	LoginPage        = "login.html"
	DashboardPage    = "dashboard.html"
	LessonPage       = "lesson.html"
	LearningPathPage = "learning_path.html"
	NotFoundPage     = "not_found.html"
	ErrorPage        = "error.html"
)

// Banner is the red inline message shown above a form that was rejected.
type Banner struct {
	Message string
	Fields  map[string]string
}

type Login struct {
	Banner *Banner
	Email  string
	Next   string
}

type Dashboard struct {
	Banner  *Banner
	Lessons []model.Lesson
	Paths   []service.PathWithProgress
}

type Lesson struct {
	Banner       *Banner
	Lesson       *model.Lesson
	SectionTypes []model.SectionType
}

type LearningPath struct {
	Banner       *Banner
	Detail       *service.PathDetail
	Lessons      []model.Lesson
	ContentTypes []model.ContentType
}

type Message struct {
	Title   string
	Message string
}

var funcs = template.FuncMap{
	"options": func(raw datatypes.JSON) []string {
		return authoring.DecodeOptions(raw)
	},
	"weekLabel": func(week int) string {
		if week == 0 {
			return "Chưa xếp tuần"
		}
		return "Tuần " + strconv.Itoa(week)
	},
	"derefInt":  model.IntValue,
	"derefUint": model.UintValue,
}

// Load parses every page together with the shared layout.
func Load() (*template.Template, error) {
	return template.New("admin").Funcs(funcs).ParseFS(files, "templates/*.html")
}
