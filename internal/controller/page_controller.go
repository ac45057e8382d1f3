package controller

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"prep_admin_backend/internal/middleware"
	"prep_admin_backend/internal/model"
	"prep_admin_backend/internal/repository"
	"prep_admin_backend/internal/service"
	"prep_admin_backend/internal/util"
	"prep_admin_backend/internal/view"
	"prep_admin_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Admin page routes.
const (
	AdminHomePath  = "/admin"
	AdminLoginPath = "/admin/login"
)

// PageController serves the server-rendered editor pages. Every form action
// answers 303 to the page it came from; a rejected form re-renders that page
// with 422 and the message in a banner.
type PageController struct {
	Auth    *AuthController
	Lessons *service.LessonService
	Paths   *service.LearningPathService
}

func NewPageController(auth *AuthController, lessons *service.LessonService, paths *service.LearningPathService) *PageController {
	return &PageController{Auth: auth, Lessons: lessons, Paths: paths}
}

// safeNext keeps post-login redirects inside the admin pages.
func safeNext(next string) string {
	if strings.HasPrefix(next, AdminHomePath) && !strings.HasPrefix(next, "//") {
		return next
	}
	return AdminHomePath
}

func (c *PageController) LoginForm(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, view.LoginPage, view.Login{Next: ctx.Query("next")})
}

func (c *PageController) Login(ctx *gin.Context) {
	email := ctx.PostForm("email")
	next := ctx.PostForm("next")
	token, _, err := c.Auth.AuthService.Login(ctx.Request.Context(), email, ctx.PostForm("password"))
	if err != nil {
		appErr := util.AsAppError(err)
		status := appErr.Status()
		if appErr.Kind == util.KindInternal {
			logger.Log.Error("admin login failed", zap.Error(err))
		}
		ctx.HTML(status, view.LoginPage, view.Login{
			Banner: &view.Banner{Message: appErr.Message},
			Email:  email,
			Next:   next,
		})
		return
	}
	c.Auth.setSession(ctx, token)
	ctx.Redirect(http.StatusSeeOther, safeNext(next))
}

func (c *PageController) Logout(ctx *gin.Context) {
	ctx.SetCookie(middleware.TokenCookie, "", -1, "/", "", c.Auth.IsRelease, true)
	ctx.Redirect(http.StatusSeeOther, AdminLoginPath)
}

func (c *PageController) Dashboard(ctx *gin.Context) {
	lessons, err := c.Lessons.List(ctx.Request.Context(), repository.LessonFilter{})
	if err != nil {
		c.fail(ctx, err)
		return
	}
	paths, err := c.Paths.List(ctx.Request.Context())
	if err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.HTML(http.StatusOK, view.DashboardPage, view.Dashboard{Lessons: lessons, Paths: paths})
}

func (c *PageController) LessonPage(ctx *gin.Context) {
	id, err := util.ParamID(ctx, "lessonId")
	if err != nil {
		c.fail(ctx, err)
		return
	}
	c.renderLesson(ctx, http.StatusOK, id, nil)
}

func (c *PageController) LearningPathPage(ctx *gin.Context) {
	id, err := util.ParamID(ctx, "pathId")
	if err != nil {
		c.fail(ctx, err)
		return
	}
	c.renderPath(ctx, http.StatusOK, id, nil)
}

func (c *PageController) renderLesson(ctx *gin.Context, status int, id uint, banner *view.Banner) {
	lesson, err := c.Lessons.Page(ctx.Request.Context(), id)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.HTML(status, view.LessonPage, view.Lesson{
		Banner:       banner,
		Lesson:       lesson,
		SectionTypes: model.SectionTypes,
	})
}

func (c *PageController) renderPath(ctx *gin.Context, status int, id uint, banner *view.Banner) {
	detail, err := c.Paths.Detail(ctx.Request.Context(), id)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	lessons, err := c.Lessons.List(ctx.Request.Context(), repository.LessonFilter{})
	if err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.HTML(status, view.LearningPathPage, view.LearningPath{
		Banner:       banner,
		Detail:       detail,
		Lessons:      lessons,
		ContentTypes: model.ContentTypes,
	})
}

// fail renders the not found page for missing rows and the error page for
// everything else that is not a validation failure.
func (c *PageController) fail(ctx *gin.Context, err error) {
	appErr := util.AsAppError(err)
	switch appErr.Kind {
	case util.KindNotFound:
		ctx.HTML(http.StatusNotFound, view.NotFoundPage, view.Message{Title: "Không tìm thấy", Message: appErr.Message})
	case util.KindInternal:
		logger.Log.Error("admin page failed",
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.FullPath()),
			zap.Error(appErr.Err),
		)
		ctx.HTML(http.StatusInternalServerError, view.ErrorPage, view.Message{Title: "Có lỗi xảy ra", Message: appErr.Message})
	default:
		ctx.HTML(appErr.Status(), view.ErrorPage, view.Message{Title: "Không thể thực hiện", Message: appErr.Message})
	}
	ctx.Abort()
}

// lessonAction runs a form action against lesson lessonID and answers it.
func (c *PageController) lessonAction(ctx *gin.Context, lessonID uint, action func(context.Context) error) {
	if lessonID == 0 {
		c.fail(ctx, util.NewNotFoundError(util.MsgNotFound))
		return
	}
	err := action(ctx.Request.Context())
	if err == nil {
		ctx.Redirect(http.StatusSeeOther, service.LessonPagePath(lessonID))
		return
	}
	if appErr := util.AsAppError(err); appErr.Kind == util.KindValidation || appErr.Kind == util.KindConflict {
		c.renderLesson(ctx, http.StatusUnprocessableEntity, lessonID, &view.Banner{Message: appErr.Message, Fields: appErr.Fields})
		return
	}
	c.fail(ctx, err)
}

func (c *PageController) pathAction(ctx *gin.Context, pathID uint, action func(context.Context) error) {
	if pathID == 0 {
		c.fail(ctx, util.NewNotFoundError(util.MsgNotFound))
		return
	}
	err := action(ctx.Request.Context())
	if err == nil {
		ctx.Redirect(http.StatusSeeOther, service.LearningPathPagePath(pathID))
		return
	}
	if appErr := util.AsAppError(err); appErr.Kind == util.KindValidation || appErr.Kind == util.KindConflict {
		c.renderPath(ctx, http.StatusUnprocessableEntity, pathID, &view.Banner{Message: appErr.Message, Fields: appErr.Fields})
		return
	}
	c.fail(ctx, err)
}

func formID(ctx *gin.Context, name string) uint {
	return util.MustParseUint(ctx.PostForm(name))
}

// ownedBy fails with not found when the target row hangs under another
// parent than the one named by the form.
func ownedBy(parentID uint, owner func() (uint, error)) error {
	got, err := owner()
	if err != nil {
		return err
	}
	if got != parentID {
		return util.NewNotFoundError(util.MsgNotFound)
	}
	return nil
}

func (c *PageController) AddSection(ctx *gin.Context) {
	lessonID := formID(ctx, "lessonId")
	c.lessonAction(ctx, lessonID, func(rctx context.Context) error {
		var in service.SectionInput
		if err := ctx.ShouldBind(&in); err != nil {
			return util.NewValidationError(util.MsgInvalidRequest, nil)
		}
		_, err := c.Lessons.AddSection(rctx, lessonID, in)
		return err
	})
}

func (c *PageController) DeleteSection(ctx *gin.Context) {
	lessonID := formID(ctx, "lessonId")
	c.lessonAction(ctx, lessonID, func(rctx context.Context) error {
		sectionID := formID(ctx, "sectionId")
		if err := ownedBy(lessonID, func() (uint, error) { return c.Lessons.SectionOwner(rctx, sectionID) }); err != nil {
			return err
		}
		_, err := c.Lessons.DeleteSection(rctx, sectionID)
		return err
	})
}

func (c *PageController) MoveSection(ctx *gin.Context) {
	lessonID := formID(ctx, "lessonId")
	c.lessonAction(ctx, lessonID, func(rctx context.Context) error {
		delta, err := strconv.Atoi(ctx.PostForm("delta"))
		if err != nil {
			return util.NewValidationError(util.MsgInvalidRequest, nil)
		}
		sectionID := formID(ctx, "sectionId")
		if err := ownedBy(lessonID, func() (uint, error) { return c.Lessons.SectionOwner(rctx, sectionID) }); err != nil {
			return err
		}
		_, err = c.Lessons.MoveSection(rctx, sectionID, delta)
		return err
	})
}

func (c *PageController) AddQuestion(ctx *gin.Context) {
	lessonID := formID(ctx, "lessonId")
	c.lessonAction(ctx, lessonID, func(rctx context.Context) error {
		sectionID := formID(ctx, "sectionId")
		if err := ownedBy(lessonID, func() (uint, error) { return c.Lessons.SectionOwner(rctx, sectionID) }); err != nil {
			return err
		}
		var in service.LessonQuestionInput
		if err := ctx.ShouldBind(&in); err != nil {
			return util.NewValidationError(util.MsgInvalidRequest, nil)
		}
		_, err := c.Lessons.AddQuestion(rctx, sectionID, in)
		return err
	})
}

func (c *PageController) DeleteQuestion(ctx *gin.Context) {
	lessonID := formID(ctx, "lessonId")
	c.lessonAction(ctx, lessonID, func(rctx context.Context) error {
		questionID := formID(ctx, "questionId")
		if err := ownedBy(lessonID, func() (uint, error) { return c.Lessons.QuestionOwner(rctx, questionID) }); err != nil {
			return err
		}
		return c.Lessons.DeleteQuestion(rctx, questionID)
	})
}

func (c *PageController) AddPathItem(ctx *gin.Context) {
	pathID := formID(ctx, "pathId")
	c.pathAction(ctx, pathID, func(rctx context.Context) error {
		lessonID := formID(ctx, "lessonId")
		if lessonID == 0 {
			return util.NewValidationError(util.MsgRequiredFields, nil)
		}
		_, err := c.Paths.AddPathItem(rctx, pathID, lessonID)
		return err
	})
}

func (c *PageController) RemovePathItem(ctx *gin.Context) {
	pathID := formID(ctx, "pathId")
	c.pathAction(ctx, pathID, func(rctx context.Context) error {
		itemID := formID(ctx, "itemId")
		if err := ownedBy(pathID, func() (uint, error) { return c.Paths.PathItemOwner(rctx, itemID) }); err != nil {
			return err
		}
		_, err := c.Paths.RemovePathItem(rctx, itemID)
		return err
	})
}

// curriculumForm reads the add form. Blank numbers stay unset.
func curriculumForm(ctx *gin.Context) (service.CurriculumInput, error) {
	in := service.CurriculumInput{
		Title:       ctx.PostForm("title"),
		Description: ctx.PostForm("description"),
		ContentType: model.ContentType(ctx.PostForm("content_type")),
	}
	invalid := util.NewValidationError(util.MsgInvalidRequest, nil)
	var err error
	if in.WeekNumber, err = util.OptionalInt(ctx.PostForm("week_number")); err != nil {
		return in, invalid
	}
	if in.DayNumber, err = util.OptionalInt(ctx.PostForm("day_number")); err != nil {
		return in, invalid
	}
	minutes, err := util.OptionalInt(ctx.PostForm("estimated_minutes"))
	if err != nil {
		return in, invalid
	}
	in.EstimatedMinutes = model.IntValue(minutes)
	if id := formID(ctx, "lesson_id"); id != 0 {
		in.LessonID = &id
	}
	if id := formID(ctx, "exercise_id"); id != 0 {
		in.ExerciseID = &id
	}
	return in, nil
}

func (c *PageController) AddCurriculumItem(ctx *gin.Context) {
	pathID := formID(ctx, "pathId")
	c.pathAction(ctx, pathID, func(rctx context.Context) error {
		in, err := curriculumForm(ctx)
		if err != nil {
			return err
		}
		_, err = c.Paths.AddCurriculumItem(rctx, pathID, in)
		return err
	})
}

func (c *PageController) DeleteCurriculumItem(ctx *gin.Context) {
	pathID := formID(ctx, "pathId")
	c.pathAction(ctx, pathID, func(rctx context.Context) error {
		itemID := formID(ctx, "itemId")
		if err := ownedBy(pathID, func() (uint, error) { return c.Paths.CurriculumItemOwner(rctx, itemID) }); err != nil {
			return err
		}
		_, err := c.Paths.DeleteCurriculumItem(rctx, itemID)
		return err
	})
}
