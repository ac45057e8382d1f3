package controller

import (
	"prep_admin_backend/internal/model"
	"prep_admin_backend/internal/repository"
	"prep_admin_backend/internal/service"
	"prep_admin_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LessonController struct {
	Service *service.LessonService
}

func NewLessonController(s *service.LessonService) *LessonController {
	return &LessonController{Service: s}
}

// List godoc
// @Summary List lessons
// @Tags lessons
// @Produce json
// @Security ApiKeyAuth
// @Param type query string false "Lesson type"
// @Param course_type query string false "Course type"
// @Param search query string false "Title search"
// @Success 200 {object} util.Response{data=[]model.Lesson}
// @Router /api/lessons [get]
func (c *LessonController) List(ctx *gin.Context) {
	filter := repository.LessonFilter{
		Type:       model.LessonType(ctx.Query("type")),
		CourseType: model.CourseType(ctx.Query("course_type")),
		Search:     ctx.Query("search"),
	}
	if filter.Type == "all" {
		filter.Type = ""
	}
	if filter.CourseType == "all" {
		filter.CourseType = ""
	}
	lessons, err := c.Service.List(ctx.Request.Context(), filter)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, lessons)
}

// Get godoc
// @Summary Lesson with its sections and questions
// @Tags lessons
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Lesson ID"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Failure 404 {object} util.Response
// @Router /api/lessons/{id} [get]
func (c *LessonController) Get(ctx *gin.Context) {
	id, err := util.ParamID(ctx, "id")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	lesson, err := c.Service.Page(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// Create godoc
// @Summary Create a lesson
// @Tags lessons
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.LessonInput true "Lesson"
// @Success 201 {object} util.Response{data=model.Lesson}
// @Failure 400 {object} util.Response
// @Router /api/lessons [post]
func (c *LessonController) Create(ctx *gin.Context) {
	var in service.LessonInput
	if !bindJSON(ctx, &in) {
		return
	}
	lesson, err := c.Service.Create(ctx.Request.Context(), actorID(ctx), in)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, lesson)
}

// Update godoc
// @Summary Update a lesson
// @Tags lessons
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Lesson ID"
// @Param body body service.LessonInput true "Lesson"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Router /api/lessons/{id} [put]
func (c *LessonController) Update(ctx *gin.Context) {
	id, err := util.ParamID(ctx, "id")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	var in service.LessonInput
	if !bindJSON(ctx, &in) {
		return
	}
	lesson, err := c.Service.Update(ctx.Request.Context(), id, in)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// Delete godoc
// @Summary Delete a lesson with its sections and questions
// @Tags lessons
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Lesson ID"
// @Success 200 {object} util.Response
// @Router /api/lessons/{id} [delete]
func (c *LessonController) Delete(ctx *gin.Context) {
	id, err := util.ParamID(ctx, "id")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	if err := c.Service.Delete(ctx.Request.Context(), id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// AddSection godoc
// @Summary Append a section to a lesson
// @Tags sections
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Lesson ID"
// @Param body body service.SectionInput true "Section"
// @Success 201 {object} util.Response{data=model.TestSection}
// @Failure 404 {object} util.Response
// @Router /api/lessons/{id}/sections [post]
func (c *LessonController) AddSection(ctx *gin.Context) {
	id, err := util.ParamID(ctx, "id")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	var in service.SectionInput
	if !bindJSON(ctx, &in) {
		return
	}
	section, err := c.Service.AddSection(ctx.Request.Context(), id, in)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, section)
}

// ReorderSections godoc
// @Summary Reorder the sections of a lesson
// @Tags sections
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Lesson ID"
// @Param body body orderRequest true "Every section id in the new order"
// @Success 200 {object} util.Response
// @Router /api/lessons/{id}/sections/reorder [put]
func (c *LessonController) ReorderSections(ctx *gin.Context) {
	id, err := util.ParamID(ctx, "id")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	var req orderRequest
	if !bindJSON(ctx, &req) {
		return
	}
	if err := c.Service.ReorderSections(ctx.Request.Context(), id, req.IDs); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// UpdateSection godoc
// @Summary Update a section
// @Tags sections
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param sectionId path int true "Section ID"
// @Param body body service.SectionInput true "Section"
// @Success 200 {object} util.Response{data=model.TestSection}
// @Router /api/sections/{sectionId} [put]
func (c *LessonController) UpdateSection(ctx *gin.Context) {
	id, err := util.ParamID(ctx, "sectionId")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	var in service.SectionInput
	if !bindJSON(ctx, &in) {
		return
	}
	section, err := c.Service.UpdateSection(ctx.Request.Context(), id, in)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, section)
}

// MoveSection godoc
// @Summary Move a section up or down
// @Tags sections
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param sectionId path int true "Section ID"
// @Param body body moveRequest true "Positions to move, negative is up"
// @Success 200 {object} util.Response
// @Router /api/sections/{sectionId}/move [patch]
func (c *LessonController) MoveSection(ctx *gin.Context) {
	id, err := util.ParamID(ctx, "sectionId")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	var req moveRequest
	if !bindJSON(ctx, &req) {
		return
	}
	if _, err := c.Service.MoveSection(ctx.Request.Context(), id, req.Delta); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// DeleteSection godoc
// @Summary Delete a section with its questions
// @Tags sections
// @Produce json
// @Security ApiKeyAuth
// @Param sectionId path int true "Section ID"
// @Success 200 {object} util.Response
// @Router /api/sections/{sectionId} [delete]
func (c *LessonController) DeleteSection(ctx *gin.Context) {
	id, err := util.ParamID(ctx, "sectionId")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	if _, err := c.Service.DeleteSection(ctx.Request.Context(), id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// UploadAudio godoc
// @Summary Upload the listening audio of a section
// @Tags sections
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param sectionId path int true "Section ID"
// @Param file formData file true "Audio file"
// @Success 200 {object} util.Response{data=model.TestSection}
// @Failure 400 {object} util.Response
// @Router /api/sections/{sectionId}/audio [post]
func (c *LessonController) UploadAudio(ctx *gin.Context) {
	id, err := util.ParamID(ctx, "sectionId")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	file, closeFile, err := formFile(ctx, "file")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	defer closeFile()

	section, err := c.Service.UploadSectionAudio(ctx.Request.Context(), id, file)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, section)
}

// AddQuestion godoc
// @Summary Append a question to a section
// @Tags questions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param sectionId path int true "Section ID"
// @Param body body service.LessonQuestionInput true "Question"
// @Success 201 {object} util.Response{data=model.Question}
// @Failure 400 {object} util.Response
// @Router /api/sections/{sectionId}/questions [post]
func (c *LessonController) AddQuestion(ctx *gin.Context) {
	id, err := util.ParamID(ctx, "sectionId")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	var in service.LessonQuestionInput
	if !bindJSON(ctx, &in) {
		return
	}
	question, err := c.Service.AddQuestion(ctx.Request.Context(), id, in)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, question)
}

// ReorderQuestions godoc
// @Summary Reorder the questions of a section
// @Tags questions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param sectionId path int true "Section ID"
// @Param body body orderRequest true "Every question id in the new order"
// @Success 200 {object} util.Response
// @Router /api/sections/{sectionId}/questions/reorder [put]
func (c *LessonController) ReorderQuestions(ctx *gin.Context) {
	id, err := util.ParamID(ctx, "sectionId")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	var req orderRequest
	if !bindJSON(ctx, &req) {
		return
	}
	if err := c.Service.ReorderQuestions(ctx.Request.Context(), id, req.IDs); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// UpdateQuestion godoc
// @Summary Update a question
// @Tags questions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param questionId path int true "Question ID"
// @Param body body service.LessonQuestionInput true "Question"
// @Success 200 {object} util.Response{data=model.Question}
// @Router /api/questions/{questionId} [put]
func (c *LessonController) UpdateQuestion(ctx *gin.Context) {
	id, err := util.ParamID(ctx, "questionId")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	var in service.LessonQuestionInput
	if !bindJSON(ctx, &in) {
		return
	}
	question, err := c.Service.UpdateQuestion(ctx.Request.Context(), id, in)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// MoveQuestion godoc
// @Summary Move a question up or down within its section
// @Tags questions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param questionId path int true "Question ID"
// @Param body body moveRequest true "Positions to move, negative is up"
// @Success 200 {object} util.Response
// @Router /api/questions/{questionId}/move [patch]
func (c *LessonController) MoveQuestion(ctx *gin.Context) {
	id, err := util.ParamID(ctx, "questionId")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	var req moveRequest
	if !bindJSON(ctx, &req) {
		return
	}
	if err := c.Service.MoveQuestion(ctx.Request.Context(), id, req.Delta); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// DeleteQuestion godoc
// @Summary Delete a question
// @Tags questions
// @Produce json
// @Security ApiKeyAuth
// @Param questionId path int true "Question ID"
// @Success 200 {object} util.Response
// @Router /api/questions/{questionId} [delete]
func (c *LessonController) DeleteQuestion(ctx *gin.Context) {
	id, err := util.ParamID(ctx, "questionId")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	if err := c.Service.DeleteQuestion(ctx.Request.Context(), id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
