package controller

import (
	"net/http"

	"prep_admin_backend/internal/authoring"
	"prep_admin_backend/internal/model"
	"prep_admin_backend/internal/repository"
	"prep_admin_backend/internal/service"
	"prep_admin_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// ExerciseController serves the exercise bank. Its responses keep the bare
// shapes the exercise screens read: {exercises}, {exercise}, {success}.
type ExerciseController struct {
	Service *service.ExerciseService
}

func NewExerciseController(s *service.ExerciseService) *ExerciseController {
	return &ExerciseController{Service: s}
}

// List godoc
// @Summary List exercises
// @Tags exercises
// @Produce json
// @Security ApiKeyAuth
// @Param exercise_type query string false "multiple_choice, true_false, fill_blank, essay or mixed"
// @Param difficulty_level query string false "easy, medium or hard"
// @Param search query string false "Matches title or description"
// @Success 200 {object} map[string][]model.Exercise
// @Router /api/exercises [get]
func (c *ExerciseController) List(ctx *gin.Context) {
	filter := repository.ExerciseFilter{
		ExerciseType:    model.ExerciseType(ctx.Query("exercise_type")),
		DifficultyLevel: model.Difficulty(ctx.Query("difficulty_level")),
		Search:          ctx.Query("search"),
	}
	if filter.ExerciseType == "all" {
		filter.ExerciseType = ""
	}
	if filter.DifficultyLevel == "all" {
		filter.DifficultyLevel = ""
	}

	exercises, err := c.Service.List(ctx.Request.Context(), filter)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"exercises": exercises})
}

// Get godoc
// @Summary Exercise with its questions in order
// @Tags exercises
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Exercise ID"
// @Success 200 {object} map[string]model.Exercise
// @Failure 404 {object} util.Response
// @Router /api/exercises/{id} [get]
func (c *ExerciseController) Get(ctx *gin.Context) {
	id, err := util.ParamID(ctx, "id")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	exercise, err := c.Service.Get(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"exercise": exercise})
}

// Create godoc
// @Summary Create an exercise with its questions
// @Tags exercises
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body authoring.SavePayload true "Exercise and questions"
// @Success 201 {object} map[string]model.Exercise
// @Failure 400 {object} util.Response
// @Router /api/exercises [post]
func (c *ExerciseController) Create(ctx *gin.Context) {
	var payload authoring.SavePayload
	if !bindJSON(ctx, &payload) {
		return
	}
	exercise, err := c.Service.Create(ctx.Request.Context(), actorID(ctx), payload)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"exercise": exercise})
}

// Update godoc
// @Summary Save exercise fields and question edits
// @Tags exercises
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Exercise ID"
// @Param body body authoring.SavePayload true "Exercise, new, edited and removed questions"
// @Success 200 {object} map[string]model.Exercise
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/exercises/{id} [put]
func (c *ExerciseController) Update(ctx *gin.Context) {
	id, err := util.ParamID(ctx, "id")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	var payload authoring.SavePayload
	if !bindJSON(ctx, &payload) {
		return
	}
	exercise, err := c.Service.Update(ctx.Request.Context(), id, payload)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"exercise": exercise})
}

// Delete godoc
// @Summary Delete an exercise and its questions
// @Tags exercises
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Exercise ID"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} util.Response
// @Router /api/exercises/{id} [delete]
func (c *ExerciseController) Delete(ctx *gin.Context) {
	id, err := util.ParamID(ctx, "id")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	if err := c.Service.Delete(ctx.Request.Context(), id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// ToggleStatus godoc
// @Summary Activate or deactivate an exercise
// @Tags exercises
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Exercise ID"
// @Param body body toggleRequest true "New status"
// @Success 200 {object} map[string]model.Exercise
// @Failure 404 {object} util.Response
// @Router /api/exercises/{id}/toggle-status [patch]
func (c *ExerciseController) ToggleStatus(ctx *gin.Context) {
	id, err := util.ParamID(ctx, "id")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	var req toggleRequest
	if !bindJSON(ctx, &req) {
		return
	}
	exercise, err := c.Service.SetActive(ctx.Request.Context(), id, *req.IsActive)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"exercise": exercise})
}

// UploadFile godoc
// @Summary Upload an exercise source document
// @Description Accepts .docx and .pdf files up to the configured size
// @Tags exercises
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "Word or PDF document"
// @Success 200 {object} map[string]map[string]string
// @Failure 400 {object} util.Response
// @Router /api/exercises/upload-file [post]
func (c *ExerciseController) UploadFile(ctx *gin.Context) {
	file, closeFile, err := formFile(ctx, "file")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	defer closeFile()

	url, err := c.Service.UploadSourceFile(ctx.Request.Context(), file)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": gin.H{"publicUrl": url}})
}
