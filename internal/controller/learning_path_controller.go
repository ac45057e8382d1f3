package controller

import (
	"prep_admin_backend/internal/service"
	"prep_admin_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LearningPathController struct {
	Service *service.LearningPathService
}

func NewLearningPathController(s *service.LearningPathService) *LearningPathController {
	return &LearningPathController{Service: s}
}

type curriculumOrderRequest struct {
	WeekNumber *int   `json:"week_number"`
	IDs        []uint `json:"ids" binding:"required"`
}

type pathItemRequest struct {
	LessonID uint `json:"lesson_id" binding:"required"`
}

// List godoc
// @Summary Learning paths with progress
// @Tags learning-paths
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.PathWithProgress}
// @Router /api/learning-paths [get]
func (c *LearningPathController) List(ctx *gin.Context) {
	paths, err := c.Service.List(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, paths)
}

// Public godoc
// @Summary Active learning paths grouped by course type
// @Tags learning-paths
// @Produce json
// @Success 200 {object} util.Response{data=object}
// @Router /api/public/learning-paths [get]
func (c *LearningPathController) Public(ctx *gin.Context) {
	grouped, err := c.Service.PublicByCourse(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, grouped)
}

// Get godoc
// @Summary Learning path with curriculum weeks and path items
// @Tags learning-paths
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Learning path ID"
// @Success 200 {object} util.Response{data=service.PathDetail}
// @Failure 404 {object} util.Response
// @Router /api/learning-paths/{id} [get]
func (c *LearningPathController) Get(ctx *gin.Context) {
	id, err := util.ParamID(ctx, "id")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	detail, err := c.Service.Detail(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// Create godoc
// @Summary Create a learning path
// @Tags learning-paths
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.PathInput true "Learning path"
// @Success 201 {object} util.Response{data=model.LearningPath}
// @Failure 400 {object} util.Response
// @Router /api/learning-paths [post]
func (c *LearningPathController) Create(ctx *gin.Context) {
	var in service.PathInput
	if !bindJSON(ctx, &in) {
		return
	}
	path, err := c.Service.Create(ctx.Request.Context(), actorID(ctx), in)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, path)
}

// Update godoc
// @Summary Update a learning path
// @Tags learning-paths
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Learning path ID"
// @Param body body service.PathInput true "Learning path"
// @Success 200 {object} util.Response{data=model.LearningPath}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/learning-paths/{id} [put]
func (c *LearningPathController) Update(ctx *gin.Context) {
	id, err := util.ParamID(ctx, "id")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	var in service.PathInput
	if !bindJSON(ctx, &in) {
		return
	}
	path, err := c.Service.Update(ctx.Request.Context(), id, in)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, path)
}

// Delete godoc
// @Summary Delete a learning path with its curriculum and items
// @Tags learning-paths
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Learning path ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/learning-paths/{id} [delete]
func (c *LearningPathController) Delete(ctx *gin.Context) {
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

// AddCurriculumItem godoc
// @Summary Append a curriculum item to its week
// @Tags curriculum
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Learning path ID"
// @Param body body service.CurriculumInput true "Curriculum item"
// @Success 201 {object} util.Response{data=model.CurriculumItem}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/learning-paths/{id}/curriculum [post]
func (c *LearningPathController) AddCurriculumItem(ctx *gin.Context) {
	id, err := util.ParamID(ctx, "id")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	var in service.CurriculumInput
	if !bindJSON(ctx, &in) {
		return
	}
	item, err := c.Service.AddCurriculumItem(ctx.Request.Context(), id, in)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, item)
}

// ReorderCurriculum godoc
// @Summary Reorder the items of one week
// @Tags curriculum
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Learning path ID"
// @Param body body curriculumOrderRequest true "Week and every item id of it in the new order"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/learning-paths/{id}/curriculum/reorder [put]
func (c *LearningPathController) ReorderCurriculum(ctx *gin.Context) {
	id, err := util.ParamID(ctx, "id")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	var req curriculumOrderRequest
	if !bindJSON(ctx, &req) {
		return
	}
	if err := c.Service.ReorderCurriculum(ctx.Request.Context(), id, req.WeekNumber, req.IDs); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// MoveCurriculumItem godoc
// @Summary Move a curriculum item up or down within its week
// @Tags curriculum
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param itemId path int true "Curriculum item ID"
// @Param body body moveRequest true "Positions to move, negative is up"
// @Success 200 {object} util.Response
// @Router /api/curriculum-items/{itemId}/move [patch]
func (c *LearningPathController) MoveCurriculumItem(ctx *gin.Context) {
	id, err := util.ParamID(ctx, "itemId")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	var req moveRequest
	if !bindJSON(ctx, &req) {
		return
	}
	if _, err := c.Service.MoveCurriculumItem(ctx.Request.Context(), id, req.Delta); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// UpdateCurriculumItem godoc
// @Summary Update a curriculum item
// @Description Changing the week moves the item to the end of the new week
// @Tags curriculum
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param itemId path int true "Curriculum item ID"
// @Param body body service.CurriculumInput true "Curriculum item"
// @Success 200 {object} util.Response{data=model.CurriculumItem}
// @Router /api/curriculum-items/{itemId} [put]
func (c *LearningPathController) UpdateCurriculumItem(ctx *gin.Context) {
	id, err := util.ParamID(ctx, "itemId")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	var in service.CurriculumInput
	if !bindJSON(ctx, &in) {
		return
	}
	item, err := c.Service.UpdateCurriculumItem(ctx.Request.Context(), id, in)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, item)
}

// DeleteCurriculumItem godoc
// @Summary Delete a curriculum item
// @Tags curriculum
// @Produce json
// @Security ApiKeyAuth
// @Param itemId path int true "Curriculum item ID"
// @Success 200 {object} util.Response
// @Router /api/curriculum-items/{itemId} [delete]
func (c *LearningPathController) DeleteCurriculumItem(ctx *gin.Context) {
	id, err := util.ParamID(ctx, "itemId")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	if _, err := c.Service.DeleteCurriculumItem(ctx.Request.Context(), id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ListItems godoc
// @Summary Lessons attached to a learning path, in order
// @Tags path-items
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Learning path ID"
// @Success 200 {object} util.Response{data=[]service.PathItemView}
// @Router /api/learning-paths/{id}/items [get]
func (c *LearningPathController) ListItems(ctx *gin.Context) {
	id, err := util.ParamID(ctx, "id")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	items, err := c.Service.ListPathItems(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, items)
}

// AddItem godoc
// @Summary Attach a lesson at the end of a learning path
// @Tags path-items
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Learning path ID"
// @Param body body pathItemRequest true "Lesson"
// @Success 201 {object} util.Response{data=model.PathItem}
// @Failure 409 {object} util.Response
// @Router /api/learning-paths/{id}/items [post]
func (c *LearningPathController) AddItem(ctx *gin.Context) {
	id, err := util.ParamID(ctx, "id")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	var req pathItemRequest
	if !bindJSON(ctx, &req) {
		return
	}
	item, err := c.Service.AddPathItem(ctx.Request.Context(), id, req.LessonID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, item)
}

// ReorderItems godoc
// @Summary Reorder the lessons of a learning path
// @Tags path-items
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Learning path ID"
// @Param body body orderRequest true "Every path item id in the new order"
// @Success 200 {object} util.Response
// @Router /api/learning-paths/{id}/items/reorder [put]
func (c *LearningPathController) ReorderItems(ctx *gin.Context) {
	id, err := util.ParamID(ctx, "id")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	var req orderRequest
	if !bindJSON(ctx, &req) {
		return
	}
	if err := c.Service.ReorderPathItems(ctx.Request.Context(), id, req.IDs); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// RemoveItem godoc
// @Summary Detach a lesson from its learning path
// @Tags path-items
// @Produce json
// @Security ApiKeyAuth
// @Param itemId path int true "Path item ID"
// @Success 200 {object} util.Response
// @Router /api/path-items/{itemId} [delete]
func (c *LearningPathController) RemoveItem(ctx *gin.Context) {
	id, err := util.ParamID(ctx, "itemId")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	if _, err := c.Service.RemovePathItem(ctx.Request.Context(), id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
