package controller

import (
	"strconv"

	"prep_admin_backend/internal/model"
	"prep_admin_backend/internal/repository"
	"prep_admin_backend/internal/service"
	"prep_admin_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	Service *service.ProfileService
}

func NewUserController(s *service.ProfileService) *UserController {
	return &UserController{Service: s}
}

// Stats godoc
// @Summary User counters
// @Description Totals by activity, role and course
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object}
// @Router /api/users [get]
func (c *UserController) Stats(ctx *gin.Context) {
	stats, err := c.Service.Stats(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"stats": stats})
}

// List godoc
// @Summary Paginated user list
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Param role query string false "admin, teacher or student"
// @Param course query string false "TOEIC, IELTS or APTIS"
// @Param search query string false "Matches email, name or class"
// @Param is_active query bool false "Activity filter"
// @Param page query int false "Page, from 1"
// @Param page_size query int false "Rows per page, at most 100"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/users/list [get]
func (c *UserController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "20"))

	filter := repository.ProfileFilter{
		Role:     model.UserRole(ctx.Query("role")),
		Course:   model.CourseType(ctx.Query("course")),
		Search:   ctx.Query("search"),
		IsActive: util.OptionalBool(ctx.Query("is_active")),
		Page:     repository.Page{Page: page, PageSize: pageSize},
	}
	if filter.Role == "all" {
		filter.Role = ""
	}
	if filter.Course == "all" {
		filter.Course = ""
	}

	result, err := c.Service.List(ctx.Request.Context(), filter)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Create godoc
// @Summary Create a user
// @Tags users
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.ProfileInput true "Profile"
// @Success 201 {object} util.Response{data=model.Profile}
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/users [post]
func (c *UserController) Create(ctx *gin.Context) {
	var in service.ProfileInput
	if !bindJSON(ctx, &in) {
		return
	}
	profile, err := c.Service.Create(ctx.Request.Context(), in)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, profile)
}

// Update godoc
// @Summary Update a user
// @Tags users
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Profile ID"
// @Param body body service.ProfileInput true "Profile"
// @Success 200 {object} util.Response{data=model.Profile}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/users/{id} [put]
func (c *UserController) Update(ctx *gin.Context) {
	id, err := util.ParamID(ctx, "id")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	var in service.ProfileInput
	if !bindJSON(ctx, &in) {
		return
	}
	profile, err := c.Service.Update(ctx.Request.Context(), id, in)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, profile)
}

// ToggleStatus godoc
// @Summary Activate or deactivate a user
// @Tags users
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Profile ID"
// @Param body body toggleRequest true "New status"
// @Success 200 {object} util.Response{data=model.Profile}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/users/{id}/toggle-status [patch]
func (c *UserController) ToggleStatus(ctx *gin.Context) {
	id, err := util.ParamID(ctx, "id")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	var req toggleRequest
	if !bindJSON(ctx, &req) {
		return
	}
	profile, err := c.Service.SetActive(ctx.Request.Context(), actorID(ctx), id, *req.IsActive)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, profile)
}

// Delete godoc
// @Summary Delete a user
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Profile ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/users/{id} [delete]
func (c *UserController) Delete(ctx *gin.Context) {
	id, err := util.ParamID(ctx, "id")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	if err := c.Service.Delete(ctx.Request.Context(), actorID(ctx), id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
