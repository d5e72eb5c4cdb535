package controller

import (
	"quiz_platform_backend/internal/model"
	"quiz_platform_backend/internal/service"
	"quiz_platform_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// TaskController manages the caller's personal tasks. Every route below
// derives the owner from the token, never from the request body.
type TaskController struct {
	TaskService *service.TaskService
}

func NewTaskController(taskService *service.TaskService) *TaskController {
	return &TaskController{TaskService: taskService}
}

func callerID(ctx *gin.Context) (uint, bool) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return 0, false
	}
	return claims.UserID, true
}

// CreateTask godoc
// @Summary Create a task
// @Tags tasks
// @Accept json
// @Produce json
// @Param body body service.TaskCreateRequest true "Task"
// @Success 201 {object} util.Response{data=model.Task}
// @Security BearerAuth
// @Router /api/tasks [post]
func (c *TaskController) CreateTask(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}

	var req service.TaskCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	task, err := c.TaskService.CreateTask(userID, req)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Created(ctx, task)
}

// GetTasks godoc
// @Summary List the caller's tasks
// @Description Optional filters: status, category, important=true, overdue=true
// @Tags tasks
// @Produce json
// @Param status query string false "Status filter"
// @Param category query string false "Category filter"
// @Param important query bool false "Only important tasks"
// @Param overdue query bool false "Only overdue tasks"
// @Success 200 {object} util.Response{data=[]model.Task}
// @Security BearerAuth
// @Router /api/tasks [get]
func (c *TaskController) GetTasks(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}

	var (
		tasks []model.Task
		err   error
	)
	switch {
	case ctx.Query("status") != "":
		tasks, err = c.TaskService.GetUserTasksByStatus(userID, model.TaskStatus(ctx.Query("status")))
	case ctx.Query("category") != "":
		tasks, err = c.TaskService.GetUserTasksByCategory(userID, ctx.Query("category"))
	case ctx.Query("important") == "true":
		tasks, err = c.TaskService.GetImportantTasks(userID)
	case ctx.Query("overdue") == "true":
		tasks, err = c.TaskService.GetOverdueTasks(userID)
	default:
		tasks, err = c.TaskService.GetUserTasks(userID)
	}
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, tasks)
}

// GetTask godoc
// @Summary One task of the caller
// @Tags tasks
// @Produce json
// @Param id path int true "Task ID"
// @Success 200 {object} util.Response{data=model.Task}
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /api/tasks/{id} [get]
func (c *TaskController) GetTask(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	task, err := c.TaskService.GetTask(userID, id)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Success(ctx, task)
}

// UpdateTask godoc
// @Summary Update task fields
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path int true "Task ID"
// @Param body body service.TaskUpdateRequest true "Fields to change"
// @Success 200 {object} util.Response{data=model.Task}
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /api/tasks/{id} [put]
func (c *TaskController) UpdateTask(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	var req service.TaskUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	task, err := c.TaskService.UpdateTask(userID, id, req)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Success(ctx, task)
}

// swagger:model ChangeTaskStatusRequest
type ChangeTaskStatusRequest struct {
	Status model.TaskStatus `json:"status" binding:"required,oneof=CREATED IN_PROGRESS COMPLETED"`
}

// ChangeStatus godoc
// @Summary Move a task through its lifecycle
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path int true "Task ID"
// @Param body body ChangeTaskStatusRequest true "New status"
// @Success 200 {object} util.Response{data=model.Task}
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /api/tasks/{id}/status [put]
func (c *TaskController) ChangeStatus(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	var req ChangeTaskStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	task, err := c.TaskService.ChangeTaskStatus(userID, id, req.Status)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Success(ctx, task)
}

// DeleteTask godoc
// @Summary Delete a task of the caller
// @Tags tasks
// @Produce json
// @Param id path int true "Task ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /api/tasks/{id} [delete]
func (c *TaskController) DeleteTask(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.TaskService.DeleteTask(userID, id); err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// GetStatistics godoc
// @Summary Caller's task statistics
// @Tags tasks
// @Produce json
// @Success 200 {object} util.Response{data=service.TaskStatistics}
// @Security BearerAuth
// @Router /api/tasks/statistics [get]
func (c *TaskController) GetStatistics(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}

	stats, err := c.TaskService.GetTaskStatistics(userID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}
