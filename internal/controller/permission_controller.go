package controller

import (
	"quiz_platform_backend/internal/service"
	"quiz_platform_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PermissionController struct {
	PermissionService *service.PermissionService
}

func NewPermissionController(permissionService *service.PermissionService) *PermissionController {
	return &PermissionController{PermissionService: permissionService}
}

// swagger:model PermissionRequest
type PermissionRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// GetAllPermissions godoc
// @Summary List all permissions
// @Tags permissions
// @Produce json
// @Success 200 {object} util.Response{data=[]model.Permission}
// @Security BearerAuth
// @Router /api/admin/permissions [get]
func (c *PermissionController) GetAllPermissions(ctx *gin.Context) {
	permissions, err := c.PermissionService.GetAllPermissions()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, permissions)
}

// CreatePermission godoc
// @Summary Create a permission
// @Tags permissions
// @Accept json
// @Produce json
// @Param body body PermissionRequest true "Permission"
// @Success 201 {object} util.Response{data=model.Permission}
// @Security BearerAuth
// @Router /api/admin/permissions [post]
func (c *PermissionController) CreatePermission(ctx *gin.Context) {
	var req PermissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	permission, err := c.PermissionService.CreatePermission(req.Name, req.Description)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, permission)
}

// UpdatePermission godoc
// @Summary Update a permission
// @Tags permissions
// @Accept json
// @Produce json
// @Param id path string true "Permission ID"
// @Param body body PermissionRequest true "Permission"
// @Success 200 {object} util.Response{data=model.Permission}
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /api/admin/permissions/{id} [put]
func (c *PermissionController) UpdatePermission(ctx *gin.Context) {
	var req PermissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	permission, err := c.PermissionService.UpdatePermission(ctx.Param("id"), req.Name, req.Description)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Success(ctx, permission)
}

// DeletePermission godoc
// @Summary Delete a permission
// @Tags permissions
// @Produce json
// @Param id path string true "Permission ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /api/admin/permissions/{id} [delete]
func (c *PermissionController) DeletePermission(ctx *gin.Context) {
	if err := c.PermissionService.DeletePermission(ctx.Param("id")); err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
