package controller

import (
	"quiz_platform_backend/internal/model"
	"quiz_platform_backend/internal/service"
	"quiz_platform_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// GetMe godoc
// @Summary Caller's own profile
// @Tags users
// @Produce json
// @Success 200 {object} util.Response{data=model.User}
// @Security BearerAuth
// @Router /api/me [get]
func (c *UserController) GetMe(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	user, err := c.UserService.GetUserByID(claims.UserID)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// GetAllUsers godoc
// @Summary List all users
// @Tags users
// @Produce json
// @Success 200 {object} util.Response{data=[]model.User}
// @Security BearerAuth
// @Router /api/admin/users [get]
func (c *UserController) GetAllUsers(ctx *gin.Context) {
	users, err := c.UserService.GetAllUsers()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, users)
}

// GetUser godoc
// @Summary One user by id
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /api/admin/users/{id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	user, err := c.UserService.GetUserByID(id)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// DeleteUser godoc
// @Summary Delete a user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /api/admin/users/{id} [delete]
func (c *UserController) DeleteUser(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.UserService.DeleteUser(id); err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// swagger:model ChangeRoleRequest
type ChangeRoleRequest struct {
	Role model.UserRole `json:"role" binding:"required,oneof=USER ADMIN SUPERADMIN"`
}

// ChangeRole godoc
// @Summary Change a user's role
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param body body ChangeRoleRequest true "New role"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /api/admin/users/{id}/role [put]
func (c *UserController) ChangeRole(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	var req ChangeRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.ChangeUserRole(id, req.Role)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// AddPermission godoc
// @Summary Grant a permission to a user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Param permissionId path string true "Permission ID"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /api/admin/users/{id}/permissions/{permissionId} [post]
func (c *UserController) AddPermission(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	user, err := c.UserService.AddPermissionToUser(id, ctx.Param("permissionId"))
	if err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// RemovePermission godoc
// @Summary Revoke a permission from a user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Param permissionId path string true "Permission ID"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /api/admin/users/{id}/permissions/{permissionId} [delete]
func (c *UserController) RemovePermission(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	user, err := c.UserService.RemovePermissionFromUser(id, ctx.Param("permissionId"))
	if err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Success(ctx, user)
}
