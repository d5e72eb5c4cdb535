package controller

import (
	"quiz_platform_backend/internal/service"
	"quiz_platform_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// TestController is the authoring surface: create, replace, delete and
// (de)activate tests. Admin-only, enforced by the router's role middleware.
type TestController struct {
	TestService *service.TestService
}

func NewTestController(testService *service.TestService) *TestController {
	return &TestController{TestService: testService}
}

// GetAllTests godoc
// @Summary List all tests, active or not
// @Tags authoring
// @Produce json
// @Success 200 {object} util.Response{data=[]service.TestResponse}
// @Security BearerAuth
// @Router /api/admin/tests [get]
func (c *TestController) GetAllTests(ctx *gin.Context) {
	tests, err := c.TestService.GetAllTests()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, tests)
}

// GetTest godoc
// @Summary Full test definition including answers
// @Tags authoring
// @Produce json
// @Param id path int true "Test ID"
// @Success 200 {object} util.Response{data=model.Test}
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /api/admin/tests/{id} [get]
func (c *TestController) GetTest(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	test, err := c.TestService.GetTestByID(id)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Success(ctx, test)
}

// CreateTest godoc
// @Summary Create a test with its question graph
// @Tags authoring
// @Accept json
// @Produce json
// @Param body body service.TestCreateRequest true "Test definition"
// @Success 201 {object} util.Response{data=model.Test}
// @Failure 400 {object} util.Response
// @Security BearerAuth
// @Router /api/admin/tests [post]
func (c *TestController) CreateTest(ctx *gin.Context) {
	var req service.TestCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	test, err := c.TestService.CreateTest(req, claims.UserID)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Created(ctx, test)
}

// UpdateTest godoc
// @Summary Overwrite a test and its whole question graph
// @Tags authoring
// @Accept json
// @Produce json
// @Param id path int true "Test ID"
// @Param body body service.TestCreateRequest true "Complete definition"
// @Success 200 {object} util.Response{data=model.Test}
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /api/admin/tests/{id} [put]
func (c *TestController) UpdateTest(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	var req service.TestCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	test, err := c.TestService.UpdateTest(id, req)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Success(ctx, test)
}

// DeleteTest godoc
// @Summary Delete a test and its questions
// @Tags authoring
// @Produce json
// @Param id path int true "Test ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /api/admin/tests/{id} [delete]
func (c *TestController) DeleteTest(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.TestService.DeleteTest(id); err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ActivateTest godoc
// @Summary Open a test for attempts
// @Tags authoring
// @Produce json
// @Param id path int true "Test ID"
// @Success 200 {object} util.Response{data=model.Test}
// @Security BearerAuth
// @Router /api/admin/tests/{id}/activate [post]
func (c *TestController) ActivateTest(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	test, err := c.TestService.ActivateTest(id)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Success(ctx, test)
}

// DeactivateTest godoc
// @Summary Close a test to new attempts
// @Tags authoring
// @Produce json
// @Param id path int true "Test ID"
// @Success 200 {object} util.Response{data=model.Test}
// @Security BearerAuth
// @Router /api/admin/tests/{id}/deactivate [post]
func (c *TestController) DeactivateTest(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	test, err := c.TestService.DeactivateTest(id)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Success(ctx, test)
}
