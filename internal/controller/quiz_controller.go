package controller

import (
	"quiz_platform_backend/internal/service"
	"quiz_platform_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// QuizController serves the player side: the attemptable catalog and the
// whole attempt lifecycle.
type QuizController struct {
	QuizService *service.QuizService
	TestService *service.TestService
}

func NewQuizController(quizService *service.QuizService, testService *service.TestService) *QuizController {
	return &QuizController{QuizService: quizService, TestService: testService}
}

// ownedAttempt resolves the attempt and enforces that it belongs to the
// caller. Admins can read any attempt.
func (c *QuizController) ownedAttempt(ctx *gin.Context) (uint, bool) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return 0, false
	}

	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return 0, false
	}

	attempt, err := c.QuizService.GetAttempt(id)
	if err != nil {
		util.DomainError(ctx, err)
		return 0, false
	}

	if attempt.UserID != claims.UserID && !claims.Role.IsAdminRole() {
		util.Forbidden(ctx)
		return 0, false
	}
	return id, true
}

// GetActiveTests godoc
// @Summary List attemptable tests
// @Tags quiz
// @Produce json
// @Success 200 {object} util.Response{data=[]service.TestResponse}
// @Security BearerAuth
// @Router /api/tests/active [get]
func (c *QuizController) GetActiveTests(ctx *gin.Context) {
	tests, err := c.TestService.GetActiveTests()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, tests)
}

// GetActiveSubjects godoc
// @Summary List subjects with attemptable tests
// @Tags quiz
// @Produce json
// @Success 200 {object} util.Response{data=[]string}
// @Security BearerAuth
// @Router /api/tests/subjects [get]
func (c *QuizController) GetActiveSubjects(ctx *gin.Context) {
	subjects, err := c.TestService.GetActiveSubjects()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, subjects)
}

// GetActiveTestsBySubject godoc
// @Summary List attemptable tests of one subject
// @Tags quiz
// @Produce json
// @Param subject path string true "Subject"
// @Success 200 {object} util.Response{data=[]service.TestResponse}
// @Security BearerAuth
// @Router /api/tests/subjects/{subject} [get]
func (c *QuizController) GetActiveTestsBySubject(ctx *gin.Context) {
	tests, err := c.TestService.GetActiveTestsBySubject(ctx.Param("subject"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, tests)
}

// StartTest godoc
// @Summary Start (or resume) an attempt
// @Description Opens an attempt for the caller; if an active attempt already exists it is returned unchanged
// @Tags quiz
// @Produce json
// @Param id path int true "Test ID"
// @Success 200 {object} util.Response{data=model.UserTest}
// @Failure 400 {object} util.Response "Test is not active"
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /api/tests/{id}/start [post]
func (c *QuizController) StartTest(ctx *gin.Context) {
	testID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	attempt, err := c.QuizService.StartTest(claims.UserID, testID)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Success(ctx, attempt)
}

// SubmitAnswerRequest carries one answer submission.
// swagger:model SubmitAnswerRequest
type SubmitAnswerRequest struct {
	QuestionID uint   `json:"questionId" binding:"required"`
	OptionIDs  []uint `json:"optionIds"`
}

// SubmitAnswer godoc
// @Summary Submit (or overwrite) the answer for one question
// @Tags quiz
// @Accept json
// @Produce json
// @Param id path int true "Attempt ID"
// @Param body body SubmitAnswerRequest true "Selected options"
// @Success 200 {object} util.Response{data=model.UserAnswer}
// @Failure 400 {object} util.Response "Attempt is completed or expired"
// @Failure 409 {object} util.Response "Question or option does not belong here"
// @Security BearerAuth
// @Router /api/attempts/{id}/answers [post]
func (c *QuizController) SubmitAnswer(ctx *gin.Context) {
	attemptID, ok := c.ownedAttempt(ctx)
	if !ok {
		return
	}

	var req SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	answer, err := c.QuizService.SubmitAnswer(attemptID, req.QuestionID, req.OptionIDs)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Success(ctx, answer)
}

// CompleteTest godoc
// @Summary Finalize an attempt
// @Description Scores and closes the attempt; completing twice is a no-op
// @Tags quiz
// @Produce json
// @Param id path int true "Attempt ID"
// @Success 200 {object} util.Response{data=model.UserTest}
// @Security BearerAuth
// @Router /api/attempts/{id}/complete [post]
func (c *QuizController) CompleteTest(ctx *gin.Context) {
	attemptID, ok := c.ownedAttempt(ctx)
	if !ok {
		return
	}

	attempt, err := c.QuizService.CompleteTest(attemptID)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Success(ctx, attempt)
}

// GetNextQuestion godoc
// @Summary Next unanswered question
// @Description Returns null data when every question has been answered
// @Tags quiz
// @Produce json
// @Param id path int true "Attempt ID"
// @Success 200 {object} util.Response{data=service.QuestionResponse}
// @Failure 400 {object} util.Response "Attempt is completed or expired"
// @Security BearerAuth
// @Router /api/attempts/{id}/next-question [get]
func (c *QuizController) GetNextQuestion(ctx *gin.Context) {
	attemptID, ok := c.ownedAttempt(ctx)
	if !ok {
		return
	}

	question, err := c.QuizService.GetNextQuestion(attemptID)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// GetAllQuestions godoc
// @Summary All questions of the attempt's test
// @Tags quiz
// @Produce json
// @Param id path int true "Attempt ID"
// @Success 200 {object} util.Response{data=[]service.QuestionResponse}
// @Security BearerAuth
// @Router /api/attempts/{id}/questions [get]
func (c *QuizController) GetAllQuestions(ctx *gin.Context) {
	attemptID, ok := c.ownedAttempt(ctx)
	if !ok {
		return
	}

	questions, err := c.QuizService.GetAllQuestions(attemptID)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// GetTestProgress godoc
// @Summary Attempt progress
// @Tags quiz
// @Produce json
// @Param id path int true "Attempt ID"
// @Success 200 {object} util.Response{data=service.TestProgressResponse}
// @Security BearerAuth
// @Router /api/attempts/{id}/progress [get]
func (c *QuizController) GetTestProgress(ctx *gin.Context) {
	attemptID, ok := c.ownedAttempt(ctx)
	if !ok {
		return
	}

	progress, err := c.QuizService.GetTestProgress(attemptID)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// GetTestResult godoc
// @Summary Attempt result with per-question breakdown
// @Description Reading the result of an expired attempt finalizes it first
// @Tags quiz
// @Produce json
// @Param id path int true "Attempt ID"
// @Success 200 {object} util.Response{data=service.TestResultResponse}
// @Security BearerAuth
// @Router /api/attempts/{id}/result [get]
func (c *QuizController) GetTestResult(ctx *gin.Context) {
	attemptID, ok := c.ownedAttempt(ctx)
	if !ok {
		return
	}

	result, err := c.QuizService.GetTestResult(attemptID)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// GetHistory godoc
// @Summary Caller's completed attempts
// @Tags quiz
// @Produce json
// @Success 200 {object} util.Response{data=[]service.TestResultResponse}
// @Security BearerAuth
// @Router /api/me/history [get]
func (c *QuizController) GetHistory(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	history, err := c.QuizService.GetUserTestHistory(claims.UserID)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Success(ctx, history)
}
