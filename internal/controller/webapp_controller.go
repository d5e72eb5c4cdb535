package controller

import (
	"errors"

	"quiz_platform_backend/internal/config"
	"quiz_platform_backend/internal/service"
	"quiz_platform_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// WebAppController is the entry point for the telegram mini app: it turns a
// telegram identity into an account and a bearer token for the rest of the
// API.
type WebAppController struct {
	UserService *service.UserService
	JWT         config.JWTConfig
}

func NewWebAppController(userService *service.UserService, jwtCfg config.JWTConfig) *WebAppController {
	return &WebAppController{UserService: userService, JWT: jwtCfg}
}

// swagger:model WebAppAuthRequest
type WebAppAuthRequest struct {
	TelegramID string `json:"telegramId" binding:"required"`
	Username   string `json:"username" binding:"required"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
}

// Auth godoc
// @Summary Authenticate a telegram mini app user
// @Description Registers the telegram identity on first use and returns a bearer token
// @Tags webapp
// @Accept json
// @Produce json
// @Param body body WebAppAuthRequest true "Telegram identity"
// @Success 200 {object} util.Response{data=object}
// @Failure 409 {object} util.Response "Username already taken"
// @Router /api/webapp/auth [post]
func (c *WebAppController) Auth(ctx *gin.Context) {
	var req WebAppAuthRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.RegisterTelegramUser(req.TelegramID, req.Username, req.FirstName, req.LastName)
	if err != nil {
		if errors.Is(err, util.ErrUsernameTaken) {
			util.Conflict(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	token, err := util.GenerateJWT(user, c.JWT.Secret, c.JWT.ExpireTime)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"token": token,
		"user":  user,
	})
}
